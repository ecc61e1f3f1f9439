package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los contadores de la app en un registry propio.
// Todos los métodos aceptan receptor nil para que los tests no tengan que armarlo.
type Metrics struct {
	registry       *prometheus.Registry
	itemsSaved     *prometheus.CounterVec
	itemsSold      prometheus.Counter
	itemsExported  prometheus.Counter
	settingsWrites *prometheus.CounterVec
}

// New registra los contadores.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	itemsSaved := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_items_saved_total",
			Help: "Item entry submissions by result",
		},
		[]string{"result"},
	)
	itemsSold := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_items_sold_total",
		Help: "Quantity decrements requested",
	})
	itemsExported := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_items_exported_total",
		Help: "Encrypted item exports written",
	})
	settingsWrites := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_settings_writes_total",
			Help: "Settings persisted by setting name",
		},
		[]string{"setting"},
	)

	registry.MustRegister(itemsSaved, itemsSold, itemsExported, settingsWrites)

	return &Metrics{
		registry:       registry,
		itemsSaved:     itemsSaved,
		itemsSold:      itemsSold,
		itemsExported:  itemsExported,
		settingsWrites: settingsWrites,
	}
}

// Handler expone el registry en formato prometheus.
func (metrics *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{})
}

// ItemSaved cuenta un alta; result es "saved" o "invalid".
func (metrics *Metrics) ItemSaved(result string) {
	if metrics == nil {
		return
	}
	metrics.itemsSaved.WithLabelValues(result).Inc()
}

// ItemSold cuenta un descuento de stock.
func (metrics *Metrics) ItemSold() {
	if metrics == nil {
		return
	}
	metrics.itemsSold.Inc()
}

// ItemExported cuenta una exportación completa.
func (metrics *Metrics) ItemExported() {
	if metrics == nil {
		return
	}
	metrics.itemsExported.Inc()
}

// SettingWritten cuenta una escritura de preferencia.
func (metrics *Metrics) SettingWritten(name string) {
	if metrics == nil {
		return
	}
	metrics.settingsWrites.WithLabelValues(name).Inc()
}
