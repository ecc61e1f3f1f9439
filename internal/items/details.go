package items

import (
	"context"
	"sync"
	"time"

	"github.com/Lelo88/inventory-api-golang/internal/live"
)

// detailsStopTimeout es cuánto sigue vivo el stream después de que se va el último observador.
const detailsStopTimeout = 5 * time.Second

// DetailsModel expone el item id como estado vivo y las acciones de la pantalla de detalle.
type DetailsModel struct {
	itemID     int
	repository ItemsRepository
	exporter   *Exporter
	state      *live.StateHolder[ItemDetailsUIState]
}

// NewDetailsModel crea el modelo del item id.
func NewDetailsModel(itemID int, repository ItemsRepository, exporter *Exporter) *DetailsModel {
	model := &DetailsModel{
		itemID:     itemID,
		repository: repository,
		exporter:   exporter,
	}
	model.state = live.NewStateHolder(NewItemDetailsUIState(), detailsStopTimeout, model.project)
	return model
}

// project filtra los nil del store y mapea cada item a su estado de detalle.
func (model *DetailsModel) project(ctx context.Context) <-chan ItemDetailsUIState {
	items := model.repository.Stream(ctx, model.itemID)
	out := make(chan ItemDetailsUIState)

	go func() {
		defer close(out)
		for item := range items {
			if item == nil {
				continue
			}
			select {
			case out <- item.ToDetailsUIState():
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// ItemID devuelve el id del item observado.
func (model *DetailsModel) ItemID() int {
	return model.itemID
}

// UIState devuelve el último estado visto.
func (model *DetailsModel) UIState() ItemDetailsUIState {
	return model.state.Value()
}

// Subscribe agrega un observador del estado.
func (model *DetailsModel) Subscribe() *live.Subscription[ItemDetailsUIState] {
	return model.state.Subscribe()
}

// Refresh relee el item desde el store y devuelve el estado resultante.
// Las acciones posteriores trabajan sobre esa foto.
func (model *DetailsModel) Refresh(ctx context.Context) (ItemDetailsUIState, error) {
	return model.state.Fresh(ctx)
}

// ReduceQuantityByOne descuenta una unidad sobre la última foto vista.
// No es atómico en el store: dos llamadas concurrentes pueden descontar una sola vez.
func (model *DetailsModel) ReduceQuantityByOne(ctx context.Context) error {
	current := model.UIState().ItemDetails.ToItem()
	if current.Quantity <= 0 {
		return nil
	}
	current.Quantity--
	return model.repository.Update(ctx, current)
}

// DeleteItem borra el item de la última foto vista.
func (model *DetailsModel) DeleteItem(ctx context.Context) error {
	return model.repository.Delete(ctx, model.UIState().ItemDetails.ToItem())
}

// SaveFileToCache cifra item para destination y lo deja en un archivo de cache.
// Devuelve la ruta del archivo.
func (model *DetailsModel) SaveFileToCache(item Item, destination string) (string, error) {
	return model.exporter.SaveFileToCache(item, destination)
}

// DumpCacheToSharedStorage copia el archivo de cache tal cual a destination.
func (model *DetailsModel) DumpCacheToSharedStorage(cacheFile string, destination Destination) error {
	return model.exporter.DumpCacheToSharedStorage(cacheFile, destination)
}

// DetailsModels guarda un DetailsModel por item para que el stream siga
// tibio entre requests.
type DetailsModels struct {
	repository ItemsRepository
	exporter   *Exporter

	mu     sync.Mutex
	models map[int]*DetailsModel
}

// NewDetailsModels crea el registro vacío.
func NewDetailsModels(repository ItemsRepository, exporter *Exporter) *DetailsModels {
	return &DetailsModels{
		repository: repository,
		exporter:   exporter,
		models:     make(map[int]*DetailsModel),
	}
}

// Details devuelve el modelo de id, creándolo la primera vez.
func (registry *DetailsModels) Details(id int) DetailsAPI {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	model, ok := registry.models[id]
	if !ok {
		model = NewDetailsModel(id, registry.repository, registry.exporter)
		registry.models[id] = model
	}
	return model
}
