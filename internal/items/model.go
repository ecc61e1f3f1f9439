package items

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Item representa un registro persistido en DB.
// Nunca se modifica en el lugar: toda mutación es un reemplazo completo.
type Item struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Supplier      string  `json:"supplier"`
	SupplierEmail string  `json:"supplier_email"`
	SupplierPhone string  `json:"supplier_phone"`
}

// ItemDetails es el item tal como se edita: price y quantity quedan como
// texto crudo para tolerar entradas a medio escribir.
type ItemDetails struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	Quantity      string `json:"quantity"`
	Supplier      string `json:"supplier"`
	SupplierEmail string `json:"supplier_email"`
	SupplierPhone string `json:"supplier_phone"`
}

// ItemUIState es el estado del formulario de alta/edición.
type ItemUIState struct {
	ItemDetails          ItemDetails `json:"item_details"`
	IsEntryValid         bool        `json:"is_entry_valid"`
	IsSupplierValid      bool        `json:"is_supplier_valid"`
	IsSupplierPhoneValid bool        `json:"is_supplier_phone_valid"`
	IsSupplierEmailValid bool        `json:"is_supplier_email_valid"`
}

// NewItemUIState devuelve el estado de un formulario vacío.
// El alta arranca inválida pero sin marcar errores en los campos del proveedor.
func NewItemUIState() ItemUIState {
	return ItemUIState{
		IsSupplierValid:      true,
		IsSupplierPhoneValid: true,
		IsSupplierEmailValid: true,
	}
}

// ItemDetailsUIState es la proyección de solo lectura del item persistido.
type ItemDetailsUIState struct {
	OutOfStock  bool        `json:"out_of_stock"`
	ItemDetails ItemDetails `json:"item_details"`
}

// NewItemDetailsUIState es la semilla antes de la primera emisión del store.
func NewItemDetailsUIState() ItemDetailsUIState {
	return ItemDetailsUIState{OutOfStock: true}
}

// ToItem convierte a Item. Si price no es un decimal válido queda en 0;
// lo mismo con quantity si no es un entero. No es un error: se coacciona.
func (details ItemDetails) ToItem() Item {
	return Item{
		ID:            details.ID,
		Name:          details.Name,
		Price:         parsePrice(details.Price),
		Quantity:      parseQuantity(details.Quantity),
		Supplier:      details.Supplier,
		SupplierEmail: details.SupplierEmail,
		SupplierPhone: details.SupplierPhone,
	}
}

// ToItemDetails convierte un Item a su forma editable.
func (item Item) ToItemDetails() ItemDetails {
	return ItemDetails{
		ID:            item.ID,
		Name:          item.Name,
		Price:         decimal.NewFromFloat(item.Price).String(),
		Quantity:      strconv.Itoa(item.Quantity),
		Supplier:      item.Supplier,
		SupplierEmail: item.SupplierEmail,
		SupplierPhone: item.SupplierPhone,
	}
}

// ToItemUIState arma el estado de formulario a partir de un item ya persistido.
func (item Item) ToItemUIState(isEntryValid, isSupplierValid, isSupplierPhoneValid, isSupplierEmailValid bool) ItemUIState {
	return ItemUIState{
		ItemDetails:          item.ToItemDetails(),
		IsEntryValid:         isEntryValid,
		IsSupplierValid:      isSupplierValid,
		IsSupplierPhoneValid: isSupplierPhoneValid,
		IsSupplierEmailValid: isSupplierEmailValid,
	}
}

// FormattedPrice devuelve el precio como moneda, ej: "$12.50".
func (item Item) FormattedPrice() string {
	amount := decimal.NewFromFloat(item.Price)
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// ToDetailsUIState proyecta el item al estado de la pantalla de detalle.
func (item Item) ToDetailsUIState() ItemDetailsUIState {
	return ItemDetailsUIState{
		OutOfStock:  item.Quantity <= 0,
		ItemDetails: item.ToItemDetails(),
	}
}

func parsePrice(value string) float64 {
	price, err := decimal.NewFromString(value)
	if err != nil {
		return 0
	}
	return price.InexactFloat64()
}

func parseQuantity(value string) int {
	quantity, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return quantity
}

// isBlank replica la noción de "vacío" de los formularios: solo espacios cuenta como vacío.
func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
