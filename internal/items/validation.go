package items

import "regexp"

// Mismas expresiones que usa Android en Patterns.PHONE y Patterns.EMAIL_ADDRESS,
// ancladas porque el valor completo tiene que matchear.
var (
	phonePattern = regexp.MustCompile(`^(\+[0-9]+[\- \.]*)?(\([0-9]+\)[\- \.]*)?([0-9][0-9\- \.]+[0-9])$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`)
)

// ValidateInput indica si el formulario completo es válido.
func ValidateInput(details ItemDetails) bool {
	return !isBlank(details.Name) && !isBlank(details.Price) && !isBlank(details.Quantity) &&
		ValidateSupplier(details) && ValidateSupplierPhone(details) && ValidateSupplierEmail(details)
}

// ValidateSupplier exige proveedor no vacío.
func ValidateSupplier(details ItemDetails) bool {
	return !isBlank(details.Supplier)
}

// ValidateSupplierPhone exige un teléfono no vacío con formato válido.
func ValidateSupplierPhone(details ItemDetails) bool {
	return !isBlank(details.SupplierPhone) && phonePattern.MatchString(details.SupplierPhone)
}

// ValidateSupplierEmail exige un email no vacío con formato válido.
func ValidateSupplierEmail(details ItemDetails) bool {
	return !isBlank(details.SupplierEmail) && emailPattern.MatchString(details.SupplierEmail)
}

// Validate recalcula de cero el estado de formulario para details.
func Validate(details ItemDetails) ItemUIState {
	return ItemUIState{
		ItemDetails:          details,
		IsEntryValid:         ValidateInput(details),
		IsSupplierValid:      ValidateSupplier(details),
		IsSupplierPhoneValid: ValidateSupplierPhone(details),
		IsSupplierEmailValid: ValidateSupplierEmail(details),
	}
}
