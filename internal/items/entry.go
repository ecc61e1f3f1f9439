package items

import (
	"context"
	"sync"
)

// EntryModel sostiene el formulario de alta, lo valida y lo guarda.
type EntryModel struct {
	repository ItemsRepository

	mu    sync.RWMutex
	state ItemUIState
}

// NewEntryModel crea un formulario vacío.
func NewEntryModel(repository ItemsRepository) *EntryModel {
	return &EntryModel{
		repository: repository,
		state:      NewItemUIState(),
	}
}

// UIState devuelve el estado actual del formulario.
func (model *EntryModel) UIState() ItemUIState {
	model.mu.RLock()
	defer model.mu.RUnlock()
	return model.state
}

// UpdateUIState reemplaza los datos y recalcula todos los flags.
func (model *EntryModel) UpdateUIState(details ItemDetails) {
	state := Validate(details)

	model.mu.Lock()
	model.state = state
	model.mu.Unlock()
}

// SaveItem vuelve a validar y, solo si es válido, inserta el item.
// Si no es válido no hace nada y no devuelve error.
func (model *EntryModel) SaveItem(ctx context.Context) error {
	details := model.UIState().ItemDetails
	if !ValidateInput(details) {
		return nil
	}
	return model.repository.Insert(ctx, details.ToItem())
}
