package settings

import (
	"strconv"
	"sync"
)

// Nombres de las preferencias persistidas.
const (
	SensitiveDataVisible = "sensitive_data_visible"
	ShareIsActive        = "share_is_active"
	UseDefaultQuantity   = "use_default_quantity"
	DefaultQuantityKey   = "default_quantity"
)

// defaultQuantity es el valor cuando nunca se guardó uno.
const defaultQuantity = "42"

// CheckboxNames son los flags que maneja la pantalla, en orden.
var CheckboxNames = []string{SensitiveDataVisible, ShareIsActive, UseDefaultQuantity}

// Preferences es el almacenamiento cifrado de preferencias.
// securestore.Store lo implementa.
type Preferences interface {
	GetBoolean(key string, def bool) (bool, error)
	PutBoolean(key string, value bool) error
	GetString(key, def string) (string, error)
	PutString(key, value string) error
}

// Model es el estado de la pantalla de ajustes.
// Cada escritura se persiste antes de volver.
type Model struct {
	preferences Preferences

	mu              sync.RWMutex
	checkboxes      map[string]bool
	defaultQuantity string
}

// NewModel carga los tres flags (false si no existen) y la cantidad por defecto.
func NewModel(preferences Preferences) (*Model, error) {
	checkboxes := make(map[string]bool, len(CheckboxNames))
	for _, name := range CheckboxNames {
		value, err := preferences.GetBoolean(name, false)
		if err != nil {
			return nil, err
		}
		checkboxes[name] = value
	}

	quantity, err := preferences.GetString(DefaultQuantityKey, defaultQuantity)
	if err != nil {
		return nil, err
	}

	return &Model{
		preferences:     preferences,
		checkboxes:      checkboxes,
		defaultQuantity: quantity,
	}, nil
}

// CheckboxStates devuelve una copia del mapa en memoria.
func (model *Model) CheckboxStates() map[string]bool {
	model.mu.RLock()
	defer model.mu.RUnlock()

	states := make(map[string]bool, len(model.checkboxes))
	for name, value := range model.checkboxes {
		states[name] = value
	}
	return states
}

// CheckboxState devuelve el valor en memoria de name y si está en el mapa.
func (model *Model) CheckboxState(name string) (bool, bool) {
	model.mu.RLock()
	defer model.mu.RUnlock()
	value, ok := model.checkboxes[name]
	return value, ok
}

// SettingValue lee name directo del store; false si nunca se guardó.
func (model *Model) SettingValue(name string) (bool, error) {
	return model.preferences.GetBoolean(name, false)
}

// SetSettingValue guarda name y actualiza el mapa.
// Si el store falla el mapa queda como estaba.
func (model *Model) SetSettingValue(name string, checked bool) error {
	model.mu.Lock()
	defer model.mu.Unlock()

	if err := model.preferences.PutBoolean(name, checked); err != nil {
		return err
	}
	model.checkboxes[name] = checked
	return nil
}

// DefaultQuantity devuelve la cantidad por defecto tal como está guardada.
func (model *Model) DefaultQuantity() string {
	model.mu.RLock()
	defer model.mu.RUnlock()
	return model.defaultQuantity
}

// SetQuantity guarda quantity como texto.
func (model *Model) SetQuantity(quantity int) error {
	model.mu.Lock()
	defer model.mu.Unlock()

	text := strconv.Itoa(quantity)
	if err := model.preferences.PutString(DefaultQuantityKey, text); err != nil {
		return err
	}
	model.defaultQuantity = text
	return nil
}
