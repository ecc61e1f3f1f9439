package settings

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Lelo88/inventory-api-golang/internal/httpx"
	"github.com/Lelo88/inventory-api-golang/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ModelAPI es lo que la pantalla necesita del modelo de ajustes.
type ModelAPI interface {
	CheckboxStates() map[string]bool
	CheckboxState(name string) (bool, bool)
	SetSettingValue(name string, checked bool) error
	DefaultQuantity() string
	SetQuantity(quantity int) error
}

var labels = map[string]string{
	SensitiveDataVisible: "Hide sensitive data",
	ShareIsActive:        "Prohibit sending data from the application",
	UseDefaultQuantity:   "Use default quantity in stock",
}

type checkboxRow struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// screenState es lo que renderiza la pantalla de ajustes.
type screenState struct {
	Checkboxes      []checkboxRow `json:"checkboxes"`
	DefaultQuantity string        `json:"default_quantity"`
	QuantityText    string        `json:"quantity_text"`
	QuantityValid   bool          `json:"quantity_valid"`
	CanNavigateBack bool          `json:"can_navigate_back"`
}

type checkboxInput struct {
	Checked *bool `json:"checked"`
}

type quantityInput struct {
	Text *string `json:"text"`
}

// Handler HTTP de la pantalla de ajustes.
type Handler struct {
	model   ModelAPI
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewHandler crea el handler de ajustes.
func NewHandler(model ModelAPI, metrics *metrics.Metrics, logger zerolog.Logger) *Handler {
	return &Handler{model: model, metrics: metrics, logger: logger}
}

// Get maneja GET /settings.
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	httpx.OK(writer, request, http.StatusOK, handler.render(handler.model.DefaultQuantity()))
}

// SetCheckbox maneja PUT /settings/checkboxes/{name}.
func (handler *Handler) SetCheckbox(writer http.ResponseWriter, request *http.Request) {
	name := chi.URLParam(request, "name")
	if _, known := labels[name]; !known {
		httpx.Fail(writer, request, http.StatusNotFound, "not_found", "setting not found")
		return
	}

	var input checkboxInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return
	}
	if input.Checked == nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", "checked is required")
		return
	}

	if err := handler.model.SetSettingValue(name, *input.Checked); err != nil {
		handler.internalError(writer, request, err, "persist setting failed")
		return
	}
	handler.metrics.SettingWritten(name)

	httpx.OK(writer, request, http.StatusOK, handler.render(handler.model.DefaultQuantity()))
}

// SetDefaultQuantity maneja PUT /settings/default-quantity.
// El texto solo se guarda si es un entero positivo; si no es entero la
// pantalla no deja volver atrás, pero no es un error del request.
func (handler *Handler) SetDefaultQuantity(writer http.ResponseWriter, request *http.Request) {
	var input quantityInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return
	}
	if input.Text == nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", "text is required")
		return
	}

	if quantity, err := strconv.Atoi(*input.Text); err == nil && quantity > 0 {
		if err := handler.model.SetQuantity(quantity); err != nil {
			handler.internalError(writer, request, err, "persist default quantity failed")
			return
		}
		handler.metrics.SettingWritten(DefaultQuantityKey)
	}

	httpx.OK(writer, request, http.StatusOK, handler.render(*input.Text))
}

// render arma el estado con text como contenido actual del campo de cantidad.
func (handler *Handler) render(text string) screenState {
	states := handler.model.CheckboxStates()

	rows := make([]checkboxRow, 0, len(CheckboxNames))
	for _, name := range CheckboxNames {
		rows = append(rows, checkboxRow{Name: name, Label: labels[name], Checked: states[name]})
	}

	_, err := strconv.Atoi(text)
	valid := err == nil

	return screenState{
		Checkboxes:      rows,
		DefaultQuantity: handler.model.DefaultQuantity(),
		QuantityText:    text,
		QuantityValid:   valid,
		CanNavigateBack: valid,
	}
}

func (handler *Handler) internalError(writer http.ResponseWriter, request *http.Request, err error, message string) {
	handler.logger.Error().Err(err).Str("request_id", httpx.RequestIDFrom(request)).Msg(message)
	httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
}
