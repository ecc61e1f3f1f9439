package items

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Lelo88/inventory-api-golang/internal/httpx"
	"github.com/Lelo88/inventory-api-golang/internal/live"
	"github.com/Lelo88/inventory-api-golang/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// ServiceAPI define lo que el handler necesita del service.
// Permite testear handlers con stubs sin tocar DB.
type ServiceAPI interface {
	List(ctx context.Context, page, limit int, query string) ([]Item, int, error)
	Get(ctx context.Context, id int) (Item, error)
	Update(ctx context.Context, id int, details ItemDetails) (ItemUIState, error)
}

// DetailsAPI es la pantalla de detalle de un item.
type DetailsAPI interface {
	ItemID() int
	UIState() ItemDetailsUIState
	Subscribe() *live.Subscription[ItemDetailsUIState]
	Refresh(ctx context.Context) (ItemDetailsUIState, error)
	ReduceQuantityByOne(ctx context.Context) error
	DeleteItem(ctx context.Context) error
	SaveFileToCache(item Item, destination string) (string, error)
	DumpCacheToSharedStorage(cacheFile string, destination Destination) error
}

// DetailsProvider entrega el DetailsAPI de cada item.
type DetailsProvider interface {
	Details(id int) DetailsAPI
}

// refreshTimeout acota cuánto se espera la primera emisión del stream.
const refreshTimeout = 2 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler HTTP para items.
// Solo traduce HTTP <-> modelos de pantalla.
type Handler struct {
	service    ServiceAPI
	repository ItemsRepository
	details    DetailsProvider
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewHandler crea un handler de items.
func NewHandler(service ServiceAPI, repository ItemsRepository, details DetailsProvider, metrics *metrics.Metrics, logger zerolog.Logger) *Handler {
	return &Handler{
		service:    service,
		repository: repository,
		details:    details,
		metrics:    metrics,
		logger:     logger,
	}
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Create maneja POST /items: es la pantalla de alta.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var details ItemDetails
	if err := json.NewDecoder(request.Body).Decode(&details); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return
	}
	// El id lo asigna la DB.
	details.ID = 0

	entry := NewEntryModel(handler.repository)
	entry.UpdateUIState(details)
	state := entry.UIState()

	if !state.IsEntryValid {
		handler.metrics.ItemSaved("invalid")
		httpx.FailWithData(writer, request, http.StatusBadRequest, "invalid_input", "invalid input data", state)
		return
	}

	if err := entry.SaveItem(request.Context()); err != nil {
		handler.internalError(writer, request, err, "save item failed")
		return
	}

	handler.metrics.ItemSaved("saved")
	httpx.OK(writer, request, http.StatusCreated, state)
}

// List maneja GET /items con paginación y búsqueda.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	page, limit, err := parsePagination(request)
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_pagination", "invalid pagination parameters")
		return
	}

	query := strings.TrimSpace(request.URL.Query().Get("query"))

	items, total, err := handler.service.List(request.Context(), page, limit, query)
	if err != nil {
		switch {
		case errors.Is(err, ErrorInvalidInput):
			httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", "invalid input data")
		default:
			handler.internalError(writer, request, err, "list items failed")
		}
		return
	}

	httpx.OK(writer, request, http.StatusOK, map[string]any{
		"items": items,
		"pagination": pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

// parsePagination parsea page y limit con defaults y límites razonables.
func parsePagination(request *http.Request) (int, int, error) {
	const (
		defaultPage  = 1
		defaultLimit = 20
		maxLimit     = 100
	)

	query := request.URL.Query()

	page := defaultPage
	limit := defaultLimit

	if value := strings.TrimSpace(query.Get("page")); value != "" {
		pageNumber, err := strconv.Atoi(value)
		if err != nil {
			return 0, 0, err
		}
		if pageNumber < 1 {
			return 0, 0, fmt.Errorf("page must be >= 1")
		}
		page = pageNumber
	}

	if value := strings.TrimSpace(query.Get("limit")); value != "" {
		limitNumber, err := strconv.Atoi(value)
		if err != nil {
			return 0, 0, err
		}
		if limitNumber < 1 {
			return 0, 0, fmt.Errorf("limit must be >= 1")
		}
		if limitNumber > maxLimit {
			limitNumber = maxLimit
		}
		limit = limitNumber
	}

	return page, limit, nil
}

// GetByID maneja GET /items/{id}: estado de la pantalla de detalle.
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	item, details, ok := handler.loadDetails(writer, request)
	if !ok {
		return
	}

	httpx.OK(writer, request, http.StatusOK, map[string]any{
		"state":           details.UIState(),
		"formatted_price": item.FormattedPrice(),
	})
}

// Update maneja PUT /items/{id}: la pantalla de edición, reemplazo completo.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	var details ItemDetails
	if err := json.NewDecoder(request.Body).Decode(&details); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return
	}

	state, err := handler.service.Update(request.Context(), id, details)
	if err != nil {
		switch {
		case errors.Is(err, ErrorInvalidInput):
			httpx.FailWithData(writer, request, http.StatusBadRequest, "invalid_input", "invalid input data", state)
		case errors.Is(err, ErrorNotFound):
			httpx.Fail(writer, request, http.StatusNotFound, "not_found", "item not found")
		default:
			handler.internalError(writer, request, err, "update item failed")
		}
		return
	}

	httpx.OK(writer, request, http.StatusOK, state)
}

// Sell maneja POST /items/{id}/sell: descuenta una unidad si hay stock.
func (handler *Handler) Sell(writer http.ResponseWriter, request *http.Request) {
	_, details, ok := handler.loadDetails(writer, request)
	if !ok {
		return
	}

	if err := details.ReduceQuantityByOne(request.Context()); err != nil {
		handler.writeMutationError(writer, request, err, "reduce quantity failed")
		return
	}

	handler.metrics.ItemSold()
	writer.WriteHeader(http.StatusNoContent)
}

// Delete maneja DELETE /items/{id}.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	_, details, ok := handler.loadDetails(writer, request)
	if !ok {
		return
	}

	if err := details.DeleteItem(request.Context()); err != nil {
		handler.writeMutationError(writer, request, err, "delete item failed")
		return
	}

	// 204 No Content: respuesta vacía.
	writer.WriteHeader(http.StatusNoContent)
}

// Export maneja POST /items/{id}/export?destination=...
// Responde con iv||ciphertext del item cifrado para ese destino.
func (handler *Handler) Export(writer http.ResponseWriter, request *http.Request) {
	destination := strings.TrimSpace(request.URL.Query().Get("destination"))
	if destination == "" {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_destination", "destination is required")
		return
	}

	item, details, ok := handler.loadDetails(writer, request)
	if !ok {
		return
	}

	cacheFile, err := details.SaveFileToCache(item, destination)
	if err != nil {
		handler.internalError(writer, request, err, "export cache write failed")
		return
	}
	defer os.Remove(cacheFile)

	writer.Header().Set("Content-Type", "application/octet-stream")
	writer.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="item-%d.enc"`, item.ID))
	writer.WriteHeader(http.StatusOK)

	if err := details.DumpCacheToSharedStorage(cacheFile, WriterDestination(writer)); err != nil {
		// Los headers ya salieron: solo queda loguear.
		handler.logger.Error().Err(err).Int("item_id", item.ID).Msg("export copy failed")
		return
	}
	handler.metrics.ItemExported()
}

// Live maneja GET /items/{id}/live: websocket con cada estado nuevo del detalle.
func (handler *Handler) Live(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}
	if _, err := handler.service.Get(request.Context(), id); err != nil {
		handler.writeLookupError(writer, request, err)
		return
	}

	conn, err := upgrader.Upgrade(writer, request, nil)
	if err != nil {
		handler.logger.Warn().Err(err).Int("item_id", id).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	subscription := handler.details.Details(id).Subscribe()
	defer subscription.Close()

	// El cliente no manda nada; leer solo sirve para enterarse del cierre.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case state, open := <-subscription.C:
			if !open {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(state); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// loadDetails valida el id, confirma que el item existe y espera el estado vivo.
func (handler *Handler) loadDetails(writer http.ResponseWriter, request *http.Request) (Item, DetailsAPI, bool) {
	id, ok := parseID(writer, request)
	if !ok {
		return Item{}, nil, false
	}

	item, err := handler.service.Get(request.Context(), id)
	if err != nil {
		handler.writeLookupError(writer, request, err)
		return Item{}, nil, false
	}

	details := handler.details.Details(id)

	ctx, cancel := context.WithTimeout(request.Context(), refreshTimeout)
	defer cancel()
	if _, err := details.Refresh(ctx); err != nil {
		handler.internalError(writer, request, err, "item state not available")
		return Item{}, nil, false
	}

	return item, details, true
}

func (handler *Handler) writeLookupError(writer http.ResponseWriter, request *http.Request, err error) {
	if errors.Is(err, ErrorNotFound) {
		httpx.Fail(writer, request, http.StatusNotFound, "not_found", "item not found")
		return
	}
	handler.internalError(writer, request, err, "get item failed")
}

func (handler *Handler) writeMutationError(writer http.ResponseWriter, request *http.Request, err error, message string) {
	if errors.Is(err, ErrorNotFound) {
		httpx.Fail(writer, request, http.StatusNotFound, "not_found", "item not found")
		return
	}
	handler.internalError(writer, request, err, message)
}

// internalError loguea el detalle y responde 500 sin filtrar nada interno.
func (handler *Handler) internalError(writer http.ResponseWriter, request *http.Request, err error, message string) {
	handler.logger.Error().Err(err).Str("request_id", httpx.RequestIDFrom(request)).Msg(message)
	httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
}

// parseID lee {id} y responde 400 si no es un entero positivo.
func parseID(writer http.ResponseWriter, request *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(request, "id"))
	if err != nil || id < 1 {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}
