package items_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Lelo88/inventory-api-golang/internal/httpx"
	"github.com/Lelo88/inventory-api-golang/internal/items"
	"github.com/Lelo88/inventory-api-golang/internal/live"
	"github.com/Lelo88/inventory-api-golang/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	listFn   func(ctx context.Context, page, limit int, query string) ([]items.Item, int, error)
	getFn    func(ctx context.Context, id int) (items.Item, error)
	updateFn func(ctx context.Context, id int, details items.ItemDetails) (items.ItemUIState, error)

	listCalled bool
	listPage   int
	listLimit  int
	listQuery  string

	getCalled bool
	getID     int

	updateCalled  bool
	updateID      int
	updateDetails items.ItemDetails
}

func (service *stubService) List(ctx context.Context, page, limit int, query string) ([]items.Item, int, error) {
	service.listCalled = true
	service.listPage = page
	service.listLimit = limit
	service.listQuery = query
	if service.listFn != nil {
		return service.listFn(ctx, page, limit, query)
	}
	return nil, 0, nil
}

func (service *stubService) Get(ctx context.Context, id int) (items.Item, error) {
	service.getCalled = true
	service.getID = id
	if service.getFn != nil {
		return service.getFn(ctx, id)
	}
	return items.Item{ID: id}, nil
}

func (service *stubService) Update(ctx context.Context, id int, details items.ItemDetails) (items.ItemUIState, error) {
	service.updateCalled = true
	service.updateID = id
	service.updateDetails = details
	if service.updateFn != nil {
		return service.updateFn(ctx, id, details)
	}
	return items.Validate(details), nil
}

// stubRepository implementa items.ItemsRepository para el alta.
type stubRepository struct {
	insertErr error
	inserted  []items.Item
}

func (repository *stubRepository) Stream(ctx context.Context, id int) <-chan *items.Item {
	out := make(chan *items.Item)
	close(out)
	return out
}

func (repository *stubRepository) Insert(ctx context.Context, item items.Item) error {
	repository.inserted = append(repository.inserted, item)
	return repository.insertErr
}

func (repository *stubRepository) Update(ctx context.Context, item items.Item) error { return nil }

func (repository *stubRepository) Delete(ctx context.Context, item items.Item) error { return nil }

// stubDetails implementa items.DetailsAPI. Los estados nuevos entran por updates.
type stubDetails struct {
	id      int
	state   items.ItemDetailsUIState
	holder  *live.StateHolder[items.ItemDetailsUIState]
	updates chan items.ItemDetailsUIState
	dir     string

	refreshErr error
	reduceErr  error
	deleteErr  error
	saveErr    error

	reduceCalled bool
	deleteCalled bool
	savedItem    items.Item
	savedFor     string
	cacheFile    string
}

func newStubDetails(t *testing.T, id int, state items.ItemDetailsUIState) *stubDetails {
	t.Helper()

	details := &stubDetails{
		id:      id,
		state:   state,
		updates: make(chan items.ItemDetailsUIState, 4),
		dir:     t.TempDir(),
	}
	details.holder = live.NewStateHolder(state, 0, func(ctx context.Context) <-chan items.ItemDetailsUIState {
		out := make(chan items.ItemDetailsUIState)
		go func() {
			defer close(out)
			for {
				select {
				case next := <-details.updates:
					select {
					case out <- next:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	})
	return details
}

func (details *stubDetails) ItemID() int { return details.id }

func (details *stubDetails) UIState() items.ItemDetailsUIState { return details.state }

func (details *stubDetails) Subscribe() *live.Subscription[items.ItemDetailsUIState] {
	return details.holder.Subscribe()
}

func (details *stubDetails) Refresh(ctx context.Context) (items.ItemDetailsUIState, error) {
	if details.refreshErr != nil {
		return items.ItemDetailsUIState{}, details.refreshErr
	}
	return details.state, nil
}

func (details *stubDetails) ReduceQuantityByOne(ctx context.Context) error {
	details.reduceCalled = true
	return details.reduceErr
}

func (details *stubDetails) DeleteItem(ctx context.Context) error {
	details.deleteCalled = true
	return details.deleteErr
}

func (details *stubDetails) SaveFileToCache(item items.Item, destination string) (string, error) {
	details.savedItem = item
	details.savedFor = destination
	if details.saveErr != nil {
		return "", details.saveErr
	}
	details.cacheFile = filepath.Join(details.dir, "cache.enc")
	return details.cacheFile, os.WriteFile(details.cacheFile, []byte("iv-and-ciphertext"), 0o600)
}

func (details *stubDetails) DumpCacheToSharedStorage(cacheFile string, destination items.Destination) error {
	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return err
	}
	output, err := destination.OpenOutput()
	if err != nil {
		return err
	}
	defer output.Close()
	_, err = output.Write(data)
	return err
}

type stubProvider struct {
	mu        sync.Mutex
	details   *stubDetails
	requested []int
}

func (provider *stubProvider) Details(id int) items.DetailsAPI {
	provider.mu.Lock()
	defer provider.mu.Unlock()
	provider.requested = append(provider.requested, id)
	return provider.details
}

func newTestHandler(service items.ServiceAPI, repository items.ItemsRepository, provider items.DetailsProvider) *items.Handler {
	return items.NewHandler(service, repository, provider, metrics.New(), zerolog.Nop())
}

func sampleState() items.ItemDetailsUIState {
	return items.Item{ID: 1, Name: "Hammer", Price: 12.5, Quantity: 3, Supplier: "Acme"}.ToDetailsUIState()
}

const validBody = `{"name":"Hammer","price":"12.50","quantity":"3","supplier":"Acme","supplier_email":"sales@acme.com","supplier_phone":"555-1234"}`

func TestHandler_Create(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		repository := &stubRepository{}
		handler := newTestHandler(&stubService{}, repository, &stubProvider{})

		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "invalid_json", resp.Error.Code)
		require.Empty(t, repository.inserted)
	})

	t.Run("invalid input returns the form flags", func(t *testing.T) {
		repository := &stubRepository{}
		handler := newTestHandler(&stubService{}, repository, &stubProvider{})

		body := `{"name":"Hammer","price":"1","quantity":"1","supplier":"Acme","supplier_email":"nope","supplier_phone":"555-1234"}`
		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "invalid_input", resp.Error.Code)
		data := asMap(t, resp.Data)
		require.Equal(t, false, data["is_entry_valid"])
		require.Equal(t, false, data["is_supplier_email_valid"])
		require.Equal(t, true, data["is_supplier_phone_valid"])
		require.Empty(t, repository.inserted)
	})

	t.Run("store error", func(t *testing.T) {
		repository := &stubRepository{insertErr: errors.New("boom")}
		handler := newTestHandler(&stubService{}, repository, &stubProvider{})

		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(validBody))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "internal_error", resp.Error.Code)
		require.NotContains(t, rec.Body.String(), "boom")
	})

	t.Run("success ignores a client id", func(t *testing.T) {
		repository := &stubRepository{}
		handler := newTestHandler(&stubService{}, repository, &stubProvider{})

		body := strings.Replace(validBody, `{`, `{"id":77,`, 1)
		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, true, asMap(t, resp.Data)["is_entry_valid"])
		require.Equal(t, []items.Item{{
			Name:          "Hammer",
			Price:         12.5,
			Quantity:      3,
			Supplier:      "Acme",
			SupplierEmail: "sales@acme.com",
			SupplierPhone: "555-1234",
		}}, repository.inserted)
	})
}

func TestHandler_List(t *testing.T) {
	t.Run("invalid pagination value", func(t *testing.T) {
		for _, query := range []string{"page=abc", "page=0", "limit=-1"} {
			service := &stubService{}
			handler := newTestHandler(service, &stubRepository{}, &stubProvider{})

			req := httptest.NewRequest(http.MethodGet, "/items?"+query, nil)
			rec := httptest.NewRecorder()

			handler.List(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code, query)
			resp := decodeResponse(t, rec)
			require.Equal(t, "invalid_pagination", resp.Error.Code)
			require.False(t, service.listCalled)
		}
	})

	t.Run("internal error", func(t *testing.T) {
		service := &stubService{
			listFn: func(ctx context.Context, page, limit int, query string) ([]items.Item, int, error) {
				return nil, 0, errors.New("boom")
			},
		}
		handler := newTestHandler(service, &stubRepository{}, &stubProvider{})

		req := httptest.NewRequest(http.MethodGet, "/items?page=1&limit=10", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "internal_error", resp.Error.Code)
	})

	t.Run("success with defaults and trimmed query", func(t *testing.T) {
		service := &stubService{
			listFn: func(ctx context.Context, page, limit int, query string) ([]items.Item, int, error) {
				return []items.Item{{ID: 1, Name: "Hammer"}}, 1, nil
			},
		}
		handler := newTestHandler(service, &stubRepository{}, &stubProvider{})

		req := httptest.NewRequest(http.MethodGet, "/items?query=+ham+", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, service.listPage)
		require.Equal(t, 20, service.listLimit)
		require.Equal(t, "ham", service.listQuery)

		data := asMap(t, decodeResponse(t, rec).Data)
		require.Len(t, asSlice(t, data["items"]), 1)
		pagination := asMap(t, data["pagination"])
		require.Equal(t, json.Number("1"), pagination["total"])
	})

	t.Run("limit is capped", func(t *testing.T) {
		service := &stubService{}
		handler := newTestHandler(service, &stubRepository{}, &stubProvider{})

		req := httptest.NewRequest(http.MethodGet, "/items?page=2&limit=1000", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 2, service.listPage)
		require.Equal(t, 100, service.listLimit)
	})
}

func TestHandler_GetByID(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		for _, id := range []string{"abc", "0", "-4"} {
			service := &stubService{}
			handler := newTestHandler(service, &stubRepository{}, &stubProvider{})

			req := withURLParam(httptest.NewRequest(http.MethodGet, "/items/"+id, nil), "id", id)
			rec := httptest.NewRecorder()

			handler.GetByID(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code, id)
			require.Equal(t, "invalid_id", decodeResponse(t, rec).Error.Code)
			require.False(t, service.getCalled)
		}
	})

	t.Run("not found", func(t *testing.T) {
		service := &stubService{
			getFn: func(ctx context.Context, id int) (items.Item, error) {
				return items.Item{}, items.ErrorNotFound
			},
		}
		provider := &stubProvider{}
		handler := newTestHandler(service, &stubRepository{}, provider)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/items/9", nil), "id", "9")
		rec := httptest.NewRecorder()

		handler.GetByID(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "not_found", decodeResponse(t, rec).Error.Code)
		require.Empty(t, provider.requested, "missing items get no details model")
	})

	t.Run("state not available", func(t *testing.T) {
		details := newStubDetails(t, 1, sampleState())
		details.refreshErr = context.DeadlineExceeded
		handler := newTestHandler(&stubService{}, &stubRepository{}, &stubProvider{details: details})

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/items/1", nil), "id", "1")
		rec := httptest.NewRecorder()

		handler.GetByID(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		service := &stubService{
			getFn: func(ctx context.Context, id int) (items.Item, error) {
				return items.Item{ID: id, Name: "Hammer", Price: 12.5, Quantity: 3}, nil
			},
		}
		provider := &stubProvider{details: newStubDetails(t, 1, sampleState())}
		handler := newTestHandler(service, &stubRepository{}, provider)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/items/1", nil), "id", "1")
		rec := httptest.NewRecorder()

		handler.GetByID(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, []int{1}, provider.requested)

		data := asMap(t, decodeResponse(t, rec).Data)
		require.Equal(t, "$12.50", data["formatted_price"])
		state := asMap(t, data["state"])
		require.Equal(t, false, state["out_of_stock"])
		require.Equal(t, "Hammer", asMap(t, state["item_details"])["name"])
	})
}

func TestHandler_Update(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		service := &stubService{}
		handler := newTestHandler(service, &stubRepository{}, &stubProvider{})

		req := withURLParam(httptest.NewRequest(http.MethodPut, "/items/1", strings.NewReader("[")), "id", "1")
		rec := httptest.NewRecorder()

		handler.Update(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_json", decodeResponse(t, rec).Error.Code)
		require.False(t, service.updateCalled)
	})

	t.Run("invalid input", func(t *testing.T) {
		service := &stubService{
			updateFn: func(ctx context.Context, id int, details items.ItemDetails) (items.ItemUIState, error) {
				return items.Validate(details), items.ErrorInvalidInput
			},
		}
		handler := newTestHandler(service, &stubRepository{}, &stubProvider{})

		req := withURLParam(httptest.NewRequest(http.MethodPut, "/items/1", strings.NewReader(`{"name":""}`)), "id", "1")
		rec := httptest.NewRecorder()

		handler.Update(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "invalid_input", resp.Error.Code)
		require.Equal(t, false, asMap(t, resp.Data)["is_entry_valid"])
	})

	t.Run("not found", func(t *testing.T) {
		service := &stubService{
			updateFn: func(ctx context.Context, id int, details items.ItemDetails) (items.ItemUIState, error) {
				return items.ItemUIState{}, items.ErrorNotFound
			},
		}
		handler := newTestHandler(service, &stubRepository{}, &stubProvider{})

		req := withURLParam(httptest.NewRequest(http.MethodPut, "/items/5", strings.NewReader(validBody)), "id", "5")
		rec := httptest.NewRecorder()

		handler.Update(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		service := &stubService{}
		handler := newTestHandler(service, &stubRepository{}, &stubProvider{})

		req := withURLParam(httptest.NewRequest(http.MethodPut, "/items/5", strings.NewReader(validBody)), "id", "5")
		rec := httptest.NewRecorder()

		handler.Update(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 5, service.updateID)
		require.Equal(t, "Hammer", service.updateDetails.Name)
		require.Equal(t, true, asMap(t, decodeResponse(t, rec).Data)["is_entry_valid"])
	})
}

func TestHandler_Sell(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		details := newStubDetails(t, 1, sampleState())
		handler := newTestHandler(&stubService{}, &stubRepository{}, &stubProvider{details: details})

		req := withURLParam(httptest.NewRequest(http.MethodPost, "/items/1/sell", nil), "id", "1")
		rec := httptest.NewRecorder()

		handler.Sell(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Empty(t, rec.Body.Bytes())
		require.True(t, details.reduceCalled)
	})

	t.Run("item disappeared", func(t *testing.T) {
		details := newStubDetails(t, 1, sampleState())
		details.reduceErr = items.ErrorNotFound
		handler := newTestHandler(&stubService{}, &stubRepository{}, &stubProvider{details: details})

		req := withURLParam(httptest.NewRequest(http.MethodPost, "/items/1/sell", nil), "id", "1")
		rec := httptest.NewRecorder()

		handler.Sell(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("store error", func(t *testing.T) {
		details := newStubDetails(t, 1, sampleState())
		details.reduceErr = errors.New("boom")
		handler := newTestHandler(&stubService{}, &stubRepository{}, &stubProvider{details: details})

		req := withURLParam(httptest.NewRequest(http.MethodPost, "/items/1/sell", nil), "id", "1")
		rec := httptest.NewRecorder()

		handler.Sell(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandler_Delete(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		service := &stubService{
			getFn: func(ctx context.Context, id int) (items.Item, error) {
				return items.Item{}, items.ErrorNotFound
			},
		}
		details := newStubDetails(t, 1, sampleState())
		handler := newTestHandler(service, &stubRepository{}, &stubProvider{details: details})

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/items/1", nil), "id", "1")
		rec := httptest.NewRecorder()

		handler.Delete(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.False(t, details.deleteCalled)
	})

	t.Run("success", func(t *testing.T) {
		details := newStubDetails(t, 1, sampleState())
		handler := newTestHandler(&stubService{}, &stubRepository{}, &stubProvider{details: details})

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/items/1", nil), "id", "1")
		rec := httptest.NewRecorder()

		handler.Delete(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.True(t, details.deleteCalled)
	})
}

func TestHandler_Export(t *testing.T) {
	t.Run("missing destination", func(t *testing.T) {
		service := &stubService{}
		handler := newTestHandler(service, &stubRepository{}, &stubProvider{})

		req := withURLParam(httptest.NewRequest(http.MethodPost, "/items/1/export?destination=+", nil), "id", "1")
		rec := httptest.NewRecorder()

		handler.Export(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_destination", decodeResponse(t, rec).Error.Code)
		require.False(t, service.getCalled)
	})

	t.Run("cache write fails", func(t *testing.T) {
		details := newStubDetails(t, 1, sampleState())
		details.saveErr = errors.New("disk full")
		handler := newTestHandler(&stubService{}, &stubRepository{}, &stubProvider{details: details})

		req := withURLParam(httptest.NewRequest(http.MethodPost, "/items/1/export?destination=backup", nil), "id", "1")
		rec := httptest.NewRecorder()

		handler.Export(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success streams the cache file", func(t *testing.T) {
		service := &stubService{
			getFn: func(ctx context.Context, id int) (items.Item, error) {
				return items.Item{ID: id, Name: "Hammer"}, nil
			},
		}
		details := newStubDetails(t, 3, sampleState())
		handler := newTestHandler(service, &stubRepository{}, &stubProvider{details: details})

		req := withURLParam(httptest.NewRequest(http.MethodPost, "/items/3/export?destination=backup", nil), "id", "3")
		rec := httptest.NewRecorder()

		handler.Export(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
		require.Equal(t, `attachment; filename="item-3.enc"`, rec.Header().Get("Content-Disposition"))
		require.Equal(t, "iv-and-ciphertext", rec.Body.String())
		require.Equal(t, "backup", details.savedFor)
		require.Equal(t, "Hammer", details.savedItem.Name)

		_, err := os.Stat(details.cacheFile)
		require.ErrorIs(t, err, os.ErrNotExist, "the cache file is removed after the copy")
	})
}

func TestHandler_Live(t *testing.T) {
	t.Run("missing item is rejected before upgrading", func(t *testing.T) {
		service := &stubService{
			getFn: func(ctx context.Context, id int) (items.Item, error) {
				return items.Item{}, items.ErrorNotFound
			},
		}
		handler := newTestHandler(service, &stubRepository{}, &stubProvider{})

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/items/1/live", nil), "id", "1")
		rec := httptest.NewRecorder()

		handler.Live(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("pushes every new state", func(t *testing.T) {
		details := newStubDetails(t, 1, sampleState())
		router := chi.NewRouter()
		items.RegisterRoutes(router, newTestHandler(&stubService{}, &stubRepository{}, &stubProvider{details: details}))

		server := httptest.NewServer(router)
		defer server.Close()

		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/items/1/live"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		defer conn.Close()

		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

		var first items.ItemDetailsUIState
		require.NoError(t, conn.ReadJSON(&first))
		require.Equal(t, sampleState(), first)

		soldOut := items.Item{ID: 1, Name: "Hammer", Price: 12.5, Quantity: 0, Supplier: "Acme"}.ToDetailsUIState()
		details.updates <- soldOut

		var second items.ItemDetailsUIState
		require.NoError(t, conn.ReadJSON(&second))
		require.True(t, second.OutOfStock)
		require.Equal(t, "0", second.ItemDetails.Quantity)

		require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
		require.Eventually(t, func() bool { return details.holder.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
	})
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) httpx.Response {
	t.Helper()

	var response httpx.Response
	decoder := json.NewDecoder(bytes.NewReader(recorder.Body.Bytes()))
	decoder.UseNumber()
	require.NoError(t, decoder.Decode(&response))
	return response
}

func asMap(t *testing.T, value any) map[string]any {
	t.Helper()

	out, ok := value.(map[string]any)
	require.True(t, ok, "expected map, got %T", value)
	return out
}

func asSlice(t *testing.T, value any) []any {
	t.Helper()

	out, ok := value.([]any)
	require.True(t, ok, "expected slice, got %T", value)
	return out
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}
