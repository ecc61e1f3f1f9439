package items

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	ErrorInvalidInput = errors.New("invalid input")
	ErrorNotFound     = errors.New("item not found")
)

// RepositoryAPI es lo que el service y el repositorio vivo necesitan del store.
type RepositoryAPI interface {
	Insert(ctx context.Context, item Item) (Item, error)
	GetByID(ctx context.Context, id int) (Item, error)
	List(ctx context.Context, query string, limit, offset int) ([]Item, error)
	Count(ctx context.Context, query string) (int, error)
	Update(ctx context.Context, item Item) (Item, error)
	Delete(ctx context.Context, id int) error
}

// Service contiene las lecturas y la edición de items.
// El alta vive en EntryModel y las acciones de detalle en DetailsModel.
type Service struct {
	repository RepositoryAPI
	writer     ItemsRepository
}

// NewService crea un service de items.
// writer es por donde pasan las escrituras para que los observadores se enteren.
func NewService(repository RepositoryAPI, writer ItemsRepository) *Service {
	return &Service{repository: repository, writer: writer}
}

// List devuelve una página de items y el total.
func (service *Service) List(ctx context.Context, page, limit int, nameQuery string) ([]Item, int, error) {
	// Validación mínima: paginación no puede ser absurda.
	if page < 1 || limit < 1 {
		return nil, 0, ErrorInvalidInput
	}

	nameQuery = strings.TrimSpace(nameQuery)
	offset := (page - 1) * limit

	items, err := service.repository.List(ctx, nameQuery, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := service.repository.Count(ctx, nameQuery)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// Get obtiene un item por ID.
func (service *Service) Get(ctx context.Context, id int) (Item, error) {
	item, err := service.repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrorNotFound
		}
		return Item{}, err
	}
	return item, nil
}

// Update es la pantalla de edición: valida con las mismas reglas del alta y,
// si pasa, reemplaza el registro completo.
// Devuelve el estado de formulario también cuando es inválido, para mostrar los flags.
func (service *Service) Update(ctx context.Context, id int, details ItemDetails) (ItemUIState, error) {
	details.ID = id
	state := Validate(details)
	if !state.IsEntryValid {
		return state, ErrorInvalidInput
	}

	if _, err := service.Get(ctx, id); err != nil {
		return state, err
	}

	if err := service.writer.Update(ctx, details.ToItem()); err != nil {
		return state, err
	}
	return state, nil
}
