package items

import (
	"context"
	"errors"

	"github.com/Lelo88/inventory-api-golang/internal/live"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ItemsRepository es el repositorio que consumen los modelos de pantalla.
// Stream emite el item actual (nil si no existe) y vuelve a emitir tras cada cambio.
type ItemsRepository interface {
	Stream(ctx context.Context, id int) <-chan *Item
	Insert(ctx context.Context, item Item) error
	Update(ctx context.Context, item Item) error
	Delete(ctx context.Context, item Item) error
}

// LiveRepository envuelve al store y avisa a los streams abiertos de cada escritura.
type LiveRepository struct {
	store    RepositoryAPI
	notifier *live.Notifier[int]
	logger   zerolog.Logger
}

// NewLiveRepository crea el repositorio observable sobre store.
func NewLiveRepository(store RepositoryAPI, logger zerolog.Logger) *LiveRepository {
	return &LiveRepository{
		store:    store,
		notifier: live.NewNotifier[int](),
		logger:   logger,
	}
}

// Stream abre un flujo del item id hasta que ctx se cancele.
// Un error de lectura se loguea y se espera al próximo cambio.
func (repository *LiveRepository) Stream(ctx context.Context, id int) <-chan *Item {
	out := make(chan *Item)
	changes, stop := repository.notifier.Watch(id)

	go func() {
		defer close(out)
		defer stop()

		for {
			item, err := repository.store.GetByID(ctx, id)
			switch {
			case err == nil:
				if !send(ctx, out, &item) {
					return
				}
			case errors.Is(err, pgx.ErrNoRows):
				if !send(ctx, out, nil) {
					return
				}
			case ctx.Err() != nil:
				return
			default:
				repository.logger.Error().Err(err).Int("item_id", id).Msg("item stream read failed")
			}

			select {
			case <-changes:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// Insert persiste item y avisa al stream del id asignado.
func (repository *LiveRepository) Insert(ctx context.Context, item Item) error {
	created, err := repository.store.Insert(ctx, item)
	if err != nil {
		return err
	}
	repository.notifier.Notify(created.ID)
	return nil
}

// Update reemplaza item y avisa a su stream.
func (repository *LiveRepository) Update(ctx context.Context, item Item) error {
	if _, err := repository.store.Update(ctx, item); err != nil {
		return err
	}
	repository.notifier.Notify(item.ID)
	return nil
}

// Delete borra item y avisa a su stream.
func (repository *LiveRepository) Delete(ctx context.Context, item Item) error {
	if err := repository.store.Delete(ctx, item.ID); err != nil {
		return err
	}
	repository.notifier.Notify(item.ID)
	return nil
}

func send(ctx context.Context, out chan<- *Item, item *Item) bool {
	select {
	case out <- item:
		return true
	case <-ctx.Done():
		return false
	}
}
