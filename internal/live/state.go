package live

import (
	"context"
	"sync"
	"time"
)

// Source arranca un flujo de valores que vive mientras ctx no se cancele.
// Debe volver enseguida y cerrar el canal cuando ctx termina.
type Source[T any] func(ctx context.Context) <-chan T

// StateHolder guarda el último valor de un Source y lo reparte a sus suscriptores.
//
// El upstream arranca con el primer suscriptor y se corta stopTimeout después de
// que se va el último. Mientras tanto el último valor queda como semilla para
// los suscriptores nuevos.
type StateHolder[T any] struct {
	source      Source[T]
	stopTimeout time.Duration

	mu          sync.Mutex
	value       T
	subscribers map[uint64]chan T
	nextID      uint64

	// Estado del upstream activo.
	cancel context.CancelFunc
	run    uint64
	ready  chan struct{}

	// Corte diferido; stopEpoch invalida timers viejos.
	stopTimer *time.Timer
	stopEpoch uint64
}

// NewStateHolder crea un holder con initial como valor hasta la primera emisión.
func NewStateHolder[T any](initial T, stopTimeout time.Duration, source Source[T]) *StateHolder[T] {
	return &StateHolder[T]{
		source:      source,
		stopTimeout: stopTimeout,
		value:       initial,
		subscribers: make(map[uint64]chan T),
	}
}

// Subscription es un observador de un StateHolder.
// C recibe el valor actual apenas se suscribe y luego cada cambio; si el lector
// se atrasa solo se conserva el más reciente.
type Subscription[T any] struct {
	C <-chan T

	once  sync.Once
	close func()
}

// Close da de baja la suscripción y cierra C.
func (subscription *Subscription[T]) Close() {
	subscription.once.Do(subscription.close)
}

// Value devuelve el último valor conocido.
func (holder *StateHolder[T]) Value() T {
	holder.mu.Lock()
	defer holder.mu.Unlock()
	return holder.value
}

// Active indica si el upstream está corriendo.
func (holder *StateHolder[T]) Active() bool {
	holder.mu.Lock()
	defer holder.mu.Unlock()
	return holder.cancel != nil
}

// Subscribers devuelve la cantidad de suscriptores actuales.
func (holder *StateHolder[T]) Subscribers() int {
	holder.mu.Lock()
	defer holder.mu.Unlock()
	return len(holder.subscribers)
}

// Subscribe agrega un suscriptor y arranca el upstream si hace falta.
func (holder *StateHolder[T]) Subscribe() *Subscription[T] {
	holder.mu.Lock()
	defer holder.mu.Unlock()

	subscription := holder.subscribeLocked()
	if holder.cancel == nil {
		holder.startLocked()
	}
	return subscription
}

// Fresh relee el upstream y devuelve su primera emisión.
// Si ya corría lo reinicia: el valor devuelto siempre sale de una lectura
// posterior a la llamada. Los suscriptores existentes no se enteran del reinicio.
// Mientras espera cuenta como suscriptor.
func (holder *StateHolder[T]) Fresh(ctx context.Context) (T, error) {
	holder.mu.Lock()
	subscription := holder.subscribeLocked()
	holder.startLocked()
	ready := holder.ready
	holder.mu.Unlock()

	defer subscription.Close()

	select {
	case <-ready:
		return holder.Value(), nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (holder *StateHolder[T]) subscribeLocked() *Subscription[T] {
	holder.cancelStopLocked()

	id := holder.nextID
	holder.nextID++

	channel := make(chan T, 1)
	channel <- holder.value
	holder.subscribers[id] = channel

	return &Subscription[T]{
		C:     channel,
		close: func() { holder.unsubscribe(id) },
	}
}

func (holder *StateHolder[T]) unsubscribe(id uint64) {
	holder.mu.Lock()
	defer holder.mu.Unlock()

	channel, ok := holder.subscribers[id]
	if !ok {
		return
	}
	delete(holder.subscribers, id)
	close(channel)

	if len(holder.subscribers) == 0 && holder.cancel != nil {
		holder.scheduleStopLocked()
	}
}

// startLocked arranca un run nuevo del upstream y corta el anterior si existía.
// ready solo se renueva si el run previo ya emitió: quien todavía espera
// queda liberado por la primera emisión del run nuevo.
func (holder *StateHolder[T]) startLocked() {
	if holder.cancel != nil {
		holder.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	holder.cancel = cancel
	holder.run++
	if holder.ready == nil || closed(holder.ready) {
		holder.ready = make(chan struct{})
	}

	go holder.collect(holder.run, holder.source(ctx))
}

func (holder *StateHolder[T]) collect(run uint64, upstream <-chan T) {
	for value := range upstream {
		holder.mu.Lock()
		if holder.run != run || holder.cancel == nil {
			// Emisión de un upstream ya cortado.
			holder.mu.Unlock()
			continue
		}

		holder.value = value
		if !closed(holder.ready) {
			close(holder.ready)
		}
		for _, channel := range holder.subscribers {
			offer(channel, value)
		}
		holder.mu.Unlock()
	}
}

func (holder *StateHolder[T]) scheduleStopLocked() {
	holder.stopEpoch++
	epoch := holder.stopEpoch

	if holder.stopTimeout <= 0 {
		holder.stopLocked()
		return
	}

	holder.stopTimer = time.AfterFunc(holder.stopTimeout, func() {
		holder.mu.Lock()
		defer holder.mu.Unlock()

		if holder.stopEpoch != epoch || len(holder.subscribers) > 0 || holder.cancel == nil {
			return
		}
		holder.stopLocked()
	})
}

func (holder *StateHolder[T]) cancelStopLocked() {
	if holder.stopTimer != nil {
		holder.stopTimer.Stop()
		holder.stopTimer = nil
	}
	holder.stopEpoch++
}

func (holder *StateHolder[T]) stopLocked() {
	holder.cancel()
	holder.cancel = nil
	holder.stopTimer = nil
}

func closed(channel chan struct{}) bool {
	select {
	case <-channel:
		return true
	default:
		return false
	}
}

// offer reemplaza el valor pendiente en channel por value.
// Solo es seguro con el lock tomado: el holder es el único que escribe.
func offer[T any](channel chan T, value T) {
	select {
	case channel <- value:
		return
	default:
	}
	select {
	case <-channel:
	default:
	}
	channel <- value
}
