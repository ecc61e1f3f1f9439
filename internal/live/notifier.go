package live

import "sync"

// Notifier avisa a los observadores de una clave cuando esa clave cambia.
// Las señales se coalescen: si el observador no leyó la anterior, no se acumulan.
type Notifier[K comparable] struct {
	mu       sync.Mutex
	watchers map[K]map[uint64]chan struct{}
	nextID   uint64
}

// NewNotifier crea un notifier vacío.
func NewNotifier[K comparable]() *Notifier[K] {
	return &Notifier[K]{watchers: make(map[K]map[uint64]chan struct{})}
}

// Watch registra un observador para key.
// La función devuelta lo desregistra; es seguro llamarla más de una vez.
func (notifier *Notifier[K]) Watch(key K) (<-chan struct{}, func()) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()

	id := notifier.nextID
	notifier.nextID++

	signal := make(chan struct{}, 1)
	if notifier.watchers[key] == nil {
		notifier.watchers[key] = make(map[uint64]chan struct{})
	}
	notifier.watchers[key][id] = signal

	var once sync.Once
	return signal, func() {
		once.Do(func() {
			notifier.mu.Lock()
			defer notifier.mu.Unlock()

			delete(notifier.watchers[key], id)
			if len(notifier.watchers[key]) == 0 {
				delete(notifier.watchers, key)
			}
		})
	}
}

// Notify señala a todos los observadores de key. Nunca bloquea.
func (notifier *Notifier[K]) Notify(key K) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()

	for _, signal := range notifier.watchers[key] {
		select {
		case signal <- struct{}{}:
		default:
		}
	}
}

// Watchers devuelve cuántos observadores tiene key.
func (notifier *Notifier[K]) Watchers(key K) int {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return len(notifier.watchers[key])
}
