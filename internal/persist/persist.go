// Package persist bridges the in-memory stores to durable storage. It
// subscribes to store changes and performs the writes on a background
// goroutine, keeping the pure state transitions free of I/O and the
// mutators free of blocking.
package persist

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/haugland/velour/internal/cart"
	"github.com/haugland/velour/internal/session"
	"github.com/haugland/velour/internal/storage"
)

// Adapter coalesces pending writes per record key: if several mutations land
// before the writer catches up, only the latest snapshot is written.
// Enqueueing never blocks the mutating goroutine.
type Adapter struct {
	store storage.Store
	lg    *zap.Logger

	mu      sync.Mutex
	pending map[string][]byte

	kick chan struct{}
	done chan struct{}
	wg   sync.WaitGroup

	unsubs []func()
}

// New starts an adapter writing to store.
func New(store storage.Store, lg *zap.Logger) *Adapter {
	a := &Adapter{
		store:   store,
		lg:      lg,
		pending: make(map[string][]byte),
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	a.wg.Add(1)
	go a.run()
	return a
}

// Load hydrates both stores from their persisted records. Missing records
// are the normal first-run state and are skipped silently; corrupt records
// are reported so the caller can decide whether to start fresh.
func (a *Adapter) Load(ctx context.Context, carts *cart.Store, sessions *session.Store) error {
	data, err := a.store.Read(ctx, storage.KeyCart)
	switch {
	case errors.Is(err, storage.ErrNotExist):
	case err != nil:
		return errors.Wrap(err, "read cart record")
	default:
		items, err := storage.DecodeCart(data)
		if err != nil {
			return errors.Wrap(err, "restore cart")
		}
		carts.Hydrate(items)
	}

	data, err = a.store.Read(ctx, storage.KeyAuth)
	switch {
	case errors.Is(err, storage.ErrNotExist):
	case err != nil:
		return errors.Wrap(err, "read session record")
	default:
		st, err := storage.DecodeSession(data)
		if err != nil {
			return errors.Wrap(err, "restore session")
		}
		sessions.Hydrate(st.User)
	}

	return nil
}

// Attach subscribes to both stores so every mutation schedules a durable
// write of the new snapshot.
func (a *Adapter) Attach(carts *cart.Store, sessions *session.Store) {
	a.unsubs = append(a.unsubs,
		carts.Subscribe(func(st cart.State) {
			a.enqueue(storage.KeyCart, storage.EncodeCart(st.Items))
		}),
		sessions.Subscribe(func(st session.State) {
			a.enqueue(storage.KeyAuth, storage.EncodeSession(st))
		}),
	)
}

// Close detaches from the stores, flushes any pending writes, and stops the
// writer goroutine.
func (a *Adapter) Close() {
	for _, unsub := range a.unsubs {
		unsub()
	}
	a.unsubs = nil

	close(a.done)
	a.wg.Wait()
}

func (a *Adapter) enqueue(key string, data []byte) {
	a.mu.Lock()
	a.pending[key] = data
	a.mu.Unlock()

	select {
	case a.kick <- struct{}{}:
	default:
	}
}

func (a *Adapter) run() {
	defer a.wg.Done()
	for {
		select {
		case <-a.kick:
			a.flush()
		case <-a.done:
			a.flush()
			return
		}
	}
}

func (a *Adapter) flush() {
	a.mu.Lock()
	batch := a.pending
	a.pending = make(map[string][]byte)
	a.mu.Unlock()

	for key, data := range batch {
		if err := a.store.Write(context.Background(), key, data); err != nil {
			a.lg.Error("Persist write failed", zap.String("key", key), zap.Error(err))
		}
	}
}
