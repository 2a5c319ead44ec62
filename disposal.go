package digo

import (
	"context"
	"sync"

	"go.uber.org/multierr"
)

// disposalOrder is an append-only, thread-safe list of Keys in the order a
// Scope first constructed their instances. Draining walks it in reverse
// (LIFO). The root Provider does not use it: it drains reg.disposal, the
// registration order recorded at Build.
type disposalOrder struct {
	mu   sync.Mutex
	keys []Key
}

func (d *disposalOrder) append(k Key) {
	d.mu.Lock()
	d.keys = append(d.keys, k)
	d.mu.Unlock()
}

func (d *disposalOrder) snapshot() []Key {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Key(nil), d.keys...)
}

// drainDisposal walks keys in reverse, looks each one up in cache (a
// sync.Map of Key -> *onceCell), and disposes any constructed, disposable
// instance it finds. Synchronous disposers for every key run first, then
// asynchronous ones are awaited sequentially (spec §4.2, §4.4): "synchronous
// disposers run... then asynchronous disposers (if any) are awaited".
// Failure of one disposer does not prevent the others (spec §7); every
// error is collected via multierr rather than stopping at the first one.
func drainDisposal(ctx context.Context, keys []Key, cache *sync.Map, observers []Observer, logger Logger) error {
	instances := make([]any, len(keys))
	present := make([]bool, len(keys))
	for i, k := range keys {
		cellIface, ok := cache.Load(k)
		if !ok {
			continue
		}
		cell := cellIface.(*onceCell)
		if cell.err != nil || cell.value == nil {
			continue
		}
		instances[i] = cell.value
		present[i] = true
	}

	var syncErrs, asyncErrs error
	for i := len(keys) - 1; i >= 0; i-- {
		if !present[i] {
			continue
		}
		if d, ok := instances[i].(Disposable); ok {
			if err := d.Dispose(); err != nil {
				syncErrs = multierr.Append(syncErrs, err)
			}
			notifyObservers(observers, logger, Event{Kind: EventDisposed, Key: keys[i]})
		}
	}
	for i := len(keys) - 1; i >= 0; i-- {
		if !present[i] {
			continue
		}
		if ad, ok := instances[i].(AsyncDisposable); ok {
			if err := ad.DisposeAsync(ctx); err != nil {
				asyncErrs = multierr.Append(asyncErrs, err)
			}
			notifyObservers(observers, logger, Event{Kind: EventDisposed, Key: keys[i]})
		}
	}

	combined := multierr.Append(syncErrs, asyncErrs)
	if combined != nil {
		logger.Errorw("digo: disposal report", "errors", combined)
	}
	return combined
}
