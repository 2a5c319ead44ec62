package digo_test

import (
	"context"
	"testing"

	"github.com/centraunit/digo"
	"github.com/centraunit/digo/digotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeDisposesInReverseResolutionOrder(t *testing.T) {
	log := &digotest.RecordingLog{}
	keyA := digo.ForNamedType[*digotest.DisposableService]("alpha")
	keyB := digo.ForNamedType[*digotest.DisposableService]("beta")

	c := digo.NewCollection()
	c.Add(digo.Scoped, keyA, func(digo.Resolver) (any, error) {
		return &digotest.DisposableService{Name: "alpha", Log: log}, nil
	})
	c.Add(digo.Scoped, keyB, func(digo.Resolver) (any, error) {
		return &digotest.DisposableService{Name: "beta", Log: log}, nil
	})
	p, err := c.Build()
	require.NoError(t, err)

	scope := p.CreateScope()
	// Resolve beta before alpha even though alpha was registered first:
	// disposal must follow resolution order, not registration order.
	_, err = scope.Resolve(keyB)
	require.NoError(t, err)
	_, err = scope.Resolve(keyA)
	require.NoError(t, err)

	require.NoError(t, scope.Dispose())
	assert.Equal(t, []string{"d:alpha", "d:beta"}, log.Entries())
}

func TestScopeDisposeIsIdempotent(t *testing.T) {
	log := &digotest.RecordingLog{}
	key := digo.ForType[*digotest.DisposableService]()
	c := digo.NewCollection()
	c.Add(digo.Scoped, key, func(digo.Resolver) (any, error) {
		return &digotest.DisposableService{Name: "solo", Log: log}, nil
	})
	p, err := c.Build()
	require.NoError(t, err)

	scope := p.CreateScope()
	_, err = scope.Resolve(key)
	require.NoError(t, err)

	require.NoError(t, scope.Dispose())
	require.NoError(t, scope.Dispose())
	assert.Equal(t, []string{"d:solo"}, log.Entries())
}

// disposablePlugin is a multi-binding fixture that also implements
// digo.Disposable, for TestMultiBoundSingletonsAreDisposedByProvider.
type disposablePlugin struct {
	name string
	log  *digotest.RecordingLog
}

func (p *disposablePlugin) Dispose() error {
	p.log.Record("d:" + p.name)
	return nil
}

func TestMultiBoundSingletonsAreDisposedByProvider(t *testing.T) {
	log := &digotest.RecordingLog{}
	c := digo.NewCollection()
	for _, label := range digotest.PluginNames() {
		label := label
		c.AppendMulti("plugin", "", digo.Singleton, func(digo.Resolver) (any, error) {
			return &disposablePlugin{name: label, log: log}, nil
		}, label)
	}
	p, err := c.Build()
	require.NoError(t, err)

	_, err = p.ResolveAllMulti("plugin")
	require.NoError(t, err)

	require.NoError(t, p.Dispose())

	names := digotest.PluginNames()
	want := make([]string, len(names))
	for i, n := range names {
		want[len(names)-1-i] = "d:" + n
	}
	assert.Equal(t, want, log.Entries(), "multi-bound singletons must be disposed in reverse registration order")
}

func TestTryAddMultiByImplRegistrationIsDisposedByProvider(t *testing.T) {
	log := &digotest.RecordingLog{}
	c := digo.NewCollection()
	c.TryAddMultiByImpl("plugin", "", digo.Singleton, func(digo.Resolver) (any, error) {
		return &disposablePlugin{name: "only", log: log}, nil
	}, "impl-x")
	p, err := c.Build()
	require.NoError(t, err)

	_, err = p.Resolve(digo.ForMultiTrait("plugin", 0))
	require.NoError(t, err)

	require.NoError(t, p.Dispose())
	assert.Equal(t, []string{"d:only"}, log.Entries())
}

func TestSyncDisposersRunBeforeAsyncDisposers(t *testing.T) {
	log := &digotest.RecordingLog{}
	syncKey := digo.ForType[*digotest.DisposableService]()
	asyncKey := digo.ForType[*digotest.AsyncDisposableService]()

	c := digo.NewCollection()
	c.Add(digo.Singleton, asyncKey, func(digo.Resolver) (any, error) {
		return &digotest.AsyncDisposableService{Name: "async", Log: log}, nil
	})
	c.Add(digo.Singleton, syncKey, func(digo.Resolver) (any, error) {
		return &digotest.DisposableService{Name: "sync", Log: log}, nil
	})
	p, err := c.Build()
	require.NoError(t, err)

	_, err = p.Resolve(asyncKey)
	require.NoError(t, err)
	_, err = p.Resolve(syncKey)
	require.NoError(t, err)

	require.NoError(t, p.DisposeContext(context.Background()))
	assert.Equal(t, []string{"d:sync", "ad:async"}, log.Entries())
}
