package digo_test

import (
	"testing"

	"github.com/centraunit/digo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelledConstructionIsNotCachedAndCanBeRetried(t *testing.T) {
	key := digo.ForType[string]()
	attempts := 0
	c := digo.NewCollection()
	c.Add(digo.Singleton, key, func(digo.Resolver) (any, error) {
		attempts++
		if attempts == 1 {
			return nil, &digo.CancelledError{Key: key}
		}
		return "recovered", nil
	})
	p, err := c.Build()
	require.NoError(t, err)

	_, err = p.Resolve(key)
	var cancelled *digo.CancelledError
	require.ErrorAs(t, err, &cancelled)

	v, err := p.Resolve(key)
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, 2, attempts, "a cancelled construction must be retried, not cached")
}

func TestEagerSingletonIsConstructedDuringBuild(t *testing.T) {
	key := digo.ForType[string]()
	c := digo.NewCollection()
	c.AddEagerSingleton(key, "pre-built")
	p, err := c.Build()
	require.NoError(t, err)

	v, err := p.Resolve(key)
	require.NoError(t, err)
	assert.Equal(t, "pre-built", v)
}
