package digo_test

import (
	"testing"

	"github.com/centraunit/digo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeLocalInjectionShortCircuitsConstruction(t *testing.T) {
	built := false
	key := digo.ForType[string]()
	c := digo.NewCollection()
	c.Add(digo.Scoped, key, func(digo.Resolver) (any, error) {
		built = true
		return "constructed", nil
	})
	p, err := c.Build()
	require.NoError(t, err)

	scope := p.CreateScope()
	scope.SetLocal(key, "injected")

	v, err := scope.Resolve(key)
	require.NoError(t, err)
	assert.Equal(t, "injected", v)
	assert.False(t, built, "a scope-local injection must bypass the constructor")
}

func TestScopeLocalInjectionDoesNotLeakToChildScope(t *testing.T) {
	key := digo.ForType[string]()
	c := digo.NewCollection()
	c.Add(digo.Scoped, key, func(digo.Resolver) (any, error) {
		return "constructed", nil
	})
	p, err := c.Build()
	require.NoError(t, err)

	parent := p.CreateScope()
	parent.SetLocal(key, "parent-injected")
	child := p.CreateLabeledChild(parent, "child")

	v, err := child.Resolve(key)
	require.NoError(t, err)
	assert.Equal(t, "constructed", v, "scope-local injections are not inherited by child scopes")
}

func TestCancellingParentScopeCancelsChild(t *testing.T) {
	c := digo.NewCollection()
	p, err := c.Build()
	require.NoError(t, err)

	parent := p.CreateScope()
	child := p.CreateLabeledChild(parent, "child")

	assert.False(t, child.Cancellation().Cancelled())
	parent.Cancel()
	assert.True(t, child.Cancellation().Cancelled(), "child scope must observe parent cancellation")
}

func TestAmbientRunContextIsInheritedByDefault(t *testing.T) {
	c := digo.NewCollection()
	p, err := c.Build()
	require.NoError(t, err)

	parent := p.CreateScope()
	digo.SetScopeValue(parent, "request-42")
	child := p.CreateLabeledChild(parent, "child")

	v, ok := digo.ScopeValue[string](child)
	require.True(t, ok)
	assert.Equal(t, "request-42", v)
}

func TestAmbientRunContextCanBeIsolated(t *testing.T) {
	c := digo.NewCollection()
	p, err := c.Build()
	require.NoError(t, err)

	parent := p.CreateScope()
	digo.SetScopeValue(parent, "request-42")
	child := p.CreateLabeledChild(parent, "child", digo.WithIsolatedContext())

	_, ok := digo.ScopeValue[string](child)
	assert.False(t, ok, "an isolated child must not see the parent's ambient values")
}

func TestScopeLabelDefaultsToGeneratedUUID(t *testing.T) {
	c := digo.NewCollection()
	p, err := c.Build()
	require.NoError(t, err)

	a := p.CreateScope()
	b := p.CreateScope()
	assert.NotEmpty(t, a.Label())
	assert.NotEqual(t, a.Label(), b.Label())
}
