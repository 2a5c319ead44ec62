package digo_test

import (
	"testing"

	"github.com/centraunit/digo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct{ name string }

func TestResolveConcreteReturnsTypedValue(t *testing.T) {
	c := digo.NewCollection()
	c.Add(digo.Singleton, digo.ForType[*widget](), func(digo.Resolver) (any, error) {
		return &widget{name: "gear"}, nil
	})
	p, err := c.Build()
	require.NoError(t, err)

	w, err := digo.ResolveConcrete[*widget](p)
	require.NoError(t, err)
	assert.Equal(t, "gear", w.name)
}

func TestResolveNamedConcreteDistinguishesNames(t *testing.T) {
	c := digo.NewCollection()
	c.Add(digo.Singleton, digo.ForNamedType[*widget]("left"), func(digo.Resolver) (any, error) {
		return &widget{name: "left"}, nil
	})
	c.Add(digo.Singleton, digo.ForNamedType[*widget]("right"), func(digo.Resolver) (any, error) {
		return &widget{name: "right"}, nil
	})
	p, err := c.Build()
	require.NoError(t, err)

	left, err := digo.ResolveNamedConcrete[*widget](p, "left")
	require.NoError(t, err)
	right, err := digo.ResolveNamedConcrete[*widget](p, "right")
	require.NoError(t, err)

	assert.Equal(t, "left", left.name)
	assert.Equal(t, "right", right.name)
}

func TestResolveConcreteWrapsTypeMismatch(t *testing.T) {
	c := digo.NewCollection()
	c.Add(digo.Singleton, digo.ForType[*widget](), func(digo.Resolver) (any, error) {
		return "not a widget", nil
	})
	p, err := c.Build()
	require.NoError(t, err)

	_, err = digo.ResolveConcrete[*widget](p)
	var mismatch *digo.TypeMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestResolveTraitResolvesSingleBinding(t *testing.T) {
	c := digo.NewCollection()
	c.Add(digo.Singleton, digo.ForTrait("logger"), func(digo.Resolver) (any, error) {
		return &widget{name: "log"}, nil
	})
	p, err := c.Build()
	require.NoError(t, err)

	w, err := digo.ResolveTrait[*widget](p, "logger")
	require.NoError(t, err)
	assert.Equal(t, "log", w.name)
}
