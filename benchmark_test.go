package digo_test

import (
	"testing"

	"github.com/centraunit/digo"
)

// BenchmarkResolution mirrors the teacher's container_benchmark_test.go
// shape (BenchmarkResolution/TransientResolution etc.), one sub-benchmark
// per lifetime.
func BenchmarkResolution(b *testing.B) {
	b.Run("SingletonResolution", func(b *testing.B) {
		key := digo.ForType[string]()
		c := digo.NewCollection()
		c.Add(digo.Singleton, key, func(digo.Resolver) (any, error) { return "v", nil })
		p, err := c.Build()
		if err != nil {
			b.Fatal(err)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := p.Resolve(key); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("ScopedResolution", func(b *testing.B) {
		key := digo.ForType[string]()
		c := digo.NewCollection()
		c.Add(digo.Scoped, key, func(digo.Resolver) (any, error) { return "v", nil })
		p, err := c.Build()
		if err != nil {
			b.Fatal(err)
		}
		scope := p.CreateScope()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := scope.Resolve(key); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("TransientResolution", func(b *testing.B) {
		key := digo.ForType[string]()
		c := digo.NewCollection()
		c.Add(digo.Transient, key, func(digo.Resolver) (any, error) { return "v", nil })
		p, err := c.Build()
		if err != nil {
			b.Fatal(err)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := p.Resolve(key); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkScopeLifecycle times scope creation, one resolve, and disposal
// together — the per-request cost a Scoped-heavy consumer actually pays.
func BenchmarkScopeLifecycle(b *testing.B) {
	key := digo.ForType[string]()
	c := digo.NewCollection()
	c.Add(digo.Scoped, key, func(digo.Resolver) (any, error) { return "v", nil })
	p, err := c.Build()
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scope := p.CreateScope()
		if _, err := scope.Resolve(key); err != nil {
			b.Fatal(err)
		}
		if err := scope.Dispose(); err != nil {
			b.Fatal(err)
		}
	}
}
