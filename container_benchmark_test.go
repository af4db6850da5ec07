package weld

import (
	"testing"
)

func benchContainer(b *testing.B) *Container {
	b.Helper()
	reg, err := BuildRegistry([]*ComponentDescriptor{
		{
			ID:      "widget",
			Type:    TypeOf[*widget](),
			Factory: func(Resolver) (any, error) { return &widget{name: "bench"}, nil },
		},
		{
			ID:      "proto",
			Type:    TypeOf[*gadget](),
			Scope:   ScopePrototype,
			Factory: func(Resolver) (any, error) { return &gadget{name: "bench"}, nil },
		},
	}, ResolveOptions{})
	if err != nil {
		b.Fatal(err)
	}
	c, err := NewContainer(reg)
	if err != nil {
		b.Fatal(err)
	}
	return c
}

func BenchmarkSingletonFastPath(b *testing.B) {
	c := benchContainer(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Get[*widget](c); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSingletonFastPathParallel(b *testing.B) {
	c := benchContainer(b)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := Get[*widget](c); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkPrototypeConstruction(b *testing.B) {
	c := benchContainer(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Get[*gadget](c); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetByName(b *testing.B) {
	c := benchContainer(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.GetByName("widget"); err != nil {
			b.Fatal(err)
		}
	}
}
