package digo

import "reflect"

// ResolveConcrete resolves the concrete type T from r and performs the
// checked downcast from the type-erased instance at the public boundary
// (spec §9: "a TypeMismatch return is a defensive check against builder
// bugs" — this should be unreachable if every constructor honors its
// declared Key, but is always checked rather than assumed).
func ResolveConcrete[T any](r Resolver) (T, error) {
	return downcast[T](r.Resolve(ForType[T]()))
}

// ResolveNamedConcrete resolves the named concrete registration of type T.
func ResolveNamedConcrete[T any](r Resolver, name string) (T, error) {
	return downcast[T](r.Resolve(ForNamedType[T](name)))
}

// ResolveTrait resolves the single-binding registration for traitName as T.
func ResolveTrait[T any](r Resolver, traitName string) (T, error) {
	return downcast[T](r.Resolve(ForTrait(traitName)))
}

// ResolveNamedTrait resolves the named single-binding registration for
// traitName as T.
func ResolveNamedTrait[T any](r Resolver, traitName, name string) (T, error) {
	return downcast[T](r.Resolve(ForNamedTrait(traitName, name)))
}

// ResolveAllTrait resolves every slot of traitName's ordered multi-binding
// list as T, in registration order (spec §8 property 4).
func ResolveAllTrait[T any](r Resolver, traitName string, name ...string) ([]T, error) {
	raw, err := r.ResolveAllMulti(traitName, name...)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for _, v := range raw {
		typed, ok := v.(T)
		if !ok {
			return nil, &TypeMismatchError{
				Key:      ForTrait(traitName),
				Expected: reflect.TypeOf((*T)(nil)).Elem().String(),
				Actual:   typeNameOf(v),
			}
		}
		out = append(out, typed)
	}
	return out, nil
}

func downcast[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Expected: reflect.TypeOf((*T)(nil)).Elem().String(),
			Actual:   typeNameOf(v),
		}
	}
	return typed, nil
}

func typeNameOf(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}
