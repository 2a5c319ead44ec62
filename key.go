package digo

import (
	"fmt"
	"reflect"
)

// keyKind discriminates the six Key variants the registry understands.
type keyKind uint8

const (
	kindConcrete keyKind = iota
	kindNamedConcrete
	kindTrait
	kindNamedTrait
	kindMultiTrait
	kindNamedMultiTrait
)

// Key identifies one registration slot in a Collection/Registry. Keys are
// structurally comparable (every field is a comparable Go value) so a Key
// can be used directly as a map key; equality never depends on typeName,
// which exists only for diagnostics.
type Key struct {
	kind     keyKind
	typ      reflect.Type
	typeName string
	trait    string
	name     string
	index    int
}

// ForType builds a Key identifying the concrete type T.
func ForType[T any]() Key {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return Key{kind: kindConcrete, typ: t, typeName: t.String()}
}

// ForNamedType builds a Key identifying the concrete type T disambiguated
// by name.
func ForNamedType[T any](name string) Key {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return Key{kind: kindNamedConcrete, typ: t, typeName: t.String(), name: name}
}

// ForTrait builds a Key identifying a single-binding polymorphic service
// addressed by its trait tag.
func ForTrait(traitName string) Key {
	return Key{kind: kindTrait, trait: traitName, typeName: traitName}
}

// ForNamedTrait builds a trait Key disambiguated by name.
func ForNamedTrait(traitName, name string) Key {
	return Key{kind: kindNamedTrait, trait: traitName, typeName: traitName, name: name}
}

// ForMultiTrait builds a Key addressing one slot in an ordered multi-binding
// list for traitName.
func ForMultiTrait(traitName string, index int) Key {
	return Key{kind: kindMultiTrait, trait: traitName, typeName: traitName, index: index}
}

// ForNamedMultiTrait builds a named multi-binding slot Key.
func ForNamedMultiTrait(traitName, name string, index int) Key {
	return Key{kind: kindNamedMultiTrait, trait: traitName, typeName: traitName, name: name, index: index}
}

// multiSlotKey builds the Key addressing one slot of a multi-binding list,
// choosing ForMultiTrait or ForNamedMultiTrait depending on whether name is
// set. Shared by every call site that must derive a slot's Key from its
// (traitName, name, index) triple.
func multiSlotKey(traitName, name string, index int) Key {
	if name != "" {
		return ForNamedMultiTrait(traitName, name, index)
	}
	return ForMultiTrait(traitName, index)
}

// IsTrait reports whether the key addresses a trait-family registration
// (single, named, multi, or named-multi).
func (k Key) IsTrait() bool {
	switch k.kind {
	case kindTrait, kindNamedTrait, kindMultiTrait, kindNamedMultiTrait:
		return true
	default:
		return false
	}
}

// DisplayName returns the human-readable type or trait name for
// diagnostics and graph export, matching the pattern's precedent in
// original_source's Key::display_name.
func (k Key) DisplayName() string {
	return k.typeName
}

// ServiceName returns the disambiguating name for named keys, or "" for
// unnamed ones.
func (k Key) ServiceName() string {
	return k.name
}

// String renders a stable, total-order-friendly diagnostic label.
func (k Key) String() string {
	switch k.kind {
	case kindConcrete:
		return k.typeName
	case kindNamedConcrete:
		return fmt.Sprintf("%s[%s]", k.typeName, k.name)
	case kindTrait:
		return "trait:" + k.trait
	case kindNamedTrait:
		return fmt.Sprintf("trait:%s[%s]", k.trait, k.name)
	case kindMultiTrait:
		return fmt.Sprintf("trait:%s#%d", k.trait, k.index)
	case kindNamedMultiTrait:
		return fmt.Sprintf("trait:%s[%s]#%d", k.trait, k.name, k.index)
	default:
		return "<invalid key>"
	}
}

// multiKey identifies a trait's ordered multi-binding list, independent of
// any particular slot index.
type multiKey struct {
	trait string
	name  string
}

func multiKeyOf(traitName, name string) multiKey {
	return multiKey{trait: traitName, name: name}
}
