package pool

import "reflect"

// identity returns the address behind a pointer-like value. ok is false when
// the value has no stable identity (structs, scalars, slices, funcs), in
// which case return checks are skipped for it. A nil value yields (0, true).
func identity(v any) (id uintptr, ok bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Invalid:
		return 0, true
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return rv.Pointer(), true
	}
	return 0, false
}

// trackable reports whether values of T can carry an identity at all.
// Interface types are decided per value.
func trackable[T any]() bool {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer, reflect.Interface:
		return true
	}
	return false
}
