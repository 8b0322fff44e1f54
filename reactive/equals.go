package reactive

import "reflect"

// EqualsFunc decides whether a write or recomputation produced a new value.
type EqualsFunc[T any] func(a, b T) bool

// defaultEquals is strict equality: == for comparable values, identity for
// slices and maps, and never-equal for funcs and other incomparable values.
func defaultEquals[T any]() EqualsFunc[T] {
	t := reflect.TypeFor[T]()
	switch t.Kind() {
	case reflect.Slice:
		return func(a, b T) bool {
			va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
			return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
		}
	case reflect.Map:
		return func(a, b T) bool {
			return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
		}
	case reflect.Func:
		return func(a, b T) bool { return false }
	case reflect.Interface:
		return func(a, b T) bool { return strictEqual(any(a), any(b)) }
	}
	if t.Comparable() {
		return func(a, b T) bool { return safeEqual(any(a), any(b)) }
	}
	return func(a, b T) bool { return false }
}

func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	switch ta.Kind() {
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Map:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.Func:
		return false
	}
	if !ta.Comparable() {
		return false
	}
	return safeEqual(a, b)
}

// safeEqual compares with ==, treating the runtime panic raised for
// incomparable values hidden behind interface fields as "not equal".
func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
