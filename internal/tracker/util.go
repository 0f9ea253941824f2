package tracker

// Contains returns true if us contains v, which is accessed for each element by calling getV.
// Otherwise false is returned.
func Contains[U any, V comparable, Us ~[]U](us Us, v V, getV func(U) V) bool {
	for _, u := range us {
		if getV(u) == v {
			return true
		}
	}
	return false
}

// Count returns the number of entries in `ar` that satisfy predicate `pred`
func Count[T any, A ~[]T](ar A, pred func(T) bool) int {
	n := 0
	for _, a := range ar {
		if pred(a) {
			n++
		}
	}
	return n
}

// FindFirst finds the first T that satisfies predicate `pred` in `ar`, returns
// nil if none is found
func FindFirst[T any, A ~[]T](ar A, pred func(t T) bool) *T {
	for _, t := range ar {
		if pred(t) {
			return &t
		}
	}
	return nil
}

func identity[T any](t T) T { return t }
