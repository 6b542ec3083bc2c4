// Package ptr helps with the optional fields of survey profiles.
package ptr

// Ref returns a pointer to the value passed as argument.
//
// Might be replaced by new(T, v) in the future
// https://github.com/golang/go/issues/45624#issuecomment-2671497947
func Ref[T any](v T) *T {
	return &v
}

// ValueOr dereferences p or returns fallback when p is nil.
func ValueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// AnySet reports whether at least one of the pointers is non-nil.
func AnySet[T any](ps ...*T) bool {
	for _, p := range ps {
		if p != nil {
			return true
		}
	}
	return false
}
