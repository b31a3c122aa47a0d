package pointers

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

func Int(v int) *int          { return &v }
func Int64(v int64) *int64    { return &v }
func Bool(v bool) *bool       { return &v }
func String(v string) *string { return &v }

// NonEmpty returns nil for a blank string, otherwise a pointer to it.
func NonEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// Deref returns the pointed-to value or the zero value.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
