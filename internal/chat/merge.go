package chat

// Coalesce merges two optional values with right bias: the new value
// wins when present, otherwise the old one is kept. Used when folding a
// node's partial state update into the accumulated thread state.
func Coalesce[T any](old, new *T) *T {
	if new != nil {
		return new
	}
	return old
}

// CoalesceString keeps the old value when the new one is empty.
func CoalesceString(old, new string) string {
	if new != "" {
		return new
	}
	return old
}

// CoalesceSlice keeps the old slice when the new one is empty.
func CoalesceSlice[T any](old, new []T) []T {
	if len(new) > 0 {
		return new
	}
	return old
}
