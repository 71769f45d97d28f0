package slices

// Compact returns list without zero values, preserving order.
func Compact[T comparable](list []T) []T {
	result := make([]T, 0, len(list))
	var zero T
	for _, v := range list {
		if v == zero {
			continue
		}
		result = append(result, v)
	}
	return result
}

// Unique returns list with duplicates removed, keeping the first
// occurrence of each value.
func Unique[T comparable](list []T) []T {
	result := make([]T, 0, len(list))
	seen := make(map[T]struct{}, len(list))
	for _, v := range list {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// Contains reports whether list has v.
func Contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
