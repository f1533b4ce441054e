// Package chunker splits batches of items into sub-batches that do not
// exceed the request size limits of a name store.
package chunker

// Chunk splits items into consecutive, disjoint chunks of at most size
// elements. The order of items is preserved and only the last chunk may be
// smaller than size. Empty input gives no chunks, a non-positive size gives
// one chunk with all items.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]T{items}
	}

	res := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		res = append(res, items[start:end:end])
	}
	return res
}
