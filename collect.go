package tubes

import "fmt"

// A DuplicateKeyError is used to stop a flow to indicate that a key could not be added
// to a map because it already exists.
type DuplicateKeyError[T any, K comparable] struct {
	// Element is the upstream fount's element that caused the error.
	Element T

	// Key is the key that was already in the map.
	Key K
}

// A Collector is a drain that collects the items it receives.
type Collector[T any] struct {
	*EachDrain[T]

	items []T
}

// A MapCollector is a drain that collects the items it receives into a map.
type MapCollector[T any, K comparable, V any] struct {
	*EachDrain[T]

	entries map[K]V
}

// CollectSlice returns a drain that collects items into a slice.
func CollectSlice[T any]() *Collector[T] {
	c := &Collector[T]{}
	c.EachDrain = Each(func(elem T, _ uint64) {
		c.items = append(c.items, elem)
	})

	return c
}

// CollectMap returns a drain that collects items into a map.
// Items are mapped using key and value, respectively.
// If a key is already in the map, the upstream fount is stopped with a DuplicateKeyError.
func CollectMap[T any, K comparable, V any](key Function[T, K], value Function[T, V]) *MapCollector[T, K, V] {
	c := &MapCollector[T, K, V]{
		entries: map[K]V{},
	}

	c.EachDrain = Each(func(elem T, _ uint64) {
		k := key(elem)

		if _, ok := c.entries[k]; ok {
			c.stop(&DuplicateKeyError[T, K]{
				Element: elem,
				Key:     k,
			})

			return
		}

		c.entries[k] = value(elem)
	})

	return c
}

// Items returns the items collected so far.
func (c *Collector[T]) Items() []T {
	return c.items
}

// Map returns the entries collected so far.
func (c *MapCollector[T, K, V]) Map() map[K]V {
	return c.entries
}

// Error implements error.
func (e *DuplicateKeyError[T, K]) Error() string {
	return fmt.Sprintf("duplicate key: %v", e.Key)
}
