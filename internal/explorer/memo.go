package explorer

// input is a parameter the controller owns. Its version bumps on every
// committed change.
type input struct {
	version uint64
}

func (in *input) bump() { in.version++ }

// cell memoizes one derived value. It remembers the versions of everything it
// read and recomputes only when one of them moved. Its own version bumps on
// every recomputation so downstream cells can depend on it.
type cell[T any] struct {
	name    string
	valid   bool
	seen    []uint64
	value   T
	version uint64
}

func newCell[T any](name string) *cell[T] {
	return &cell[T]{name: name}
}

// get returns the cached value when deps match the versions seen at the last
// computation, and otherwise calls compute.
func (c *cell[T]) get(deps []uint64, compute func() T, recomputed func(name string)) T {
	if c.valid && sameVersions(c.seen, deps) {
		return c.value
	}
	c.value = compute()
	c.seen = append(c.seen[:0], deps...)
	c.valid = true
	c.version++
	if recomputed != nil {
		recomputed(c.name)
	}
	return c.value
}

func sameVersions(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func deps(vs ...uint64) []uint64 { return vs }
