package rangemap

import "sort"

type point[V any] struct {
	addr  uint64
	value V
}

// AddressMap maps single addresses to values and retrieves the entry
// nearest at or below a queried address. PUBLIC symbols have no size, so
// the symbol covering an address is simply the closest one before it.
type AddressMap[V any] struct {
	points []point[V]
}

// NewAddressMap returns an empty address map.
func NewAddressMap[V any]() *AddressMap[V] {
	return &AddressMap[V]{}
}

// Store inserts value at addr. It returns false if an entry already
// exists at addr.
func (a *AddressMap[V]) Store(addr uint64, value V) bool {
	idx := a.search(addr)
	if idx < len(a.points) && a.points[idx].addr == addr {
		return false
	}
	a.insert(idx, addr, value)
	return true
}

// Replace inserts value at addr, overwriting any existing entry.
func (a *AddressMap[V]) Replace(addr uint64, value V) {
	idx := a.search(addr)
	if idx < len(a.points) && a.points[idx].addr == addr {
		a.points[idx].value = value
		return
	}
	a.insert(idx, addr, value)
}

// Retrieve returns the value stored at the greatest address that is at or
// below addr, along with the address it was stored at.
func (a *AddressMap[V]) Retrieve(addr uint64) (value V, entryAddr uint64, ok bool) {
	idx := sort.Search(len(a.points), func(i int) bool { return a.points[i].addr > addr })
	if idx == 0 {
		return value, 0, false
	}
	p := a.points[idx-1]
	return p.value, p.addr, true
}

// Walk visits entries with from <= addr <= to in ascending address order,
// stopping early if fn returns false.
func (a *AddressMap[V]) Walk(from, to uint64, fn func(addr uint64, value V) bool) {
	idx := a.search(from)
	for ; idx < len(a.points) && a.points[idx].addr <= to; idx++ {
		if !fn(a.points[idx].addr, a.points[idx].value) {
			return
		}
	}
}

// Len returns the number of stored entries.
func (a *AddressMap[V]) Len() int {
	return len(a.points)
}

func (a *AddressMap[V]) search(addr uint64) int {
	return sort.Search(len(a.points), func(i int) bool { return a.points[i].addr >= addr })
}

func (a *AddressMap[V]) insert(idx int, addr uint64, value V) {
	a.points = append(a.points, point[V]{})
	copy(a.points[idx+1:], a.points[idx:])
	a.points[idx] = point[V]{addr: addr, value: value}
}
