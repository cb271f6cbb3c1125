package booking

import "sync"

// venueLocks serializes scheduling work per venue within this process.
// The conflict check and the booking commit for one venue must be
// mutually exclusive, otherwise two racing requests could both observe
// "no conflict" and both commit.  Locks are created lazily and never
// removed; the venue catalog is small and bounded.
type venueLocks struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func newVenueLocks() *venueLocks {
	return &venueLocks{locks: make(map[uint64]*sync.Mutex)}
}

func (vl *venueLocks) lock(venueID uint64) *sync.Mutex {
	vl.mu.Lock()
	m, ok := vl.locks[venueID]
	if !ok {
		m = &sync.Mutex{}
		vl.locks[venueID] = m
	}
	vl.mu.Unlock()
	m.Lock()
	return m
}
