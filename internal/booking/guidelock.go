package booking

import "sync"

// guideLocks hands out one mutex per guide. Holding the guide's lock across
// the availability scan and the write that follows serializes two
// simultaneous bookings for the same guide; sqlite has no
// SELECT ... FOR UPDATE to lean on for this.
type guideLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newGuideLocks() *guideLocks {
	return &guideLocks{locks: make(map[uint]*sync.Mutex)}
}

// acquire locks the guide's mutex and returns it for the caller to unlock.
func (g *guideLocks) acquire(guideID uint) *sync.Mutex {
	g.mu.Lock()
	m, ok := g.locks[guideID]
	if !ok {
		m = &sync.Mutex{}
		g.locks[guideID] = m
	}
	g.mu.Unlock()

	m.Lock()
	return m
}
