package booking

import "sync"

// portLocks serializes booking creation per charging port.  Two
// concurrent create calls for the same port must not both pass the
// overlap check, so "check + insert" runs as one critical section under
// the port's mutex.  Each operation touches exactly one port and never
// holds two port locks at once, which rules out deadlock.
//
// Locks are allocated lazily and never released; the map grows with the
// number of distinct ports ever booked on this process, which is small.
type portLocks struct {
	mu sync.Mutex
	m  map[uint64]*sync.Mutex
}

func newPortLocks() *portLocks {
	return &portLocks{m: make(map[uint64]*sync.Mutex)}
}

// get returns the mutex for a port, creating it on first use.
func (p *portLocks) get(portID uint64) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.m[portID]
	if !ok {
		l = &sync.Mutex{}
		p.m[portID] = l
	}
	return l
}
