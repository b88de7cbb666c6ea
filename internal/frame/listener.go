package frame

import "time"

// Listener delivers synchronized frame sets from one device. A listener's
// buffers are pooled: every Set handed out by WaitForNewFrame borrows from
// that pool and must be handed back through Release, or the pool drains and
// acquisition stalls.
//
// A listener belongs to exactly one capture worker and is never shared.
type Listener interface {
	// WaitForNewFrame blocks until a complete set of the requested stream
	// types is available, or the timeout elapses (ErrTimeout).
	WaitForNewFrame(timeout time.Duration) (Set, error)

	// Release returns a borrowed set to the listener's buffer pool.
	Release(s Set)
}

// Released runs fn with the set and releases it afterwards, on every exit
// path. It keeps the borrow/return pairing in one place so no branch of the
// capture loop can skip the release.
func Released(l Listener, s Set, fn func(Set) error) error {
	defer l.Release(s)
	return fn(s)
}
