package telegram

import "sync"

// userLock returns the mutex serializing userID's session transitions.
// Webhook mode handles updates concurrently, so a burst of deliveries
// could otherwise interleave the pending-key handshake.
func (r *Router) userLock(userID int64) *sync.Mutex {
	v, _ := r.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// withUserLock runs fn while holding userID's mutex. The unlock is
// deferred: a panic inside fn must not leave the lock held, or every
// later update from that user would block on it.
func (r *Router) withUserLock(userID int64, fn func()) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	fn()
}
