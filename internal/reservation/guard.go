package reservation

import (
	"context"
	"strconv"
	"sync"
)

// KeyedMutex hands out one mutual-exclusion lock per key. Entries are reference
// counted and dropped once nobody holds or waits for them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sem  chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock blocks until the lock for key is held or ctx is done. The returned func
// releases the lock and is safe to call more than once.
func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{sem: make(chan struct{}, 1)}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		k.release(key, l)
		return nil, ctx.Err()
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			<-l.sem
			k.release(key, l)
		})
	}, nil
}

func (k *KeyedMutex) release(key string, l *keyedLock) {
	k.mu.Lock()
	defer k.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}

// Len reports how many keys currently have holders or waiters.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()

	return len(k.locks)
}

// Guard serializes work on one event and, separately, every write to the shared
// stores. Callers that need both always take the event lock first.
type Guard struct {
	events *KeyedMutex
	commit chan struct{}
}

func NewGuard() *Guard {
	return &Guard{
		events: NewKeyedMutex(),
		commit: make(chan struct{}, 1),
	}
}

func (g *Guard) LockEvent(ctx context.Context, hallID int, eventID string) (func(), error) {
	return g.events.Lock(ctx, eventKey(hallID, eventID))
}

func (g *Guard) LockCommit(ctx context.Context) (func(), error) {
	select {
	case g.commit <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once

	return func() {
		once.Do(func() { <-g.commit })
	}, nil
}

func eventKey(hallID int, eventID string) string {
	return strconv.Itoa(hallID) + "/" + eventID
}
