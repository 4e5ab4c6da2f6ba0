package set

import (
	"strings"
	"sync"

	"github.com/emirpasic/gods/sets/hashset"
)

// ThreadSafeSet is a set of case-insensitive names guarded by a RWMutex.
type ThreadSafeSet struct {
	set     *hashset.Set
	rwMutex sync.RWMutex
}

func NewThreadSafeSet(names ...string) *ThreadSafeSet {
	t := &ThreadSafeSet{set: hashset.New()}
	t.Add(names...)
	return t
}

func (t *ThreadSafeSet) Contains(name string) bool {
	t.rwMutex.RLock()
	defer t.rwMutex.RUnlock()
	return t.set.Contains(strings.ToLower(name))
}

func (t *ThreadSafeSet) Add(names ...string) {
	t.rwMutex.Lock()
	defer t.rwMutex.Unlock()
	for _, name := range names {
		t.set.Add(strings.ToLower(name))
	}
}

func (t *ThreadSafeSet) Remove(names ...string) {
	t.rwMutex.Lock()
	defer t.rwMutex.Unlock()
	for _, name := range names {
		t.set.Remove(strings.ToLower(name))
	}
}

func (t *ThreadSafeSet) Size() int {
	t.rwMutex.RLock()
	defer t.rwMutex.RUnlock()
	return t.set.Size()
}

func (t *ThreadSafeSet) Clear() {
	t.rwMutex.Lock()
	defer t.rwMutex.Unlock()
	t.set.Clear()
}
