package assignments

import (
	"hash/fnv"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// lockTable serializes assignment transitions per order and per partner.
// Keys hash onto a fixed set of stripes; stripes are always acquired in
// ascending index order so two transitions touching the same order/partner
// pair can never deadlock against each other.
type lockTable struct {
	stripes []sync.Mutex
}

func newLockTable(stripes int) *lockTable {
	if stripes <= 0 {
		stripes = 64
	}
	return &lockTable{stripes: make([]sync.Mutex, stripes)}
}

func (t *lockTable) stripeFor(key uuid.UUID) int {
	h := fnv.New32a()
	h.Write(key[:])
	return int(h.Sum32() % uint32(len(t.stripes)))
}

func (t *lockTable) indexes(keys []uuid.UUID) []int {
	indexes := make([]int, 0, len(keys))
	for _, key := range keys {
		idx := t.stripeFor(key)
		duplicate := false
		for _, seen := range indexes {
			if seen == idx {
				duplicate = true
				break
			}
		}
		if !duplicate {
			indexes = append(indexes, idx)
		}
	}
	sort.Ints(indexes)
	return indexes
}

func (t *lockTable) Lock(keys ...uuid.UUID) {
	for _, idx := range t.indexes(keys) {
		t.stripes[idx].Lock()
	}
}

func (t *lockTable) Unlock(keys ...uuid.UUID) {
	indexes := t.indexes(keys)
	for i := len(indexes) - 1; i >= 0; i-- {
		t.stripes[indexes[i]].Unlock()
	}
}
