package assignments

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestLockTableSerializesSameKeys(t *testing.T) {
	table := newLockTable(8)
	orderID := uuid.New()
	partnerID := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table.Lock(orderID, partnerID)
			counter++
			table.Unlock(orderID, partnerID)
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50 increments, got %d", counter)
	}
}

func TestLockTableOrdersStripesConsistently(t *testing.T) {
	table := newLockTable(8)
	a := uuid.New()
	b := uuid.New()

	// Opposite key orders must still acquire stripes without deadlock.
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			table.Lock(a, b)
			table.Unlock(a, b)
		}()
		go func() {
			defer wg.Done()
			table.Lock(b, a)
			table.Unlock(b, a)
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()
	<-done
}

func TestLockTableCollidingKeys(t *testing.T) {
	// A single stripe forces every key onto the same mutex; duplicate
	// stripe indexes must be deduplicated or Lock would self-deadlock.
	table := newLockTable(1)
	table.Lock(uuid.New(), uuid.New())
	table.Unlock(uuid.New(), uuid.New())
}

func TestLockTableStripeIndexInRange(t *testing.T) {
	// The fnv sum is a full 32-bit value; the modulus must stay unsigned
	// so the index never goes negative on 32-bit platforms.
	for _, stripes := range []int{1, 7, 64} {
		table := newLockTable(stripes)
		for i := 0; i < 1000; i++ {
			idx := table.stripeFor(uuid.New())
			if idx < 0 || idx >= stripes {
				t.Fatalf("stripe index %d out of range [0,%d)", idx, stripes)
			}
		}
	}
}
