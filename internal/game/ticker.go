package game

import (
	"log"
	"sync"
	"time"
)

// TickFunc runs on the ticker goroutine. It must not block; long work
// has to be handed off elsewhere.
type TickFunc func()

type tickEntry struct {
	id       uint64
	fn       TickFunc
	interval uint64
	repeat   bool
}

// Ticker fires registered callbacks on a fixed-interval global clock
// with a monotonically increasing tick counter. It runs on its own
// goroutine, decoupled from connection handling.
type Ticker struct {
	mu      sync.Mutex
	entries []*tickEntry
	nextID  uint64
	count   uint64
	stop    chan struct{}
}

func NewTicker() *Ticker {
	return &Ticker{stop: make(chan struct{})}
}

// Register schedules fn to run whenever the tick count is a multiple of
// interval. One-shot registrations are removed once they fire. The
// returned id can be passed to Remove.
func (t *Ticker) Register(fn TickFunc, interval uint64, repeat bool) uint64 {
	if interval < 1 {
		interval = 1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.entries = append(t.entries, &tickEntry{id: t.nextID, fn: fn, interval: interval, repeat: repeat})
	return t.nextID
}

// Remove drops a registration by id. Removing an id that already fired
// or was never registered is a no-op.
func (t *Ticker) Remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, e := range t.entries {
		if e.id == id {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return
		}
	}
}

// Count returns the current tick count.
func (t *Ticker) Count() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Start launches the clock goroutine, advancing once per interval until
// Stop is called.
func (t *Ticker) Start(interval time.Duration) {
	go func() {
		clock := time.NewTicker(interval)
		defer clock.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-clock.C:
				t.Advance()
			}
		}
	}()
}

func (t *Ticker) Stop() {
	close(t.stop)
}

// Advance increments the tick counter and fires the due callbacks in
// registration order. Callbacks run outside the ticker lock so they may
// register or remove entries themselves.
func (t *Ticker) Advance() {
	t.mu.Lock()
	t.count++
	count := t.count
	var due []*tickEntry
	keep := t.entries[:0]
	for _, e := range t.entries {
		if count%e.interval == 0 {
			due = append(due, e)
			if !e.repeat {
				continue
			}
		}
		keep = append(keep, e)
	}
	t.entries = keep
	t.mu.Unlock()

	for _, e := range due {
		t.fire(e)
	}
}

// fire isolates one callback: a panic is logged and must not keep the
// remaining due callbacks from running.
func (t *Ticker) fire(e *tickEntry) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tick callback %d panicked: %v", e.id, r)
		}
	}()
	e.fn()
}
