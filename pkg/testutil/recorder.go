package testutil

import (
	"fmt"
	"sync"
)

// Hook names recorded by Recorder.
const (
	HookCreate  = "create"
	HookRent    = "rent"
	HookRecycle = "recycle"
	HookDispose = "dispose"
)

// Item is the instance type handed out by Recorder.
type Item struct {
	ID    int
	Dirty bool
}

// Event is one recorded hook call.
type Event struct {
	Hook string
	ID   int
}

func (e Event) String() string {
	return fmt.Sprintf("%s#%d", e.Hook, e.ID)
}

// Recorder is a pool policy over *Item that records every hook call in
// order. Items get sequential IDs starting at 1. Use it as *Recorder.
type Recorder struct {
	mu     sync.Mutex
	nextID int
	events []Event
}

func (r *Recorder) Create() *Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.events = append(r.events, Event{Hook: HookCreate, ID: r.nextID})
	return &Item{ID: r.nextID}
}

func (r *Recorder) OnRent(it *Item) { r.record(HookRent, it) }

func (r *Recorder) OnRecycle(it *Item) {
	it.Dirty = false
	r.record(HookRecycle, it)
}

func (r *Recorder) OnDispose(it *Item) { r.record(HookDispose, it) }

func (r *Recorder) record(hook string, it *Item) {
	r.mu.Lock()
	r.events = append(r.events, Event{Hook: hook, ID: it.ID})
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns how many times hook ran.
func (r *Recorder) Count(hook string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Hook == hook {
			n++
		}
	}
	return n
}

// Reset forgets recorded events but keeps the ID sequence.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = r.events[:0]
	r.mu.Unlock()
}
