// Package center holds the process-wide queue of active notifications.
//
// A Center is constructed once at startup and shared by reference. All
// methods are safe for concurrent use. Observers register with Subscribe and
// receive a Change after every mutation, in mutation order.
package center

import (
	"sync"
	"time"

	"notifycenter/internal/domain"
	"notifycenter/internal/model"
)

const (
	ChangeAdded   = "added"
	ChangeRemoved = "removed"
)

const (
	ReasonDismissed = "dismissed"
	ReasonEvicted   = "evicted"
)

// Change describes one mutation of the center.
type Change struct {
	Type         string               `json:"type"`
	Reason       string               `json:"reason,omitempty"`
	Notification model.Notification   `json:"notification"`
	Snapshot     []model.Notification `json:"notifications"`
	Version      uint64               `json:"version"`
}

// Listener is called synchronously for each Change. It may read the center
// but must not call Add, Push or Remove on it, and it should return quickly:
// the next mutation waits for it.
type Listener func(Change)

type Option func(*Center)

// WithClock replaces time.Now as the source of CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Center) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMaxActive bounds the number of live notifications. Adding past the
// bound evicts the oldest. Zero or negative means unbounded.
func WithMaxActive(n int) Option {
	return func(c *Center) {
		if n > 0 {
			c.maxActive = n
		}
	}
}

type Center struct {
	mu        sync.Mutex
	nextID    int64
	items     []model.Notification
	lastAt    time.Time
	version   uint64
	maxActive int
	now       func() time.Time

	listenerSeq uint64
	listeners   map[uint64]Listener

	// serializes mutations with their dispatch so listeners observe changes in
	// mutation order; always taken before mu, never while holding it
	dispatchMu sync.Mutex
}

func New(opts ...Option) *Center {
	c := &Center{
		now:       time.Now,
		listeners: make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add appends a notification and returns its id.
func (c *Center) Add(message, kind string) int64 {
	return c.Push(message, kind).ID
}

// Push appends a notification and returns the stored record.
func (c *Center) Push(message, kind string) model.Notification {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()

	c.mu.Lock()
	createdAt := c.now().UTC()
	if createdAt.Before(c.lastAt) {
		createdAt = c.lastAt
	}
	c.lastAt = createdAt

	notification := model.Notification{
		ID:        c.nextID,
		Message:   message,
		Kind:      domain.NormalizeKind(kind),
		CreatedAt: createdAt,
	}
	c.nextID++
	c.items = append(c.items, notification)

	changes := []Change{c.changeLocked(ChangeAdded, "", notification)}
	for c.maxActive > 0 && len(c.items) > c.maxActive {
		evicted := c.items[0]
		c.items = append(c.items[:0:0], c.items[1:]...)
		changes = append(changes, c.changeLocked(ChangeRemoved, ReasonEvicted, evicted))
	}
	subs := c.listenersLocked()
	c.mu.Unlock()

	notifyAll(subs, changes)
	return notification
}

// Remove deletes the notification with the given id. Unknown ids are ignored
// and produce no Change.
func (c *Center) Remove(id int64) bool {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()

	c.mu.Lock()
	index := c.indexLocked(id)
	if index < 0 {
		c.mu.Unlock()
		return false
	}
	removed := c.items[index]
	c.items = append(c.items[:index], c.items[index+1:]...)
	change := c.changeLocked(ChangeRemoved, ReasonDismissed, removed)
	subs := c.listenersLocked()
	c.mu.Unlock()

	notifyAll(subs, []Change{change})
	return true
}

// List returns a copy of the live notifications in insertion order.
func (c *Center) List() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Snapshot returns the live notifications together with the version of the
// last Change applied to them.
func (c *Center) Snapshot() ([]model.Notification, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked(), c.version
}

func (c *Center) Get(id int64) (model.Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	index := c.indexLocked(id)
	if index < 0 {
		return model.Notification{}, false
	}
	return c.items[index], true
}

func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Subscribe registers fn for every subsequent Change. The returned func
// unregisters it and may be called more than once.
func (c *Center) Subscribe(fn Listener) func() {
	c.mu.Lock()
	c.listenerSeq++
	id := c.listenerSeq
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

func (c *Center) indexLocked(id int64) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Center) snapshotLocked() []model.Notification {
	out := make([]model.Notification, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Center) changeLocked(changeType, reason string, n model.Notification) Change {
	c.version++
	return Change{
		Type:         changeType,
		Reason:       reason,
		Notification: n,
		Snapshot:     c.snapshotLocked(),
		Version:      c.version,
	}
}

func (c *Center) listenersLocked() []Listener {
	subs := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		subs = append(subs, fn)
	}
	return subs
}

// notifyAll runs with dispatchMu held and mu released.
func notifyAll(subs []Listener, changes []Change) {
	for _, change := range changes {
		for _, fn := range subs {
			fn(change)
		}
	}
}
