// Package notify queues short-lived user-facing messages. Entries are shown
// in insertion order and removed either explicitly or when their timer fires.
package notify

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-task-tracker/internal/model"
)

const (
	DefaultDuration = 3 * time.Second
	ErrorDuration   = 5 * time.Second
)

// Scheduler runs fn once after d and returns a function that cancels it.
type Scheduler func(d time.Duration, fn func()) (cancel func())

// Listener receives the queue after every change.
type Listener func(queue []model.Notification)

type Option func(*Channel)

func WithScheduler(s Scheduler) Option {
	return func(c *Channel) {
		if s != nil {
			c.schedule = s
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Channel) {
		if now != nil {
			c.now = now
		}
	}
}

type Channel struct {
	schedule Scheduler
	now      func() time.Time

	mu     sync.Mutex
	queue  []model.Notification
	timers map[string]func()

	subMu       sync.RWMutex
	subscribers map[string]Listener
}

func New(opts ...Option) *Channel {
	c := &Channel{
		schedule:    afterFunc,
		now:         time.Now,
		timers:      make(map[string]func()),
		subscribers: make(map[string]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Channel) Success(message string, duration ...time.Duration) model.Notification {
	return c.Notify(model.NotificationSuccess, message, first(duration))
}

func (c *Channel) Error(message string, duration ...time.Duration) model.Notification {
	return c.Notify(model.NotificationError, message, first(duration))
}

func (c *Channel) Info(message string, duration ...time.Duration) model.Notification {
	return c.Notify(model.NotificationInfo, message, first(duration))
}

func (c *Channel) Warning(message string, duration ...time.Duration) model.Notification {
	return c.Notify(model.NotificationWarning, message, first(duration))
}

// Notify appends a notification and schedules its dismissal. A non-positive
// duration selects the category default.
func (c *Channel) Notify(category model.NotificationCategory, message string, duration time.Duration) model.Notification {
	if duration <= 0 {
		duration = defaultDuration(category)
	}

	now := c.now()
	n := model.Notification{
		ID:          newID(now),
		Category:    category,
		Message:     message,
		Duration:    duration,
		AutoDismiss: true,
		CreatedAt:   now,
	}

	c.mu.Lock()
	c.queue = append(c.queue, n)
	c.mu.Unlock()

	if n.AutoDismiss {
		id := n.ID
		cancel := c.schedule(duration, func() { c.Dismiss(id) })

		c.mu.Lock()
		if c.indexLocked(id) >= 0 {
			c.timers[id] = cancel
		} else if cancel != nil {
			cancel()
		}
		c.mu.Unlock()
	}

	c.publish()
	return n
}

// Dismiss removes the entry with the given id. It reports whether anything was
// removed; dismissing an unknown or already expired id is a no-op.
func (c *Channel) Dismiss(id string) bool {
	c.mu.Lock()
	idx := c.indexLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}

	c.queue = append(c.queue[:idx:idx], c.queue[idx+1:]...)
	cancel := c.timers[id]
	delete(c.timers, id)
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	c.publish()
	return true
}

// Clear empties the queue and stops every pending timer.
func (c *Channel) Clear() {
	c.mu.Lock()
	cancels := make([]func(), 0, len(c.timers))
	for _, cancel := range c.timers {
		cancels = append(cancels, cancel)
	}
	c.queue = nil
	c.timers = make(map[string]func())
	c.mu.Unlock()

	for _, cancel := range cancels {
		if cancel != nil {
			cancel()
		}
	}

	c.publish()
}

// List returns a snapshot of the queue in display order.
func (c *Channel) List() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Notification, len(c.queue))
	copy(out, c.queue)
	return out
}

func (c *Channel) Subscribe(fn Listener) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := uuid.NewString()
	c.subscribers[id] = fn

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subscribers, id)
	}
}

func (c *Channel) indexLocked(id string) int {
	for i, n := range c.queue {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (c *Channel) publish() {
	c.subMu.RLock()
	listeners := make([]Listener, 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		listeners = append(listeners, fn)
	}
	c.subMu.RUnlock()

	if len(listeners) == 0 {
		return
	}

	snapshot := c.List()
	for _, fn := range listeners {
		fn(snapshot)
	}
}

func defaultDuration(category model.NotificationCategory) time.Duration {
	if category == model.NotificationError {
		return ErrorDuration
	}
	return DefaultDuration
}

func first(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	return durations[0]
}

// newID is unique in practice, not by construction: a millisecond timestamp
// plus nine random hex characters.
func newID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("toast-%d-%s", now.UnixMilli(), suffix)
}

func afterFunc(d time.Duration, fn func()) func() {
	timer := time.AfterFunc(d, fn)
	return func() { timer.Stop() }
}
