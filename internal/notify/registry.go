// Package notify holds the session-lifetime notification registry shared by
// the HTTP handlers.
package notify

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

var (
	ErrClosed      = errors.New("notification registry is closed")
	ErrNotFound    = errors.New("notification not found")
	ErrInvalidType = errors.New("invalid notification type")
)

// Registry is an ordered, newest-first list of notifications. It is safe
// for concurrent use. Changes are broadcast to subscribers as pings.
type Registry struct {
	mu        sync.RWMutex
	items     []domain.Notification
	lastID    int64
	closed    bool
	listeners map[chan struct{}]struct{}
	now       func() time.Time
}

// New creates a registry holding seed, which must already be newest first.
func New(seed ...domain.Notification) *Registry {
	return &Registry{
		items:     append([]domain.Notification(nil), seed...),
		listeners: make(map[chan struct{}]struct{}),
		now:       time.Now,
	}
}

// Close tears the registry down and closes every subscriber channel.
// Later calls on the registry return ErrClosed.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.closed = true
	for ch := range r.listeners {
		delete(r.listeners, ch)
		close(ch)
	}
	r.items = nil
	return nil
}

// Add inserts a new unread notification at the head of the list. Its id is
// the current time in Unix nanoseconds, bumped when it would repeat the
// previous id. An empty type means info; any other unknown type is
// rejected with ErrInvalidType.
func (r *Registry) Add(title, message string, typ domain.NotificationType) (domain.Notification, error) {
	if typ == "" {
		typ = domain.NotificationInfo
	}
	if !typ.Valid() {
		return domain.Notification{}, fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return domain.Notification{}, ErrClosed
	}

	now := r.now()
	id := now.UnixNano()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id

	n := domain.Notification{
		ID:        strconv.FormatInt(id, 10),
		Title:     title,
		Message:   message,
		Type:      typ,
		Timestamp: now,
	}
	r.items = append([]domain.Notification{n}, r.items...)
	r.broadcast()
	return n, nil
}

func (r *Registry) MarkRead(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	if !r.items[i].Read {
		r.items[i].Read = true
		r.broadcast()
	}
	return nil
}

func (r *Registry) MarkAllRead() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	for i := range r.items {
		r.items[i].Read = true
	}
	r.broadcast()
	return nil
}

func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.items = append(r.items[:i:i], r.items[i+1:]...)
	r.broadcast()
	return nil
}

// List returns a copy of the notifications, newest first.
func (r *Registry) List() ([]domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrClosed
	}
	return append([]domain.Notification(nil), r.items...), nil
}

func (r *Registry) UnreadCount() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return 0, ErrClosed
	}
	n := 0
	for _, item := range r.items {
		if !item.Read {
			n++
		}
	}
	return n, nil
}

// Subscribe returns a channel that receives a ping after every change.
// The caller must call Unsubscribe when done.
func (r *Registry) Subscribe() (chan struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	ch := make(chan struct{}, 1)
	r.listeners[ch] = struct{}{}
	return ch, nil
}

// Unsubscribe removes and closes ch. Channels already closed by Close are
// left alone.
func (r *Registry) Unsubscribe(ch chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listeners[ch]; ok {
		delete(r.listeners, ch)
		close(ch)
	}
}

// broadcast pings every listener without blocking. Callers hold r.mu.
func (r *Registry) broadcast() {
	for ch := range r.listeners {
		select {
		case ch <- struct{}{}:
		default:
			// Listener already has a pending ping.
		}
	}
}

func (r *Registry) indexOf(id string) int {
	for i, item := range r.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
