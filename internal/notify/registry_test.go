package notify

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

func seeded() *Registry {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	return New(
		domain.Notification{ID: "1", Title: "Deadline", Type: domain.NotificationWarning, Timestamp: now},
		domain.Notification{ID: "2", Title: "Report", Type: domain.NotificationInfo, Timestamp: now.Add(-24 * time.Hour), Read: true},
	)
}

func TestRegistry_AddInsertsFirstUnread(t *testing.T) {
	r := seeded()

	before, err := r.UnreadCount()
	require.NoError(t, err)

	n, err := r.Add("Saved", "Experiment created", domain.NotificationSuccess)
	require.NoError(t, err)
	assert.False(t, n.Read)
	assert.NotEmpty(t, n.ID)

	list, err := r.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, n.ID, list[0].ID)

	after, _ := r.UnreadCount()
	assert.Equal(t, before+1, after)
}

func TestRegistry_AddIDsAreUniqueForSameInstant(t *testing.T) {
	r := New()
	fixed := time.Unix(0, 1_000)
	r.now = func() time.Time { return fixed }

	a, _ := r.Add("a", "", domain.NotificationInfo)
	b, _ := r.Add("b", "", domain.NotificationInfo)

	assert.Equal(t, strconv.FormatInt(fixed.UnixNano(), 10), a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRegistry_AddType(t *testing.T) {
	r := New()
	n, err := r.Add("x", "y", "")
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationInfo, n.Type)

	_, err = r.Add("x", "y", domain.NotificationType("critical"))
	assert.ErrorIs(t, err, ErrInvalidType)
	count, _ := r.UnreadCount()
	assert.Equal(t, 1, count)
}

func TestRegistry_MarkReadAndMarkAllRead(t *testing.T) {
	r := seeded()
	_, _ = r.Add("a", "", domain.NotificationInfo)

	require.NoError(t, r.MarkRead("1"))
	list, _ := r.List()
	for _, n := range list {
		if n.ID == "1" {
			assert.True(t, n.Read)
		}
	}

	assert.ErrorIs(t, r.MarkRead("missing"), ErrNotFound)

	require.NoError(t, r.MarkAllRead())
	count, _ := r.UnreadCount()
	assert.Zero(t, count)
}

func TestRegistry_Remove(t *testing.T) {
	r := seeded()

	require.NoError(t, r.Remove("2"))
	list, _ := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID)

	assert.ErrorIs(t, r.Remove("2"), ErrNotFound)
}

func TestRegistry_ListReturnsCopy(t *testing.T) {
	r := seeded()
	list, _ := r.List()
	list[0].Title = "changed"

	again, _ := r.List()
	assert.Equal(t, "Deadline", again[0].Title)
}

func TestRegistry_Close(t *testing.T) {
	r := seeded()
	ch, err := r.Subscribe()
	require.NoError(t, err)

	require.NoError(t, r.Close())

	_, open := <-ch
	assert.False(t, open, "subscriber channel should be closed")
	r.Unsubscribe(ch)

	_, err = r.List()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = r.Add("a", "", domain.NotificationInfo)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = r.UnreadCount()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, r.MarkAllRead(), ErrClosed)
	assert.ErrorIs(t, r.Close(), ErrClosed)
	_, err = r.Subscribe()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRegistry_BroadcastOnChange(t *testing.T) {
	r := New()
	ch, err := r.Subscribe()
	require.NoError(t, err)
	defer r.Unsubscribe(ch)

	_, _ = r.Add("a", "", domain.NotificationInfo)

	select {
	case <-ch:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("subscriber did not receive ping")
	}
}

func TestRegistry_BroadcastNonBlocking(t *testing.T) {
	r := New()
	ch, _ := r.Subscribe()
	defer r.Unsubscribe(ch)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			_, _ = r.Add("a", "", domain.NotificationInfo)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Add blocked on a slow subscriber")
	}
	assert.Len(t, ch, 1)
}

func TestRegistry_ConcurrentAdd(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Add("n", "", domain.NotificationInfo)
		}()
	}
	wg.Wait()

	list, _ := r.List()
	require.Len(t, list, 50)
	ids := make(map[string]bool)
	for _, n := range list {
		assert.False(t, ids[n.ID], "duplicate id %s", n.ID)
		ids[n.ID] = true
	}
}

func TestFromContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNotInitialized)

	r := New()
	got, err := FromContext(WithRegistry(context.Background(), r))
	require.NoError(t, err)
	assert.Same(t, r, got)
}

func TestMustFromContext_PanicsOutsideScope(t *testing.T) {
	assert.PanicsWithError(t, ErrNotInitialized.Error(), func() {
		MustFromContext(context.Background())
	})

	r := New()
	assert.NotPanics(t, func() {
		assert.Same(t, r, MustFromContext(WithRegistry(context.Background(), r)))
	})
}
