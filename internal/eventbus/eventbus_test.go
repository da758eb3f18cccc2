package eventbus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"yacs/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishDeliversInOrder(t *testing.T) {
	b := New(nil)
	defer b.Close()

	got := make(chan int, 3)
	b.Subscribe(EventSchedulesComputed, func(e DomainEvent) {
		got <- e.(domain.SchedulesComputedEvent).Count
	})

	for i := 1; i <= 3; i++ {
		b.Publish(domain.SchedulesComputedEvent{Count: i})
	}

	for want := 1; want <= 3; want++ {
		select {
		case n := <-got:
			assert.Equal(t, want, n)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New(nil)
	defer b.Close()

	first := make(chan struct{}, 4)
	second := make(chan struct{}, 4)
	unsub := b.Subscribe(EventSelectionCleared, func(DomainEvent) { first <- struct{}{} })
	b.Subscribe(EventSelectionCleared, func(DomainEvent) { second <- struct{}{} })
	unsub()

	b.Publish(domain.SelectionClearedEvent{SelectionID: 1})

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	assert.Empty(t, first)
}

func TestHandlerPanicIsContained(t *testing.T) {
	b := New(nil)
	defer b.Close()

	done := make(chan struct{}, 1)
	b.Subscribe(EventError, func(DomainEvent) { panic("handler bug") })
	b.Subscribe(EventError, func(DomainEvent) { done <- struct{}{} })

	b.Publish(domain.ErrorEvent{Message: "x"})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second handler not called after panic")
	}
}

func TestAuditLogsEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	b := New(nil)
	defer b.Close()

	stop := Audit(b, zap.New(core))
	defer stop()

	b.Publish(domain.SelectionSavedEvent{SelectionID: 9, Courses: 2, Revision: 3})
	b.Publish(domain.ErrorEvent{Message: "fetch failed", Err: errors.New("boom")})

	require.Eventually(t, func() bool { return logs.Len() == 2 }, time.Second, 5*time.Millisecond)
	entries := logs.AllUntimed()
	assert.Equal(t, "selection saved", entries[0].Message)
	assert.Equal(t, int64(9), entries[0].ContextMap()["selection_id"])
	assert.Equal(t, "fetch failed", entries[1].Message)
}
