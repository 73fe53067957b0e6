package ws

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeListener struct {
	received []any
	fail     bool
}

func (f *fakeListener) WriteJSON(v interface{}) error {
	if f.fail {
		return errors.New("broken pipe")
	}
	f.received = append(f.received, v)
	return nil
}

func TestHubPublishesToTopicOnly(t *testing.T) {
	hub := NewNotificationHub()
	g1, g2 := &fakeListener{}, &fakeListener{}
	hub.RegisterListener("game/g1", g1)
	hub.RegisterListener("game/g2", g2)

	hub.Publish("game/g1", "moved")

	assert.Equal(t, []any{"moved"}, g1.received)
	assert.Empty(t, g2.received)
}

func TestHubUnregister(t *testing.T) {
	hub := NewNotificationHub()
	a, b := &fakeListener{}, &fakeListener{}
	hub.RegisterListener("game/g1", a)
	hub.RegisterListener("game/g1", b)

	hub.UnregisterListener("game/g1", a)
	hub.Publish("game/g1", "moved")

	assert.Empty(t, a.received)
	assert.Len(t, b.received, 1)

	hub.UnregisterListener("game/g1", b)
	assert.Zero(t, hub.ListenerCount("game/g1"))
}

func TestHubDropsFailingListeners(t *testing.T) {
	hub := NewNotificationHub()
	broken, healthy := &fakeListener{fail: true}, &fakeListener{}
	hub.RegisterListener("game/g1", broken)
	hub.RegisterListener("game/g1", healthy)

	hub.Publish("game/g1", "moved")

	assert.Equal(t, 1, hub.ListenerCount("game/g1"))
	assert.Len(t, healthy.received, 1)
}

type stalledListener struct {
	release  chan struct{}
	deadline time.Time
}

func (s *stalledListener) SetWriteDeadline(t time.Time) error {
	s.deadline = t
	return nil
}

func (s *stalledListener) WriteJSON(interface{}) error {
	<-s.release
	return nil
}

func TestHubStalledListenerDoesNotBlockOthers(t *testing.T) {
	hub := NewNotificationHub()
	stalled := &stalledListener{release: make(chan struct{})}
	hub.RegisterListener("game/g1", stalled)

	done := make(chan struct{})
	go func() {
		hub.Publish("game/g1", "moved")
		close(done)
	}()

	other := &fakeListener{}
	hub.RegisterListener("game/g2", other)
	hub.Publish("game/g2", "moved")
	assert.Len(t, other.received, 1)
	assert.Equal(t, 1, hub.ListenerCount("game/g1"))

	close(stalled.release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish did not return after the listener was released")
	}
	assert.False(t, stalled.deadline.IsZero())
}
