package ws

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

// Listener is a subscriber connection. *websocket.Conn satisfies it.
type Listener interface {
	WriteJSON(v interface{}) error
}

// deadliner is implemented by connections that can bound a write, like *websocket.Conn.
type deadliner interface {
	SetWriteDeadline(t time.Time) error
}

// subscriber serializes writes to one connection; websocket conns allow a single writer.
type subscriber struct {
	writeMutex sync.Mutex
	conn       Listener
}

func (s *subscriber) write(event any) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	if d, ok := s.conn.(deadliner); ok {
		if err := d.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
	}
	return s.conn.WriteJSON(event)
}

type WebSocketNotificationHub struct {
	registrationMutex sync.Mutex
	listeners         map[string][]*subscriber
}

func NewNotificationHub() *WebSocketNotificationHub {
	return &WebSocketNotificationHub{
		listeners: make(map[string][]*subscriber),
	}
}

func (hub *WebSocketNotificationHub) RegisterListener(topic string, conn Listener) {
	hub.registrationMutex.Lock()
	defer hub.registrationMutex.Unlock()

	hub.listeners[topic] = append(hub.listeners[topic], &subscriber{conn: conn})
}

func (hub *WebSocketNotificationHub) UnregisterListener(topic string, conn Listener) {
	hub.registrationMutex.Lock()
	defer hub.registrationMutex.Unlock()

	hub.removeLocked(topic, conn)
}

// Publish writes event to every listener of targetTopic. Writes happen outside the
// registration lock and are bounded by writeWait; listeners that fail are dropped.
func (hub *WebSocketNotificationHub) Publish(targetTopic string, event any) {
	hub.registrationMutex.Lock()
	subscribers := append([]*subscriber(nil), hub.listeners[targetTopic]...)
	hub.registrationMutex.Unlock()

	for _, s := range subscribers {
		if err := s.write(event); err != nil {
			log.Warn().Err(err).Str("topic", targetTopic).Msg("Dropping websocket listener")
			hub.UnregisterListener(targetTopic, s.conn)
		}
	}
}

func (hub *WebSocketNotificationHub) ListenerCount(topic string) int {
	hub.registrationMutex.Lock()
	defer hub.registrationMutex.Unlock()
	return len(hub.listeners[topic])
}

func (hub *WebSocketNotificationHub) removeLocked(topic string, conn Listener) {
	subscribers := hub.listeners[topic]
	for i, s := range subscribers {
		if s.conn == conn {
			subscribers = append(subscribers[:i:i], subscribers[i+1:]...)
			break
		}
	}
	if len(subscribers) == 0 {
		delete(hub.listeners, topic)
		return
	}
	hub.listeners[topic] = subscribers
}
