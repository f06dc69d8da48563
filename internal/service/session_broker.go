package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

// SessionListener receives session events.
type SessionListener func(event models.SessionEvent)

// SessionBroker fans identity changes out to subscribers such as the profile cache.
// Listeners run synchronously on the publishing goroutine.
type SessionBroker struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]SessionListener
	logger    *zap.Logger
}

// NewSessionBroker constructs an empty broker.
func NewSessionBroker(logger *zap.Logger) *SessionBroker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionBroker{listeners: make(map[int]SessionListener), logger: logger}
}

// Subscribe registers fn and returns a function removing it again.
func (b *SessionBroker) Subscribe(fn SessionListener) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers event to every listener registered at call time.
func (b *SessionBroker) Publish(eventType models.SessionEventType, userID string) {
	if b == nil {
		return
	}
	event := models.SessionEvent{Type: eventType, UserID: userID, OccurredAt: time.Now().UTC()}

	b.mu.RLock()
	listeners := make([]SessionListener, 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	b.mu.RUnlock()

	for _, fn := range listeners {
		b.deliver(fn, event)
	}
}

func (b *SessionBroker) deliver(fn SessionListener, event models.SessionEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("session listener panicked", zap.String("event", string(event.Type)), zap.Any("panic", r))
		}
	}()
	fn(event)
}
