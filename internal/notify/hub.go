package notify

import "sync"

// Ensure Hub implements Broker
var _ Broker = (*Hub)(nil)

// Hub is an in-process Broker. It is the default when the server runs as a
// single instance; multi-instance deployments bridge through NATS instead.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func()
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]func())}
}

// Publish signals a change on the subject. Each callback runs on its own
// goroutine so a slow subscriber cannot stall the writer.
func (h *Hub) Publish(subject string) error {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.subs[subject]))
	for _, fn := range h.subs[subject] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		go fn()
	}
	return nil
}

// Subscribe registers fn for the subject.
func (h *Hub) Subscribe(subject string, fn func()) (Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	if h.subs[subject] == nil {
		h.subs[subject] = make(map[int]func())
	}
	h.subs[subject][id] = fn

	return &hubSubscription{hub: h, subject: subject, id: id}, nil
}

type hubSubscription struct {
	hub     *Hub
	subject string
	id      int
}

func (s *hubSubscription) Unsubscribe() error {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()

	if subs, ok := s.hub.subs[s.subject]; ok {
		delete(subs, s.id)
		if len(subs) == 0 {
			delete(s.hub.subs, s.subject)
		}
	}
	return nil
}
