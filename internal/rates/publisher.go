package rates

import "sync"

// Subscriber receives every published summary.
type Subscriber func(Summary)

// Publisher fans summaries out to subscribers synchronously, in
// subscription order, so all observers agree once Publish returns.
type Publisher struct {
	mu   sync.RWMutex
	subs []Subscriber
}

// NewPublisher creates a publisher with no subscribers.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Subscribe registers fn for future summaries.
func (p *Publisher) Subscribe(fn Subscriber) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
}

// Publish delivers s to every subscriber before returning.
func (p *Publisher) Publish(s Summary) {
	p.mu.RLock()
	subs := make([]Subscriber, len(p.subs))
	copy(subs, p.subs)
	p.mu.RUnlock()

	for _, fn := range subs {
		fn(s)
	}
}
