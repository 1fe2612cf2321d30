package notify

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// Ensure NATSBroker implements Broker
var _ Broker = (*NATSBroker)(nil)

// NATSBroker carries change signals over a NATS connection so that
// subscriptions held by one server instance observe writes made by another.
// Messages are empty; the subject is the signal.
type NATSBroker struct {
	nc *nats.Conn
}

// ConnectNATS connects to the NATS server at url and returns a broker on it.
func ConnectNATS(url string) (*NATSBroker, error) {
	nc, err := nats.Connect(url, nats.Name("split-the-bill"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSBroker{nc: nc}, nil
}

// Publish signals a change on the subject.
func (b *NATSBroker) Publish(subject string) error {
	if err := b.nc.Publish(subject, nil); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Subscribe registers fn for the subject.
func (b *NATSBroker) Subscribe(subject string, fn func()) (Subscription, error) {
	sub, err := b.nc.Subscribe(subject, func(*nats.Msg) { fn() })
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	return natsSubscription{sub: sub}, nil
}

type natsSubscription struct {
	sub *nats.Subscription
}

func (s natsSubscription) Unsubscribe() error {
	if !s.sub.IsValid() {
		return nil
	}
	return s.sub.Unsubscribe()
}

// Close drains the underlying connection.
func (b *NATSBroker) Close() {
	b.nc.Close()
}
