// Package notify fans change signals out to subscribers.
//
// The settlement namespace is shared and multi-writer: whenever any member
// toggles a settlement, every open balances view must re-read the settled-key
// set. The Broker carries that "something changed" signal. Payload-free by
// design: subscribers always re-read full state from the store, so a dropped
// or duplicated signal costs at most one redundant read.
package notify

// Broker publishes change signals on named subjects and delivers them to
// subscribers of those subjects.
type Broker interface {
	// Publish signals a change on the subject.
	Publish(subject string) error

	// Subscribe registers fn to run on every signal for the subject.
	// fn may be invoked concurrently with other subscribers and must not block
	// indefinitely.
	Subscribe(subject string, fn func()) (Subscription, error)
}

// Subscription is a handle to an active subscription.
type Subscription interface {
	// Unsubscribe stops further deliveries. Safe to call more than once.
	Unsubscribe() error
}
