// Package domain holds building blocks shared by every module's domain layer.
package domain

import "github.com/rai/clean-bookstore-go/modules/shared/events"

// AggregateRoot records the events an aggregate raises while it changes.
// Embed it by value; the zero value has no pending events.
//
//	type Order struct {
//	    domain.AggregateRoot
//	    ...
//	}
//
// The application layer drains the events with PopDomainEvents once the
// aggregate's transaction has committed and hands them to a Publisher.
type AggregateRoot struct {
	pending []events.Event
}

// AddDomainEvent queues e for publication.
func (a *AggregateRoot) AddDomainEvent(e events.Event) {
	a.pending = append(a.pending, e)
}

// DomainEvents returns the queued events without draining them.
func (a *AggregateRoot) DomainEvents() []events.Event {
	return a.pending
}

// PopDomainEvents drains the queue. A second call returns nothing, so an
// event can't be published twice.
func (a *AggregateRoot) PopDomainEvents() []events.Event {
	drained := a.pending
	a.pending = nil
	return drained
}
