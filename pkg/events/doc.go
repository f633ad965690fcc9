/*
Package events distributes configuration change notifications.

Long-lived components register for changes instead of polling: the
configuration store announces commits, the attribute store announces
attribute writes and node registrations. A host daemon subscribes to
re-resolve option blocks when the inputs they were gated on change.

# Delivery Model

	┌─────────┐  Publish   ┌────────┐  broadcast  ┌────────────┐
	│ stores  ├───────────►│ Broker ├────────────►│ subscriber │
	└─────────┘            └────────┘     ├──────►│ subscriber │
	                                      └──────►│    ...     │
	                                              └────────────┘

Delivery is best effort: each subscriber has a bounded buffer and a
subscriber that stops draining loses events rather than stalling the
loop. Writers only announce real changes; setting an attribute to the
value it already has stays silent, so subscribers can treat every event
as a reason to re-evaluate.

# Usage

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	store.SetBroker(broker)

	for ev := range sub {
		// re-resolve, invalidate caches, ...
	}
*/
package events
