// Package constraint answers queries about the constraints configured in
// the cluster document.
//
// The service is a thin translation layer: a constraint class plus an
// optional identity becomes a path selector, the configuration store runs
// it, and the matching elements are forwarded verbatim for the caller to
// format. Ticket constraints are filtered by ticket name, every other
// class by the resource it applies to.
//
// Zero matches is a successful empty result; callers distinguish "nothing
// to show" from "could not ask" because store failures propagate as
// store-unavailable errors. Identities are restricted to a safe character
// set so a query argument can never rewrite the selector around it.
package constraint
