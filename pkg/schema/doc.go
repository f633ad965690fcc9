// Package schema maintains the ordered catalog of configuration document
// versions and moves documents between them.
//
// # Catalog
//
// The Registry scans a primary directory of XSD files plus any number of
// supplementary directories, producing a totally ordered catalog:
//
//	burrow-1.0 < burrow-1.1 < burrow-2.0 < ... < burrow-next < none
//
// Numbered releases sort by major.minor, the development schema
// (burrow-next) sorts after every release, and the terminal pseudo entry
// "none" is always last. Supplementary directories extend the catalog with
// versions the primary set does not carry, which keeps a cluster working
// while its nodes straddle releases; names already present are not
// replaced. The terminal entry is never file-backed and never matches a
// document, it only exists as an upgrade-target bound meaning "stop
// validating".
//
// The hosting process owns exactly one Registry: construct it at startup,
// Init it, hand it by reference to every consumer, and Teardown at
// shutdown. Re-initializing after a teardown rebuilds the catalog from
// scratch, which test harnesses use to switch schema directories between
// runs. Lookups and validation are safe for concurrent use; lifecycle
// transitions must not race readers.
//
// # Validation
//
// Validate tries the catalog in ascending order and returns the first
// version the document satisfies. Checking low-to-high deliberately keeps
// documents on the oldest schema they still conform to: in a cluster
// mixing upgraded and not-yet-upgraded nodes, the most widely understood
// version is the one everyone can still parse.
//
// # Upgrades
//
// Upgrade walks the catalog one step at a time, running the Transform
// registered for each departed version, restamping the document's schema
// attribute, and revalidating before the next step. Work happens on a
// private copy that is returned only on full success; any failure (an
// unregistered step, a transform error, output that misses the next
// schema) leaves the caller's document byte-for-byte intact.
package schema
