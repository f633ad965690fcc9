package cib

import "github.com/beevik/etree"

// Store is the external configuration store collaborator: a versioned
// document queried with path selectors and replaced wholesale on commit.
type Store interface {
	// Query returns every element matching the path selector, in document
	// order. No matches is a successful empty result. A selector that does
	// not compile reports invalid input; a store that cannot be asked
	// reports store-unavailable.
	Query(selector string) ([]*etree.Element, error)

	// Document returns the current document as a shared read view.
	// Mutations must go through Commit.
	Document() *etree.Document

	// Commit replaces the stored document with a copy of doc, bumping the
	// epoch. The caller's document is left untouched.
	Commit(doc *etree.Document) error

	Close() error
}
