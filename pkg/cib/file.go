package cib

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/beevik/etree"

	"github.com/cuemby/burrow/pkg/events"
	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/metrics"
	"github.com/cuemby/burrow/pkg/types"
)

// FileStore keeps the configuration document in a single XML file,
// rewritten atomically on every commit. Reads are served from memory.
type FileStore struct {
	path   string
	broker *events.Broker

	mu  sync.RWMutex
	doc *etree.Document
}

// OpenFile loads the document at path. A file that cannot be read is
// store-unavailable; a file that reads but does not parse as a document is
// invalid input.
func OpenFile(path string) (*FileStore, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file %q: %w: %w", path, err, types.ErrStoreUnavailable)
		}
		return nil, fmt.Errorf("configuration file %q: %w: %w", path, err, types.ErrInvalidInput)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("configuration file %q is empty: %w", path, types.ErrInvalidInput)
	}

	logger := log.WithComponent("cib")
	logger.Debug().Str("path", path).Int("epoch", Epoch(doc)).Msg("configuration loaded")
	return &FileStore{path: path, doc: doc}, nil
}

// InitFile writes doc to path and returns the open store. The parent
// directory must exist; an existing file is overwritten, so callers decide
// whether clobbering is acceptable before calling.
func InitFile(path string, doc *etree.Document) (*FileStore, error) {
	if doc == nil || doc.Root() == nil {
		return nil, fmt.Errorf("init %q: no document: %w", path, types.ErrInvalidInput)
	}
	s := &FileStore{path: path, doc: doc.Copy()}
	if err := s.write(s.doc); err != nil {
		return nil, err
	}
	return s, nil
}

// SetBroker wires a notification broker announcing commits. Wire it
// before handing the store to concurrent users; nil disables publishing.
func (s *FileStore) SetBroker(b *events.Broker) {
	s.broker = b
}

// Query compiles the selector and returns the matching elements in
// document order. The elements alias the store's current document; they
// stay valid as a snapshot even if a commit later replaces it.
func (s *FileStore) Query(selector string) ([]*etree.Element, error) {
	path, err := etree.CompilePath(selector)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w: %w", selector, err, types.ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	metrics.StoreQueriesTotal.Inc()
	return s.doc.FindElementsPath(path), nil
}

// Document returns the current document as a shared read view.
func (s *FileStore) Document() *etree.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Commit stores a copy of doc with the epoch advanced past the current
// one, writing it to disk before exposing it to readers.
func (s *FileStore) Commit(doc *etree.Document) error {
	if doc == nil || doc.Root() == nil {
		return fmt.Errorf("commit: no document: %w", types.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := doc.Copy()
	next.Root().CreateAttr(AttrEpoch, strconv.Itoa(Epoch(s.doc)+1))

	if err := s.write(next); err != nil {
		return err
	}
	s.doc = next

	if s.broker != nil {
		s.broker.Publish(events.New(events.EventDocumentCommitted,
			fmt.Sprintf("epoch %d", Epoch(next)),
			map[string]string{
				"epoch":  strconv.Itoa(Epoch(next)),
				"schema": SchemaName(next),
			}))
	}
	metrics.StoreCommitsTotal.Inc()
	logger := log.WithComponent("cib")
	logger.Debug().Str("path", s.path).Int("epoch", Epoch(next)).Msg("configuration committed")
	return nil
}

// write serializes the document and swaps it into place via a rename so a
// crash mid-write never leaves a torn file.
func (s *FileStore) write(doc *etree.Document) error {
	out := doc.Copy()
	out.Indent(2)
	raw, err := out.WriteToBytes()
	if err != nil {
		return fmt.Errorf("serialize configuration: %w: %w", err, types.ErrInvalidInput)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("write %q: %w: %w", tmp, err, types.ErrStoreUnavailable)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename %q: %w: %w", filepath.Base(tmp), err, types.ErrStoreUnavailable)
	}
	return nil
}

// Close releases nothing for a file store; it exists so callers can treat
// every store uniformly.
func (s *FileStore) Close() error {
	return nil
}
