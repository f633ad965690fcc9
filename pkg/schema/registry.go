package schema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"github.com/jacoelho/xsd"
	"github.com/rs/zerolog"

	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/metrics"
	"github.com/cuemby/burrow/pkg/types"
)

// Config selects the schema directories the catalog is built from.
//
// Dir is always scanned. ExtraDirs extend the catalog with versions the
// primary set does not know yet (peers running newer releases during a
// rolling upgrade); their entries are appended only when the name is not
// already present.
type Config struct {
	Dir       string
	ExtraDirs []string
}

// Registry is the process-wide ordered catalog of schema versions.
//
// The hosting process constructs one Registry at startup, calls Init, and
// passes it by reference to every consumer; Teardown returns it to the
// uninitialized state and a later Init rebuilds the catalog from scratch.
// Lookups and validation are safe for concurrent use; callers serialize
// lifecycle transitions against in-flight readers.
type Registry struct {
	cfg Config

	mu       sync.RWMutex
	versions []Version
	byName   map[string]int
}

// NewRegistry returns an uninitialized registry over the given directories.
func NewRegistry(cfg Config) *Registry {
	return &Registry{cfg: cfg}
}

// Init scans the configured directories and builds the ordered catalog.
// Calling Init on an initialized registry is a no-op. The catalog must end
// up with at least one usable schema; a missing directory or an empty scan
// is a structural failure.
func (r *Registry) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.versions != nil {
		return nil
	}

	logger := log.WithComponent("schema")

	versions, err := scanDir(r.cfg.Dir, logger)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(versions))
	for _, v := range versions {
		seen[v.Name] = true
	}

	for _, dir := range r.cfg.ExtraDirs {
		extra, err := scanDir(dir, logger)
		if err != nil {
			return err
		}
		for _, v := range extra {
			if seen[v.Name] {
				continue
			}
			seen[v.Name] = true
			versions = append(versions, v)
		}
	}

	if len(versions) == 0 {
		return fmt.Errorf("no usable schemas under %q: %w", r.cfg.Dir, types.ErrStoreUnavailable)
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].key.less(versions[j].key)
	})
	versions = append(versions, Version{Name: NameNone, key: versionKey{rank: 2}})

	byName := make(map[string]int, len(versions))
	for i := range versions {
		versions[i].Ordinal = i
		byName[versions[i].Name] = i
	}

	r.versions = versions
	r.byName = byName

	logger.Info().Int("versions", len(versions)).Str("dir", r.cfg.Dir).Msg("schema catalog built")
	return nil
}

// scanDir collects one catalog entry per usable .xsd file. Files whose
// stem is not a recognizable version name, and files that do not compile,
// are skipped with a log line so one stray file cannot block startup; an
// unreadable directory is a structural failure.
func scanDir(dir string, logger zerolog.Logger) ([]Version, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read schema directory %q: %w: %w", dir, err, types.ErrStoreUnavailable)
	}

	var versions []Version
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xsd") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".xsd")
		key, err := parseVersionKey(name)
		if err != nil || key.rank == 2 {
			logger.Warn().Str("file", entry.Name()).Str("dir", dir).Msg("skipping unrecognized schema file")
			continue
		}

		path := filepath.Join(dir, entry.Name())
		sch, err := xsd.LoadFile(path)
		if err != nil {
			logger.Warn().Str("file", entry.Name()).Str("dir", dir).Err(err).Msg("skipping schema that does not compile")
			continue
		}

		versions = append(versions, Version{
			Name: name,
			key:  key,
			path: path,
			sch:  sch,
		})
	}
	return versions, nil
}

// Teardown releases the catalog and returns the registry to the
// uninitialized state. Safe to call repeatedly.
func (r *Registry) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions = nil
	r.byName = nil
}

// Initialized reports whether the catalog is built.
func (r *Registry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.versions != nil
}

// Len returns the catalog size including the terminal entry, zero when
// uninitialized.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.versions)
}

// Versions returns the ordered catalog as a copy.
func (r *Registry) Versions() []Version {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Version, len(r.versions))
	copy(out, r.versions)
	return out
}

// ByOrdinal looks up a catalog entry by position. An out-of-range ordinal
// is a not-found result, never a fault.
func (r *Registry) ByOrdinal(i int) (Version, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.versions) {
		return Version{}, fmt.Errorf("schema ordinal %d: %w", i, types.ErrNotFound)
	}
	return r.versions[i], nil
}

// ByName looks up a catalog entry by version name.
func (r *Registry) ByName(name string) (Version, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byName[name]
	if !ok {
		return Version{}, fmt.Errorf("schema version %q: %w", name, types.ErrNotFound)
	}
	return r.versions[i], nil
}

// Validate matches the document against the catalog in ascending order and
// returns the first version it satisfies. Low-to-high keeps a mixed-version
// cluster on the most widely understood schema for as long as the document
// allows. A document satisfying nothing is a schema mismatch listing every
// version tried.
func (r *Registry) Validate(doc *etree.Document) (Version, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.versions == nil {
		return Version{}, fmt.Errorf("schema registry not initialized: %w", types.ErrInvalidInput)
	}
	if doc == nil || doc.Root() == nil {
		return Version{}, fmt.Errorf("validate: no document: %w", types.ErrInvalidInput)
	}

	raw, err := doc.WriteToBytes()
	if err != nil {
		return Version{}, fmt.Errorf("serialize document: %w: %w", err, types.ErrInvalidInput)
	}

	var tried []string
	for _, v := range r.versions {
		if v.sch == nil {
			continue
		}
		if err := v.sch.Validate(bytes.NewReader(raw)); err == nil {
			metrics.SchemaValidationsTotal.WithLabelValues("match").Inc()
			return v, nil
		}
		tried = append(tried, v.Name)
	}

	metrics.SchemaValidationsTotal.WithLabelValues("mismatch").Inc()
	return Version{}, fmt.Errorf("document satisfies no known schema (tried %s): %w",
		strings.Join(tried, ", "), types.ErrSchemaMismatch)
}
