package attrs

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/burrow/pkg/events"
	"github.com/cuemby/burrow/pkg/metrics"
	"github.com/cuemby/burrow/pkg/types"
)

var (
	// Bucket names
	bucketNodes        = []byte("nodes")
	bucketAttrsForever = []byte("attrs_forever")
	bucketAttrsReboot  = []byte("attrs_reboot")
)

// Lifetime selects how long an attribute outlives its writer.
type Lifetime string

const (
	// LifetimeForever attributes persist until explicitly deleted.
	LifetimeForever Lifetime = "forever"
	// LifetimeReboot attributes are dropped when the node rejoins.
	LifetimeReboot Lifetime = "reboot"
)

// ParseLifetime validates a lifetime name; empty means forever.
func ParseLifetime(s string) (Lifetime, error) {
	switch Lifetime(s) {
	case LifetimeForever, "":
		return LifetimeForever, nil
	case LifetimeReboot:
		return LifetimeReboot, nil
	default:
		return "", fmt.Errorf("unknown lifetime %q: %w", s, types.ErrInvalidInput)
	}
}

func bucketFor(lt Lifetime) []byte {
	if lt == LifetimeReboot {
		return bucketAttrsReboot
	}
	return bucketAttrsForever
}

// nodeRecord is the stored identity of a registered node.
type nodeRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps per-node attributes in a local BoltDB file, split by
// lifetime. The merged per-node view feeds rule evaluation, with
// reboot-lifetime values overriding forever-lifetime ones.
type Store struct {
	db     *bolt.DB
	broker *events.Broker
}

// Open opens (creating if needed) the attribute database under dataDir.
func Open(dataDir string) (*Store, error) {
	dbPath := filepath.Join(dataDir, "attributes.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open attribute database: %w: %w", err, types.ErrStoreUnavailable)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketNodes, bucketAttrsForever, bucketAttrsReboot} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare attribute database: %w: %w", err, types.ErrStoreUnavailable)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetBroker wires a notification broker. Wire it before handing the store
// to concurrent users; nil disables publishing.
func (s *Store) SetBroker(b *events.Broker) {
	s.broker = b
}

func (s *Store) publish(ev *events.Event) {
	if s.broker != nil {
		s.broker.Publish(ev)
	}
}

// EnsureNode registers a node on first sight and returns its stable UUID.
func (s *Store) EnsureNode(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("node name required: %w", types.ErrInvalidInput)
	}

	var (
		id      string
		created bool
	)
	err := s.db.Update(func(tx *bolt.Tx) error {
		rec, fresh, err := ensureNodeTx(tx, name)
		if err != nil {
			return err
		}
		id = rec.ID
		created = fresh
		return nil
	})
	if err != nil {
		return "", err
	}

	if created {
		s.publish(events.New(events.EventNodeRegistered,
			fmt.Sprintf("node %s registered", name),
			map[string]string{
				"node": name,
				"id":   id,
			}))
	}
	metrics.AttributeOpsTotal.WithLabelValues("ensure").Inc()
	return id, nil
}

func ensureNodeTx(tx *bolt.Tx, name string) (*nodeRecord, bool, error) {
	b := tx.Bucket(bucketNodes)
	if data := b.Get([]byte(name)); data != nil {
		var rec nodeRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, false, err
		}
		return &rec, false, nil
	}

	rec := nodeRecord{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(&rec)
	if err != nil {
		return nil, false, err
	}
	if err := b.Put([]byte(name), data); err != nil {
		return nil, false, err
	}
	return &rec, true, nil
}

// Set stores one attribute under the given lifetime, registering the node
// if it is new. Only real changes are announced; rewriting the current
// value stays silent.
func (s *Store) Set(node, name, value string, lt Lifetime) error {
	if node == "" || name == "" {
		return fmt.Errorf("node and attribute name required: %w", types.ErrInvalidInput)
	}

	var changed, registered bool
	var nodeID string
	err := s.db.Update(func(tx *bolt.Tx) error {
		rec, fresh, err := ensureNodeTx(tx, node)
		if err != nil {
			return err
		}
		registered = fresh
		nodeID = rec.ID

		attrs, err := loadAttrsTx(tx, bucketFor(lt), node)
		if err != nil {
			return err
		}
		if old, ok := attrs[name]; !ok || old != value {
			changed = true
		}
		attrs[name] = value
		return storeAttrsTx(tx, bucketFor(lt), node, attrs)
	})
	if err != nil {
		return fmt.Errorf("set attribute %q on %q: %w", name, node, err)
	}

	if registered {
		s.publish(events.New(events.EventNodeRegistered,
			fmt.Sprintf("node %s registered", node),
			map[string]string{
				"node": node,
				"id":   nodeID,
			}))
	}
	if changed {
		s.publish(events.New(events.EventAttributeSet,
			fmt.Sprintf("%s=%s on %s", name, value, node),
			map[string]string{
				"node":     node,
				"name":     name,
				"value":    value,
				"lifetime": string(lt),
			}))
	}
	metrics.AttributeOpsTotal.WithLabelValues("set").Inc()
	return nil
}

// Get returns one attribute of a node, with reboot-lifetime values taking
// precedence over forever-lifetime ones. Unknown nodes and absent
// attributes are not-found.
func (s *Store) Get(node, name string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketNodes).Get([]byte(node)) == nil {
			return fmt.Errorf("node %q: %w", node, types.ErrNotFound)
		}

		for _, bucket := range [][]byte{bucketAttrsReboot, bucketAttrsForever} {
			attrs, err := loadAttrsTx(tx, bucket, node)
			if err != nil {
				return err
			}
			if v, ok := attrs[name]; ok {
				value = v
				return nil
			}
		}
		return fmt.Errorf("attribute %q on %q: %w", name, node, types.ErrNotFound)
	})
	if err != nil {
		return "", err
	}

	metrics.AttributeOpsTotal.WithLabelValues("get").Inc()
	return value, nil
}

// Delete removes one attribute from the given lifetime. Deleting an
// attribute that is not set is a no-op; the node itself must exist.
func (s *Store) Delete(node, name string, lt Lifetime) error {
	removed := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketNodes).Get([]byte(node)) == nil {
			return fmt.Errorf("node %q: %w", node, types.ErrNotFound)
		}

		attrs, err := loadAttrsTx(tx, bucketFor(lt), node)
		if err != nil {
			return err
		}
		if _, ok := attrs[name]; !ok {
			return nil
		}
		delete(attrs, name)
		removed = true
		return storeAttrsTx(tx, bucketFor(lt), node, attrs)
	})
	if err != nil {
		return err
	}

	if removed {
		s.publish(events.New(events.EventAttributeDeleted,
			fmt.Sprintf("%s removed from %s", name, node),
			map[string]string{
				"node":     node,
				"name":     name,
				"lifetime": string(lt),
			}))
	}
	metrics.AttributeOpsTotal.WithLabelValues("delete").Inc()
	return nil
}

// Map returns the merged attribute view of a node, reboot overriding
// forever. The result is what rule evaluation should see as the node's
// attributes.
func (s *Store) Map(node string) (map[string]string, error) {
	merged := make(map[string]string)
	err := s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketNodes).Get([]byte(node)) == nil {
			return fmt.Errorf("node %q: %w", node, types.ErrNotFound)
		}

		for _, bucket := range [][]byte{bucketAttrsForever, bucketAttrsReboot} {
			attrs, err := loadAttrsTx(tx, bucket, node)
			if err != nil {
				return err
			}
			for k, v := range attrs {
				merged[k] = v
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.AttributeOpsTotal.WithLabelValues("map").Inc()
	return merged, nil
}

// Nodes lists the registered node names, sorted.
func (s *Store) Nodes() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNodes).ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}

// ClearReboot drops every reboot-lifetime attribute of a node, typically
// when the node rejoins the cluster.
func (s *Store) ClearReboot(node string) error {
	had := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketNodes).Get([]byte(node)) == nil {
			return fmt.Errorf("node %q: %w", node, types.ErrNotFound)
		}
		had = tx.Bucket(bucketAttrsReboot).Get([]byte(node)) != nil
		return tx.Bucket(bucketAttrsReboot).Delete([]byte(node))
	})
	if err != nil {
		return err
	}

	if had {
		s.publish(events.New(events.EventAttributeCleared,
			fmt.Sprintf("reboot attributes of %s cleared", node),
			map[string]string{
				"node": node,
			}))
	}
	metrics.AttributeOpsTotal.WithLabelValues("clear").Inc()
	return nil
}

func loadAttrsTx(tx *bolt.Tx, bucket []byte, node string) (map[string]string, error) {
	attrs := make(map[string]string)
	data := tx.Bucket(bucket).Get([]byte(node))
	if data == nil {
		return attrs, nil
	}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("decode attributes of %q: %w", node, err)
	}
	return attrs, nil
}

func storeAttrsTx(tx *bolt.Tx, bucket []byte, node string, attrs map[string]string) error {
	data, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	return tx.Bucket(bucket).Put([]byte(node), data)
}
