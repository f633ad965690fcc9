package constraint

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/beevik/etree"

	"github.com/cuemby/burrow/pkg/cib"
	"github.com/cuemby/burrow/pkg/metrics"
	"github.com/cuemby/burrow/pkg/types"
)

// Kind names a constraint class.
type Kind string

const (
	KindTicket     Kind = "ticket"
	KindLocation   Kind = "location"
	KindColocation Kind = "colocation"
	KindOrder      Kind = "order"
)

// kindElements maps each class to its document element.
var kindElements = map[Kind]string{
	KindTicket:     "ticket-constraint",
	KindLocation:   "location-constraint",
	KindColocation: "colocation-constraint",
	KindOrder:      "order-constraint",
}

// AttrTicket is the attribute a ticket constraint names its ticket by;
// every other class is filtered by the resource it applies to.
const (
	AttrTicket   = "ticket"
	AttrResource = "resource"
)

// ParseKind validates a constraint class name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kindElements[k]; !ok {
		return "", fmt.Errorf("unknown constraint kind %q: %w", s, types.ErrInvalidInput)
	}
	return k, nil
}

// filterAttr is the attribute an identity filter matches against.
func (k Kind) filterAttr() string {
	if k == KindTicket {
		return AttrTicket
	}
	return AttrResource
}

// idPattern bounds identities to characters that cannot alter a selector.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_.:-]+$`)

// Service answers constraint queries against the configuration store.
// It builds the selector, delegates execution, and forwards the matched
// elements verbatim for the output layer to format.
type Service struct {
	store cib.Store
}

// NewService returns a query service over the given store.
func NewService(store cib.Store) *Service {
	return &Service{store: store}
}

// Find returns the constraints of a class, optionally narrowed to one
// identity: the ticket name for ticket constraints, the resource ID for
// everything else. An empty result is success with zero payloads; only a
// store that cannot be asked is an error.
func (s *Service) Find(kind Kind, id string) ([]*etree.Element, error) {
	element, ok := kindElements[kind]
	if !ok {
		return nil, fmt.Errorf("unknown constraint kind %q: %w", kind, types.ErrInvalidInput)
	}

	selector := cib.PathConstraints + "/" + element
	if id != "" {
		if !idPattern.MatchString(id) {
			return nil, fmt.Errorf("constraint identity %q: %w", id, types.ErrInvalidInput)
		}
		selector += fmt.Sprintf("[@%s='%s']", kind.filterAttr(), id)
	}

	matches, err := s.store.Query(selector)
	if err != nil {
		return nil, fmt.Errorf("constraint query %q: %w", selector, err)
	}

	metrics.ConstraintQueriesTotal.WithLabelValues(string(kind)).Inc()
	return matches, nil
}

// Tickets returns ticket constraints, all of them or those naming one
// ticket.
func (s *Service) Tickets(ticket string) ([]*etree.Element, error) {
	return s.Find(KindTicket, ticket)
}

// TicketNames returns the distinct ticket names referenced by any ticket
// constraint, sorted.
func (s *Service) TicketNames() ([]string, error) {
	matches, err := s.Find(KindTicket, "")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, el := range matches {
		name := el.SelectAttrValue(AttrTicket, "")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
