package change

import (
	"fmt"
	"strings"

	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/pkg/errs"
)

type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeOrder
	ScopeContainer
)

// Scope selects the events a subscriber receives.
type Scope struct {
	kind ScopeKind
	id   kernel.ID
}

func All() Scope                     { return Scope{kind: ScopeAll} }
func ByOrder(id kernel.ID) Scope     { return Scope{kind: ScopeOrder, id: id} }
func ByContainer(id kernel.ID) Scope { return Scope{kind: ScopeContainer, id: id} }
func (s Scope) Kind() ScopeKind      { return s.kind }
func (s Scope) ID() kernel.ID        { return s.id }

// ParseScope accepts "all", "order:<id>" and "container:<id>".
func ParseScope(raw string) (Scope, error) {
	if raw == "" || raw == "all" {
		return All(), nil
	}

	name, value, ok := strings.Cut(raw, ":")
	if !ok {
		return Scope{}, errs.NewValueIsInvalidErrorWithCause("scope", fmt.Errorf("%q is not a valid scope", raw))
	}

	id, err := kernel.ParseID("scope", value)
	if err != nil {
		return Scope{}, err
	}

	switch name {
	case "order":
		return ByOrder(id), nil
	case "container":
		return ByContainer(id), nil
	}
	return Scope{}, errs.NewValueIsInvalidErrorWithCause("scope", fmt.Errorf("unknown scope kind %q", name))
}

func (s Scope) Validate() error {
	if s.kind == ScopeAll {
		return nil
	}
	return s.id.ValidateAs("scope")
}

func (s Scope) String() string {
	switch s.kind {
	case ScopeOrder:
		return "order:" + s.id.String()
	case ScopeContainer:
		return "container:" + s.id.String()
	case ScopeAll:
		return "all"
	}
	return "all"
}

// Matches reports whether e is within the scope. For order scopes,
// orderContainer is the order's current container id (zero if unknown):
// container and location events for it match even though the key differs.
func (s Scope) Matches(e Event, orderContainer kernel.ID) bool {
	switch s.kind {
	case ScopeAll:
		return true
	case ScopeContainer:
		if e.Kind == OrderChanged {
			return false
		}
		return e.ContainerID() == s.id
	case ScopeOrder:
		if e.Kind == OrderChanged {
			return e.OrderID() == s.id
		}
		return orderContainer != 0 && e.ContainerID() == orderContainer
	}
	return false
}
