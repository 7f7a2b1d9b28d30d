package gemd

import "github.com/google/uuid"

// AutoScope is the UID scope assigned to every object at construction.
const AutoScope = "auto"

// UIDs maps a scope to an identifier within that scope.
type UIDs map[string]string

// NewUIDs returns a UID set holding a fresh auto-scoped identifier.
func NewUIDs() UIDs {
	return UIDs{AutoScope: uuid.NewString()}
}

// Auto returns the auto-scoped identifier, or an empty string.
func (u UIDs) Auto() string {
	return u[AutoScope]
}

func (u UIDs) clone() map[string]string {
	out := make(map[string]string, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out
}

// Common holds the fields every GEMD object carries.
type Common struct {
	UIDs  UIDs
	Name  string
	Notes string
	Tags  []string
}

func newCommon(name string) Common {
	return Common{UIDs: NewUIDs(), Name: name}
}

// Base exposes the common fields through the Object interface.
func (c *Common) Base() *Common { return c }

// Object is implemented by every template, spec, and run.
type Object interface {
	Base() *Common
	TypeName() string
}

// LinkTo returns the link_by_uid document for obj, or nil when obj is nil.
func LinkTo(obj Object) map[string]any {
	if obj == nil {
		return nil
	}
	base := obj.Base()
	if base == nil {
		return nil
	}
	return map[string]any{
		"type":  "link_by_uid",
		"scope": AutoScope,
		"id":    base.UIDs.Auto(),
	}
}
