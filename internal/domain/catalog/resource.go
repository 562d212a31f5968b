package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Resource is one backend-owned record. Only the id, display name and status
// flag are interpreted; every other attribute is passed through untouched.
type Resource struct {
	ID         int64
	Name       string
	InTrash    bool
	Attributes map[string]json.RawMessage
}

// ParseResource decodes one backend object of the given kind
func ParseResource(kind KindSpec, raw json.RawMessage) (Resource, error) {
	var attrs map[string]json.RawMessage
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return Resource{}, shared.WrapDomainError(shared.CodeRemoteError, fmt.Sprintf("malformed %s record", kind.Kind), err)
	}
	r := Resource{Attributes: attrs}

	id, ok := intField(attrs, kind.IDField)
	if !ok {
		id, ok = intField(attrs, "id")
	}
	if !ok {
		return Resource{}, shared.NewDomainError(shared.CodeRemoteError, fmt.Sprintf("%s record has no id", kind.Kind))
	}
	r.ID = id
	r.Name = stringField(attrs, kind.NameField)
	if r.Name == "" {
		r.Name = stringField(attrs, "name")
	}

	flag, _ := boolField(attrs, string(kind.StatusField))
	switch kind.StatusField {
	case StatusDeleted:
		r.InTrash = flag
	default:
		r.InTrash = !flag
	}
	return r, nil
}

// ParseResources decodes a backend array
func ParseResources(kind KindSpec, raw json.RawMessage) ([]Resource, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, shared.WrapDomainError(shared.CodeRemoteError, fmt.Sprintf("malformed %s list", kind.Kind), err)
	}
	out := make([]Resource, 0, len(items))
	for _, item := range items {
		r, err := ParseResource(kind, item)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// MarshalJSON emits the backend's original shape
func (r Resource) MarshalJSON() ([]byte, error) {
	if r.Attributes == nil {
		return json.Marshal(map[string]any{"id": r.ID, "name": r.Name})
	}
	return json.Marshal(r.Attributes)
}

// UnmarshalJSON accepts a bare backend object, reading "id" and "name"
func (r *Resource) UnmarshalJSON(data []byte) error {
	var attrs map[string]json.RawMessage
	if err := json.Unmarshal(data, &attrs); err != nil {
		return err
	}
	r.Attributes = attrs
	r.ID, _ = intField(attrs, "id")
	r.Name = stringField(attrs, "name")
	return nil
}

// String returns a string attribute
func (r Resource) String(field string) string {
	return stringField(r.Attributes, field)
}

// Bool returns a boolean attribute
func (r Resource) Bool(field string) (bool, bool) {
	return boolField(r.Attributes, field)
}

// Int returns an integer attribute
func (r Resource) Int(field string) (int64, bool) {
	return intField(r.Attributes, field)
}

// Matches reports whether any searchable field contains query, case-insensitively.
// An empty query matches everything.
func (r Resource) Matches(kind KindSpec, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strconv.FormatInt(r.ID, 10), q) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Name), q) {
		return true
	}
	for _, f := range kind.SearchFields {
		if strings.Contains(strings.ToLower(stringField(r.Attributes, f)), q) {
			return true
		}
	}
	return false
}

func stringField(attrs map[string]json.RawMessage, field string) string {
	raw, ok := attrs[field]
	if !ok || field == "" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}

func intField(attrs map[string]json.RawMessage, field string) (int64, bool) {
	raw, ok := attrs[field]
	if !ok || field == "" {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		n = json.Number(s)
	}
	v, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return v, true
}

func boolField(attrs map[string]json.RawMessage, field string) (bool, bool) {
	raw, ok := attrs[field]
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}
