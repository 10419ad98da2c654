// Package l1 defines what identifies a car to L1 controllers.
package l1

import "strings"

// CarRef is a reference to a car.
type CarRef struct {
	// Type is car type (model).
	Type string
	// ID is unique ID of the car.
	ID string
}

// Name retrieves the name from ref, used as topic prefix.
func (r CarRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates CarRef is valid.
func (r CarRef) IsValid() bool {
	return r.Type != "" && r.ID != "" &&
		!strings.ContainsAny(r.Type, "/+#") && !strings.ContainsAny(r.ID, "/+#")
}

// ParseCarRef parses the form "type/id".
func ParseCarRef(name string) (CarRef, bool) {
	items := strings.Split(name, "/")
	if len(items) != 2 {
		return CarRef{}, false
	}
	ref := CarRef{Type: items[0], ID: items[1]}
	return ref, ref.IsValid()
}

// CarMeta provides metadata for a car.
type CarMeta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Link        string            `json:"link,omitempty"`
}

// CarInfo provides information of a car.
type CarInfo struct {
	Ref  CarRef
	Meta CarMeta
}
