package rdf

import "slices"

// Descriptor describes an entity to search for or create. It is built fresh
// for each request and never reused once handed to the store.
type Descriptor struct {
	// About is the entity identifier. Empty when the entity is unknown.
	About      string              `json:"about,omitempty"`
	Types      []string            `json:"types,omitempty"`
	Properties map[string][]string `json:"properties,omitempty"`
	References map[string][]string `json:"references,omitempty"`
}

// NewDescriptor creates a Descriptor tagged with types.
func NewDescriptor(types ...string) *Descriptor {
	d := &Descriptor{
		Properties: make(map[string][]string),
		References: make(map[string][]string),
	}
	return d.AddType(types...)
}

// AddType appends type tags, skipping duplicates.
func (d *Descriptor) AddType(types ...string) *Descriptor {
	for _, t := range types {
		if !slices.Contains(d.Types, t) {
			d.Types = append(d.Types, t)
		}
	}
	return d
}

// AddProperty appends a literal value for predicate.
func (d *Descriptor) AddProperty(predicate, value string) *Descriptor {
	if d.Properties == nil {
		d.Properties = make(map[string][]string)
	}
	d.Properties[predicate] = append(d.Properties[predicate], value)
	return d
}

// AddReference appends a reference to another entity for predicate.
func (d *Descriptor) AddReference(predicate, about string) *Descriptor {
	if d.References == nil {
		d.References = make(map[string][]string)
	}
	d.References[predicate] = append(d.References[predicate], about)
	return d
}

// Property returns the first literal value for predicate.
func (d *Descriptor) Property(predicate string) (string, bool) {
	return first(d.Properties[predicate])
}

// Reference returns the first reference for predicate.
func (d *Descriptor) Reference(predicate string) (string, bool) {
	return first(d.References[predicate])
}

// HasType reports whether the descriptor carries type t.
func (d *Descriptor) HasType(t string) bool {
	return slices.Contains(d.Types, t)
}

// Clone returns a deep copy of d.
func (d *Descriptor) Clone() *Descriptor {
	c := &Descriptor{
		About:      d.About,
		Types:      slices.Clone(d.Types),
		Properties: make(map[string][]string, len(d.Properties)),
		References: make(map[string][]string, len(d.References)),
	}
	for k, v := range d.Properties {
		c.Properties[k] = slices.Clone(v)
	}
	for k, v := range d.References {
		c.References[k] = slices.Clone(v)
	}
	return c
}

// Matches reports whether candidate satisfies d as a search pattern: the
// identifier when set, every type, and every property and reference value.
func (d *Descriptor) Matches(candidate *Descriptor) bool {
	if d.About != "" && d.About != candidate.About {
		return false
	}
	for _, t := range d.Types {
		if !candidate.HasType(t) {
			return false
		}
	}
	return containsAll(candidate.Properties, d.Properties) &&
		containsAll(candidate.References, d.References)
}

func containsAll(have, want map[string][]string) bool {
	for predicate, values := range want {
		for _, v := range values {
			if !slices.Contains(have[predicate], v) {
				return false
			}
		}
	}
	return true
}

func first(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}
