// Package form models the structured forms a command presents to a user and
// the submissions that come back.
package form

import "github.com/tailored-agentic-units/journal/rdf"

// FieldType is the widget kind of a field.
type FieldType string

const (
	TextSingle FieldType = "text-single"
	TextMulti  FieldType = "text-multi"
	ListSingle FieldType = "list-single"
)

// Option is one choice of a list field.
type Option struct {
	Value string         `json:"value"`
	Label string         `json:"label"`
	Data  map[string]any `json:"data,omitempty"`
}

// Field is one input on a form. Sources lists the providers whose results
// populated Options.
type Field struct {
	Var     string       `json:"var"`
	Label   string       `json:"label"`
	Type    FieldType    `json:"type"`
	Options []Option     `json:"options,omitempty"`
	Sources []rdf.Source `json:"sources,omitempty"`
}

// Form is a titled list of fields.
type Form struct {
	Title        string  `json:"title"`
	Instructions string  `json:"instructions,omitempty"`
	Fields       []Field `json:"fields"`
}

// Field returns the field named name.
func (f *Form) Field(name string) (*Field, bool) {
	for i := range f.Fields {
		if f.Fields[i].Var == name {
			return &f.Fields[i], true
		}
	}
	return nil, false
}

// Submission maps field names to the values the user entered.
type Submission map[string]string

// Value returns the value of field. An empty value is reported as absent.
func (s Submission) Value(field string) (string, bool) {
	v, ok := s[field]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
