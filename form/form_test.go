package form_test

import (
	"testing"

	"github.com/tailored-agentic-units/journal/form"
)

func TestSubmission_Value(t *testing.T) {
	s := form.Submission{
		"title":     "Standup",
		"locations": "",
	}

	tests := []struct {
		field  string
		want   string
		wantOK bool
	}{
		{field: "title", want: "Standup", wantOK: true},
		{field: "locations", want: "", wantOK: false},
		{field: "description", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := s.Value(tt.field)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Value(%q) = (%q, %v), want (%q, %v)", tt.field, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestForm_Field(t *testing.T) {
	f := &form.Form{Fields: []form.Field{
		{Var: "title", Type: form.TextSingle},
		{Var: "locations", Type: form.ListSingle},
	}}

	field, ok := f.Field("locations")
	if !ok {
		t.Fatal("Field(locations) not found")
	}
	field.Options = append(field.Options, form.Option{Value: "urn:a", Label: "A"})

	if len(f.Fields[1].Options) != 1 {
		t.Error("Field should return a pointer into the form")
	}

	if _, ok := f.Field("missing"); ok {
		t.Error("Field(missing) reported found")
	}
}
