// Package forms implements the schema-driven editor used by the admin back
// office: declarative field schemas, typed path addressing into nested
// drafts, draft mutation with staged nested-array items, and recursive HTML
// rendering of the edit form.
package forms

import "fmt"

// FieldType tags the widget rendered for a field.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldNumber      FieldType = "number"
	FieldTextarea    FieldType = "textarea"
	FieldArray       FieldType = "array"
	FieldObject      FieldType = "object"
	FieldNestedArray FieldType = "nested-array"
)

// Field describes one editable field. Object and nested-array fields carry
// their child descriptors in Fields; for nested arrays TitleField optionally
// names the sub-field shown as each item's panel title.
type Field struct {
	Name       string    `json:"name"`
	Label      string    `json:"label"`
	Type       FieldType `json:"type"`
	Required   bool      `json:"required,omitempty"`
	Fields     []Field   `json:"fields,omitempty"`
	TitleField string    `json:"titleField,omitempty"`
}

// Schema declares the shape of one editable entity kind and the collection
// it is stored in. It must structurally match the records of that
// collection; the system does not enforce this.
type Schema struct {
	Collection string  `json:"collection"`
	Title      string  `json:"title"`
	TitleField string  `json:"titleField,omitempty"`
	Fields     []Field `json:"fields"`
}

// Validate checks the schema for structural mistakes: empty names, unknown
// types, children on leaf fields or missing children on composite ones.
func (s Schema) Validate() error {
	if s.Collection == "" {
		return fmt.Errorf("schema %q: collection is required", s.Title)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema %q: no fields", s.Title)
	}
	for _, f := range s.Fields {
		if err := f.validate(f.Name); err != nil {
			return fmt.Errorf("schema %q: %w", s.Title, err)
		}
	}
	return nil
}

func (f Field) validate(path string) error {
	if f.Name == "" {
		return fmt.Errorf("field at %q has no name", path)
	}
	switch f.Type {
	case FieldText, FieldNumber, FieldTextarea, FieldArray:
		if len(f.Fields) > 0 {
			return fmt.Errorf("field %q: %s fields cannot have children", path, f.Type)
		}
	case FieldObject, FieldNestedArray:
		if len(f.Fields) == 0 {
			return fmt.Errorf("field %q: %s fields need child fields", path, f.Type)
		}
		for _, child := range f.Fields {
			if err := child.validate(path + "." + child.Name); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("field %q: unknown type %q", path, f.Type)
	}
	return nil
}

// MissingRequired reports the labels of required fields that are empty in
// the draft. Only top-level and object-nested leaves are checked here;
// required sub-fields of nested-array items gate item addition instead.
func (s Schema) MissingRequired(d *Draft) []string {
	var missing []string
	var walk func(fields []Field, p Path)
	walk = func(fields []Field, p Path) {
		for _, f := range fields {
			fp := p.Child(f.Name)
			switch f.Type {
			case FieldObject:
				walk(f.Fields, fp)
			case FieldNestedArray:
				// gated per item at add time
			default:
				if !f.Required {
					continue
				}
				v, ok := fp.Get(d.Data())
				if !ok || isEmptyValue(v) {
					missing = append(missing, f.Label)
				}
			}
		}
	}
	walk(s.Fields, Path{})
	return missing
}
