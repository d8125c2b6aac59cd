package forms

import (
	"fmt"
	"strings"
)

// Draft is an in-progress, unpersisted edit of one record. It owns its data
// for the duration of an editing session: created empty for a new item or
// deep-copied from an existing record, mutated through path-addressed
// operations, and submitted whole to the collection API.
//
// Each nested-array field additionally gets a staging area keyed by the
// array's path, collecting sub-field values for the item being composed.
type Draft struct {
	data    map[string]interface{}
	staging map[string]map[string]interface{}
}

// NewDraft creates an empty draft for composing a new record.
func NewDraft() *Draft {
	return &Draft{
		data:    map[string]interface{}{},
		staging: map[string]map[string]interface{}{},
	}
}

// DraftOf creates a draft seeded with a deep copy of an existing record, so
// edits never leak into the caller's copy before submission.
func DraftOf(record map[string]interface{}) *Draft {
	d := NewDraft()
	for k, v := range record {
		d.data[k] = copyValue(v)
	}
	return d
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, child := range t {
			out[k] = copyValue(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, child := range t {
			out[i] = copyValue(child)
		}
		return out
	default:
		return t
	}
}

// Data exposes the draft's current contents, including for submission as the
// request body.
func (d *Draft) Data() map[string]interface{} {
	return d.data
}

// Value resolves a path against the draft.
func (d *Draft) Value(p Path) (interface{}, bool) {
	return p.Get(d.data)
}

// SetValue writes a single field value at the given path.
func (d *Draft) SetValue(p Path, v interface{}) error {
	return p.Set(d.data, v)
}

// Items returns the array at the given path, or nil if absent.
func (d *Draft) Items(p Path) []interface{} {
	v, ok := p.Get(d.data)
	if !ok {
		return nil
	}
	arr, _ := v.([]interface{})
	return arr
}

// AppendItem appends to the array at the given path, creating the array if
// it does not exist yet.
func (d *Draft) AppendItem(p Path, v interface{}) error {
	existing, ok := p.Get(d.data)
	var arr []interface{}
	if ok && existing != nil {
		arr, ok = existing.([]interface{})
		if !ok {
			return fmt.Errorf("path %s: not an array", p)
		}
	}
	return p.Set(d.data, append(arr, v))
}

// RemoveItem splices the element at index out of the array at the given
// path.
func (d *Draft) RemoveItem(p Path, index int) error {
	arr := d.Items(p)
	if index < 0 || index >= len(arr) {
		return fmt.Errorf("path %s: index %d out of range", p, index)
	}
	arr = append(arr[:index:index], arr[index+1:]...)
	return p.Set(d.data, arr)
}

// MoveItem swaps the element at index with its neighbor: delta -1 swaps with
// the preceding element, +1 with the following one. Moves past either end
// are no-ops.
func (d *Draft) MoveItem(p Path, index, delta int) error {
	if delta != -1 && delta != 1 {
		return fmt.Errorf("path %s: move delta must be -1 or +1", p)
	}
	arr := d.Items(p)
	if index < 0 || index >= len(arr) {
		return fmt.Errorf("path %s: index %d out of range", p, index)
	}
	target := index + delta
	if target < 0 || target >= len(arr) {
		return nil
	}
	arr[index], arr[target] = arr[target], arr[index]
	return nil
}

// StageValue records a sub-field value for the item being composed under the
// nested-array at arrayPath.
func (d *Draft) StageValue(arrayPath Path, field string, v interface{}) {
	key := arrayPath.String()
	if d.staging[key] == nil {
		d.staging[key] = map[string]interface{}{}
	}
	d.staging[key][field] = v
}

// StagedValue returns the staged value for a sub-field, or nil.
func (d *Draft) StagedValue(arrayPath Path, field string) interface{} {
	return d.staging[arrayPath.String()][field]
}

// ClearStaging drops all staged values for the nested-array at arrayPath.
func (d *Draft) ClearStaging(arrayPath Path) {
	delete(d.staging, arrayPath.String())
}

// CanAddItem reports whether every required sub-field has a non-empty staged
// value. The renderer disables the Add Item control until this passes, so an
// incomplete item never round-trips to the server.
func (d *Draft) CanAddItem(arrayPath Path, itemFields []Field) bool {
	staged := d.staging[arrayPath.String()]
	for _, f := range itemFields {
		if !f.Required {
			continue
		}
		if isEmptyValue(staged[f.Name]) {
			return false
		}
	}
	return true
}

// AddStagedItem builds an item object from the staged sub-field values,
// appends it to the nested-array and clears the staging area. It refuses to
// add while a required sub-field is still empty. Array-typed sub-fields are
// staged as comma-separated text and stored as arrays, so every array path
// in the item supports the array operations afterwards.
func (d *Draft) AddStagedItem(arrayPath Path, itemFields []Field) error {
	if !d.CanAddItem(arrayPath, itemFields) {
		return fmt.Errorf("path %s: required item fields are empty", arrayPath)
	}
	staged := d.staging[arrayPath.String()]
	item := map[string]interface{}{}
	for _, f := range itemFields {
		v, ok := staged[f.Name]
		if !ok || isEmptyValue(v) {
			continue
		}
		if f.Type == FieldArray {
			item[f.Name] = splitStagedList(v)
		} else {
			item[f.Name] = v
		}
	}
	if err := d.AppendItem(arrayPath, item); err != nil {
		return err
	}
	d.ClearStaging(arrayPath)
	return nil
}

// splitStagedList turns a comma-separated staged string into an array value.
// A value that is already an array passes through unchanged.
func splitStagedList(v interface{}) []interface{} {
	if arr, ok := v.([]interface{}); ok {
		return arr
	}
	s, ok := v.(string)
	if !ok {
		return []interface{}{v}
	}
	var out []interface{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isEmptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	default:
		return false
	}
}
