package forms

import (
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"
)

// Renderer turns a schema plus a draft into the editing form's HTML. Every
// widget carries its draft path in a data-path attribute so the editor page
// script can route changes back into the draft uniformly.
type Renderer struct {
	schema Schema
}

// NewRenderer creates a renderer for one schema.
func NewRenderer(schema Schema) *Renderer {
	return &Renderer{schema: schema}
}

// Schema returns the schema this renderer serves.
func (r *Renderer) Schema() Schema {
	return r.schema
}

// RenderForm renders all schema fields against the draft by recursive
// descent from the root path.
func (r *Renderer) RenderForm(d *Draft) template.HTML {
	var b strings.Builder
	for _, f := range r.schema.Fields {
		b.WriteString(string(r.renderField(f, Path{}.Child(f.Name), d)))
	}
	return template.HTML(b.String())
}

// renderField renders one field at its draft path. Composite fields recurse
// with child paths, which is what makes arbitrary nesting work without
// per-depth special cases.
func (r *Renderer) renderField(f Field, p Path, d *Draft) template.HTML {
	switch f.Type {
	case FieldText, FieldNumber:
		return r.renderInput(f, p, d)
	case FieldTextarea:
		return r.renderTextarea(f, p, d)
	case FieldArray:
		return r.renderArray(f, p, d)
	case FieldObject:
		return r.renderObject(f, p, d)
	case FieldNestedArray:
		return r.renderNestedArray(f, p, d)
	default:
		return ""
	}
}

func (r *Renderer) renderInput(f Field, p Path, d *Draft) template.HTML {
	value := ""
	if v, ok := d.Value(p); ok {
		value = displayValue(v)
	}

	inputType := "text"
	if f.Type == FieldNumber {
		inputType = "number"
	}

	return template.HTML(fmt.Sprintf(`
		<div class="form-group">
			<label for="%[1]s">%[2]s%[3]s</label>
			<input type="%[4]s" id="%[1]s" data-path="%[1]s" value="%[5]s"%[6]s>
		</div>
	`, esc(p.String()), esc(f.Label), requiredMark(f), inputType, esc(value), requiredAttr(f)))
}

func (r *Renderer) renderTextarea(f Field, p Path, d *Draft) template.HTML {
	value := ""
	if v, ok := d.Value(p); ok {
		value = displayValue(v)
	}

	return template.HTML(fmt.Sprintf(`
		<div class="form-group">
			<label for="%[1]s">%[2]s%[3]s</label>
			<textarea id="%[1]s" data-path="%[1]s" rows="5"%[4]s>%[5]s</textarea>
		</div>
	`, esc(p.String()), esc(f.Label), requiredMark(f), requiredAttr(f), esc(value)))
}

// renderArray renders an array-of-text field: existing values as removable
// chips plus a staging input with an Add action. The same widget serves a
// top-level array and one nested inside an object or a nested-array item,
// because the path carries all the position information.
func (r *Renderer) renderArray(f Field, p Path, d *Draft) template.HTML {
	var chips strings.Builder
	for i, item := range d.Items(p) {
		chips.WriteString(fmt.Sprintf(
			`<span class="chip">%s<button type="button" class="chip-remove" data-path="%s" data-index="%d">&times;</button></span>`,
			esc(displayValue(item)), esc(p.String()), i))
	}

	return template.HTML(fmt.Sprintf(`
		<div class="form-group array-field" data-path="%[1]s">
			<label>%[2]s%[3]s</label>
			<div class="chip-list">%[4]s</div>
			<div class="chip-stage">
				<input type="text" class="chip-input" data-stage-for="%[1]s" placeholder="Add %[2]s">
				<button type="button" class="btn chip-add" data-path="%[1]s">Add</button>
			</div>
		</div>
	`, esc(p.String()), esc(f.Label), requiredMark(f), chips.String()))
}

// renderObject renders the child descriptors inside a grouped panel, each
// addressed under the object's key.
func (r *Renderer) renderObject(f Field, p Path, d *Draft) template.HTML {
	var children strings.Builder
	for _, child := range f.Fields {
		children.WriteString(string(r.renderField(child, p.Child(child.Name), d)))
	}

	return template.HTML(fmt.Sprintf(`
		<fieldset class="object-field" data-path="%s">
			<legend>%s</legend>
			%s
		</fieldset>
	`, esc(p.String()), esc(f.Label), children.String()))
}

// renderNestedArray renders one panel per existing item, each with its own
// sub-field widgets, remove and reorder actions, followed by a staging panel
// whose Add Item button stays disabled until every required sub-field is
// staged.
func (r *Renderer) renderNestedArray(f Field, p Path, d *Draft) template.HTML {
	items := d.Items(p)

	var panels strings.Builder
	for i, raw := range items {
		item, _ := raw.(map[string]interface{})
		panels.WriteString(fmt.Sprintf(`<div class="nested-item" data-path="%s" data-index="%d">`, esc(p.String()), i))
		panels.WriteString(fmt.Sprintf(`<div class="nested-item-header"><strong>%s</strong>`, esc(itemTitle(f, item, i))))
		panels.WriteString(fmt.Sprintf(`<span class="nested-item-actions">`+
			`<button type="button" class="btn item-move" data-path="%[1]s" data-index="%[2]d" data-delta="-1"%[3]s>&uarr;</button>`+
			`<button type="button" class="btn item-move" data-path="%[1]s" data-index="%[2]d" data-delta="1"%[4]s>&darr;</button>`+
			`<button type="button" class="btn btn-danger item-remove" data-path="%[1]s" data-index="%[2]d">Remove</button>`+
			`</span></div>`,
			esc(p.String()), i, disabledIf(i == 0), disabledIf(i == len(items)-1)))
		for _, child := range f.Fields {
			panels.WriteString(string(r.renderField(child, p.At(i).Child(child.Name), d)))
		}
		panels.WriteString(`</div>`)
	}

	var stage strings.Builder
	stage.WriteString(fmt.Sprintf(`<div class="nested-stage" data-path="%s"><h4>Add %s</h4>`, esc(p.String()), esc(f.Label)))
	for _, child := range f.Fields {
		stage.WriteString(string(r.renderStagedField(child, p, d)))
	}
	stage.WriteString(fmt.Sprintf(
		`<button type="button" class="btn item-add" data-path="%s"%s>Add Item</button></div>`,
		esc(p.String()), disabledIf(!d.CanAddItem(p, f.Fields))))

	return template.HTML(fmt.Sprintf(`
		<div class="form-group nested-array-field" data-path="%s">
			<label>%s%s</label>
			<div class="nested-items">%s</div>
			%s
		</div>
	`, esc(p.String()), esc(f.Label), requiredMark(f), panels.String(), stage.String()))
}

// renderStagedField renders a staging input for one sub-field of a new
// nested-array item. Staged sub-arrays degrade to a comma-separated input;
// deeper nesting is edited after the item is added.
func (r *Renderer) renderStagedField(f Field, arrayPath Path, d *Draft) template.HTML {
	value := ""
	if v := d.StagedValue(arrayPath, f.Name); v != nil {
		value = displayValue(v)
	}

	switch f.Type {
	case FieldTextarea:
		return template.HTML(fmt.Sprintf(`
			<div class="form-group">
				<label>%[2]s%[3]s</label>
				<textarea data-stage-path="%[1]s" data-stage-field="%[4]s" rows="3">%[5]s</textarea>
			</div>
		`, esc(arrayPath.String()), esc(f.Label), requiredMark(f), esc(f.Name), esc(value)))
	case FieldNumber:
		return template.HTML(fmt.Sprintf(`
			<div class="form-group">
				<label>%[2]s%[3]s</label>
				<input type="number" data-stage-path="%[1]s" data-stage-field="%[4]s" value="%[5]s">
			</div>
		`, esc(arrayPath.String()), esc(f.Label), requiredMark(f), esc(f.Name), esc(value)))
	default:
		return template.HTML(fmt.Sprintf(`
			<div class="form-group">
				<label>%[2]s%[3]s</label>
				<input type="text" data-stage-path="%[1]s" data-stage-field="%[4]s" value="%[5]s">
			</div>
		`, esc(arrayPath.String()), esc(f.Label), requiredMark(f), esc(f.Name), esc(value)))
	}
}

func itemTitle(f Field, item map[string]interface{}, index int) string {
	if f.TitleField != "" {
		if v, ok := item[f.TitleField]; ok {
			if s := displayValue(v); s != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("Item %d", index+1)
}

func displayValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func esc(s string) string {
	return html.EscapeString(s)
}

func requiredMark(f Field) string {
	if f.Required {
		return ` <span class="required">*</span>`
	}
	return ""
}

func requiredAttr(f Field) string {
	if f.Required {
		return " required"
	}
	return ""
}

func disabledIf(cond bool) string {
	if cond {
		return " disabled"
	}
	return ""
}
