package forms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packageSchema() Schema {
	return Schema{
		Collection: "packages",
		Title:      "Tour Package",
		TitleField: "title",
		Fields: []Field{
			{Name: "title", Label: "Title", Type: FieldText, Required: true},
			{Name: "price", Label: "Price (USD)", Type: FieldNumber},
			{Name: "description", Label: "Description", Type: FieldTextarea},
			{Name: "highlights", Label: "Highlights", Type: FieldArray},
			{Name: "seo", Label: "SEO", Type: FieldObject, Fields: []Field{
				{Name: "metaTitle", Label: "Meta Title", Type: FieldText},
			}},
			itineraryField(),
		},
	}
}

func TestRenderInputsBindDraftValues(t *testing.T) {
	schema := packageSchema()
	require.NoError(t, schema.Validate())

	d := DraftOf(map[string]interface{}{
		"title": "Druk Path Trek",
		"price": float64(2450),
	})

	out := string(NewRenderer(schema).RenderForm(d))

	assert.Contains(t, out, `data-path="title"`)
	assert.Contains(t, out, `value="Druk Path Trek"`)
	assert.Contains(t, out, `type="number"`)
	assert.Contains(t, out, `value="2450"`)
	assert.Contains(t, out, `<textarea id="description"`)
}

func TestRenderEscapesValues(t *testing.T) {
	d := DraftOf(map[string]interface{}{
		"title": `<script>"x"</script>`,
	})

	out := string(NewRenderer(packageSchema()).RenderForm(d))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRenderArrayChips(t *testing.T) {
	d := DraftOf(map[string]interface{}{
		"highlights": []interface{}{"Tiger's Nest", "Punakha Dzong"},
	})

	out := string(NewRenderer(packageSchema()).RenderForm(d))

	assert.Contains(t, out, "Punakha Dzong")
	assert.Contains(t, out, `class="chip-remove" data-path="highlights" data-index="1"`)
	assert.Contains(t, out, `data-stage-for="highlights"`)
}

func TestRenderObjectPrefixesChildPaths(t *testing.T) {
	out := string(NewRenderer(packageSchema()).RenderForm(NewDraft()))

	assert.Contains(t, out, `<legend>SEO</legend>`)
	assert.Contains(t, out, `data-path="seo.metaTitle"`)
}

func TestRenderNestedArrayItems(t *testing.T) {
	d := DraftOf(map[string]interface{}{
		"itinerary": []interface{}{
			map[string]interface{}{"title": "Arrive in Paro", "description": "Transfer"},
			map[string]interface{}{"description": "No title yet"},
		},
	})

	out := string(NewRenderer(packageSchema()).RenderForm(d))

	// Item panels titled by the designated display field, index otherwise.
	assert.Contains(t, out, "<strong>Arrive in Paro</strong>")
	assert.Contains(t, out, "<strong>Item 2</strong>")

	// Sub-inputs resolve through indexed paths.
	assert.Contains(t, out, `data-path="itinerary.0.title"`)
	assert.Contains(t, out, `data-path="itinerary.1.description"`)

	// Boundary move buttons are disabled.
	first := `data-path="itinerary" data-index="0" data-delta="-1" disabled`
	last := `data-path="itinerary" data-index="1" data-delta="1" disabled`
	assert.Contains(t, out, first)
	assert.Contains(t, out, last)
}

func TestRenderAddItemDisabledUntilStaged(t *testing.T) {
	schema := packageSchema()
	r := NewRenderer(schema)

	d := NewDraft()
	out := string(r.RenderForm(d))
	require.Contains(t, out, `class="btn item-add" data-path="itinerary" disabled`)

	d.StageValue(ParsePath("itinerary"), "title", "Day one")
	d.StageValue(ParsePath("itinerary"), "description", "Arrive")
	out = string(r.RenderForm(d))
	assert.Contains(t, out, `class="btn item-add" data-path="itinerary">`)
	assert.False(t, strings.Contains(out, `class="btn item-add" data-path="itinerary" disabled`))

	// Staged values survive a re-render.
	assert.Contains(t, out, `data-stage-path="itinerary" data-stage-field="title" value="Day one"`)
}

func TestSchemaValidateRejectsBadShapes(t *testing.T) {
	bad := Schema{Collection: "x", Title: "x", Fields: []Field{
		{Name: "obj", Label: "Obj", Type: FieldObject},
	}}
	assert.Error(t, bad.Validate())

	bad = Schema{Collection: "x", Title: "x", Fields: []Field{
		{Name: "t", Label: "T", Type: FieldText, Fields: []Field{{Name: "c", Type: FieldText}}},
	}}
	assert.Error(t, bad.Validate())

	bad = Schema{Collection: "x", Title: "x", Fields: []Field{
		{Name: "t", Label: "T", Type: FieldType("mystery")},
	}}
	assert.Error(t, bad.Validate())

	bad = Schema{Title: "x", Fields: []Field{{Name: "t", Type: FieldText}}}
	assert.Error(t, bad.Validate())
}
