package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itineraryField() Field {
	return Field{
		Name:       "itinerary",
		Label:      "Itinerary",
		Type:       FieldNestedArray,
		TitleField: "title",
		Fields: []Field{
			{Name: "title", Label: "Day Title", Type: FieldText, Required: true},
			{Name: "description", Label: "Description", Type: FieldTextarea, Required: true},
			{Name: "places", Label: "Places", Type: FieldArray},
		},
	}
}

func TestDraftOfDeepCopies(t *testing.T) {
	record := map[string]interface{}{
		"title": "Original",
		"itinerary": []interface{}{
			map[string]interface{}{"title": "Day one"},
		},
	}

	d := DraftOf(record)
	require.NoError(t, d.SetValue(ParsePath("title"), "Changed"))
	require.NoError(t, d.SetValue(ParsePath("itinerary.0.title"), "Changed day"))

	assert.Equal(t, "Original", record["title"])
	day := record["itinerary"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Day one", day["title"])
}

// Editing item 1's title must touch exactly draft.itinerary[1].title.
func TestNestedPathResolution(t *testing.T) {
	d := DraftOf(map[string]interface{}{
		"title": "Trek",
		"itinerary": []interface{}{
			map[string]interface{}{"title": "Day one", "description": "Arrive"},
			map[string]interface{}{"title": "Day two", "description": "Hike"},
		},
	})

	require.NoError(t, d.SetValue(ParsePath("itinerary.1.title"), "Day two revised"))

	v, _ := d.Value(ParsePath("itinerary.1.title"))
	assert.Equal(t, "Day two revised", v)
	v, _ = d.Value(ParsePath("itinerary.1.description"))
	assert.Equal(t, "Hike", v)
	v, _ = d.Value(ParsePath("itinerary.0.title"))
	assert.Equal(t, "Day one", v)
	v, _ = d.Value(ParsePath("title"))
	assert.Equal(t, "Trek", v)
}

func TestAppendAndRemoveArrayItems(t *testing.T) {
	d := NewDraft()
	p := ParsePath("highlights")

	require.NoError(t, d.AppendItem(p, "Tiger's Nest"))
	require.NoError(t, d.AppendItem(p, "Punakha Dzong"))
	require.NoError(t, d.AppendItem(p, "Dochula Pass"))
	assert.Equal(t, []interface{}{"Tiger's Nest", "Punakha Dzong", "Dochula Pass"}, d.Items(p))

	require.NoError(t, d.RemoveItem(p, 1))
	assert.Equal(t, []interface{}{"Tiger's Nest", "Dochula Pass"}, d.Items(p))

	assert.Error(t, d.RemoveItem(p, 5))
	assert.Error(t, d.RemoveItem(p, -1))
}

func TestArrayNestedInsideItem(t *testing.T) {
	d := DraftOf(map[string]interface{}{
		"itinerary": []interface{}{
			map[string]interface{}{"title": "Day one"},
		},
	})

	p := ParsePath("itinerary.0.places")
	require.NoError(t, d.AppendItem(p, "Paro Dzong"))
	require.NoError(t, d.AppendItem(p, "National Museum"))
	assert.Equal(t, []interface{}{"Paro Dzong", "National Museum"}, d.Items(p))
}

func TestAddItemGating(t *testing.T) {
	f := itineraryField()
	d := NewDraft()
	p := ParsePath("itinerary")

	assert.False(t, d.CanAddItem(p, f.Fields))
	assert.Error(t, d.AddStagedItem(p, f.Fields))

	d.StageValue(p, "title", "Day one")
	assert.False(t, d.CanAddItem(p, f.Fields), "one required field still empty")

	d.StageValue(p, "description", "   ")
	assert.False(t, d.CanAddItem(p, f.Fields), "whitespace is empty")

	d.StageValue(p, "description", "Arrive in Paro")
	assert.True(t, d.CanAddItem(p, f.Fields))

	require.NoError(t, d.AddStagedItem(p, f.Fields))

	items := d.Items(p)
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Day one", item["title"])
	assert.Equal(t, "Arrive in Paro", item["description"])

	// Staging is cleared, so the gate closes again.
	assert.Nil(t, d.StagedValue(p, "title"))
	assert.False(t, d.CanAddItem(p, f.Fields))
}

// A staged array sub-field is typed as comma-separated text; the stored item
// must hold a real array so chip rendering and array edits work on it.
func TestAddStagedItemSplitsArraySubFields(t *testing.T) {
	f := itineraryField()
	d := NewDraft()
	p := ParsePath("itinerary")

	d.StageValue(p, "title", "Day one")
	d.StageValue(p, "description", "Arrive in Paro")
	d.StageValue(p, "places", "Paro Dzong, National Museum, ")
	require.NoError(t, d.AddStagedItem(p, f.Fields))

	items := d.Items(p)
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, []interface{}{"Paro Dzong", "National Museum"}, item["places"])

	placesPath := ParsePath("itinerary.0.places")
	require.NoError(t, d.AppendItem(placesPath, "Kyichu Lhakhang"))
	assert.Equal(t,
		[]interface{}{"Paro Dzong", "National Museum", "Kyichu Lhakhang"},
		d.Items(placesPath))

	// A staged value that already is an array passes through unchanged.
	d.StageValue(p, "title", "Day two")
	d.StageValue(p, "description", "Hike")
	d.StageValue(p, "places", []interface{}{"Taktsang"})
	require.NoError(t, d.AddStagedItem(p, f.Fields))

	item = d.Items(p)[1].(map[string]interface{})
	assert.Equal(t, []interface{}{"Taktsang"}, item["places"])
}

func TestReorderBoundaryIsNoOp(t *testing.T) {
	d := DraftOf(map[string]interface{}{
		"itinerary": []interface{}{
			map[string]interface{}{"title": "first"},
			map[string]interface{}{"title": "second"},
			map[string]interface{}{"title": "third"},
		},
	})
	p := ParsePath("itinerary")

	titles := func() []string {
		var out []string
		for _, raw := range d.Items(p) {
			out = append(out, raw.(map[string]interface{})["title"].(string))
		}
		return out
	}

	require.NoError(t, d.MoveItem(p, 0, -1))
	assert.Equal(t, []string{"first", "second", "third"}, titles())

	require.NoError(t, d.MoveItem(p, 2, 1))
	assert.Equal(t, []string{"first", "second", "third"}, titles())

	require.NoError(t, d.MoveItem(p, 1, -1))
	assert.Equal(t, []string{"second", "first", "third"}, titles())

	require.NoError(t, d.MoveItem(p, 1, 1))
	assert.Equal(t, []string{"second", "third", "first"}, titles())

	assert.Error(t, d.MoveItem(p, 9, 1))
	assert.Error(t, d.MoveItem(p, 0, 2))
}

func TestMissingRequired(t *testing.T) {
	schema := Schema{
		Collection: "packages",
		Title:      "Tour Package",
		Fields: []Field{
			{Name: "title", Label: "Title", Type: FieldText, Required: true},
			{Name: "summary", Label: "Summary", Type: FieldTextarea},
			{Name: "seo", Label: "SEO", Type: FieldObject, Fields: []Field{
				{Name: "metaTitle", Label: "Meta Title", Type: FieldText, Required: true},
			}},
			itineraryField(),
		},
	}
	require.NoError(t, schema.Validate())

	d := NewDraft()
	assert.ElementsMatch(t, []string{"Title", "Meta Title"}, schema.MissingRequired(d))

	require.NoError(t, d.SetValue(ParsePath("title"), "Druk Path Trek"))
	require.NoError(t, d.SetValue(ParsePath("seo.metaTitle"), "Druk Path"))
	assert.Empty(t, schema.MissingRequired(d))
}
