package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	p := ParsePath("itinerary.1.title")
	require.Len(t, p, 3)
	assert.Equal(t, Key("itinerary"), p[0])
	assert.Equal(t, Index(1), p[1])
	assert.Equal(t, Key("title"), p[2])
	assert.Equal(t, "itinerary.1.title", p.String())

	assert.Empty(t, ParsePath(""))
}

func TestPathBuilders(t *testing.T) {
	p := Path{}.Child("itinerary").At(2).Child("places").At(0)
	assert.Equal(t, "itinerary.2.places.0", p.String())

	// Child and At must not alias the parent path's backing array.
	base := Path{}.Child("a")
	first := base.Child("b")
	second := base.Child("c")
	assert.Equal(t, "a.b", first.String())
	assert.Equal(t, "a.c", second.String())
}

func TestPathGet(t *testing.T) {
	root := map[string]interface{}{
		"title": "Druk Path Trek",
		"itinerary": []interface{}{
			map[string]interface{}{"title": "Arrive in Paro"},
			map[string]interface{}{
				"title":  "Hike to Jele Dzong",
				"places": []interface{}{"Jele Dzong", "Tshokam"},
			},
		},
	}

	v, ok := ParsePath("title").Get(root)
	require.True(t, ok)
	assert.Equal(t, "Druk Path Trek", v)

	v, ok = ParsePath("itinerary.1.title").Get(root)
	require.True(t, ok)
	assert.Equal(t, "Hike to Jele Dzong", v)

	v, ok = ParsePath("itinerary.1.places.0").Get(root)
	require.True(t, ok)
	assert.Equal(t, "Jele Dzong", v)

	_, ok = ParsePath("itinerary.5.title").Get(root)
	assert.False(t, ok)
	_, ok = ParsePath("missing.child").Get(root)
	assert.False(t, ok)
	_, ok = ParsePath("title.0").Get(root)
	assert.False(t, ok)
}

func TestPathSetCreatesIntermediateObjects(t *testing.T) {
	root := map[string]interface{}{}

	require.NoError(t, ParsePath("hero.heading").Set(root, "Visit Bhutan"))
	v, ok := ParsePath("hero.heading").Get(root)
	require.True(t, ok)
	assert.Equal(t, "Visit Bhutan", v)
}

func TestPathSetIndexBounds(t *testing.T) {
	root := map[string]interface{}{
		"itinerary": []interface{}{
			map[string]interface{}{"title": "a"},
		},
	}

	require.NoError(t, ParsePath("itinerary.0.title").Set(root, "b"))
	v, _ := ParsePath("itinerary.0.title").Get(root)
	assert.Equal(t, "b", v)

	assert.Error(t, ParsePath("itinerary.3.title").Set(root, "x"))
	assert.Error(t, ParsePath("missing.3.title").Set(root, "x"))
	assert.Error(t, Path{}.Set(root, "x"))
}
