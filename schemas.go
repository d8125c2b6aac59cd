package main

import (
	"fmt"
	"sort"

	"bhutanTravelWebsite/internal/forms"
)

// EditorRegistry maps collection names to their field schemas. Only
// collections registered here get editor pages in the back office; the
// schemas must mirror the shape of the records they edit.
type EditorRegistry struct {
	schemas map[string]forms.Schema
}

// NewEditorRegistry validates and indexes the given schemas.
func NewEditorRegistry(schemas []forms.Schema) (*EditorRegistry, error) {
	registry := &EditorRegistry{schemas: make(map[string]forms.Schema, len(schemas))}
	for _, s := range schemas {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("registering editor schemas: %w", err)
		}
		if _, exists := registry.schemas[s.Collection]; exists {
			return nil, fmt.Errorf("duplicate schema for collection %q", s.Collection)
		}
		registry.schemas[s.Collection] = s
	}
	return registry, nil
}

// Schema returns the schema registered for a collection.
func (er *EditorRegistry) Schema(collection string) (forms.Schema, bool) {
	s, ok := er.schemas[collection]
	return s, ok
}

// Schemas returns all registered schemas sorted by collection name.
func (er *EditorRegistry) Schemas() []forms.Schema {
	out := make([]forms.Schema, 0, len(er.schemas))
	for _, s := range er.schemas {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Collection < out[j].Collection })
	return out
}

// SiteSchemas declares the editable entity kinds of the site. Each schema
// drives the corresponding admin editor and must structurally match the
// records stored in its collection.
func SiteSchemas() []forms.Schema {
	return []forms.Schema{
		{
			Collection: "packages",
			Title:      "Tour Package",
			TitleField: "title",
			Fields: []forms.Field{
				{Name: "title", Label: "Title", Type: forms.FieldText, Required: true},
				{Name: "slug", Label: "URL Slug", Type: forms.FieldText, Required: true},
				{Name: "summary", Label: "Summary", Type: forms.FieldTextarea},
				{Name: "description", Label: "Description", Type: forms.FieldTextarea, Required: true},
				{Name: "durationDays", Label: "Duration (days)", Type: forms.FieldNumber, Required: true},
				{Name: "priceUSD", Label: "Price (USD)", Type: forms.FieldNumber},
				{Name: "highlights", Label: "Highlights", Type: forms.FieldArray},
				{Name: "includes", Label: "What's Included", Type: forms.FieldArray},
				{
					Name:       "itinerary",
					Label:      "Itinerary",
					Type:       forms.FieldNestedArray,
					TitleField: "title",
					Fields: []forms.Field{
						{Name: "title", Label: "Day Title", Type: forms.FieldText, Required: true},
						{Name: "description", Label: "Day Description", Type: forms.FieldTextarea, Required: true},
						{Name: "places", Label: "Places", Type: forms.FieldArray},
						{Name: "meals", Label: "Meals", Type: forms.FieldText},
						{Name: "accommodation", Label: "Accommodation", Type: forms.FieldText},
					},
				},
				{
					Name:  "seo",
					Label: "SEO",
					Type:  forms.FieldObject,
					Fields: []forms.Field{
						{Name: "metaTitle", Label: "Meta Title", Type: forms.FieldText},
						{Name: "metaDescription", Label: "Meta Description", Type: forms.FieldTextarea},
					},
				},
			},
		},
		{
			Collection: "destinations",
			Title:      "Destination",
			TitleField: "name",
			Fields: []forms.Field{
				{Name: "name", Label: "Name", Type: forms.FieldText, Required: true},
				{Name: "slug", Label: "URL Slug", Type: forms.FieldText, Required: true},
				{Name: "region", Label: "Region", Type: forms.FieldText},
				{Name: "altitude", Label: "Altitude (m)", Type: forms.FieldNumber},
				{Name: "description", Label: "Description", Type: forms.FieldTextarea, Required: true},
				{Name: "gallery", Label: "Gallery Image URLs", Type: forms.FieldArray},
				{
					Name:       "placesToVisit",
					Label:      "Places to Visit",
					Type:       forms.FieldNestedArray,
					TitleField: "name",
					Fields: []forms.Field{
						{Name: "name", Label: "Place Name", Type: forms.FieldText, Required: true},
						{Name: "description", Label: "Place Description", Type: forms.FieldTextarea},
						{Name: "tags", Label: "Tags", Type: forms.FieldArray},
					},
				},
			},
		},
	}
}
