package main

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"bhutanTravelWebsite/internal/forms"
	"bhutanTravelWebsite/internal/store"
	"bhutanTravelWebsite/internal/utils"
)

type adminKind struct {
	Collection string
	Title      string
	Count      int
}

func (app *App) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	var kinds []adminKind
	for _, schema := range app.Registry.Schemas() {
		records, err := app.Store.Read(schema.Collection)
		if err != nil {
			AppLogger.WithError(err).WithField("collection", schema.Collection).Error("Failed to read collection for dashboard")
		}
		kinds = append(kinds, adminKind{
			Collection: schema.Collection,
			Title:      schema.Title,
			Count:      len(records),
		})
	}

	app.renderPage(w, r, "admin_dashboard", map[string]interface{}{
		"Kinds": kinds,
	})
}

type adminListRow struct {
	ID    string
	Title string
}

func (app *App) handleAdminList(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]
	schema, ok := app.Registry.Schema(collection)
	if !ok {
		http.NotFound(w, r)
		return
	}

	records, err := app.Store.Read(collection)
	if err != nil {
		AppLogger.WithError(err).WithField("collection", collection).Error("Failed to read collection for admin list")
		utils.InternalServerError(w, "Failed to load collection")
		return
	}

	rows := make([]adminListRow, 0, len(records))
	for _, rec := range records {
		title, _ := rec[schema.TitleField].(string)
		if title == "" {
			title = "Untitled"
		}
		rows = append(rows, adminListRow{ID: rec.ID(), Title: title})
	}

	app.renderPage(w, r, "admin_list", map[string]interface{}{
		"Schema":     schema,
		"Collection": collection,
		"Rows":       rows,
	})
}

// handleAdminInbox shows contact messages and newsletter signups.
func (app *App) handleAdminInbox(w http.ResponseWriter, r *http.Request) {
	messages, err := app.ContactStore.Messages()
	if err != nil {
		AppLogger.WithError(err).Error("Failed to load contact messages")
		utils.InternalServerError(w, "Failed to load inbox")
		return
	}

	subscribers, err := app.ContactStore.Subscribers()
	if err != nil {
		AppLogger.WithError(err).Error("Failed to load newsletter subscribers")
		utils.InternalServerError(w, "Failed to load inbox")
		return
	}

	app.renderPage(w, r, "admin_inbox", map[string]interface{}{
		"Messages":    messages,
		"Subscribers": subscribers,
	})
}

// handleAdminEdit renders the schema-driven editor for one record. The form
// HTML comes from the recursive renderer; the page script mirrors the draft
// client-side and submits it whole through the collection API.
func (app *App) handleAdminEdit(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]
	schema, ok := app.Registry.Schema(collection)
	if !ok {
		http.NotFound(w, r)
		return
	}

	editingID := r.URL.Query().Get("id")

	var draft *forms.Draft
	if editingID != "" {
		record, err := app.Store.Find(collection, editingID)
		if err != nil {
			if err == store.ErrNotFound {
				http.NotFound(w, r)
				return
			}
			AppLogger.WithError(err).WithField("collection", collection).Error("Failed to load record for editing")
			utils.InternalServerError(w, "Failed to load item")
			return
		}
		draft = forms.DraftOf(record)
	} else {
		draft = forms.NewDraft()
	}

	renderer := forms.NewRenderer(schema)

	draftJSON, err := json.Marshal(draft.Data())
	if err != nil {
		utils.InternalServerError(w, "Failed to prepare editor")
		return
	}
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		utils.InternalServerError(w, "Failed to prepare editor")
		return
	}

	app.renderPage(w, r, "admin_edit", map[string]interface{}{
		"Schema":     schema,
		"Collection": collection,
		"EditingID":  editingID,
		"Form":       renderer.RenderForm(draft),
		"DraftJSON":  template.JS(draftJSON),
		"SchemaJSON": template.JS(schemaJSON),
	})
}
