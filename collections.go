package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"bhutanTravelWebsite/internal/store"
	"bhutanTravelWebsite/internal/utils"
)

// handleCollection is the single parameterized endpoint behind the admin
// editor: every named collection gets the same verb-to-store mapping. Reads
// need any valid credential, mutations need the admin role.
func (app *App) handleCollection(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["collection"]
	if !store.ValidCollectionName(name) {
		utils.BadRequestError(w, "Invalid collection name")
		return
	}

	switch r.Method {
	case http.MethodGet:
		// Account records carry password hashes and salts, so the users
		// collection is admin-only even for reads.
		if name == usersCollection {
			app.AuthMiddleware(app.AdminMiddleware(app.getCollection))(w, r)
			return
		}
		app.AuthMiddleware(app.getCollection)(w, r)
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		app.AuthMiddleware(app.AdminMiddleware(app.mutateCollection))(w, r)
	default:
		utils.MethodNotAllowedError(w, "GET", "POST", "PUT", "DELETE")
	}
}

func (app *App) getCollection(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["collection"]

	records, err := app.Store.Read(name)
	if err != nil {
		AppLogger.WithError(err).WithField("collection", name).Error("Failed to read collection")
		utils.StoreError(w)
		return
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	utils.RespondWithJSON(w, http.StatusOK, records)
}

func (app *App) mutateCollection(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["collection"]
	userID, _ := utils.GetUserID(r)
	role, _ := utils.GetUserRole(r)

	AppLogger.WithFields(map[string]interface{}{
		"user_id":    userID,
		"role":       role,
		"method":     r.Method,
		"collection": name,
	}).Info("Collection mutation")

	switch r.Method {
	case http.MethodPost:
		app.createRecord(w, r, name)
	case http.MethodPut:
		app.updateRecord(w, r, name)
	case http.MethodDelete:
		app.deleteRecord(w, r, name)
	}
}

func (app *App) createRecord(w http.ResponseWriter, r *http.Request, name string) {
	var body store.Record
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.BadRequestError(w, "Invalid request body")
		return
	}

	created, err := app.Store.Create(name, body)
	if err != nil {
		AppLogger.WithError(err).WithField("collection", name).Error("Failed to create record")
		utils.StoreError(w)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (app *App) updateRecord(w http.ResponseWriter, r *http.Request, name string) {
	id := r.URL.Query().Get("id")
	if id == "" {
		utils.BadRequestError(w, "Missing id parameter")
		return
	}

	var body store.Record
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.BadRequestError(w, "Invalid request body")
		return
	}

	updated, err := app.Store.Update(name, id, body)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.NotFoundError(w, "Item")
			return
		}
		AppLogger.WithError(err).WithField("collection", name).Error("Failed to update record")
		utils.StoreError(w)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func (app *App) deleteRecord(w http.ResponseWriter, r *http.Request, name string) {
	id := r.URL.Query().Get("id")
	if id == "" {
		utils.BadRequestError(w, "Missing id parameter")
		return
	}

	if err := app.Store.Delete(name, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.NotFoundError(w, "Item")
			return
		}
		AppLogger.WithError(err).WithField("collection", name).Error("Failed to delete record")
		utils.StoreError(w)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"status": "deleted",
		"id":     id,
	})
}
