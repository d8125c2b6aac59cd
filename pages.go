package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"bhutanTravelWebsite/internal/store"
	"bhutanTravelWebsite/internal/utils"
)

const pageCacheTTL = 10 * time.Minute

// readPublic reads a collection for the public pages. Failures render as an
// empty listing rather than an error page; the cause is logged server-side.
func (app *App) readPublic(name string) []store.Record {
	records, err := app.Store.Read(name)
	if err != nil {
		AppLogger.WithError(err).WithField("collection", name).Error("Failed to read collection for public page")
		return nil
	}
	return records
}

func findBySlug(records []store.Record, slug string) store.Record {
	for _, rec := range records {
		if s, _ := rec["slug"].(string); s == slug {
			return rec
		}
	}
	return nil
}

func (app *App) handleHome(w http.ResponseWriter, r *http.Request) {
	packages := app.readPublic("packages")
	destinations := app.readPublic("destinations")

	featured := packages
	if len(featured) > 3 {
		featured = featured[:3]
	}

	app.renderPage(w, r, "home", map[string]interface{}{
		"FeaturedPackages": featured,
		"Destinations":     destinations,
	})
}

func (app *App) handleDestinations(w http.ResponseWriter, r *http.Request) {
	app.renderPage(w, r, "destinations", map[string]interface{}{
		"Destinations": app.readPublic("destinations"),
	})
}

func (app *App) handleDestination(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	destination := findBySlug(app.readPublic("destinations"), slug)
	if destination == nil {
		http.NotFound(w, r)
		return
	}

	app.renderPage(w, r, "destination", map[string]interface{}{
		"Destination": destination,
	})
}

func (app *App) handlePackages(w http.ResponseWriter, r *http.Request) {
	app.renderPage(w, r, "packages", map[string]interface{}{
		"Packages": app.readPublic("packages"),
	})
}

func (app *App) handlePackage(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	pkg := findBySlug(app.readPublic("packages"), slug)
	if pkg == nil {
		http.NotFound(w, r)
		return
	}

	app.renderPage(w, r, "package", map[string]interface{}{
		"Package": pkg,
	})
}

// handleSitemap serves a sitemap generated from the published collections.
// The rendered document is cached; content edits show up after the TTL.
func (app *App) handleSitemap(w http.ResponseWriter, r *http.Request) {
	if cached, ok := app.PageCache.Get("sitemap"); ok {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write(cached.([]byte))
		return
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")

	writeURL := func(path string) {
		b.WriteString(fmt.Sprintf("  <url><loc>%s%s</loc></url>\n", app.Config.SiteURL, path))
	}

	writeURL("/")
	writeURL("/destinations")
	writeURL("/packages")
	writeURL("/contact")
	for _, rec := range app.readPublic("destinations") {
		if slug, _ := rec["slug"].(string); slug != "" {
			writeURL("/destinations/" + slug)
		}
	}
	for _, rec := range app.readPublic("packages") {
		if slug, _ := rec["slug"].(string); slug != "" {
			writeURL("/packages/" + slug)
		}
	}
	b.WriteString("</urlset>\n")

	body := []byte(b.String())
	app.PageCache.SetWithTTL("sitemap", body, pageCacheTTL)

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(body)
}

func (app *App) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nDisallow: /admin\nDisallow: /api/\nSitemap: %s/sitemap.xml\n", app.Config.SiteURL)
}

// handleHealth is used by the deployment's liveness probe.
func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
