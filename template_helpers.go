package main

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"bhutanTravelWebsite/internal/auth"
)

// TemplateCache holds parsed templates with inheritance support
type TemplateCache struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateCache creates a new template cache
func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		templates: make(map[string]*template.Template),
	}
}

// GetTemplate returns a cached template or loads it if not cached
func (tc *TemplateCache) GetTemplate(name string) (*template.Template, error) {
	tc.mutex.RLock()
	tmpl, exists := tc.templates[name]
	tc.mutex.RUnlock()

	if exists {
		return tmpl, nil
	}

	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if tmpl, exists := tc.templates[name]; exists {
		return tmpl, nil
	}

	templatePath := filepath.Join("templates", name+".html")
	basePath := filepath.Join("templates", "base.html")

	tmpl, err := template.New("").Funcs(CreateTemplateFuncMap()).ParseFiles(basePath, templatePath)
	if err != nil {
		return nil, err
	}

	tc.templates[name] = tmpl
	return tmpl, nil
}

// RenderTemplate renders a template with the given data
func (tc *TemplateCache) RenderTemplate(w http.ResponseWriter, name string, data interface{}) error {
	tmpl, err := tc.GetTemplate(name)
	if err != nil {
		return err
	}

	return tmpl.ExecuteTemplate(w, "base.html", data)
}

// ClearCache clears the template cache (useful for development)
func (tc *TemplateCache) ClearCache() {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()
	tc.templates = make(map[string]*template.Template)
}

// Global template cache
var templateCache *TemplateCache

func init() {
	templateCache = NewTemplateCache()
}

// Template helper functions for common UI patterns

// RoleBadge creates a user role badge HTML
func RoleBadge(role string) template.HTML {
	badges := map[string]string{
		auth.RoleAdmin:  `<span class="admin-badge">ADMIN</span>`,
		auth.RoleEditor: `<span class="editor-badge">EDITOR</span>`,
	}

	if badge, exists := badges[role]; exists {
		return template.HTML(badge)
	}
	return ""
}

// NavButton creates a navigation button HTML
func NavButton(text, url, buttonType string, condition bool) template.HTML {
	if !condition {
		return ""
	}

	class := "btn"
	if buttonType != "" {
		class += " btn-" + buttonType
	}

	return template.HTML(fmt.Sprintf(
		`<a href="%s" class="%s">%s</a>`,
		url, class, text,
	))
}

// Truncate truncates a string to specified length
func Truncate(text string, length int) string {
	if len(text) <= length {
		return text
	}
	return text[:length] + "..."
}

// Join joins a slice of strings with separator
func Join(items []string, separator string) string {
	return strings.Join(items, separator)
}

// FormatPrice renders a numeric price for display
func FormatPrice(v interface{}) string {
	switch t := v.(type) {
	case float64:
		return fmt.Sprintf("US$ %.0f", t)
	case int:
		return fmt.Sprintf("US$ %d", t)
	default:
		return ""
	}
}

// CreateTemplateFuncMap creates a function map for templates
func CreateTemplateFuncMap() template.FuncMap {
	return template.FuncMap{
		"roleBadge":   RoleBadge,
		"navButton":   NavButton,
		"truncate":    Truncate,
		"join":        Join,
		"formatPrice": FormatPrice,
		"add":         func(a, b int) int { return a + b },
	}
}

// TemplateData represents the common data structure for all templates
type TemplateData struct {
	UserID          string
	UserRole        string
	IsAuthenticated bool
	IsAdmin         bool

	SiteURL string
	Year    int

	// Page-specific data
	PageData interface{}
}

// renderPage renders a page template wrapped in the base layout, with the
// caller's identity resolved from the auth cookie when one is present.
func (app *App) renderPage(w http.ResponseWriter, r *http.Request, name string, pageData interface{}) {
	data := &TemplateData{
		SiteURL:  app.Config.SiteURL,
		Year:     time.Now().Year(),
		PageData: pageData,
	}

	if identity, _ := app.verifyRequestIdentity(r); identity != nil {
		data.UserID = identity.UserID
		data.UserRole = identity.Role
		data.IsAuthenticated = true
		data.IsAdmin = identity.Role == auth.RoleAdmin
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templateCache.RenderTemplate(w, name, data); err != nil {
		AppLogger.WithError(err).WithField("template", name).Error("Failed to render template")
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
