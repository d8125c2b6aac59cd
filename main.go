package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"bhutanTravelWebsite/internal/contact"
	"bhutanTravelWebsite/internal/store"
	"bhutanTravelWebsite/internal/utils"
)

// App holds the application's shared state and dependencies.
type App struct {
	Config       *Config
	Store        *store.Store
	ContactStore *contact.Store
	SessionStore *sessions.CookieStore
	Registry     *EditorRegistry
	PageCache    *utils.Cache
}

func main() {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := InitializeLogger(config); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer AppLogger.Sync()

	contentStore, err := store.NewStore(config.DataDir)
	if err != nil {
		AppLogger.WithError(err).Fatal("Failed to open content store")
	}

	contactStore, err := contact.Open(config.ContactDBPath)
	if err != nil {
		AppLogger.WithError(err).Fatal("Failed to open contact database")
	}
	defer contactStore.Close()

	registry, err := NewEditorRegistry(SiteSchemas())
	if err != nil {
		AppLogger.WithError(err).Fatal("Invalid editor schema configuration")
	}

	sessionStore := sessions.NewCookieStore(config.SessionSecret)
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   config.TokenMaxAge,
		HttpOnly: true,
		Secure:   config.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	}

	app := &App{
		Config:       config,
		Store:        contentStore,
		ContactStore: contactStore,
		SessionStore: sessionStore,
		Registry:     registry,
		PageCache:    utils.NewCache(pageCacheTTL),
	}

	router := app.setupRoutes()

	server := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	AppLogger.WithFields(map[string]interface{}{
		"port":        config.Port,
		"environment": config.Environment,
		"data_dir":    config.DataDir,
	}).Info("Server starting")

	if err := server.ListenAndServe(); err != nil {
		AppLogger.WithError(err).Fatal("Server failed")
	}
}

func (app *App) setupRoutes() http.Handler {
	router := mux.NewRouter()

	// Public site
	router.HandleFunc("/", app.handleHome).Methods("GET")
	router.HandleFunc("/destinations", app.handleDestinations).Methods("GET")
	router.HandleFunc("/destinations/{slug}", app.handleDestination).Methods("GET")
	router.HandleFunc("/packages", app.handlePackages).Methods("GET")
	router.HandleFunc("/packages/{slug}", app.handlePackage).Methods("GET")
	router.HandleFunc("/sitemap.xml", app.handleSitemap).Methods("GET")
	router.HandleFunc("/robots.txt", app.handleRobots).Methods("GET")
	router.HandleFunc("/health", app.handleHealth).Methods("GET")

	// Contact and newsletter forms
	router.HandleFunc("/contact", app.handleContactPage).Methods("GET")
	router.HandleFunc("/contact", app.CSRFMiddleware(app.handleContact)).Methods("POST")
	router.HandleFunc("/newsletter", app.CSRFMiddleware(app.handleNewsletter)).Methods("POST")

	// Authentication
	router.HandleFunc("/login", app.handleLoginPage).Methods("GET")
	router.HandleFunc("/login", app.CSRFMiddleware(app.handleLogin)).Methods("POST")
	router.HandleFunc("/register", app.handleRegisterPage).Methods("GET")
	router.HandleFunc("/register", app.CSRFMiddleware(app.handleRegister)).Methods("POST")
	router.HandleFunc("/logout", app.handleLogout).Methods("POST", "GET")

	// Collection API; handleCollection dispatches on method so unsupported
	// verbs get a 405 with an Allow header instead of mux's bare 405.
	router.HandleFunc("/api/collections/{collection}", app.handleCollection)

	// Back office
	router.HandleFunc("/admin", app.PageAuthMiddleware(app.handleAdminDashboard)).Methods("GET")
	router.HandleFunc("/admin/inbox", app.PageAuthMiddleware(app.handleAdminInbox)).Methods("GET")
	router.HandleFunc("/admin/{collection}", app.PageAuthMiddleware(app.handleAdminList)).Methods("GET")
	router.HandleFunc("/admin/{collection}/edit", app.PageAuthMiddleware(app.handleAdminEdit)).Methods("GET")

	// Static assets
	router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir("./static/"))))

	router.Use(app.RecoveryMiddleware)
	router.Use(app.LoggingMiddleware)
	router.Use(app.RateLimitMiddleware())

	return router
}
