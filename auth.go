package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"bhutanTravelWebsite/internal/auth"
	"bhutanTravelWebsite/internal/store"
	"bhutanTravelWebsite/internal/utils"
)

const (
	sessionName     = "site-session"
	usersCollection = "users"
)

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *App) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   app.Config.TokenMaxAge,
		HttpOnly: true,
		Secure:   app.Config.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})
}

func (app *App) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   app.Config.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})
}

func (app *App) findUserByEmail(email string) (store.Record, error) {
	users, err := app.Store.Read(usersCollection)
	if err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range users {
		if stored, _ := user["email"].(string); strings.ToLower(stored) == email {
			return user, nil
		}
	}
	return nil, store.ErrNotFound
}

func decodeCredentials(r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, false
		}
		return req, true
	}
	if err := r.ParseForm(); err != nil {
		return req, false
	}
	req.Name = r.FormValue("name")
	req.Email = r.FormValue("email")
	req.Password = r.FormValue("password")
	return req, true
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func (app *App) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	csrfToken, err := app.ensureSessionCSRF(w, r)
	if err != nil {
		utils.InternalServerError(w, "Session error")
		return
	}

	app.renderPage(w, r, "login", map[string]interface{}{
		"CSRFToken": csrfToken,
		"Flash":     app.takeFlash(w, r),
	})
}

func (app *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(r)
	if !ok {
		utils.BadRequestError(w, "Invalid request body")
		return
	}

	fail := func() {
		if wantsJSON(r) {
			utils.AuthenticationError(w, "Invalid email or password")
			return
		}
		app.setFlash(w, r, "Invalid email or password")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}

	user, err := app.findUserByEmail(req.Email)
	if err != nil {
		if err != store.ErrNotFound {
			AppLogger.WithError(err).Error("Failed to read users collection during login")
		}
		fail()
		return
	}

	hash, _ := user["passwordHash"].(string)
	salt, _ := user["passwordSalt"].(string)
	if !auth.VerifyPassword(req.Password, hash, salt) {
		fail()
		return
	}

	role, _ := user["role"].(string)
	token, err := auth.GenerateToken(user.ID(), role, app.Config.JWTSecret,
		time.Duration(app.Config.TokenMaxAge)*time.Second)
	if err != nil {
		AppLogger.WithError(err).Error("Failed to generate auth token")
		utils.InternalServerError(w, "Failed to create session")
		return
	}

	app.setAuthCookie(w, token)

	AppLogger.WithFields(map[string]interface{}{
		"user_id": user.ID(),
		"role":    role,
	}).Info("User logged in")

	if wantsJSON(r) {
		utils.RespondWithSuccess(w, map[string]string{"role": role}, "Logged in")
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (app *App) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	csrfToken, err := app.ensureSessionCSRF(w, r)
	if err != nil {
		utils.InternalServerError(w, "Session error")
		return
	}

	app.renderPage(w, r, "register", map[string]interface{}{
		"CSRFToken": csrfToken,
		"Flash":     app.takeFlash(w, r),
	})
}

func (app *App) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(r)
	if !ok {
		utils.BadRequestError(w, "Invalid request body")
		return
	}

	if err := ValidateCredentials(req.Email, req.Password); err != nil {
		if wantsJSON(r) {
			utils.ValidationError(w, err.Error())
			return
		}
		app.setFlash(w, r, err.Error())
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	if _, err := app.findUserByEmail(req.Email); err == nil {
		if wantsJSON(r) {
			utils.RespondWithError(w, http.StatusConflict, "An account with this email already exists")
			return
		}
		app.setFlash(w, r, "An account with this email already exists")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	hash, salt, err := auth.HashPassword(req.Password)
	if err != nil {
		AppLogger.WithError(err).Error("Failed to hash password")
		utils.InternalServerError(w, "Registration failed")
		return
	}

	// The first account becomes the admin; everyone after that can read the
	// back office but not mutate content.
	role := auth.RoleEditor
	if existing, err := app.Store.Read(usersCollection); err == nil && len(existing) == 0 {
		role = auth.RoleAdmin
	}

	user, err := app.Store.Create(usersCollection, store.Record{
		"name":         SanitizeInput(req.Name),
		"email":        strings.ToLower(strings.TrimSpace(req.Email)),
		"role":         role,
		"passwordHash": hash,
		"passwordSalt": salt,
	})
	if err != nil {
		AppLogger.WithError(err).Error("Failed to create user record")
		utils.InternalServerError(w, "Registration failed")
		return
	}

	AppLogger.WithFields(map[string]interface{}{
		"user_id": user.ID(),
		"role":    role,
	}).Info("User registered")

	if wantsJSON(r) {
		utils.RespondWithJSON(w, http.StatusCreated, map[string]string{
			"id":   user.ID(),
			"role": role,
		})
		return
	}
	app.setFlash(w, r, "Account created - you can log in now")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (app *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	app.clearAuthCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ensureSessionCSRF returns the session's CSRF token, minting one on first
// use.
func (app *App) ensureSessionCSRF(w http.ResponseWriter, r *http.Request) (string, error) {
	session, err := app.SessionStore.Get(r, sessionName)
	if err != nil {
		// A corrupted session cookie starts a fresh session.
		session, err = app.SessionStore.New(r, sessionName)
		if err != nil {
			return "", err
		}
	}

	if token, ok := session.Values["csrf_token"].(string); ok && token != "" {
		return token, nil
	}

	token, err := GenerateCSRFToken()
	if err != nil {
		return "", err
	}
	session.Values["csrf_token"] = token
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return token, nil
}

func (app *App) setFlash(w http.ResponseWriter, r *http.Request, message string) {
	session, err := app.SessionStore.Get(r, sessionName)
	if err != nil {
		return
	}
	session.AddFlash(message)
	_ = session.Save(r, w)
}

func (app *App) takeFlash(w http.ResponseWriter, r *http.Request) string {
	session, err := app.SessionStore.Get(r, sessionName)
	if err != nil {
		return ""
	}
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return ""
	}
	_ = session.Save(r, w)
	message, _ := flashes[0].(string)
	return message
}
