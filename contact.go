package main

import (
	"net/http"

	"bhutanTravelWebsite/internal/utils"
)

func (app *App) handleContactPage(w http.ResponseWriter, r *http.Request) {
	csrfToken, err := app.ensureSessionCSRF(w, r)
	if err != nil {
		utils.InternalServerError(w, "Session error")
		return
	}

	app.renderPage(w, r, "contact", map[string]interface{}{
		"CSRFToken": csrfToken,
		"Flash":     app.takeFlash(w, r),
	})
}

func (app *App) handleContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.BadRequestError(w, "Invalid form submission")
		return
	}

	name := SanitizeInput(r.FormValue("name"))
	email := r.FormValue("email")
	subject := SanitizeInput(r.FormValue("subject"))
	body := SanitizeInput(r.FormValue("message"))

	if err := ValidateContactForm(name, email, subject, body); err != nil {
		app.setFlash(w, r, err.Error())
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}

	if err := app.ContactStore.SaveMessage(name, email, subject, body); err != nil {
		AppLogger.WithError(err).Error("Failed to save contact message")
		app.setFlash(w, r, "Something went wrong - please try again")
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}

	AppLogger.WithField("email", email).Info("Contact message received")
	app.setFlash(w, r, "Thank you - we will get back to you shortly")
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

func (app *App) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.BadRequestError(w, "Invalid form submission")
		return
	}

	email := r.FormValue("email")
	if !ValidateEmail(email) {
		app.setFlash(w, r, "A valid email address is required")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := app.ContactStore.Subscribe(email); err != nil {
		AppLogger.WithError(err).Error("Failed to save newsletter signup")
		app.setFlash(w, r, "Something went wrong - please try again")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	app.setFlash(w, r, "You are subscribed")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
