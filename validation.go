package main

import (
	"html"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email) && len(email) <= 255
}

func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = html.EscapeString(input)
	if len(input) > 1000 {
		input = input[:1000]
	}
	return input
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateContactForm checks a contact-form submission before it reaches the
// contact store.
func ValidateContactForm(name, email, subject, body string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{"Name is required"}
	}
	if !ValidateEmail(email) {
		return &ValidationError{"A valid email address is required"}
	}
	if strings.TrimSpace(subject) == "" {
		return &ValidationError{"Subject is required"}
	}
	if strings.TrimSpace(body) == "" {
		return &ValidationError{"Message is required"}
	}
	if len(body) > 5000 {
		return &ValidationError{"Message exceeds maximum length of 5000 characters"}
	}
	return nil
}

// ValidateCredentials checks a login/registration submission.
func ValidateCredentials(email, password string) error {
	if !ValidateEmail(email) {
		return &ValidationError{"A valid email address is required"}
	}
	if len(password) < 8 {
		return &ValidationError{"Password must be at least 8 characters long"}
	}
	if len(password) > 128 {
		return &ValidationError{"Password exceeds maximum length"}
	}
	return nil
}
