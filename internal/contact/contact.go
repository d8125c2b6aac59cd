// Package contact persists contact-form messages and newsletter signups.
// This store is deliberately separate from the flat-file content store; it
// is plain SQLite and never flows through the collection API.
package contact

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Message is one submitted contact-form entry.
type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Subscriber is one newsletter signup.
type Subscriber struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps the SQLite database holding messages and subscribers.
type Store struct {
	db *sql.DB
}

// Open opens (and initializes) the contact database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening contact database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS contact_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			subject TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS newsletter_subscribers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing contact database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveMessage stores a contact-form submission.
func (s *Store) SaveMessage(name, email, subject, body string) error {
	_, err := s.db.Exec(
		"INSERT INTO contact_messages (name, email, subject, body) VALUES (?, ?, ?, ?)",
		name, email, subject, body)
	if err != nil {
		return fmt.Errorf("saving contact message: %w", err)
	}
	return nil
}

// Subscribe records a newsletter signup. Re-subscribing an existing email is
// a no-op rather than an error.
func (s *Store) Subscribe(email string) error {
	_, err := s.db.Exec(
		"INSERT INTO newsletter_subscribers (email) VALUES (?) ON CONFLICT(email) DO NOTHING",
		email)
	if err != nil {
		return fmt.Errorf("saving newsletter signup: %w", err)
	}
	return nil
}

// Messages returns all contact messages, newest first.
func (s *Store) Messages() ([]Message, error) {
	rows, err := s.db.Query(
		"SELECT id, name, email, subject, body, created_at FROM contact_messages ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("querying contact messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning contact message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Subscribers returns all newsletter subscribers, oldest first.
func (s *Store) Subscribers() ([]Subscriber, error) {
	rows, err := s.db.Query(
		"SELECT id, email, created_at FROM newsletter_subscribers ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []Subscriber
	for rows.Next() {
		var sub Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning subscriber: %w", err)
		}
		subscribers = append(subscribers, sub)
	}
	return subscribers, rows.Err()
}
