package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Note is the demo's persisted record.
type Note struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	Created time.Time `json:"created"`
}

// Store wraps the sqlite connection. Handlers talk to it through this type
// only; the router never sees a query.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and if needed creates) the sqlite database at path.
func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		body TEXT NOT NULL DEFAULT '',
		created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns all notes, newest first.
func (s *Store) List() ([]Note, error) {
	rows, err := s.db.Query("SELECT id, title, body, created FROM notes ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Created); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Get returns a single note, or sql.ErrNoRows.
func (s *Store) Get(id int64) (Note, error) {
	var n Note
	err := s.db.QueryRow("SELECT id, title, body, created FROM notes WHERE id = ?", id).
		Scan(&n.ID, &n.Title, &n.Body, &n.Created)
	return n, err
}

// Create inserts a note and returns it with its assigned id.
func (s *Store) Create(title, body string) (Note, error) {
	res, err := s.db.Exec("INSERT INTO notes (title, body) VALUES (?, ?)", title, body)
	if err != nil {
		return Note{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Note{}, err
	}
	return s.Get(id)
}

// Delete removes a note; it reports whether one existed.
func (s *Store) Delete(id int64) (bool, error) {
	res, err := s.db.Exec("DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}
