package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db *sql.DB
}

// Contact is a person the organization maintains a relationship with.
type Contact struct {
	ID             string
	FullName       string
	Email          string
	Phone          *string
	Organization   *string
	JobTitle       *string
	Bio            *string
	Location       *string
	WebsiteURL     *string
	InfluenceScore *int
	ContactStatus  string
	Tags           *string
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int64

	// GroupCount is populated by list queries only.
	GroupCount int
}

// Group is a named collection of contacts (a campaign, a coalition, a beat).
type Group struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64

	// MemberCount is populated on reads via aggregation.
	MemberCount int
}

// Membership links a contact to a group.
type Membership struct {
	ContactID        string
	GroupID          string
	MembershipStatus string
	JoinedAt         time.Time
	Notes            *string

	// GroupName is populated when memberships are read alongside a contact.
	GroupName string
}

// SocialProfile is a contact's presence on one platform.
type SocialProfile struct {
	ID        string
	ContactID string
	Platform  string
	Handle    *string
	URL       string
	Notes     *string
	AddedAt   time.Time
	UpdatedAt time.Time
	Version   int64
}

// ShareEvent records a piece of content shared with a contact.
type ShareEvent struct {
	ID         string
	ContactID  string
	ContentURL string
	Platform   *string
	Title      *string
	Notes      *string
	SharedAt   time.Time
}

// NewStore creates a new database connection and initializes the schema
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// isUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY
// constraint failure. A concurrent writer can slip a conflicting row in
// between our pre-check and the insert; the driver error is the backstop.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
