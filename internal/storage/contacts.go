package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const contactColumns = `id, full_name, email, phone, organization, job_title, bio,
	location, website_url, influence_score, contact_status, tags, notes,
	created_at, updated_at, version`

// ContactInput holds the fields accepted when creating a contact.
// Empty optional strings are stored as NULL.
type ContactInput struct {
	FullName       string
	Email          string
	Phone          string
	Organization   string
	JobTitle       string
	Bio            string
	Location       string
	WebsiteURL     string
	InfluenceScore *int
	ContactStatus  string
	Tags           string
	Notes          string
}

// ContactPatch holds a partial update. Nil means the field is untouched;
// a pointer to "" clears a nullable field; InfluenceScore 0 clears the score.
type ContactPatch struct {
	FullName       *string
	Email          *string
	Phone          *string
	Organization   *string
	JobTitle       *string
	Bio            *string
	Location       *string
	WebsiteURL     *string
	InfluenceScore *int
	ContactStatus  *string
	Tags           *string
	Notes          *string
}

// ContactFilter narrows and pages a contact listing. Page and PerPage are
// assumed valid (the query layer clamps them before calling).
type ContactFilter struct {
	Search  string
	Status  string
	GroupID string
	Page    int
	PerPage int
}

// CreateContact validates and inserts a new contact, returning the stored row.
func (s *Store) CreateContact(ctx context.Context, in ContactInput) (*Contact, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return nil, &ValidationError{Field: "full_name", Reason: "must not be empty"}
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if in.ContactStatus == "" {
		in.ContactStatus = "active"
	}
	if err := validateContactStatus(in.ContactStatus); err != nil {
		return nil, err
	}
	if in.InfluenceScore != nil {
		if err := validateInfluenceScore(*in.InfluenceScore); err != nil {
			return nil, err
		}
	}
	if in.WebsiteURL != "" {
		canonical, err := canonicalizeURL("website_url", in.WebsiteURL)
		if err != nil {
			return nil, err
		}
		in.WebsiteURL = canonical
	}

	if err := s.checkContactEmailFree(ctx, in.Email, ""); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (id, full_name, email, phone, organization, job_title,
			bio, location, website_url, influence_score, contact_status, tags, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.FullName, in.Email, nullable(in.Phone), nullable(in.Organization),
		nullable(in.JobTitle), nullable(in.Bio), nullable(in.Location),
		nullable(in.WebsiteURL), in.InfluenceScore, in.ContactStatus,
		nullable(in.Tags), nullable(in.Notes),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "contact", Field: "email", Value: in.Email}
		}
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return s.GetContact(ctx, id)
}

// GetContact returns a single contact by ID.
func (s *Store) GetContact(ctx context.Context, id string) (*Contact, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE id = ?", id)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "contact", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return c, nil
}

// UpdateContact applies a partial update. An empty patch performs no write
// and returns the current row unchanged. On success updated_at is refreshed
// and version is incremented exactly once.
func (s *Store) UpdateContact(ctx context.Context, id string, patch ContactPatch) (*Contact, error) {
	var b updateBuilder

	if patch.FullName != nil {
		if strings.TrimSpace(*patch.FullName) == "" {
			return nil, &ValidationError{Field: "full_name", Reason: "must not be empty"}
		}
		b.set("full_name", *patch.FullName)
	}
	if patch.Email != nil {
		if err := validateEmail(*patch.Email); err != nil {
			return nil, err
		}
		b.set("email", *patch.Email)
	}
	if patch.Phone != nil {
		b.set("phone", nullable(*patch.Phone))
	}
	if patch.Organization != nil {
		b.set("organization", nullable(*patch.Organization))
	}
	if patch.JobTitle != nil {
		b.set("job_title", nullable(*patch.JobTitle))
	}
	if patch.Bio != nil {
		b.set("bio", nullable(*patch.Bio))
	}
	if patch.Location != nil {
		b.set("location", nullable(*patch.Location))
	}
	if patch.WebsiteURL != nil {
		if *patch.WebsiteURL == "" {
			b.set("website_url", nil)
		} else {
			canonical, err := canonicalizeURL("website_url", *patch.WebsiteURL)
			if err != nil {
				return nil, err
			}
			b.set("website_url", canonical)
		}
	}
	if patch.InfluenceScore != nil {
		if *patch.InfluenceScore == 0 {
			b.set("influence_score", nil)
		} else {
			if err := validateInfluenceScore(*patch.InfluenceScore); err != nil {
				return nil, err
			}
			b.set("influence_score", *patch.InfluenceScore)
		}
	}
	if patch.ContactStatus != nil {
		if err := validateContactStatus(*patch.ContactStatus); err != nil {
			return nil, err
		}
		b.set("contact_status", *patch.ContactStatus)
	}
	if patch.Tags != nil {
		b.set("tags", nullable(*patch.Tags))
	}
	if patch.Notes != nil {
		b.set("notes", nullable(*patch.Notes))
	}

	if b.empty() {
		return s.GetContact(ctx, id)
	}

	if patch.Email != nil {
		if err := s.checkContactEmailFree(ctx, *patch.Email, id); err != nil {
			return nil, err
		}
	}

	setClause, args := b.clause()
	args = append(args, id)
	result, err := s.db.ExecContext(ctx,
		"UPDATE contacts SET "+setClause+" WHERE id = ?", args...)
	if err != nil {
		if isUniqueViolation(err) && patch.Email != nil {
			return nil, &ConflictError{Resource: "contact", Field: "email", Value: *patch.Email}
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return nil, &NotFoundError{Resource: "contact", ID: id}
	}
	return s.GetContact(ctx, id)
}

// DeleteContact removes a contact and its dependent rows (memberships,
// social profiles, share log) in a single transaction.
func (s *Store) DeleteContact(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM contact_group_memberships WHERE contact_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete memberships: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM social_profiles WHERE contact_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete social profiles: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM shared_content_log WHERE contact_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete share log: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{Resource: "contact", ID: id}
	}

	return tx.Commit()
}

// ListContacts returns one page of contacts matching the filter plus the
// total match count. Ordering is full name then ID, so pages are stable
// across identical queries.
func (s *Store) ListContacts(ctx context.Context, f ContactFilter) ([]Contact, int, error) {
	var conds []string
	var args []any

	if f.Search != "" {
		like := "%" + f.Search + "%"
		conds = append(conds, `(c.full_name LIKE ? COLLATE NOCASE
			OR c.email LIKE ? COLLATE NOCASE
			OR c.organization LIKE ? COLLATE NOCASE)`)
		args = append(args, like, like, like)
	}
	if f.Status != "" {
		if err := validateContactStatus(f.Status); err != nil {
			return nil, 0, err
		}
		conds = append(conds, "c.contact_status = ?")
		args = append(args, f.Status)
	}
	if f.GroupID != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM contact_group_memberships gm
			WHERE gm.contact_id = c.id
			  AND gm.group_id = ?
			  AND gm.membership_status = 'active')`)
		args = append(args, f.GroupID)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM contacts c"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	query := `
		SELECT c.id, c.full_name, c.email, c.phone, c.organization, c.job_title,
		       c.bio, c.location, c.website_url, c.influence_score, c.contact_status,
		       c.tags, c.notes, c.created_at, c.updated_at, c.version,
		       COUNT(m.group_id)
		FROM contacts c
		LEFT JOIN contact_group_memberships m ON m.contact_id = c.id` +
		where + `
		GROUP BY c.id
		ORDER BY c.full_name COLLATE NOCASE ASC, c.id ASC
		LIMIT ? OFFSET ?`
	args = append(args, f.PerPage, (f.Page-1)*f.PerPage)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Organization,
			&c.JobTitle, &c.Bio, &c.Location, &c.WebsiteURL, &c.InfluenceScore,
			&c.ContactStatus, &c.Tags, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
			&c.Version, &c.GroupCount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, total, rows.Err()
}

// checkContactEmailFree returns a ConflictError when another contact already
// uses the email. excludeID skips the row under update.
func (s *Store) checkContactEmailFree(ctx context.Context, email, excludeID string) error {
	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM contacts WHERE email = ? COLLATE NOCASE AND id != ?",
		email, excludeID,
	).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return &ConflictError{Resource: "contact", Field: "email", Value: email}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Organization,
		&c.JobTitle, &c.Bio, &c.Location, &c.WebsiteURL, &c.InfluenceScore,
		&c.ContactStatus, &c.Tags, &c.Notes, &c.CreatedAt, &c.UpdatedAt, &c.Version)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
