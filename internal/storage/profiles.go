package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const profileColumns = "id, contact_id, platform, handle, url, notes, added_at, updated_at, version"

// ProfileInput holds the fields accepted when creating a social profile.
type ProfileInput struct {
	ContactID string
	Platform  string
	Handle    string
	URL       string
	Notes     string
}

// ProfilePatch holds a partial profile update. Nil means untouched; a
// pointer to "" clears handle or notes.
type ProfilePatch struct {
	Platform *string
	Handle   *string
	URL      *string
	Notes    *string
}

// ProfileFilter narrows and pages a profile listing.
type ProfileFilter struct {
	ContactID string
	Page      int
	PerPage   int
}

// CreateSocialProfile validates and inserts a profile. The URL is
// canonicalized before the per-contact uniqueness check so that spelling
// variants of the same address collide.
func (s *Store) CreateSocialProfile(ctx context.Context, in ProfileInput) (*SocialProfile, error) {
	if err := validatePlatform(in.Platform); err != nil {
		return nil, err
	}
	canonical, err := canonicalizeURL("url", in.URL)
	if err != nil {
		return nil, err
	}
	in.URL = canonical

	if _, err := s.GetContact(ctx, in.ContactID); err != nil {
		return nil, err
	}
	if err := s.checkProfileURLFree(ctx, in.ContactID, in.URL, ""); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO social_profiles (id, contact_id, platform, handle, url, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, in.ContactID, in.Platform, nullable(in.Handle), in.URL, nullable(in.Notes),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "social profile", Field: "url", Value: in.URL}
		}
		return nil, fmt.Errorf("failed to create social profile: %w", err)
	}
	return s.GetSocialProfile(ctx, id)
}

// GetSocialProfile returns a single profile by ID.
func (s *Store) GetSocialProfile(ctx context.Context, id string) (*SocialProfile, error) {
	var p SocialProfile
	err := s.db.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM social_profiles WHERE id = ?", id,
	).Scan(&p.ID, &p.ContactID, &p.Platform, &p.Handle, &p.URL, &p.Notes,
		&p.AddedAt, &p.UpdatedAt, &p.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "social profile", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get social profile: %w", err)
	}
	return &p, nil
}

// ListSocialProfiles returns one page of profiles, optionally for a single
// contact, plus the total match count.
func (s *Store) ListSocialProfiles(ctx context.Context, f ProfileFilter) ([]SocialProfile, int, error) {
	where := ""
	var args []any
	if f.ContactID != "" {
		where = " WHERE contact_id = ?"
		args = append(args, f.ContactID)
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM social_profiles"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count social profiles: %w", err)
	}

	query := "SELECT " + profileColumns + " FROM social_profiles" + where +
		" ORDER BY platform ASC, id ASC LIMIT ? OFFSET ?"
	args = append(args, f.PerPage, (f.Page-1)*f.PerPage)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list social profiles: %w", err)
	}
	defer rows.Close()

	var profiles []SocialProfile
	for rows.Next() {
		var p SocialProfile
		if err := rows.Scan(&p.ID, &p.ContactID, &p.Platform, &p.Handle, &p.URL,
			&p.Notes, &p.AddedAt, &p.UpdatedAt, &p.Version); err != nil {
			return nil, 0, fmt.Errorf("failed to scan social profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, total, rows.Err()
}

// UpdateSocialProfile applies a partial update. An empty patch performs no
// write and returns the current row unchanged.
func (s *Store) UpdateSocialProfile(ctx context.Context, id string, patch ProfilePatch) (*SocialProfile, error) {
	var b updateBuilder
	var canonicalURL string

	if patch.Platform != nil {
		if err := validatePlatform(*patch.Platform); err != nil {
			return nil, err
		}
		b.set("platform", *patch.Platform)
	}
	if patch.Handle != nil {
		b.set("handle", nullable(*patch.Handle))
	}
	if patch.URL != nil {
		canonical, err := canonicalizeURL("url", *patch.URL)
		if err != nil {
			return nil, err
		}
		canonicalURL = canonical
		b.set("url", canonical)
	}
	if patch.Notes != nil {
		b.set("notes", nullable(*patch.Notes))
	}

	if b.empty() {
		return s.GetSocialProfile(ctx, id)
	}

	current, err := s.GetSocialProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.URL != nil {
		if err := s.checkProfileURLFree(ctx, current.ContactID, canonicalURL, id); err != nil {
			return nil, err
		}
	}

	setClause, args := b.clause()
	args = append(args, id)
	if _, err := s.db.ExecContext(ctx,
		"UPDATE social_profiles SET "+setClause+" WHERE id = ?", args...); err != nil {
		if isUniqueViolation(err) && patch.URL != nil {
			return nil, &ConflictError{Resource: "social profile", Field: "url", Value: canonicalURL}
		}
		return nil, fmt.Errorf("failed to update social profile: %w", err)
	}
	return s.GetSocialProfile(ctx, id)
}

// DeleteSocialProfile removes a profile.
func (s *Store) DeleteSocialProfile(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM social_profiles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete social profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{Resource: "social profile", ID: id}
	}
	return nil
}

// checkProfileURLFree returns a ConflictError when the contact already has
// a profile with the URL. excludeID skips the row under update.
func (s *Store) checkProfileURLFree(ctx context.Context, contactID, url, excludeID string) error {
	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM social_profiles WHERE contact_id = ? AND url = ? AND id != ?",
		contactID, url, excludeID,
	).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check profile url: %w", err)
	}
	return &ConflictError{Resource: "social profile", Field: "url", Value: url}
}
