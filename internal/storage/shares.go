package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const shareColumns = "id, contact_id, content_url, platform, title, notes, shared_at"

// ShareInput holds the fields accepted when recording a shared-content event.
type ShareInput struct {
	ContactID  string
	ContentURL string
	Platform   string
	Title      string
	Notes      string
}

// ShareFilter narrows and pages the share log.
type ShareFilter struct {
	ContactID string
	Page      int
	PerPage   int
}

// RecordShare logs a piece of content shared with a contact.
func (s *Store) RecordShare(ctx context.Context, in ShareInput) (*ShareEvent, error) {
	canonical, err := canonicalizeURL("content_url", in.ContentURL)
	if err != nil {
		return nil, err
	}
	in.ContentURL = canonical
	if in.Platform != "" {
		if err := validatePlatform(in.Platform); err != nil {
			return nil, err
		}
	}

	if _, err := s.GetContact(ctx, in.ContactID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO shared_content_log (id, contact_id, content_url, platform, title, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, in.ContactID, in.ContentURL, nullable(in.Platform),
		nullable(in.Title), nullable(in.Notes),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record share: %w", err)
	}

	var ev ShareEvent
	err = s.db.QueryRowContext(ctx,
		"SELECT "+shareColumns+" FROM shared_content_log WHERE id = ?", id,
	).Scan(&ev.ID, &ev.ContactID, &ev.ContentURL, &ev.Platform, &ev.Title,
		&ev.Notes, &ev.SharedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	return &ev, nil
}

// ListShares returns one page of share events, newest first, optionally for
// a single contact, plus the total match count.
func (s *Store) ListShares(ctx context.Context, f ShareFilter) ([]ShareEvent, int, error) {
	var conds []string
	var args []any
	if f.ContactID != "" {
		conds = append(conds, "contact_id = ?")
		args = append(args, f.ContactID)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM shared_content_log"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shares: %w", err)
	}

	query := "SELECT " + shareColumns + " FROM shared_content_log" + where +
		" ORDER BY shared_at DESC, id ASC LIMIT ? OFFSET ?"
	args = append(args, f.PerPage, (f.Page-1)*f.PerPage)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	var events []ShareEvent
	for rows.Next() {
		var ev ShareEvent
		if err := rows.Scan(&ev.ID, &ev.ContactID, &ev.ContentURL, &ev.Platform,
			&ev.Title, &ev.Notes, &ev.SharedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan share: %w", err)
		}
		events = append(events, ev)
	}
	return events, total, rows.Err()
}

// GetSharesForContact returns a contact's recent share events, newest first.
func (s *Store) GetSharesForContact(ctx context.Context, contactID string, limit int) ([]ShareEvent, error) {
	events, _, err := s.ListShares(ctx, ShareFilter{ContactID: contactID, Page: 1, PerPage: limit})
	return events, err
}
