package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// MembershipInput holds the fields accepted when adding a contact to a group.
type MembershipInput struct {
	GroupID          string
	MembershipStatus string
	Notes            string
}

// AddContactToGroup creates a membership. Both sides must exist and the
// pair must not already be linked.
func (s *Store) AddContactToGroup(ctx context.Context, contactID string, in MembershipInput) (*Membership, error) {
	if in.MembershipStatus == "" {
		in.MembershipStatus = "active"
	}
	if err := validateMembershipStatus(in.MembershipStatus); err != nil {
		return nil, err
	}

	if _, err := s.GetContact(ctx, contactID); err != nil {
		return nil, err
	}
	if _, err := s.GetGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM contact_group_memberships WHERE contact_id = ? AND group_id = ?",
		contactID, in.GroupID,
	).Scan(&exists)
	if err == nil {
		return nil, &ConflictError{Resource: "membership", Field: "group_id", Value: in.GroupID}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO contact_group_memberships (contact_id, group_id, membership_status, notes)
		 VALUES (?, ?, ?, ?)`,
		contactID, in.GroupID, in.MembershipStatus, nullable(in.Notes),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "membership", Field: "group_id", Value: in.GroupID}
		}
		return nil, fmt.Errorf("failed to add membership: %w", err)
	}

	return s.getMembership(ctx, contactID, in.GroupID)
}

// RemoveContactFromGroup deletes a membership.
func (s *Store) RemoveContactFromGroup(ctx context.Context, contactID, groupID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM contact_group_memberships WHERE contact_id = ? AND group_id = ?",
		contactID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{Resource: "membership", ID: contactID + "/" + groupID}
	}
	return nil
}

// GetContactMemberships returns a contact's memberships with group names,
// ordered by group name.
func (s *Store) GetContactMemberships(ctx context.Context, contactID string) ([]Membership, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.contact_id, m.group_id, m.membership_status, m.joined_at, m.notes, g.name
		FROM contact_group_memberships m
		JOIN groups g ON g.id = m.group_id
		WHERE m.contact_id = ?
		ORDER BY g.name COLLATE NOCASE ASC`, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to get memberships: %w", err)
	}
	defer rows.Close()

	var memberships []Membership
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.ContactID, &m.GroupID, &m.MembershipStatus,
			&m.JoinedAt, &m.Notes, &m.GroupName); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (s *Store) getMembership(ctx context.Context, contactID, groupID string) (*Membership, error) {
	var m Membership
	err := s.db.QueryRowContext(ctx, `
		SELECT m.contact_id, m.group_id, m.membership_status, m.joined_at, m.notes, g.name
		FROM contact_group_memberships m
		JOIN groups g ON g.id = m.group_id
		WHERE m.contact_id = ? AND m.group_id = ?`,
		contactID, groupID,
	).Scan(&m.ContactID, &m.GroupID, &m.MembershipStatus, &m.JoinedAt, &m.Notes, &m.GroupName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "membership", ID: contactID + "/" + groupID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return &m, nil
}
