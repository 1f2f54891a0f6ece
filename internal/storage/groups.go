package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GroupInput holds the fields accepted when creating a group.
type GroupInput struct {
	Name        string
	Description string
}

// GroupPatch holds a partial group update. Nil means untouched; a pointer
// to "" clears the description.
type GroupPatch struct {
	Name        *string
	Description *string
}

// CreateGroup validates and inserts a new group, returning the stored row.
func (s *Store) CreateGroup(ctx context.Context, in GroupInput) (*Group, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	if err := s.checkGroupNameFree(ctx, in.Name, ""); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO groups (id, name, description) VALUES (?, ?, ?)",
		id, in.Name, nullable(in.Description),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "group", Field: "name", Value: in.Name}
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return s.GetGroup(ctx, id)
}

// GetGroup returns a single group with its active member count.
func (s *Store) GetGroup(ctx context.Context, id string) (*Group, error) {
	var g Group
	err := s.db.QueryRowContext(ctx, `
		SELECT g.id, g.name, g.description, g.created_at, g.updated_at, g.version,
		       COUNT(DISTINCT m.contact_id)
		FROM groups g
		LEFT JOIN contact_group_memberships m ON m.group_id = g.id
		WHERE g.id = ?
		GROUP BY g.id`, id,
	).Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt, &g.Version, &g.MemberCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "group", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &g, nil
}

// ListGroups returns all groups ordered by name, each with its member count.
// Groups with no members appear with a count of zero.
func (s *Store) ListGroups(ctx context.Context) ([]Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.description, g.created_at, g.updated_at, g.version,
		       COUNT(DISTINCT m.contact_id)
		FROM groups g
		LEFT JOIN contact_group_memberships m ON m.group_id = g.id
		GROUP BY g.id
		ORDER BY g.name COLLATE NOCASE ASC, g.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt,
			&g.UpdatedAt, &g.Version, &g.MemberCount); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// UpdateGroup applies a partial update. Unlike contacts, an empty group
// patch is rejected with ErrNoFields.
func (s *Store) UpdateGroup(ctx context.Context, id string, patch GroupPatch) (*Group, error) {
	var b updateBuilder

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
		}
		b.set("name", *patch.Name)
	}
	if patch.Description != nil {
		b.set("description", nullable(*patch.Description))
	}

	if b.empty() {
		return nil, ErrNoFields
	}

	if patch.Name != nil {
		if err := s.checkGroupNameFree(ctx, *patch.Name, id); err != nil {
			return nil, err
		}
	}

	setClause, args := b.clause()
	args = append(args, id)
	result, err := s.db.ExecContext(ctx,
		"UPDATE groups SET "+setClause+" WHERE id = ?", args...)
	if err != nil {
		if isUniqueViolation(err) && patch.Name != nil {
			return nil, &ConflictError{Resource: "group", Field: "name", Value: *patch.Name}
		}
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return nil, &NotFoundError{Resource: "group", ID: id}
	}
	return s.GetGroup(ctx, id)
}

// DeleteGroup removes a group and its memberships in a single transaction.
func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM contact_group_memberships WHERE group_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete memberships: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{Resource: "group", ID: id}
	}

	return tx.Commit()
}

// checkGroupNameFree returns a ConflictError when another group already uses
// the name. excludeID skips the row under update.
func (s *Store) checkGroupNameFree(ctx context.Context, name, excludeID string) error {
	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM groups WHERE name = ? AND id != ?",
		name, excludeID,
	).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check group name: %w", err)
	}
	return &ConflictError{Resource: "group", Field: "name", Value: name}
}
