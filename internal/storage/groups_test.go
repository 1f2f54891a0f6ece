package storage

import (
	"context"
	"errors"
	"testing"
)

func TestCreateAndListGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g, err := store.CreateGroup(ctx, GroupInput{Name: "Press", Description: "Journalists and editors"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if g.Version != 1 {
		t.Errorf("version = %d, want 1", g.Version)
	}
	if g.MemberCount != 0 {
		t.Errorf("member_count = %d, want 0", g.MemberCount)
	}

	if _, err := store.CreateGroup(ctx, GroupInput{Name: "Donors"}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	groups, err := store.ListGroups(ctx)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	// Ordered by name
	if groups[0].Name != "Donors" || groups[1].Name != "Press" {
		t.Errorf("order = %q, %q; want Donors, Press", groups[0].Name, groups[1].Name)
	}
}

func TestCreateGroupValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateGroup(ctx, GroupInput{Name: "  "})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	if _, err := store.CreateGroup(ctx, GroupInput{Name: "Press"}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	_, err = store.CreateGroup(ctx, GroupInput{Name: "Press"})
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError for duplicate name, got %v", err)
	}
}

func TestUpdateGroupRejectsEmptyPatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g, err := store.CreateGroup(ctx, GroupInput{Name: "Press"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	_, err = store.UpdateGroup(ctx, g.ID, GroupPatch{})
	if !errors.Is(err, ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}

	updated, err := store.UpdateGroup(ctx, g.ID, GroupPatch{Description: strptr("Media contacts")})
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("version = %d, want 2", updated.Version)
	}
	if updated.Description == nil || *updated.Description != "Media contacts" {
		t.Errorf("description = %v", updated.Description)
	}
}

func TestGroupMemberCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g, err := store.CreateGroup(ctx, GroupInput{Name: "Press"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	for _, email := range []string{"a@example.org", "b@example.org"} {
		c, err := store.CreateContact(ctx, ContactInput{FullName: "Member", Email: email})
		if err != nil {
			t.Fatalf("CreateContact failed: %v", err)
		}
		if _, err := store.AddContactToGroup(ctx, c.ID, MembershipInput{GroupID: g.ID}); err != nil {
			t.Fatalf("AddContactToGroup failed: %v", err)
		}
	}

	got, err := store.GetGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.MemberCount != 2 {
		t.Errorf("member_count = %d, want 2", got.MemberCount)
	}
}

func TestDeleteGroupRemovesMemberships(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c, err := store.CreateContact(ctx, ContactInput{FullName: "Ada", Email: "ada@example.org"})
	if err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}
	g, err := store.CreateGroup(ctx, GroupInput{Name: "Press"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := store.AddContactToGroup(ctx, c.ID, MembershipInput{GroupID: g.ID}); err != nil {
		t.Fatalf("AddContactToGroup failed: %v", err)
	}

	if err := store.DeleteGroup(ctx, g.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	memberships, err := store.GetContactMemberships(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetContactMemberships failed: %v", err)
	}
	if len(memberships) != 0 {
		t.Errorf("got %d memberships after group delete, want 0", len(memberships))
	}
	// The contact survives
	if _, err := store.GetContact(ctx, c.ID); err != nil {
		t.Errorf("contact should survive group delete: %v", err)
	}
}

func TestMembershipLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c, err := store.CreateContact(ctx, ContactInput{FullName: "Ada", Email: "ada@example.org"})
	if err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}
	g, err := store.CreateGroup(ctx, GroupInput{Name: "Press"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	m, err := store.AddContactToGroup(ctx, c.ID, MembershipInput{GroupID: g.ID})
	if err != nil {
		t.Fatalf("AddContactToGroup failed: %v", err)
	}
	if m.MembershipStatus != "active" {
		t.Errorf("membership_status = %q, want active", m.MembershipStatus)
	}
	if m.GroupName != "Press" {
		t.Errorf("group_name = %q, want Press", m.GroupName)
	}

	// Adding twice is a conflict
	_, err = store.AddContactToGroup(ctx, c.ID, MembershipInput{GroupID: g.ID})
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	if err := store.RemoveContactFromGroup(ctx, c.ID, g.ID); err != nil {
		t.Fatalf("RemoveContactFromGroup failed: %v", err)
	}

	// Removing again is not found
	err = store.RemoveContactFromGroup(ctx, c.ID, g.ID)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestAddMembershipMissingSides(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c, err := store.CreateContact(ctx, ContactInput{FullName: "Ada", Email: "ada@example.org"})
	if err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}
	g, err := store.CreateGroup(ctx, GroupInput{Name: "Press"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	var nf *NotFoundError
	_, err = store.AddContactToGroup(ctx, "no-such-contact", MembershipInput{GroupID: g.ID})
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError for unknown contact, got %v", err)
	}
	if nf.Resource != "contact" {
		t.Errorf("resource = %q, want contact", nf.Resource)
	}

	_, err = store.AddContactToGroup(ctx, c.ID, MembershipInput{GroupID: "no-such-group"})
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError for unknown group, got %v", err)
	}
	if nf.Resource != "group" {
		t.Errorf("resource = %q, want group", nf.Resource)
	}

	_, err = store.AddContactToGroup(ctx, c.ID, MembershipInput{GroupID: g.ID, MembershipStatus: "pending"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for bad status, got %v", err)
	}
}

func TestGetContactMembershipsOrderedByGroupName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c, err := store.CreateContact(ctx, ContactInput{FullName: "Ada", Email: "ada@example.org"})
	if err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}
	for _, name := range []string{"Press", "Donors", "allies"} {
		g, err := store.CreateGroup(ctx, GroupInput{Name: name})
		if err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if _, err := store.AddContactToGroup(ctx, c.ID, MembershipInput{GroupID: g.ID}); err != nil {
			t.Fatalf("AddContactToGroup failed: %v", err)
		}
	}

	memberships, err := store.GetContactMemberships(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetContactMemberships failed: %v", err)
	}
	if len(memberships) != 3 {
		t.Fatalf("got %d memberships, want 3", len(memberships))
	}
	want := []string{"allies", "Donors", "Press"}
	for i, m := range memberships {
		if m.GroupName != want[i] {
			t.Errorf("membership %d = %q, want %q", i, m.GroupName, want[i])
		}
	}
}
