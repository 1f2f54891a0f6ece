package storage

import (
	"errors"
	"testing"
)

func TestCanonicalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "https://example.org/path", "https://example.org/path", false},
		{"missing scheme", "example.org/path", "https://example.org/path", false},
		{"uppercase host", "https://EXAMPLE.ORG/Path", "https://example.org/Path", false},
		{"uppercase scheme", "HTTPS://example.org", "https://example.org", false},
		{"drops fragment", "https://example.org/page#section", "https://example.org/page", false},
		{"keeps query", "https://example.org/p?a=1", "https://example.org/p?a=1", false},
		{"surrounding spaces", "  example.org  ", "https://example.org", false},
		{"http allowed", "http://example.org", "http://example.org", false},
		{"empty", "", "", true},
		{"spaces only", "   ", "", true},
		{"ftp scheme", "ftp://example.org", "", true},
		{"no host", "https:///path", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := canonicalizeURL("url", tt.in)
			if tt.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("canonicalizeURL(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("canonicalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUpdateBuilder(t *testing.T) {
	var b updateBuilder
	if !b.empty() {
		t.Fatal("new builder should be empty")
	}

	b.set("full_name", "Ada")
	b.set("phone", nil)
	if b.empty() {
		t.Fatal("builder with fields should not be empty")
	}

	clause, args := b.clause()
	want := "full_name = ?, phone = ?, updated_at = CURRENT_TIMESTAMP, version = version + 1"
	if clause != want {
		t.Errorf("clause = %q, want %q", clause, want)
	}
	if len(args) != 2 {
		t.Errorf("got %d args, want 2", len(args))
	}
	if args[0] != "Ada" || args[1] != nil {
		t.Errorf("args = %v", args)
	}
}

func TestNullable(t *testing.T) {
	if nullable("") != nil {
		t.Error(`nullable("") should be nil`)
	}
	if nullable("x") != "x" {
		t.Error(`nullable("x") should be "x"`)
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"ada@example.org", "Ada Lovelace <ada@example.org>", "a+tag@sub.example.org"}
	for _, email := range valid {
		if err := validateEmail(email); err != nil {
			t.Errorf("validateEmail(%q) = %v, want nil", email, err)
		}
	}
	invalid := []string{"", "plainaddress", "@example.org", "ada@"}
	for _, email := range invalid {
		if err := validateEmail(email); err == nil {
			t.Errorf("validateEmail(%q) = nil, want error", email)
		}
	}
}
