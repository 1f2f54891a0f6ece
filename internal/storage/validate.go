package storage

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
)

// ContactStatuses are the accepted values for contacts.contact_status.
var ContactStatuses = []string{"active", "inactive", "archived"}

// MembershipStatuses are the accepted values for membership_status.
var MembershipStatuses = []string{"active", "inactive"}

// Platforms are the accepted values for social_profiles.platform.
var Platforms = []string{
	"Twitter", "BlueSky", "LinkedIn", "Facebook", "Instagram",
	"Threads", "TikTok", "RSS", "Podcast", "Website", "Other",
}

// FeedPlatforms are the platforms whose URL points at a parseable feed.
var FeedPlatforms = []string{"RSS", "Podcast"}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func validateContactStatus(status string) error {
	if !contains(ContactStatuses, status) {
		return &ValidationError{Field: "contact_status", Reason: fmt.Sprintf("must be one of %s", strings.Join(ContactStatuses, ", "))}
	}
	return nil
}

func validateMembershipStatus(status string) error {
	if !contains(MembershipStatuses, status) {
		return &ValidationError{Field: "membership_status", Reason: fmt.Sprintf("must be one of %s", strings.Join(MembershipStatuses, ", "))}
	}
	return nil
}

func validatePlatform(platform string) error {
	if !contains(Platforms, platform) {
		return &ValidationError{Field: "platform", Reason: fmt.Sprintf("must be one of %s", strings.Join(Platforms, ", "))}
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &ValidationError{Field: "email", Reason: "not a valid address"}
	}
	return nil
}

func validateInfluenceScore(score int) error {
	if score < 1 || score > 10 {
		return &ValidationError{Field: "influence_score", Reason: "must be between 1 and 10"}
	}
	return nil
}

// canonicalizeURL validates and normalizes a URL-typed field. Scheme and
// host are lowercased, a missing scheme defaults to https, fragments are
// dropped. Two spellings of the same address collapse to one stored form
// so the per-contact uniqueness check on profile URLs actually bites.
func canonicalizeURL(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &ValidationError{Field: field, Reason: "must not be empty"}
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", &ValidationError{Field: field, Reason: "not a valid URL"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &ValidationError{Field: field, Reason: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return "", &ValidationError{Field: field, Reason: "missing host"}
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	return u.String(), nil
}
