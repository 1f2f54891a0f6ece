package storage

import (
	"context"
	"fmt"
)

// Stats holds the dashboard counters.
type Stats struct {
	TotalContacts   int
	ActiveContacts  int
	TotalGroups     int
	TotalProfiles   int
	RecentShares    int
	RecentShareDays int
}

// GetStats returns the dashboard counters. recentDays bounds the
// shared-content window (shares newer than now minus recentDays).
func (s *Store) GetStats(ctx context.Context, recentDays int) (*Stats, error) {
	stats := &Stats{RecentShareDays: recentDays}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM contacts", &stats.TotalContacts},
		{"SELECT COUNT(*) FROM contacts WHERE contact_status = 'active'", &stats.ActiveContacts},
		{"SELECT COUNT(*) FROM groups", &stats.TotalGroups},
		{"SELECT COUNT(*) FROM social_profiles", &stats.TotalProfiles},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to get stats: %w", err)
		}
	}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM shared_content_log WHERE shared_at >= datetime('now', ?)",
		fmt.Sprintf("-%d days", recentDays),
	).Scan(&stats.RecentShares)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent share count: %w", err)
	}

	return stats, nil
}
