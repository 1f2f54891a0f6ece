package outreach

import (
	"context"
	"fmt"

	"github.com/openadvocacy/outreach/internal/ai"
	"github.com/openadvocacy/outreach/internal/social"
	"github.com/openadvocacy/outreach/internal/storage"
)

// Engine is the public API for the outreach contact-relationship backend.
// It wraps the internal storage layer, the feed previewer, and the optional
// AI analyzer.
type Engine struct {
	store    *storage.Store
	preview  *social.Previewer
	analyzer *ai.Analyzer
	config   EngineConfig
}

// NewEngine creates an outreach engine backed by the given SQLite database.
// The analyzer is only constructed when AI analysis is enabled, and only
// contacts Ollama when called.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.OllamaBaseURL == "" {
		cfg.OllamaBaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3"
	}
	if cfg.RecentShareDays == 0 {
		cfg.RecentShareDays = 7
	}

	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	e := &Engine{
		store:   store,
		preview: social.NewPreviewer(),
		config:  cfg,
	}

	if cfg.AIAnalysis {
		analyzer, err := ai.NewAnalyzer(cfg.OllamaBaseURL, cfg.Model)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("create analyzer: %w", err)
		}
		e.analyzer = analyzer
	}

	return e, nil
}

// Close releases all resources held by the engine.
func (e *Engine) Close() error {
	return e.store.Close()
}

// --- contacts ---

// ListContacts returns one page of contacts matching the query.
func (e *Engine) ListContacts(ctx context.Context, q ContactQuery) (*ContactPage, error) {
	page, perPage, err := normalizePaging(q.Page, q.PerPage)
	if err != nil {
		return nil, err
	}
	contacts, total, err := e.store.ListContacts(ctx, storage.ContactFilter{
		Search:  q.Search,
		Status:  q.Status,
		GroupID: q.GroupID,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, err
	}
	result := &ContactPage{
		Items:   make([]Contact, len(contacts)),
		Total:   total,
		Page:    page,
		PerPage: perPage,
		HasNext: total > page*perPage,
		HasPrev: page > 1,
	}
	for i, c := range contacts {
		result.Items[i] = contactFromInternal(c)
	}
	return result, nil
}

// CreateContact validates and stores a new contact.
func (e *Engine) CreateContact(ctx context.Context, in ContactInput) (*Contact, error) {
	c, err := e.store.CreateContact(ctx, storage.ContactInput{
		FullName:       in.FullName,
		Email:          in.Email,
		Phone:          in.Phone,
		Organization:   in.Organization,
		JobTitle:       in.JobTitle,
		Bio:            in.Bio,
		Location:       in.Location,
		WebsiteURL:     in.WebsiteURL,
		InfluenceScore: in.InfluenceScore,
		ContactStatus:  in.ContactStatus,
		Tags:           in.Tags,
		Notes:          in.Notes,
	})
	if err != nil {
		return nil, err
	}
	result := contactFromInternal(*c)
	return &result, nil
}

// GetContact returns a single contact with its group memberships.
func (e *Engine) GetContact(ctx context.Context, id string) (*ContactDetail, error) {
	c, err := e.store.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	memberships, err := e.store.GetContactMemberships(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &ContactDetail{
		Contact: contactFromInternal(*c),
		Groups:  make([]Membership, len(memberships)),
	}
	for i, m := range memberships {
		detail.Groups[i] = membershipFromInternal(m)
	}
	return detail, nil
}

// UpdateContact applies a partial update. An empty patch is a no-op that
// returns the current row.
func (e *Engine) UpdateContact(ctx context.Context, id string, patch ContactPatch) (*Contact, error) {
	c, err := e.store.UpdateContact(ctx, id, storage.ContactPatch{
		FullName:       patch.FullName,
		Email:          patch.Email,
		Phone:          patch.Phone,
		Organization:   patch.Organization,
		JobTitle:       patch.JobTitle,
		Bio:            patch.Bio,
		Location:       patch.Location,
		WebsiteURL:     patch.WebsiteURL,
		InfluenceScore: patch.InfluenceScore,
		ContactStatus:  patch.ContactStatus,
		Tags:           patch.Tags,
		Notes:          patch.Notes,
	})
	if err != nil {
		return nil, err
	}
	result := contactFromInternal(*c)
	return &result, nil
}

// DeleteContact removes a contact and all rows that reference it.
func (e *Engine) DeleteContact(ctx context.Context, id string) error {
	return e.store.DeleteContact(ctx, id)
}

// --- groups and memberships ---

// ListGroups returns all groups with member counts.
func (e *Engine) ListGroups(ctx context.Context) ([]Group, error) {
	groups, err := e.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]Group, len(groups))
	for i, g := range groups {
		result[i] = groupFromInternal(g)
	}
	return result, nil
}

// CreateGroup validates and stores a new group.
func (e *Engine) CreateGroup(ctx context.Context, in GroupInput) (*Group, error) {
	g, err := e.store.CreateGroup(ctx, storage.GroupInput{
		Name:        in.Name,
		Description: in.Description,
	})
	if err != nil {
		return nil, err
	}
	result := groupFromInternal(*g)
	return &result, nil
}

// GetGroup returns a single group with its member count.
func (e *Engine) GetGroup(ctx context.Context, id string) (*Group, error) {
	g, err := e.store.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	result := groupFromInternal(*g)
	return &result, nil
}

// UpdateGroup applies a partial update. An empty patch returns ErrNoFields.
func (e *Engine) UpdateGroup(ctx context.Context, id string, patch GroupPatch) (*Group, error) {
	g, err := e.store.UpdateGroup(ctx, id, storage.GroupPatch{
		Name:        patch.Name,
		Description: patch.Description,
	})
	if err != nil {
		return nil, err
	}
	result := groupFromInternal(*g)
	return &result, nil
}

// DeleteGroup removes a group and its memberships.
func (e *Engine) DeleteGroup(ctx context.Context, id string) error {
	return e.store.DeleteGroup(ctx, id)
}

// AddContactToGroup creates a membership.
func (e *Engine) AddContactToGroup(ctx context.Context, contactID string, in MembershipInput) (*Membership, error) {
	m, err := e.store.AddContactToGroup(ctx, contactID, storage.MembershipInput{
		GroupID:          in.GroupID,
		MembershipStatus: in.MembershipStatus,
		Notes:            in.Notes,
	})
	if err != nil {
		return nil, err
	}
	result := membershipFromInternal(*m)
	return &result, nil
}

// RemoveContactFromGroup deletes a membership.
func (e *Engine) RemoveContactFromGroup(ctx context.Context, contactID, groupID string) error {
	return e.store.RemoveContactFromGroup(ctx, contactID, groupID)
}

// --- social profiles ---

// ListSocialProfiles returns one page of profiles, optionally for one contact.
func (e *Engine) ListSocialProfiles(ctx context.Context, q ProfileQuery) (*ProfilePage, error) {
	page, perPage, err := normalizePaging(q.Page, q.PerPage)
	if err != nil {
		return nil, err
	}
	profiles, total, err := e.store.ListSocialProfiles(ctx, storage.ProfileFilter{
		ContactID: q.ContactID,
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		return nil, err
	}
	result := &ProfilePage{
		Items:   make([]SocialProfile, len(profiles)),
		Total:   total,
		Page:    page,
		PerPage: perPage,
		HasNext: total > page*perPage,
		HasPrev: page > 1,
	}
	for i, p := range profiles {
		result.Items[i] = profileFromInternal(p)
	}
	return result, nil
}

// CreateSocialProfile validates and stores a new profile.
func (e *Engine) CreateSocialProfile(ctx context.Context, in ProfileInput) (*SocialProfile, error) {
	p, err := e.store.CreateSocialProfile(ctx, storage.ProfileInput{
		ContactID: in.ContactID,
		Platform:  in.Platform,
		Handle:    in.Handle,
		URL:       in.URL,
		Notes:     in.Notes,
	})
	if err != nil {
		return nil, err
	}
	result := profileFromInternal(*p)
	return &result, nil
}

// GetSocialProfile returns a single profile.
func (e *Engine) GetSocialProfile(ctx context.Context, id string) (*SocialProfile, error) {
	p, err := e.store.GetSocialProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	result := profileFromInternal(*p)
	return &result, nil
}

// UpdateSocialProfile applies a partial update. An empty patch is a no-op
// that returns the current row.
func (e *Engine) UpdateSocialProfile(ctx context.Context, id string, patch ProfilePatch) (*SocialProfile, error) {
	p, err := e.store.UpdateSocialProfile(ctx, id, storage.ProfilePatch{
		Platform: patch.Platform,
		Handle:   patch.Handle,
		URL:      patch.URL,
		Notes:    patch.Notes,
	})
	if err != nil {
		return nil, err
	}
	result := profileFromInternal(*p)
	return &result, nil
}

// DeleteSocialProfile removes a profile.
func (e *Engine) DeleteSocialProfile(ctx context.Context, id string) error {
	return e.store.DeleteSocialProfile(ctx, id)
}

// PreviewSocialProfile fetches and parses the feed behind an RSS or Podcast
// profile. Other platforms are rejected.
func (e *Engine) PreviewSocialProfile(ctx context.Context, id string) (*FeedPreview, error) {
	p, err := e.store.GetSocialProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	feedBacked := false
	for _, platform := range storage.FeedPlatforms {
		if p.Platform == platform {
			feedBacked = true
			break
		}
	}
	if !feedBacked {
		return nil, &ValidationError{Field: "platform", Reason: "preview requires an RSS or Podcast profile"}
	}

	preview, err := e.preview.Preview(ctx, p.URL, 5)
	if err != nil {
		return nil, err
	}

	result := &FeedPreview{
		ProfileID:   p.ID,
		Title:       preview.Title,
		Description: preview.Description,
		Items:       make([]FeedPreviewItem, len(preview.Items)),
	}
	for i, item := range preview.Items {
		result.Items[i] = FeedPreviewItem{
			Title:     item.Title,
			URL:       item.URL,
			Published: item.Published,
		}
	}
	return result, nil
}

// --- shared content log ---

// ListShares returns one page of share events, newest first.
func (e *Engine) ListShares(ctx context.Context, q ShareQuery) (*SharePage, error) {
	page, perPage, err := normalizePaging(q.Page, q.PerPage)
	if err != nil {
		return nil, err
	}
	events, total, err := e.store.ListShares(ctx, storage.ShareFilter{
		ContactID: q.ContactID,
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		return nil, err
	}
	result := &SharePage{
		Items:   make([]ShareEvent, len(events)),
		Total:   total,
		Page:    page,
		PerPage: perPage,
		HasNext: total > page*perPage,
		HasPrev: page > 1,
	}
	for i, ev := range events {
		result.Items[i] = shareFromInternal(ev)
	}
	return result, nil
}

// RecordShare logs a piece of content shared with a contact.
func (e *Engine) RecordShare(ctx context.Context, in ShareInput) (*ShareEvent, error) {
	ev, err := e.store.RecordShare(ctx, storage.ShareInput{
		ContactID:  in.ContactID,
		ContentURL: in.ContentURL,
		Platform:   in.Platform,
		Title:      in.Title,
		Notes:      in.Notes,
	})
	if err != nil {
		return nil, err
	}
	result := shareFromInternal(*ev)
	return &result, nil
}

// --- analysis, stats, health ---

// AnalyzeContact asks the configured Ollama model for an engagement
// assessment of the contact.
func (e *Engine) AnalyzeContact(ctx context.Context, id string) (*EngagementReport, error) {
	if e.analyzer == nil {
		return nil, ErrAnalysisDisabled
	}
	c, err := e.store.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}

	profiles, _, err := e.store.ListSocialProfiles(ctx, storage.ProfileFilter{
		ContactID: id, Page: 1, PerPage: 100,
	})
	if err != nil {
		return nil, err
	}
	platforms := make([]string, len(profiles))
	for i, p := range profiles {
		platforms[i] = p.Platform
	}

	shares, err := e.store.GetSharesForContact(ctx, id, 10)
	if err != nil {
		return nil, err
	}
	var recentShares []string
	for _, ev := range shares {
		title := ev.ContentURL
		if ev.Title != nil && *ev.Title != "" {
			title = *ev.Title
		}
		recentShares = append(recentShares, title)
	}

	report, err := e.analyzer.AnalyzeContact(ctx, ai.ContactProfile{
		FullName:     c.FullName,
		Organization: deref(c.Organization),
		JobTitle:     deref(c.JobTitle),
		Bio:          deref(c.Bio),
		Tags:         deref(c.Tags),
		Notes:        deref(c.Notes),
		Platforms:    platforms,
		RecentShares: recentShares,
	})
	if err != nil {
		return nil, err
	}

	return &EngagementReport{
		ContactID:       c.ID,
		Summary:         report.Summary,
		EngagementLevel: report.EngagementLevel,
		Suggestions:     report.Suggestions,
	}, nil
}

// GetStats returns the dashboard counters.
func (e *Engine) GetStats(ctx context.Context) (*Stats, error) {
	stats, err := e.store.GetStats(ctx, e.config.RecentShareDays)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalContacts:   stats.TotalContacts,
		ActiveContacts:  stats.ActiveContacts,
		TotalGroups:     stats.TotalGroups,
		TotalProfiles:   stats.TotalProfiles,
		RecentShares:    stats.RecentShares,
		RecentShareDays: stats.RecentShareDays,
	}, nil
}

// Health verifies the database connection and returns basic counts.
func (e *Engine) Health(ctx context.Context) (*Health, error) {
	if err := e.store.Ping(); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}
	stats, err := e.store.GetStats(ctx, e.config.RecentShareDays)
	if err != nil {
		return nil, err
	}
	return &Health{
		Status:   "ok",
		Contacts: stats.TotalContacts,
		Groups:   stats.TotalGroups,
	}, nil
}

// --- helpers ---

// normalizePaging applies the listing defaults and bounds: page defaults to
// 1, per_page to 20 with a ceiling of 100.
func normalizePaging(page, perPage int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if perPage == 0 {
		perPage = 20
	}
	if page < 1 {
		return 0, 0, &ValidationError{Field: "page", Reason: "must be at least 1"}
	}
	if perPage < 1 || perPage > 100 {
		return 0, 0, &ValidationError{Field: "per_page", Reason: "must be between 1 and 100"}
	}
	return page, perPage, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// --- internal type conversion helpers ---

func contactFromInternal(c storage.Contact) Contact {
	return Contact{
		ID:             c.ID,
		FullName:       c.FullName,
		Email:          c.Email,
		Phone:          c.Phone,
		Organization:   c.Organization,
		JobTitle:       c.JobTitle,
		Bio:            c.Bio,
		Location:       c.Location,
		WebsiteURL:     c.WebsiteURL,
		InfluenceScore: c.InfluenceScore,
		ContactStatus:  c.ContactStatus,
		Tags:           c.Tags,
		Notes:          c.Notes,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Version:        c.Version,
		GroupCount:     c.GroupCount,
	}
}

func groupFromInternal(g storage.Group) Group {
	return Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		MemberCount: g.MemberCount,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
		Version:     g.Version,
	}
}

func membershipFromInternal(m storage.Membership) Membership {
	return Membership{
		ContactID:        m.ContactID,
		GroupID:          m.GroupID,
		GroupName:        m.GroupName,
		MembershipStatus: m.MembershipStatus,
		JoinedAt:         m.JoinedAt,
		Notes:            m.Notes,
	}
}

func profileFromInternal(p storage.SocialProfile) SocialProfile {
	return SocialProfile{
		ID:        p.ID,
		ContactID: p.ContactID,
		Platform:  p.Platform,
		Handle:    p.Handle,
		URL:       p.URL,
		Notes:     p.Notes,
		AddedAt:   p.AddedAt,
		UpdatedAt: p.UpdatedAt,
		Version:   p.Version,
	}
}

func shareFromInternal(ev storage.ShareEvent) ShareEvent {
	return ShareEvent{
		ID:         ev.ID,
		ContactID:  ev.ContactID,
		ContentURL: ev.ContentURL,
		Platform:   ev.Platform,
		Title:      ev.Title,
		Notes:      ev.Notes,
		SharedAt:   ev.SharedAt,
	}
}
