package outreach

import "time"

// EngineConfig configures the outreach engine.
type EngineConfig struct {
	DBPath          string
	OllamaBaseURL   string
	Model           string
	AIAnalysis      bool // when false, AnalyzeContact returns ErrAnalysisDisabled
	RecentShareDays int  // dashboard window for "recent" share counts
}

// Contact represents a person the organization maintains a relationship with.
type Contact struct {
	ID             string    `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Phone          *string   `json:"phone,omitempty"`
	Organization   *string   `json:"organization,omitempty"`
	JobTitle       *string   `json:"job_title,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
	Location       *string   `json:"location,omitempty"`
	WebsiteURL     *string   `json:"website_url,omitempty"`
	InfluenceScore *int      `json:"influence_score,omitempty"`
	ContactStatus  string    `json:"contact_status"`
	Tags           *string   `json:"tags,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int64     `json:"version"`
	GroupCount     int       `json:"group_count,omitempty"`
}

// ContactDetail is a contact with its group memberships attached.
type ContactDetail struct {
	Contact
	Groups []Membership `json:"groups"`
}

// ContactInput holds the fields accepted when creating a contact.
type ContactInput struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Organization   string `json:"organization"`
	JobTitle       string `json:"job_title"`
	Bio            string `json:"bio"`
	Location       string `json:"location"`
	WebsiteURL     string `json:"website_url"`
	InfluenceScore *int   `json:"influence_score"`
	ContactStatus  string `json:"contact_status"`
	Tags           string `json:"tags"`
	Notes          string `json:"notes"`
}

// ContactPatch holds a partial contact update. Absent fields are left
// untouched; "" clears a nullable field; influence_score 0 clears the score.
type ContactPatch struct {
	FullName       *string `json:"full_name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Organization   *string `json:"organization"`
	JobTitle       *string `json:"job_title"`
	Bio            *string `json:"bio"`
	Location       *string `json:"location"`
	WebsiteURL     *string `json:"website_url"`
	InfluenceScore *int    `json:"influence_score"`
	ContactStatus  *string `json:"contact_status"`
	Tags           *string `json:"tags"`
	Notes          *string `json:"notes"`
}

// ContactQuery selects and pages a contact listing.
type ContactQuery struct {
	Search  string
	Status  string
	GroupID string
	Page    int // 0 means default (1)
	PerPage int // 0 means default (20); max 100
}

// ContactPage is one page of a contact listing.
type ContactPage struct {
	Items   []Contact `json:"items"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
	HasNext bool      `json:"has_next"`
	HasPrev bool      `json:"has_prev"`
}

// Group represents a named collection of contacts.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int64     `json:"version"`
}

// GroupInput holds the fields accepted when creating a group.
type GroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GroupPatch holds a partial group update. A patch with no fields set is
// rejected.
type GroupPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Membership links a contact to a group.
type Membership struct {
	ContactID        string    `json:"contact_id"`
	GroupID          string    `json:"group_id"`
	GroupName        string    `json:"group_name,omitempty"`
	MembershipStatus string    `json:"membership_status"`
	JoinedAt         time.Time `json:"joined_at"`
	Notes            *string   `json:"notes,omitempty"`
}

// MembershipInput holds the fields accepted when adding a contact to a group.
type MembershipInput struct {
	GroupID          string `json:"group_id"`
	MembershipStatus string `json:"membership_status"`
	Notes            string `json:"notes"`
}

// SocialProfile represents a contact's presence on one platform.
type SocialProfile struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contact_id"`
	Platform  string    `json:"platform"`
	Handle    *string   `json:"handle,omitempty"`
	URL       string    `json:"url"`
	Notes     *string   `json:"notes,omitempty"`
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// ProfileInput holds the fields accepted when creating a social profile.
type ProfileInput struct {
	ContactID string `json:"contact_id"`
	Platform  string `json:"platform"`
	Handle    string `json:"handle"`
	URL       string `json:"url"`
	Notes     string `json:"notes"`
}

// ProfilePatch holds a partial social profile update.
type ProfilePatch struct {
	Platform *string `json:"platform"`
	Handle   *string `json:"handle"`
	URL      *string `json:"url"`
	Notes    *string `json:"notes"`
}

// ProfileQuery selects and pages a social profile listing.
type ProfileQuery struct {
	ContactID string
	Page      int
	PerPage   int
}

// ProfilePage is one page of a social profile listing.
type ProfilePage struct {
	Items   []SocialProfile `json:"items"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
	HasNext bool            `json:"has_next"`
	HasPrev bool            `json:"has_prev"`
}

// ShareEvent records a piece of content shared with a contact.
type ShareEvent struct {
	ID         string    `json:"id"`
	ContactID  string    `json:"contact_id"`
	ContentURL string    `json:"content_url"`
	Platform   *string   `json:"platform,omitempty"`
	Title      *string   `json:"title,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	SharedAt   time.Time `json:"shared_at"`
}

// ShareInput holds the fields accepted when recording a share event.
type ShareInput struct {
	ContactID  string `json:"contact_id"`
	ContentURL string `json:"content_url"`
	Platform   string `json:"platform"`
	Title      string `json:"title"`
	Notes      string `json:"notes"`
}

// ShareQuery selects and pages the share log.
type ShareQuery struct {
	ContactID string
	Page      int
	PerPage   int
}

// SharePage is one page of the share log.
type SharePage struct {
	Items   []ShareEvent `json:"items"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
	HasNext bool         `json:"has_next"`
	HasPrev bool         `json:"has_prev"`
}

// FeedPreview is the parsed summary of an RSS/Podcast profile URL.
type FeedPreview struct {
	ProfileID   string            `json:"profile_id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Items       []FeedPreviewItem `json:"items"`
}

// FeedPreviewItem is one recent entry from a previewed feed.
type FeedPreviewItem struct {
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Published *time.Time `json:"published,omitempty"`
}

// EngagementReport is an AI-generated assessment of how to engage a contact.
type EngagementReport struct {
	ContactID       string   `json:"contact_id"`
	Summary         string   `json:"summary"`
	EngagementLevel string   `json:"engagement_level"`
	Suggestions     []string `json:"suggestions,omitempty"`
}

// Stats holds the dashboard counters.
type Stats struct {
	TotalContacts   int `json:"total_contacts"`
	ActiveContacts  int `json:"active_contacts"`
	TotalGroups     int `json:"total_groups"`
	TotalProfiles   int `json:"total_profiles"`
	RecentShares    int `json:"recent_shares"`
	RecentShareDays int `json:"recent_share_days"`
}

// Health reports service liveness for monitoring.
type Health struct {
	Status   string `json:"status"`
	Contacts int    `json:"contacts"`
	Groups   int    `json:"groups"`
}
