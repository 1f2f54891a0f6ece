package main

import (
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	outreach "github.com/openadvocacy/outreach"
	"github.com/microcosm-cc/bluemonday"
)

// handlers holds dependencies for the server-rendered dashboard pages.
type handlers struct {
	engine *outreach.Engine
	pages  map[string]*template.Template // per-page template sets
	policy *bluemonday.Policy
}

// init parses templates and creates the sanitizer policy on first use.
// Each page gets its own template tree: base.html + shared partials + page
// template, to avoid block-name collisions between pages.
func (h *handlers) init() {
	if h.pages != nil {
		return
	}

	tmplFS, _ := fs.Sub(embedded, "templates")

	shared := []string{"base.html", "error.html"}
	pages := []string{"dashboard.html", "contacts.html", "contact_detail.html", "groups.html"}

	h.pages = make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		files := append(shared, page)
		t := template.Must(template.New("").ParseFS(tmplFS, files...))
		h.pages[page] = t
	}

	h.policy = bluemonday.UGCPolicy()
}

// --- Template data types ---

type dashboardData struct {
	Stats *outreach.Stats
}

type contactsPageData struct {
	Contacts []contactRow
	Search   string
	Status   string
	Total    int
	Page     int
	HasNext  bool
	HasPrev  bool
	NextPage int
	PrevPage int
}

type contactRow struct {
	ID           string
	FullName     string
	Email        string
	Organization string
	Status       string
	GroupCount   int
	UpdatedFmt   string
}

type contactDetailData struct {
	Contact      *outreach.ContactDetail
	SanitizedBio template.HTML
	Notes        template.HTML
	Profiles     []outreach.SocialProfile
	Shares       []outreach.ShareEvent
	CreatedFmt   string
	UpdatedFmt   string
}

type groupsPageData struct {
	Groups []outreach.Group
}

type errorData struct {
	Message string
}

// --- Helper methods ---

func (h *handlers) renderPage(w http.ResponseWriter, name string, data any) {
	h.init()

	t, ok := h.pages[name]
	if !ok {
		log.Printf("outreach-web: unknown page template: %s", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("outreach-web: template error: %v", err)
	}
}

func (h *handlers) renderError(w http.ResponseWriter, status int, msg string) {
	h.init()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	for _, t := range h.pages {
		if tmpl := t.Lookup("error"); tmpl != nil {
			tmpl.Execute(w, errorData{Message: msg})
			return
		}
	}
}

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// --- Page handlers ---

func (h *handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.GetStats(r.Context())
	if err != nil {
		h.renderError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	h.renderPage(w, "dashboard.html", dashboardData{Stats: stats})
}

func (h *handlers) handleContactsPage(w http.ResponseWriter, r *http.Request) {
	page, _ := pagingParam(r, "page")
	result, err := h.engine.ListContacts(r.Context(), outreach.ContactQuery{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
		Page:   page,
	})
	if err != nil {
		h.renderError(w, http.StatusInternalServerError, "Failed to load contacts")
		return
	}

	data := contactsPageData{
		Search:   r.URL.Query().Get("search"),
		Status:   r.URL.Query().Get("status"),
		Total:    result.Total,
		Page:     result.Page,
		HasNext:  result.HasNext,
		HasPrev:  result.HasPrev,
		NextPage: result.Page + 1,
		PrevPage: result.Page - 1,
	}
	for _, c := range result.Items {
		row := contactRow{
			ID:         c.ID,
			FullName:   c.FullName,
			Email:      c.Email,
			Status:     c.ContactStatus,
			GroupCount: c.GroupCount,
			UpdatedFmt: formatDate(c.UpdatedAt),
		}
		if c.Organization != nil {
			row.Organization = *c.Organization
		}
		data.Contacts = append(data.Contacts, row)
	}

	h.renderPage(w, "contacts.html", data)
}

func (h *handlers) handleContactDetailPage(w http.ResponseWriter, r *http.Request) {
	h.init()
	contactID := r.PathValue("contactID")

	detail, err := h.engine.GetContact(r.Context(), contactID)
	if err != nil {
		h.renderError(w, http.StatusNotFound, "Contact not found")
		return
	}

	data := contactDetailData{
		Contact:    detail,
		CreatedFmt: formatDate(detail.CreatedAt),
		UpdatedFmt: formatDate(detail.UpdatedAt),
	}

	// Bio and notes may carry user-supplied markup; sanitize before
	// rendering as HTML.
	if detail.Bio != nil {
		data.SanitizedBio = template.HTML(h.policy.Sanitize(*detail.Bio)) //nolint:gosec // sanitized by bluemonday
	}
	if detail.Notes != nil {
		data.Notes = template.HTML(h.policy.Sanitize(*detail.Notes)) //nolint:gosec // sanitized by bluemonday
	}

	if profiles, err := h.engine.ListSocialProfiles(r.Context(), outreach.ProfileQuery{ContactID: contactID}); err == nil {
		data.Profiles = profiles.Items
	}
	if shares, err := h.engine.ListShares(r.Context(), outreach.ShareQuery{ContactID: contactID, PerPage: 10}); err == nil {
		data.Shares = shares.Items
	}

	h.renderPage(w, "contact_detail.html", data)
}

func (h *handlers) handleGroupsPage(w http.ResponseWriter, r *http.Request) {
	groups, err := h.engine.ListGroups(r.Context())
	if err != nil {
		h.renderError(w, http.StatusInternalServerError, "Failed to load groups")
		return
	}
	h.renderPage(w, "groups.html", groupsPageData{Groups: groups})
}
