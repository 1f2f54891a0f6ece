package main

import (
	"embed"
	"io/fs"
	"net/http"

	outreach "github.com/openadvocacy/outreach"
)

//go:embed templates static
var embedded embed.FS

// newRouter sets up all routes using Go 1.22+ enhanced routing.
func newRouter(engine *outreach.Engine) http.Handler {
	mux := http.NewServeMux()

	// Static files
	staticFS, _ := fs.Sub(embedded, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	h := &handlers{engine: engine}
	api := &apiHandlers{engine: engine}

	// Dashboard pages
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /dashboard", h.handleDashboard)
	mux.HandleFunc("GET /contacts", h.handleContactsPage)
	mux.HandleFunc("GET /contacts/{contactID}/detail", h.handleContactDetailPage)
	mux.HandleFunc("GET /groups", h.handleGroupsPage)

	// Health
	mux.HandleFunc("GET /healthz", api.handleHealth)

	// JSON API
	mux.HandleFunc("GET /api/v1/contacts", api.handleContactList)
	mux.HandleFunc("POST /api/v1/contacts", api.handleContactCreate)
	mux.HandleFunc("GET /api/v1/contacts/{contactID}", api.handleContactGet)
	mux.HandleFunc("PUT /api/v1/contacts/{contactID}", api.handleContactUpdate)
	mux.HandleFunc("DELETE /api/v1/contacts/{contactID}", api.handleContactDelete)
	mux.HandleFunc("POST /api/v1/contacts/{contactID}/groups", api.handleMembershipAdd)
	mux.HandleFunc("DELETE /api/v1/contacts/{contactID}/groups/{groupID}", api.handleMembershipRemove)
	mux.HandleFunc("POST /api/v1/contacts/{contactID}/analyze", api.handleContactAnalyze)

	mux.HandleFunc("GET /api/v1/groups", api.handleGroupList)
	mux.HandleFunc("POST /api/v1/groups", api.handleGroupCreate)
	mux.HandleFunc("GET /api/v1/groups/{groupID}", api.handleGroupGet)
	mux.HandleFunc("PUT /api/v1/groups/{groupID}", api.handleGroupUpdate)
	mux.HandleFunc("DELETE /api/v1/groups/{groupID}", api.handleGroupDelete)

	mux.HandleFunc("GET /api/v1/social-profiles", api.handleProfileList)
	mux.HandleFunc("POST /api/v1/social-profiles", api.handleProfileCreate)
	mux.HandleFunc("GET /api/v1/social-profiles/{profileID}", api.handleProfileGet)
	mux.HandleFunc("PUT /api/v1/social-profiles/{profileID}", api.handleProfileUpdate)
	mux.HandleFunc("DELETE /api/v1/social-profiles/{profileID}", api.handleProfileDelete)
	mux.HandleFunc("GET /api/v1/social-profiles/{profileID}/preview", api.handleProfilePreview)

	mux.HandleFunc("GET /api/v1/shared-content", api.handleShareList)
	mux.HandleFunc("POST /api/v1/shared-content", api.handleShareCreate)

	return mux
}
