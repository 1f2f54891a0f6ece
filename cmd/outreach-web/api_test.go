package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	outreach "github.com/openadvocacy/outreach"
)

func newTestRouter(t *testing.T) (http.Handler, *outreach.Engine) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	engine, err := outreach.NewEngine(outreach.EngineConfig{DBPath: dbPath})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(func() { engine.Close() })
	return newRouter(engine), engine
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
}

func createTestContact(t *testing.T, router http.Handler, name, email string) outreach.Contact {
	t.Helper()
	body := fmt.Sprintf(`{"full_name":%q,"email":%q}`, name, email)
	rec := doJSON(t, router, "POST", "/api/v1/contacts", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create contact: status %d, body %s", rec.Code, rec.Body.String())
	}
	var c outreach.Contact
	decodeJSON(t, rec, &c)
	return c
}

func createTestGroup(t *testing.T, router http.Handler, name string) outreach.Group {
	t.Helper()
	rec := doJSON(t, router, "POST", "/api/v1/groups", fmt.Sprintf(`{"name":%q}`, name))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group: status %d, body %s", rec.Code, rec.Body.String())
	}
	var g outreach.Group
	decodeJSON(t, rec, &g)
	return g
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var health outreach.Health
	decodeJSON(t, rec, &health)
	if health.Status != "ok" {
		t.Errorf("status = %q, want ok", health.Status)
	}
}

func TestContactCreateAndGet(t *testing.T) {
	router, _ := newTestRouter(t)

	c := createTestContact(t, router, "Ada Lovelace", "ada@example.org")
	if c.Version != 1 {
		t.Errorf("version = %d, want 1", c.Version)
	}

	rec := doJSON(t, router, "GET", "/api/v1/contacts/"+c.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var detail outreach.ContactDetail
	decodeJSON(t, rec, &detail)
	if detail.Email != "ada@example.org" {
		t.Errorf("email = %q", detail.Email)
	}
	if detail.Groups == nil {
		t.Error("groups should be an empty array, not null")
	}
}

func TestContactCreateInvalidJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/contacts", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestContactCreateValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/contacts", `{"full_name":"Ada","email":"not-an-address"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body errorBody
	decodeJSON(t, rec, &body)
	if !strings.Contains(body.Error, "email") {
		t.Errorf("error = %q, want mention of email", body.Error)
	}
}

func TestContactCreateConflict(t *testing.T) {
	router, _ := newTestRouter(t)
	createTestContact(t, router, "Ada", "ada@example.org")

	rec := doJSON(t, router, "POST", "/api/v1/contacts", `{"full_name":"Other","email":"ada@example.org"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestContactGetNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/v1/contacts/no-such-id", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestContactUpdate(t *testing.T) {
	router, _ := newTestRouter(t)
	c := createTestContact(t, router, "Ada", "ada@example.org")

	rec := doJSON(t, router, "PUT", "/api/v1/contacts/"+c.ID,
		`{"organization":"Analytical Society","phone":"+44 20 1234"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var updated outreach.Contact
	decodeJSON(t, rec, &updated)
	if updated.Version != 2 {
		t.Errorf("version = %d, want 2", updated.Version)
	}

	// Explicit "" clears the field
	rec = doJSON(t, router, "PUT", "/api/v1/contacts/"+c.ID, `{"phone":""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	updated = outreach.Contact{}
	decodeJSON(t, rec, &updated)
	if updated.Phone != nil {
		t.Errorf("phone = %v, want cleared", *updated.Phone)
	}
	if updated.Version != 3 {
		t.Errorf("version = %d, want 3", updated.Version)
	}

	// Empty patch is a no-op for contacts
	rec = doJSON(t, router, "PUT", "/api/v1/contacts/"+c.ID, `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for empty contact patch", rec.Code)
	}
	decodeJSON(t, rec, &updated)
	if updated.Version != 3 {
		t.Errorf("version = %d, want 3 (empty patch writes nothing)", updated.Version)
	}
}

func TestContactDelete(t *testing.T) {
	router, _ := newTestRouter(t)
	c := createTestContact(t, router, "Ada", "ada@example.org")

	rec := doJSON(t, router, "DELETE", "/api/v1/contacts/"+c.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = doJSON(t, router, "DELETE", "/api/v1/contacts/"+c.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 on second delete", rec.Code)
	}
}

func TestContactListFilters(t *testing.T) {
	router, _ := newTestRouter(t)
	createTestContact(t, router, "Ada Lovelace", "ada@example.org")
	createTestContact(t, router, "Grace Hopper", "grace@example.org")

	rec := doJSON(t, router, "GET", "/api/v1/contacts?search=lovelace", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var page outreach.ContactPage
	decodeJSON(t, rec, &page)
	if page.Total != 1 {
		t.Errorf("total = %d, want 1", page.Total)
	}

	// Present but invalid paging parameters are rejected
	rec = doJSON(t, router, "GET", "/api/v1/contacts?page=0", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("page=0 status = %d, want 400", rec.Code)
	}
	rec = doJSON(t, router, "GET", "/api/v1/contacts?per_page=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("per_page=abc status = %d, want 400", rec.Code)
	}
	rec = doJSON(t, router, "GET", "/api/v1/contacts?per_page=101", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("per_page=101 status = %d, want 400", rec.Code)
	}
}

func TestContactAnalyzeDisabled(t *testing.T) {
	router, _ := newTestRouter(t)
	c := createTestContact(t, router, "Ada", "ada@example.org")

	rec := doJSON(t, router, "POST", "/api/v1/contacts/"+c.ID+"/analyze", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestMembershipAddAndRemove(t *testing.T) {
	router, _ := newTestRouter(t)
	c := createTestContact(t, router, "Ada", "ada@example.org")
	g := createTestGroup(t, router, "Press")

	rec := doJSON(t, router, "POST", "/api/v1/contacts/"+c.ID+"/groups",
		fmt.Sprintf(`{"group_id":%q}`, g.ID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var m outreach.Membership
	decodeJSON(t, rec, &m)
	if m.MembershipStatus != "active" {
		t.Errorf("membership_status = %q, want active", m.MembershipStatus)
	}

	// Duplicate membership conflicts
	rec = doJSON(t, router, "POST", "/api/v1/contacts/"+c.ID+"/groups",
		fmt.Sprintf(`{"group_id":%q}`, g.ID))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	rec = doJSON(t, router, "DELETE", "/api/v1/contacts/"+c.ID+"/groups/"+g.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = doJSON(t, router, "DELETE", "/api/v1/contacts/"+c.ID+"/groups/"+g.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 on second remove", rec.Code)
	}
}

func TestGroupUpdateEmptyPatchRejected(t *testing.T) {
	router, _ := newTestRouter(t)
	g := createTestGroup(t, router, "Press")

	rec := doJSON(t, router, "PUT", "/api/v1/groups/"+g.ID, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for empty group patch", rec.Code)
	}
	var body errorBody
	decodeJSON(t, rec, &body)
	if body.Error != "no fields to update" {
		t.Errorf("error = %q", body.Error)
	}

	rec = doJSON(t, router, "PUT", "/api/v1/groups/"+g.ID, `{"description":"Media contacts"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestGroupDelete(t *testing.T) {
	router, _ := newTestRouter(t)
	g := createTestGroup(t, router, "Press")

	rec := doJSON(t, router, "DELETE", "/api/v1/groups/"+g.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	rec = doJSON(t, router, "GET", "/api/v1/groups/"+g.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 after delete", rec.Code)
	}
}

func TestProfileCreateCanonicalizesURL(t *testing.T) {
	router, _ := newTestRouter(t)
	c := createTestContact(t, router, "Ada", "ada@example.org")

	rec := doJSON(t, router, "POST", "/api/v1/social-profiles",
		fmt.Sprintf(`{"contact_id":%q,"platform":"BlueSky","url":"BSKY.app/profile/ada#posts"}`, c.ID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var p outreach.SocialProfile
	decodeJSON(t, rec, &p)
	if p.URL != "https://bsky.app/profile/ada" {
		t.Errorf("url = %q, want canonical form", p.URL)
	}

	// Spelling variant of the same URL conflicts
	rec = doJSON(t, router, "POST", "/api/v1/social-profiles",
		fmt.Sprintf(`{"contact_id":%q,"platform":"Website","url":"https://bsky.app/profile/ada"}`, c.ID))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestProfilePreviewRequiresFeedPlatform(t *testing.T) {
	router, _ := newTestRouter(t)
	c := createTestContact(t, router, "Ada", "ada@example.org")

	rec := doJSON(t, router, "POST", "/api/v1/social-profiles",
		fmt.Sprintf(`{"contact_id":%q,"platform":"LinkedIn","url":"https://linkedin.com/in/ada"}`, c.ID))
	var p outreach.SocialProfile
	decodeJSON(t, rec, &p)

	rec = doJSON(t, router, "GET", "/api/v1/social-profiles/"+p.ID+"/preview", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestProfilePreviewUpstreamFailure(t *testing.T) {
	router, _ := newTestRouter(t)
	c := createTestContact(t, router, "Ada", "ada@example.org")

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(upstream.Close)

	rec := doJSON(t, router, "POST", "/api/v1/social-profiles",
		fmt.Sprintf(`{"contact_id":%q,"platform":"RSS","url":%q}`, c.ID, upstream.URL))
	var p outreach.SocialProfile
	decodeJSON(t, rec, &p)

	rec = doJSON(t, router, "GET", "/api/v1/social-profiles/"+p.ID+"/preview", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var body errorBody
	decodeJSON(t, rec, &body)
	if body.Error != "upstream feed unavailable" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestProfilePreview(t *testing.T) {
	router, _ := newTestRouter(t)
	c := createTestContact(t, router, "Ada", "ada@example.org")

	const rss = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
  <title>Ada's Blog</title>
  <item><title>Post One</title><link>https://example.org/1</link><guid>1</guid></item>
</channel></rss>`
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rss)
	}))
	t.Cleanup(upstream.Close)

	rec := doJSON(t, router, "POST", "/api/v1/social-profiles",
		fmt.Sprintf(`{"contact_id":%q,"platform":"RSS","url":%q}`, c.ID, upstream.URL))
	var p outreach.SocialProfile
	decodeJSON(t, rec, &p)

	rec = doJSON(t, router, "GET", "/api/v1/social-profiles/"+p.ID+"/preview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var preview outreach.FeedPreview
	decodeJSON(t, rec, &preview)
	if preview.Title != "Ada's Blog" {
		t.Errorf("title = %q", preview.Title)
	}
	if len(preview.Items) != 1 {
		t.Errorf("got %d items, want 1", len(preview.Items))
	}
}

func TestShareCreateAndList(t *testing.T) {
	router, _ := newTestRouter(t)
	c := createTestContact(t, router, "Ada", "ada@example.org")

	rec := doJSON(t, router, "POST", "/api/v1/shared-content",
		fmt.Sprintf(`{"contact_id":%q,"content_url":"https://example.org/report","title":"Annual Report"}`, c.ID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, "GET", "/api/v1/shared-content?contact_id="+c.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var page outreach.SharePage
	decodeJSON(t, rec, &page)
	if page.Total != 1 {
		t.Errorf("total = %d, want 1", page.Total)
	}
	if page.Items[0].Title == nil || *page.Items[0].Title != "Annual Report" {
		t.Errorf("title = %v", page.Items[0].Title)
	}
}

func TestShareCreateUnknownContact(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/shared-content",
		`{"contact_id":"no-such-id","content_url":"https://example.org"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
