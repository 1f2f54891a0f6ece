package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	outreach "github.com/openadvocacy/outreach"
	"github.com/openadvocacy/outreach/internal/social"
)

// apiHandlers holds dependencies for the JSON API.
type apiHandlers struct {
	engine *outreach.Engine
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("outreach-web: encode response: %v", err)
	}
}

// writeError maps domain errors onto the HTTP status taxonomy. Unrecognized
// errors are logged server-side and answered with a generic 500 so internal
// detail never leaks into responses.
func writeError(w http.ResponseWriter, err error) {
	var notFound *outreach.NotFoundError
	var conflict *outreach.ConflictError
	var invalid *outreach.ValidationError
	var fetch *social.FetchError

	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: notFound.Error()})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: conflict.Error()})
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: invalid.Error()})
	case errors.Is(err, outreach.ErrNoFields):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "no fields to update"})
	case errors.Is(err, outreach.ErrAnalysisDisabled):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "ai analysis is disabled"})
	case errors.As(err, &fetch):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "upstream feed unavailable"})
	default:
		log.Printf("outreach-web: internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return false
	}
	return true
}

// pagingParam parses a positive integer query parameter. Absent means 0
// (the engine applies the default); present but not a positive integer is
// an error.
func pagingParam(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return v, nil
}

func (a *apiHandlers) paging(w http.ResponseWriter, r *http.Request) (page, perPage int, ok bool) {
	page, err := pagingParam(r, "page")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return 0, 0, false
	}
	perPage, err = pagingParam(r, "per_page")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return 0, 0, false
	}
	return page, perPage, true
}

// --- health ---

func (a *apiHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	health, err := a.engine.Health(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, health)
}

// --- contacts ---

func (a *apiHandlers) handleContactList(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := a.paging(w, r)
	if !ok {
		return
	}
	q := outreach.ContactQuery{
		Search:  r.URL.Query().Get("search"),
		Status:  r.URL.Query().Get("status"),
		GroupID: r.URL.Query().Get("group_id"),
		Page:    page,
		PerPage: perPage,
	}
	result, err := a.engine.ListContacts(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *apiHandlers) handleContactCreate(w http.ResponseWriter, r *http.Request) {
	var in outreach.ContactInput
	if !decodeBody(w, r, &in) {
		return
	}
	contact, err := a.engine.CreateContact(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

func (a *apiHandlers) handleContactGet(w http.ResponseWriter, r *http.Request) {
	detail, err := a.engine.GetContact(r.Context(), r.PathValue("contactID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (a *apiHandlers) handleContactUpdate(w http.ResponseWriter, r *http.Request) {
	var patch outreach.ContactPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	contact, err := a.engine.UpdateContact(r.Context(), r.PathValue("contactID"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (a *apiHandlers) handleContactDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.engine.DeleteContact(r.Context(), r.PathValue("contactID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *apiHandlers) handleContactAnalyze(w http.ResponseWriter, r *http.Request) {
	report, err := a.engine.AnalyzeContact(r.Context(), r.PathValue("contactID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// --- memberships ---

func (a *apiHandlers) handleMembershipAdd(w http.ResponseWriter, r *http.Request) {
	var in outreach.MembershipInput
	if !decodeBody(w, r, &in) {
		return
	}
	membership, err := a.engine.AddContactToGroup(r.Context(), r.PathValue("contactID"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, membership)
}

func (a *apiHandlers) handleMembershipRemove(w http.ResponseWriter, r *http.Request) {
	err := a.engine.RemoveContactFromGroup(r.Context(),
		r.PathValue("contactID"), r.PathValue("groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- groups ---

func (a *apiHandlers) handleGroupList(w http.ResponseWriter, r *http.Request) {
	groups, err := a.engine.ListGroups(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (a *apiHandlers) handleGroupCreate(w http.ResponseWriter, r *http.Request) {
	var in outreach.GroupInput
	if !decodeBody(w, r, &in) {
		return
	}
	group, err := a.engine.CreateGroup(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (a *apiHandlers) handleGroupGet(w http.ResponseWriter, r *http.Request) {
	group, err := a.engine.GetGroup(r.Context(), r.PathValue("groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (a *apiHandlers) handleGroupUpdate(w http.ResponseWriter, r *http.Request) {
	var patch outreach.GroupPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	group, err := a.engine.UpdateGroup(r.Context(), r.PathValue("groupID"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (a *apiHandlers) handleGroupDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.engine.DeleteGroup(r.Context(), r.PathValue("groupID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- social profiles ---

func (a *apiHandlers) handleProfileList(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := a.paging(w, r)
	if !ok {
		return
	}
	result, err := a.engine.ListSocialProfiles(r.Context(), outreach.ProfileQuery{
		ContactID: r.URL.Query().Get("contact_id"),
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *apiHandlers) handleProfileCreate(w http.ResponseWriter, r *http.Request) {
	var in outreach.ProfileInput
	if !decodeBody(w, r, &in) {
		return
	}
	profile, err := a.engine.CreateSocialProfile(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (a *apiHandlers) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	profile, err := a.engine.GetSocialProfile(r.Context(), r.PathValue("profileID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (a *apiHandlers) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	var patch outreach.ProfilePatch
	if !decodeBody(w, r, &patch) {
		return
	}
	profile, err := a.engine.UpdateSocialProfile(r.Context(), r.PathValue("profileID"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (a *apiHandlers) handleProfileDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.engine.DeleteSocialProfile(r.Context(), r.PathValue("profileID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *apiHandlers) handleProfilePreview(w http.ResponseWriter, r *http.Request) {
	preview, err := a.engine.PreviewSocialProfile(r.Context(), r.PathValue("profileID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// --- shared content log ---

func (a *apiHandlers) handleShareList(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := a.paging(w, r)
	if !ok {
		return
	}
	result, err := a.engine.ListShares(r.Context(), outreach.ShareQuery{
		ContactID: r.URL.Query().Get("contact_id"),
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *apiHandlers) handleShareCreate(w http.ResponseWriter, r *http.Request) {
	var in outreach.ShareInput
	if !decodeBody(w, r, &in) {
		return
	}
	event, err := a.engine.RecordShare(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}
