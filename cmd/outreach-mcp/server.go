package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	outreach "github.com/openadvocacy/outreach"
)

// JSON-RPC 2.0 types

type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// server is the Outreach MCP server.
type server struct {
	engine *outreach.Engine
}

func newServer(engine *outreach.Engine) *server {
	return &server{engine: engine}
}

// run starts the MCP server, reading from stdin and writing to stdout.
func (s *server) run() error {
	log.SetOutput(os.Stderr)
	log.Printf("outreach-mcp starting")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()

		var req jsonRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("invalid json-rpc: %v", err)
			continue
		}

		// Notifications have no ID — don't respond
		if req.ID == nil || string(req.ID) == "null" {
			log.Printf("notification: %s", req.Method)
			continue
		}

		resp := s.handleRequest(req)
		respBytes, _ := json.Marshal(resp)
		fmt.Fprintf(os.Stdout, "%s\n", respBytes)
	}

	return scanner.Err()
}

func (s *server) handleRequest(req jsonRPCRequest) jsonRPCResponse {
	resp := jsonRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
	}

	switch req.Method {
	case "initialize":
		resp.Result = map[string]any{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
			"serverInfo": map[string]any{
				"name":    "outreach",
				"version": "0.1.0",
			},
		}
	case "tools/list":
		resp.Result = s.handleToolsList()
	case "tools/call":
		resp.Result = s.handleToolsCall(req.Params)
	case "ping":
		resp.Result = map[string]any{}
	default:
		resp.Error = &rpcError{
			Code:    -32601,
			Message: fmt.Sprintf("method not found: %s", req.Method),
		}
	}

	return resp
}

func (s *server) handleToolsList() any {
	return map[string]any{
		"tools": []map[string]any{
			{
				"name":        "contacts_search",
				"description": "Search contacts by name, email, or organization, with optional status and group filters. Returns one page of contacts with their group counts.",
				"inputSchema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"search": map[string]any{
							"type":        "string",
							"description": "Case-insensitive substring matched against name, email, and organization",
						},
						"status": map[string]any{
							"type":        "string",
							"description": "Filter by contact status",
							"enum":        []string{"active", "inactive", "archived"},
						},
						"group_id": map[string]any{
							"type":        "string",
							"description": "Only contacts with an active membership in this group. Use groups_list to find group IDs.",
						},
						"page": map[string]any{
							"type":        "integer",
							"description": "Page number, starting at 1 (default 1)",
						},
						"per_page": map[string]any{
							"type":        "integer",
							"description": "Results per page, 1-100 (default 20)",
						},
					},
				},
			},
			{
				"name":        "contact_get",
				"description": "Get a single contact by ID, including group memberships, social profiles, and recently shared content.",
				"inputSchema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"contact_id": map[string]any{
							"type":        "string",
							"description": "The contact ID to retrieve",
						},
					},
					"required": []string{"contact_id"},
				},
			},
			{
				"name":        "groups_list",
				"description": "List all contact groups with their member counts.",
				"inputSchema": map[string]any{
					"type":       "object",
					"properties": map[string]any{},
				},
			},
			{
				"name":        "share_record",
				"description": "Log a piece of content shared with a contact. Use this after sending an article or link so the share history stays complete.",
				"inputSchema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"contact_id": map[string]any{
							"type":        "string",
							"description": "The contact the content was shared with",
						},
						"content_url": map[string]any{
							"type":        "string",
							"description": "URL of the shared content",
						},
						"platform": map[string]any{
							"type":        "string",
							"description": "Optional platform the content was shared on",
						},
						"title": map[string]any{
							"type":        "string",
							"description": "Optional title of the shared content",
						},
					},
					"required": []string{"contact_id", "content_url"},
				},
			},
			{
				"name":        "contact_analyze",
				"description": "Generate an AI engagement report for a contact: a summary, an engagement level (cold, warm, or engaged), and suggested next steps. Requires AI analysis to be enabled.",
				"inputSchema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"contact_id": map[string]any{
							"type":        "string",
							"description": "The contact ID to analyze",
						},
					},
					"required": []string{"contact_id"},
				},
			},
			{
				"name":        "stats",
				"description": "Get contact, group, profile, and recent-share counters.",
				"inputSchema": map[string]any{
					"type":       "object",
					"properties": map[string]any{},
				},
			},
		},
	}
}

func (s *server) handleToolsCall(params json.RawMessage) any {
	var call struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}

	if err := json.Unmarshal(params, &call); err != nil {
		return mcpError("invalid tool call: %v", err)
	}

	switch call.Name {
	case "contacts_search":
		return s.handleContactsSearch(call.Arguments)
	case "contact_get":
		return s.handleContactGet(call.Arguments)
	case "groups_list":
		return s.handleGroupsList()
	case "share_record":
		return s.handleShareRecord(call.Arguments)
	case "contact_analyze":
		return s.handleContactAnalyze(call.Arguments)
	case "stats":
		return s.handleStats()
	default:
		return mcpError("unknown tool: %s", call.Name)
	}
}

// --- tool handlers ---

func (s *server) handleContactsSearch(args json.RawMessage) any {
	var params struct {
		Search  string `json:"search"`
		Status  string `json:"status"`
		GroupID string `json:"group_id"`
		Page    int    `json:"page"`
		PerPage int    `json:"per_page"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return mcpError("invalid arguments: %v", err)
	}

	page, err := s.engine.ListContacts(context.Background(), outreach.ContactQuery{
		Search:  params.Search,
		Status:  params.Status,
		GroupID: params.GroupID,
		Page:    params.Page,
		PerPage: params.PerPage,
	})
	if err != nil {
		return mcpError("%v", err)
	}

	log.Printf("contacts_search: search=%q -> %d of %d", params.Search, len(page.Items), page.Total)
	return mcpJSON(page)
}

func (s *server) handleContactGet(args json.RawMessage) any {
	var params struct {
		ContactID string `json:"contact_id"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return mcpError("invalid arguments: %v", err)
	}
	if params.ContactID == "" {
		return mcpError("contact_id parameter is required")
	}

	ctx := context.Background()
	detail, err := s.engine.GetContact(ctx, params.ContactID)
	if err != nil {
		return mcpError("%v", err)
	}

	profiles, err := s.engine.ListSocialProfiles(ctx, outreach.ProfileQuery{ContactID: params.ContactID})
	if err != nil {
		return mcpError("%v", err)
	}
	shares, err := s.engine.ListShares(ctx, outreach.ShareQuery{ContactID: params.ContactID, PerPage: 10})
	if err != nil {
		return mcpError("%v", err)
	}

	log.Printf("contact_get: id=%s", params.ContactID)
	return mcpJSON(map[string]any{
		"contact":       detail,
		"profiles":      profiles.Items,
		"recent_shares": shares.Items,
	})
}

func (s *server) handleGroupsList() any {
	groups, err := s.engine.ListGroups(context.Background())
	if err != nil {
		return mcpError("%v", err)
	}

	log.Printf("groups_list: %d groups", len(groups))
	return mcpJSON(groups)
}

func (s *server) handleShareRecord(args json.RawMessage) any {
	var params struct {
		ContactID  string `json:"contact_id"`
		ContentURL string `json:"content_url"`
		Platform   string `json:"platform"`
		Title      string `json:"title"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return mcpError("invalid arguments: %v", err)
	}
	if params.ContactID == "" {
		return mcpError("contact_id parameter is required")
	}
	if params.ContentURL == "" {
		return mcpError("content_url parameter is required")
	}

	ev, err := s.engine.RecordShare(context.Background(), outreach.ShareInput{
		ContactID:  params.ContactID,
		ContentURL: params.ContentURL,
		Platform:   params.Platform,
		Title:      params.Title,
	})
	if err != nil {
		return mcpError("%v", err)
	}

	log.Printf("share_record: contact=%s url=%s", params.ContactID, ev.ContentURL)
	return mcpText("Recorded share of %s.", ev.ContentURL)
}

func (s *server) handleContactAnalyze(args json.RawMessage) any {
	var params struct {
		ContactID string `json:"contact_id"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return mcpError("invalid arguments: %v", err)
	}
	if params.ContactID == "" {
		return mcpError("contact_id parameter is required")
	}

	report, err := s.engine.AnalyzeContact(context.Background(), params.ContactID)
	if err != nil {
		return mcpError("%v", err)
	}

	log.Printf("contact_analyze: id=%s level=%s", params.ContactID, report.EngagementLevel)
	return mcpJSON(report)
}

func (s *server) handleStats() any {
	stats, err := s.engine.GetStats(context.Background())
	if err != nil {
		return mcpError("%v", err)
	}

	log.Printf("stats")
	return mcpJSON(stats)
}

// --- MCP response helpers ---

func mcpText(format string, args ...any) any {
	return map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": fmt.Sprintf(format, args...)},
		},
	}
}

func mcpJSON(data any) any {
	b, err := json.Marshal(data)
	if err != nil {
		return mcpError("marshal response: %v", err)
	}
	return map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": string(b)},
		},
	}
}

func mcpError(format string, args ...any) any {
	return map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": fmt.Sprintf("Error: "+format, args...)},
		},
		"isError": true,
	}
}
