package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// Analyzer produces engagement suggestions for a contact using a local
// Ollama model.
type Analyzer struct {
	client *api.Client
	model  string
}

// ContactProfile is the slice of contact data handed to the model.
type ContactProfile struct {
	FullName     string
	Organization string
	JobTitle     string
	Bio          string
	Tags         string
	Notes        string
	Platforms    []string
	RecentShares []string
}

// EngagementReport is the model's structured assessment of a contact.
type EngagementReport struct {
	Summary         string   `json:"summary"`
	EngagementLevel string   `json:"engagement_level"`
	Suggestions     []string `json:"suggestions"`
}

// NewAnalyzer creates an analyzer backed by Ollama. Environment settings
// (OLLAMA_HOST) win over the configured base URL.
func NewAnalyzer(baseURL, model string) (*Analyzer, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		parsedURL, parseErr := url.Parse(baseURL)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid base URL: %w", parseErr)
		}
		client = api.NewClient(parsedURL, nil)
	}

	return &Analyzer{client: client, model: model}, nil
}

// AnalyzeContact asks the model for an engagement summary and outreach
// suggestions based on the contact's profile and recent share history.
func (a *Analyzer) AnalyzeContact(ctx context.Context, profile ContactProfile) (*EngagementReport, error) {
	req := &api.GenerateRequest{
		Model:  a.model,
		Prompt: buildAnalysisPrompt(profile),
		Stream: new(bool), // false
		Options: map[string]interface{}{
			"temperature": 0.4,
		},
	}

	var fullResponse strings.Builder
	err := a.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		fullResponse.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama analysis failed: %w", err)
	}

	responseText := extractJSON(fullResponse.String())

	var report EngagementReport
	if err := json.Unmarshal([]byte(responseText), &report); err != nil {
		// If JSON parsing fails, return a conservative default
		return &EngagementReport{
			Summary:         "Analysis response could not be parsed",
			EngagementLevel: "unknown",
		}, nil
	}
	return &report, nil
}

func buildAnalysisPrompt(profile ContactProfile) string {
	var b strings.Builder
	b.WriteString("You are an outreach strategist for an advocacy organization. Assess the following contact and suggest how to engage them.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", profile.FullName)
	if profile.Organization != "" {
		fmt.Fprintf(&b, "Organization: %s\n", profile.Organization)
	}
	if profile.JobTitle != "" {
		fmt.Fprintf(&b, "Role: %s\n", profile.JobTitle)
	}
	if profile.Bio != "" {
		fmt.Fprintf(&b, "Bio: %s\n", truncateText(profile.Bio, 1000))
	}
	if profile.Tags != "" {
		fmt.Fprintf(&b, "Tags: %s\n", profile.Tags)
	}
	if profile.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", truncateText(profile.Notes, 1000))
	}
	if len(profile.Platforms) > 0 {
		fmt.Fprintf(&b, "Active platforms: %s\n", strings.Join(profile.Platforms, ", "))
	}
	if len(profile.RecentShares) > 0 {
		b.WriteString("Content recently shared with them:\n")
		for _, title := range profile.RecentShares {
			fmt.Fprintf(&b, "- %s\n", title)
		}
	}
	b.WriteString(`
Respond ONLY with valid JSON in this exact format:
{
  "summary": "<two-sentence assessment of this contact>",
  "engagement_level": "<cold|warm|engaged>",
  "suggestions": ["<concrete next step>", "..."]
}`)
	return b.String()
}

// extractJSON pulls the first JSON object out of a model response that may
// be wrapped in prose or markdown fences.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

// truncateText limits text sent to the model.
func truncateText(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
