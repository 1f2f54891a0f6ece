package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	outreach "github.com/openadvocacy/outreach"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatText  Format = "text"
	FormatHuman Format = "human"
)

type Formatter struct {
	format Format
	out    io.Writer
	err    io.Writer
}

// NewFormatter creates a new output formatter
func NewFormatter(format Format) *Formatter {
	return &Formatter{
		format: format,
		out:    os.Stdout,
		err:    os.Stderr,
	}
}

// NewFormatterWithWriters creates a formatter with custom output writers for testability
func NewFormatterWithWriters(format Format, out, errW io.Writer) *Formatter {
	return &Formatter{
		format: format,
		out:    out,
		err:    errW,
	}
}

// ImportResult summarizes a seed-file import.
type ImportResult struct {
	ContactsAdded    int      `json:"contacts_added"`
	GroupsAdded      int      `json:"groups_added"`
	MembershipsAdded int      `json:"memberships_added"`
	Skipped          int      `json:"skipped"`
	Errors           []string `json:"errors,omitempty"`
}

// OutputStats outputs the dashboard counters in the configured format
func (f *Formatter) OutputStats(stats *outreach.Stats) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(stats)
	case FormatText:
		fmt.Fprintf(f.out, "contacts=%d\n", stats.TotalContacts)
		fmt.Fprintf(f.out, "active_contacts=%d\n", stats.ActiveContacts)
		fmt.Fprintf(f.out, "groups=%d\n", stats.TotalGroups)
		fmt.Fprintf(f.out, "profiles=%d\n", stats.TotalProfiles)
		fmt.Fprintf(f.out, "recent_shares=%d\n", stats.RecentShares)
		return nil
	case FormatHuman:
		fmt.Fprintf(f.out, "Contacts: %d (%d active)\n", stats.TotalContacts, stats.ActiveContacts)
		fmt.Fprintf(f.out, "Groups: %d\n", stats.TotalGroups)
		fmt.Fprintf(f.out, "Social profiles: %d\n", stats.TotalProfiles)
		fmt.Fprintf(f.out, "Shares in last %d days: %d\n", stats.RecentShareDays, stats.RecentShares)
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// OutputContactList outputs a list of contacts
func (f *Formatter) OutputContactList(contacts []outreach.Contact) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(contacts)
	case FormatText:
		for _, c := range contacts {
			org := ""
			if c.Organization != nil {
				org = *c.Organization
			}
			fmt.Fprintf(f.out, "id=%s\tname=%s\temail=%s\torg=%s\tstatus=%s\n",
				c.ID, c.FullName, c.Email, org, c.ContactStatus)
		}
		return nil
	case FormatHuman:
		if len(contacts) == 0 {
			fmt.Fprintln(f.out, "No contacts")
			return nil
		}
		fmt.Fprintf(f.out, "Contacts (%d):\n\n", len(contacts))
		for _, c := range contacts {
			fmt.Fprintf(f.out, "Name: %s\n", c.FullName)
			fmt.Fprintf(f.out, "Email: %s\n", c.Email)
			if c.Organization != nil {
				fmt.Fprintf(f.out, "Organization: %s\n", *c.Organization)
			}
			fmt.Fprintf(f.out, "Status: %s\n", c.ContactStatus)
			fmt.Fprintln(f.out, "---")
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// OutputImportResult outputs the outcome of a seed-file import
func (f *Formatter) OutputImportResult(result *ImportResult) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(result)
	case FormatText:
		fmt.Fprintf(f.out, "contacts_added=%d\n", result.ContactsAdded)
		fmt.Fprintf(f.out, "groups_added=%d\n", result.GroupsAdded)
		fmt.Fprintf(f.out, "memberships_added=%d\n", result.MembershipsAdded)
		fmt.Fprintf(f.out, "skipped=%d\n", result.Skipped)
		return nil
	case FormatHuman:
		fmt.Fprintf(f.out, "Imported %d contacts, %d groups, %d memberships\n",
			result.ContactsAdded, result.GroupsAdded, result.MembershipsAdded)
		if result.Skipped > 0 {
			fmt.Fprintf(f.out, "Skipped %d entries\n", result.Skipped)
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// OutputReport outputs an AI engagement report
func (f *Formatter) OutputReport(report *outreach.EngagementReport) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(report)
	case FormatText:
		fmt.Fprintf(f.out, "contact=%s\tlevel=%s\n", report.ContactID, report.EngagementLevel)
		fmt.Fprintf(f.out, "summary=%s\n", report.Summary)
		for _, s := range report.Suggestions {
			fmt.Fprintf(f.out, "suggestion=%s\n", s)
		}
		return nil
	case FormatHuman:
		fmt.Fprintf(f.out, "Engagement level: %s\n\n", report.EngagementLevel)
		fmt.Fprintln(f.out, report.Summary)
		if len(report.Suggestions) > 0 {
			fmt.Fprintln(f.out, "\nSuggested next steps:")
			for _, s := range report.Suggestions {
				fmt.Fprintf(f.out, "  - %s\n", s)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// Error outputs an error message to stderr
func (f *Formatter) Error(format string, args ...interface{}) {
	fmt.Fprintf(f.err, format+"\n", args...)
}

// Warning outputs a warning message to stderr
func (f *Formatter) Warning(format string, args ...interface{}) {
	fmt.Fprintf(f.err, "Warning: "+format+"\n", args...)
}
