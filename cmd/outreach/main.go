package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	outreach "github.com/openadvocacy/outreach"
	"github.com/openadvocacy/outreach/internal/output"
	"github.com/openadvocacy/outreach/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configPath   string
	cfg          *storage.Config
	outputFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "outreach",
		Short: "Contact-relationship manager for advocacy organizations",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "output format: json, text, human (default: json)")

	rootCmd.AddCommand(initConfigCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(analyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	// Check if config exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Use default config
		cfg = storage.DefaultConfig()
		return nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	cfg = storage.DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}

func newEngine() (*outreach.Engine, error) {
	return outreach.NewEngine(outreach.EngineConfig{
		DBPath:          cfg.Database.Path,
		OllamaBaseURL:   cfg.Ollama.BaseURL,
		Model:           cfg.Ollama.Model,
		AIAnalysis:      cfg.Features.AIAnalysis,
		RecentShareDays: cfg.Dashboard.RecentShareDays,
	})
}

func initConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Create a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = "./config/config.yaml"
			}

			dir := filepath.Dir(configPath)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}

			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("config file already exists: %s", configPath)
			}

			data, err := yaml.Marshal(storage.DefaultConfig())
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}

			if err := os.WriteFile(configPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Printf("Created default config at %s\n", configPath)
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show contact, group, and share counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(output.Format(outputFormat))

			engine, err := newEngine()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer engine.Close()

			stats, err := engine.GetStats(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get stats: %w", err)
			}
			return formatter.OutputStats(stats)
		},
	}
}

func listCmd() *cobra.Command {
	var search, status, groupID string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(output.Format(outputFormat))

			engine, err := newEngine()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer engine.Close()

			page, err := engine.ListContacts(context.Background(), outreach.ContactQuery{
				Search:  search,
				Status:  status,
				GroupID: groupID,
				PerPage: limit,
			})
			if err != nil {
				return fmt.Errorf("failed to list contacts: %w", err)
			}
			return formatter.OutputContactList(page.Items)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "search name, email, and organization")
	cmd.Flags().StringVar(&status, "status", "", "filter by status: active, inactive, archived")
	cmd.Flags().StringVarP(&groupID, "group", "g", "", "filter by group ID (active memberships)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum number of contacts to show")
	return cmd
}

// seedFile is the TOML layout accepted by the import command.
type seedFile struct {
	Groups   []seedGroup   `toml:"groups"`
	Contacts []seedContact `toml:"contacts"`
}

type seedGroup struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

type seedContact struct {
	FullName     string   `toml:"full_name"`
	Email        string   `toml:"email"`
	Phone        string   `toml:"phone"`
	Organization string   `toml:"organization"`
	JobTitle     string   `toml:"job_title"`
	Location     string   `toml:"location"`
	WebsiteURL   string   `toml:"website_url"`
	Tags         string   `toml:"tags"`
	Notes        string   `toml:"notes"`
	Groups       []string `toml:"groups"` // group names; created above or pre-existing
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <seed-file.toml>",
		Short: "Import contacts and groups from a TOML seed file",
		Long: `Import groups and contacts from a TOML seed file. Existing groups are
reused by name; contacts whose email already exists are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			formatter := output.NewFormatter(output.Format(outputFormat))

			var seed seedFile
			if _, err := toml.DecodeFile(args[0], &seed); err != nil {
				return fmt.Errorf("failed to parse seed file: %w", err)
			}

			engine, err := newEngine()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer engine.Close()

			result := &output.ImportResult{}

			// Groups first so contact memberships can resolve by name.
			groupIDs := make(map[string]string)
			existing, err := engine.ListGroups(ctx)
			if err != nil {
				return fmt.Errorf("failed to list groups: %w", err)
			}
			for _, g := range existing {
				groupIDs[g.Name] = g.ID
			}

			for _, sg := range seed.Groups {
				if _, ok := groupIDs[sg.Name]; ok {
					result.Skipped++
					continue
				}
				g, err := engine.CreateGroup(ctx, outreach.GroupInput{
					Name:        sg.Name,
					Description: sg.Description,
				})
				if err != nil {
					formatter.Warning("failed to create group %q: %v", sg.Name, err)
					result.Errors = append(result.Errors, err.Error())
					continue
				}
				groupIDs[g.Name] = g.ID
				result.GroupsAdded++
			}

			for _, sc := range seed.Contacts {
				c, err := engine.CreateContact(ctx, outreach.ContactInput{
					FullName:     sc.FullName,
					Email:        sc.Email,
					Phone:        sc.Phone,
					Organization: sc.Organization,
					JobTitle:     sc.JobTitle,
					Location:     sc.Location,
					WebsiteURL:   sc.WebsiteURL,
					Tags:         sc.Tags,
					Notes:        sc.Notes,
				})
				if err != nil {
					var conflict *outreach.ConflictError
					if errors.As(err, &conflict) {
						result.Skipped++
						continue
					}
					formatter.Warning("failed to create contact %q: %v", sc.Email, err)
					result.Errors = append(result.Errors, err.Error())
					continue
				}
				result.ContactsAdded++

				for _, name := range sc.Groups {
					gid, ok := groupIDs[name]
					if !ok {
						formatter.Warning("contact %q references unknown group %q", sc.Email, name)
						continue
					}
					if _, err := engine.AddContactToGroup(ctx, c.ID, outreach.MembershipInput{GroupID: gid}); err != nil {
						formatter.Warning("failed to add %q to group %q: %v", sc.Email, name, err)
						continue
					}
					result.MembershipsAdded++
				}
			}

			return formatter.OutputImportResult(result)
		},
	}
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <contact-id>",
		Short: "Generate an AI engagement report for a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(output.Format(outputFormat))

			engine, err := newEngine()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer engine.Close()

			report, err := engine.AnalyzeContact(context.Background(), args[0])
			if err != nil {
				if errors.Is(err, outreach.ErrAnalysisDisabled) {
					return fmt.Errorf("ai analysis is disabled; enable features.ai_analysis in the config")
				}
				return fmt.Errorf("failed to analyze contact: %w", err)
			}
			return formatter.OutputReport(report)
		},
	}
}
