package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zachkp/resume-site/internal/contrib"
	"github.com/Zachkp/resume-site/internal/tui"
)

var contributionsCmd = &cobra.Command{
	Use:   "contributions [user]",
	Short: "Show a year of GitHub contributions",
	Long: `Show the trailing year of contributions for a GitHub user as a calendar.
When the contributions API cannot be reached a synthesized calendar is shown
instead, marked as sample data.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runContributions,
}

func init() {
	contributionsCmd.Flags().Bool("json", false, "print the calendar as JSON")
	contributionsCmd.Flags().Bool("cache", false, "read and fill the database cache")
	rootCmd.AddCommand(contributionsCmd)
}

func runContributions(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	user := cfg.GitHubUser
	if len(args) == 1 {
		user = args[0]
	}
	if user == "" {
		r, err := loadResume(cfg)
		if err != nil {
			return err
		}
		user = r.GitHubUsername()
	}

	var cache contrib.Cache
	if useCache, _ := cmd.Flags().GetBool("cache"); useCache {
		st, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()
		cache = st
	}

	cal, origin := newFetcher(cfg, cache, logger).Load(ctx, user)
	logger.Debug("contributions loaded", "user", user, "origin", origin, "days", len(cal.Contributions))

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			User   string         `json:"user"`
			Origin contrib.Origin `json:"origin"`
			contrib.Calendar
		}{user, origin, cal})
	}
	_, err = fmt.Fprint(out, tui.RenderCalendar(user, cal, origin))
	return err
}
