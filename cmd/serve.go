package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Zachkp/resume-site/internal/resume"
	"github.com/Zachkp/resume-site/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the résumé site",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (default 8080, or $PORT)")
	serveCmd.Flags().String("db", "", "SQLite database path (default resume.db)")
	serveCmd.Flags().String("resume", "", "résumé YAML or TOML file (default: built-in)")
	serveCmd.Flags().String("github-user", "", "GitHub user for the activity panel")
	serveCmd.Flags().Bool("watch", false, "reload the résumé file when it changes")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("database_path", serveCmd.Flags().Lookup("db"))
	_ = viper.BindPFlag("resume_file", serveCmd.Flags().Lookup("resume"))
	_ = viper.BindPFlag("github_user", serveCmd.Flags().Lookup("github-user"))
	_ = viper.BindPFlag("watch_resume", serveCmd.Flags().Lookup("watch"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := loadResume(cfg)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	srv, err := server.New(server.Options{
		Config:  cfg,
		Resume:  r,
		Fetcher: newFetcher(cfg, st, logger),
		Store:   st,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if cfg.WatchResume && cfg.ResumeFile != "" {
		go func() {
			if err := resume.Watch(ctx, cfg.ResumeFile, logger, srv.SetResume); err != nil {
				logger.Error("résumé watcher stopped", "error", err)
			}
		}()
	}
	return srv.Run(ctx)
}
