package main

import (
	"fmt"
	"io"
	"os"

	"docbrowse/internal/api"
	"docbrowse/internal/config"
	"docbrowse/internal/log"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs once the root flags are parsed.
type app struct {
	cfgFile string
	server  string
	debug   bool
	logJSON bool

	cfgPath string
	cfg     *config.Config
	client  *api.Client
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "docbrowse",
		Short: "Browse published project documentation",
		Long: `docbrowse walks the documentation published by your CI pipelines:
projects, their releases and unreleased merge requests, and the files in
each. Files are opened through short-lived signed links.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/docbrowse/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.server, "server", "", "browse API base URL (overrides config and "+config.EnvServer+")")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "log as JSON lines")

	// Add subcommands
	rootCmd.AddCommand(NewTUICmd(a))
	rootCmd.AddCommand(NewProjectsCmd(a))
	rootCmd.AddCommand(NewReleasesCmd(a))
	rootCmd.AddCommand(NewFilesCmd(a))
	rootCmd.AddCommand(NewLinkCmd(a))
	rootCmd.AddCommand(NewPreviewCmd(a))
	rootCmd.AddCommand(NewDownloadCmd(a))
	rootCmd.AddCommand(NewConfigCmd(a))

	return rootCmd
}

// setup loads configuration, configures logging and builds the API client.
func (a *app) setup(stderr io.Writer) error {
	opts := []log.Option{log.WithOutput(stderr), log.WithLevel("warn")}
	if a.debug {
		opts[1] = log.WithLevel("debug")
	}
	if a.logJSON {
		opts = append(opts, log.WithJSON())
	}
	log.Configure(opts...)
	log.SetDebug(a.debug)

	a.cfgPath = a.cfgFile
	if a.cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("locate config: %w", err)
		}
		a.cfgPath = p
	}

	cfg, err := config.LoadConfigFile(a.cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, warningText(fmt.Sprintf("⚠️ Warning: %v", err)))
		fmt.Fprintln(stderr, "💡 Using default settings. Run 'docbrowse config init' to write a fresh config.")
		cfg = config.New()
	}
	if a.server != "" {
		cfg.Server.BaseURL = a.server
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("--server: %w", err)
		}
	}
	a.cfg = cfg

	a.client = api.New(cfg.Server.BaseURL,
		api.WithTimeout(cfg.Timeout()),
		api.WithUserAgent(cfg.HTTP.UserAgent),
	)
	log.LogWithFields(log.F("server", cfg.Server.BaseURL), log.F("config", a.cfgPath)).Debug("configured")
	return nil
}

func useColor() bool {
	fi, err := os.Stdout.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

func colored(color, s string) string {
	if !useColor() {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
}

func errorText(s string) string   { return colored("196", s) }
func warningText(s string) string { return colored("220", s) }
func successText(s string) string { return colored("114", s) }
