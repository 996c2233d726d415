package main

import (
	"fmt"
	"os"
	"path/filepath"

	"docbrowse/internal/actions"
	"docbrowse/internal/config"
	"docbrowse/internal/log"
	"docbrowse/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// logFilePath returns ~/.cache/docbrowse/docbrowse.log.
func logFilePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "docbrowse", "docbrowse.log")
}

// NewTUICmd creates the interactive browser command
func NewTUICmd(a *app) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse documentation interactively",
		Long: `Browse documentation interactively. Start at the project list, or at
the releases of one project with --project.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the UI; logs go to a file
			opts := []log.Option{log.WithFile(logFilePath()), log.WithLevel("info")}
			if a.debug {
				opts[1] = log.WithLevel("debug")
			}
			if a.logJSON {
				opts = append(opts, log.WithJSON())
			}
			log.Configure(opts...)
			defer log.Close()

			var updates <-chan *config.Config
			if err := config.CheckFile(a.cfgPath); err == nil {
				watcher, err := config.NewWatcher(a.cfgPath)
				if err != nil {
					log.LogWithError(err).Warn("config changes will not be picked up")
				} else if err := watcher.Start(); err == nil {
					defer watcher.Stop()
					updates = watcher.Updates()
				}
			}

			model := tui.New(cmd.Context(), a.client, tui.Options{
				Config:        a.cfg,
				Opener:        actions.NewOpener(a.cfg.Open.Command),
				Saver:         actions.NewDownloader(a.client, a.cfg.Downloads.Dir),
				StartProject:  project,
				ConfigUpdates: updates,
			})

			log.LogWithFields(log.F("server", a.cfg.Server.BaseURL)).Info("starting browser")
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "start at the releases of this bucket")
	return cmd
}
