package main

import (
	"fmt"

	"docbrowse/internal/config"
	"docbrowse/internal/errors"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the config command group
func NewConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}
	cmd.AddCommand(newConfigShowCmd(a), newConfigInitCmd(a))
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			header := a.cfgPath
			if errors.IsConfigNotFound(config.CheckFile(a.cfgPath)) {
				header += " (not found, showing defaults)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", header, data)
			return nil
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	var theme string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.CheckFile(a.cfgPath); err == nil && !force {
				return errors.Newf("%s already exists (use --force to overwrite)", a.cfgPath)
			}

			cfg := config.New()
			cfg.Server.BaseURL = a.cfg.Server.BaseURL
			if theme != "" {
				cfg.ApplyTheme(theme)
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if err := config.SaveConfig(cfg, a.cfgPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successText("✅ Wrote "+a.cfgPath))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().StringVar(&theme, "theme", "", "color theme ("+fmt.Sprint(config.ListThemes())+")")
	return cmd
}
