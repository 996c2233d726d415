package main

import (
	"context"
	"fmt"
	"io"

	"docbrowse/internal/actions"
	"docbrowse/internal/api"
	"docbrowse/internal/errors"
	"docbrowse/internal/nav"
	"docbrowse/internal/tui/components"
	"docbrowse/internal/tui/views"

	"github.com/spf13/cobra"
)

// currentTag selects the unreleased documents in the files command.
const currentTag = "current"

// show runs req to completion and prints the resulting screen. A failed
// screen is printed and its error returned.
func show(ctx context.Context, w io.Writer, c *nav.Controller, req *nav.Request, match string) error {
	c.Do(ctx, req)
	screen := c.Screen()

	if screen.Status == nav.StatusFailed {
		fmt.Fprint(w, views.RenderPlain(screen))
		return errors.Wrap(screen.Err, screen.ErrorText)
	}

	if match == "" {
		fmt.Fprint(w, views.RenderPlain(screen))
		return nil
	}
	visible, err := components.FilterItems(screen.Items, match)
	if err != nil {
		return err
	}
	fmt.Fprint(w, views.RenderPlainItems(screen, visible))
	return nil
}

// NewProjectsCmd creates the projects command
func NewProjectsCmd(a *app) *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List documentation projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := nav.New(a.client)
			return show(cmd.Context(), cmd.OutOrStdout(), c, c.EnterProjects(), match)
		},
	}

	cmd.Flags().StringVarP(&match, "match", "m", "", "only list projects whose name matches this glob")
	return cmd
}

// NewReleasesCmd creates the releases command
func NewReleasesCmd(a *app) *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "releases <bucket>",
		Short: "List the releases and unreleased documents of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := nav.New(a.client)
			return show(cmd.Context(), cmd.OutOrStdout(), c, c.EnterReleases(args[0], args[0]), match)
		},
	}

	cmd.Flags().StringVarP(&match, "match", "m", "", "only list releases matching this glob")
	return cmd
}

// NewFilesCmd creates the files command
func NewFilesCmd(a *app) *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "files <bucket> <tag|current>",
		Short: "List the documents of a release, or of the current release",
		Long: `List the documents of a release. Use "current" as the tag for the
merge request documents not yet bound to a release.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := nav.New(a.client)
			return show(cmd.Context(), cmd.OutOrStdout(), c, filesRequest(c, args[0], args[1]), match)
		},
	}

	cmd.Flags().StringVarP(&match, "match", "m", "", "only list files whose name matches this glob")
	return cmd
}

// filesRequest enters the release named by tag, or the unreleased documents
// when tag is "current".
func filesRequest(c *nav.Controller, bucket, tag string) *nav.Request {
	if tag == currentTag {
		return c.EnterCurrentRelease(bucket)
	}
	return c.EnterReleaseFiles(bucket, tag)
}

// NewLinkCmd creates the link command
func NewLinkCmd(a *app) *cobra.Command {
	var open bool

	cmd := &cobra.Command{
		Use:   "link <bucket> <path>",
		Short: "Create a signed access link for a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := nav.New(a.client)
			req := c.RequestFileAccess(args[0], args[1], api.DisplayNameFor(args[1]))
			if err := show(cmd.Context(), cmd.OutOrStdout(), c, req, ""); err != nil {
				return err
			}
			if !open {
				return nil
			}

			link := c.Screen().Link
			if err := actions.NewOpener(a.cfg.Open.Command).Open(link.SignedURL); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), warningText("Could not open a browser. Copy the signed link above instead."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), successText("Opened document in your browser"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&open, "open", "o", false, "open the link in the default browser")
	return cmd
}

// NewPreviewCmd creates the preview command
func NewPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <bucket> <path>",
		Short: "Print the content of a small file",
		Long:  `Print the content of a file. The server refuses files over 50KB.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := nav.New(a.client)
			req := c.RequestFilePreview(args[0], args[1], api.DisplayNameFor(args[1]))
			return show(cmd.Context(), cmd.OutOrStdout(), c, req, "")
		},
	}
}

// NewDownloadCmd creates the download command
func NewDownloadCmd(a *app) *cobra.Command {
	var dir string
	var name string

	cmd := &cobra.Command{
		Use:   "download <bucket> <path>",
		Short: "Save a file through a fresh signed link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			bucket, path := args[0], args[1]
			if name == "" {
				name = api.DisplayNameFor(path)
			}
			if dir == "" {
				dir = a.cfg.Downloads.Dir
			}

			c := nav.New(a.client)
			c.Do(ctx, c.RequestFileAccess(bucket, path, name))
			screen := c.Screen()
			if screen.Status == nav.StatusFailed {
				return errors.Wrap(screen.Err, screen.ErrorText)
			}

			saved, err := actions.NewDownloader(a.client, dir).Save(ctx, screen.Link.SignedURL, name)
			if err != nil {
				return errors.Wrapf(err, "download %s", path)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successText(saved.Notice()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory to save into (defaults to downloads.dir)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "file name without extension (defaults to the display name)")
	return cmd
}
