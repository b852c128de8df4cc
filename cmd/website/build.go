package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexkearns/website"
)

var buildOut string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the site as static files",
	Long: `build renders every page, the feeds and the 404 page into the output
directory and copies the static assets next to them. The output directory
is removed first; build refuses an output directory that holds the
sources.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := checkOutDir(buildOut, ".", cfg.ContentDir, cfg.StaticDir); err != nil {
			return err
		}
		if err := os.RemoveAll(buildOut); err != nil {
			return fmt.Errorf("clean %s: %w", buildOut, err)
		}
		app := website.New(cfg, website.DefaultViews(), website.WithLogger(logger))
		defer app.Close()

		files, err := app.Export(ctx, buildOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d files to %s\n", len(files), buildOut)
		return nil
	},
}

// checkOutDir refuses an output directory that is, or contains, any of the
// protected directories.
func checkOutDir(out string, protected ...string) error {
	absOut, err := filepath.Abs(out)
	if err != nil {
		return err
	}
	for _, p := range protected {
		if p == "" {
			continue
		}
		absP, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if within(absOut, absP) {
			return fmt.Errorf("refusing to clean %s: it contains %s", out, p)
		}
	}
	return nil
}

// within reports whether child is parent or lies beneath it.
func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "out", "output directory")
}
