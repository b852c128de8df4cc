package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexkearns/website/scaffold"
)

var newArticle scaffold.Article

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a new article",
	Example: `  website new "Getting started with AWS CDK"
  website new --slug aws-cdk/part-2 --series "AWS CDK" "Constructs"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newArticle
		if len(args) == 1 {
			a.Title = args[0]
		}
		if a.Author == "" {
			a.Author = cfg.Author
		}
		a.Date = time.Now()

		dir := filepath.Join(cfg.ContentDir, cfg.ArticlesDir)
		path, err := scaffold.NewArticle(dir, a)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

func init() {
	newCmd.Flags().StringVar(&newArticle.Slug, "slug", "", "article slug, may contain /")
	newCmd.Flags().StringVar(&newArticle.Description, "description", "", "article description")
	newCmd.Flags().StringVar(&newArticle.Series, "series", "", "series the article belongs to")
	newCmd.Flags().StringVar(&newArticle.Author, "author", "", "author (default from config)")
}
