package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"GoldenGai-App/internal/application"
	"GoldenGai-App/internal/config"
	"GoldenGai-App/internal/domain/helper"
	"GoldenGai-App/internal/domain/model"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gaictl",
		Short:         "Golden Gai venue store maintenance",
		Long:          `Import the Golden Gai grid, inspect venues and repair the store from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newImportCmd(), newValidateCmd(), newVenuesCmd(), newStatsCmd(), newTranslateCmd())
	return root
}

// withContainer 設定を読み込んでコンテナを開き、終了時に閉じる
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *application.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := application.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import a grid JSON file and replace all venues",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *application.Container) error {
				path := c.Config.ImportFile
				if len(args) == 1 {
					path = args[0]
				}
				result, err := c.Import.ImportFile(ctx, path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d venues (%d merged) from %dx%d grid\n",
					result.VenueCount, result.MergedCount, result.Rows, result.Columns)
				return nil
			})
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Assign fresh ids to venues with empty or duplicate ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *application.Container) error {
				repaired, err := c.Venue.ValidateIntegrity(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "repaired %d venue ids\n", repaired)
				return nil
			})
		},
	}
}

func newVenuesCmd() *cobra.Command {
	var visitedOnly bool
	var lang string

	cmd := &cobra.Command{
		Use:   "venues",
		Short: "List venues in grid order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *application.Container) error {
				settings := c.Config.Settings()
				if lang != "" {
					settings = settings.WithLanguage(model.ParseLanguage(lang))
				}
				views, err := c.Venue.ListVenues(ctx, settings, visitedOnly)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ROW\tCOL\tSPAN\tNAME\tVISITED\tID")
				for _, v := range views {
					fmt.Fprintf(tw, "%d\t%d\t%dx%d\t%s\t%v\t%s\n",
						v.Row, v.Column, v.SpanRows, v.SpanColumns, v.DisplayName, v.Visited, v.ID)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&visitedOnly, "visited", false, "only list visited venues")
	cmd.Flags().StringVar(&lang, "lang", "", "display language (ja or en)")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show visit and photo cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *application.Container) error {
				stats, err := c.Venue.Stats(ctx)
				if err != nil {
					return err
				}
				photos, err := c.Photo.Stats(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "venues:  %d\n", stats.Total)
				fmt.Fprintf(out, "visited: %d\n", stats.Visited)
				fmt.Fprintf(out, "photos:  %d (%s)\n", photos.Count, photos.TotalSize)
				return nil
			})
		},
	}
}

func newTranslateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "translate <name>...",
		Short: "Show the English display name for venue names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			translator, err := helper.NewNameTranslator()
			if err != nil {
				return err
			}
			for _, name := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, translator.Translate(name, model.LanguageEnglish))
			}
			return nil
		},
	}
}
