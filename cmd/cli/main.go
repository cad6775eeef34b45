package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"mandamentos/domain/commandment"
	"mandamentos/internal/config"
	"mandamentos/internal/container"
	"mandamentos/internal/errors"
	"mandamentos/internal/logging"
	"mandamentos/internal/policy"
	"mandamentos/internal/selection"
	"mandamentos/ui"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	profile  string
	sheetURL string
	format   string
	logLevel string
	json     bool
}

func main() {
	_ = godotenv.Load()

	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "mandamentos",
		Short:         "Browse the commandments sheet and the project blog from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.profile, "profile", "", "Normalization profile (overrides POLICY_PROFILE)")
	rootCmd.PersistentFlags().StringVar(&flags.sheetURL, "sheet-url", "", "Published sheet URL (overrides SHEET_URL)")
	rootCmd.PersistentFlags().StringVar(&flags.format, "format", "", "Sheet format: csv, xlsx or auto (overrides SHEET_FORMAT)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&flags.json, "json", false, "Print JSON instead of text")

	rootCmd.AddCommand(
		newCategoriesCmd(flags),
		newListCmd(flags),
		newChartsCmd(flags),
		newBlogCmd(flags),
		newProfilesCmd(flags),
		newStatusCmd(flags),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if msg := errors.UserMessage(err); errors.IsAppError(err) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}

// buildContainer loads the environment configuration and applies flag
// overrides on top
func buildContainer(flags *globalFlags) (*container.Container, error) {
	overrides := map[string]string{
		"POLICY_PROFILE": flags.profile,
		"SHEET_URL":      flags.sheetURL,
		"SHEET_FORMAT":   flags.format,
		"LOG_LEVEL":      flags.logLevel,
	}
	for key, value := range overrides {
		if value != "" {
			if err := os.Setenv(key, value); err != nil {
				return nil, err
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Log.Level, os.Stderr)
	return container.New(cfg, logger)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newCategoriesCmd(flags *globalFlags) *cobra.Command {
	var mode, source string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the blocks or tomes available for filtering",
		Example: `  mandamentos categories --mode tomos
  mandamentos categories --source static`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := commandment.ParseMode(mode)
			if err != nil {
				return errors.WithCode(errors.CodeInvalidInput, err)
			}
			c, err := buildContainer(flags)
			if err != nil {
				return err
			}

			src := policy.CategorySource(source)
			if src == "" {
				src = c.Profile.Categories
			}
			if src == policy.SourceDynamic {
				if err := c.Library.EnsureLoaded(cmd.Context()); err != nil {
					return err
				}
			}

			entries := c.Library.Categories(m, src)
			if flags.json {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\n", e.Title, e.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(commandment.DefaultMode), "Taxonomy: blocos or tomos")
	cmd.Flags().StringVar(&source, "source", "", "Category source: static or dynamic (default from profile)")
	return cmd
}

func newListCmd(flags *globalFlags) *cobra.Command {
	var mode, category string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the commandments in one block or tome",
		Example: `  mandamentos list --mode tomos --category "Amor (Ahavá)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := commandment.ParseMode(mode)
			if err != nil {
				return errors.WithCode(errors.CodeInvalidInput, err)
			}
			sel := selection.New()
			if err := sel.SelectMode(m); err != nil {
				return err
			}
			if err := sel.SelectCategory(category); err != nil {
				return err
			}

			c, err := buildContainer(flags)
			if err != nil {
				return err
			}
			if err := c.Library.EnsureLoaded(cmd.Context()); err != nil {
				return err
			}

			records := c.Library.Filter(sel)
			if flags.json {
				return printJSON(cmd.OutOrStdout(), records)
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintf(out, "Nenhum mandamento encontrado em %s.\n", category)
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(out, "#%s [%s] %s / %s\n", r.ID, r.Mode, r.Block, r.Tomo)
				for _, entry := range r.Content {
					fmt.Fprintf(out, "    %s: %s\n", entry.Label, entry.Value)
				}
			}
			fmt.Fprintf(out, "\n%d mandamento(s)\n", len(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(commandment.DefaultMode), "Taxonomy: blocos or tomos")
	cmd.Flags().StringVar(&category, "category", "", "Block or tome title")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newChartsCmd(flags *globalFlags) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Show the positive/negative split and the top tomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(flags)
			if err != nil {
				return err
			}
			if err := c.Library.EnsureLoaded(cmd.Context()); err != nil {
				return err
			}

			summary := c.Library.Summary()
			if flags.json {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"summary": summary,
					"charts":  ui.ChartConfigs(summary),
				})
			}

			board := ui.NewBoard(c.Logger)
			if err := board.Update(summary); err != nil {
				return err
			}
			if err := board.Attach(ui.NewTextSurface(cmd.OutOrStdout(), width)); err != nil {
				return err
			}
			defer board.Detach()

			s := summary.Spread
			fmt.Fprintf(cmd.OutOrStdout(), "%d tomos, média %.1f, mediana %.1f, máximo %d\n", s.Buckets, s.Mean, s.Median, s.Max)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 40, "Widest bar in cells")
	return cmd
}

func newBlogCmd(flags *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "blog",
		Short: "Show the latest blog posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(flags)
			if err != nil {
				return err
			}
			if err := c.Blog.EnsureLoaded(cmd.Context()); err != nil {
				return err
			}

			posts := c.Blog.Posts()
			if limit > 0 && len(posts) > limit {
				posts = posts[:limit]
			}
			if flags.json {
				raw := make([]map[string]any, len(posts))
				for i, p := range posts {
					raw[i] = p.Raw
				}
				return printJSON(cmd.OutOrStdout(), raw)
			}
			out := cmd.OutOrStdout()
			for _, p := range posts {
				fmt.Fprintf(out, "%s\n  %s\n", p.Title(), p.Link())
				if when, ok := p.Published(); ok {
					fmt.Fprintf(out, "  %s\n", when.Format("02/01/2006"))
				}
				if excerpt := p.Excerpt(160); excerpt != "" {
					fmt.Fprintf(out, "  %s\n", excerpt)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum posts to show (0 for all)")
	return cmd
}

func newProfilesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the built-in normalization profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles := make([]*policy.Profile, 0)
			for _, name := range policy.Names() {
				p, err := policy.Load(name)
				if err != nil {
					return err
				}
				profiles = append(profiles, p)
			}
			if flags.json {
				return printJSON(cmd.OutOrStdout(), profiles)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tMATCH\tCATEGORIES\tDESCRIPTION")
			for _, p := range profiles {
				name := p.Name
				if name == policy.DefaultProfile {
					name += " (default)"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", name, p.Version, p.Match, p.Categories, strings.TrimSpace(p.Description))
			}
			return w.Flush()
		},
	}
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Load the sheet and the blog and report what arrived",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			preloadErr := c.Preload(ctx)

			lib, blog := c.Library.Status(), c.Blog.Status()
			if flags.json {
				if err := printJSON(cmd.OutOrStdout(), map[string]any{"library": lib, "blog": blog}); err != nil {
					return err
				}
				return preloadErr
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "planilha: %d registros (perfil %s)", lib.Records, lib.Profile)
			if lib.Message != "" {
				fmt.Fprintf(out, " - %s", lib.Message)
			}
			fmt.Fprintf(out, "\nblog: %d posts", blog.Posts)
			if blog.Message != "" {
				fmt.Fprintf(out, " - %s", blog.Message)
			}
			fmt.Fprintln(out)
			return preloadErr
		},
	}
}
