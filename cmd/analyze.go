package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dashloom/dashloom-cli/internal/ai"
	"github.com/dashloom/dashloom-cli/internal/dataset"
	"github.com/dashloom/dashloom-cli/internal/plan"
	"github.com/dashloom/dashloom-cli/internal/report"
	"github.com/dashloom/dashloom-cli/internal/schema"
)

var (
	anaSchemaText string
	anaSchemaFile string
	anaMaxRows    int
	anaNoAI       bool
	anaOutputPath string
	anaFormat     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a CSV dataset and produce a chart plan with commentary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		switch anaFormat {
		case "yaml", "markdown":
		default:
			return fmt.Errorf("unsupported --format: %s (use yaml or markdown)", anaFormat)
		}

		opt := dataset.Options{
			MaxRows:    cfg.MaxRows,
			MaxColumns: cfg.MaxColumns,
			Seed:       cfg.SampleSeed,
		}
		if anaMaxRows > 0 {
			opt.MaxRows = anaMaxRows
		}
		ds, warnings, err := dataset.LoadFile(path, opt)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
		}

		ctx := cmd.Context()
		useAI := !anaNoAI && cfg.APIKey != ""
		if !anaNoAI && cfg.APIKey == "" {
			fmt.Fprintln(os.Stderr, "⚠ No API key configured; skipping AI steps (set OPENAI_API_KEY or run 'dashloom config set api_key ...')")
		}

		var userSchema *schema.UserSchema
		schemaText, err := resolveSchemaText()
		if err != nil {
			return err
		}
		if schemaText != "" && useAI {
			us, err := ai.ParseSchemaText(ctx, newAIClient(), cfg.Model, schemaText, ds.ColumnNames())
			if err != nil {
				fmt.Fprintf(os.Stderr, "⚠ Warning: schema text ignored: %v\n", err)
			} else {
				userSchema = us
			}
		}

		info := schema.Detect(ds, userSchema, schema.Options{
			MaxUniqueForCategorical: cfg.CategoricalCardinality,
		})

		limits := plan.Limits{
			MaxUnivariate:    cfg.MaxUnivariate,
			MaxBivariate:     cfg.MaxBivariate,
			MaxBars:          cfg.MaxBars,
			MinCorrelation:   cfg.MinCorrelation,
			NumericalSlots:   cfg.NumericalSlots,
			CategoricalSlots: cfg.CategoricalSlots,
		}
		univariate := plan.BuildUnivariate(ds, info, limits)
		bivariate := plan.BuildBivariate(ds, info, limits)

		var insights []plan.PlotSpec
		commentary := map[string]string{}
		if useAI {
			client := newAIClient()
			questions, err := ai.GenerateQuestions(ctx, client, cfg.Model, ds, info)
			if err != nil {
				fmt.Fprintf(os.Stderr, "⚠ Warning: question generation failed: %v\n", err)
			} else {
				insights = ai.QuestionSpecs(ds, questions)
			}

			all := make([]plan.PlotSpec, 0, len(univariate)+len(bivariate)+len(insights))
			all = append(all, univariate...)
			all = append(all, bivariate...)
			all = append(all, insights...)
			commentary = ai.NewCommentator(client, cfg.Model).Generate(ctx, all)
		}

		rep := report.New(ds, info, warnings)
		rep.AttachPlots(univariate, bivariate, insights, commentary)

		saved, err := rep.Save(cfg.OutputDir)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Report saved to %s\n", saved)

		if anaOutputPath != "" || anaFormat == "markdown" {
			md := rep.Markdown()
			if anaOutputPath != "" {
				if err := os.WriteFile(anaOutputPath, []byte(md), 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Printf("✓ Wrote report to %s\n", anaOutputPath)
			} else {
				fmt.Println(md)
			}
		}
		return nil
	},
}

// resolveSchemaText prefers --schema-text and falls back to --schema-file.
func resolveSchemaText() (string, error) {
	if anaSchemaText != "" {
		return anaSchemaText, nil
	}
	if anaSchemaFile == "" {
		return "", nil
	}
	b, err := os.ReadFile(anaSchemaFile)
	if err != nil {
		return "", fmt.Errorf("read schema file: %w", err)
	}
	return string(b), nil
}

func newAIClient() *ai.Client {
	return ai.NewClient(
		cfg.APIKey,
		time.Duration(cfg.HTTPTimeoutSec)*time.Second,
		cfg.RetryMaxAttempts,
		time.Duration(cfg.RetryBaseDelayMs)*time.Millisecond,
		time.Duration(cfg.RetryMaxDelayMs)*time.Millisecond,
	)
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaSchemaText, "schema-text", "", "free-form description of the dataset's columns")
	analyzeCmd.Flags().StringVar(&anaSchemaFile, "schema-file", "", "file containing a free-form column description")
	analyzeCmd.Flags().IntVar(&anaMaxRows, "max-rows", 0, "maximum rows to load (overrides config)")
	analyzeCmd.Flags().BoolVar(&anaNoAI, "no-ai", false, "skip AI question generation and commentary")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report (Markdown)")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "yaml", "report format: 'yaml' (saved to output dir) or 'markdown' (printed)")
}
