package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dashloom/dashloom-cli/internal/dataset"
	"github.com/dashloom/dashloom-cli/internal/schema"
)

var schemaMaxRows int

var schemaCmd = &cobra.Command{
	Use:   "schema <file>",
	Short: "Detect and print a CSV dataset's column schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		opt := dataset.Options{
			MaxRows:    cfg.MaxRows,
			MaxColumns: cfg.MaxColumns,
			Seed:       cfg.SampleSeed,
		}
		if schemaMaxRows > 0 {
			opt.MaxRows = schemaMaxRows
		}
		ds, warnings, err := dataset.LoadFile(args[0], opt)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
		}
		info := schema.Detect(ds, nil, schema.Options{
			MaxUniqueForCategorical: cfg.CategoricalCardinality,
		})
		b, err := yaml.Marshal(info)
		if err != nil {
			return fmt.Errorf("marshal schema: %w", err)
		}
		fmt.Print(string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().IntVar(&schemaMaxRows, "max-rows", 0, "maximum rows to load (overrides config)")
}
