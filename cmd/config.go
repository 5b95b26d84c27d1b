package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/dashloom/dashloom-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set DashLoom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("api_key: %s\n", mask(cfg.APIKey))
		fmt.Printf("model: %s\n", cfg.Model)
		fmt.Printf("max_rows: %d\n", cfg.MaxRows)
		fmt.Printf("max_columns: %d\n", cfg.MaxColumns)
		fmt.Printf("sample_seed: %d\n", cfg.SampleSeed)
		fmt.Printf("categorical_cardinality: %d\n", cfg.CategoricalCardinality)
		fmt.Printf("min_correlation: %.3f\n", cfg.MinCorrelation)
		fmt.Printf("max_bars: %d\n", cfg.MaxBars)
		fmt.Printf("max_univariate_plots: %d\n", cfg.MaxUnivariate)
		fmt.Printf("max_bivariate_plots: %d\n", cfg.MaxBivariate)
		fmt.Printf("numerical_slots: %d\n", cfg.NumericalSlots)
		fmt.Printf("categorical_slots: %d\n", cfg.CategoricalSlots)
		fmt.Printf("output_dir: %s\n", cfg.OutputDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "api_key":
			cfg.APIKey = val
		case "model":
			cfg.Model = val
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case "max_columns":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for max_columns: %v", val)
			}
			cfg.MaxColumns = i
		case "sample_seed":
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int for sample_seed: %v", val)
			}
			cfg.SampleSeed = i
		case "categorical_cardinality":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for categorical_cardinality: %v", val)
			}
			cfg.CategoricalCardinality = i
		case "min_correlation":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("invalid float for min_correlation: %v (use 0..1)", val)
			}
			cfg.MinCorrelation = f
		case "max_bars":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for max_bars: %v", val)
			}
			cfg.MaxBars = i
		case "max_univariate_plots":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for max_univariate_plots: %v", val)
			}
			cfg.MaxUnivariate = i
		case "max_bivariate_plots":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for max_bivariate_plots: %v", val)
			}
			cfg.MaxBivariate = i
		case "numerical_slots":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for numerical_slots: %v", val)
			}
			cfg.NumericalSlots = i
		case "categorical_slots":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for categorical_slots: %v", val)
			}
			cfg.CategoricalSlots = i
		case "output_dir":
			cfg.OutputDir = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
