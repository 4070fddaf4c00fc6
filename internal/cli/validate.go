package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parti-studio/parti/pkg/model"
	"github.com/parti-studio/parti/pkg/pipeline"
	"github.com/parti-studio/parti/pkg/spec"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		seed       int64
		configPath string
		modelOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "validate [spec.json|model.json]",
		Short: "Check a specification or generated model for consistency",
		Long: `Check a specification or generated model for consistency.

Given a specification, validate runs the full pipeline in memory and
reports the model validation result without writing artifacts. Given a
generated model (--model), it re-runs validation on the stored
geometry: floor continuity, stair coverage, room geometry, and facade
consistency.

The exit status is non-zero when validation reports errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if modelOnly {
				return c.runValidateModel(args[0])
			}
			cfg := spec.DefaultConfig()
			if configPath != "" {
				loaded, err := spec.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			return c.runValidateSpec(cmd, args[0], seed, cfg)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for packing jitter")
	cmd.Flags().StringVar(&configPath, "config", "", "engine configuration file (TOML)")
	cmd.Flags().BoolVar(&modelOnly, "model", false, "treat the input as a generated model, not a specification")

	return cmd
}

func (c *CLI) runValidateSpec(cmd *cobra.Command, input string, seed int64, cfg spec.Config) error {
	raw, err := loadRawSpec(input)
	if err != nil {
		return err
	}
	ds, source, err := spec.Adapt(raw)
	if err != nil {
		printError("Specification rejected")
		printDetail("%s", err)
		return err
	}
	printSuccess("Specification is well formed")
	printKeyValue("Rooms", fmt.Sprintf("%d (%s)", len(ds.Program.Rooms), source))
	printKeyValue("Floors", fmt.Sprintf("%d", ds.Program.FloorCount))
	printKeyValue("Footprint", fmt.Sprintf("%.1f x %.1f m", ds.Massing.FootprintWidth, ds.Massing.FootprintDepth))

	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.Execute(cmd.Context(), pipeline.Options{
		Spec:   ds,
		Seed:   seed,
		Config: cfg,
		Logger: c.Logger,
	})
	if err != nil {
		printError("Pipeline failed")
		printDetail("%s", err)
		return err
	}
	return printValidation(res.Validation)
}

func (c *CLI) runValidateModel(input string) error {
	m, err := loadModel(input)
	if err != nil {
		return err
	}
	return printValidation(m.Validate())
}

// printValidation renders a validation result and returns an error
// when the result is invalid so the command exits non-zero.
func printValidation(v model.ValidationResult) error {
	printNewline()
	printKeyValue("Floors", fmt.Sprintf("%d", v.Metrics.Floors))
	printKeyValue("Rooms", fmt.Sprintf("%d", v.Metrics.Rooms))
	printKeyValue("Walls", fmt.Sprintf("%d", v.Metrics.Walls))
	printKeyValue("Stairs", fmt.Sprintf("%d", v.Metrics.Stairs))
	printNewline()

	for _, w := range v.Warnings {
		printWarning("%s: %s", w.Check, w.Message)
	}
	if !v.Valid {
		for _, e := range v.Errors {
			printError("%s: %s", e.Check, e.Message)
		}
		return fmt.Errorf("validation failed with %d errors", len(v.Errors))
	}
	printSuccess("Model is consistent")
	return nil
}
