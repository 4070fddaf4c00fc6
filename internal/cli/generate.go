package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parti-studio/parti/pkg/pipeline"
	"github.com/parti-studio/parti/pkg/render/plan"
	"github.com/parti-studio/parti/pkg/spec"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		seed       int64
		output     string
		configPath string
		noCache    bool
		refresh    bool
		noLabels   bool
		scale      float64
	)

	cmd := &cobra.Command{
		Use:   "generate [spec.json|spec.toml]",
		Short: "Generate building geometry from a design specification",
		Long: `Generate building geometry from a design specification.

The generate command runs the full pipeline: rooms are distributed
across floors, packed into the footprint, stairs and facades are
derived, and the assembled model is validated. Outputs are the model
JSON, one floor plan SVG per storey, and the four elevations.

Results are cached locally under the design fingerprint; identical
spec and seed reuse the cached model. Use --refresh to force
regeneration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := spec.DefaultConfig()
			if configPath != "" {
				loaded, err := spec.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			return c.runGenerate(cmd.Context(), args[0], generateParams{
				seed:    seed,
				output:  output,
				cfg:     cfg,
				noCache: noCache,
				refresh: refresh,
				labels:  !noLabels,
				scale:   scale,
			})
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for packing jitter")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default: spec file name without extension)")
	cmd.Flags().StringVar(&configPath, "config", "", "engine configuration file (TOML)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and regenerate")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "omit room labels from floor plans")
	cmd.Flags().Float64Var(&scale, "scale", 0, "floor plan scale in pixels per metre")

	return cmd
}

type generateParams struct {
	seed    int64
	output  string
	cfg     spec.Config
	noCache bool
	refresh bool
	labels  bool
	scale   float64
}

// runGenerate loads the specification, runs the pipeline, and writes
// the model and drawings.
func (c *CLI) runGenerate(ctx context.Context, input string, p generateParams) error {
	raw, err := loadRawSpec(input)
	if err != nil {
		return err
	}
	ds, source, err := spec.Adapt(raw)
	if err != nil {
		return err
	}
	c.Logger.Debug("specification adapted", "rooms", len(ds.Program.Rooms), "source", source)

	runner, err := c.newRunner(p.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Generating geometry...")
	spinner.Start()

	res, err := runner.Execute(ctx, pipeline.Options{
		Spec:    ds,
		Seed:    p.seed,
		Config:  p.cfg,
		Refresh: p.refresh,
		Logger:  c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	printSuccess("Generated %s", res.Model.Fingerprint[:12])
	printStats(len(res.Model.Floors), res.Validation.Metrics.Rooms, res.CacheInfo.ModelHit)

	if !res.Validation.Valid {
		for _, e := range res.Validation.Errors {
			printError("%s: %s", e.Check, e.Message)
		}
		return fmt.Errorf("generated model failed validation")
	}
	for _, w := range res.Validation.Warnings {
		printWarning("%s: %s", w.Check, w.Message)
	}

	outDir := p.output
	if outDir == "" {
		outDir = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}

	modelJSON, err := json.MarshalIndent(res.Model, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	modelPath := filepath.Join(outDir, "model.json")
	if err := writeFileReport(modelPath, modelJSON); err != nil {
		return err
	}
	printFile(modelPath)

	planOpts := plan.Options{Labels: p.labels, Scale: p.scale}
	for _, f := range res.Model.Floors {
		path := filepath.Join(outDir, fmt.Sprintf("floor-%d.svg", f.Index))
		if err := writeFileReport(path, plan.RenderSVG(f, planOpts)); err != nil {
			return err
		}
		printFile(path)
	}

	elevJSON, err := json.MarshalIndent(res.Elevations, "", "  ")
	if err != nil {
		return fmt.Errorf("encode elevations: %w", err)
	}
	elevPath := filepath.Join(outDir, "elevations.json")
	if err := writeFileReport(elevPath, elevJSON); err != nil {
		return err
	}
	printFile(elevPath)

	printNewline()
	printNextStep("Browse the model", fmt.Sprintf("parti inspect %s", modelPath))
	printNextStep("Adjacency graph", fmt.Sprintf("parti diagram %s", modelPath))
	return nil
}
