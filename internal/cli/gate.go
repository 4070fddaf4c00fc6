package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parti-studio/parti/pkg/gate"
	"github.com/parti-studio/parti/pkg/spec"
)

// gateCommand creates the gate command.
func (c *CLI) gateCommand() *cobra.Command {
	var (
		modelPath  string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "gate [manifest.toml]",
		Short: "Run consistency gates over a rendered panel batch",
		Long: `Run consistency gates over a rendered panel batch.

The manifest lists the panels of one drawing set batch: panel id,
type, image file, and the metadata stamped at render time. Each panel
is checked for geometry fidelity (fingerprint and hash stamps) and,
for rasterized panel types, render sanity (blank or degenerate
output). When --design points at a generated model, the locked room
program is checked against the model's actual geometry.

A batch passes only as a whole; any failed panel or program violation
yields the retry_failed action with per-panel reasons.`,
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
			return c.runGate(cmd, args[0], modelPath, cfg)
		},
	}

	cmd.Flags().StringVar(&modelPath, "design", "", "generated model to check program compliance against")
	cmd.Flags().StringVar(&configPath, "config", "", "engine configuration file (TOML)")

	return cmd
}

func (c *CLI) runGate(cmd *cobra.Command, manifestPath, modelPath string, cfg spec.Config) error {
	batch, err := gate.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	ref := gate.Reference{Fingerprint: batch.Fingerprint}
	if modelPath != "" {
		m, err := loadModel(modelPath)
		if err != nil {
			return err
		}
		lock := m.Lock()
		ref.Model = m
		ref.Lock = &lock
	}

	g := gate.New(cfg, c.Logger)
	res, err := g.Run(cmd.Context(), batch, ref)
	if err != nil {
		return err
	}

	printKeyValue("Batch", res.BatchID)
	printKeyValue("Panels", fmt.Sprintf("%d checked", res.Checked))
	printNewline()

	for _, v := range res.Violations {
		printWarning("program: %s", v)
	}
	for _, f := range res.FailedPanels {
		printError("%s: %s", f.PanelID, strings.Join(f.Reasons, "; "))
	}

	if res.CanCompose {
		printSuccess("Batch passed, ready to compose")
		return nil
	}
	printError("Batch failed, action: %s", res.Action)
	if len(res.FailedPanels) == 0 {
		return fmt.Errorf("gate reported %d program violations", len(res.Violations))
	}
	return fmt.Errorf("gate rejected %d of %d panels", len(res.FailedPanels), res.Checked)
}
