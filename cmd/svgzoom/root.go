package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/benoitkugler/svgzoom/cmd/svgzoom/internal/config"
	"github.com/benoitkugler/svgzoom/svgdoc"
	"github.com/benoitkugler/svgzoom/svgzoom"
	"github.com/spf13/cobra"
)

// app is shared by the commands; it is filled
// by the persistent flags and the configuration file
type app struct {
	configPath string
	layer      string
	logLevel   string

	cfg  *config.Config
	mode svgdoc.ErrorMode
}

func newRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "svgzoom",
		Short: "Pan and zoom graph drawings",
		Long: `svgzoom drives the view of SVG graph drawings (as produced by graphviz):
it prepares documents for embedding, applies pan and zoom operations,
renders overview images and serves documents in a live browser viewer.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.layer, "layer", "", "id of the graph layer (overrides the configuration)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides the configuration)")

	rootCmd.AddCommand(newPrepareCommand(a))
	rootCmd.AddCommand(newApplyCommand(a))
	rootCmd.AddCommand(newInspectCommand(a))
	rootCmd.AddCommand(newMinimapCommand(a))
	rootCmd.AddCommand(newServeCommand(a))
	return rootCmd
}

// setup loads the configuration, applies the flags overrides
// and installs the default logger
func (a *app) setup(logOutput io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	// CLI takes precedence
	if a.layer != "" {
		cfg.Layer = a.layer
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.mode, _ = cfg.Mode()

	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level})))
	return nil
}

func (a *app) readDocument(file string) (*svgdoc.Document, error) {
	doc, err := svgdoc.ReadFile(file, a.mode)
	if err != nil {
		return nil, err
	}
	slog.Debug("document loaded", "file", file)
	return doc, nil
}

// view reads `file` and initializes its view from the nominal dimensions
func (a *app) view(file string) (*svgdoc.Document, *svgzoom.View, error) {
	doc, err := a.readDocument(file)
	if err != nil {
		return nil, nil, err
	}
	surface, err := doc.Surface(a.cfg.Layer)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", file, err)
	}
	view := surface.Initialize(doc.Dimensions())
	view.SetZoomStep(a.cfg.ZoomStep)
	return doc, view, nil
}

// writeDocument writes to `output`, or to `stdout` if output is empty or "-"
func writeDocument(doc *svgdoc.Document, output string, stdout io.Writer) error {
	if output == "" || output == "-" {
		return doc.Encode(stdout)
	}
	if err := doc.WriteFile(output); err != nil {
		return err
	}
	slog.Info("document written", "file", output)
	return nil
}

func applyOps(view *svgzoom.View, script []string) error {
	ops, err := svgzoom.ParseOps(script)
	if err != nil {
		return err
	}
	for _, op := range ops {
		op.ApplyTo(view)
		slog.Debug("applied", "op", op.String(), "scale", view.State().Scale())
	}
	return nil
}

// exists reports an error early, with the file name
func exists(file string) error {
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("input file: %w", err)
	}
	return nil
}
