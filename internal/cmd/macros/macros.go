// Package macros provides the macros command, which lists every macro the
// configured engine would register.
package macros

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hesreallyhim/pre-vhs/internal/config"
	"github.com/hesreallyhim/pre-vhs/internal/packload"
	"github.com/hesreallyhim/pre-vhs/internal/view"
	"github.com/hesreallyhim/pre-vhs/pkg/engine"
)

type macrosOptions struct {
	output     string
	noColor    bool
	configPath string

	stdout io.Writer
}

// NewCmdMacros creates the macros command.
func NewCmdMacros() *cobra.Command {
	opts := &macrosOptions{}

	cmd := &cobra.Command{
		Use:   "macros",
		Short: "List registered macros",
		Long: `List the macros the configured packs register, with their activation
requirement and argument binding metadata.`,
		Example: `  # Table of all macros
  prevhs macros

  # Machine-readable listing
  prevhs macros --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath, _ = cmd.Flags().GetString("config")
			return runMacros(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "output format: table, json, plain")

	return cmd
}

func runMacros(opts *macrosOptions) error {
	if opts.stdout == nil {
		opts.stdout = os.Stdout
	}
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}
	cfg, err := config.LoadWithEnv(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	eng := engine.New(cfg.EngineOptions())
	loaded, err := packload.Apply(eng, cfg)
	if loaded != nil {
		defer loaded.Close()
	}
	if err != nil {
		return err
	}

	infos := eng.Macros()
	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)

	if opts.output == "json" {
		return renderer.RenderJSON(infos)
	}

	headers := []string{"NAME", "ACTIVATION", "ARGS", "ORIGIN"}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Name,
			activation(info),
			binding(info),
			info.Origin,
		})
	}
	renderer.RenderTable(headers, rows)
	return nil
}

func activation(info engine.MacroInfo) string {
	if info.AlwaysOn {
		return "always"
	}
	return "Use"
}

func binding(info engine.MacroInfo) string {
	switch {
	case info.PerLine:
		return "per-line"
	case info.Greedy && info.Args > 0:
		return fmt.Sprintf("%d + greedy", info.Args)
	case info.Greedy:
		return "greedy"
	default:
		return fmt.Sprintf("%d", info.Args)
	}
}
