// Package expand provides the expand command, the preprocessor run itself.
package expand

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

type expandOptions struct {
	output       string
	packs        []string
	luaPacks     []string
	maxSteps     int
	maxDepth     int
	strictHeader bool
	noColor      bool
	configPath   string

	// injectable for tests
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewCmdExpand creates the expand command.
func NewCmdExpand() *cobra.Command {
	opts := &expandOptions{}

	cmd := &cobra.Command{
		Use:   "expand [file]",
		Short: "Expand a macro script into a VHS tape",
		Long: `Expand reads a macro-bearing tape script, expands every directive line
against the registered macros, and writes the resulting tape.

Reads stdin when no file (or "-") is given.`,
		Example: `  # Expand a script to stdout
  prevhs expand demo.tape.pre

  # Expand stdin into a file
  prevhs expand - -o demo.tape

  # Enable packs for one run without touching the config
  prevhs expand demo.tape.pre --pack typing --pack emoji`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath, _ = cmd.Flags().GetString("config")
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			return runExpand(file, opts, flagsChanged(cmd))
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the tape to this file instead of stdout")
	cmd.Flags().StringArrayVar(&opts.packs, "pack", nil, "enable a bundled pack (repeatable)")
	cmd.Flags().StringArrayVar(&opts.luaPacks, "lua-pack", nil, "load a Lua pack script (repeatable)")
	cmd.Flags().IntVar(&opts.maxSteps, "max-steps", 0, "expansion step budget (default from config, then 10000)")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "expansion depth limit (default from config, then 32)")
	cmd.Flags().BoolVar(&opts.strictHeader, "strict-header", false, "treat header anomalies as errors")

	return cmd
}

// flagsChanged reports which expand flags were set explicitly, so they
// override the config file only when present.
func flagsChanged(cmd *cobra.Command) map[string]bool {
	changed := make(map[string]bool)
	for _, name := range []string{"pack", "lua-pack", "max-steps", "max-depth", "strict-header"} {
		changed[name] = cmd.Flags().Changed(name)
	}
	return changed
}

func runExpand(file string, opts *expandOptions, changed map[string]bool) error {
	if opts.stdin == nil {
		opts.stdin = os.Stdin
	}
	if opts.stdout == nil {
		opts.stdout = os.Stdout
	}
	if opts.stderr == nil {
		opts.stderr = os.Stderr
	}

	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}
	cfg, err := config.LoadWithEnv(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagOverrides(cfg, opts, changed)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	input, err := readInput(file, opts.stdin)
	if err != nil {
		return err
	}

	engOpts := cfg.EngineOptions()
	engOpts.Warnings = opts.stderr
	eng := engine.New(engOpts)

	loaded, err := packload.Apply(eng, cfg)
	if loaded != nil {
		defer loaded.Close()
	}
	if err != nil {
		return err
	}

	out, err := eng.ProcessText(input)
	if err != nil {
		renderer := view.NewRenderer(view.FormatPlain, opts.noColor)
		renderer.SetWriter(opts.stderr)
		renderer.Error(err.Error())
		return err
	}

	return writeOutput(out, opts.output, opts.stdout)
}

// applyFlagOverrides layers explicitly-set flags over the loaded config.
func applyFlagOverrides(cfg *config.Config, opts *expandOptions, changed map[string]bool) {
	if changed["pack"] {
		cfg.Packs = opts.packs
	}
	if changed["lua-pack"] {
		cfg.LuaPacks = opts.luaPacks
	}
	if changed["max-steps"] {
		cfg.MaxExpansionSteps = opts.maxSteps
	}
	if changed["max-depth"] {
		cfg.MaxExpansionDepth = opts.maxDepth
	}
	if changed["strict-header"] && opts.strictHeader {
		cfg.HeaderValidation = string(engine.ValidationError)
	}
}

func readInput(file string, stdin io.Reader) (string, error) {
	if file == "" || file == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	return string(data), nil
}

func writeOutput(tape, path string, stdout io.Writer) error {
	if tape != "" && tape[len(tape)-1] != '\n' {
		tape += "\n"
	}
	if path == "" {
		_, err := io.WriteString(stdout, tape)
		return err
	}
	if err := os.WriteFile(path, []byte(tape), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
