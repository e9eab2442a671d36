// Package init provides the init command for prevhs.
package init

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/hesreallyhim/pre-vhs/internal/config"
)

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize prevhs configuration",
		Long: `Initialize prevhs with an interactive form: which macro packs to enable,
how strict header parsing should be, and the expansion guard limits.
The configuration is saved to ~/.config/prevhs/config.yml.`,
		Example: `  # Interactive setup
  prevhs init

  # Write the default configuration without prompting
  prevhs init --defaults`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return runInit(path, defaults)
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "Skip prompts and write the default configuration")

	return cmd
}

func runInit(configPath string, defaults bool) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !defaults {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{
		Packs:            []string{"typing", "spacing"},
		HeaderValidation: "warn",
	}

	if !defaults {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptConfig(cfg *config.Config) error {
	steps := ""
	depth := ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Macro packs").
				Description("Bundled packs registered before every run").
				Options(
					huh.NewOption("typing - Say/Run/Pause/EachLine", "typing").Selected(true),
					huh.NewOption("spacing - blank lines between command groups", "spacing").Selected(true),
					huh.NewOption("emoji - :shortcode: expansion", "emoji"),
					huh.NewOption("probe - run commands at expansion time", "probe"),
				).
				Value(&cfg.Packs),

			huh.NewSelect[string]().
				Title("Header validation").
				Description("How to treat malformed header lines").
				Options(
					huh.NewOption("off - tolerate silently", "off"),
					huh.NewOption("warn - log and continue", "warn"),
					huh.NewOption("error - fail the run", "error"),
				).
				Value(&cfg.HeaderValidation),

			huh.NewInput().
				Title("Expansion step budget (optional)").
				Description("Empty for the default of 10000").
				Placeholder("10000").
				Value(&steps).
				Validate(validateOptionalInt),

			huh.NewInput().
				Title("Expansion depth limit (optional)").
				Description("Empty for the default of 32").
				Placeholder("32").
				Value(&depth).
				Validate(validateOptionalInt),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	if steps != "" {
		cfg.MaxExpansionSteps, _ = strconv.Atoi(steps)
	}
	if depth != "" {
		cfg.MaxExpansionDepth, _ = strconv.Atoi(depth)
	}
	return nil
}

func validateOptionalInt(s string) error {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}
