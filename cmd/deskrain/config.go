package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/deskrain/internal/config"
	"github.com/1broseidon/deskrain/internal/tui"
)

var configOpts struct {
	path     string
	defaults bool
	force    bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate or print the configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config file for errors",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigPrint,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or edit the config file interactively",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd, configPrintCmd, configInitCmd)

	configCmd.PersistentFlags().StringVar(&configOpts.path, "path", "",
		"Config file to read (default: --config or ~/.config/deskrain/config.yaml)")
	configPrintCmd.Flags().BoolVar(&configOpts.defaults, "defaults", false,
		"Print built-in defaults, ignoring any config file")
	configInitCmd.Flags().BoolVar(&configOpts.force, "force", false,
		"Start from defaults even if a config file exists")
}

func configFilePath() (string, error) {
	if configOpts.path != "" {
		return configOpts.path, nil
	}
	if globalOpts.configPath != "" {
		return globalOpts.configPath, nil
	}
	return config.DefaultConfigPath()
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		fmt.Println(tui.Failed(err.Error()))
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid config: %w", err)
		}
		return err
	}

	if res.File == "" {
		fmt.Println(tui.OK(path + ": not found, using defaults"))
	} else {
		fmt.Println(tui.OK(res.File))
	}
	for _, w := range res.Config.Warnings() {
		fmt.Println(tui.Warning(w))
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	start := config.DefaultConfig()
	if !configOpts.force {
		res, err := config.LoadFromPath(path)
		if err != nil {
			return fmt.Errorf("%w (use --force to start from defaults)", err)
		}
		start = res.Config
	}

	cfg, err := tui.RunWizard(start)
	if errors.Is(err, tui.ErrAborted) {
		fmt.Println("Aborted, nothing written.")
		return nil
	}
	if err != nil {
		return err
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Println(tui.OK("wrote " + path))
	return nil
}

func runConfigPrint(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if !configOpts.defaults {
		path, err := configFilePath()
		if err != nil {
			return err
		}
		res, err := config.LoadFromPath(path)
		if err != nil {
			return err
		}
		cfg = res.Config
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}
