package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/objsearch/internal/config"
	"github.com/Aman-CERP/objsearch/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage objsearch configuration.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/objsearch/config.yaml)
  3. Project config (.objsearch.yaml in the working directory)
  4. Environment variables (OBJSEARCH_*)`,
		Example: `  objsearch config init
  objsearch config init --project --force
  objsearch config restore --project
  objsearch config show --json
  objsearch config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigRestoreCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force, project bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with defaults",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := configTarget(project)
			if err != nil {
				return err
			}
			return runConfigInit(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file (a backup is kept)")
	cmd.Flags().BoolVar(&project, "project", false, "Write "+config.ProjectFile+" in the working directory instead")
	return cmd
}

func newConfigRestoreCmd() *cobra.Command {
	var project bool

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Put the newest configuration backup back in place",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := configTarget(project)
			if err != nil {
				return err
			}
			restored, err := config.Restore(path)
			if err != nil {
				return err
			}
			out := output.New(cmd.OutOrStdout())
			out.Successf("Restored backup from %s", restored.Taken.Format("2006-01-02 15:04:05"))
			out.Status("", "Location: "+path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&project, "project", false, "Restore "+config.ProjectFile+" in the working directory instead")
	return cmd
}

// configTarget is the user config file, or the project file in the working
// directory.
func configTarget(project bool) (string, error) {
	if !project {
		return config.GetUserConfigPath(), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return filepath.Join(cwd, config.ProjectFile), nil
}

func runConfigInit(cmd *cobra.Command, path string, force bool) error {
	out := output.New(cmd.OutOrStdout())

	var backup config.Backup
	if _, err := os.Stat(path); err == nil {
		if !force {
			out.Warning("Configuration already exists")
			out.Status("", "Location: "+path)
			out.Status("", "Use --force to reset it to defaults (a backup is kept)")
			return nil
		}
		if backup, err = config.BackupFile(path); err != nil {
			return fmt.Errorf("failed to backup config: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.NewConfig().WriteYAML(path); err != nil {
		return err
	}

	out.Success("Created configuration")
	out.Status("", "Location: "+path)
	if backup.Path != "" {
		out.Status("", "Backup: "+backup.Path)
	}
	return nil
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the user config file path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return err
		},
	}
}
