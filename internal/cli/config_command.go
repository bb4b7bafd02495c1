package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/cdigest/internal/config"
)

const (
	configUse                  = "config"
	configShortDescription     = "manage configuration files"
	configInitUse              = "init"
	configInitShortDescription = "write a configuration file with default settings"
	configInitLongDescription  = `Write a starter configuration file holding the default settings.
The local target writes .cdigest.yaml into the working directory; --global writes config.yaml under ~/.cdigest instead.`
	globalFlagName        = "global"
	globalFlagDescription = "write the global configuration under the home directory"
	forceFlagName         = "force"
	forceFlagDescription  = "overwrite an existing configuration file"
	configWrittenTemplate = "Configuration written to: %s\n"
)

// createConfigCommand returns the config command group.
func createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	configCommand.AddCommand(createConfigInitCommand())
	return configCommand
}

// createConfigInitCommand returns the config init subcommand.
func createConfigInitCommand() *cobra.Command {
	var writeGlobal bool
	var forceOverwrite bool

	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Long:  configInitLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			writtenPath, initializationError := config.InitializeSettings(config.InitOptions{
				Target: target,
				Force:  forceOverwrite,
			})
			if initializationError != nil {
				return initializationError
			}
			fmt.Printf(configWrittenTemplate, writtenPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&writeGlobal, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&forceOverwrite, forceFlagName, false, forceFlagDescription)
	return initCommand
}
