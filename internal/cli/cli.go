// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/cdigest/internal/analysis"
	"github.com/temirov/cdigest/internal/config"
	"github.com/temirov/cdigest/internal/output"
	"github.com/temirov/cdigest/internal/tokenizer"
	"github.com/temirov/cdigest/internal/utils"
)

const (
	maxDepthFlagName          = "max-depth"
	maxDepthFlagShorthand     = "d"
	outputFormatFlagName      = "output-format"
	outputFormatFlagShorthand = "o"
	outputFileFlagName        = "file"
	outputFileFlagShorthand   = "f"
	showSizeFlagName          = "show-size"
	showIgnoredFlagName       = "show-ignored"
	ignoreFlagName            = "ignore"
	noDefaultIgnoresFlagName  = "no-default-ignores"
	noContentFlagName         = "no-content"
	maxSizeFlagName           = "max-size"
	clipboardFlagName         = "copy-to-clipboard"
	noInputFlagName           = "no-input"
	modelFlagName             = "model"
	configFileFlagName        = "config"
	versionFlagName           = "version"
	versionTemplate           = "cdigest version: %s\n"
	defaultPath               = "."
	defaultMaxSizeKB          = 10240
	rootUse                   = "cdigest [path]"
	rootShortDescription      = "Analyze and visualize codebase structure"
	rootLongDescription       = `cdigest walks a directory tree and renders a codebase digest suitable for feeding to a language model.
The digest combines the filtered directory structure, per-file contents, byte sizes, and token counts.
Use --output-format to select text, json, markdown, xml, or html output, and --version to print the application version.`

	// rootUsageExample demonstrates common invocations.
	rootUsageExample = `  # Digest the current directory into markdown
  cdigest -o markdown .

  # Skip file contents and add extra ignore patterns
  cdigest --no-content --ignore '*.md' --ignore 'tmp*' ./src`

	maxDepthFlagDescription         = "maximum depth for directory traversal"
	outputFormatFlagDescription     = "output format (text, json, markdown, xml, html)"
	outputFileFlagDescription       = "output file name (default: <directory>_codebase_digest.<extension>)"
	showSizeFlagDescription         = "show file sizes in the directory tree"
	showIgnoredFlagDescription      = "show ignored files and directories in the tree"
	ignoreFlagDescription           = "additional ignore patterns; repeatable or comma separated"
	noDefaultIgnoresFlagDescription = "do not use the default ignore patterns"
	noContentFlagDescription        = "exclude file contents from the output"
	maxSizeFlagDescription          = "maximum allowed text content size in KB"
	clipboardFlagDescription        = "copy the output to the clipboard after analysis"
	noInputFlagDescription          = "run without any interactive prompts"
	modelFlagDescription            = "tokenizer model used for token counting"
	configFileFlagDescription       = "explicit configuration file path"
	versionFlagDescription          = "display application version"
	invalidFormatMessage            = "Invalid format value '%s'"
)

// digestOptions stores the effective settings for one digest run after
// configuration files and flags are merged.
type digestOptions struct {
	maxDepth         int
	outputFormat     string
	outputFile       string
	showSize         bool
	showIgnored      bool
	ignorePatterns   []string
	noDefaultIgnores bool
	noContent        bool
	maxSizeKB        int
	copyToClipboard  bool
	noInput          bool
	model            string
	configFile       string
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(formatName string) bool {
	return utils.ContainsString(output.SupportedFormats(), formatName)
}

// Execute runs the cdigest application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool
	var options digestOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			analysisPath := defaultPath
			if len(arguments) > 0 {
				analysisPath = arguments[0]
			}
			settings, settingsError := config.LoadSettings(config.LoadOptions{ExplicitFilePath: options.configFile})
			if settingsError != nil {
				return settingsError
			}
			applySettings(command.Flags(), &options, settings)
			options.outputFormat = strings.ToLower(options.outputFormat)
			if !isSupportedFormat(options.outputFormat) {
				return fmt.Errorf(invalidFormatMessage, options.outputFormat)
			}
			runner := newDigestRunner(logger)
			return runner.runDigest(analysisPath, options)
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	registerDigestFlags(rootCommand, &options)
	rootCommand.AddCommand(createConfigCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// registerDigestFlags registers the digest flags on the command with their
// built-in defaults.
func registerDigestFlags(command *cobra.Command, options *digestOptions) {
	command.Flags().IntVarP(&options.maxDepth, maxDepthFlagName, maxDepthFlagShorthand, analysis.UnlimitedDepth, maxDepthFlagDescription)
	command.Flags().StringVarP(&options.outputFormat, outputFormatFlagName, outputFormatFlagShorthand, output.FormatText, outputFormatFlagDescription)
	command.Flags().StringVarP(&options.outputFile, outputFileFlagName, outputFileFlagShorthand, utils.EmptyString, outputFileFlagDescription)
	command.Flags().BoolVar(&options.showSize, showSizeFlagName, false, showSizeFlagDescription)
	command.Flags().BoolVar(&options.showIgnored, showIgnoredFlagName, false, showIgnoredFlagDescription)
	command.Flags().StringSliceVar(&options.ignorePatterns, ignoreFlagName, nil, ignoreFlagDescription)
	command.Flags().BoolVar(&options.noDefaultIgnores, noDefaultIgnoresFlagName, false, noDefaultIgnoresFlagDescription)
	command.Flags().BoolVar(&options.noContent, noContentFlagName, false, noContentFlagDescription)
	command.Flags().IntVar(&options.maxSizeKB, maxSizeFlagName, defaultMaxSizeKB, maxSizeFlagDescription)
	command.Flags().BoolVar(&options.copyToClipboard, clipboardFlagName, false, clipboardFlagDescription)
	command.Flags().BoolVar(&options.noInput, noInputFlagName, false, noInputFlagDescription)
	command.Flags().StringVar(&options.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	command.Flags().StringVar(&options.configFile, configFileFlagName, utils.EmptyString, configFileFlagDescription)
}

// applySettings overlays configuration file values onto options for every
// flag the user did not set explicitly. Ignore patterns are additive:
// configured patterns are prepended to the ones passed on the command line.
func applySettings(flagSet *pflag.FlagSet, options *digestOptions, settings config.Settings) {
	if settings.MaxDepth != nil && !flagSet.Changed(maxDepthFlagName) {
		options.maxDepth = *settings.MaxDepth
	}
	if settings.OutputFormat != utils.EmptyString && !flagSet.Changed(outputFormatFlagName) {
		options.outputFormat = settings.OutputFormat
	}
	if settings.ShowSize != nil && !flagSet.Changed(showSizeFlagName) {
		options.showSize = *settings.ShowSize
	}
	if settings.ShowIgnored != nil && !flagSet.Changed(showIgnoredFlagName) {
		options.showIgnored = *settings.ShowIgnored
	}
	if settings.NoContent != nil && !flagSet.Changed(noContentFlagName) {
		options.noContent = *settings.NoContent
	}
	if settings.MaxSizeKB != nil && !flagSet.Changed(maxSizeFlagName) {
		options.maxSizeKB = *settings.MaxSizeKB
	}
	if settings.CopyToClipboard != nil && !flagSet.Changed(clipboardFlagName) {
		options.copyToClipboard = *settings.CopyToClipboard
	}
	if settings.NoDefaultIgnores != nil && !flagSet.Changed(noDefaultIgnoresFlagName) {
		options.noDefaultIgnores = *settings.NoDefaultIgnores
	}
	if settings.Model != utils.EmptyString && !flagSet.Changed(modelFlagName) {
		options.model = settings.Model
	}
	if len(settings.Ignore) > 0 {
		combinedPatterns := make([]string, 0, len(settings.Ignore)+len(options.ignorePatterns))
		combinedPatterns = append(combinedPatterns, settings.Ignore...)
		combinedPatterns = append(combinedPatterns, options.ignorePatterns...)
		options.ignorePatterns = combinedPatterns
	}
}
