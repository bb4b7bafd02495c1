package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/cdigest/internal/analysis"
	"github.com/temirov/cdigest/internal/ignore"
	"github.com/temirov/cdigest/internal/output"
	"github.com/temirov/cdigest/internal/services/clipboard"
	"github.com/temirov/cdigest/internal/services/prompt"
	"github.com/temirov/cdigest/internal/tokenizer"
	"github.com/temirov/cdigest/internal/types"
	"github.com/temirov/cdigest/internal/utils"
)

const (
	digestBannerText        = "Codebase Digest"
	summaryBannerText       = "Analysis Summary"
	analyzingDirectoryLabel = "Analyzing directory: "
	estimatedSizeLabel      = "Estimated output size: "
	// sizeWarningFormat announces an output estimate above the configured limit.
	sizeWarningFormat = "\nWarning: The estimated output size (%s KB) exceeds the maximum allowed size (%d KB).\n"
	// totalSizeNoteFormat flags directories whose gross size dwarfs the estimate.
	totalSizeNoteFormat    = "\nNote: The total size of all text files in the directory (%s KB) is significantly larger than the estimated output size.\n"
	totalSizeNoteDetail    = "This is likely due to large files or directories that will be ignored in the analysis."
	proceedQuestion        = "Do you want to proceed? (y/n): "
	clipboardQuestion      = "Do you want to copy the output to clipboard? (y/n): "
	analysisAbortedMessage = "Analysis aborted."
	analysisSavedFormat    = "\nAnalysis saved to: %s (%s)\n"
	clipboardCopiedMessage = "Output copied to clipboard!"
	clipboardFailurePrefix = "Failed to copy to clipboard: "

	// perFileStructureOverheadBytes approximates the tree and path text each
	// file adds to the rendered digest.
	perFileStructureOverheadBytes = 100
	// summaryOverheadBytes approximates the fixed header and summary text.
	summaryOverheadBytes = 1000

	outputFilePermissions = 0o644

	errorWriteOutputFormat       = "writing digest to %s: %w"
	errorResolveOutputPathFormat = "resolving output path %s: %w"

	debugPatternsMessage  = "compiled ignore patterns"
	debugTokenizerMessage = "selected tokenizer encoding"
	// warningTokenizerMessage reports that token counts will read zero because
	// no encoding could be initialized.
	warningTokenizerMessage = "token counting disabled"
)

var (
	bannerColor  = color.New(color.FgCyan)
	detailColor  = color.New(color.FgWhite)
	warningColor = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
)

// digestRunner executes one digest run against injected console, prompt, and
// clipboard endpoints.
type digestRunner struct {
	consoleWriter   io.Writer
	promptInput     io.Reader
	clipboardCopier clipboard.Copier
	logger          *zap.Logger
}

// newDigestRunner wires a runner to the process terminal and system clipboard.
func newDigestRunner(logger *zap.Logger) *digestRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &digestRunner{
		consoleWriter:   os.Stdout,
		promptInput:     os.Stdin,
		clipboardCopier: clipboard.NewService(),
		logger:          logger,
	}
}

// runDigest analyzes the directory, gates on the size estimate, renders the
// digest once, and delivers it to the output file, console, and clipboard.
func (runner *digestRunner) runDigest(analysisPath string, options digestOptions) error {
	matcherInstance, matcherError := ignore.NewMatcher(ignore.Options{
		RootPath:            analysisPath,
		UseDefaults:         !options.noDefaultIgnores,
		UseDigestIgnoreFile: true,
		UseGitIgnoreFile:    true,
		ExtraPatterns:       options.ignorePatterns,
		Logger:              runner.logger,
	})
	if matcherError != nil {
		return matcherError
	}
	runner.logger.Debug(debugPatternsMessage, zap.Strings("patterns", matcherInstance.Patterns()))

	tokenCounter, resolvedEncoding, counterError := tokenizer.NewCounter(tokenizer.Config{Model: options.model})
	if counterError != nil {
		runner.logger.Warn(warningTokenizerMessage, zap.Error(counterError))
	} else {
		runner.logger.Debug(debugTokenizerMessage, zap.String("encoding", resolvedEncoding))
	}

	output.WriteFrame(runner.consoleWriter, digestBannerText)
	bannerColor.Fprint(runner.consoleWriter, analyzingDirectoryLabel)
	detailColor.Fprintln(runner.consoleWriter, analysisPath)

	builderInstance := analysis.NewBuilder(analysis.BuilderOptions{
		Matcher:      matcherInstance,
		TokenCounter: tokenCounter,
		MaxDepth:     options.maxDepth,
		Logger:       runner.logger,
	})
	rootNode, buildError := builderInstance.Build(analysisPath)
	if buildError != nil {
		return buildError
	}
	directorySnapshot := rootNode.Snapshot().(types.DirectorySnapshot)

	estimatedOutputBytes := directorySnapshot.NonIgnoredContentSize +
		int64(directorySnapshot.FileCount)*perFileStructureOverheadBytes +
		summaryOverheadBytes
	fmt.Fprintln(runner.consoleWriter, estimatedSizeLabel+utils.FormatKB(estimatedOutputBytes))

	prompter := prompt.NewPrompter(prompt.Options{
		Input:   runner.promptInput,
		Output:  runner.consoleWriter,
		NoInput: options.noInput,
	})

	if exceedsLimitKB(estimatedOutputBytes, options.maxSizeKB) {
		warningColor.Fprintf(runner.consoleWriter, sizeWarningFormat, utils.FormatKBValue(estimatedOutputBytes), options.maxSizeKB)
		if !prompter.Confirm(proceedQuestion, true) {
			warningColor.Fprintln(runner.consoleWriter, analysisAbortedMessage)
			return nil
		}
	} else if exceedsLimitKB(directorySnapshot.Size, options.maxSizeKB*2) {
		warningColor.Fprintf(runner.consoleWriter, totalSizeNoteFormat, utils.FormatKBValue(directorySnapshot.Size))
		warningColor.Fprintln(runner.consoleWriter, totalSizeNoteDetail)
	}

	renderedDigest, renderError := output.Render(directorySnapshot, options.outputFormat, output.Options{
		ShowSize:       true,
		ShowIgnored:    true,
		IncludeContent: !options.noContent,
	})
	if renderError != nil {
		return renderError
	}

	outputFilePath, outputPathError := resolveOutputPath(options.outputFile, directorySnapshot.Name, options.outputFormat)
	if outputPathError != nil {
		return outputPathError
	}

	var consoleReport bytes.Buffer
	var clipboardCopyError error

	var deliveryGroup errgroup.Group
	deliveryGroup.Go(func() error {
		if writeError := os.WriteFile(outputFilePath, []byte(renderedDigest), outputFilePermissions); writeError != nil {
			return fmt.Errorf(errorWriteOutputFormat, outputFilePath, writeError)
		}
		return nil
	})
	if options.copyToClipboard {
		deliveryGroup.Go(func() error {
			clipboardCopyError = runner.clipboardCopier.Copy(renderedDigest)
			return nil
		})
	}
	deliveryGroup.Go(func() error {
		output.WriteConsoleTree(&consoleReport, directorySnapshot, output.Options{
			ShowSize:    options.showSize,
			ShowIgnored: options.showIgnored,
		})
		output.WriteConsoleSummary(&consoleReport, directorySnapshot)
		return nil
	})
	if deliveryError := deliveryGroup.Wait(); deliveryError != nil {
		return deliveryError
	}

	successColor.Fprintf(runner.consoleWriter, analysisSavedFormat, outputFilePath, utils.FormatFileSize(int64(len(renderedDigest))))
	output.WriteFrame(runner.consoleWriter, summaryBannerText)
	fmt.Fprint(runner.consoleWriter, consoleReport.String())

	if options.copyToClipboard {
		runner.reportClipboardCopy(clipboardCopyError)
	} else if runner.clipboardCopier.Available() {
		if prompter.Confirm(clipboardQuestion, false) {
			runner.reportClipboardCopy(runner.clipboardCopier.Copy(renderedDigest))
		}
	}
	return nil
}

// reportClipboardCopy prints the clipboard outcome; a failed copy is reported
// but never fails the run.
func (runner *digestRunner) reportClipboardCopy(copyError error) {
	if copyError != nil {
		failureColor.Fprintln(runner.consoleWriter, clipboardFailurePrefix+copyError.Error())
		return
	}
	successColor.Fprintln(runner.consoleWriter, clipboardCopiedMessage)
}

// resolveOutputPath returns the absolute output file path, deriving the
// default digest file name from the analyzed root when none was given.
func resolveOutputPath(explicitFileName string, rootName string, formatName string) (string, error) {
	fileName := explicitFileName
	if fileName == utils.EmptyString {
		defaultFileName, defaultFileNameError := output.DefaultFileName(rootName, formatName)
		if defaultFileNameError != nil {
			return utils.EmptyString, defaultFileNameError
		}
		fileName = defaultFileName
	}
	absolutePath, absoluteError := filepath.Abs(fileName)
	if absoluteError != nil {
		return utils.EmptyString, fmt.Errorf(errorResolveOutputPathFormat, fileName, absoluteError)
	}
	return absolutePath, nil
}

// exceedsLimitKB reports whether the byte count is strictly above the limit
// expressed in kilobytes.
func exceedsLimitKB(byteCount int64, limitKB int) bool {
	return float64(byteCount)/1024.0 > float64(limitKB)
}
