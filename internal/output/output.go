// Package output renders directory snapshots into the digest formats.
package output

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/temirov/cdigest/internal/types"
	"github.com/temirov/cdigest/internal/utils"
)

// Output format names accepted by the renderers.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatXML      = "xml"
	FormatHTML     = "html"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	sizeAnnotationFormat = " (%d bytes)"
	ignoredMarker        = " [IGNORED]"

	analysisHeaderPrefix = "Codebase Analysis for: "

	summaryFilesLabel       = "Total files analyzed"
	summaryDirectoriesLabel = "Total directories analyzed"
	summaryGrossSizeLabel   = "Total text file size (including ignored)"
	summaryNetSizeLabel     = "Analyzed text content size"
	summaryTokensLabel      = "Total tokens"

	// defaultFileNameSuffix joins the root name and the format extension in
	// the default digest file name.
	defaultFileNameSuffix = "_codebase_digest"

	errorUnknownFormatFormat = "unknown output format %q"
)

// formatExtensions maps each format name to its digest file extension.
var formatExtensions = map[string]string{
	FormatText:     ".txt",
	FormatJSON:     ".json",
	FormatMarkdown: ".md",
	FormatXML:      ".xml",
	FormatHTML:     ".html",
}

// SupportedFormats returns the accepted format names in display order.
func SupportedFormats() []string {
	return []string{FormatText, FormatJSON, FormatMarkdown, FormatXML, FormatHTML}
}

// FileExtension returns the digest file extension for a format name.
func FileExtension(formatName string) (string, error) {
	extension, known := formatExtensions[formatName]
	if !known {
		return "", fmt.Errorf(errorUnknownFormatFormat, formatName)
	}
	return extension, nil
}

// DefaultFileName composes the default digest file name for an analysis root.
func DefaultFileName(rootName string, formatName string) (string, error) {
	extension, extensionError := FileExtension(formatName)
	if extensionError != nil {
		return "", extensionError
	}
	return rootName + defaultFileNameSuffix + extension, nil
}

// Options control how much detail the renderers include. The digest file
// formats run with sizes and ignored entries shown and contents included;
// the console tree follows the user's flags instead.
type Options struct {
	ShowSize       bool
	ShowIgnored    bool
	IncludeContent bool
}

// treeStyles decorates the pieces of one rendered tree line. The plain
// renderer passes everything through; the console renderer colors each piece.
type treeStyles struct {
	connector func(pieces ...interface{}) string
	name      func(pieces ...interface{}) string
	size      func(pieces ...interface{}) string
	marker    func(pieces ...interface{}) string
}

// plainTreeStyles renders every piece without decoration.
var plainTreeStyles = treeStyles{
	connector: fmt.Sprint,
	name:      fmt.Sprint,
	size:      fmt.Sprint,
	marker:    fmt.Sprint,
}

// RenderTree returns the box-drawing tree for a snapshot. The root line uses
// the terminal connector; every directory level indents its children by one
// padding unit.
func RenderTree(snapshot types.DirectorySnapshot, options Options) string {
	var treeBuilder strings.Builder
	appendTreeLines(&treeBuilder, snapshot, "", true, options, plainTreeStyles)
	return treeBuilder.String()
}

func appendTreeLines(treeBuilder *strings.Builder, snapshot types.Snapshot, linePrefix string, isLast bool, options Options, styles treeStyles) {
	connector := treeBranchConnector
	childPadding := treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPadding = treeLastPadding
	}

	switch node := snapshot.(type) {
	case types.FileSnapshot:
		treeBuilder.WriteString(linePrefix + styles.connector(connector) + styles.name(node.Name))
		if options.ShowSize {
			treeBuilder.WriteString(styles.size(fmt.Sprintf(sizeAnnotationFormat, node.Size)))
		}
		if node.IsIgnored {
			treeBuilder.WriteString(styles.marker(ignoredMarker))
		}
		treeBuilder.WriteString("\n")
	case types.DirectorySnapshot:
		treeBuilder.WriteString(linePrefix + styles.connector(connector) + styles.name(node.Name))
		if node.IsIgnored {
			treeBuilder.WriteString(styles.marker(ignoredMarker))
		}
		treeBuilder.WriteString("\n")

		visibleChildren := node.Children
		if !options.ShowIgnored {
			visibleChildren = visibleSnapshots(node.Children)
		}
		for childIndex, childSnapshot := range visibleChildren {
			appendTreeLines(treeBuilder, childSnapshot, linePrefix+childPadding, childIndex == len(visibleChildren)-1, options, styles)
		}
	}
}

// visibleSnapshots filters out ignored entries so last-child connectors are
// computed against the entries that actually render.
func visibleSnapshots(children []types.Snapshot) []types.Snapshot {
	visible := make([]types.Snapshot, 0, len(children))
	for _, childSnapshot := range children {
		if !snapshotIgnored(childSnapshot) {
			visible = append(visible, childSnapshot)
		}
	}
	return visible
}

func snapshotIgnored(snapshot types.Snapshot) bool {
	switch node := snapshot.(type) {
	case types.FileSnapshot:
		return node.IsIgnored
	case types.DirectorySnapshot:
		return node.IsIgnored
	}
	return false
}

// ContentEntry is one extracted file body with its root-joined display path.
type ContentEntry struct {
	Path    string
	Content string
}

// CollectContents lists the bodies of text files under the snapshot root.
// Ignored files and ignored directory branches are skipped, as are files
// whose stored content is the non-text placeholder. Read-error placeholders
// stay in, so a digest shows which files could not be captured.
func CollectContents(snapshot types.DirectorySnapshot) []ContentEntry {
	var entries []ContentEntry
	collectContentEntries(snapshot, "", &entries)
	return entries
}

func collectContentEntries(snapshot types.Snapshot, parentPath string, entries *[]ContentEntry) {
	switch node := snapshot.(type) {
	case types.FileSnapshot:
		if node.IsIgnored || node.Content == types.NonTextPlaceholder {
			return
		}
		*entries = append(*entries, ContentEntry{Path: filepath.Join(parentPath, node.Name), Content: node.Content})
	case types.DirectorySnapshot:
		if node.IsIgnored {
			return
		}
		directoryPath := filepath.Join(parentPath, node.Name)
		for _, childSnapshot := range node.Children {
			collectContentEntries(childSnapshot, directoryPath, entries)
		}
	}
}

// summaryRow pairs a summary label with its rendered value.
type summaryRow struct {
	label string
	value string
}

// summaryTableRows returns the label and value pairs shared by every
// summary presentation.
func summaryTableRows(snapshot types.DirectorySnapshot) []summaryRow {
	return []summaryRow{
		{label: summaryFilesLabel, value: strconv.Itoa(snapshot.FileCount)},
		{label: summaryDirectoriesLabel, value: strconv.Itoa(snapshot.DirCount)},
		{label: summaryGrossSizeLabel, value: utils.FormatKB(snapshot.Size)},
		{label: summaryNetSizeLabel, value: utils.FormatKB(snapshot.NonIgnoredContentSize)},
		{label: summaryTokensLabel, value: strconv.Itoa(snapshot.TotalTokens)},
	}
}

// SummaryLines returns the summary as "label: value" lines.
func SummaryLines(snapshot types.DirectorySnapshot) []string {
	rows := summaryTableRows(snapshot)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, row.label+": "+row.value)
	}
	return lines
}
