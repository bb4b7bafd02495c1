package output

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"strings"

	"github.com/temirov/cdigest/internal/types"
	"github.com/temirov/cdigest/internal/utils"
)

const (
	xmlHeader = xml.Header

	directoryStructureHeader = "Directory Structure:"
	summaryHeader            = "Summary:"
	fileContentsHeader       = "File Contents:"

	contentSectionRule = "=================================================="
	fileLabelPrefix    = "File: "
)

// Render produces the digest document in the named format.
func Render(snapshot types.DirectorySnapshot, formatName string, options Options) (string, error) {
	switch formatName {
	case FormatText:
		return RenderText(snapshot, options), nil
	case FormatJSON:
		return RenderJSON(snapshot)
	case FormatMarkdown:
		return RenderMarkdown(snapshot, options), nil
	case FormatXML:
		return RenderXML(snapshot, options)
	case FormatHTML:
		return RenderHTML(snapshot, options), nil
	default:
		return "", fmt.Errorf(errorUnknownFormatFormat, formatName)
	}
}

// RenderText renders the plain text digest: header, tree, summary, and one
// framed section per captured file.
func RenderText(snapshot types.DirectorySnapshot, options Options) string {
	var digestBuilder strings.Builder
	digestBuilder.WriteString(analysisHeaderPrefix + snapshot.Name + "\n")
	digestBuilder.WriteString("\n" + directoryStructureHeader + "\n")
	digestBuilder.WriteString(RenderTree(snapshot, options))
	digestBuilder.WriteString("\n" + summaryHeader + "\n")
	for _, summaryLine := range SummaryLines(snapshot) {
		digestBuilder.WriteString(summaryLine + "\n")
	}
	if options.IncludeContent {
		digestBuilder.WriteString("\n" + fileContentsHeader + "\n")
		for _, contentEntry := range CollectContents(snapshot) {
			digestBuilder.WriteString("\n" + contentSectionRule + "\n")
			digestBuilder.WriteString(fileLabelPrefix + contentEntry.Path + "\n")
			digestBuilder.WriteString(contentSectionRule + "\n")
			digestBuilder.WriteString(contentEntry.Content + "\n")
		}
	}
	return digestBuilder.String()
}

// RenderMarkdown renders the markdown digest with fenced code blocks for the
// tree and the file bodies.
func RenderMarkdown(snapshot types.DirectorySnapshot, options Options) string {
	var digestBuilder strings.Builder
	digestBuilder.WriteString("# " + analysisHeaderPrefix + snapshot.Name + "\n\n")
	digestBuilder.WriteString("## Directory Structure\n\n")
	digestBuilder.WriteString("```\n")
	digestBuilder.WriteString(RenderTree(snapshot, options))
	digestBuilder.WriteString("```\n\n")
	digestBuilder.WriteString("## Summary\n\n")
	for _, summaryLine := range SummaryLines(snapshot) {
		digestBuilder.WriteString("- " + summaryLine + "\n")
	}
	if options.IncludeContent {
		digestBuilder.WriteString("\n## File Contents\n\n")
		for _, contentEntry := range CollectContents(snapshot) {
			digestBuilder.WriteString("### " + contentEntry.Path + "\n\n")
			digestBuilder.WriteString("```\n" + contentEntry.Content + "\n```\n\n")
		}
	}
	return digestBuilder.String()
}

// RenderJSON marshals the snapshot with two-space indentation.
func RenderJSON(snapshot types.DirectorySnapshot) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(snapshot, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// xmlSummary mirrors the summary block of the XML digest.
type xmlSummary struct {
	TotalFiles                int    `xml:"total-files"`
	TotalDirectories          int    `xml:"total-directories"`
	TotalTextFileSizeKB       string `xml:"total-text-file-size-kb"`
	TotalTokens               int    `xml:"total-tokens"`
	AnalyzedTextContentSizeKB string `xml:"analyzed-text-content-size-kb"`
}

// xmlFileEntry is one captured file in the XML digest.
type xmlFileEntry struct {
	Path    string `xml:"path"`
	Content string `xml:"content"`
}

// xmlAnalysis is the root element of the XML digest.
type xmlAnalysis struct {
	XMLName            xml.Name       `xml:"codebase-analysis"`
	Name               string         `xml:"name"`
	DirectoryStructure string         `xml:"directory-structure"`
	Summary            xmlSummary     `xml:"summary"`
	FileContents       []xmlFileEntry `xml:"file-contents>file"`
}

// RenderXML renders the XML digest document. The tree is embedded as the
// text of the directory-structure element.
func RenderXML(snapshot types.DirectorySnapshot, options Options) (string, error) {
	document := xmlAnalysis{
		Name:               snapshot.Name,
		DirectoryStructure: RenderTree(snapshot, options),
		Summary: xmlSummary{
			TotalFiles:                snapshot.FileCount,
			TotalDirectories:          snapshot.DirCount,
			TotalTextFileSizeKB:       utils.FormatKBValue(snapshot.Size),
			TotalTokens:               snapshot.TotalTokens,
			AnalyzedTextContentSizeKB: utils.FormatKBValue(snapshot.NonIgnoredContentSize),
		},
	}
	if options.IncludeContent {
		for _, contentEntry := range CollectContents(snapshot) {
			document.FileContents = append(document.FileContents, xmlFileEntry{Path: contentEntry.Path, Content: contentEntry.Content})
		}
	}
	encoded, xmlMarshalError := xml.MarshalIndent(document, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}

// RenderHTML renders the standalone HTML digest page.
func RenderHTML(snapshot types.DirectorySnapshot, options Options) string {
	escapedName := html.EscapeString(snapshot.Name)
	var pageBuilder strings.Builder
	pageBuilder.WriteString("<html>\n<head>\n")
	pageBuilder.WriteString("<title>" + analysisHeaderPrefix + escapedName + "</title>\n")
	pageBuilder.WriteString("<style>pre { white-space: pre-wrap; word-wrap: break-word; }</style>\n")
	pageBuilder.WriteString("</head>\n<body>\n")
	pageBuilder.WriteString("<h1>" + analysisHeaderPrefix + escapedName + "</h1>\n")
	pageBuilder.WriteString("<h2>Directory Structure</h2>\n")
	pageBuilder.WriteString("<pre>" + html.EscapeString(RenderTree(snapshot, options)) + "</pre>\n")
	pageBuilder.WriteString("<h2>Summary</h2>\n<ul>\n")
	for _, summaryLine := range SummaryLines(snapshot) {
		pageBuilder.WriteString("<li>" + html.EscapeString(summaryLine) + "</li>\n")
	}
	pageBuilder.WriteString("</ul>\n")
	if options.IncludeContent {
		pageBuilder.WriteString("<h2>File Contents</h2>\n")
		for _, contentEntry := range CollectContents(snapshot) {
			pageBuilder.WriteString("<h3>" + html.EscapeString(contentEntry.Path) + "</h3>")
			pageBuilder.WriteString("<pre>" + html.EscapeString(contentEntry.Content) + "</pre>\n")
		}
	}
	pageBuilder.WriteString("</body>\n</html>\n")
	return pageBuilder.String()
}
