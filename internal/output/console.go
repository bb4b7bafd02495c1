package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/temirov/cdigest/internal/types"
)

// consoleTreeStyles colors each tree line piece for terminal display.
func consoleTreeStyles() treeStyles {
	return treeStyles{
		connector: color.New(color.FgGreen).SprintFunc(),
		name:      color.New(color.FgBlue).SprintFunc(),
		size:      color.New(color.FgYellow).SprintFunc(),
		marker:    color.New(color.FgRed).SprintFunc(),
	}
}

// WriteConsoleTree writes the colored directory tree. Unlike the digest file
// formats, the console tree honors the user's size and ignored flags.
func WriteConsoleTree(writer io.Writer, snapshot types.DirectorySnapshot, options Options) {
	var treeBuilder strings.Builder
	appendTreeLines(&treeBuilder, snapshot, "", true, options, consoleTreeStyles())
	fmt.Fprint(writer, treeBuilder.String())
}

// WriteConsoleSummary writes the summary as a bordered two-column table.
func WriteConsoleSummary(writer io.Writer, snapshot types.DirectorySnapshot) {
	summaryTable := tablewriter.NewWriter(writer)
	summaryTable.SetHeader([]string{"Metric", "Value"})
	summaryTable.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	summaryTable.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, row := range summaryTableRows(snapshot) {
		summaryTable.Append([]string{row.label, row.value})
	}
	summaryTable.Render()
}

// WriteFrame writes text inside a plus-and-dash border, the banner style
// used around console sections.
func WriteFrame(writer io.Writer, text string) {
	lines := strings.Split(text, "\n")
	innerWidth := 0
	for _, line := range lines {
		if lineWidth := utf8.RuneCountInString(line); lineWidth > innerWidth {
			innerWidth = lineWidth
		}
	}
	borderLine := "+" + strings.Repeat("-", innerWidth+2) + "+"
	borderColor := color.New(color.FgCyan)
	textColor := color.New(color.FgWhite)
	fmt.Fprintln(writer, borderColor.Sprint(borderLine))
	for _, line := range lines {
		paddedLine := line + strings.Repeat(" ", innerWidth-utf8.RuneCountInString(line))
		fmt.Fprintln(writer, borderColor.Sprint("| ")+textColor.Sprint(paddedLine)+borderColor.Sprint(" |"))
	}
	fmt.Fprintln(writer, borderColor.Sprint(borderLine))
}
