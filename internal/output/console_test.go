package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/temirov/cdigest/internal/output"
)

// withColorDisabled forces plain output so assertions see no escape codes.
func withColorDisabled(testingInstance *testing.T) {
	testingInstance.Helper()
	previousNoColor := color.NoColor
	color.NoColor = true
	testingInstance.Cleanup(func() { color.NoColor = previousNoColor })
}

func TestWriteFrame(testingInstance *testing.T) {
	withColorDisabled(testingInstance)

	testCases := []struct {
		testName string
		text     string
		expected string
	}{
		{
			testName: "single line banner",
			text:     "Codebase Digest",
			expected: "+-----------------+\n" +
				"| Codebase Digest |\n" +
				"+-----------------+\n",
		},
		{
			testName: "short lines padded to the widest",
			text:     "ab\nlonger line",
			expected: "+-------------+\n" +
				"| ab          |\n" +
				"| longer line |\n" +
				"+-------------+\n",
		},
		{
			testName: "accented text measured in characters, not bytes",
			text:     "Résumé\nanalysis report",
			expected: "+-----------------+\n" +
				"| Résumé          |\n" +
				"| analysis report |\n" +
				"+-----------------+\n",
		},
	}

	for caseIndex, testCase := range testCases {
		var frameBuffer bytes.Buffer
		output.WriteFrame(&frameBuffer, testCase.text)
		if frameBuffer.String() != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected\n%s\ngot\n%s", caseIndex, testCase.testName, testCase.expected, frameBuffer.String())
		}
	}
}

func TestWriteConsoleTree(testingInstance *testing.T) {
	withColorDisabled(testingInstance)

	options := output.Options{ShowSize: true, ShowIgnored: true}
	var treeBuffer bytes.Buffer
	output.WriteConsoleTree(&treeBuffer, sampleSnapshot(), options)
	if treeBuffer.String() != output.RenderTree(sampleSnapshot(), options) {
		testingInstance.Errorf("expected the console tree to match the plain tree, got\n%s", treeBuffer.String())
	}
}

func TestWriteConsoleSummary(testingInstance *testing.T) {
	var tableBuffer bytes.Buffer
	output.WriteConsoleSummary(&tableBuffer, sampleSnapshot())
	rendered := tableBuffer.String()
	for _, requiredFragment := range []string{"Total files analyzed", "0.07 KB", "0.05 KB"} {
		if !strings.Contains(rendered, requiredFragment) {
			testingInstance.Errorf("expected fragment %q in\n%s", requiredFragment, rendered)
		}
	}
}
