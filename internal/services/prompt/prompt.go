// Package prompt reads yes or no answers from an interactive user.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks yes or no questions on a terminal. When interaction is
// unavailable, every question resolves to its caller-supplied default
// without blocking.
type Prompter struct {
	reader     *bufio.Reader
	writer     io.Writer
	autoAnswer bool
}

// Options configure prompting behavior. Input and Output default to the
// process standard streams.
type Options struct {
	Input   io.Reader
	Output  io.Writer
	NoInput bool
}

// NewPrompter builds a Prompter. Questions are auto-answered when NoInput is
// set or when the input stream is a file that is not a terminal.
func NewPrompter(options Options) *Prompter {
	input := options.Input
	if input == nil {
		input = os.Stdin
	}
	writer := options.Output
	if writer == nil {
		writer = os.Stdout
	}
	autoAnswer := options.NoInput
	if !autoAnswer {
		if inputFile, isFile := input.(*os.File); isFile && !term.IsTerminal(int(inputFile.Fd())) {
			autoAnswer = true
		}
	}
	return &Prompter{reader: bufio.NewReader(input), writer: writer, autoAnswer: autoAnswer}
}

// Confirm prints question and reads one answer line. Only a trimmed,
// lower-cased "y" counts as yes. On auto-answer or an empty read the
// defaultAnswer is returned.
func (prompter *Prompter) Confirm(question string, defaultAnswer bool) bool {
	if prompter.autoAnswer {
		return defaultAnswer
	}
	fmt.Fprint(prompter.writer, question)
	answerLine, readError := prompter.reader.ReadString('\n')
	normalizedAnswer := strings.ToLower(strings.TrimSpace(answerLine))
	if readError != nil && normalizedAnswer == "" {
		return defaultAnswer
	}
	return normalizedAnswer == "y"
}
