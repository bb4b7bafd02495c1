// Package ignore compiles layered ignore rules and answers path exclusion queries.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/cdigest/internal/utils"
)

const (
	// DigestIgnoreFileName is the tool's own ignore file, read from the analysis root.
	DigestIgnoreFileName = ".cdigestignore"
	// GitIgnoreFileName is the Git ignore file, read from the analysis root.
	GitIgnoreFileName = ".gitignore"

	patternCommentPrefix = "#"
	pathSeparator        = "/"
)

const warningUnreadablePatternFileMessage = "skipping unreadable pattern file"

// defaultIgnorePatterns lists common VCS, build, cache, and IDE artifacts
// excluded when defaults are enabled. The slice is never mutated; matchers
// copy it at construction.
var defaultIgnorePatterns = []string{
	"*.pyc", "*.pyo", "*.pyd", "__pycache__",
	"node_modules", "bower_components",
	".git", ".svn", ".hg", ".gitignore",
	"venv", ".venv", "env",
	".idea", ".vscode",
	"*.log", "*.bak", "*.swp", "*.tmp",
	".DS_Store",
	"Thumbs.db",
	"build", "dist",
	"*.egg-info",
	"*.so", "*.dylib", "*.dll",
}

// DefaultPatterns returns a copy of the built-in default ignore patterns.
func DefaultPatterns() []string {
	patternsCopy := make([]string, len(defaultIgnorePatterns))
	copy(patternsCopy, defaultIgnorePatterns)
	return patternsCopy
}

// Options configures matcher compilation. The root path anchors relative and
// leading-slash pattern candidates and locates the two ignore files.
type Options struct {
	RootPath            string
	UseDefaults         bool
	UseDigestIgnoreFile bool
	UseGitIgnoreFile    bool
	ExtraPatterns       []string
	Logger              *zap.Logger
}

// Matcher answers whether paths under the analysis root should be excluded.
// A compiled matcher carries no per-query state and is safe for concurrent use.
type Matcher struct {
	absoluteRoot string
	patterns     []string
}

// NewMatcher compiles an ignore rule set from defaults, the root's ignore
// files, and caller-supplied extras, in that order, deduplicated with the
// first occurrence kept. Missing ignore files are skipped silently;
// unreadable ones are skipped with a warning.
func NewMatcher(options Options) (*Matcher, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	absoluteRoot, absoluteError := filepath.Abs(options.RootPath)
	if absoluteError != nil {
		return nil, fmt.Errorf("resolving root %s: %w", options.RootPath, absoluteError)
	}

	var compiledPatterns []string
	if options.UseDefaults {
		compiledPatterns = append(compiledPatterns, defaultIgnorePatterns...)
	}
	if options.UseDigestIgnoreFile {
		compiledPatterns = appendPatternFile(compiledPatterns, filepath.Join(absoluteRoot, DigestIgnoreFileName), logger)
	}
	if options.UseGitIgnoreFile {
		compiledPatterns = appendPatternFile(compiledPatterns, filepath.Join(absoluteRoot, GitIgnoreFileName), logger)
	}
	for _, extraPattern := range options.ExtraPatterns {
		trimmedPattern := strings.TrimSpace(extraPattern)
		if trimmedPattern == utils.EmptyString {
			continue
		}
		compiledPatterns = append(compiledPatterns, trimmedPattern)
	}

	return &Matcher{
		absoluteRoot: absoluteRoot,
		patterns:     utils.DeduplicatePatterns(compiledPatterns),
	}, nil
}

// appendPatternFile reads one line-delimited pattern file into patterns.
// Blank lines and comment lines are skipped.
func appendPatternFile(patterns []string, patternFilePath string, logger *zap.Logger) []string {
	fileHandle, openError := os.Open(patternFilePath)
	if openError != nil {
		if !os.IsNotExist(openError) {
			logger.Warn(warningUnreadablePatternFileMessage, zap.String("path", patternFilePath), zap.Error(openError))
		}
		return patterns
	}
	defer fileHandle.Close()

	lineScanner := bufio.NewScanner(fileHandle)
	for lineScanner.Scan() {
		trimmedLine := strings.TrimSpace(lineScanner.Text())
		if trimmedLine == utils.EmptyString || strings.HasPrefix(trimmedLine, patternCommentPrefix) {
			continue
		}
		patterns = append(patterns, trimmedLine)
	}
	if scanError := lineScanner.Err(); scanError != nil {
		logger.Warn(warningUnreadablePatternFileMessage, zap.String("path", patternFilePath), zap.Error(scanError))
	}
	return patterns
}

// Patterns returns a copy of the compiled pattern list.
func (matcher *Matcher) Patterns() []string {
	patternsCopy := make([]string, len(matcher.patterns))
	copy(patternsCopy, matcher.patterns)
	return patternsCopy
}

// Root returns the absolute analysis root the matcher was compiled for.
func (matcher *Matcher) Root() string {
	return matcher.absoluteRoot
}

// ShouldIgnore reports whether any compiled pattern matches the given path.
// A pattern matches when it glob-matches the basename, the path relative to
// the root, the absolute path, or any single segment of the relative path.
// A pattern with a leading slash additionally matches the relative path with
// the slash stripped, anchoring it at the root. Each candidate is evaluated
// with shell-glob semantics; a pattern never matches a substring of a
// segment.
func (matcher *Matcher) ShouldIgnore(candidatePath string) bool {
	absolutePath, absoluteError := filepath.Abs(candidatePath)
	if absoluteError != nil {
		absolutePath = filepath.Clean(candidatePath)
	}
	normalizedAbsolute := filepath.ToSlash(absolutePath)

	relativePath := utils.RelativePathOrSelf(absolutePath, matcher.absoluteRoot)
	relativeSegments := strings.Split(relativePath, pathSeparator)
	baseName := path.Base(normalizedAbsolute)

	for _, patternValue := range matcher.patterns {
		normalizedPattern := filepath.ToSlash(patternValue)
		if globMatch(normalizedPattern, baseName) ||
			globMatch(normalizedPattern, relativePath) ||
			globMatch(normalizedPattern, normalizedAbsolute) {
			return true
		}
		for _, relativeSegment := range relativeSegments {
			if globMatch(normalizedPattern, relativeSegment) {
				return true
			}
		}
		if strings.HasPrefix(normalizedPattern, pathSeparator) &&
			globMatch(strings.TrimPrefix(normalizedPattern, pathSeparator), relativePath) {
			return true
		}
	}
	return false
}

// globMatch evaluates one pattern against one candidate, treating malformed
// patterns as non-matches.
func globMatch(patternValue string, candidate string) bool {
	isMatched, matchError := path.Match(patternValue, candidate)
	return matchError == nil && isMatched
}
