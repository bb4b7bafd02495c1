// Package analysis walks a directory tree and assembles the node model.
package analysis

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/cdigest/internal/ignore"
	"github.com/temirov/cdigest/internal/types"
	"github.com/temirov/cdigest/internal/utils"
)

const (
	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorRootStatFormat is used when the analysis root cannot be inspected.
	errorRootStatFormat = "analysis root %s: %w"
	// errorRootNotDirectoryFormat is used when the analysis root is not a directory.
	errorRootNotDirectoryFormat = "analysis root %s is not a directory"

	// warningListDirectoryMessage is logged when a directory cannot be listed.
	warningListDirectoryMessage = "skipping unreadable directory"
	// warningReadFileMessage is logged when a text file cannot be read.
	warningReadFileMessage = "storing read error placeholder for unreadable file"
	// warningRevisitedDirectoryMessage is logged when a symbolic link leads back into the tree.
	warningRevisitedDirectoryMessage = "not descending into already-visited directory"
)

// UnlimitedDepth disables the traversal depth bound.
const UnlimitedDepth = -1

// Classifier decides whether the file at path holds text content.
type Classifier func(path string) bool

// BuilderOptions configures tree construction. The matcher is required;
// every other field has a usable zero or nil default.
type BuilderOptions struct {
	Matcher      *ignore.Matcher
	Classifier   Classifier
	TokenCounter types.TokenCounter
	MaxDepth     int
	Logger       *zap.Logger
}

// Builder assembles a node tree for an analysis root. Construction is
// single-threaded; the finished tree is read-only and safe to share.
type Builder struct {
	matcher      *ignore.Matcher
	classifier   Classifier
	tokenCounter types.TokenCounter
	maxDepth     int
	logger       *zap.Logger
}

// NewBuilder returns a Builder with defaults applied: content sniffing for a
// nil classifier and a no-op logger for a nil logger.
func NewBuilder(options BuilderOptions) *Builder {
	classifier := options.Classifier
	if classifier == nil {
		classifier = utils.IsFileText
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		matcher:      options.Matcher,
		classifier:   classifier,
		tokenCounter: options.TokenCounter,
		maxDepth:     options.MaxDepth,
		logger:       logger,
	}
}

// directoryFrame is one pending directory listing on the traversal stack.
type directoryFrame struct {
	node  *types.DirectoryNode
	path  string
	depth int
}

// Build analyzes rootPath and returns the assembled tree. The root must be
// an existing directory; every other fault during the walk degrades to a
// warning. Traversal uses an explicit stack, so tree depth never threatens
// the call stack. Subdirectories deeper than the configured maximum are not
// visited at all: a pruned branch is absent from the tree, while a present
// directory with no children really was empty or unreadable. Ignored
// entries are kept, flagged, and still descended into, keeping the gross
// size aggregates truthful.
func (builder *Builder) Build(rootPath string) (*types.DirectoryNode, error) {
	absoluteRoot, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootPath, absoluteError)
	}
	rootInfo, rootStatError := os.Stat(absoluteRoot)
	if rootStatError != nil {
		return nil, fmt.Errorf(errorRootStatFormat, rootPath, rootStatError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorRootNotDirectoryFormat, rootPath)
	}

	rootNode := types.NewDirectoryNode(filepath.Base(absoluteRoot), absoluteRoot, false)

	visitedRealPaths := make(map[string]struct{})
	if realRoot, realRootError := filepath.EvalSymlinks(absoluteRoot); realRootError == nil {
		visitedRealPaths[realRoot] = struct{}{}
	}

	frameStack := []directoryFrame{{node: rootNode, path: absoluteRoot, depth: 0}}
	for len(frameStack) > 0 {
		currentFrame := frameStack[len(frameStack)-1]
		frameStack = frameStack[:len(frameStack)-1]

		directoryEntries, readDirectoryError := os.ReadDir(currentFrame.path)
		if readDirectoryError != nil {
			builder.logger.Warn(warningListDirectoryMessage,
				zap.String("path", utils.RelativePathOrSelf(currentFrame.path, absoluteRoot)),
				zap.Error(readDirectoryError))
			continue
		}

		for _, directoryEntry := range directoryEntries {
			childPath := filepath.Join(currentFrame.path, directoryEntry.Name())
			childIgnored := builder.matcher.ShouldIgnore(childPath)

			if builder.isDirectory(directoryEntry, childPath) {
				childDepth := currentFrame.depth + 1
				if builder.maxDepth >= 0 && childDepth > builder.maxDepth {
					continue
				}
				childNode := types.NewDirectoryNode(directoryEntry.Name(), childPath, childIgnored)
				currentFrame.node.AddChild(childNode)

				realChildPath, realPathError := filepath.EvalSymlinks(childPath)
				if realPathError == nil {
					if _, alreadyVisited := visitedRealPaths[realChildPath]; alreadyVisited {
						builder.logger.Warn(warningRevisitedDirectoryMessage,
							zap.String("path", utils.RelativePathOrSelf(childPath, absoluteRoot)))
						continue
					}
					visitedRealPaths[realChildPath] = struct{}{}
				}
				frameStack = append(frameStack, directoryFrame{node: childNode, path: childPath, depth: childDepth})
				continue
			}

			currentFrame.node.AddChild(builder.buildFileNode(directoryEntry.Name(), childPath, childIgnored, absoluteRoot))
		}
	}

	return rootNode, nil
}

// isDirectory reports whether the entry is a directory, following symbolic
// links the way the host listing does.
func (builder *Builder) isDirectory(directoryEntry os.DirEntry, childPath string) bool {
	if directoryEntry.IsDir() {
		return true
	}
	if directoryEntry.Type()&os.ModeSymlink == 0 {
		return false
	}
	targetInfo, targetStatError := os.Stat(childPath)
	return targetStatError == nil && targetInfo.IsDir()
}

// buildFileNode classifies one file and stores its content or a placeholder.
func (builder *Builder) buildFileNode(name string, path string, ignored bool, absoluteRoot string) *types.FileNode {
	if !builder.classifier(path) {
		return types.NewFileNode(name, path, types.NonTextPlaceholder, ignored, builder.tokenCounter)
	}
	contentBytes, readError := os.ReadFile(path)
	if readError != nil {
		builder.logger.Warn(warningReadFileMessage,
			zap.String("path", utils.RelativePathOrSelf(path, absoluteRoot)),
			zap.Error(readError))
		return types.NewFileNode(name, path, types.ReadErrorPlaceholder, ignored, builder.tokenCounter)
	}
	return types.NewFileNode(name, path, string(contentBytes), ignored, builder.tokenCounter)
}
