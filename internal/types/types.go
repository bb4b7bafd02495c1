// Package types defines the node tree produced by directory analysis and the
// snapshot structures handed to renderers.
package types

import "sync"

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
)

const (
	// NonTextPlaceholder is stored as file content when a file is classified
	// as non-text; the node's size is the placeholder's length, not the
	// on-disk size.
	NonTextPlaceholder = "[Non-text file]"
	// ReadErrorPlaceholder is stored as file content when a text file could
	// not be read.
	ReadErrorPlaceholder = "[Error reading file]"
)

// TokenCounter estimates the token count of a text blob.
type TokenCounter interface {
	CountString(text string) (int, error)
}

// Node is a member of an analyzed directory tree. The set of implementations
// is closed: a node is either a *FileNode or a *DirectoryNode.
type Node interface {
	Name() string
	Path() string
	Size() int64
	IsIgnored() bool
	Snapshot() Snapshot
	isNode()
}

// Snapshot is the serialization-ready view of a node. Renderers consume
// snapshots only, never live nodes; a snapshot is either a FileSnapshot or
// a DirectorySnapshot value.
type Snapshot interface {
	isSnapshot()
}

// FileSnapshot is the serialized form of a file node.
type FileSnapshot struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Size      int64  `json:"size"`
	IsIgnored bool   `json:"isIgnored"`
	Content   string `json:"content"`
}

// DirectorySnapshot is the serialized form of a directory node with every
// aggregate resolved at snapshot time.
type DirectorySnapshot struct {
	Name                  string     `json:"name"`
	Type                  string     `json:"type"`
	Size                  int64      `json:"size"`
	IsIgnored             bool       `json:"isIgnored"`
	NonIgnoredContentSize int64      `json:"nonIgnoredContentSize"`
	TotalTokens           int        `json:"totalTokens"`
	FileCount             int        `json:"fileCount"`
	DirCount              int        `json:"dirCount"`
	Children              []Snapshot `json:"children"`
}

func (fileSnapshot FileSnapshot) isSnapshot() {}

func (directorySnapshot DirectorySnapshot) isSnapshot() {}

// FileNode holds one analyzed file. Content is the file's text, or one of
// the placeholder constants for non-text and unreadable files.
type FileNode struct {
	name      string
	path      string
	content   string
	ignored   bool
	counter   TokenCounter
	tokenOnce sync.Once
	tokens    int
}

// NewFileNode builds a file node. A nil counter disables token counting.
func NewFileNode(name string, path string, content string, ignored bool, counter TokenCounter) *FileNode {
	return &FileNode{name: name, path: path, content: content, ignored: ignored, counter: counter}
}

func (fileNode *FileNode) isNode() {}

// Name returns the file's base name.
func (fileNode *FileNode) Name() string { return fileNode.name }

// Path returns the file's absolute path.
func (fileNode *FileNode) Path() string { return fileNode.path }

// IsIgnored reports whether an ignore pattern matched the file.
func (fileNode *FileNode) IsIgnored() bool { return fileNode.ignored }

// Content returns the stored content, including placeholder values.
func (fileNode *FileNode) Content() string { return fileNode.content }

// Size returns the length of the stored content in bytes. For placeholder
// content this is the placeholder's length.
func (fileNode *FileNode) Size() int64 { return int64(len(fileNode.content)) }

// TokenCount lazily counts tokens for the stored content. Placeholder
// content, a nil counter, and counter failures all yield zero; the count
// never fails.
func (fileNode *FileNode) TokenCount() int {
	fileNode.tokenOnce.Do(func() {
		if fileNode.counter == nil {
			return
		}
		if fileNode.content == NonTextPlaceholder || fileNode.content == ReadErrorPlaceholder {
			return
		}
		tokenCount, countError := fileNode.counter.CountString(fileNode.content)
		if countError != nil {
			return
		}
		fileNode.tokens = tokenCount
	})
	return fileNode.tokens
}

// Snapshot converts the file node to its serialized form.
func (fileNode *FileNode) Snapshot() Snapshot {
	return FileSnapshot{
		Name:      fileNode.name,
		Type:      NodeTypeFile,
		Size:      fileNode.Size(),
		IsIgnored: fileNode.ignored,
		Content:   fileNode.content,
	}
}

// DirectoryNode holds one analyzed directory and its children in host
// listing order. The tree is built once and read-only afterward; aggregate
// accessors are pure functions over the fixed structure.
type DirectoryNode struct {
	name     string
	path     string
	ignored  bool
	children []Node
}

// NewDirectoryNode builds a directory node with no children.
func NewDirectoryNode(name string, path string, ignored bool) *DirectoryNode {
	return &DirectoryNode{name: name, path: path, ignored: ignored}
}

func (directoryNode *DirectoryNode) isNode() {}

// Name returns the directory's base name.
func (directoryNode *DirectoryNode) Name() string { return directoryNode.name }

// Path returns the directory's absolute path.
func (directoryNode *DirectoryNode) Path() string { return directoryNode.path }

// IsIgnored reports whether an ignore pattern matched the directory.
func (directoryNode *DirectoryNode) IsIgnored() bool { return directoryNode.ignored }

// Children returns the child nodes in host listing order.
func (directoryNode *DirectoryNode) Children() []Node { return directoryNode.children }

// AddChild appends a child during the build phase.
func (directoryNode *DirectoryNode) AddChild(child Node) {
	directoryNode.children = append(directoryNode.children, child)
}

// Size returns the gross byte total: the stored content length of every
// descendant file, ignored or not. Ignoring a file or subtree never changes
// an ancestor's Size.
func (directoryNode *DirectoryNode) Size() int64 {
	var grossTotal int64
	for _, child := range directoryNode.children {
		grossTotal += child.Size()
	}
	return grossTotal
}

// FileCount returns the net number of file descendants: ignored files are
// skipped and ignored directories are not entered.
func (directoryNode *DirectoryNode) FileCount() int {
	fileTotal := 0
	for _, child := range directoryNode.children {
		if child.IsIgnored() {
			continue
		}
		switch childNode := child.(type) {
		case *FileNode:
			fileTotal++
		case *DirectoryNode:
			fileTotal += childNode.FileCount()
		}
	}
	return fileTotal
}

// DirCount returns the net number of directory descendants: ignored
// directories contribute nothing, including their entire subtree.
func (directoryNode *DirectoryNode) DirCount() int {
	directoryTotal := 0
	for _, child := range directoryNode.children {
		if child.IsIgnored() {
			continue
		}
		if childNode, isDirectory := child.(*DirectoryNode); isDirectory {
			directoryTotal += 1 + childNode.DirCount()
		}
	}
	return directoryTotal
}

// TotalTokens returns the net token total over non-ignored file
// descendants, skipping ignored subtrees entirely.
func (directoryNode *DirectoryNode) TotalTokens() int {
	tokenTotal := 0
	for _, child := range directoryNode.children {
		if child.IsIgnored() {
			continue
		}
		switch childNode := child.(type) {
		case *FileNode:
			tokenTotal += childNode.TokenCount()
		case *DirectoryNode:
			tokenTotal += childNode.TotalTokens()
		}
	}
	return tokenTotal
}

// NonIgnoredContentSize returns the net byte total of stored content over
// non-ignored file descendants, skipping ignored subtrees entirely.
func (directoryNode *DirectoryNode) NonIgnoredContentSize() int64 {
	var netTotal int64
	for _, child := range directoryNode.children {
		if child.IsIgnored() {
			continue
		}
		switch childNode := child.(type) {
		case *FileNode:
			netTotal += childNode.Size()
		case *DirectoryNode:
			netTotal += childNode.NonIgnoredContentSize()
		}
	}
	return netTotal
}

// Snapshot converts the directory node and its subtree to the serialized
// form, resolving every aggregate at call time.
func (directoryNode *DirectoryNode) Snapshot() Snapshot {
	childSnapshots := make([]Snapshot, 0, len(directoryNode.children))
	for _, child := range directoryNode.children {
		childSnapshots = append(childSnapshots, child.Snapshot())
	}
	return DirectorySnapshot{
		Name:                  directoryNode.name,
		Type:                  NodeTypeDirectory,
		Size:                  directoryNode.Size(),
		IsIgnored:             directoryNode.ignored,
		NonIgnoredContentSize: directoryNode.NonIgnoredContentSize(),
		TotalTokens:           directoryNode.TotalTokens(),
		FileCount:             directoryNode.FileCount(),
		DirCount:              directoryNode.DirCount(),
		Children:              childSnapshots,
	}
}
