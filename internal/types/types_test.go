package types_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/temirov/cdigest/internal/types"
)

// sampleFileContent holds twenty-seven bytes of file content.
const sampleFileContent = "abcdefghijklmnopqrstuvwxyz\n"

// sampleContentLength is the byte length of sampleFileContent.
const sampleContentLength = int64(len(sampleFileContent))

// treeRootPath is the synthetic absolute path used for constructed trees.
const treeRootPath = "/project"

// stubTokenCounter implements types.TokenCounter for testing.
type stubTokenCounter struct {
	tokensPerFile int
	failCounting  bool
}

// CountString returns the configured token count or a forced failure.
func (counter stubTokenCounter) CountString(text string) (int, error) {
	if counter.failCounting {
		return 0, errors.New("counting failed")
	}
	return counter.tokensPerFile, nil
}

// newFile builds a non-ignored file node without a token counter.
func newFile(name string) *types.FileNode {
	return types.NewFileNode(name, treeRootPath+"/"+name, sampleFileContent, false, nil)
}

// newIgnoredFile builds an ignored file node without a token counter.
func newIgnoredFile(name string) *types.FileNode {
	return types.NewFileNode(name, treeRootPath+"/"+name, sampleFileContent, true, nil)
}

// TestDirectoryAggregates verifies the gross size and net count invariants.
func TestDirectoryAggregates(testingInstance *testing.T) {
	testCases := []struct {
		testName                      string
		buildTree                     func() *types.DirectoryNode
		expectedSize                  int64
		expectedFileCount             int
		expectedDirCount              int
		expectedNonIgnoredContentSize int64
	}{
		{
			testName: "empty directory",
			buildTree: func() *types.DirectoryNode {
				return types.NewDirectoryNode("root", treeRootPath, false)
			},
			expectedSize:                  0,
			expectedFileCount:             0,
			expectedDirCount:              0,
			expectedNonIgnoredContentSize: 0,
		},
		{
			testName: "single file",
			buildTree: func() *types.DirectoryNode {
				rootNode := types.NewDirectoryNode("root", treeRootPath, false)
				rootNode.AddChild(newFile("a.txt"))
				return rootNode
			},
			expectedSize:                  sampleContentLength,
			expectedFileCount:             1,
			expectedDirCount:              0,
			expectedNonIgnoredContentSize: sampleContentLength,
		},
		{
			testName: "ten files",
			buildTree: func() *types.DirectoryNode {
				rootNode := types.NewDirectoryNode("root", treeRootPath, false)
				fileNames := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
				for _, fileName := range fileNames {
					rootNode.AddChild(newFile(fileName + ".txt"))
				}
				return rootNode
			},
			expectedSize:                  10 * sampleContentLength,
			expectedFileCount:             10,
			expectedDirCount:              0,
			expectedNonIgnoredContentSize: 10 * sampleContentLength,
		},
		{
			testName: "file inside subdirectory",
			buildTree: func() *types.DirectoryNode {
				rootNode := types.NewDirectoryNode("root", treeRootPath, false)
				subdirectory := types.NewDirectoryNode("sub", treeRootPath+"/sub", false)
				subdirectory.AddChild(newFile("a.txt"))
				rootNode.AddChild(subdirectory)
				return rootNode
			},
			expectedSize:                  sampleContentLength,
			expectedFileCount:             1,
			expectedDirCount:              1,
			expectedNonIgnoredContentSize: sampleContentLength,
		},
		{
			testName: "ignored file keeps gross size",
			buildTree: func() *types.DirectoryNode {
				rootNode := types.NewDirectoryNode("root", treeRootPath, false)
				rootNode.AddChild(newIgnoredFile("a.txt"))
				return rootNode
			},
			expectedSize:                  sampleContentLength,
			expectedFileCount:             0,
			expectedDirCount:              0,
			expectedNonIgnoredContentSize: 0,
		},
		{
			testName: "ignored subdirectory keeps gross size",
			buildTree: func() *types.DirectoryNode {
				rootNode := types.NewDirectoryNode("root", treeRootPath, false)
				ignoredSubdirectory := types.NewDirectoryNode("sub", treeRootPath+"/sub", true)
				ignoredSubdirectory.AddChild(newFile("a.txt"))
				rootNode.AddChild(ignoredSubdirectory)
				return rootNode
			},
			expectedSize:                  sampleContentLength,
			expectedFileCount:             0,
			expectedDirCount:              0,
			expectedNonIgnoredContentSize: 0,
		},
		{
			testName: "ignored file next to ordinary file",
			buildTree: func() *types.DirectoryNode {
				rootNode := types.NewDirectoryNode("root", treeRootPath, false)
				rootNode.AddChild(newIgnoredFile("a.txt"))
				rootNode.AddChild(newFile("b.txt"))
				return rootNode
			},
			expectedSize:                  2 * sampleContentLength,
			expectedFileCount:             1,
			expectedDirCount:              0,
			expectedNonIgnoredContentSize: sampleContentLength,
		},
	}
	for index, testCase := range testCases {
		rootNode := testCase.buildTree()
		if actualSize := rootNode.Size(); actualSize != testCase.expectedSize {
			testingInstance.Errorf("case %d (%s): expected size %d, got %d", index, testCase.testName, testCase.expectedSize, actualSize)
		}
		if actualFileCount := rootNode.FileCount(); actualFileCount != testCase.expectedFileCount {
			testingInstance.Errorf("case %d (%s): expected file count %d, got %d", index, testCase.testName, testCase.expectedFileCount, actualFileCount)
		}
		if actualDirCount := rootNode.DirCount(); actualDirCount != testCase.expectedDirCount {
			testingInstance.Errorf("case %d (%s): expected directory count %d, got %d", index, testCase.testName, testCase.expectedDirCount, actualDirCount)
		}
		if actualNetSize := rootNode.NonIgnoredContentSize(); actualNetSize != testCase.expectedNonIgnoredContentSize {
			testingInstance.Errorf("case %d (%s): expected non-ignored content size %d, got %d", index, testCase.testName, testCase.expectedNonIgnoredContentSize, actualNetSize)
		}
	}
}

// TestFileNodeTokenCount verifies that token counting never fails.
func TestFileNodeTokenCount(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		content  string
		counter  types.TokenCounter
		expected int
	}{
		{
			testName: "nil counter",
			content:  sampleFileContent,
			counter:  nil,
			expected: 0,
		},
		{
			testName: "counter failure",
			content:  sampleFileContent,
			counter:  stubTokenCounter{failCounting: true},
			expected: 0,
		},
		{
			testName: "successful count",
			content:  sampleFileContent,
			counter:  stubTokenCounter{tokensPerFile: 7},
			expected: 7,
		},
		{
			testName: "non-text placeholder",
			content:  types.NonTextPlaceholder,
			counter:  stubTokenCounter{tokensPerFile: 7},
			expected: 0,
		},
		{
			testName: "read error placeholder",
			content:  types.ReadErrorPlaceholder,
			counter:  stubTokenCounter{tokensPerFile: 7},
			expected: 0,
		},
	}
	for index, testCase := range testCases {
		fileNode := types.NewFileNode("a.txt", treeRootPath+"/a.txt", testCase.content, false, testCase.counter)
		if actual := fileNode.TokenCount(); actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %d tokens, got %d", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestTotalTokens verifies that ignored nodes and subtrees contribute no tokens.
func TestTotalTokens(testingInstance *testing.T) {
	countingCounter := stubTokenCounter{tokensPerFile: 5}
	rootNode := types.NewDirectoryNode("root", treeRootPath, false)
	rootNode.AddChild(types.NewFileNode("kept.txt", treeRootPath+"/kept.txt", sampleFileContent, false, countingCounter))
	rootNode.AddChild(types.NewFileNode("dropped.txt", treeRootPath+"/dropped.txt", sampleFileContent, true, countingCounter))
	ignoredSubdirectory := types.NewDirectoryNode("sub", treeRootPath+"/sub", true)
	ignoredSubdirectory.AddChild(types.NewFileNode("hidden.txt", treeRootPath+"/sub/hidden.txt", sampleFileContent, false, countingCounter))
	rootNode.AddChild(ignoredSubdirectory)

	expectedTotal := 5
	if actualTotal := rootNode.TotalTokens(); actualTotal != expectedTotal {
		testingInstance.Errorf("expected %d total tokens, got %d", expectedTotal, actualTotal)
	}
}

// TestSnapshotRoundTrip verifies that snapshotting is a pure function.
func TestSnapshotRoundTrip(testingInstance *testing.T) {
	rootNode := types.NewDirectoryNode("root", treeRootPath, false)
	rootNode.AddChild(newFile("a.txt"))
	subdirectory := types.NewDirectoryNode("sub", treeRootPath+"/sub", false)
	subdirectory.AddChild(newIgnoredFile("b.txt"))
	rootNode.AddChild(subdirectory)

	firstSnapshot := rootNode.Snapshot()
	secondSnapshot := rootNode.Snapshot()
	if !reflect.DeepEqual(firstSnapshot, secondSnapshot) {
		testingInstance.Errorf("expected identical snapshots, got %#v and %#v", firstSnapshot, secondSnapshot)
	}

	directorySnapshot, isDirectory := firstSnapshot.(types.DirectorySnapshot)
	if !isDirectory {
		testingInstance.Fatalf("expected directory snapshot, got %T", firstSnapshot)
	}
	if directorySnapshot.FileCount != rootNode.FileCount() {
		testingInstance.Errorf("expected snapshot file count %d, got %d", rootNode.FileCount(), directorySnapshot.FileCount)
	}
	if directorySnapshot.Size != rootNode.Size() {
		testingInstance.Errorf("expected snapshot size %d, got %d", rootNode.Size(), directorySnapshot.Size)
	}
	if len(directorySnapshot.Children) != 2 {
		testingInstance.Fatalf("expected 2 child snapshots, got %d", len(directorySnapshot.Children))
	}
	if _, firstIsFile := directorySnapshot.Children[0].(types.FileSnapshot); !firstIsFile {
		testingInstance.Errorf("expected first child to be a file snapshot, got %T", directorySnapshot.Children[0])
	}
}

// TestDirectorySnapshotJSON verifies the serialized field names and nesting.
func TestDirectorySnapshotJSON(testingInstance *testing.T) {
	rootNode := types.NewDirectoryNode("root", treeRootPath, false)
	rootNode.AddChild(types.NewFileNode("a.txt", treeRootPath+"/a.txt", "hello", false, nil))

	serialized, marshalError := json.Marshal(rootNode.Snapshot())
	if marshalError != nil {
		testingInstance.Fatalf("marshaling snapshot: %v", marshalError)
	}
	expectedJSON := `{"name":"root","type":"directory","size":5,"isIgnored":false,` +
		`"nonIgnoredContentSize":5,"totalTokens":0,"fileCount":1,"dirCount":0,` +
		`"children":[{"name":"a.txt","type":"file","size":5,"isIgnored":false,"content":"hello"}]}`
	if string(serialized) != expectedJSON {
		testingInstance.Errorf("expected JSON %s, got %s", expectedJSON, string(serialized))
	}
}
