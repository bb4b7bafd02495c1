package utils

import (
	"io"
	"os"
	"unicode/utf8"
)

// sniffLength defines the maximum number of bytes read when classifying file content.
const sniffLength = 8000

// IsBinary reports whether the provided byte slice appears to contain binary data.
// An empty slice is treated as text.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	for _, byteValue := range data {
		if byteValue == 0 {
			return true
		}
	}
	return false
}

// IsFileText reads up to sniffLength bytes from the file at path and reports
// whether the content can be treated as text. Files that cannot be opened or
// sampled are reported as non-text.
func IsFileText(path string) bool {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return false
	}
	defer fileHandle.Close()

	sampleBuffer := make([]byte, sniffLength)
	bytesRead, readError := fileHandle.Read(sampleBuffer)
	if readError != nil && readError != io.EOF {
		return false
	}
	return !IsBinary(sampleBuffer[:bytesRead])
}
