// Package clipboard delivers rendered digests to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
	Available() bool
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether the platform exposes a usable clipboard, so
// callers can skip offering a copy that would always fail.
func (service *Service) Available() bool {
	return !clipboard.Unsupported
}

var _ Copier = (*Service)(nil)
