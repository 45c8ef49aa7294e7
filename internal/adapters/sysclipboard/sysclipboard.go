// Package sysclipboard provides a clipboard adapter backed by the system clipboard.
package sysclipboard

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/Uday9909/ExplainMyRepo/internal/ports"
)

// SystemClipboard implements ports.Clipboard using xclip/xsel, pbcopy or the Windows API.
type SystemClipboard struct{}

// New creates a new SystemClipboard adapter.
func New() *SystemClipboard {
	return &SystemClipboard{}
}

// Available reports whether a clipboard backend was found.
func (c *SystemClipboard) Available() bool {
	return !clipboard.Unsupported
}

// WriteAll replaces the clipboard contents with text.
func (c *SystemClipboard) WriteAll(text string) error {
	if !c.Available() {
		return fmt.Errorf("clipboard unavailable: no xclip, xsel or wl-copy found")
	}
	return clipboard.WriteAll(text)
}

// Compile-time check that SystemClipboard implements ports.Clipboard.
var _ ports.Clipboard = (*SystemClipboard)(nil)
