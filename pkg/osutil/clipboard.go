package osutil

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
)

// ErrClipboardEmpty is returned when a paste finds nothing to paste.
var ErrClipboardEmpty = errors.New("clipboard is empty")

// Clipboard reads and writes plain text.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// SystemClipboard is the clipboard of the desktop session.
var SystemClipboard Clipboard = systemClipboard{}

// Paste reads the clipboard and trims surrounding whitespace.
func Paste(c Clipboard) (string, error) {
	if clipboard.Unsupported && c == SystemClipboard {
		return "", errors.New("clipboard is not supported on this system")
	}
	text, err := c.ReadAll()
	if err != nil {
		return "", errors.Wrap(err, "failed to read clipboard")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrClipboardEmpty
	}
	return text, nil
}

// Copy writes text to the clipboard.
func Copy(c Clipboard, text string) error {
	if clipboard.Unsupported && c == SystemClipboard {
		return errors.New("clipboard is not supported on this system")
	}
	return errors.Wrap(c.WriteAll(text), "failed to write clipboard")
}
