// Package clipboard copies text to the system clipboard. Headless hosts
// without a clipboard utility fall back to an in-memory clipboard.
package clipboard

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

var ErrUnsupported = errors.New("system clipboard unsupported")

// Clipboard receives copied text.
type Clipboard interface {
	Copy(text string) error
}

// System writes to the OS clipboard.
type System struct{}

func (System) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// Memory keeps the last copied text. Safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	text   string
	copies int
}

func (m *Memory) Copy(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.copies++
	return nil
}

// Text returns the last copied text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Copies returns how many times Copy was called.
func (m *Memory) Copies() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copies
}

// Detect returns the system clipboard when one is available and a Memory
// clipboard otherwise.
func Detect() Clipboard {
	if clipboard.Unsupported {
		return &Memory{}
	}
	return System{}
}
