//go:build !unix

package terminal

import "errors"

// ErrNotTerminal is returned when no raw terminal backend exists on this platform
var ErrNotTerminal = errors.New("raw terminal backend unavailable on this platform")

type nullBackend struct{}

func newBackend() Backend { return nullBackend{} }

func (nullBackend) Init() error                            { return ErrNotTerminal }
func (nullBackend) Fini()                                  {}
func (nullBackend) Size() (int, int)                       { return 80, 24 }
func (nullBackend) Write(p []byte) (int, error)            { return len(p), nil }
func (nullBackend) Read(<-chan struct{}) ([]byte, error)   { return nil, ErrNotTerminal }
func (nullBackend) SetResizeHandler(func(width, height int)) {}

func resetTerminalMode() {}
