// Package terminal provides direct ANSI terminal control for a key-hold game.
//
// Features:
//   - Raw stdin input with press, repeat and release events via the
//     progressive keyboard enhancement protocol (CSI u)
//   - Legacy byte parsing for terminals without the protocol (press only)
//   - Double-buffered output with cell-level diffing
//   - True color (24-bit) and 256-color palette support
//   - SIGWINCH resize detection
//   - Clean terminal restoration on exit/panic
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
