//go:build unix && !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package terminal

// resetTerminalMode is a no-op where termios ioctls are not mapped
func resetTerminalMode() {}
