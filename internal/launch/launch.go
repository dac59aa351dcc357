// Package launch hands generated pages to the desktop: opening a file or
// URL in the default application and copying text to the clipboard.
package launch

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

var (
	// ErrUnsupported is returned on platforms without a known opener.
	ErrUnsupported = errors.New("opening files is not supported on this platform")
	// ErrClipboardUnavailable is returned when no clipboard tool is installed.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
)

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// OpenCommand returns the command that opens target on goos. Local paths
// must exist; URLs are passed through.
func OpenCommand(goos, target string) (*exec.Cmd, error) {
	if target == "" {
		return nil, errors.New("nothing to open")
	}
	if !isURL(target) {
		if _, err := os.Stat(target); err != nil {
			return nil, fmt.Errorf("checking %s: %w", target, err)
		}
	}
	switch goos {
	case "darwin":
		return exec.Command("open", target), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", target), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, goos)
}

// Open starts the default application for target and does not wait for it.
func Open(target string) error {
	cmd, err := OpenCommand(runtime.GOOS, target)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// CopyCommand returns the clipboard writer for goos, preferring xclip over
// xsel on Linux.
func CopyCommand(goos string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		if _, err := lookPath("pbcopy"); err == nil {
			return exec.Command("pbcopy"), nil
		}
	case "linux":
		if _, err := lookPath("xclip"); err == nil {
			return exec.Command("xclip", "-selection", "clipboard"), nil
		}
		if _, err := lookPath("xsel"); err == nil {
			return exec.Command("xsel", "--clipboard", "--input"), nil
		}
	}
	return nil, ErrClipboardUnavailable
}

// Copy writes text to the system clipboard.
func Copy(text string) error {
	cmd, err := CopyCommand(runtime.GOOS)
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
