package intake

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrMalformedFilename is returned when a filename does not follow the
// <prefix>_<computer>.<ext> convention used by the scanner script.
var ErrMalformedFilename = errors.New("intake: malformed log filename")

var windowsDeviceFiles = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// SecureFilename returns an ASCII-only version of name that is safe to use
// on a filesystem or in a header. Directory components are stripped for both
// slash styles, whitespace runs become a single underscore and anything
// outside [A-Za-z0-9_.-] is dropped. The result may be empty.
func SecureFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = norm.NFKD.String(name)

	var ascii strings.Builder
	for _, r := range name {
		if r < 0x80 {
			ascii.WriteRune(r)
		}
	}
	name = ascii.String()

	name = strings.Join(strings.Fields(name), "_")

	var safe strings.Builder
	for _, r := range name {
		if isSafeFilenameRune(r) {
			safe.WriteRune(r)
		}
	}
	name = strings.Trim(safe.String(), "._")

	if runtime.GOOS == "windows" && name != "" {
		base, _, _ := strings.Cut(name, ".")
		if windowsDeviceFiles[strings.ToUpper(base)] {
			name = "_" + name
		}
	}
	return name
}

func isSafeFilenameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '.', r == '-':
		return true
	}
	return false
}

// ComputerName extracts the computer name from a sanitized log filename.
// The name is the part after the first underscore, up to its last dot:
// "msert_HOST01.log" yields "HOST01".
func ComputerName(filename string) (string, error) {
	tokens := strings.Split(filename, "_")
	if len(tokens) < 2 {
		return "", fmt.Errorf("%w: %q has no underscore", ErrMalformedFilename, filename)
	}

	segments := strings.Split(tokens[1], ".")
	if len(segments) < 2 {
		return "", fmt.Errorf("%w: %q has no extension after the computer name", ErrMalformedFilename, filename)
	}

	name := segments[len(segments)-2]
	if name == "" {
		return "", fmt.Errorf("%w: %q has an empty computer name", ErrMalformedFilename, filename)
	}
	return name, nil
}
