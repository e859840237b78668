// Package filename turns client-supplied file names into names that are safe to use as a single
// path segment inside the Storage Directory.
package filename

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrUnsafe is returned by Validate for names that could escape the Storage Directory.
var ErrUnsafe = errors.New("unsafe filename")

var stripRe = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

var windowsDeviceNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM0": {}, "COM1": {}, "COM2": {}, "COM3": {}, "COM4": {},
	"COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT0": {}, "LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {},
	"LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// Sanitize returns a version of name that contains only ASCII letters, digits, '_', '.', and '-'.
//
// Non-ASCII characters are decomposed (NFKD) and dropped, path separators become spaces, runs
// of whitespace collapse into a single '_', and leading/trailing '.' and '_' are trimmed, so
// "../../etc/passwd" becomes "etc_passwd". Windows device names get a '_' prefix.
// The result may be empty; callers must reject an empty result.
func Sanitize(name string) string {
	name = norm.NFKD.String(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	name = b.String()

	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = stripRe.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name != "" {
		stem, _, _ := strings.Cut(name, ".")
		if _, ok := windowsDeviceNames[strings.ToUpper(stem)]; ok {
			name = "_" + name
		}
	}
	return name
}

// Validate reports whether name can be used as-is to look up a stored file.
// Unlike Sanitize it never rewrites. name must be a single path segment: "", ".", ".." and
// anything holding a separator or NUL byte is rejected with ErrUnsafe. Inner dots such as
// "report..final.txt" are fine since they cannot leave the directory.
func Validate(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return ErrUnsafe
	case strings.ContainsAny(name, "/\\\x00"):
		return ErrUnsafe
	case filepath.Base(name) != name:
		return ErrUnsafe
	}
	return nil
}
