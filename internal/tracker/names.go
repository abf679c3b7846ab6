package tracker

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns the NFC form of a feature or status name, so that
// canonically equivalent spellings address the same files. It fails with
// CodeInvalidName for names that cannot be used as a file name component.
func NormalizeName(kind, name string) (string, error) {
	normalized := norm.NFC.String(name)
	switch {
	case normalized == "":
		return "", NewUserError(CodeInvalidName, "%s name must not be empty", kind)
	case strings.ContainsAny(normalized, "/\\\r\n"):
		return "", NewUserError(CodeInvalidName, "invalid %s name %q: must not contain a slash, backslash or line break", kind, name)
	case strings.HasPrefix(normalized, "."):
		return "", NewUserError(CodeInvalidName, "invalid %s name %q: must not start with '.'", kind, name)
	case strings.TrimSpace(normalized) != normalized:
		// Index files are read back with surrounding space trimmed.
		return "", NewUserError(CodeInvalidName, "invalid %s name %q: must not start or end with white space", kind, name)
	}
	return normalized, nil
}

func nfc(s string) string {
	return norm.NFC.String(s)
}
