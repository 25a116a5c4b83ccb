// FILE: lixenwraith/tradelog/utility.go
package tradelog

import (
	"fmt"
	"strings"
)

// fmtErrorf prefixes every package error with "tradelog: "
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "tradelog: ") {
		format = "tradelog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors joins two errors, keeping err2 unwrappable
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" override. Both sides are trimmed, the value may be empty.
func parseKeyValue(arg string) (string, string, error) {
	key, value, ok := strings.Cut(strings.TrimSpace(arg), "=")
	if !ok {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, strings.TrimSpace(value), nil
}
