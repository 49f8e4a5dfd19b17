// Package envx reads configuration from environment variables.
package envx

import "os"

// FirstNonEmpty returns the value of the first key that is set to a
// non-empty string, trying keys in order. The second result reports which
// key won; both are empty when none is set.
func FirstNonEmpty(keys ...string) (string, string) {
	for _, key := range keys {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, key
		}
	}
	return "", ""
}

// String returns the value of key, or def when key is unset or empty.
func String(key, def string) string {
	if v, _ := FirstNonEmpty(key); v != "" {
		return v
	}
	return def
}
