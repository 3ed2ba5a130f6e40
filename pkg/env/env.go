package env

import "os"

// Get reads an environment variable, falling back when unset or empty. Typed
// configuration lives in pkg/config; this is for the few knobs read before
// config is loaded (logger output format).
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
