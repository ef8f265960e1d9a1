package env

import "os"

// Get returns the value of the given environment variable, or the
// fallback when the variable is unset or empty.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}
