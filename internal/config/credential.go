package config

import "strings"

// Credential environment variables, in precedence order.
const (
	EnvAPIKey    = "ANTHROPIC_API_KEY"
	EnvAltAPIKey = "N0CONFLICT_API_KEY"
)

// ErrMissingCredential is returned when no API key is configured.
var ErrMissingCredential = &ConfigError{
	Field: "credential",
	Msg:   "no API key found; set " + EnvAPIKey + " or " + EnvAltAPIKey,
}

// Credential is the API key for the resolution capability.
type Credential struct {
	// Source names the environment variable the key came from.
	Source string
	Key    string
}

// String redacts the key.
func (c Credential) String() string {
	return c.Source + "=<redacted>"
}

// ResolveCredential looks up the API key using lookup, typically
// os.LookupEnv. Blank values are skipped.
func ResolveCredential(lookup func(string) (string, bool)) (Credential, error) {
	for _, name := range []string{EnvAPIKey, EnvAltAPIKey} {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			return Credential{Source: name, Key: v}, nil
		}
	}
	return Credential{}, ErrMissingCredential
}
