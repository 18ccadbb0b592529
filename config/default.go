package config

import _ "embed"

// DefaultConfigYAML is the embedded baseline configuration. Every key can be
// overridden by an external config file or a SERENICASH_* environment variable.
//
//go:embed default.yaml
var DefaultConfigYAML []byte
