package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound = goerr.New("configuration file not found")
	ErrInvalidConfig  = goerr.New("invalid configuration")
	ErrInvalidSeed    = goerr.New("invalid seed record")
	ErrMissingFlag    = goerr.New("required flag is missing")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	SeedPathKey   = "seed_path"
	SeedIndexKey  = "seed_index"
	FlagKey       = "flag"
)
