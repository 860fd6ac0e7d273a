package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// envPrefix starts every environment variable the CLI reads.
const envPrefix = "BLOGMARK_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // BLOGMARK_CONFIG: config file name or path
	Preset     string // BLOGMARK_PRESET: preset name
	AssetPath  string // BLOGMARK_ASSET_PATH: custom preset directory
	InputDir   string // BLOGMARK_INPUT_DIR: default input directory
	Workers    int    // BLOGMARK_WORKERS: parallel workers
}

// knownEnvVars lists valid BLOGMARK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"BLOGMARK_CONFIG":     true,
	"BLOGMARK_PRESET":     true,
	"BLOGMARK_ASSET_PATH": true,
	"BLOGMARK_INPUT_DIR":  true,
	"BLOGMARK_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(env *Environment) (*envConfig, error) {
	cfg := &envConfig{
		ConfigPath: env.Getenv("BLOGMARK_CONFIG"),
		Preset:     env.Getenv("BLOGMARK_PRESET"),
		AssetPath:  env.Getenv("BLOGMARK_ASSET_PATH"),
		InputDir:   env.Getenv("BLOGMARK_INPUT_DIR"),
	}

	if v := env.Getenv("BLOGMARK_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: BLOGMARK_WORKERS=%q is not a number", ErrInvalidWorkerCount, v)
		}
		if err := validateWorkers(n); err != nil {
			return nil, fmt.Errorf("BLOGMARK_WORKERS: %w", err)
		}
		cfg.Workers = n
	}

	return cfg, nil
}

// unknownEnvVars returns BLOGMARK_* variables that are not recognized, sorted.
func unknownEnvVars(environ []string) []string {
	var unknown []string
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// warnUnknownEnvVars prints a warning for every unrecognized BLOGMARK_* variable.
func warnUnknownEnvVars(env *Environment) {
	for _, name := range unknownEnvVars(env.Environ()) {
		fmt.Fprintf(env.Stderr, "warning: unknown environment variable %s\n", name)
	}
}
