package main

import (
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/alnah/go-blogmark"
	"github.com/alnah/go-blogmark/internal/assets"
	"github.com/alnah/go-blogmark/internal/config"
	"github.com/alnah/go-blogmark/internal/fileutil"
	"github.com/alnah/go-blogmark/internal/hints"
)

// maxWorkers bounds -w and BLOGMARK_WORKERS.
const maxWorkers = 64

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// resolveWorkers determines the worker count.
// Priority: explicit flag > environment > GOMAXPROCS (adjusted by automaxprocs).
func resolveWorkers(flagWorkers, envWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	if envWorkers > 0 {
		return envWorkers
	}
	return max(1, runtime.GOMAXPROCS(0))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// loadConfig resolves the effective configuration.
// Priority: flags > environment > embedded defaults.
func loadConfig(f *commonFlags, ec *envConfig) (*config.Config, error) {
	name := firstNonEmpty(f.config, ec.ConfigPath)
	preset := firstNonEmpty(f.preset, ec.Preset)
	assetPath := firstNonEmpty(f.assetPath, ec.AssetPath)

	var cfg *config.Config
	var err error
	switch {
	case name != "" && preset != "":
		return nil, fmt.Errorf("%w: --config and --preset cannot be combined", ErrUsage)
	case name != "":
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w%s", err, configHint(err, name))
		}
	case preset != "":
		cfg, err = config.LoadPreset(preset, assetPath)
		if err != nil {
			return nil, fmt.Errorf("loading preset: %w%s", err, configHint(err, ""))
		}
	default:
		cfg = config.DefaultConfig()
	}

	if ec.InputDir != "" {
		cfg.Input.DefaultDir = ec.InputDir
	}
	return cfg, nil
}

// configHint picks the hint matching a configuration error.
func configHint(err error, name string) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound) && name != "" && !fileutil.IsFilePath(name):
		return hints.ForConfigNotFound(config.SearchPaths(name))
	case errors.Is(err, assets.ErrPresetNotFound):
		return hints.ForPresetNotFound(assets.Presets())
	case errors.Is(err, blogmark.ErrUnknownRule):
		return hints.ForUnknownRule()
	}
	return ""
}

// newCompiler builds a Compiler from cfg, adding hints to configuration errors.
func newCompiler(cfg *config.Config) (*blogmark.Compiler, error) {
	c, err := blogmark.NewCompiler(blogmark.WithConfig(cfg))
	if err == nil {
		return c, nil
	}
	var hint string
	switch {
	case errors.Is(err, blogmark.ErrEmptyLanguageList):
		hint = hints.ForEmptyLanguages()
	case errors.Is(err, blogmark.ErrEmptyIconTable):
		hint = hints.ForMissingIcons(missingIcons(cfg))
	case errors.Is(err, blogmark.ErrInvalidThumbnailURL):
		hint = hints.ForThumbnailURL()
	case errors.Is(err, blogmark.ErrUnknownRule):
		hint = hints.ForUnknownRule()
	}
	return nil, fmt.Errorf("%w%s", err, hint)
}

// missingIcons lists the icon entries the renderer requires but cfg lacks.
func missingIcons(cfg *config.Config) []string {
	var missing []string
	if len(cfg.Links.Icons) == 0 {
		missing = append(missing, "links.icons.<host>")
	}
	for _, key := range []string{"amazon", "pdf"} {
		if _, ok := cfg.Links.TypeIcons[key]; !ok {
			missing = append(missing, "links.typeIcons."+key)
		}
	}
	sort.Strings(missing)
	return missing
}

// setup loads the configuration and compiler shared by every command.
func setup(f *commonFlags, env *Environment) (*config.Config, *blogmark.Compiler, *envConfig, error) {
	ec, err := loadEnvConfig(env)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := loadConfig(f, ec)
	if err != nil {
		return nil, nil, nil, err
	}
	c, err := newCompiler(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, c, ec, nil
}

// resolveInputs returns the positional inputs, or the configured default
// directory when none were given.
func resolveInputs(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if cfg.Input.DefaultDir != "" {
		return []string{cfg.Input.DefaultDir}, nil
	}
	return nil, fmt.Errorf("%w%s", ErrNoInput, hints.ForNoInput())
}
