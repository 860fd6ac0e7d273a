package main

import (
	"fmt"

	"github.com/alnah/go-blogmark/internal/assets"
	"github.com/alnah/go-blogmark/internal/yamlutil"
)

// runConfig prints the effective configuration as YAML.
func runConfig(args []string, env *Environment) error {
	flags, positional, err := parseConfigFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: config takes no arguments", ErrUsage)
	}
	if flags.presets {
		return listPresets(flags, env)
	}

	cfg, _, _, err := setup(&flags.common, env)
	if err != nil {
		return err
	}
	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(data)
	return err
}

// listPresets prints the embedded presets and those under the asset path.
func listPresets(flags *configFlags, env *Environment) error {
	ec, err := loadEnvConfig(env)
	if err != nil {
		return err
	}
	resolver, err := assets.NewAssetResolver(firstNonEmpty(flags.common.assetPath, ec.AssetPath))
	if err != nil {
		return err
	}
	for _, name := range resolver.Presets() {
		fmt.Fprintln(env.Stdout, name)
	}
	return nil
}
