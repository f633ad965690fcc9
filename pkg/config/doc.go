/*
Package config loads the process configuration for the burrow tools.

Configuration is resolved in three layers, later layers winning:

 1. Built-in defaults (Default)
 2. A YAML file, overlaid with mergo
 3. BURROW_* environment variables

The environment layer mirrors how the original cluster stack points tools
at alternate schema catalogs and configuration files during testing, so a
harness can redirect every path without writing a file.

# Usage

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	reg := schema.NewRegistry(schema.Config{
		Dir:       cfg.SchemaDir,
		ExtraDirs: cfg.ExtraSchemaDirs,
	})
*/
package config
