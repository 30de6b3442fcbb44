// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// configcmd.go - Configuration inspection and editing commands.
//
// Subcommands:
//   show          Print the effective configuration (default)
//   get KEY       Print one value by dot-notation key
//   set KEY VALUE Update one value and save
//   keys          List all settable keys
//   path          Print the config file location
package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/lens-tui/internal/config"
)

// HandleConfigCommand dispatches the "config" subcommands.
func HandleConfigCommand(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return NewCommandError("config", "load configuration", err.Error(), err)
	}

	switch args.Subcommand {
	case "", "show":
		fmt.Print(cfg.String())
		return nil

	case "get":
		return runConfigGet(cfg, args)

	case "set":
		return runConfigSet(cfg, args)

	case "keys":
		for _, key := range config.GetAllKeys() {
			fmt.Println(key)
		}
		return nil

	case "path":
		return runConfigPath()

	default:
		return NewCommandError("config", "parse subcommand",
			fmt.Sprintf("unknown subcommand %q (try: show, get, set, keys, path)", args.Subcommand), nil)
	}
}

func runConfigGet(cfg *config.Config, args Args) error {
	if len(args.Raw) == 0 {
		return ErrMissingArgument("key", "lens config get oracle.base_url")
	}

	value, err := cfg.Get(args.Raw[0])
	if err != nil {
		return NewCommandError("config", "get value", err.Error(), err)
	}
	fmt.Printf("%v\n", value)
	return nil
}

func runConfigSet(cfg *config.Config, args Args) error {
	if len(args.Raw) < 2 {
		return ErrMissingArgument("key and value", "lens config set ui.default_mode slack")
	}
	key, value := args.Raw[0], args.Raw[1]

	if err := cfg.Set(key, value); err != nil {
		return NewCommandError("config", "set value", err.Error(), err)
	}
	if err := cfg.Validate(); err != nil {
		return NewCommandError("config", "validate", err.Error(), err)
	}
	if err := config.Save(cfg); err != nil {
		return NewCommandError("config", "save configuration", err.Error(), err)
	}

	if !args.Quiet {
		fmt.Printf("%s %s = %s\n", SuccessStyle.Render("[OK]"), key, value)
	}
	return nil
}

func runConfigPath() error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return NewCommandError("config", "resolve path", err.Error(), err)
	}
	fmt.Println(path)

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		fmt.Fprintln(os.Stderr, DimStyle.Render("(not created yet; defaults are in effect)"))
	}
	return nil
}
