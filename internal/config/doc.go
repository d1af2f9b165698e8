// Package config resolves evm's settings.
//
// The evm home directory is $EVM_HOME, or ~/.evm when unset. It may contain
// an optional config.lua, evaluated in a sandboxed Lua VM (no os, io,
// require, load or debug) with a read-only platform table available:
//
//	evm = {
//	  mirror     = "https://mirrors.example.com/golang",
//	  keyring    = "~/.evm/golang.asc",
//	  log_level  = platform.is_linux and "debug" or "info",
//	  user_agent = "evm/1.0 (ci)",
//	}
//
// Environment variables override the file, and command-line flags override
// both:
//
//	EVM_HOME        evm home directory
//	EVM_MIRROR      download and catalog base URL
//	EVM_LOG_LEVEL   debug, info, warn or error
package config
