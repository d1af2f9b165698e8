package config

// File and directory names under the evm home.
const (
	DefaultDirName = ".evm"
	FileName       = "config.lua"
)

// Environment variables.
const (
	EnvHome     = "EVM_HOME"
	EnvMirror   = "EVM_MIRROR"
	EnvLogLevel = "EVM_LOG_LEVEL"
)

// Lua schema field names and globals
const (
	luaGlobalEvm     = "evm"
	luaFieldMirror   = "mirror"
	luaFieldKeyring  = "keyring"
	luaFieldLogLevel = "log_level"
	luaFieldAgent    = "user_agent"
)
