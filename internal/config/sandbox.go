package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM strips everything that could run commands, touch the
// filesystem or load code from a Lua VM. string, table and math remain.
func sandboxLuaVM(L *lua.LState) {
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)

	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)

	// debug can reach the registry and escape the sandbox.
	L.SetGlobal("debug", lua.LNil)
}

// newSandboxedVM creates a Lua state with sandboxing applied.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
