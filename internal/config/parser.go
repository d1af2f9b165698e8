package config

import (
	"context"
	"fmt"
	"os"

	"github.com/ZebulonRouseFrantzich/evm/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Parser evaluates config.lua with the platform table injected.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a parser. A nil detector leaves `platform` undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseFile parses the config file at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*File, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return p.ParseString(ctx, string(code))
}

// ParseString parses Lua config source.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*File, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua error",
			Detail:  err.Error(),
		}
	}

	return extractFile(L)
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractFile reads the global "evm" table. A script that never assigns it
// yields an empty File.
func extractFile(L *lua.LState) (*File, error) {
	value := L.GetGlobal(luaGlobalEvm)
	if value.Type() == lua.LTNil {
		return &File{}, nil
	}
	table, ok := value.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "invalid 'evm' value",
			Detail:  fmt.Sprintf("expected table, got %s", value.Type()),
		}
	}

	f := &File{}
	fields := []struct {
		name string
		dest *string
	}{
		{luaFieldMirror, &f.Mirror},
		{luaFieldKeyring, &f.Keyring},
		{luaFieldLogLevel, &f.LogLevel},
		{luaFieldAgent, &f.UserAgent},
	}
	for _, field := range fields {
		v := table.RawGetString(field.name)
		switch v.Type() {
		case lua.LTNil:
		case lua.LTString:
			*field.dest = v.String()
		default:
			return nil, &ParseError{
				Message: fmt.Sprintf("invalid 'evm.%s'", field.name),
				Detail:  fmt.Sprintf("expected string, got %s", v.Type()),
			}
		}
	}

	if err := f.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}
	return f, nil
}
