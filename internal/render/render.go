// Package render formats version listings for the evm CLI.
//
// Plain output is the default and is meant for people and shell pipelines
// alike: one version per line, with the active version of a local listing
// prefixed by "* ". JSON and YAML emit the same listings as documents.
//
// --no-color only affects plain output; colors are also dropped whenever the
// writer is not a terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Format is an output format.
type Format string

// Supported formats.
const (
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ActiveMarker and InactiveMarker prefix local listing lines.
const (
	ActiveMarker   = "* "
	InactiveMarker = "  "
)

// ParseFormat parses a format name. The empty string selects plain.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain", "text":
		return FormatPlain, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format: %q (must be plain, json, or yaml)", s)
	}
}

// Local is one entry of an installed-version listing.
type Local struct {
	Name   string `json:"name" yaml:"name"`
	Path   string `json:"path" yaml:"path"`
	Active bool   `json:"active" yaml:"active"`
}

// Remote is one entry of a catalog listing.
type Remote struct {
	Version   string `json:"version" yaml:"version"`
	Stable    bool   `json:"stable" yaml:"stable"`
	Artifacts int    `json:"artifacts" yaml:"artifacts"`
}

// Renderer writes listings in one format.
type Renderer struct {
	format Format
	out    io.Writer
	active lipgloss.Style
	muted  lipgloss.Style
}

// New creates a renderer writing to out.
func New(format Format, noColor bool, out io.Writer) *Renderer {
	lr := lipgloss.NewRenderer(out)
	r := &Renderer{
		format: format,
		out:    out,
		active: lr.NewStyle(),
		muted:  lr.NewStyle(),
	}
	if !noColor {
		r.active = r.active.Foreground(lipgloss.Color("#10B981")).Bold(true)
		r.muted = r.muted.Foreground(lipgloss.Color("#6B7280"))
	}
	return r
}

// Local renders an installed-version listing.
func (r *Renderer) Local(items []Local) error {
	if r.format != FormatPlain {
		if items == nil {
			items = []Local{}
		}
		return r.encode(items)
	}

	for _, item := range items {
		var line string
		if item.Active {
			line = r.active.Render(ActiveMarker + item.Name)
		} else {
			line = InactiveMarker + item.Name
		}
		if _, err := fmt.Fprintln(r.out, line); err != nil {
			return err
		}
	}
	return nil
}

// Remote renders a catalog listing.
func (r *Renderer) Remote(items []Remote) error {
	if r.format != FormatPlain {
		if items == nil {
			items = []Remote{}
		}
		return r.encode(items)
	}

	for _, item := range items {
		line := item.Version
		if !item.Stable {
			line = r.muted.Render(line)
		}
		if _, err := fmt.Fprintln(r.out, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) encode(data any) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}
