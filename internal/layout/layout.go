// Package layout loads OpenBangla keyboard layout files and provides a
// fixed-layout engine.
//
// A layout file is JSON:
//
//	{
//	  "info":   {"name": "Probhat", "type": "fixed", "version": "1.0"},
//	  "layout": {"K_Normal": "ক", "K_Shift": "খ", "Period_AltGr": "॥"}
//	}
//
// Layout keys are a physical key name (engine.KeyCode.Physical) and one of
// the variants Normal, Shift, AltGr or ShiftAltGr. Files are validated
// against an embedded JSON schema before use.
package layout

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"openbangla/internal/engine"
)

// ErrUnsupportedLayout is returned for valid layouts this engine cannot
// run, such as phonetic ones.
var ErrUnsupportedLayout = errors.New("layout: unsupported layout type")

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://openbangla.github.io/schema/layout-v1.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add layout schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Info describes a layout.
type Info struct {
	Name        string
	Type        string
	Version     string
	Description string
}

// Layout is a parsed fixed layout.
type Layout struct {
	Info Info
	Map  map[string]string
}

// Parse validates and decodes a layout document.
func Parse(data []byte) (*Layout, error) {
	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	// the schema guarantees info is an object with a string type
	info := doc.(map[string]interface{})["info"].(map[string]interface{})
	if typ := info["type"].(string); typ != "fixed" {
		return nil, fmt.Errorf("%w: %s layout %q", ErrUnsupportedLayout, typ, info["name"])
	}

	var raw struct {
		Info struct {
			Name        string      `json:"name"`
			Type        string      `json:"type"`
			Version     interface{} `json:"version"`
			Description string      `json:"description"`
		} `json:"info"`
		Layout map[string]string `json:"layout"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}

	l := &Layout{
		Info: Info{
			Name:        raw.Info.Name,
			Type:        raw.Info.Type,
			Description: raw.Info.Description,
		},
		Map: raw.Layout,
	}
	if raw.Info.Version != nil {
		l.Info.Version = fmt.Sprint(raw.Info.Version)
	}
	return l, nil
}

// LoadFile reads and parses the layout at path.
func LoadFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Variant names the modifier combination of a layout entry.
func Variant(shifted, altGr bool) string {
	switch {
	case shifted && altGr:
		return "ShiftAltGr"
	case altGr:
		return "AltGr"
	case shifted:
		return "Shift"
	default:
		return "Normal"
	}
}

// Lookup returns the text the layout assigns to key with the given AltGr
// state. The shift state comes from the key code itself.
func (l *Layout) Lookup(key engine.KeyCode, altGr bool) (string, bool) {
	if !key.Valid() {
		return "", false
	}
	text, ok := l.Map[key.Physical()+"_"+Variant(key.Shifted(), altGr)]
	return text, ok
}
