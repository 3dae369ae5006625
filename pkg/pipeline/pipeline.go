// Package pipeline provides the core report pipeline for Folio.
//
// This package implements the complete load → compile → render pipeline
// that can be used by CLI and server components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Parse a report definition from TOML, YAML, or JSON
//  2. Compile: Lower the definition into the normalized layout IR
//  3. Render: Generate output in various formats (Typst markup, IR JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    DefinitionPath: "invoice.toml",
//	    Formats:        []string{"typ"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	markup := result.Artifacts["typ"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/folio-reports/folio/pkg/ir"
	"github.com/folio-reports/folio/pkg/layout"
)

// Format constants for output formats.
const (
	// FormatTyp is Typst markup, the primary output.
	FormatTyp = "typ"

	// FormatJSON is the compiled IR in its JSON envelope.
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatTyp:  true,
	FormatJSON: true,
}

// Options contains all configuration for the report pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	DefinitionPath   string `json:"definition_path,omitempty"`
	Definition       []byte `json:"definition,omitempty"`        // inline definition bytes (server mode)
	DefinitionFormat string `json:"definition_format,omitempty"` // toml/yaml/json, required with inline bytes
	Refresh          bool   `json:"refresh,omitempty"`

	// Render options
	DataPath   string         `json:"data_path,omitempty"`
	Data       map[string]any `json:"data,omitempty"` // inline data context, merged over the definition's
	Formats    []string       `json:"formats,omitempty"`
	NoPreamble bool           `json:"no_preamble,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Definition is the parsed report definition.
	Definition *layout.Definition

	// DefinitionHash is the content hash of the definition bytes.
	DefinitionHash string

	// Layouts are the compiled IR trees, one per declared layout.
	Layouts []ir.Node

	// IRHash is the content hash of the compiled IR.
	IRHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayoutCount int
	LoadTime    time.Duration
	CompileTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	CompileHit bool // Whether compiled IR came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: typ, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading a definition.
func (o *Options) ValidateForLoad() error {
	if o.DefinitionPath == "" && len(o.Definition) == 0 {
		return fmt.Errorf("definition_path or definition is required")
	}
	if len(o.Definition) > 0 && o.DefinitionFormat == "" {
		return fmt.Errorf("definition_format is required with inline definitions")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatTyp}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}
