// Package pkg provides the core libraries for Folio report compilation.
//
// # Overview
//
// Folio compiles declarative report definitions (grids, tables, and stacks)
// into Typst typesetting markup. The pkg directory is organized into four
// main areas:
//
//  1. [layout] / [compile] / [ir] - Domain logic (definition parsing, IR compilation)
//  2. [typst] - Markup generation (data binding, formatting, code emission)
//  3. [cache] / [observability] - Infrastructure (staged caching, hooks)
//  4. [pipeline] - Orchestration (load → compile → render)
//
// # Architecture
//
// The typical data flow through Folio:
//
//	TOML/YAML/JSON definition
//	         ↓
//	    [layout] package (parse definition)
//	         ↓
//	    [compile] package (normalize into layout IR)
//	         ↓
//	    [typst] package (bind data + emit markup)
//	         ↓
//	    Typst/JSON output
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    DefinitionPath: "invoice.toml",
//	    Formats:        []string{pipeline.FormatTyp},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Artifacts[pipeline.FormatTyp])
//
// Each stage is cached by content hash, so repeated renders of an unchanged
// definition are served from the cache. See [pipeline] for details.
package pkg
