package bpydocs

import (
	"fmt"
	"strings"
)

// Doc types assigned to parsed reference entries.
const (
	DocTypeFunction = "function"
	DocTypeClass    = "class"
	DocTypeProperty = "property"
)

// Metadata field limits. Long descriptions and signatures are truncated
// before storage so that index payloads stay bounded.
const (
	maxDescriptionLen = 1000
	maxSignatureLen   = 500
	maxParameters     = 10
)

// DocEntry represents a documented function, class or property extracted
// from the Blender Python API reference.
type DocEntry struct {
	FunctionPath string      `json:"functionPath"` // e.g. "bpy.ops.mesh.subdivide"
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Signature    string      `json:"signature,omitempty"`
	Parameters   []Parameter `json:"parameters,omitempty"`
	ReturnType   string      `json:"returnType,omitempty"`
	ExampleCode  string      `json:"exampleCode,omitempty"`
	Module       string      `json:"module"` // e.g. "bpy.ops.mesh"
	DocType      string      `json:"docType"`
}

// Parameter describes a single parameter of a documented function.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *DocEntry) Validate() error {
	if e.FunctionPath == "" {
		return Errorf(EINVALID, "entry function path required")
	}
	if e.DocType == "" {
		return Errorf(EINVALID, "entry doc type required")
	}
	return nil
}

// DeriveModule fills in Module from FunctionPath when it is not already set.
func (e *DocEntry) DeriveModule() {
	if e.Module != "" {
		return
	}
	if i := strings.LastIndex(e.FunctionPath, "."); i > 0 {
		e.Module = e.FunctionPath[:i]
	}
}

// EmbeddingText returns the canonical text representation of the entry fed
// to the embedding model. The function path carries the most signal and
// comes first; field order must stay stable across index runs or vectors
// for unchanged entries would drift.
func (e *DocEntry) EmbeddingText() string {
	parts := make([]string, 0, 6)
	if e.FunctionPath != "" {
		parts = append(parts, "Function: "+e.FunctionPath)
	}
	if e.Module != "" {
		parts = append(parts, "Module: "+e.Module)
	}
	if e.DocType != "" {
		parts = append(parts, "Type: "+e.DocType)
	}
	if e.Description != "" {
		parts = append(parts, "Description: "+e.Description)
	}
	if e.Signature != "" {
		parts = append(parts, "Signature: "+e.Signature)
	}
	if names := e.parameterNames(); len(names) > 0 {
		parts = append(parts, "Parameters: "+strings.Join(names, ", "))
	}
	return strings.Join(parts, "\n\n")
}

// Metadata returns the metadata record stored alongside the entry's vector
// and in the function-detail cache. Oversized fields are truncated.
func (e *DocEntry) Metadata() EntryMetadata {
	md := EntryMetadata{
		FunctionPath: e.FunctionPath,
		Title:        e.Title,
		Description:  truncate(e.Description, maxDescriptionLen),
		Module:       e.Module,
		DocType:      e.DocType,
		ExampleCode:  e.ExampleCode,
	}
	if len(e.Signature) < maxSignatureLen {
		md.Signature = e.Signature
	}
	if len(e.Parameters) > maxParameters {
		md.Parameters = e.Parameters[:maxParameters]
	} else {
		md.Parameters = e.Parameters
	}
	return md
}

func (e *DocEntry) parameterNames() []string {
	var names []string
	for i, p := range e.Parameters {
		if i == maxParameters {
			break
		}
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return names
}

// EntryMetadata is the structured record attached to an indexed vector.
// It is what search results carry and what the function-detail cache stores.
type EntryMetadata struct {
	FunctionPath string      `json:"function_path"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Module       string      `json:"module"`
	DocType      string      `json:"doc_type"`
	Signature    string      `json:"signature,omitempty"`
	Parameters   []Parameter `json:"parameters,omitempty"`
	ExampleCode  string      `json:"example_code,omitempty"`

	// ContentHash is a hash of the entry's embedding text, used to detect
	// changed entries between index runs.
	ContentHash string `json:"content_hash,omitempty"`
}

// Validate returns an error if the metadata record is unusable.
func (m *EntryMetadata) Validate() error {
	if m.FunctionPath == "" {
		return Errorf(EINVALID, "metadata function path required")
	}
	return nil
}

// String implements fmt.Stringer for log output.
func (m *EntryMetadata) String() string {
	return fmt.Sprintf("%s (%s)", m.FunctionPath, m.DocType)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Parser extracts documentation entries from a Sphinx-generated HTML page.
type Parser interface {
	// Parse processes raw HTML and returns the entries documented on the
	// page. Pages with no recognizable entries yield an empty slice.
	Parse(html string) ([]*DocEntry, error)
}
