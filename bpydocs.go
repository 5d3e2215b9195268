// Package bpydocs provides semantic search over the Blender Python API
// reference documentation. It parses Sphinx-generated HTML pages into
// structured entries, indexes them in a remote vector store, and serves
// query tools over the Model Context Protocol, with a local SQLite cache
// shielding the expensive remote embedding and vector-index calls.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, qdrant/, openai/).
package bpydocs
