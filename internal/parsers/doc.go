// Package parsers provides implementations of the NotebookParser
// interface. Each parser turns fetched notebook content into the source
// tree the hierarchy mapper consumes.
//
// Full-fidelity parsing of the OneNote binary format is an external
// concern; this package ships the registry plus a fallback parser that
// produces a placeholder tree from notebook metadata, so the pipeline
// runs end to end while a real parser is plugged in behind the port.
//
// Parsers are registered with the Registry at startup.
package parsers
