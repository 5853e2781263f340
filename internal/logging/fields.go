// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldDocument   = "document"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldBreaks  = "breaks"
	FieldLinkify = "linkify"
	FieldTheme   = "theme"

	// Render fields.
	FieldDocVersion = "doc_version"
	FieldTokens     = "tokens"
	FieldLineOffset = "line_offset"
	FieldCacheHit   = "cache_hit"
	FieldExtension  = "extension"
	FieldBytesOut   = "bytes_out"
	FieldHeadings   = "headings"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
