// Package file implements the ConfigStore port over a TOML file in the
// user's notelift directory. Nested tables are flattened to dot-notation
// keys, so "notion.token" addresses the token under the [notion] table.
package file
