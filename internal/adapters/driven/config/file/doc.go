// Package file provides file-based configuration adapters: a typed
// TOML configuration loader and a prompt store serving user-editable
// prompt template files with embedded defaults and live reload.
package file
