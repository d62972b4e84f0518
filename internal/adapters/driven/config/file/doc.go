// Package file provides a TOML file-based configuration store holding
// provider credentials and pipeline tunables.
package file
