// Package file provides the TOML-based configuration store.
// Settings live in ~/.parley/config.toml and are flattened to
// dot-notation keys (e.g. "backend.url").
package file
