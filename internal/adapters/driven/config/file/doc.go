// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based settings storage
//   - RuleStore: chapter rule sets, user files overlaid on the embedded defaults
package file
