// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the askdoc config directory.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable prompt templates
//   - LoadEnv: .env loading and environment overrides
package file
