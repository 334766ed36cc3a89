// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem under ~/.daybook.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage (config.toml)
//   - PromptStore: user-editable assistant prompts (prompts/*.txt), with an
//     fsnotify watcher that reloads them when they change on disk
package file
