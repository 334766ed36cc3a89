// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentPersister: Durable local storage for the journal document
//   - ConfigStore: Application configuration
//   - Clock: Time source and timers (debounce, display windows)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Assistant: Answers diary questions. Without it, "ask" is disabled.
//   - LLMService: Raw language model access used to build an Assistant.
//   - PromptStore: User-editable prompts. Without it, built-in prompts are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or driving package
package driven
