package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/daybook/internal/core/ports/driven"
	"github.com/custodia-labs/daybook/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads assistant prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptJournalSystem: `You are a warm, thoughtful journaling companion{{if .DisplayName}} for {{.DisplayName}}{{end}}.

The conversation is about the journal entry for {{.Weekday}}, {{.Date}}. The first user message is usually the diary text written that day.

When replying:
1. Reflect back what you notice in the entry, briefly and kindly
2. Ask at most one open question that invites deeper reflection
3. Never diagnose, lecture or give unsolicited advice
4. Keep replies short, a few sentences unless asked for more
{{if .Bio}}
About the writer: {{.Bio}}
{{end}}{{if .Instructions}}
Additional instructions from the writer: {{.Instructions}}
{{end}}`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.daybook/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".daybook", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// Falls back to the embedded default if the file is missing or unreadable.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// No lock held during I/O
	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		if err == nil {
			err = fmt.Errorf("empty file")
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Keep a value another goroutine cached first.
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Watch reloads prompts whenever a prompt file changes on disk, calling
// onChange (which may be nil) with the prompt name. It returns once the
// watcher is running; watching stops when ctx is cancelled.
func (s *PromptStore) Watch(ctx context.Context, onChange func(name string)) error {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return s.initErr
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	if err := watcher.Add(s.promptDir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", s.promptDir, err)
	}

	go func() {
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Warn("prompts: watcher close: %v", err)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Events may have been dropped.
				logger.Warn("prompts: watcher error: %v", err)
				s.Reload()
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				name, isPrompt := promptName(evt.Name)
				if !isPrompt || evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				s.forget(name)
				logger.Debug("prompts: %s changed, reloaded", name)
				if onChange != nil {
					onChange(name)
				}
			}
		}
	}()

	return nil
}

// forget drops one prompt from the cache.
func (s *PromptStore) forget(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
}

// promptName maps a file path to a prompt name if it is a prompt file.
func promptName(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".txt") {
		return "", false
	}
	return strings.TrimSuffix(base, ".txt"), true
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first use.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Only write defaults that don't exist yet
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# Daybook Prompts

This directory contains the prompts used by the Daybook assistant.

## Files

- ` + "`journal_system.txt`" + ` - System prompt for conversations about an entry

## Customisation

Edit any file to change how the assistant replies. The TUI picks up
changes immediately; other commands read the file on their next run.
Delete a file to restore the default.

## Template Fields

Prompts are Go text/template templates. Available fields:
- ` + "`{{.DisplayName}}`" + ` - Your display name
- ` + "`{{.Date}}`" + ` - The entry date (YYYY-MM-DD)
- ` + "`{{.Weekday}}`" + ` - The entry weekday
- ` + "`{{.Bio}}`" + ` - Your bio from settings
- ` + "`{{.Instructions}}`" + ` - Your extra instructions from settings
`
	return os.WriteFile(path, []byte(content), 0600)
}
