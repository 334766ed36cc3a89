package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/daybook/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
	"github.com/custodia-labs/daybook/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.DocumentPersister = (*Store)(nil)

// settingsKey is the settings table row holding the settings record.
const settingsKey = "settings"

// timeLayout is how timestamps are stored. It sorts lexically for UTC values.
const timeLayout = time.RFC3339Nano

// Store persists the journal document in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.daybook/data/journal.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".daybook", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "journal.db")

	// foreign_keys is a per-connection pragma, so it goes in the DSN
	// to apply to every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Debug("sqlite: opened %s", dbPath)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("starting migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
		logger.Debug("sqlite: applied migration %s", name)
	}

	return nil
}

// Load reads the whole document. It returns nil when nothing has been saved yet.
func (s *Store) Load(ctx context.Context) (*domain.JournalDoc, error) {
	doc := domain.NewJournalDoc()

	settingsFound, err := s.loadSettings(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := s.loadEntries(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.loadMessages(ctx, doc); err != nil {
		return nil, err
	}

	if !settingsFound && len(doc.Entries) == 0 {
		return nil, nil
	}
	return doc, nil
}

// Save writes the entries and settings named in changes, in one transaction.
func (s *Store) Save(ctx context.Context, doc *domain.JournalDoc, changes domain.ChangeSet) error {
	if doc == nil || changes.IsEmpty() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, date := range changes.Upserted {
		entry := doc.Entry(date)
		if entry == nil {
			if err := deleteEntry(ctx, tx, date); err != nil {
				return err
			}
			continue
		}
		if err := upsertEntry(ctx, tx, entry); err != nil {
			return err
		}
	}
	for _, date := range changes.Removed {
		if err := deleteEntry(ctx, tx, date); err != nil {
			return err
		}
	}
	if changes.Settings {
		if err := saveSettings(ctx, tx, doc.Settings); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing changes: %w", err)
	}
	return nil
}

// ==================== Entries ====================

func upsertEntry(ctx context.Context, tx *sql.Tx, entry *domain.JournalEntry) error {
	var lat, lon, acc sql.NullFloat64
	var place, capturedAt sql.NullString
	if p := entry.Position; p != nil {
		lat = sql.NullFloat64{Float64: p.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: p.Longitude, Valid: true}
		acc = sql.NullFloat64{Float64: p.Accuracy, Valid: true}
		place = sql.NullString{String: p.Place, Valid: true}
		capturedAt = sql.NullString{String: formatTime(p.CapturedAt), Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO entries (date, id, latitude, longitude, accuracy, place, position_captured_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			id = excluded.id,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			accuracy = excluded.accuracy,
			place = excluded.place,
			position_captured_at = excluded.position_captured_at,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, entry.Date.String(), entry.ID, lat, lon, acc, place, capturedAt,
		formatTime(entry.CreatedAt), formatTime(entry.UpdatedAt))
	if err != nil {
		return fmt.Errorf("saving entry %s: %w", entry.Date, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE entry_date = ?", entry.Date.String()); err != nil {
		return fmt.Errorf("clearing messages for %s: %w", entry.Date, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO messages (entry_date, seq, id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing message insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range entry.Messages {
		_, err := stmt.ExecContext(ctx, entry.Date.String(), i, m.ID, m.Role.String(), m.Content, formatTime(m.CreatedAt))
		if err != nil {
			return fmt.Errorf("saving message %s for %s: %w", m.ID, entry.Date, err)
		}
	}
	return nil
}

func deleteEntry(ctx context.Context, tx *sql.Tx, date domain.DateKey) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE entry_date = ?", date.String()); err != nil {
		return fmt.Errorf("deleting messages for %s: %w", date, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE date = ?", date.String()); err != nil {
		return fmt.Errorf("deleting entry %s: %w", date, err)
	}
	return nil
}

func (s *Store) loadEntries(ctx context.Context, doc *domain.JournalDoc) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, id, latitude, longitude, accuracy, place, position_captured_at, created_at, updated_at
		FROM entries
	`)
	if err != nil {
		return fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rawDate, id, createdAt, updatedAt string
			lat, lon, acc                     sql.NullFloat64
			place, capturedAt                 sql.NullString
		)
		if err := rows.Scan(&rawDate, &id, &lat, &lon, &acc, &place, &capturedAt, &createdAt, &updatedAt); err != nil {
			return fmt.Errorf("scanning entry: %w", err)
		}

		date, err := domain.ParseDateKey(rawDate)
		if err != nil {
			logger.Warn("sqlite: skipping entry with invalid date %q", rawDate)
			continue
		}

		entry := &domain.JournalEntry{
			ID:        id,
			Date:      date,
			Messages:  []domain.Message{},
			CreatedAt: parseTime(createdAt),
			UpdatedAt: parseTime(updatedAt),
		}
		if lat.Valid && lon.Valid {
			entry.Position = &domain.Position{
				Latitude:   lat.Float64,
				Longitude:  lon.Float64,
				Accuracy:   acc.Float64,
				Place:      place.String,
				CapturedAt: parseTime(capturedAt.String),
			}
		}
		doc.Entries[date] = entry
	}
	return rows.Err()
}

func (s *Store) loadMessages(ctx context.Context, doc *domain.JournalDoc) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_date, id, role, content, created_at
		FROM messages
		ORDER BY entry_date, seq
	`)
	if err != nil {
		return fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rawDate, id, role, content, createdAt string
		if err := rows.Scan(&rawDate, &id, &role, &content, &createdAt); err != nil {
			return fmt.Errorf("scanning message: %w", err)
		}
		entry := doc.Entries[domain.DateKey(rawDate)]
		if entry == nil {
			// Belongs to an entry skipped above.
			continue
		}
		entry.Messages = append(entry.Messages, domain.Message{
			ID:        id,
			Role:      domain.Role(role),
			Content:   content,
			CreatedAt: parseTime(createdAt),
		})
	}
	return rows.Err()
}

// ==================== Settings ====================

// settingsRecord is the stored JSON form of domain.Settings.
type settingsRecord struct {
	DisplayName  string            `json:"display_name,omitempty"`
	Timezone     string            `json:"timezone,omitempty"`
	Theme        string            `json:"theme"`
	Provider     string            `json:"provider"`
	Model        string            `json:"model,omitempty"`
	BaseURL      string            `json:"base_url,omitempty"`
	APIKeys      map[string]string `json:"api_keys,omitempty"`
	Bio          string            `json:"bio,omitempty"`
	Instructions string            `json:"instructions,omitempty"`
}

func toSettingsRecord(s domain.Settings) settingsRecord {
	rec := settingsRecord{
		DisplayName:  s.DisplayName,
		Timezone:     s.Timezone,
		Theme:        s.Theme.String(),
		Provider:     s.Provider.String(),
		Model:        s.Model,
		BaseURL:      s.BaseURL,
		Bio:          s.Bio,
		Instructions: s.Instructions,
	}
	if len(s.APIKeys) > 0 {
		rec.APIKeys = make(map[string]string, len(s.APIKeys))
		for p, k := range s.APIKeys {
			rec.APIKeys[p.String()] = k
		}
	}
	return rec
}

func (r settingsRecord) toDomain() domain.Settings {
	s := domain.DefaultSettings()
	s.DisplayName = r.DisplayName
	s.Timezone = r.Timezone
	if t := domain.Theme(r.Theme); t.IsValid() {
		s.Theme = t
	}
	if p := domain.AIProvider(r.Provider); p.IsValid() {
		s.Provider = p
	}
	s.Model = r.Model
	s.BaseURL = r.BaseURL
	s.Bio = r.Bio
	s.Instructions = r.Instructions
	for p, k := range r.APIKeys {
		s.APIKeys[domain.AIProvider(p)] = k
	}
	return s
}

func saveSettings(ctx context.Context, tx *sql.Tx, settings domain.Settings) error {
	data, err := json.Marshal(toSettingsRecord(settings))
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, settingsKey, string(data))
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

func (s *Store) loadSettings(ctx context.Context, doc *domain.JournalDoc) (bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", settingsKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying settings: %w", err)
	}

	var rec settingsRecord
	if err := json.Unmarshal([]byte(value), &rec); err != nil {
		logger.Warn("sqlite: settings record unreadable, using defaults: %v", err)
		return true, nil
	}
	doc.Settings = rec.toDomain()
	return true, nil
}

// ==================== Helpers ====================

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
