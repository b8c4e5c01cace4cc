package locker

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Collection names. Comments is created for schema parity but records are
// embedded inside books rather than written here.
const (
	CollectionUsers    = "users"
	CollectionBooks    = "books"
	CollectionSwaps    = "swaps"
	CollectionComments = "comments"
)

var collections = []string{CollectionUsers, CollectionBooks, CollectionSwaps, CollectionComments}

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("duplicate id")
)

// Store is a document store over SQLite: one table per collection, each row
// keyed by the record id with the record itself serialized as JSON. Reads
// degrade to empty results on failure (logged); writes return their error.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenStore opens (or creates) the database at dbPath, applies schema
// migrations, and seeds the initial data when the user collection is empty.
func OpenStore(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	store := &Store{db: db, log: logger}
	if err := store.seedIfEmpty(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, name := range collections {
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            id TEXT PRIMARY KEY,
            data TEXT NOT NULL
        );`, name)
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}

	return tx.Commit()
}

// seedIfEmpty bulk-inserts the bootstrap users and books in one transaction
// when the user collection has no rows yet.
func (s *Store) seedIfEmpty() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, u := range seedUsers() {
		data, err := json.Marshal(obfuscateUser(u))
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
		if _, err := tx.Exec(`INSERT INTO users(id,data) VALUES(?,?)`, u.ID, string(data)); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	for _, b := range seedBooks() {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("seed book %s: %w", b.ID, err)
		}
		if _, err := tx.Exec(`INSERT INTO books(id,data) VALUES(?,?)`, b.ID, string(data)); err != nil {
			return fmt.Errorf("seed book %s: %w", b.ID, err)
		}
	}

	s.log.Info("seeded initial data")
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Generic CRUD
// ---------------------------------------------------------------------------

// Each operation below is a single SQLite statement and therefore runs in its
// own implicit transaction scoped to one collection. Multi-step mutations at
// the layer above get no cross-collection atomicity.

// GetAll returns every record in insertion order. Failures are logged and an
// empty result returned.
func (s *Store) GetAll(collection string) []json.RawMessage {
	rows, err := s.db.Query(fmt.Sprintf(`SELECT data FROM %s ORDER BY rowid`, collection))
	if err != nil {
		s.log.Warn("getAll failed", "collection", collection, "error", err)
		return nil
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			s.log.Warn("getAll scan failed", "collection", collection, "error", err)
			return nil
		}
		out = append(out, json.RawMessage(data))
	}
	if err := rows.Err(); err != nil {
		s.log.Warn("getAll failed", "collection", collection, "error", err)
		return nil
	}
	return out
}

// Get returns the record with the given id, or false when absent or on
// failure (logged).
func (s *Store) Get(collection, id string) (json.RawMessage, bool) {
	var data string
	err := s.db.QueryRow(fmt.Sprintf(`SELECT data FROM %s WHERE id=?`, collection), id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		s.log.Warn("get failed", "collection", collection, "id", id, "error", err)
		return nil, false
	}
	return json.RawMessage(data), true
}

// Add inserts a new record and fails when the id already exists.
func (s *Store) Add(collection, id string, item any) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("add to %s: %w", collection, err)
	}
	_, err = s.db.Exec(fmt.Sprintf(`INSERT INTO %s(id,data) VALUES(?,?)`, collection), id, string(data))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("add to %s: %w", collection, ErrDuplicateID)
		}
		return fmt.Errorf("add to %s: %w", collection, err)
	}
	return nil
}

// Put inserts or replaces the record with the given id.
func (s *Store) Put(collection, id string, item any) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("put to %s: %w", collection, err)
	}
	_, err = s.db.Exec(fmt.Sprintf(`INSERT OR REPLACE INTO %s(id,data) VALUES(?,?)`, collection), id, string(data))
	if err != nil {
		return fmt.Errorf("put to %s: %w", collection, err)
	}
	return nil
}

// Delete removes the record with the given id. Deleting an absent id is not
// an error.
func (s *Store) Delete(collection, id string) error {
	_, err := s.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id=?`, collection), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}
	return nil
}

// getAllAs decodes every record of a collection into T, skipping (and
// logging) rows that no longer unmarshal.
func getAllAs[T any](s *Store, collection string) []T {
	raw := s.GetAll(collection)
	out := make([]T, 0, len(raw))
	for _, data := range raw {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			s.log.Warn("skipping undecodable record", "collection", collection, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}

func getAs[T any](s *Store, collection, id string) (T, bool) {
	var v T
	raw, ok := s.Get(collection, id)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Warn("undecodable record", "collection", collection, "id", id, "error", err)
		return v, false
	}
	return v, true
}

// ---------------------------------------------------------------------------
// Typed accessors
// ---------------------------------------------------------------------------

func obfuscateUser(u User) User {
	u.Email = Encode(u.Email)
	if u.Password != "" {
		u.Password = Encode(u.Password)
	}
	return u
}

func revealUser(u User) User {
	u.Email, _ = Decode(u.Email)
	if u.Password != "" {
		u.Password, _ = Decode(u.Password)
	}
	return u
}

// Users returns all users with credentials decoded.
func (s *Store) Users() []User {
	users := getAllAs[User](s, CollectionUsers)
	for i, u := range users {
		users[i] = revealUser(u)
	}
	return users
}

// AddUser encodes credentials before inserting.
func (s *Store) AddUser(u User) error {
	return s.Add(CollectionUsers, u.ID, obfuscateUser(u))
}

// PutUser re-encodes credentials before updating.
func (s *Store) PutUser(u User) error {
	return s.Put(CollectionUsers, u.ID, obfuscateUser(u))
}

func (s *Store) DeleteUser(id string) error { return s.Delete(CollectionUsers, id) }

func (s *Store) Books() []Book { return getAllAs[Book](s, CollectionBooks) }

func (s *Store) GetBook(id string) (Book, bool) { return getAs[Book](s, CollectionBooks, id) }

func (s *Store) AddBook(b Book) error { return s.Add(CollectionBooks, b.ID, b) }

func (s *Store) PutBook(b Book) error { return s.Put(CollectionBooks, b.ID, b) }

func (s *Store) DeleteBook(id string) error { return s.Delete(CollectionBooks, id) }

func (s *Store) Swaps() []Swap { return getAllAs[Swap](s, CollectionSwaps) }

func (s *Store) GetSwap(id string) (Swap, bool) { return getAs[Swap](s, CollectionSwaps, id) }

func (s *Store) AddSwap(sw Swap) error { return s.Add(CollectionSwaps, sw.ID, sw) }

func (s *Store) PutSwap(sw Swap) error { return s.Put(CollectionSwaps, sw.ID, sw) }
