package journal

import (
	"database/sql/driver"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lucasepe/codename"
	"github.com/nedpals/hlasmls/analysis"
	"github.com/nedpals/hlasmls/helpers"
	"go.lsp.dev/uri"

	_ "embed"

	_ "modernc.org/sqlite"
)

const FileName = "journal.db"

type NullTime struct {
	Time  time.Time
	Valid bool // Valid is true if Time is not NULL
}

// Scan implements the Scanner interface.
func (nt *NullTime) Scan(value interface{}) error {
	var raw string

	switch v := value.(type) {
	case nil:
		nt.Valid = false
		return nil
	case time.Time:
		nt.Time, nt.Valid = v, true
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("unsupported time value %T", value)
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil
	}

	nt.Time = t
	nt.Valid = true
	return nil
}

// Value implements the driver Valuer interface.
func (nt NullTime) Value() (driver.Value, error) {
	if !nt.Valid {
		return time.Now().Format(time.RFC3339Nano), nil
	}
	return nt.Time.Format(time.RFC3339Nano), nil
}

//go:embed init.sql
var initScript string

// Journal keeps a record of every line-length diagnostic published by a
// server session. It is opt-in and never read back by the server itself.
type Journal struct {
	sessionId string
	db        *sqlx.DB
}

func NewMemoryJournal() (*Journal, error) {
	return setupJournal(":memory:")
}

func NewJournal() (*Journal, error) {
	// get or initialize directory
	dirPath, err := helpers.GetOrInitializeDataDir()
	if err != nil {
		return nil, err
	}

	return NewJournalFromPath(filepath.Join(dirPath, FileName))
}

func NewJournalFromPath(path string) (*Journal, error) {
	if !filepath.IsAbs(path) {
		rPath, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}

		path = rPath
	}

	return setupJournal(path)
}

func setupJournal(dbPath string) (*Journal, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// every connection to ":memory:" opens a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(initScript); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to initialize journal: %w", err)
	}

	sessionId, err := generateSessionId()
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{sessionId: sessionId, db: db}, nil
}

func generateSessionId() (string, error) {
	seed, err := codename.NewCryptoSeed()
	if err != nil {
		return "", err
	}

	rng := rand.New(rand.NewSource(seed))
	return codename.Generate(rng, 4), nil
}

func (j *Journal) SessionId() string {
	return j.sessionId
}

type Entry struct {
	Id          int      `db:"id"`
	SessionId   string   `db:"session_id"`
	URI         string   `db:"uri"`
	Version     int      `db:"version"`
	Line        int      `db:"line"`
	StartColumn int      `db:"start_column"`
	EndColumn   int      `db:"end_column"`
	Message     string   `db:"message"`
	CreatedAt   NullTime `db:"created_at"`
}

const insertEntryQuery = `INSERT INTO diagnostics (
	session_id, uri, version, line,
	start_column, end_column, message, created_at
) VALUES (
	:session_id, :uri, :version, :line,
	:start_column, :end_column, :message, :created_at
)`

// Record stores the diagnostics of one validation pass in a single
// transaction.
func (j *Journal) Record(docUri uri.URI, version int32, diagnostics []analysis.Diagnostic) error {
	if len(diagnostics) == 0 {
		return nil
	}

	tx, err := j.db.Beginx()
	if err != nil {
		return err
	}

	now := NullTime{Time: time.Now(), Valid: true}
	for _, d := range diagnostics {
		entry := Entry{
			SessionId:   j.sessionId,
			URI:         string(docUri),
			Version:     int(version),
			Line:        d.Range.Start.Line,
			StartColumn: d.Range.Start.Character,
			EndColumn:   d.Range.End.Character,
			Message:     d.Message,
			CreatedAt:   now,
		}

		if _, err := tx.NamedExec(insertEntryQuery, &entry); err != nil {
			tx.Rollback()
			return fmt.Errorf("unable to record diagnostic: %w", err)
		}
	}

	return tx.Commit()
}

type Filter struct {
	SessionId string
	URI       string
}

func (j *Journal) Entries(filter Filter) ([]Entry, error) {
	q := sq.Select("id", "session_id", "uri", "version", "line", "start_column", "end_column", "message", "created_at").
		From("diagnostics").
		OrderBy("id")

	if len(filter.SessionId) != 0 {
		q = q.Where(sq.Eq{"session_id": filter.SessionId})
	}

	if len(filter.URI) != 0 {
		q = q.Where(sq.Eq{"uri": filter.URI})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	if err := j.db.Select(&entries, query, args...); err != nil {
		return nil, err
	}
	return entries, nil
}

type Summary struct {
	URI         string `db:"uri"`
	Diagnostics int    `db:"diagnostics"`
	Lines       int    `db:"lines"`
	Sessions    int    `db:"sessions"`
}

// Summarize groups the recorded diagnostics by document.
func (j *Journal) Summarize() ([]Summary, error) {
	query, args, err := sq.Select(
		"uri",
		"COUNT(*) AS diagnostics",
		"COUNT(DISTINCT line) AS lines",
		"COUNT(DISTINCT session_id) AS sessions",
	).
		From("diagnostics").
		GroupBy("uri").
		OrderBy("uri").
		ToSql()
	if err != nil {
		return nil, err
	}

	summaries := []Summary{}
	if err := j.db.Select(&summaries, query, args...); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (j *Journal) Close() error {
	// add a check to avoid nil pointer dereference
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}
