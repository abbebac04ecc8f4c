package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/langtutor/internal/database"
)

var createTableStatements = map[string]string{
	"sqlite": `CREATE TABLE IF NOT EXISTS attempts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	exercise TEXT NOT NULL,
	answer TEXT NOT NULL,
	reply TEXT NOT NULL,
	incorrect_words TEXT NOT NULL,
	corrected TEXT NOT NULL,
	feedback TEXT NOT NULL,
	model TEXT NOT NULL,
	reviewed_at TIMESTAMP NOT NULL
)`,
	"mysql": `CREATE TABLE IF NOT EXISTS attempts (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	session_id VARCHAR(64) NOT NULL,
	exercise TEXT NOT NULL,
	answer TEXT NOT NULL,
	reply TEXT NOT NULL,
	incorrect_words TEXT NOT NULL,
	corrected TEXT NOT NULL,
	feedback TEXT NOT NULL,
	model VARCHAR(255) NOT NULL,
	reviewed_at DATETIME(6) NOT NULL,
	INDEX idx_attempts_session_id (session_id)
)`,
}

const insertAttempt = `INSERT INTO attempts
	(session_id, exercise, answer, reply, incorrect_words, corrected, feedback, model, reviewed_at)
	VALUES (:session_id, :exercise, :answer, :reply, :incorrect_words, :corrected, :feedback, :model, :reviewed_at)`

type attemptRow struct {
	SessionID      string    `db:"session_id"`
	Exercise       string    `db:"exercise"`
	Answer         string    `db:"answer"`
	Reply          string    `db:"reply"`
	IncorrectWords string    `db:"incorrect_words"`
	Corrected      string    `db:"corrected"`
	Feedback       string    `db:"feedback"`
	Model          string    `db:"model"`
	ReviewedAt     time.Time `db:"reviewed_at"`
}

// SQLSink stores attempts in the attempts table of a SQLite or MySQL database
type SQLSink struct {
	db *sqlx.DB
}

// NewSQLSink creates the attempts table if it does not exist yet
func NewSQLSink(ctx context.Context, db *sqlx.DB) (*SQLSink, error) {
	statement, ok := createTableStatements[db.DriverName()]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", db.DriverName())
	}
	if _, err := db.ExecContext(ctx, statement); err != nil {
		return nil, fmt.Errorf("create attempts table: %w", err)
	}
	return &SQLSink{db: db}, nil
}

func (s *SQLSink) Record(ctx context.Context, attempt Attempt) error {
	incorrectWords := attempt.IncorrectWords
	if incorrectWords == nil {
		incorrectWords = []string{}
	}
	words, err := json.Marshal(incorrectWords)
	if err != nil {
		return fmt.Errorf("json.Marshal() > %w", err)
	}
	row := attemptRow{
		SessionID:      attempt.SessionID,
		Exercise:       attempt.Exercise,
		Answer:         attempt.Answer,
		Reply:          attempt.Reply,
		IncorrectWords: string(words),
		Corrected:      attempt.Corrected,
		Feedback:       attempt.Feedback,
		Model:          attempt.Model,
		ReviewedAt:     attempt.ReviewedAt.UTC(),
	}

	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, insertAttempt, row); err != nil {
			return fmt.Errorf("insert attempt: %w", err)
		}
		return nil
	})
}

func (s *SQLSink) Close() error {
	return s.db.Close()
}
