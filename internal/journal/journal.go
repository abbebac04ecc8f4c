// Package journal records reviewed attempts for later study.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/langtutor/internal/config"
	"github.com/at-ishikawa/langtutor/internal/database"
	"github.com/at-ishikawa/langtutor/internal/tutor"
)

// Attempt is one reviewed answer
type Attempt struct {
	SessionID      string    `yaml:"session_id"`
	Exercise       string    `yaml:"exercise"`
	Answer         string    `yaml:"answer"`
	Reply          string    `yaml:"reply"`
	IncorrectWords []string  `yaml:"incorrect_words"`
	Corrected      string    `yaml:"corrected"`
	Feedback       string    `yaml:"feedback"`
	Model          string    `yaml:"model"`
	ReviewedAt     time.Time `yaml:"reviewed_at"`
}

func NewAttempt(sessionID, exercise string, review tutor.Review) Attempt {
	return Attempt{
		SessionID:      sessionID,
		Exercise:       exercise,
		Answer:         review.Answer,
		Reply:          review.Reply,
		IncorrectWords: review.IncorrectWords,
		Corrected:      review.Parsed.Corrected,
		Feedback:       review.Parsed.Feedback,
		Model:          review.Model,
		ReviewedAt:     review.ReviewedAt,
	}
}

//go:generate mockgen -source=journal.go -destination=../mocks/journal/mock_sink.go -package=mock_journal
type Sink interface {
	Record(ctx context.Context, attempt Attempt) error
	Close() error
}

// Nop discards every attempt
type Nop struct{}

func (Nop) Record(context.Context, Attempt) error { return nil }
func (Nop) Close() error                          { return nil }

// New opens the sink selected by cfg.Journal.Driver. An empty driver disables the journal.
func New(ctx context.Context, cfg *config.Config) (Sink, error) {
	switch cfg.Journal.Driver {
	case "":
		return Nop{}, nil
	case "yaml":
		return NewYAMLSink(cfg.Journal.YAMLFile), nil
	case "sqlite":
		db, err := database.OpenSQLite(cfg.Journal.SQLiteFile)
		if err != nil {
			return nil, fmt.Errorf("database.OpenSQLite() > %w", err)
		}
		return openSQLSink(ctx, db)
	case "mysql":
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database.Open() > %w", err)
		}
		return openSQLSink(ctx, db)
	default:
		return nil, fmt.Errorf("unknown journal driver %q", cfg.Journal.Driver)
	}
}

// openSQLSink closes db when the sink cannot be created
func openSQLSink(ctx context.Context, db *sqlx.DB) (Sink, error) {
	sink, err := NewSQLSink(ctx, db)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, errors.Join(err, closeErr)
		}
		return nil, err
	}
	return sink, nil
}
