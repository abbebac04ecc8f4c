package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/at-ishikawa/langtutor/internal/journal"
	"github.com/at-ishikawa/langtutor/internal/session"
)

var errEnd = errors.New("end")

// PracticeCLI runs exercise rounds in the terminal
type PracticeCLI struct {
	sessionID    string
	picker       session.ExercisePicker
	reviewer     session.AnswerReviewer
	journal      journal.Sink
	round        *session.Round
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
}

func NewPracticeCLI(
	picker session.ExercisePicker,
	reviewer session.AnswerReviewer,
	sink journal.Sink,
	stdin io.Reader,
	stdout io.Writer,
) *PracticeCLI {
	sessionID := uuid.NewString()
	return &PracticeCLI{
		sessionID:    sessionID,
		picker:       picker,
		reviewer:     reviewer,
		journal:      sink,
		round:        session.NewRound(sessionID, picker, time.Now()),
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
	}
}

// Run repeats Session until the learner quits, the input ends or an interrupt arrives
func (cli *PracticeCLI) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for ctx.Err() == nil {
			if err := cli.Session(ctx); err != nil {
				if !errors.Is(err, errEnd) {
					errCh <- err
				}
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// Session handles one step of the round: an answer when unsubmitted, the move to the next exercise when submitted
func (cli *PracticeCLI) Session(ctx context.Context) error {
	if cli.round.Submitted {
		return cli.next()
	}

	fmt.Fprintf(cli.stdoutWriter, "%s\n", cli.bold.Sprint(cli.round.Exercise))
	fmt.Fprint(cli.stdoutWriter, "Answer: ")
	answer, err := cli.readLine()
	if err != nil {
		return err
	}
	if answer == "quit" || answer == "exit" {
		fmt.Fprintln(cli.stdoutWriter, "Practice session ended.")
		return errEnd
	}

	if err := cli.round.Submit(ctx, cli.reviewer, answer); err != nil {
		color.New(color.FgRed).Fprintln(cli.stdoutWriter, cli.round.Error)
		return nil
	}

	review := *cli.round.Review
	fmt.Fprintln(cli.stdoutWriter)
	if err := PrintReview(cli.stdoutWriter, review); err != nil {
		return err
	}
	if review.Model != "" {
		fmt.Fprintln(cli.stdoutWriter, cli.italic.Sprintf("Reviewed by %s", review.Model))
	}

	attempt := journal.NewAttempt(cli.sessionID, cli.round.Exercise, review)
	if err := cli.journal.Record(ctx, attempt); err != nil {
		slog.Default().Error("failed to record the attempt", "error", err)
	}
	return nil
}

func (cli *PracticeCLI) next() error {
	fmt.Fprint(cli.stdoutWriter, "Press Enter for the next exercise, or type quit: ")
	input, err := cli.readLine()
	if err != nil {
		return err
	}
	if input == "quit" || input == "exit" {
		fmt.Fprintln(cli.stdoutWriter, "Practice session ended.")
		return errEnd
	}
	if err := cli.round.Next(cli.picker); err != nil {
		return fmt.Errorf("round.Next() > %w", err)
	}
	fmt.Fprintln(cli.stdoutWriter)
	return nil
}

// readLine returns errEnd once the input is exhausted
func (cli *PracticeCLI) readLine() (string, error) {
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
			fmt.Fprintln(cli.stdoutWriter)
			return "", errEnd
		}
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("error reading input: %w", err)
		}
	}
	return strings.TrimSpace(line), nil
}
