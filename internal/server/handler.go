// Package server serves the exercise page over HTTP.
package server

import (
	"bytes"
	"errors"
	htmltemplate "html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/at-ishikawa/langtutor/internal/assets"
	"github.com/at-ishikawa/langtutor/internal/journal"
	"github.com/at-ishikawa/langtutor/internal/session"
	"github.com/at-ishikawa/langtutor/internal/tutor"
)

const SessionCookieName = "langtutor_session"

type Handler struct {
	store        *session.Store
	reviewer     session.AnswerReviewer
	journal      journal.Sink
	page         *htmltemplate.Template
	secureCookie bool
	cookieMaxAge time.Duration
	logger       *slog.Logger
}

type Option func(*Handler)

func WithSecureCookie(secure bool) Option {
	return func(h *Handler) {
		h.secureCookie = secure
	}
}

func WithCookieMaxAge(maxAge time.Duration) Option {
	return func(h *Handler) {
		h.cookieMaxAge = maxAge
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func NewHandler(store *session.Store, reviewer session.AnswerReviewer, sink journal.Sink, page *htmltemplate.Template, opts ...Option) *Handler {
	h := &Handler{
		store:        store,
		reviewer:     reviewer,
		journal:      sink,
		page:         page,
		cookieMaxAge: time.Hour,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) ShowPage(w http.ResponseWriter, r *http.Request) {
	round := h.store.GetOrCreate(h.sessionID(r))
	h.setSessionCookie(w, round.ID)

	var buf bytes.Buffer
	if err := assets.WritePage(&buf, h.page, newPage(round)); err != nil {
		h.logger.Error("failed to render the page", "error", err)
		http.Error(w, "failed to render the page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	answer := r.PostFormValue("answer")

	id := h.sessionID(r)
	submitted, err := h.store.Submit(r.Context(), id, h.reviewer, answer)
	if errors.Is(err, session.ErrUnknownSession) {
		// The learner never saw the exercise of a fresh round, so show it instead of reviewing
		round := h.store.GetOrCreate("")
		h.setSessionCookie(w, round.ID)
		h.logger.Info("ignored a submission for an unknown session", "session", round.ID)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.setSessionCookie(w, id)

	switch {
	case err == nil:
		if submitted.Review != nil {
			attempt := journal.NewAttempt(submitted.ID, submitted.Exercise, *submitted.Review)
			if err := h.journal.Record(r.Context(), attempt); err != nil {
				h.logger.Error("failed to record the attempt", "session", submitted.ID, "error", err)
			}
		}
	case errors.Is(err, session.ErrAlreadySubmitted), errors.Is(err, session.ErrSubmissionInFlight):
		h.logger.Info("ignored a submission", "session", id, "reason", err)
	default:
		h.logger.Warn("failed to review an answer", "session", id, "error", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	round := h.store.GetOrCreate(h.sessionID(r))
	h.setSessionCookie(w, round.ID)

	if _, err := h.store.Next(round.ID); err != nil {
		h.logger.Info("ignored a next request", "session", round.ID, "reason", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) sessionID(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookie,
	})
}

func newPage(round session.Round) assets.Page {
	page := assets.Page{
		Exercise:   round.Exercise,
		Submission: round.Submission,
		Submitted:  round.Submitted,
		Error:      round.Error,
	}
	if round.Review == nil {
		return page
	}

	// HTMLMarkup escapes the learner's and the model's text before adding spans
	rendered := round.Review.Render(tutor.HTMLMarkup{})
	page.HighlightedAnswer = htmltemplate.HTML(rendered.HighlightedAnswer)
	page.HighlightedCorrection = htmltemplate.HTML(rendered.HighlightedCorrection)
	page.Feedback = rendered.Feedback
	page.Model = round.Review.Model
	return page
}
