package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
	"github.com/aliskhannn/villager-test-bot/internal/service"
	"github.com/aliskhannn/villager-test-bot/internal/storage"
)

//go:embed templates/index.html
var templates embed.FS

var indexTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

type Handler struct {
	logger      *zap.Logger
	sessions    SessionStorage
	quizService QuizService
}

func NewHandler(logger *zap.Logger, sessions SessionStorage, quizService QuizService) *Handler {
	return &Handler{
		logger:      logger,
		sessions:    sessions,
		quizService: quizService,
	}
}

type pageOption struct {
	Index   int
	Text    string
	Checked bool
}

type pageQuestion struct {
	Index   int
	Number  int
	Prompt  string
	Options []pageOption
}

type pageData struct {
	Questions []pageQuestion
	Result    string
	HasResult bool
}

func newPageData(sess *entities.Session) pageData {
	var data pageData
	for i, q := range sess.Questions() {
		selected, ok := sess.Selected(i)
		pq := pageQuestion{Index: i, Number: i + 1, Prompt: q.Prompt}
		for j, text := range q.Options {
			pq.Options = append(pq.Options, pageOption{
				Index:   j,
				Text:    text,
				Checked: ok && selected == j,
			})
		}
		data.Questions = append(data.Questions, pq)
	}
	data.Result, data.HasResult = sess.Result()
	return data
}

// Index renders the questionnaire with the session's selections and result.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)

	var data pageData
	err := h.sessions.WithSession(id, func(sess *entities.Session) error {
		data = newPageData(sess)
		return nil
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		h.logger.Error("failed to render page",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
}

// Answer records one selection from the form fields question and option.
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)

	question, errQ := strconv.Atoi(r.FormValue("question"))
	option, errO := strconv.Atoi(r.FormValue("option"))
	if errQ != nil || errO != nil {
		notice(w, http.StatusBadRequest, msgInvalidAnswer)
		return
	}

	err := h.sessions.WithSession(id, func(sess *entities.Session) error {
		return h.quizService.Select(sess, question, option)
	})
	if errors.Is(err, service.ErrInvalidSelection) {
		notice(w, http.StatusBadRequest, msgInvalidAnswer)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Submit streams the generated text as it arrives. Validation failures are
// reported with a status code; a failure after the first fragment can only
// be appended to the body.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	sw := newStreamWriter(w)

	err := h.sessions.WithSession(id, func(sess *entities.Session) error {
		_, err := h.quizService.Submit(r.Context(), sess, sw.render)
		return err
	})

	var genErr *service.GenerationError
	switch {
	case err == nil:
		sw.start()
	case errors.Is(err, service.ErrIncompleteAnswers):
		notice(w, http.StatusUnprocessableEntity, msgIncomplete)
	case errors.Is(err, service.ErrNotConfigured):
		notice(w, http.StatusServiceUnavailable, msgNotConfigured)
	case errors.As(err, &genErr):
		text := fmt.Sprintf(msgGenerationFailed, genErr.Error())
		if !sw.started {
			notice(w, http.StatusBadGateway, text)
			return
		}
		_, _ = io.WriteString(w, "\n\n"+text)
	default:
		h.fail(w, r, err)
	}
}

// Reset clears the session and sends the browser back to the form.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)

	err := h.sessions.WithSession(id, func(sess *entities.Session) error {
		h.quizService.Reset(sess)
		return nil
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Result writes the committed result for the page to put on the clipboard.
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)

	err := h.sessions.WithSession(id, func(sess *entities.Session) error {
		return h.quizService.Share(r.Context(), sess, responseClipboard{w: w})
	})
	if errors.Is(err, service.ErrNoResult) {
		notice(w, http.StatusConflict, msgNoResult)
		return
	}
	if err != nil {
		h.fail(w, r, err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrSessionBusy) {
		notice(w, http.StatusConflict, msgBusy)
		return
	}

	h.logger.Error("handle error",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	notice(w, http.StatusInternalServerError, msgInternalError)
}

func notice(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, text)
}

// streamWriter writes each new part of the growing text and flushes it.
// The response header is sent with the first fragment.
type streamWriter struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	written int
	started bool
}

func newStreamWriter(w http.ResponseWriter) *streamWriter {
	return &streamWriter{w: w, rc: http.NewResponseController(w)}
}

func (s *streamWriter) start() {
	if s.started {
		return
	}
	s.started = true

	h := s.w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Content-Type-Options", "nosniff")
	s.w.WriteHeader(http.StatusOK)
}

func (s *streamWriter) render(partial string) error {
	s.start()

	if _, err := io.WriteString(s.w, partial[s.written:]); err != nil {
		return err
	}
	s.written = len(partial)

	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}

// responseClipboard hands the text to the browser, which owns the clipboard.
type responseClipboard struct {
	w http.ResponseWriter
}

func (c responseClipboard) Copy(_ context.Context, text string) error {
	c.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err := io.WriteString(c.w, text)
	return err
}
