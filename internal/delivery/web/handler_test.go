package web

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
	"github.com/aliskhannn/villager-test-bot/internal/service"
	"github.com/aliskhannn/villager-test-bot/internal/storage"
)

type staticKey string

func (k staticKey) APIKey() (string, bool) {
	return string(k), k != ""
}

type fragmentStreamer struct {
	fragments []string
	err       error
}

func (f fragmentStreamer) Stream(context.Context, service.GenerationRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, fr := range f.fragments {
			if !yield(fr, nil) {
				return
			}
		}
		if f.err != nil {
			yield("", f.err)
		}
	}
}

func testQuestions() []entities.Question {
	qs := make([]entities.Question, entities.NumQuestions)
	for i := range qs {
		qs[i] = entities.Question{
			Prompt:  "prompt-" + string(rune('a'+i)),
			Options: []string{"A", "B", "C", "D"},
		}
	}
	return qs
}

type client struct {
	t      *testing.T
	router http.Handler
	cookie *http.Cookie
}

func newClient(t *testing.T, st service.Streamer, key string) *client {
	sessions := storage.NewSessionStorage[string](testQuestions())
	quiz := service.NewQuizService(st, staticKey(key), zap.NewNop(), 0)
	h := NewHandler(zap.NewNop(), sessions, quiz)
	return &client{t: t, router: NewRouter(zap.NewNop(), h)}
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) answerAll() {
	c.t.Helper()
	for i := 0; i < entities.NumQuestions; i++ {
		rec := c.do(http.MethodPost, "/answers", url.Values{"question": {strconv.Itoa(i)}, "option": {"1"}})
		if rec.Code != http.StatusNoContent {
			c.t.Fatalf("answer %d: status %d", i, rec.Code)
		}
	}
}

func TestIndexIssuesSessionCookie(t *testing.T) {
	c := newClient(t, fragmentStreamer{}, "key")

	rec := c.do(http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if c.cookie == nil {
		t.Fatal("no session cookie issued")
	}
	body := rec.Body.String()
	for _, q := range testQuestions() {
		if !strings.Contains(body, q.Prompt) {
			t.Errorf("page is missing %q", q.Prompt)
		}
	}
	if strings.Contains(body, " checked") {
		t.Error("fresh session renders a selection")
	}
}

func TestAnswerRestoresSelection(t *testing.T) {
	c := newClient(t, fragmentStreamer{}, "key")
	c.do(http.MethodGet, "/", nil)

	rec := c.do(http.MethodPost, "/answers", url.Values{"question": {"2"}, "option": {"3"}})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	body := c.do(http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(body, `name="q2" data-question="2" value="3" checked`) {
		t.Error("selection not restored")
	}
}

func TestAnswerInvalid(t *testing.T) {
	c := newClient(t, fragmentStreamer{}, "key")

	for _, form := range []url.Values{
		{"question": {"x"}, "option": {"1"}},
		{"question": {"0"}, "option": {"4"}},
		{"question": {"5"}, "option": {"0"}},
	} {
		if rec := c.do(http.MethodPost, "/answers", form); rec.Code != http.StatusBadRequest {
			t.Errorf("%v: status = %d", form, rec.Code)
		}
	}
}

func TestSubmitStreamsAndCommits(t *testing.T) {
	c := newClient(t, fragmentStreamer{fragments: []string{"🐾 Dog", "type", " explanation"}}, "key")
	c.answerAll()

	rec := c.do(http.MethodPost, "/submit", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if body := rec.Body.String(); body != "🐾 Dogtype explanation" {
		t.Errorf("body = %q", body)
	}
	if !rec.Flushed {
		t.Error("stream was not flushed")
	}

	res := c.do(http.MethodGet, "/result", nil)
	if res.Code != http.StatusOK || res.Body.String() != "🐾 Dogtype explanation" {
		t.Errorf("result = %d %q", res.Code, res.Body)
	}
}

func TestSubmitStatusCodes(t *testing.T) {
	t.Run("incomplete", func(t *testing.T) {
		c := newClient(t, fragmentStreamer{}, "key")
		rec := c.do(http.MethodPost, "/submit", nil)
		if rec.Code != http.StatusUnprocessableEntity || rec.Body.String() != msgIncomplete {
			t.Errorf("got %d %q", rec.Code, rec.Body)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		c := newClient(t, fragmentStreamer{}, "")
		c.answerAll()
		rec := c.do(http.MethodPost, "/submit", nil)
		if rec.Code != http.StatusServiceUnavailable || rec.Body.String() != msgNotConfigured {
			t.Errorf("got %d %q", rec.Code, rec.Body)
		}
	})

	t.Run("failure before first fragment", func(t *testing.T) {
		c := newClient(t, fragmentStreamer{err: errors.New("quota exceeded")}, "key")
		c.answerAll()
		rec := c.do(http.MethodPost, "/submit", nil)
		if rec.Code != http.StatusBadGateway || !strings.HasSuffix(rec.Body.String(), "quota exceeded") {
			t.Errorf("got %d %q", rec.Code, rec.Body)
		}
	})

	t.Run("failure after fragment", func(t *testing.T) {
		c := newClient(t, fragmentStreamer{fragments: []string{"partial"}, err: errors.New("reset")}, "key")
		c.answerAll()
		rec := c.do(http.MethodPost, "/submit", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if body := rec.Body.String(); body != "partial\n\nAI 분석 중 오류가 발생했습니다: reset" {
			t.Errorf("body = %q", body)
		}
		if res := c.do(http.MethodGet, "/result", nil); res.Code != http.StatusConflict {
			t.Errorf("partial text committed: /result status %d", res.Code)
		}
	})
}

func TestResetClearsSession(t *testing.T) {
	c := newClient(t, fragmentStreamer{fragments: []string{"x"}}, "key")
	c.answerAll()
	c.do(http.MethodPost, "/submit", nil)

	rec := c.do(http.MethodPost, "/reset", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("reset = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	if res := c.do(http.MethodGet, "/result", nil); res.Code != http.StatusConflict {
		t.Errorf("result after reset: %d", res.Code)
	}
	if rec := c.do(http.MethodPost, "/submit", nil); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("submit after reset: %d", rec.Code)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	st := fragmentStreamer{fragments: []string{"x"}}
	sessions := storage.NewSessionStorage[string](testQuestions())
	h := NewHandler(zap.NewNop(), sessions, service.NewQuizService(st, staticKey("key"), zap.NewNop(), 0))
	router := NewRouter(zap.NewNop(), h)

	a := &client{t: t, router: router}
	b := &client{t: t, router: router}

	a.answerAll()
	a.do(http.MethodPost, "/submit", nil)
	b.do(http.MethodGet, "/", nil)

	if res := b.do(http.MethodGet, "/result", nil); res.Code != http.StatusConflict {
		t.Errorf("second browser sees first browser's result: %d", res.Code)
	}
}

func TestHealthz(t *testing.T) {
	c := newClient(t, fragmentStreamer{}, "key")
	rec := c.do(http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body)
	}
}
