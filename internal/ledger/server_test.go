package ledger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

type memLog struct {
	mu     sync.Mutex
	events []Event
}

func newMemLog() *memLog { return &memLog{} }

func (m *memLog) SaveEvent(e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *memLog) EventsBySession(id string, limit int) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.events {
		if e.SessionID == id && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memLog) RecentEvents(limit int) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := min(limit, len(m.events))
	return append([]Event(nil), m.events[len(m.events)-n:]...), nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestServerPostAndList(t *testing.T) {
	mem := newMemLog()
	r := NewServer(mem, quietLogger())

	for _, body := range []string{
		`{"gid":"a","score":10,"event":"score"}`,
		`{"gid":"b","score":50,"event":"bonus"}`,
		`{"gid":"a","score":60,"event":"bonus"}`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusAccepted {
			t.Fatalf("POST %s = %d %s", body, w.Code, w.Body)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?gid=a", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET = %d", w.Code)
	}
	var resp struct {
		Events []Event `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Events) != 2 || resp.Events[1].Score != 60 || resp.Events[1].Kind != KindBonus {
		t.Errorf("events = %+v", resp.Events)
	}
	if resp.Events[0].At.IsZero() {
		t.Error("receiver did not stamp the event time")
	}
}

func TestServerRejectsBadPayloads(t *testing.T) {
	r := NewServer(newMemLog(), quietLogger())
	tests := []struct {
		name string
		body string
	}{
		{"not json", `score=10`},
		{"missing gid", `{"score":10,"event":"score"}`},
		{"negative score", `{"gid":"a","score":-5,"event":"score"}`},
		{"missing event", `{"gid":"a","score":5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?limit=zero", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", w.Code)
	}
}

func TestServerHealthz(t *testing.T) {
	r := NewServer(newMemLog(), quietLogger())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("healthz = %d %s", w.Code, w.Body)
	}
}

func TestStoreReporterAppends(t *testing.T) {
	mem := newMemLog()
	d := NewDispatcher(StoreReporter{Store: mem}, DispatcherOptions{Logger: quietLogger()})
	d.Enqueue(Event{SessionID: "x", Kind: KindCoin, Score: 10})
	if err := d.Close(t.Context()); err != nil {
		t.Fatal(err)
	}
	got, _ := mem.EventsBySession("x", 10)
	if len(got) != 1 || got[0].Kind != KindCoin {
		t.Errorf("stored = %+v", got)
	}
}
