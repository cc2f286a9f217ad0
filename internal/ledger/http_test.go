package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vovakirdan/bubblepop/internal/config"
)

func TestHTTPReporterPostsPayload(t *testing.T) {
	got := make(chan Payload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("request = %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		var p Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode: %v", err)
		}
		got <- p
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	r := HTTPReporter{URL: srv.URL, Client: srv.Client()}
	if err := r.Report(context.Background(), Event{SessionID: "g-1", Kind: KindBonus, Score: 1050}); err != nil {
		t.Fatalf("Report: %v", err)
	}
	want := Payload{GID: "g-1", Score: 1050, Event: KindBonus}
	if p := <-got; p != want {
		t.Errorf("payload = %+v, want %+v", p, want)
	}
}

func TestHTTPReporterStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := HTTPReporter{URL: srv.URL}
	if err := r.Report(context.Background(), Event{SessionID: "g"}); err == nil {
		t.Error("expected error for 503")
	}
}

func TestNewReporter(t *testing.T) {
	mem := newMemLog()
	tests := []struct {
		cfg     config.ReporterConfig
		store   EventStore
		wantErr bool
	}{
		{config.ReporterConfig{Kind: "none"}, nil, false},
		{config.ReporterConfig{Kind: "log"}, nil, false},
		{config.ReporterConfig{Kind: "http", URL: "http://localhost:1/events"}, nil, false},
		{config.ReporterConfig{Kind: "http"}, nil, true},
		{config.ReporterConfig{Kind: "store"}, mem, false},
		{config.ReporterConfig{Kind: "store"}, nil, true},
		{config.ReporterConfig{Kind: "carrier-pigeon"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.Kind, func(t *testing.T) {
			r, err := NewReporter(tt.cfg, tt.store, quietLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && r == nil {
				t.Error("nil reporter without error")
			}
		})
	}
}
