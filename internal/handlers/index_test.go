package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type blockingReindexer struct {
	release chan struct{}
	calls   atomic.Int32
	err     error
}

func (b *blockingReindexer) IndexAll(ctx context.Context) error {
	b.calls.Add(1)
	<-b.release
	return b.err
}

func TestIndexHandler(t *testing.T) {
	reindexer := &blockingReindexer{release: make(chan struct{}), err: errors.New("1 note failed")}
	handler := NewIndexHandler(reindexer)
	finished := make(chan struct{}, 2)
	handler.done = func() { finished <- struct{}{} }

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/index", nil))
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}

	// A second trigger while the first run is blocked is rejected.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/index", nil))
	if w.Code != http.StatusConflict {
		t.Errorf("concurrent trigger status = %d, want 409", w.Code)
	}

	close(reindexer.release)
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("background re-index did not finish")
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/index", nil))
	if w.Code != http.StatusAccepted {
		t.Errorf("status after completion = %d, want 202", w.Code)
	}
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("second re-index did not finish")
	}

	if got := reindexer.calls.Load(); got != 2 {
		t.Errorf("IndexAll called %d times, want 2", got)
	}
}

func TestIndexHandler_MethodNotAllowed(t *testing.T) {
	handler := NewIndexHandler(&blockingReindexer{release: make(chan struct{})})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/index", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
