package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"smartnotes/internal/service"
	service_mocks "smartnotes/internal/service/mocks"
	"smartnotes/internal/storage"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// withID attaches a chi URL parameter to the request.
func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, body *bytes.Buffer) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestNotesHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(m *service_mocks.MockNoteService)
		expectedStatus int
		expectedField  string
	}{
		{
			name: "created",
			body: `{"title":"Shopping","content":"Buy milk.","is_public":true,"tags":"home"}`,
			setup: func(m *service_mocks.MockNoteService) {
				m.EXPECT().
					Create(gomock.Any(), service.NoteInput{Title: "Shopping", Content: "Buy milk.", IsPublic: true, Tags: "home"}).
					Return(&storage.Note{ID: "n1", Title: "Shopping", Version: 1}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "malformed body",
			body:           `{"title":`,
			setup:          func(m *service_mocks.MockNoteService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "validation error",
			body: `{"title":"","content":"x"}`,
			setup: func(m *service_mocks.MockNoteService) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil, &service.ValidationError{Field: "title", Message: "cannot be empty"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "title",
		},
		{
			name: "storage failure",
			body: `{"title":"t","content":"c"}`,
			setup: func(m *service_mocks.MockNoteService) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil, &service.StorageError{Op: "create note", Err: errors.New("disk full")})
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := service_mocks.NewMockNoteService(ctrl)
			tt.setup(mockService)
			handler := NewNotesHandler(mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/notes", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.Create(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
			if tt.expectedStatus == http.StatusCreated {
				var note storage.Note
				if err := json.NewDecoder(w.Body).Decode(&note); err != nil {
					t.Fatalf("failed to decode note: %v", err)
				}
				if note.ID != "n1" || note.Version != 1 {
					t.Errorf("note = %+v", note)
				}
				return
			}
			if tt.expectedField != "" {
				if got := decodeError(t, w.Body); got.Field != tt.expectedField {
					t.Errorf("field = %q, want %q", got.Field, tt.expectedField)
				}
			}
		})
	}
}

func TestNotesHandler_Update(t *testing.T) {
	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
	}{
		{name: "updated", expectedStatus: http.StatusOK},
		{name: "stale version", serviceErr: service.ErrVersionConflict, expectedStatus: http.StatusConflict},
		{name: "missing note", serviceErr: service.ErrNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := service_mocks.NewMockNoteService(ctrl)
			call := mockService.EXPECT().
				Update(gomock.Any(), "n1", service.NoteInput{Title: "t", Content: "c"}, 3)
			if tt.serviceErr != nil {
				call.Return(nil, tt.serviceErr)
			} else {
				call.Return(&storage.Note{ID: "n1", Version: 4}, nil)
			}

			handler := NewNotesHandler(mockService)
			body := bytes.NewBufferString(`{"title":"t","content":"c","version":3}`)
			req := withID(httptest.NewRequest(http.MethodPut, "/api/v1/notes/n1", body), "n1")
			w := httptest.NewRecorder()
			handler.Update(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
		})
	}
}

func TestNotesHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectList     bool
		wantFilter     storage.ListFilter
		wantSkip       int
		wantLimit      int
		expectedStatus int
	}{
		{
			name:           "defaults",
			query:          "",
			expectList:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "paging and public filter",
			query:          "?skip=5&limit=7&public_only=true",
			expectList:     true,
			wantFilter:     storage.ListFilter{PublicOnly: true},
			wantSkip:       5,
			wantLimit:      7,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-numeric skip",
			query:          "?skip=abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "non-numeric limit",
			query:          "?limit=ten",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad public_only",
			query:          "?public_only=maybe",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := service_mocks.NewMockNoteService(ctrl)
			if tt.expectList {
				mockService.EXPECT().
					List(gomock.Any(), tt.wantFilter, tt.wantSkip, tt.wantLimit).
					Return([]storage.Note{{ID: "a"}, {ID: "b"}}, nil)
			}

			handler := NewNotesHandler(mockService)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/notes"+tt.query, nil)
			w := httptest.NewRecorder()
			handler.List(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if tt.expectList {
				var notes []storage.Note
				if err := json.NewDecoder(w.Body).Decode(&notes); err != nil {
					t.Fatalf("failed to decode notes: %v", err)
				}
				if len(notes) != 2 {
					t.Errorf("got %d notes, want 2", len(notes))
				}
			}
		})
	}
}

func TestNotesHandler_GetAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := service_mocks.NewMockNoteService(ctrl)
	gomock.InOrder(
		mockService.EXPECT().Get(gomock.Any(), "n1").Return(&storage.Note{ID: "n1", ViewCount: 1}, nil),
		mockService.EXPECT().Delete(gomock.Any(), "n1").Return(nil),
		mockService.EXPECT().Get(gomock.Any(), "n1").Return(nil, service.ErrNotFound),
		mockService.EXPECT().Delete(gomock.Any(), "n1").Return(service.ErrNotFound),
	)
	handler := NewNotesHandler(mockService)

	w := httptest.NewRecorder()
	handler.Get(w, withID(httptest.NewRequest(http.MethodGet, "/api/v1/notes/n1", nil), "n1"))
	if w.Code != http.StatusOK {
		t.Fatalf("Get status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	handler.Delete(w, withID(httptest.NewRequest(http.MethodDelete, "/api/v1/notes/n1", nil), "n1"))
	if w.Code != http.StatusOK {
		t.Fatalf("Delete status = %d, want 200", w.Code)
	}
	var deleted DeleteResponse
	if err := json.NewDecoder(w.Body).Decode(&deleted); err != nil {
		t.Fatalf("failed to decode delete response: %v", err)
	}
	if deleted.DeletedID != "n1" {
		t.Errorf("deleted_id = %q, want n1", deleted.DeletedID)
	}

	w = httptest.NewRecorder()
	handler.Get(w, withID(httptest.NewRequest(http.MethodGet, "/api/v1/notes/n1", nil), "n1"))
	if w.Code != http.StatusNotFound {
		t.Errorf("Get after delete status = %d, want 404", w.Code)
	}

	w = httptest.NewRecorder()
	handler.Delete(w, withID(httptest.NewRequest(http.MethodDelete, "/api/v1/notes/n1", nil), "n1"))
	if w.Code != http.StatusNotFound {
		t.Errorf("second Delete status = %d, want 404", w.Code)
	}
}
