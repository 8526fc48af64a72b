package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-boarding/internal/boarding"
	"github.com/iliyamo/flight-boarding/internal/model"
	"github.com/iliyamo/flight-boarding/internal/repository"
)

// MockManifestStore implements ManifestStore for testing.
type MockManifestStore struct {
	CreateFunc            func(ctx context.Context, m *repository.Manifest, entries []model.BoardingEntry) error
	GetByIDFunc           func(ctx context.Context, id uint64) (*repository.Manifest, error)
	ListByUploaderFunc    func(ctx context.Context, userID uint64, limit int) ([]repository.Manifest, error)
	EntriesByManifestFunc func(ctx context.Context, manifestID uint64) ([]model.BoardingEntry, error)
}

func (m *MockManifestStore) Create(ctx context.Context, mf *repository.Manifest, entries []model.BoardingEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, mf, entries)
	}
	mf.ID = 1
	return nil
}

func (m *MockManifestStore) GetByID(ctx context.Context, id uint64) (*repository.Manifest, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repository.ErrManifestNotFound
}

func (m *MockManifestStore) ListByUploader(ctx context.Context, userID uint64, limit int) ([]repository.Manifest, error) {
	if m.ListByUploaderFunc != nil {
		return m.ListByUploaderFunc(ctx, userID, limit)
	}
	return nil, nil
}

func (m *MockManifestStore) EntriesByManifest(ctx context.Context, manifestID uint64) ([]model.BoardingEntry, error) {
	if m.EntriesByManifestFunc != nil {
		return m.EntriesByManifestFunc(ctx, manifestID)
	}
	return nil, nil
}

func newTestHandler(store ManifestStore) *BoardingHandler {
	h := NewBoardingHandler(boarding.New(), store, 1<<20)
	h.PublishEvents = false // no broker in tests
	return h
}

func manifestRequest(t *testing.T, field, filename, content string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/manifests", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req, httptest.NewRecorder()
}

type uploadResp struct {
	ManifestID uint64                `json:"manifest_id"`
	Count      int                   `json:"count"`
	Sequence   []model.BoardingEntry `json:"sequence"`
}

func TestUpload_SequencesManifest(t *testing.T) {
	e := echo.New()
	h := newTestHandler(nil)

	req, rec := manifestRequest(t, "manifest", "flight42.txt",
		"Booking   Seats\n101       A1,B1\n120       A20, C2\n")
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(42))

	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp uploadResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := []model.BoardingEntry{{Seq: 1, BookingID: 120}, {Seq: 2, BookingID: 101}}
	if resp.Count != 2 || len(resp.Sequence) != 2 {
		t.Fatalf("count = %d, sequence = %+v", resp.Count, resp.Sequence)
	}
	for i := range want {
		if resp.Sequence[i] != want[i] {
			t.Errorf("sequence[%d] = %+v, want %+v", i, resp.Sequence[i], want[i])
		}
	}
	if resp.ManifestID != 0 {
		t.Errorf("manifest_id = %d, want absent without a store", resp.ManifestID)
	}
}

func TestUpload_PersistsWhenStoreConfigured(t *testing.T) {
	e := echo.New()
	var gotEntries []model.BoardingEntry
	store := &MockManifestStore{
		CreateFunc: func(ctx context.Context, m *repository.Manifest, entries []model.BoardingEntry) error {
			m.ID = 7
			gotEntries = entries
			if m.UploadedBy != 42 || m.Filename != "flight42.txt" || m.BookingCount != 2 {
				t.Errorf("unexpected manifest row: %+v", m)
			}
			return nil
		},
	}
	h := newTestHandler(store)

	req, rec := manifestRequest(t, "manifest", "flight42.txt", "101 A1,B1\n120 A20,C2\n")
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(42))

	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp uploadResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ManifestID != 7 {
		t.Errorf("manifest_id = %d, want 7", resp.ManifestID)
	}
	if len(gotEntries) != 2 {
		t.Errorf("store received %d entries, want 2", len(gotEntries))
	}
}

func TestUpload_NoValidBookingsIsClientError(t *testing.T) {
	e := echo.New()
	h := newTestHandler(nil)

	req, rec := manifestRequest(t, "manifest", "empty.txt", "Booking Seats\nXYZ A1\n")
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(42))

	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpload_MissingFileField(t *testing.T) {
	e := echo.New()
	h := newTestHandler(nil)

	req, rec := manifestRequest(t, "wrongfield", "x.txt", "101 A1")
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(42))

	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpload_TooLarge(t *testing.T) {
	e := echo.New()
	h := newTestHandler(nil)
	h.MaxUploadBytes = 8

	req, rec := manifestRequest(t, "manifest", "big.txt", "101 A1,B1\n120 A20,C2\n")
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(42))

	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestUpload_MissingIdentity(t *testing.T) {
	e := echo.New()
	h := newTestHandler(nil)

	req, rec := manifestRequest(t, "manifest", "x.txt", "101 A1")
	c := e.NewContext(req, rec)
	// no user_id in context

	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestList_HistoryUnavailableWithoutStore(t *testing.T) {
	e := echo.New()
	h := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/manifests", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(42))

	if err := h.List(c); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestGetSequence_NotFound(t *testing.T) {
	e := echo.New()
	h := newTestHandler(&MockManifestStore{})

	req := httptest.NewRequest(http.MethodGet, "/v1/manifests/9/sequence", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")
	c.Set("user_id", float64(42))

	if err := h.GetSequence(c); err != nil {
		t.Fatalf("GetSequence returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetSequence_OwnershipEnforced(t *testing.T) {
	store := &MockManifestStore{
		GetByIDFunc: func(ctx context.Context, id uint64) (*repository.Manifest, error) {
			return &repository.Manifest{ID: id, UploadedBy: 99, Filename: "other.txt"}, nil
		},
		EntriesByManifestFunc: func(ctx context.Context, manifestID uint64) ([]model.BoardingEntry, error) {
			return []model.BoardingEntry{{Seq: 1, BookingID: 5}}, nil
		},
	}

	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"agent cannot read another agent's manifest", "AGENT", http.StatusForbidden},
		{"supervisor can read any manifest", "SUPERVISOR", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			h := newTestHandler(store)

			req := httptest.NewRequest(http.MethodGet, "/v1/manifests/3/sequence", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues("3")
			c.Set("user_id", float64(42))
			c.Set("role", tt.role)

			if err := h.GetSequence(c); err != nil {
				t.Fatalf("GetSequence returned error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
