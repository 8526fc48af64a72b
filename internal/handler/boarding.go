package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-boarding/internal/boarding"
	"github.com/iliyamo/flight-boarding/internal/model"
	"github.com/iliyamo/flight-boarding/internal/parser"
	"github.com/iliyamo/flight-boarding/internal/queue"
	"github.com/iliyamo/flight-boarding/internal/repository"
	queue_publisher "github.com/iliyamo/flight-boarding/internal/service"
)

// ManifestStore is the persistence surface the boarding handlers need.
// *repository.ManifestRepo implements it; tests substitute a mock.
type ManifestStore interface {
	Create(ctx context.Context, m *repository.Manifest, entries []model.BoardingEntry) error
	GetByID(ctx context.Context, id uint64) (*repository.Manifest, error)
	ListByUploader(ctx context.Context, userID uint64, limit int) ([]repository.Manifest, error)
	EntriesByManifest(ctx context.Context, manifestID uint64) ([]model.BoardingEntry, error)
}

// BoardingHandler serves manifest uploads and the stored sequence history.
// Manifests may be nil when the database is unavailable at startup; the
// service then still sequences uploads but keeps no history.
type BoardingHandler struct {
	Sequencer      *boarding.Sequencer
	Manifests      ManifestStore
	MaxUploadBytes int64
	PublishEvents  bool
}

// NewBoardingHandler wires the sequencer with optional persistence.
func NewBoardingHandler(seq *boarding.Sequencer, store ManifestStore, maxUploadBytes int64) *BoardingHandler {
	if seq == nil {
		panic("nil sequencer passed to NewBoardingHandler")
	}
	return &BoardingHandler{
		Sequencer:      seq,
		Manifests:      store,
		MaxUploadBytes: maxUploadBytes,
		PublishEvents:  true,
	}
}

// Upload handles POST /v1/manifests.  It reads the manifest file from the
// fixed multipart field "manifest", parses and sequences it, persists the
// result when a store is configured, publishes a boarding.sequenced event
// best-effort and returns the computed sequence.
func (h *BoardingHandler) Upload(c echo.Context) error {
	uploaderID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	fh, err := c.FormFile("manifest")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "manifest file required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "manifest unreadable"})
	}
	defer src.Close()

	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = 1 << 20
	}
	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "manifest unreadable"})
	}
	if int64(len(data)) > limit {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "manifest too large"})
	}

	bookings, err := parser.Parse(string(data))
	if err != nil {
		// The only expected parse failure: nothing in the file was a booking.
		if errors.Is(err, parser.ErrNoBookings) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no valid bookings in manifest"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "parse failed"})
	}

	entries := h.Sequencer.Sequence(bookings)

	var manifestID uint64
	if h.Manifests != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		m := &repository.Manifest{
			UploadedBy:   uploaderID,
			Filename:     fh.Filename,
			BookingCount: len(entries),
		}
		if err := h.Manifests.Create(ctx, m, entries); err != nil {
			c.Logger().Errorf("manifest persist failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		manifestID = m.ID
	}

	if h.PublishEvents {
		ev := queue.SequenceComputedEvent{
			ManifestID:     manifestID,
			UploadedBy:     uploaderID,
			Filename:       fh.Filename,
			BookingCount:   len(entries),
			FirstBookingID: entries[0].BookingID,
			LastBookingID:  entries[len(entries)-1].BookingID,
			ComputedAt:     time.Now().UTC().Format(time.RFC3339),
		}
		// Best effort: a broker outage must not fail the upload.
		_ = queue_publisher.PublishSequenceComputed(c.Request().Context(), ev)
	}

	resp := echo.Map{
		"count":    len(entries),
		"sequence": entries,
	}
	if manifestID != 0 {
		resp["manifest_id"] = manifestID
	}
	return c.JSON(http.StatusOK, resp)
}

// List handles GET /v1/manifests and returns the caller's recent uploads.
func (h *BoardingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Manifests == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "history unavailable"})
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Manifests.ListByUploader(ctx, uid, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count": len(items),
		"items": items,
	})
}

// GetSequence handles GET /v1/manifests/:id/sequence.  Agents may only read
// their own manifests; supervisors may read any.
func (h *BoardingHandler) GetSequence(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Manifests == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "history unavailable"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid manifest id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Manifests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrManifestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "manifest not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if m.UploadedBy != uid && getRole(c) != "SUPERVISOR" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	entries, err := h.Manifests.EntriesByManifest(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"manifest_id": m.ID,
		"filename":    m.Filename,
		"count":       len(entries),
		"sequence":    entries,
	})
}
