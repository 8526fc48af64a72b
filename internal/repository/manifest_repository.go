package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/flight-boarding/internal/model"
)

// Manifest mirrors the 'manifests' table: one row per uploaded booking
// manifest together with metadata about who uploaded it and how many valid
// bookings it produced.  The computed sequence itself lives in the
// 'boarding_entries' table, one row per call position.
type Manifest struct {
	ID           uint64    // manifests.id
	UploadedBy   uint64    // manifests.uploaded_by -> users.id
	Filename     string    // original upload filename
	BookingCount int       // number of valid bookings sequenced
	CreatedAt    time.Time // manifests.created_at
}

// ManifestRepo provides access to stored manifests and their sequences.
type ManifestRepo struct {
	db *sql.DB
}

// NewManifestRepo constructs a ManifestRepo with the given DB handle.
func NewManifestRepo(db *sql.DB) *ManifestRepo {
	return &ManifestRepo{db: db}
}

// Create inserts the manifest row and its boarding entries in a single
// transaction.  On success the manifest's ID and CreatedAt are populated;
// CreatedAt is read back from the row so it matches what GetByID and
// ListByUploader will later report.
func (r *ManifestRepo) Create(ctx context.Context, m *Manifest, entries []model.BoardingEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO manifests (uploaded_by, filename, booking_count) VALUES (?,?,?)",
		m.UploadedBy, m.Filename, m.BookingCount)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	if len(entries) > 0 {
		query := "INSERT INTO boarding_entries (manifest_id, seq, booking_id) VALUES "
		args := make([]interface{}, 0, len(entries)*3)
		for i, e := range entries {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?)"
			args = append(args, m.ID, e.Seq, e.BookingID)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.QueryRowContext(ctx,
		"SELECT created_at FROM manifests WHERE id = ?", m.ID).Scan(&m.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID retrieves a manifest by its id.
func (r *ManifestRepo) GetByID(ctx context.Context, id uint64) (*Manifest, error) {
	const q = `SELECT id, uploaded_by, filename, booking_count, created_at
	           FROM manifests WHERE id = ?`
	var m Manifest
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&m.ID, &m.UploadedBy, &m.Filename, &m.BookingCount, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrManifestNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListByUploader returns an agent's manifests, newest first, capped at limit.
func (r *ManifestRepo) ListByUploader(ctx context.Context, userID uint64, limit int) ([]Manifest, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `SELECT id, uploaded_by, filename, booking_count, created_at
	           FROM manifests
	           WHERE uploaded_by = ?
	           ORDER BY created_at DESC, id DESC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Manifest
	for rows.Next() {
		var m Manifest
		if err := rows.Scan(&m.ID, &m.UploadedBy, &m.Filename, &m.BookingCount, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// EntriesByManifest returns the stored boarding sequence ordered by seq.
func (r *ManifestRepo) EntriesByManifest(ctx context.Context, manifestID uint64) ([]model.BoardingEntry, error) {
	const q = `SELECT seq, booking_id FROM boarding_entries
	           WHERE manifest_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, q, manifestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.BoardingEntry
	for rows.Next() {
		var e model.BoardingEntry
		if err := rows.Scan(&e.Seq, &e.BookingID); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
