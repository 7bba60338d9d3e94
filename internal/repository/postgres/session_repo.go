package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"snapquote/internal/domain"
	"snapquote/internal/overlay"
	"snapquote/internal/port"
)

type sessionRepo struct {
	db *sqlx.DB
}

// NewSessionRepo creates a new PostgreSQL-backed SessionRepository.
func NewSessionRepo(db *sqlx.DB) port.SessionRepository {
	return &sessionRepo{db: db}
}

// sessionRow maps the quote_sessions table.
type sessionRow struct {
	ID        uuid.UUID       `db:"id"`
	UserID    uuid.UUID       `db:"user_id"`
	Status    string          `db:"status"`
	Snapshot  json.RawMessage `db:"snapshot"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// sessionSnapshot is the persisted JSONB payload: the minimal recoverable
// session state.
type sessionSnapshot struct {
	Items                 []domain.LineItem    `json:"items"`
	Edits                 json.RawMessage      `json:"edits"`
	GlobalDiscountPercent float64              `json:"global_discount_percent"`
	TaxRatePercent        float64              `json:"tax_rate_percent"`
	Meta                  domain.QuotationMeta `json:"meta"`
	ImageKey              string               `json:"image_key,omitempty"`
	MatchNotice           string               `json:"match_notice,omitempty"`
}

func (r *sessionRepo) Save(ctx context.Context, rec *domain.SessionRecord) error {
	editsJSON, err := json.Marshal(rec.Edits)
	if err != nil {
		return fmt.Errorf("sessionRepo.Save marshal edits: %w", err)
	}
	snap := sessionSnapshot{
		Items:                 rec.Items,
		Edits:                 editsJSON,
		GlobalDiscountPercent: rec.GlobalDiscountPercent,
		TaxRatePercent:        rec.TaxRatePercent,
		Meta:                  rec.Meta,
		ImageKey:              rec.ImageKey,
		MatchNotice:           rec.MatchNotice,
	}
	snapJSON, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("sessionRepo.Save marshal snapshot: %w", err)
	}

	query := `INSERT INTO quote_sessions (id, user_id, status, snapshot, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET status = $3, snapshot = $4, updated_at = $6`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, string(rec.Status), snapJSON, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sessionRepo.Save: %w", err)
	}
	return nil
}

func (r *sessionRepo) GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*domain.SessionRecord, error) {
	var row sessionRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM quote_sessions WHERE id = $1 AND user_id = $2", sessionID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("sessionRepo.GetByID: %w", err)
	}
	return rowToRecord(&row)
}

func (r *sessionRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.SessionRecord, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM quote_sessions WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("sessionRepo.ListByUser count: %w", err)
	}

	var rows []sessionRow
	err = r.db.SelectContext(ctx, &rows,
		`SELECT * FROM quote_sessions WHERE user_id = $1
		ORDER BY updated_at DESC OFFSET $2 LIMIT $3`, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("sessionRepo.ListByUser: %w", err)
	}

	records := make([]domain.SessionRecord, 0, len(rows))
	for i := range rows {
		rec, convErr := rowToRecord(&rows[i])
		if convErr != nil {
			return nil, 0, convErr
		}
		records = append(records, *rec)
	}
	return records, total, nil
}

func (r *sessionRepo) Delete(ctx context.Context, userID, sessionID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM quote_sessions WHERE id = $1 AND user_id = $2", sessionID, userID)
	if err != nil {
		return fmt.Errorf("sessionRepo.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func rowToRecord(row *sessionRow) (*domain.SessionRecord, error) {
	var snap sessionSnapshot
	if err := json.Unmarshal(row.Snapshot, &snap); err != nil {
		return nil, fmt.Errorf("sessionRepo decode snapshot %s: %w", row.ID, err)
	}

	edits, err := decodeEdits(snap.Items, snap.Edits)
	if err != nil {
		return nil, fmt.Errorf("sessionRepo decode edits %s: %w", row.ID, err)
	}

	return &domain.SessionRecord{
		ID:                    row.ID,
		UserID:                row.UserID,
		Status:                domain.SessionStatus(row.Status),
		Items:                 snap.Items,
		Edits:                 edits,
		GlobalDiscountPercent: snap.GlobalDiscountPercent,
		TaxRatePercent:        snap.TaxRatePercent,
		Meta:                  snap.Meta,
		ImageKey:              snap.ImageKey,
		MatchNotice:           snap.MatchNotice,
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
	}, nil
}

// decodeEdits reads the overlay in its canonical item-number-keyed form.
// Snapshots written by early app versions keyed edits by item name; those
// are rekeyed against the stored items on load.
func decodeEdits(items []domain.LineItem, raw json.RawMessage) (map[int]domain.EditRecord, error) {
	if len(raw) == 0 {
		return map[int]domain.EditRecord{}, nil
	}

	byNumber := map[int]domain.EditRecord{}
	if err := json.Unmarshal(raw, &byNumber); err == nil {
		return byNumber, nil
	}

	byName := map[string]domain.EditRecord{}
	if err := json.Unmarshal(raw, &byName); err != nil {
		return nil, err
	}
	return overlay.RekeyByName(items, byName), nil
}
