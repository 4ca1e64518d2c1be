package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/ganttkit/internal/contract"
	"github.com/alexanderramin/ganttkit/internal/db"
	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/google/uuid"
)

// SQLiteDropLogRepo appends applied drops to the drop_events table.
type SQLiteDropLogRepo struct {
	db db.DBTX
}

func NewSQLiteDropLogRepo(conn db.DBTX) *SQLiteDropLogRepo {
	return &SQLiteDropLogRepo{db: conn}
}

// Record inserts e, assigning an id when e has none.
func (r *SQLiteDropLogRepo) Record(ctx context.Context, e *contract.DropEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `INSERT INTO drop_events (id, page, session_id, bar_id, entity_type, entity_id,
		initial_row_id, final_row_id, offset_minutes, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Page,
		e.SessionID,
		e.BarID,
		string(e.EntityType),
		e.EntityID,
		e.InitialRowID,
		e.FinalRowID,
		e.OffsetMin,
		formatTime(e.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting drop event: %w", err)
	}
	return nil
}

func (r *SQLiteDropLogRepo) List(ctx context.Context, page string, limit int) ([]*contract.DropEvent, error) {
	query := `SELECT id, page, session_id, bar_id, entity_type, entity_id,
		initial_row_id, final_row_id, offset_minutes, recorded_at
		FROM drop_events
		WHERE (? = '' OR page = ?)
		ORDER BY recorded_at DESC, id
		LIMIT ?`
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, query, page, page, limit)
	if err != nil {
		return nil, fmt.Errorf("listing drop events: %w", err)
	}
	defer rows.Close()

	var events []*contract.DropEvent
	for rows.Next() {
		var (
			e          contract.DropEvent
			entityType string
			recordedAt string
		)
		err := rows.Scan(&e.ID, &e.Page, &e.SessionID, &e.BarID, &entityType, &e.EntityID,
			&e.InitialRowID, &e.FinalRowID, &e.OffsetMin, &recordedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning drop event: %w", err)
		}
		e.EntityType = domain.EntityType(entityType)
		if e.RecordedAt, err = parseTime("recorded_at", recordedAt); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating drop events: %w", err)
	}
	return events, nil
}

// DeleteByPage removes the page's events and reports how many went.
func (r *SQLiteDropLogRepo) DeleteByPage(ctx context.Context, page string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drop_events WHERE page = ?`, page)
	if err != nil {
		return 0, fmt.Errorf("deleting drop events for %s: %w", page, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting drop events for %s: %w", page, err)
	}
	return n, nil
}
