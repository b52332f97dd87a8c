package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/polkiloo/rewardportal/internal/domain/model"
)

func (r *eventRepository) LeasePending(ctx context.Context, limit int, lease time.Duration) ([]model.Event, error) {
	const selectQuery = `SELECT id, kind, withdrawal_id, user_id, amount, created_at
                         FROM withdrawal_events
                         WHERE published_at IS NULL AND (lease_until IS NULL OR lease_until < ?)
                         ORDER BY id
                         LIMIT ?`
	const leaseQuery = `UPDATE withdrawal_events SET lease_until = ? WHERE id = ?`

	now := time.Now().UTC()
	var events []model.Event
	err := r.storage.WithinTransaction(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, selectQuery, toMillis(now), limit)
		if err != nil {
			return err
		}
		for rows.Next() {
			var (
				e         model.Event
				createdAt int64
			)
			if err := rows.Scan(&e.ID, &e.Kind, &e.WithdrawalID, &e.UserID, &e.Amount, &createdAt); err != nil {
				rows.Close()
				return err
			}
			e.CreatedAt = fromMillis(createdAt)
			events = append(events, e)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		until := toMillis(now.Add(lease))
		for _, e := range events {
			if _, err := tx.ExecContext(ctx, leaseQuery, until, e.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) MarkPublished(ctx context.Context, id int64) error {
	const query = `UPDATE withdrawal_events SET published_at = ?, lease_until = NULL WHERE id = ?`
	_, err := r.storage.db.ExecContext(ctx, query, toMillis(time.Now().UTC()), id)
	return err
}
