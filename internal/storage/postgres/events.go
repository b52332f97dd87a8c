package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/rewardportal/internal/domain/model"
)

func (r *eventRepository) LeasePending(ctx context.Context, limit int, lease time.Duration) ([]model.Event, error) {
	const selectQuery = `SELECT id, kind, withdrawal_id, user_id, amount, created_at
                         FROM withdrawal_events
                         WHERE published_at IS NULL AND (lease_until IS NULL OR lease_until < $1)
                         ORDER BY id
                         LIMIT $2
                         FOR UPDATE SKIP LOCKED`
	const leaseQuery = `UPDATE withdrawal_events SET lease_until = $1 WHERE id = ANY($2)`

	now := time.Now().UTC()
	var events []model.Event
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, now, limit)
		if err != nil {
			return err
		}

		var ids []int64
		for rows.Next() {
			var e model.Event
			if err := rows.Scan(&e.ID, &e.Kind, &e.WithdrawalID, &e.UserID, &e.Amount, &e.CreatedAt); err != nil {
				rows.Close()
				return err
			}
			events = append(events, e)
			ids = append(ids, e.ID)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		_, err = tx.Exec(ctx, leaseQuery, now.Add(lease), ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) MarkPublished(ctx context.Context, id int64) error {
	const query = `UPDATE withdrawal_events SET published_at = $1, lease_until = NULL WHERE id = $2`
	_, err := r.storage.pool.Exec(ctx, query, time.Now().UTC(), id)
	return err
}
