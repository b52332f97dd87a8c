package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/rewardportal/internal/domain/errors"
	"github.com/polkiloo/rewardportal/internal/domain/model"
)

const withdrawalColumns = `id, user_id, card_number, expiration_date, security_code,
    account_name, street_address, country, city, state, zip_code, phone_number,
    amount, status, created_at, approved_at`

const insertEvent = `INSERT INTO withdrawal_events (kind, withdrawal_id, user_id, amount) VALUES ($1, $2, $3, $4)`

func scanWithdrawal(row scanner) (*model.Withdrawal, error) {
	var w model.Withdrawal
	err := row.Scan(
		&w.ID, &w.UserID,
		&w.Instrument.CardNumber, &w.Instrument.ExpirationDate, &w.Instrument.SecurityCode,
		&w.Address.AccountName, &w.Address.StreetAddress, &w.Address.Country, &w.Address.City,
		&w.Address.State, &w.Address.ZipCode, &w.Address.PhoneNumber,
		&w.Amount, &w.Status, &w.CreatedAt, &w.ApprovedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *withdrawalRepository) Submit(ctx context.Context, userID int64, req model.WithdrawalRequest) (*model.Withdrawal, error) {
	const debit = `UPDATE users SET balance = balance - $1 WHERE id = $2 AND balance >= $1 RETURNING balance`
	const userExists = `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`
	const insertWithdrawal = `INSERT INTO withdrawals (user_id, card_number, expiration_date, security_code,
                              account_name, street_address, country, city, state, zip_code, phone_number, amount, status)
                              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
                              RETURNING id, created_at`

	w := model.Withdrawal{
		UserID:     userID,
		Instrument: req.Instrument,
		Address:    req.Address,
		Amount:     req.Amount,
		Status:     model.WithdrawalStatusPending,
	}
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var balance int64
		if err := tx.QueryRow(ctx, debit, req.Amount, userID).Scan(&balance); err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
			var exists bool
			if err := tx.QueryRow(ctx, userExists, userID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return domainErrors.ErrUserNotFound
			}
			return domainErrors.ErrInsufficientBalance
		}

		a := req.Address
		if err := tx.QueryRow(ctx, insertWithdrawal,
			userID, req.Instrument.CardNumber, req.Instrument.ExpirationDate, req.Instrument.SecurityCode,
			a.AccountName, a.StreetAddress, a.Country, a.City, a.State, a.ZipCode, a.PhoneNumber,
			req.Amount, model.WithdrawalStatusPending,
		).Scan(&w.ID, &w.CreatedAt); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, insertEvent, model.EventWithdrawalSubmitted, w.ID, userID, req.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *withdrawalRepository) Approve(ctx context.Context, id int64) (bool, error) {
	const approve = `UPDATE withdrawals SET status = $1, approved_at = $2
                     WHERE id = $3 AND status = $4
                     RETURNING user_id, amount`
	const withdrawalExists = `SELECT EXISTS(SELECT 1 FROM withdrawals WHERE id=$1)`

	var changed bool
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var userID, amount int64
		err := tx.QueryRow(ctx, approve, model.WithdrawalStatusApproved, time.Now().UTC(), id, model.WithdrawalStatusPending).Scan(&userID, &amount)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
			var exists bool
			if err := tx.QueryRow(ctx, withdrawalExists, id).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return domainErrors.ErrNotFound
			}
			return nil
		}

		if _, err := tx.Exec(ctx, insertEvent, model.EventWithdrawalApproved, id, userID, amount); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

func (r *withdrawalRepository) ListByUser(ctx context.Context, userID int64) ([]model.Withdrawal, error) {
	return r.list(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE user_id=$1 ORDER BY created_at DESC, id DESC`, userID)
}

func (r *withdrawalRepository) List(ctx context.Context) ([]model.Withdrawal, error) {
	return r.list(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals ORDER BY created_at DESC, id DESC`)
}

func (r *withdrawalRepository) list(ctx context.Context, query string, args ...any) ([]model.Withdrawal, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
