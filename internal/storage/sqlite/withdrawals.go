package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domainErrors "github.com/polkiloo/rewardportal/internal/domain/errors"
	"github.com/polkiloo/rewardportal/internal/domain/model"
)

const withdrawalColumns = `id, user_id, card_number, expiration_date, security_code,
    account_name, street_address, country, city, state, zip_code, phone_number,
    amount, status, created_at, approved_at`

const insertEvent = `INSERT INTO withdrawal_events (kind, withdrawal_id, user_id, amount, created_at) VALUES (?, ?, ?, ?, ?)`

func scanWithdrawal(row scanner) (*model.Withdrawal, error) {
	var (
		w          model.Withdrawal
		createdAt  int64
		approvedAt sql.NullInt64
	)
	err := row.Scan(
		&w.ID, &w.UserID,
		&w.Instrument.CardNumber, &w.Instrument.ExpirationDate, &w.Instrument.SecurityCode,
		&w.Address.AccountName, &w.Address.StreetAddress, &w.Address.Country, &w.Address.City,
		&w.Address.State, &w.Address.ZipCode, &w.Address.PhoneNumber,
		&w.Amount, &w.Status, &createdAt, &approvedAt,
	)
	if err != nil {
		return nil, err
	}
	w.CreatedAt = fromMillis(createdAt)
	w.ApprovedAt = nullTime(approvedAt)
	return &w, nil
}

func (r *withdrawalRepository) Submit(ctx context.Context, userID int64, req model.WithdrawalRequest) (*model.Withdrawal, error) {
	const debit = `UPDATE users SET balance = balance - ? WHERE id = ? AND balance >= ? RETURNING balance`
	const userExists = `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`
	const insertWithdrawal = `INSERT INTO withdrawals (user_id, card_number, expiration_date, security_code,
                              account_name, street_address, country, city, state, zip_code, phone_number,
                              amount, status, created_at)
                              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
                              RETURNING id`

	now := time.Now().UTC()
	w := model.Withdrawal{
		UserID:     userID,
		Instrument: req.Instrument,
		Address:    req.Address,
		Amount:     req.Amount,
		Status:     model.WithdrawalStatusPending,
		CreatedAt:  fromMillis(toMillis(now)),
	}
	err := r.storage.WithinTransaction(ctx, func(tx *sql.Tx) error {
		var balance int64
		if err := tx.QueryRowContext(ctx, debit, req.Amount, userID, req.Amount).Scan(&balance); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			var exists bool
			if err := tx.QueryRowContext(ctx, userExists, userID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return domainErrors.ErrUserNotFound
			}
			return domainErrors.ErrInsufficientBalance
		}

		a := req.Address
		if err := tx.QueryRowContext(ctx, insertWithdrawal,
			userID, req.Instrument.CardNumber, req.Instrument.ExpirationDate, req.Instrument.SecurityCode,
			a.AccountName, a.StreetAddress, a.Country, a.City, a.State, a.ZipCode, a.PhoneNumber,
			req.Amount, string(model.WithdrawalStatusPending), toMillis(now),
		).Scan(&w.ID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, insertEvent, string(model.EventWithdrawalSubmitted), w.ID, userID, req.Amount, toMillis(now))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *withdrawalRepository) Approve(ctx context.Context, id int64) (bool, error) {
	const approve = `UPDATE withdrawals SET status = ?, approved_at = ?
                     WHERE id = ? AND status = ?
                     RETURNING user_id, amount`
	const withdrawalExists = `SELECT EXISTS(SELECT 1 FROM withdrawals WHERE id = ?)`

	now := time.Now().UTC()
	var changed bool
	err := r.storage.WithinTransaction(ctx, func(tx *sql.Tx) error {
		var userID, amount int64
		err := tx.QueryRowContext(ctx, approve, string(model.WithdrawalStatusApproved), toMillis(now), id, string(model.WithdrawalStatusPending)).Scan(&userID, &amount)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			var exists bool
			if err := tx.QueryRowContext(ctx, withdrawalExists, id).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return domainErrors.ErrNotFound
			}
			return nil
		}

		if _, err := tx.ExecContext(ctx, insertEvent, string(model.EventWithdrawalApproved), id, userID, amount, toMillis(now)); err != nil {
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
	return r.list(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func (r *withdrawalRepository) List(ctx context.Context) ([]model.Withdrawal, error) {
	return r.list(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals ORDER BY created_at DESC, id DESC`)
}

func (r *withdrawalRepository) list(ctx context.Context, query string, args ...any) ([]model.Withdrawal, error) {
	rows, err := r.storage.db.QueryContext(ctx, query, args...)
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
