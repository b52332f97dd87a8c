package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domainErrors "github.com/polkiloo/rewardportal/internal/domain/errors"
	"github.com/polkiloo/rewardportal/internal/domain/model"
)

const userColumns = `id, username, email, password_hash, balance, referral_code, referred_by, last_claim_at, created_at`

func scanUser(row scanner) (*model.User, error) {
	var (
		u          model.User
		referredBy sql.NullString
		lastClaim  sql.NullInt64
		createdAt  int64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Balance, &u.ReferralCode, &referredBy, &lastClaim, &createdAt); err != nil {
		return nil, err
	}
	if referredBy.Valid {
		u.ReferredBy = &referredBy.String
	}
	u.LastClaimAt = nullTime(lastClaim)
	u.CreatedAt = fromMillis(createdAt)
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, nu model.NewUser, referralBonus int64) (*model.User, error) {
	const insertUser = `INSERT INTO users (username, email, password_hash, balance, referral_code, referred_by, created_at)
                        VALUES (?, ?, ?, ?, ?, ?, ?)
                        RETURNING id`
	const creditReferrer = `UPDATE users SET balance = balance + ? WHERE referral_code = ?`

	now := time.Now().UTC()
	u := model.User{
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		Balance:      nu.Balance,
		ReferralCode: nu.ReferralCode,
		ReferredBy:   nu.ReferredBy,
		CreatedAt:    fromMillis(toMillis(now)),
	}
	var referredBy sql.NullString
	if nu.ReferredBy != nil {
		referredBy = sql.NullString{String: *nu.ReferredBy, Valid: true}
	}

	err := r.storage.WithinTransaction(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, insertUser, nu.Username, nu.Email, nu.PasswordHash, nu.Balance, nu.ReferralCode, referredBy, toMillis(now)).Scan(&u.ID); err != nil {
			return err
		}
		if nu.ReferredBy != nil && referralBonus > 0 {
			if _, err := tx.ExecContext(ctx, creditReferrer, referralBonus, *nu.ReferredBy); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, uniqueViolationError(err)
	}
	return &u, nil
}

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (*model.User, error) {
	u, err := scanUser(r.storage.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "email = ?", email)
}

func (r *userRepository) GetByReferralCode(ctx context.Context, code string) (*model.User, error) {
	return r.getOne(ctx, "referral_code = ?", code)
}

func (r *userRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.storage.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE referral_code = ?)`, code).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) ClaimReward(ctx context.Context, userID, amount int64, now, cutoff time.Time) (int64, bool, error) {
	const query = `UPDATE users SET balance = balance + ?, last_claim_at = ?
                   WHERE id = ? AND (last_claim_at IS NULL OR last_claim_at <= ?)
                   RETURNING balance`
	var balance int64
	err := r.storage.db.QueryRowContext(ctx, query, amount, toMillis(now), userID, toMillis(cutoff)).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return balance, true, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.storage.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- AdminRepository implementation ---

func (r *adminRepository) Create(ctx context.Context, username, email, passwordHash string) (*model.Admin, error) {
	const query = `INSERT INTO admins (username, email, password_hash, created_at) VALUES (?, ?, ?, ?) RETURNING id`
	now := time.Now().UTC()
	a := model.Admin{Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: fromMillis(toMillis(now))}
	if err := r.storage.db.QueryRowContext(ctx, query, username, email, passwordHash, toMillis(now)).Scan(&a.ID); err != nil {
		return nil, uniqueViolationError(err)
	}
	return &a, nil
}

func (r *adminRepository) CreateFirst(ctx context.Context, username, email, passwordHash string) (*model.Admin, error) {
	const query = `INSERT INTO admins (username, email, password_hash, created_at)
                   SELECT ?, ?, ?, ? WHERE NOT EXISTS (SELECT 1 FROM admins)
                   RETURNING id`
	now := time.Now().UTC()
	a := model.Admin{Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: fromMillis(toMillis(now))}
	if err := r.storage.db.QueryRowContext(ctx, query, username, email, passwordHash, toMillis(now)).Scan(&a.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrAdminSignupClosed
		}
		return nil, uniqueViolationError(err)
	}
	return &a, nil
}

func (r *adminRepository) getOne(ctx context.Context, where string, arg any) (*model.Admin, error) {
	var (
		a         model.Admin
		createdAt int64
	)
	err := r.storage.db.QueryRowContext(ctx, `SELECT id, username, email, password_hash, created_at FROM admins WHERE `+where, arg).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	a.CreatedAt = fromMillis(createdAt)
	return &a, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return r.getOne(ctx, "email = ?", email)
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*model.Admin, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.storage.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
