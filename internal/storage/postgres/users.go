package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/rewardportal/internal/domain/errors"
	"github.com/polkiloo/rewardportal/internal/domain/model"
)

const userColumns = `id, username, email, password_hash, balance, referral_code, referred_by, last_claim_at, created_at`

func scanUser(row scanner) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Balance, &u.ReferralCode, &u.ReferredBy, &u.LastClaimAt, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, nu model.NewUser, referralBonus int64) (*model.User, error) {
	const insertUser = `INSERT INTO users (username, email, password_hash, balance, referral_code, referred_by)
                        VALUES ($1, $2, $3, $4, $5, $6)
                        RETURNING id, created_at`
	const creditReferrer = `UPDATE users SET balance = balance + $1 WHERE referral_code = $2`

	u := model.User{
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		Balance:      nu.Balance,
		ReferralCode: nu.ReferralCode,
		ReferredBy:   nu.ReferredBy,
	}
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertUser, nu.Username, nu.Email, nu.PasswordHash, nu.Balance, nu.ReferralCode, nu.ReferredBy).Scan(&u.ID, &u.CreatedAt); err != nil {
			return err
		}
		if nu.ReferredBy != nil && referralBonus > 0 {
			if _, err := tx.Exec(ctx, creditReferrer, referralBonus, *nu.ReferredBy); err != nil {
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
	u, err := scanUser(r.storage.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, "id=$1", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "email=$1", email)
}

func (r *userRepository) GetByReferralCode(ctx context.Context, code string) (*model.User, error) {
	return r.getOne(ctx, "referral_code=$1", code)
}

func (r *userRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE referral_code=$1)`
	var exists bool
	if err := r.storage.pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) ClaimReward(ctx context.Context, userID, amount int64, now, cutoff time.Time) (int64, bool, error) {
	const query = `UPDATE users SET balance = balance + $1, last_claim_at = $2
                   WHERE id = $3 AND (last_claim_at IS NULL OR last_claim_at <= $4)
                   RETURNING balance`
	var balance int64
	err := r.storage.pool.QueryRow(ctx, query, amount, now, userID, cutoff).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return balance, true, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
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
	const query = `INSERT INTO admins (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at`
	a := model.Admin{Username: username, Email: email, PasswordHash: passwordHash}
	if err := r.storage.pool.QueryRow(ctx, query, username, email, passwordHash).Scan(&a.ID, &a.CreatedAt); err != nil {
		return nil, uniqueViolationError(err)
	}
	return &a, nil
}

func (r *adminRepository) CreateFirst(ctx context.Context, username, email, passwordHash string) (*model.Admin, error) {
	const lockAdmins = `LOCK TABLE admins IN SHARE ROW EXCLUSIVE MODE`
	const query = `INSERT INTO admins (username, email, password_hash)
                   SELECT $1, $2, $3 WHERE NOT EXISTS (SELECT 1 FROM admins)
                   RETURNING id, created_at`

	a := model.Admin{Username: username, Email: email, PasswordHash: passwordHash}
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockAdmins); err != nil {
			return err
		}
		err := tx.QueryRow(ctx, query, username, email, passwordHash).Scan(&a.ID, &a.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrAdminSignupClosed
		}
		return err
	})
	if err != nil {
		return nil, uniqueViolationError(err)
	}
	return &a, nil
}

func (r *adminRepository) getOne(ctx context.Context, where string, arg any) (*model.Admin, error) {
	var a model.Admin
	err := r.storage.pool.QueryRow(ctx, `SELECT id, username, email, password_hash, created_at FROM admins WHERE `+where, arg).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return r.getOne(ctx, "email=$1", email)
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*model.Admin, error) {
	return r.getOne(ctx, "id=$1", id)
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
