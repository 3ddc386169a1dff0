package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hosterly/booking-api/internal/model"
	"github.com/hosterly/booking-api/internal/utils"
)

// HosterRepo provides persistence for hoster accounts.
type HosterRepo struct{ DB *sql.DB }

func NewHosterRepo(db *sql.DB) *HosterRepo { return &HosterRepo{DB: db} }

// Create inserts a hoster with a bcrypt-hashed password and returns its ID.
func (r *HosterRepo) Create(ctx context.Context, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO hosters (email, password_hash) VALUES (?,?)",
		email, hash)
	if err != nil {
		// 1062 is the MySQL duplicate-key error code
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a hoster by normalized email.
func (r *HosterRepo) GetByEmail(ctx context.Context, email string) (model.Hoster, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var h model.Hoster
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,created_at FROM hosters WHERE email=? LIMIT 1",
		email).Scan(&h.ID, &h.Email, &h.PasswordHash, &h.CreatedAt)
	return h, err
}

// GetByID fetches a hoster by id.
func (r *HosterRepo) GetByID(ctx context.Context, id uint64) (model.Hoster, error) {
	var h model.Hoster
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,created_at FROM hosters WHERE id=? LIMIT 1",
		id).Scan(&h.ID, &h.Email, &h.PasswordHash, &h.CreatedAt)
	return h, err
}
