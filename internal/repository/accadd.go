package repository

import (
	"context"

	"asceta/portal/internal/model"
)

const accaddColumns = `id, email, full_name, external_user_id, is_email_verified, created_at, updated_at`

func scanAccaddUser(row rowScanner) (model.AccaddUser, error) {
	var user model.AccaddUser
	err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.ExternalUserID, &user.IsEmailVerified, &user.CreatedAt, &user.UpdatedAt)
	return user, classify(err)
}

func (s *Store) FindAccaddUser(ctx context.Context, email, externalUserID string) (model.AccaddUser, error) {
	row := s.pool.QueryRow(ctx, `
    SELECT `+accaddColumns+`
    FROM accadd_users
    WHERE email = $1 OR external_user_id = $2
    LIMIT 1
  `, email, externalUserID)
	return scanAccaddUser(row)
}

func (s *Store) GetAccaddUserByEmail(ctx context.Context, email string) (model.AccaddUser, error) {
	return scanAccaddUser(s.pool.QueryRow(ctx, `SELECT `+accaddColumns+` FROM accadd_users WHERE email = $1`, email))
}

func (s *Store) CreateAccaddUser(ctx context.Context, user model.AccaddUser) error {
	_, err := s.pool.Exec(ctx, `
    INSERT INTO accadd_users (`+accaddColumns+`)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
  `, user.ID, user.Email, user.FullName, user.ExternalUserID, user.IsEmailVerified, user.CreatedAt, user.UpdatedAt)
	return classify(err)
}
