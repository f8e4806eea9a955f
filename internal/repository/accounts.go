package repository

import (
	"context"

	"asceta/portal/internal/model"
)

const accountColumns = `id, email, password_hash, role, first_name, last_name, student_id, staff_id,
  phone, department, jamb_reg_no, waec_reg_no, waec_exam_date, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (model.Account, error) {
	var account model.Account
	var role string
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&role,
		&account.FirstName,
		&account.LastName,
		&account.StudentID,
		&account.StaffID,
		&account.Phone,
		&account.Department,
		&account.JambRegNo,
		&account.WaecRegNo,
		&account.WaecExamDate,
		&account.IsActive,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	account.Role = model.Role(role)
	return account, classify(err)
}

func (s *Store) CreateAccount(ctx context.Context, account model.Account) error {
	_, err := s.pool.Exec(ctx, `
    INSERT INTO users (id, email, password_hash, role, first_name, last_name, student_id, staff_id,
      phone, department, jamb_reg_no, waec_reg_no, waec_exam_date, is_active, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
  `, account.ID, account.Email, account.PasswordHash, string(account.Role), account.FirstName, account.LastName,
		account.StudentID, account.StaffID, account.Phone, account.Department, account.JambRegNo,
		account.WaecRegNo, account.WaecExamDate, account.IsActive, account.CreatedAt, account.UpdatedAt)
	return classify(err)
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (model.Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanAccount(row)
}

func (s *Store) GetAccountByID(ctx context.Context, id string) (model.Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1`, id)
	return scanAccount(row)
}

func (s *Store) UpdateAccount(ctx context.Context, id string, update model.AccountUpdate) (model.Account, error) {
	row := s.pool.QueryRow(ctx, `
    UPDATE users
    SET first_name = COALESCE($2, first_name),
        last_name = COALESCE($3, last_name),
        phone = COALESCE($4, phone),
        department = COALESCE($5, department),
        password_hash = COALESCE($6, password_hash),
        updated_at = now()
    WHERE id = $1
    RETURNING `+accountColumns,
		id, update.FirstName, update.LastName, update.Phone, update.Department, update.PasswordHash)
	return scanAccount(row)
}

func (s *Store) DeactivateAccount(ctx context.Context, id string) error {
	return affected(s.pool.Exec(ctx, `UPDATE users SET is_active = false, updated_at = now() WHERE id = $1`, id))
}
