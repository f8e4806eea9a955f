// Package identity registers accounts, verifies credentials and resolves bearer
// tokens back to live accounts.
package identity

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"asceta/portal/internal/apperr"
	"asceta/portal/internal/auth"
	"asceta/portal/internal/crypto"
	"asceta/portal/internal/model"
	"asceta/portal/internal/repository"
)

type Service struct {
	accounts repository.AccountStore
	codec    *auth.Codec
	hasher   *crypto.Hasher
	denylist auth.Denylist
	validate *validator.Validate
	now      func() time.Time
}

func NewService(accounts repository.AccountStore, codec *auth.Codec, hasher *crypto.Hasher, denylist auth.Denylist) *Service {
	if denylist == nil {
		denylist = auth.NewMemoryDenylist()
	}
	return &Service{
		accounts: accounts,
		codec:    codec,
		hasher:   hasher,
		denylist: denylist,
		validate: NewValidator(),
		now:      time.Now,
	}
}

// Session is an issued token together with the account it names.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   model.Account
}

type RegisterInput struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6,max=72"`
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Role      string  `json:"role" validate:"omitempty,oneof=student lecturer admin"`
	StudentID *string `json:"studentId"`
	StaffID   *string `json:"staffId"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

const (
	ExamJAMB = "jamb"
	ExamWAEC = "waec"
)

type AdmissionInput struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=6,max=72"`
	FirstName    string  `json:"firstName" validate:"required"`
	LastName     string  `json:"lastName" validate:"required"`
	Phone        *string `json:"phone"`
	Department   *string `json:"department"`
	ExamType     string  `json:"examType" validate:"required,oneof=jamb waec"`
	JambRegNo    string  `json:"jambRegNo" validate:"required_if=ExamType jamb"`
	WaecRegNo    string  `json:"waecRegNo" validate:"required_if=ExamType waec"`
	WaecExamDate string  `json:"waecExamDate" validate:"required_if=ExamType waec"`
}

type ProfileInput struct {
	FirstName  *string `json:"firstName" validate:"omitempty,min=1"`
	LastName   *string `json:"lastName" validate:"omitempty,min=1"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Password   *string `json:"password" validate:"omitempty,min=6,max=72"`
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (Session, error) {
	input.Email = normalizeEmail(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if err := s.validate.Struct(input); err != nil {
		return Session{}, ValidationError(err)
	}

	role := model.RoleStudent
	if input.Role != "" {
		role = model.Role(input.Role)
	}
	account := s.newAccount(input.Email, input.FirstName, input.LastName, role)
	switch role {
	case model.RoleStudent:
		account.StudentID = optional(input.StudentID)
	case model.RoleLecturer, model.RoleAdmin:
		account.StaffID = optional(input.StaffID)
	}
	return s.create(ctx, account, input.Password)
}

// Apply registers an admission applicant. The account is always a student.
func (s *Service) Apply(ctx context.Context, input AdmissionInput) (Session, error) {
	input.Email = normalizeEmail(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.ExamType = strings.ToLower(strings.TrimSpace(input.ExamType))
	input.JambRegNo = strings.TrimSpace(input.JambRegNo)
	input.WaecRegNo = strings.TrimSpace(input.WaecRegNo)
	input.WaecExamDate = strings.TrimSpace(input.WaecExamDate)
	if err := s.validate.Struct(input); err != nil {
		return Session{}, ValidationError(err)
	}

	account := s.newAccount(input.Email, input.FirstName, input.LastName, model.RoleStudent)
	account.Phone = optional(input.Phone)
	account.Department = optional(input.Department)
	switch input.ExamType {
	case ExamJAMB:
		account.JambRegNo = &input.JambRegNo
	case ExamWAEC:
		examDate, ok := parseDate(input.WaecExamDate)
		if !ok {
			return Session{}, apperr.Validation("validation_failed", map[string]string{"waecExamDate": "date"})
		}
		account.WaecRegNo = &input.WaecRegNo
		account.WaecExamDate = &examDate
	}
	return s.create(ctx, account, input.Password)
}

// Login fails with the same error for an unknown email, an inactive account and
// a wrong password.
func (s *Service) Login(ctx context.Context, input LoginInput) (Session, error) {
	if err := s.validate.Struct(input); err != nil {
		return Session{}, ValidationError(err)
	}
	account, err := s.accounts.GetAccountByEmail(ctx, normalizeEmail(input.Email))
	if errors.Is(err, repository.ErrNotFound) {
		s.hasher.CheckDummy(input.Password)
		return Session{}, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, storeError(err, "")
	}
	if err := s.hasher.Check(account.PasswordHash, input.Password); err != nil {
		if !errors.Is(err, crypto.ErrPasswordMismatch) {
			log.Printf("login: account=%s unreadable password hash: %v", account.ID, err)
		}
		return Session{}, apperr.ErrInvalidCredentials
	}
	if !account.IsActive {
		return Session{}, apperr.ErrInvalidCredentials
	}
	return s.issue(account)
}

// Authenticate resolves a bearer token to the live account it names.
func (s *Service) Authenticate(ctx context.Context, token string) (model.Account, *auth.Claims, error) {
	if token == "" {
		return model.Account{}, nil, apperr.ErrUnauthenticated
	}
	claims, err := s.codec.Verify(token)
	if err != nil {
		return model.Account{}, nil, apperr.ErrUnauthenticated
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID())
	if err != nil {
		return model.Account{}, nil, apperr.Unavailable(err)
	}
	if revoked {
		return model.Account{}, nil, apperr.ErrUnauthenticated
	}
	account, err := s.accounts.GetAccountByID(ctx, claims.AccountID())
	if errors.Is(err, repository.ErrNotFound) {
		return model.Account{}, nil, apperr.ErrUnauthenticated
	}
	if err != nil {
		return model.Account{}, nil, storeError(err, "")
	}
	if !account.IsActive {
		return model.Account{}, nil, apperr.ErrUnauthenticated
	}
	return account, claims, nil
}

func (s *Service) UpdateProfile(ctx context.Context, account model.Account, input ProfileInput) (model.Account, error) {
	input.FirstName = trimPtr(input.FirstName)
	input.LastName = trimPtr(input.LastName)
	if err := s.validate.Struct(input); err != nil {
		return model.Account{}, ValidationError(err)
	}
	update := model.AccountUpdate{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Phone:      trimPtr(input.Phone),
		Department: trimPtr(input.Department),
	}
	if input.Password != nil {
		hash, err := s.hashPassword(*input.Password)
		if err != nil {
			return model.Account{}, err
		}
		update.PasswordHash = &hash
	}
	updated, err := s.accounts.UpdateAccount(ctx, account.ID, update)
	if err != nil {
		return model.Account{}, storeError(err, "user_not_found")
	}
	return updated, nil
}

// Deactivate takes effect on the account's next authenticated request.
func (s *Service) Deactivate(ctx context.Context, accountID string) error {
	if err := s.accounts.DeactivateAccount(ctx, accountID); err != nil {
		return storeError(err, "user_not_found")
	}
	return nil
}

// Logout revokes the token until it would have expired.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.TokenID() == "" {
		return apperr.ErrUnauthenticated
	}
	if err := s.denylist.Revoke(ctx, claims.TokenID(), claims.Expiry()); err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}

func (s *Service) newAccount(email, firstName, lastName string, role model.Role) model.Account {
	now := s.now().UTC()
	return model.Account{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      role,
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Service) create(ctx context.Context, account model.Account, password string) (Session, error) {
	hash, err := s.hashPassword(password)
	if err != nil {
		return Session{}, err
	}
	account.PasswordHash = hash
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return Session{}, apperr.Conflict("user_already_exists")
		}
		return Session{}, storeError(err, "")
	}
	return s.issue(account)
}

// hashPassword rejects inputs past the bcrypt byte limit, which a rune-counted
// max tag lets through for multi-byte text.
func (s *Service) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, crypto.ErrPasswordTooLong) {
		return "", apperr.Validation("validation_failed", map[string]string{"password": "max"})
	}
	if err != nil {
		return "", apperr.Internal(err)
	}
	return hash, nil
}

func (s *Service) issue(account model.Account) (Session, error) {
	token, err := s.codec.Sign(account.ID)
	if err != nil {
		return Session{}, apperr.Internal(err)
	}
	return Session{
		Token:     token,
		ExpiresAt: s.now().Add(s.codec.TTL()),
		Account:   account,
	}, nil
}

// storeError classifies a repository error. An empty notFound code treats a
// missing row as internal.
func storeError(err error, notFound string) error {
	switch {
	case errors.Is(err, repository.ErrUnavailable):
		return apperr.Unavailable(err)
	case errors.Is(err, repository.ErrNotFound) && notFound != "":
		return apperr.NotFound(notFound)
	default:
		return apperr.Internal(err)
	}
}

func parseDate(value string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}
