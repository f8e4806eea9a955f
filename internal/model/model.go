package model

import "time"

type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return true
	}
	return false
}

func ParseRole(value string) (Role, bool) {
	role := Role(value)
	return role, role.Valid()
}

type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	FirstName    string
	LastName     string
	StudentID    *string
	StaffID      *string
	Phone        *string
	Department   *string
	JambRegNo    *string
	WaecRegNo    *string
	WaecExamDate *time.Time
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountUpdate carries the mutable profile fields; nil leaves a field unchanged.
type AccountUpdate struct {
	FirstName    *string
	LastName     *string
	Phone        *string
	Department   *string
	PasswordHash *string
}

type NewsStatus string

const (
	NewsDraft     NewsStatus = "draft"
	NewsPublished NewsStatus = "published"
)

func (s NewsStatus) Valid() bool {
	return s == NewsDraft || s == NewsPublished
}

type News struct {
	ID          string
	Title       string
	Content     string
	ImageURL    *string
	Category    *string
	Status      NewsStatus
	PublishDate *time.Time
	AuthorID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Event struct {
	ID          string
	Title       string
	Description string
	EventDate   time.Time
	Location    *string
	ImageURL    *string
	CreatedByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Page struct {
	ID              string
	Slug            string
	Title           string
	Content         string
	MetaDescription *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type AccaddUser struct {
	ID              string
	Email           string
	FullName        string
	ExternalUserID  string
	IsEmailVerified bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ListOptions struct {
	Offset int
	Limit  int
}
