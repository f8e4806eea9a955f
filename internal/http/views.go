package http

import (
	"time"

	"asceta/portal/internal/model"
)

// accountResponse is the public projection of an account. The password digest
// has no field here.
type accountResponse struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Role         model.Role `json:"role"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	StudentID    *string    `json:"studentId,omitempty"`
	StaffID      *string    `json:"staffId,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Department   *string    `json:"department,omitempty"`
	JambRegNo    *string    `json:"jambRegNo,omitempty"`
	WaecRegNo    *string    `json:"waecRegNo,omitempty"`
	WaecExamDate *time.Time `json:"waecExamDate,omitempty"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func mapAccount(account model.Account) accountResponse {
	return accountResponse{
		ID:           account.ID,
		Email:        account.Email,
		Role:         account.Role,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		StudentID:    account.StudentID,
		StaffID:      account.StaffID,
		Phone:        account.Phone,
		Department:   account.Department,
		JambRegNo:    account.JambRegNo,
		WaecRegNo:    account.WaecRegNo,
		WaecExamDate: account.WaecExamDate,
		IsActive:     account.IsActive,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
}

type sessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Account   accountResponse `json:"account"`
}

type newsResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Status      model.NewsStatus `json:"status"`
	PublishDate *time.Time       `json:"publishDate,omitempty"`
	AuthorID    string           `json:"authorId"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func mapNews(news model.News) newsResponse {
	return newsResponse{
		ID:          news.ID,
		Title:       news.Title,
		Content:     news.Content,
		ImageURL:    news.ImageURL,
		Category:    news.Category,
		Status:      news.Status,
		PublishDate: news.PublishDate,
		AuthorID:    news.AuthorID,
		CreatedAt:   news.CreatedAt,
		UpdatedAt:   news.UpdatedAt,
	}
}

type eventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"eventDate"`
	Location    *string   `json:"location,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	CreatedByID string    `json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func mapEvent(event model.Event) eventResponse {
	return eventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		EventDate:   event.EventDate,
		Location:    event.Location,
		ImageURL:    event.ImageURL,
		CreatedByID: event.CreatedByID,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

type pageResponse struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	MetaDescription *string   `json:"metaDescription,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func mapPage(page model.Page) pageResponse {
	return pageResponse{
		ID:              page.ID,
		Slug:            page.Slug,
		Title:           page.Title,
		Content:         page.Content,
		MetaDescription: page.MetaDescription,
		CreatedAt:       page.CreatedAt,
		UpdatedAt:       page.UpdatedAt,
	}
}

type accaddUserResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"fullName"`
	ExternalUserID  string    `json:"externalUserId"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
}

func mapAccaddUser(user model.AccaddUser) accaddUserResponse {
	return accaddUserResponse{
		ID:              user.ID,
		Email:           user.Email,
		FullName:        user.FullName,
		ExternalUserID:  user.ExternalUserID,
		IsEmailVerified: user.IsEmailVerified,
		CreatedAt:       user.CreatedAt,
	}
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func newPagination(page, limit, total int) pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
