package repository

import (
	"context"

	"asceta/portal/internal/model"
)

// AccountStore is the credential store. Email uniqueness is enforced by the
// backing store and reported as ErrConflict.
type AccountStore interface {
	CreateAccount(ctx context.Context, account model.Account) error
	GetAccountByEmail(ctx context.Context, email string) (model.Account, error)
	GetAccountByID(ctx context.Context, id string) (model.Account, error)
	UpdateAccount(ctx context.Context, id string, update model.AccountUpdate) (model.Account, error)
	DeactivateAccount(ctx context.Context, id string) error
}

type NewsFilter struct {
	Status *model.NewsStatus
	model.ListOptions
}

type NewsStore interface {
	ListNews(ctx context.Context, filter NewsFilter) ([]model.News, int, error)
	GetNews(ctx context.Context, id string) (model.News, error)
	CreateNews(ctx context.Context, news model.News) error
	UpdateNews(ctx context.Context, news model.News) error
	DeleteNews(ctx context.Context, id string) error
}

type EventStore interface {
	ListEvents(ctx context.Context, opts model.ListOptions) ([]model.Event, int, error)
	GetEvent(ctx context.Context, id string) (model.Event, error)
	CreateEvent(ctx context.Context, event model.Event) error
	UpdateEvent(ctx context.Context, event model.Event) error
	DeleteEvent(ctx context.Context, id string) error
}

type PageStore interface {
	ListPages(ctx context.Context) ([]model.Page, error)
	GetPageBySlug(ctx context.Context, slug string) (model.Page, error)
	GetPageByID(ctx context.Context, id string) (model.Page, error)
	CreatePage(ctx context.Context, page model.Page) error
	UpdatePage(ctx context.Context, page model.Page) error
	DeletePage(ctx context.Context, id string) error
}

type AccaddStore interface {
	// FindAccaddUser matches on email or external user id.
	FindAccaddUser(ctx context.Context, email, externalUserID string) (model.AccaddUser, error)
	GetAccaddUserByEmail(ctx context.Context, email string) (model.AccaddUser, error)
	CreateAccaddUser(ctx context.Context, user model.AccaddUser) error
}

type Repository interface {
	AccountStore
	NewsStore
	EventStore
	PageStore
	AccaddStore
	Ping(ctx context.Context) error
}
