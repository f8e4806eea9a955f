// Package memory is an in-process implementation of the repository
// interfaces, used by tests and by development runs without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"asceta/portal/internal/model"
	"asceta/portal/internal/repository"
)

type Store struct {
	mu       sync.RWMutex
	accounts map[string]model.Account
	news     map[string]model.News
	events   map[string]model.Event
	pages    map[string]model.Page
	accadd   map[string]model.AccaddUser
	down     bool
}

var _ repository.Repository = (*Store)(nil)

func New() *Store {
	return &Store{
		accounts: make(map[string]model.Account),
		news:     make(map[string]model.News),
		events:   make(map[string]model.Event),
		pages:    make(map[string]model.Page),
		accadd:   make(map[string]model.AccaddUser),
	}
}

// SetUnavailable makes every call fail with repository.ErrUnavailable.
func (s *Store) SetUnavailable(down bool) {
	s.mu.Lock()
	s.down = down
	s.mu.Unlock()
}

// SetRole changes an account's role in place, as an operator editing the
// users table would.
func (s *Store) SetRole(id string, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.Role = role
	s.accounts[id] = account
	return nil
}

func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down {
		return repository.ErrUnavailable
	}
	return nil
}

func (s *Store) CreateAccount(_ context.Context, account model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return repository.ErrUnavailable
	}
	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Email, account.Email) {
			return repository.ErrConflict
		}
	}
	if _, ok := s.accounts[account.ID]; ok {
		return repository.ErrConflict
	}
	s.accounts[account.ID] = account
	return nil
}

func (s *Store) GetAccountByEmail(_ context.Context, email string) (model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down {
		return model.Account{}, repository.ErrUnavailable
	}
	for _, account := range s.accounts {
		if strings.EqualFold(account.Email, email) {
			return account, nil
		}
	}
	return model.Account{}, repository.ErrNotFound
}

func (s *Store) GetAccountByID(_ context.Context, id string) (model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down {
		return model.Account{}, repository.ErrUnavailable
	}
	account, ok := s.accounts[id]
	if !ok {
		return model.Account{}, repository.ErrNotFound
	}
	return account, nil
}

func (s *Store) UpdateAccount(_ context.Context, id string, update model.AccountUpdate) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return model.Account{}, repository.ErrUnavailable
	}
	account, ok := s.accounts[id]
	if !ok {
		return model.Account{}, repository.ErrNotFound
	}
	if update.FirstName != nil {
		account.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		account.LastName = *update.LastName
	}
	if update.Phone != nil {
		account.Phone = update.Phone
	}
	if update.Department != nil {
		account.Department = update.Department
	}
	if update.PasswordHash != nil {
		account.PasswordHash = *update.PasswordHash
	}
	account.UpdatedAt = time.Now().UTC()
	s.accounts[id] = account
	return account, nil
}

func (s *Store) DeactivateAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return repository.ErrUnavailable
	}
	account, ok := s.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.IsActive = false
	account.UpdatedAt = time.Now().UTC()
	s.accounts[id] = account
	return nil
}

func (s *Store) ListNews(_ context.Context, filter repository.NewsFilter) ([]model.News, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down {
		return nil, 0, repository.ErrUnavailable
	}
	matched := []model.News{}
	for _, news := range s.news {
		if filter.Status != nil && news.Status != *filter.Status {
			continue
		}
		matched = append(matched, news)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return window(matched, filter.ListOptions), len(matched), nil
}

func (s *Store) GetNews(_ context.Context, id string) (model.News, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down {
		return model.News{}, repository.ErrUnavailable
	}
	news, ok := s.news[id]
	if !ok {
		return model.News{}, repository.ErrNotFound
	}
	return news, nil
}

func (s *Store) CreateNews(_ context.Context, news model.News) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return repository.ErrUnavailable
	}
	if _, ok := s.news[news.ID]; ok {
		return repository.ErrConflict
	}
	s.news[news.ID] = news
	return nil
}

func (s *Store) UpdateNews(_ context.Context, news model.News) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return repository.ErrUnavailable
	}
	existing, ok := s.news[news.ID]
	if !ok {
		return repository.ErrNotFound
	}
	news.AuthorID = existing.AuthorID
	news.CreatedAt = existing.CreatedAt
	s.news[news.ID] = news
	return nil
}

func (s *Store) DeleteNews(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return repository.ErrUnavailable
	}
	if _, ok := s.news[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.news, id)
	return nil
}

func (s *Store) ListEvents(_ context.Context, opts model.ListOptions) ([]model.Event, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down {
		return nil, 0, repository.ErrUnavailable
	}
	events := make([]model.Event, 0, len(s.events))
	for _, event := range s.events {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].EventDate.Equal(events[j].EventDate) {
			return events[i].ID < events[j].ID
		}
		return events[i].EventDate.Before(events[j].EventDate)
	})
	return window(events, opts), len(events), nil
}

func (s *Store) GetEvent(_ context.Context, id string) (model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down {
		return model.Event{}, repository.ErrUnavailable
	}
	event, ok := s.events[id]
	if !ok {
		return model.Event{}, repository.ErrNotFound
	}
	return event, nil
}

func (s *Store) CreateEvent(_ context.Context, event model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return repository.ErrUnavailable
	}
	if _, ok := s.events[event.ID]; ok {
		return repository.ErrConflict
	}
	s.events[event.ID] = event
	return nil
}

func (s *Store) UpdateEvent(_ context.Context, event model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return repository.ErrUnavailable
	}
	existing, ok := s.events[event.ID]
	if !ok {
		return repository.ErrNotFound
	}
	event.CreatedByID = existing.CreatedByID
	event.CreatedAt = existing.CreatedAt
	s.events[event.ID] = event
	return nil
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return repository.ErrUnavailable
	}
	if _, ok := s.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *Store) ListPages(context.Context) ([]model.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down {
		return nil, repository.ErrUnavailable
	}
	pages := make([]model.Page, 0, len(s.pages))
	for _, page := range s.pages {
		pages = append(pages, page)
	}
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].CreatedAt.Equal(pages[j].CreatedAt) {
			return pages[i].Slug < pages[j].Slug
		}
		return pages[i].CreatedAt.After(pages[j].CreatedAt)
	})
	return pages, nil
}

func (s *Store) GetPageBySlug(_ context.Context, slug string) (model.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down {
		return model.Page{}, repository.ErrUnavailable
	}
	for _, page := range s.pages {
		if page.Slug == slug {
			return page, nil
		}
	}
	return model.Page{}, repository.ErrNotFound
}

func (s *Store) GetPageByID(_ context.Context, id string) (model.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down {
		return model.Page{}, repository.ErrUnavailable
	}
	page, ok := s.pages[id]
	if !ok {
		return model.Page{}, repository.ErrNotFound
	}
	return page, nil
}

func (s *Store) CreatePage(_ context.Context, page model.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return repository.ErrUnavailable
	}
	if _, ok := s.pages[page.ID]; ok || s.slugTaken(page.Slug, page.ID) {
		return repository.ErrConflict
	}
	s.pages[page.ID] = page
	return nil
}

func (s *Store) UpdatePage(_ context.Context, page model.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return repository.ErrUnavailable
	}
	existing, ok := s.pages[page.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if s.slugTaken(page.Slug, page.ID) {
		return repository.ErrConflict
	}
	page.CreatedAt = existing.CreatedAt
	s.pages[page.ID] = page
	return nil
}

func (s *Store) DeletePage(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return repository.ErrUnavailable
	}
	if _, ok := s.pages[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.pages, id)
	return nil
}

// slugTaken must be called with the lock held.
func (s *Store) slugTaken(slug, exceptID string) bool {
	for id, page := range s.pages {
		if id != exceptID && page.Slug == slug {
			return true
		}
	}
	return false
}

func (s *Store) FindAccaddUser(_ context.Context, email, externalUserID string) (model.AccaddUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down {
		return model.AccaddUser{}, repository.ErrUnavailable
	}
	for _, user := range s.accadd {
		if user.Email == email || user.ExternalUserID == externalUserID {
			return user, nil
		}
	}
	return model.AccaddUser{}, repository.ErrNotFound
}

func (s *Store) GetAccaddUserByEmail(_ context.Context, email string) (model.AccaddUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down {
		return model.AccaddUser{}, repository.ErrUnavailable
	}
	for _, user := range s.accadd {
		if user.Email == email {
			return user, nil
		}
	}
	return model.AccaddUser{}, repository.ErrNotFound
}

func (s *Store) CreateAccaddUser(_ context.Context, user model.AccaddUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return repository.ErrUnavailable
	}
	for _, existing := range s.accadd {
		if existing.Email == user.Email || existing.ExternalUserID == user.ExternalUserID {
			return repository.ErrConflict
		}
	}
	s.accadd[user.ID] = user
	return nil
}

func window[T any](items []T, opts model.ListOptions) []T {
	if opts.Offset < 0 || opts.Offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if opts.Limit > 0 && opts.Offset+opts.Limit < end {
		end = opts.Offset + opts.Limit
	}
	return items[opts.Offset:end]
}
