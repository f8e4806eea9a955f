package http

import (
	"errors"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"asceta/portal/internal/access"
	"asceta/portal/internal/apperr"
	"asceta/portal/internal/identity"
	"asceta/portal/internal/model"
	"asceta/portal/internal/repository"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	// maxPage keeps (page-1)*limit inside an int.
	maxPage = math.MaxInt / maxPageLimit
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// storeFailure classifies a repository error for a handler.
func storeFailure(err error, notFound string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, repository.ErrUnavailable):
		return apperr.Unavailable(err)
	default:
		return apperr.Internal(err)
	}
}

// pathID reads the id path parameter. A value that is not a UUID names no row.
func pathID(r *http.Request, notFound string) (string, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return "", apperr.NotFound(notFound)
	}
	return id, nil
}

// parsePaging reads page and limit. page counts from 1.
func parsePaging(r *http.Request) (int, int, error) {
	fields := map[string]string{}
	page, limit := 1, defaultPageLimit
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPage {
			fields["page"] = "range"
		}
		page = n
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPageLimit {
			fields["limit"] = "range=1-100"
		}
		limit = n
	}
	if len(fields) > 0 {
		return 0, 0, apperr.Validation("validation_failed", fields)
	}
	return page, limit, nil
}

func (s *Server) validateBody(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := decodeJSON(w, r, req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return false
	}
	if err := s.validate.Struct(req); err != nil {
		fail(w, r, identity.ValidationError(err))
		return false
	}
	return true
}

type createNewsRequest struct {
	Title    string  `json:"title" validate:"required,notblank"`
	Content  string  `json:"content" validate:"required,notblank"`
	ImageURL *string `json:"imageUrl"`
	Category *string `json:"category"`
	Status   string  `json:"status" validate:"omitempty,oneof=draft published"`
}

type updateNewsRequest struct {
	Title    *string `json:"title" validate:"omitempty,notblank"`
	Content  *string `json:"content" validate:"omitempty,notblank"`
	ImageURL *string `json:"imageUrl"`
	Category *string `json:"category"`
	Status   *string `json:"status" validate:"omitempty,oneof=draft published"`
}

type newsListResponse struct {
	News       []newsResponse `json:"news"`
	Pagination pagination     `json:"pagination"`
}

func (s *Server) handleListNews(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePaging(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	filter := repository.NewsFilter{ListOptions: model.ListOptions{Offset: (page - 1) * limit, Limit: limit}}
	status := model.NewsStatus(r.URL.Query().Get("status"))
	if _, authenticated := access.AccountFrom(r.Context()); !authenticated {
		status = model.NewsPublished
	}
	if status != "" {
		if !status.Valid() {
			fail(w, r, apperr.Validation("validation_failed", map[string]string{"status": "oneof=draft published"}))
			return
		}
		filter.Status = &status
	}

	items, total, err := s.store.ListNews(r.Context(), filter)
	if err != nil {
		fail(w, r, storeFailure(err, "news_not_found"))
		return
	}
	resp := newsListResponse{News: make([]newsResponse, 0, len(items)), Pagination: newPagination(page, limit, total)}
	for _, item := range items {
		resp.News = append(resp.News, mapNews(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetNews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "news_not_found")
	if err != nil {
		fail(w, r, err)
		return
	}
	news, err := s.store.GetNews(r.Context(), id)
	if err != nil {
		fail(w, r, storeFailure(err, "news_not_found"))
		return
	}
	if _, authenticated := access.AccountFrom(r.Context()); !authenticated && news.Status != model.NewsPublished {
		writeError(w, http.StatusNotFound, "news_not_found")
		return
	}
	writeJSON(w, http.StatusOK, mapNews(news))
}

func (s *Server) handleCreateNews(w http.ResponseWriter, r *http.Request) {
	account, _ := access.AccountFrom(r.Context())
	var req createNewsRequest
	req.Status = string(model.NewsDraft)
	if !s.validateBody(w, r, &req) {
		return
	}
	now := s.now().UTC()
	news := model.News{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Category:  req.Category,
		Status:    model.NewsStatus(req.Status),
		AuthorID:  account.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if news.Status == "" {
		news.Status = model.NewsDraft
	}
	if news.Status == model.NewsPublished {
		news.PublishDate = &now
	}
	if err := s.store.CreateNews(r.Context(), news); err != nil {
		fail(w, r, storeFailure(err, "news_not_found"))
		return
	}
	writeJSON(w, http.StatusCreated, mapNews(news))
}

func (s *Server) handleUpdateNews(w http.ResponseWriter, r *http.Request) {
	account, _ := access.AccountFrom(r.Context())
	id, err := pathID(r, "news_not_found")
	if err != nil {
		fail(w, r, err)
		return
	}
	news, err := s.store.GetNews(r.Context(), id)
	if err != nil {
		fail(w, r, storeFailure(err, "news_not_found"))
		return
	}
	if err := access.RequireOwnerOrRole(account, news.AuthorID, access.AdminOnly...); err != nil {
		s.deny(w, r, err)
		return
	}
	var req updateNewsRequest
	if !s.validateBody(w, r, &req) {
		return
	}

	now := s.now().UTC()
	if req.Title != nil {
		news.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		news.Content = *req.Content
	}
	if req.ImageURL != nil {
		news.ImageURL = req.ImageURL
	}
	if req.Category != nil {
		news.Category = req.Category
	}
	if req.Status != nil {
		news.Status = model.NewsStatus(*req.Status)
	}
	if news.Status == model.NewsPublished && news.PublishDate == nil {
		news.PublishDate = &now
	}
	news.UpdatedAt = now
	if err := s.store.UpdateNews(r.Context(), news); err != nil {
		fail(w, r, storeFailure(err, "news_not_found"))
		return
	}
	writeJSON(w, http.StatusOK, mapNews(news))
}

func (s *Server) handleDeleteNews(w http.ResponseWriter, r *http.Request) {
	account, _ := access.AccountFrom(r.Context())
	id, err := pathID(r, "news_not_found")
	if err != nil {
		fail(w, r, err)
		return
	}
	news, err := s.store.GetNews(r.Context(), id)
	if err != nil {
		fail(w, r, storeFailure(err, "news_not_found"))
		return
	}
	if err := access.RequireOwnerOrRole(account, news.AuthorID, access.AdminOnly...); err != nil {
		s.deny(w, r, err)
		return
	}
	if err := s.store.DeleteNews(r.Context(), news.ID); err != nil {
		fail(w, r, storeFailure(err, "news_not_found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createEventRequest struct {
	Title       string  `json:"title" validate:"required,notblank"`
	Description string  `json:"description" validate:"required,notblank"`
	EventDate   string  `json:"eventDate" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Location    *string `json:"location"`
	ImageURL    *string `json:"imageUrl"`
}

type updateEventRequest struct {
	Title       *string `json:"title" validate:"omitempty,notblank"`
	Description *string `json:"description" validate:"omitempty,notblank"`
	EventDate   *string `json:"eventDate" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Location    *string `json:"location"`
	ImageURL    *string `json:"imageUrl"`
}

type eventListResponse struct {
	Events     []eventResponse `json:"events"`
	Pagination pagination      `json:"pagination"`
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePaging(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	items, total, err := s.store.ListEvents(r.Context(), model.ListOptions{Offset: (page - 1) * limit, Limit: limit})
	if err != nil {
		fail(w, r, storeFailure(err, "event_not_found"))
		return
	}
	resp := eventListResponse{Events: make([]eventResponse, 0, len(items)), Pagination: newPagination(page, limit, total)}
	for _, item := range items {
		resp.Events = append(resp.Events, mapEvent(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "event_not_found")
	if err != nil {
		fail(w, r, err)
		return
	}
	event, err := s.store.GetEvent(r.Context(), id)
	if err != nil {
		fail(w, r, storeFailure(err, "event_not_found"))
		return
	}
	writeJSON(w, http.StatusOK, mapEvent(event))
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	account, _ := access.AccountFrom(r.Context())
	var req createEventRequest
	if !s.validateBody(w, r, &req) {
		return
	}
	eventDate, _ := time.Parse(time.RFC3339, req.EventDate)
	now := s.now().UTC()
	event := model.Event{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		EventDate:   eventDate.UTC(),
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		CreatedByID: account.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateEvent(r.Context(), event); err != nil {
		fail(w, r, storeFailure(err, "event_not_found"))
		return
	}
	writeJSON(w, http.StatusCreated, mapEvent(event))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	account, _ := access.AccountFrom(r.Context())
	id, err := pathID(r, "event_not_found")
	if err != nil {
		fail(w, r, err)
		return
	}
	event, err := s.store.GetEvent(r.Context(), id)
	if err != nil {
		fail(w, r, storeFailure(err, "event_not_found"))
		return
	}
	if err := access.RequireOwnerOrRole(account, event.CreatedByID, access.AdminOnly...); err != nil {
		s.deny(w, r, err)
		return
	}
	var req updateEventRequest
	if !s.validateBody(w, r, &req) {
		return
	}
	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.EventDate != nil {
		eventDate, _ := time.Parse(time.RFC3339, *req.EventDate)
		event.EventDate = eventDate.UTC()
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.ImageURL != nil {
		event.ImageURL = req.ImageURL
	}
	event.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateEvent(r.Context(), event); err != nil {
		fail(w, r, storeFailure(err, "event_not_found"))
		return
	}
	writeJSON(w, http.StatusOK, mapEvent(event))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	account, _ := access.AccountFrom(r.Context())
	id, err := pathID(r, "event_not_found")
	if err != nil {
		fail(w, r, err)
		return
	}
	event, err := s.store.GetEvent(r.Context(), id)
	if err != nil {
		fail(w, r, storeFailure(err, "event_not_found"))
		return
	}
	if err := access.RequireOwnerOrRole(account, event.CreatedByID, access.AdminOnly...); err != nil {
		s.deny(w, r, err)
		return
	}
	if err := s.store.DeleteEvent(r.Context(), event.ID); err != nil {
		fail(w, r, storeFailure(err, "event_not_found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createPageRequest struct {
	Slug            string  `json:"slug" validate:"required,slug,max=100"`
	Title           string  `json:"title" validate:"required,notblank"`
	Content         string  `json:"content" validate:"required,notblank"`
	MetaDescription *string `json:"metaDescription"`
}

type updatePageRequest struct {
	Slug            *string `json:"slug" validate:"omitempty,slug,max=100"`
	Title           *string `json:"title" validate:"omitempty,notblank"`
	Content         *string `json:"content" validate:"omitempty,notblank"`
	MetaDescription *string `json:"metaDescription"`
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := s.store.ListPages(r.Context())
	if err != nil {
		fail(w, r, storeFailure(err, "page_not_found"))
		return
	}
	resp := make([]pageResponse, 0, len(pages))
	for _, page := range pages {
		resp = append(resp, mapPage(page))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.store.GetPageBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		fail(w, r, storeFailure(err, "page_not_found"))
		return
	}
	writeJSON(w, http.StatusOK, mapPage(page))
}

func (s *Server) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	var req createPageRequest
	if !s.validateBody(w, r, &req) {
		return
	}
	now := s.now().UTC()
	page := model.Page{
		ID:              uuid.NewString(),
		Slug:            req.Slug,
		Title:           strings.TrimSpace(req.Title),
		Content:         req.Content,
		MetaDescription: req.MetaDescription,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreatePage(r.Context(), page); err != nil {
		fail(w, r, pageStoreFailure(err))
		return
	}
	writeJSON(w, http.StatusCreated, mapPage(page))
}

func (s *Server) handleUpdatePage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "page_not_found")
	if err != nil {
		fail(w, r, err)
		return
	}
	page, err := s.store.GetPageByID(r.Context(), id)
	if err != nil {
		fail(w, r, storeFailure(err, "page_not_found"))
		return
	}
	var req updatePageRequest
	if !s.validateBody(w, r, &req) {
		return
	}
	if req.Slug != nil {
		page.Slug = *req.Slug
	}
	if req.Title != nil {
		page.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		page.Content = *req.Content
	}
	if req.MetaDescription != nil {
		page.MetaDescription = req.MetaDescription
	}
	page.UpdatedAt = s.now().UTC()
	if err := s.store.UpdatePage(r.Context(), page); err != nil {
		fail(w, r, pageStoreFailure(err))
		return
	}
	writeJSON(w, http.StatusOK, mapPage(page))
}

func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "page_not_found")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := s.store.DeletePage(r.Context(), id); err != nil {
		fail(w, r, storeFailure(err, "page_not_found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pageStoreFailure(err error) error {
	if errors.Is(err, repository.ErrConflict) {
		return apperr.Conflict("slug_already_exists")
	}
	return storeFailure(err, "page_not_found")
}
