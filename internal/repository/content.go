package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"asceta/portal/internal/model"
)

const newsColumns = `id, title, content, image_url, category, status, publish_date, author_id, created_at, updated_at`

func scanNews(row rowScanner) (model.News, error) {
	var news model.News
	var status string
	err := row.Scan(&news.ID, &news.Title, &news.Content, &news.ImageURL, &news.Category, &status,
		&news.PublishDate, &news.AuthorID, &news.CreatedAt, &news.UpdatedAt)
	news.Status = model.NewsStatus(status)
	return news, classify(err)
}

func (s *Store) ListNews(ctx context.Context, filter NewsFilter) ([]model.News, int, error) {
	var status *string
	if filter.Status != nil {
		value := string(*filter.Status)
		status = &value
	}
	total, err := s.count(ctx, `SELECT count(*) FROM news WHERE ($1::text IS NULL OR status = $1)`, status)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.pool.Query(ctx, `
    SELECT `+newsColumns+`
    FROM news
    WHERE ($1::text IS NULL OR status = $1)
    ORDER BY created_at DESC
    OFFSET $2 LIMIT $3
  `, status, filter.Offset, filter.Limit)
	if err != nil {
		return nil, 0, classify(err)
	}
	items, err := collect(rows, scanNews)
	return items, total, err
}

func (s *Store) GetNews(ctx context.Context, id string) (model.News, error) {
	return scanNews(s.pool.QueryRow(ctx, `SELECT `+newsColumns+` FROM news WHERE id = $1`, id))
}

func (s *Store) CreateNews(ctx context.Context, news model.News) error {
	_, err := s.pool.Exec(ctx, `
    INSERT INTO news (`+newsColumns+`)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
  `, news.ID, news.Title, news.Content, news.ImageURL, news.Category, string(news.Status),
		news.PublishDate, news.AuthorID, news.CreatedAt, news.UpdatedAt)
	return classify(err)
}

func (s *Store) UpdateNews(ctx context.Context, news model.News) error {
	return affected(s.pool.Exec(ctx, `
    UPDATE news
    SET title = $2, content = $3, image_url = $4, category = $5, status = $6, publish_date = $7, updated_at = $8
    WHERE id = $1
  `, news.ID, news.Title, news.Content, news.ImageURL, news.Category, string(news.Status), news.PublishDate, news.UpdatedAt))
}

func (s *Store) DeleteNews(ctx context.Context, id string) error {
	return affected(s.pool.Exec(ctx, `DELETE FROM news WHERE id = $1`, id))
}

const eventColumns = `id, title, description, event_date, location, image_url, created_by_id, created_at, updated_at`

func scanEvent(row rowScanner) (model.Event, error) {
	var event model.Event
	err := row.Scan(&event.ID, &event.Title, &event.Description, &event.EventDate, &event.Location,
		&event.ImageURL, &event.CreatedByID, &event.CreatedAt, &event.UpdatedAt)
	return event, classify(err)
}

func (s *Store) ListEvents(ctx context.Context, opts model.ListOptions) ([]model.Event, int, error) {
	total, err := s.count(ctx, `SELECT count(*) FROM events`)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.pool.Query(ctx, `
    SELECT `+eventColumns+`
    FROM events
    ORDER BY event_date ASC
    OFFSET $1 LIMIT $2
  `, opts.Offset, opts.Limit)
	if err != nil {
		return nil, 0, classify(err)
	}
	items, err := collect(rows, scanEvent)
	return items, total, err
}

func (s *Store) GetEvent(ctx context.Context, id string) (model.Event, error) {
	return scanEvent(s.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

func (s *Store) CreateEvent(ctx context.Context, event model.Event) error {
	_, err := s.pool.Exec(ctx, `
    INSERT INTO events (`+eventColumns+`)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
  `, event.ID, event.Title, event.Description, event.EventDate, event.Location, event.ImageURL,
		event.CreatedByID, event.CreatedAt, event.UpdatedAt)
	return classify(err)
}

func (s *Store) UpdateEvent(ctx context.Context, event model.Event) error {
	return affected(s.pool.Exec(ctx, `
    UPDATE events
    SET title = $2, description = $3, event_date = $4, location = $5, image_url = $6, updated_at = $7
    WHERE id = $1
  `, event.ID, event.Title, event.Description, event.EventDate, event.Location, event.ImageURL, event.UpdatedAt))
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	return affected(s.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id))
}

const pageColumns = `id, slug, title, content, meta_description, created_at, updated_at`

func scanPage(row rowScanner) (model.Page, error) {
	var page model.Page
	err := row.Scan(&page.ID, &page.Slug, &page.Title, &page.Content, &page.MetaDescription, &page.CreatedAt, &page.UpdatedAt)
	return page, classify(err)
}

func (s *Store) ListPages(ctx context.Context) ([]model.Page, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+pageColumns+` FROM pages ORDER BY created_at DESC, slug`)
	if err != nil {
		return nil, classify(err)
	}
	return collect(rows, scanPage)
}

func (s *Store) GetPageBySlug(ctx context.Context, slug string) (model.Page, error) {
	return scanPage(s.pool.QueryRow(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = $1`, slug))
}

func (s *Store) GetPageByID(ctx context.Context, id string) (model.Page, error) {
	return scanPage(s.pool.QueryRow(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = $1`, id))
}

func (s *Store) CreatePage(ctx context.Context, page model.Page) error {
	_, err := s.pool.Exec(ctx, `
    INSERT INTO pages (`+pageColumns+`)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
  `, page.ID, page.Slug, page.Title, page.Content, page.MetaDescription, page.CreatedAt, page.UpdatedAt)
	return classify(err)
}

func (s *Store) UpdatePage(ctx context.Context, page model.Page) error {
	return affected(s.pool.Exec(ctx, `
    UPDATE pages
    SET slug = $2, title = $3, content = $4, meta_description = $5, updated_at = $6
    WHERE id = $1
  `, page.ID, page.Slug, page.Title, page.Content, page.MetaDescription, page.UpdatedAt))
}

func (s *Store) DeletePage(ctx context.Context, id string) error {
	return affected(s.pool.Exec(ctx, `DELETE FROM pages WHERE id = $1`, id))
}

func collect[T any](rows pgx.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	defer rows.Close()
	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, classify(rows.Err())
}
