package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/tutor-marketplace/internal/domain/errs"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
)

// CreateAd сохраняет новое объявление.
func (s *Storage) CreateAd(ctx context.Context, ad models.Advertisement) error {
	const op = "storage.CreateAd"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO advertisements (id, author_id, title, description,
			      price, type, lat, lon)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := s.DB.ExecContext(ctx, query,
		ad.ID, ad.AuthorID, ad.Title, ad.Description,
		ad.Price, ad.Type, ad.Lat, ad.Lon); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadAd возвращает объявление по его ID.
func (s *Storage) ReadAd(ctx context.Context, id string) (*models.Advertisement, error) {
	const op = "storage.ReadAd"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, author_id, title, description, price, type, lat, lon, created_at
			  FROM advertisements
			  WHERE id = $1`
	ad := &models.Advertisement{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&ad.ID, &ad.AuthorID, &ad.Title, &ad.Description,
		&ad.Price, &ad.Type, &ad.Lat, &ad.Lon, &ad.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ad, nil
}

// ListAdsByAuthor возвращает все объявления пользователя.
func (s *Storage) ListAdsByAuthor(ctx context.Context, authorID string) ([]*models.Advertisement, error) {
	const op = "storage.ListAdsByAuthor"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, author_id, title, description, price, type, lat, lon, created_at
			  FROM advertisements
			  WHERE author_id = $1
			  ORDER BY created_at`
	return s.queryAds(ctx, op, query, authorID)
}

// SearchAds возвращает объявления, в заголовке или описании которых
// встречается ключевое слово (регистронезависимо).
func (s *Storage) SearchAds(ctx context.Context, keyword string) ([]*models.Advertisement, error) {
	const op = "storage.SearchAds"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, author_id, title, description, price, type, lat, lon, created_at
			  FROM advertisements
			  WHERE title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
			  ORDER BY created_at`
	return s.queryAds(ctx, op, query, keyword)
}

func (s *Storage) queryAds(ctx context.Context, op, query string, arg any) ([]*models.Advertisement, error) {
	rows, err := s.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Advertisement
	for rows.Next() {
		var ad models.Advertisement
		if err := rows.Scan(&ad.ID, &ad.AuthorID, &ad.Title, &ad.Description,
			&ad.Price, &ad.Type, &ad.Lat, &ad.Lon, &ad.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
