package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/tutor-marketplace/internal/domain/errs"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
)

// CreateReview сохраняет новый отзыв. Ссылка на несуществующее
// объявление превращается в errs.ErrNotFound.
func (s *Storage) CreateReview(ctx context.Context, review models.Review) error {
	const op = "storage.CreateReview"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reviews (id, author_id, ad_id, rating, explanation)
			  VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.DB.ExecContext(ctx, query,
		review.ID, review.AuthorID, review.AdID, review.Rating, review.Explanation); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListReviewsByAd возвращает все отзывы по объявлению.
func (s *Storage) ListReviewsByAd(ctx context.Context, adID string) ([]*models.Review, error) {
	const op = "storage.ListReviewsByAd"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, author_id, ad_id, rating, explanation, created_at
			  FROM reviews
			  WHERE ad_id = $1
			  ORDER BY created_at`
	return s.queryReviews(ctx, op, query, adID)
}

// ListReviewsByAdAuthor возвращает отзывы по всем объявлениям пользователя.
func (s *Storage) ListReviewsByAdAuthor(ctx context.Context, authorID string) ([]*models.Review, error) {
	const op = "storage.ListReviewsByAdAuthor"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT r.id, r.author_id, r.ad_id, r.rating, r.explanation, r.created_at
			  FROM reviews r
			  JOIN advertisements a ON a.id = r.ad_id
			  WHERE a.author_id = $1
			  ORDER BY r.created_at`
	return s.queryReviews(ctx, op, query, authorID)
}

func (s *Storage) queryReviews(ctx context.Context, op, query string, arg any) ([]*models.Review, error) {
	rows, err := s.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Review
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(&review.ID, &review.AuthorID, &review.AdID,
			&review.Rating, &review.Explanation, &review.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
