// Package review содержит бизнес-логику работы с отзывами.
package review

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/tutor-marketplace/internal/lib/objectid"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
)

// ReviewRepository определяет методы для работы с отзывами в хранилище.
type ReviewRepository interface {
	// CreateReview сохраняет новый отзыв.
	CreateReview(ctx context.Context, review models.Review) error
	// ListReviewsByAd возвращает отзывы по объявлению.
	ListReviewsByAd(ctx context.Context, adID string) ([]*models.Review, error)
	// ListReviewsByAdAuthor возвращает отзывы по всем объявлениям пользователя.
	ListReviewsByAdAuthor(ctx context.Context, authorID string) ([]*models.Review, error)
}

// ReviewService реализует бизнес-логику работы с отзывами.
type ReviewService struct {
	repo ReviewRepository
	log  *slog.Logger
}

// NewReviewService создает новый экземпляр ReviewService.
func NewReviewService(repo ReviewRepository, log *slog.Logger) *ReviewService {
	return &ReviewService{
		repo: repo,
		log:  log,
	}
}

// Create создает новый отзыв от имени авторизованного пользователя.
func (s *ReviewService) Create(ctx context.Context, authorID string, req models.DummyReview) (*models.Review, error) {
	review := models.Review{
		ID:          objectid.New(),
		AuthorID:    authorID,
		AdID:        req.AdID,
		Rating:      req.Rating,
		Explanation: req.Explanation,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	s.log.Info("created new review", slog.String("id", review.ID), slog.String("ad_id", review.AdID))
	return &review, nil
}

// ListByAd возвращает все отзывы по объявлению.
func (s *ReviewService) ListByAd(ctx context.Context, adID string) ([]*models.Review, error) {
	return s.repo.ListReviewsByAd(ctx, adID)
}

// ListByUser возвращает отзывы по всем объявлениям пользователя.
func (s *ReviewService) ListByUser(ctx context.Context, userID string) ([]*models.Review, error) {
	return s.repo.ListReviewsByAdAuthor(ctx, userID)
}
