// Package ads содержит бизнес-логику работы с объявлениями, включая кеширование.
package ads

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/tutor-marketplace/internal/lib/objectid"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
)

// AdRepository определяет методы для работы с объявлениями в хранилище.
type AdRepository interface {
	// CreateAd сохраняет новое объявление.
	CreateAd(ctx context.Context, ad models.Advertisement) error
	// ReadAd возвращает объявление по ID.
	ReadAd(ctx context.Context, id string) (*models.Advertisement, error)
	// ListAdsByAuthor возвращает объявления пользователя.
	ListAdsByAuthor(ctx context.Context, authorID string) ([]*models.Advertisement, error)
	// SearchAds ищет объявления по ключевому слову.
	SearchAds(ctx context.Context, keyword string) ([]*models.Advertisement, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// AdService реализует бизнес-логику работы с объявлениями.
// Объявления после создания почти не меняются, поэтому чтение идёт
// через кеш по схеме cache-aside.
type AdService struct {
	repo  AdRepository
	cache Cache
	log   *slog.Logger
}

// NewAdService создает новый экземпляр AdService.
func NewAdService(repo AdRepository, cache Cache, log *slog.Logger) *AdService {
	return &AdService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает новое объявление от имени авторизованного пользователя.
func (s *AdService) Create(ctx context.Context, authorID string, req models.DummyAdvertisement) (*models.Advertisement, error) {
	ad := models.Advertisement{
		ID:          objectid.New(),
		AuthorID:    authorID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Type:        req.Type,
		Lat:         req.Lat,
		Lon:         req.Lon,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateAd(ctx, ad); err != nil {
		return nil, err
	}
	s.log.Info("created new advertisement", slog.String("id", ad.ID))

	cacheKey := fmt.Sprintf("advertisement:%s", ad.ID)
	if err := s.cache.Set(cacheKey, ad, time.Hour); err != nil {
		s.log.Warn("failed to cache advertisement", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return &ad, nil
}

// Get возвращает объявление по ID, используя кеш или репозиторий.
func (s *AdService) Get(ctx context.Context, id string) (*models.Advertisement, error) {
	var result *models.Advertisement
	cacheKey := fmt.Sprintf("advertisement:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found && result != nil {
		return result, nil
	}

	result, err = s.repo.ReadAd(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// OwnerOf возвращает ID автора объявления. Используется сервисом подписок,
// чтобы определить роль действующего пользователя относительно заявки.
func (s *AdService) OwnerOf(ctx context.Context, adID string) (string, error) {
	ad, err := s.Get(ctx, adID)
	if err != nil {
		return "", err
	}
	return ad.AuthorID, nil
}

// ListByAuthor возвращает все объявления пользователя.
func (s *AdService) ListByAuthor(ctx context.Context, authorID string) ([]*models.Advertisement, error) {
	return s.repo.ListAdsByAuthor(ctx, authorID)
}

// Search возвращает объявления по ключевому слову.
func (s *AdService) Search(ctx context.Context, keyword string) ([]*models.Advertisement, error) {
	return s.repo.SearchAds(ctx, keyword)
}
