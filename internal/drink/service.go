// Package drink は飲酒記録のドメインロジックを提供する。
package drink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/mugclub/internal/metrics"
	"github.com/hitoshi/mugclub/internal/model"
	"github.com/hitoshi/mugclub/internal/repository"
	"github.com/hitoshi/mugclub/internal/security"
)

// Catalog は飲酒記録が参照する醸造所・ビールを解決するインターフェース。
type Catalog interface {
	GetOrCreateBrewery(ctx context.Context, name string) (*model.Brewery, error)
	GetOrCreateBeer(ctx context.Context, name, breweryID string) (*model.Beer, error)
}

// Service は飲酒記録のサービス層。
type Service struct {
	catalog   Catalog
	drinkRepo repository.DrinkRepository
	sanitizer security.CommentSanitizerService
	metrics   metrics.MetricsCollector
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	catalog Catalog,
	drinkRepo repository.DrinkRepository,
	sanitizer security.CommentSanitizerService,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		catalog:   catalog,
		drinkRepo: drinkRepo,
		sanitizer: sanitizer,
		metrics:   collector,
		now:       time.Now,
	}
}

// Record は飲酒記録を作成し、Beer/Breweryを結合した形で返す。
// 醸造所→ビール→飲酒記録→再読込の順に実行し、途中で失敗した場合は以降を中止する。
// 作成済みの醸造所・ビールは残る。
func (s *Service) Record(ctx context.Context, personID string, in RecordInput) (*model.ExpandedDrink, error) {
	valid, err := in.validate()
	if err != nil {
		return nil, err
	}

	brewery, err := s.catalog.GetOrCreateBrewery(ctx, valid.brewery)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve brewery: %w", err)
	}

	beer, err := s.catalog.GetOrCreateBeer(ctx, valid.beer, brewery.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve beer: %w", err)
	}

	now := s.now()
	drink := &model.Drink{
		ID:        uuid.New().String(),
		PersonID:  personID,
		DrankOn:   valid.drankOn,
		BeerID:    beer.ID,
		Rating:    valid.rating,
		Comment:   s.sanitizeComment(valid.comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.drinkRepo.Create(ctx, drink); err != nil {
		return nil, fmt.Errorf("failed to insert drink: %w", err)
	}

	expanded, err := s.drinkRepo.FindExpandedByID(ctx, drink.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back drink: %w", err)
	}
	if expanded == nil {
		return nil, fmt.Errorf("drink %s not found after insert", drink.ID)
	}

	s.metrics.RecordDrinkRecorded()
	slog.Info("drink recorded",
		slog.String("person_id", personID),
		slog.String("drink_id", drink.ID),
		slog.String("beer_id", beer.ID),
	)
	return expanded, nil
}

// List はPersonの飲酒記録をdrank_onの新しい順に返す。
func (s *Service) List(ctx context.Context, personID string) ([]model.ExpandedDrink, error) {
	drinks, err := s.drinkRepo.ListExpandedByPerson(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drinks: %w", err)
	}
	return drinks, nil
}

// Delete はPerson所有の飲酒記録を削除する。
// IDが不正・存在しない・他人の記録の場合はいずれもNotFoundエラーを返す。
func (s *Service) Delete(ctx context.Context, personID, drinkID string) error {
	if _, err := uuid.Parse(drinkID); err != nil {
		return model.NewDrinkNotFoundError(drinkID)
	}

	deleted, err := s.drinkRepo.DeleteByIDAndPerson(ctx, drinkID, personID)
	if err != nil {
		return fmt.Errorf("failed to delete drink: %w", err)
	}
	if !deleted {
		return model.NewDrinkNotFoundError(drinkID)
	}

	s.metrics.RecordDrinkDeleted()
	slog.Info("drink deleted",
		slog.String("person_id", personID),
		slog.String("drink_id", drinkID),
	)
	return nil
}

// sanitizeComment はコメントのマークアップを除去する。空になった場合はnilを返す。
func (s *Service) sanitizeComment(raw string) *string {
	if raw == "" {
		return nil
	}
	clean := s.sanitizer.Sanitize(raw)
	if clean == "" {
		return nil
	}
	return &clean
}
