// Package catalog は醸造所とビールのカタログ管理を提供する。
// 名前による取得または作成と、部分一致検索を扱う。
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/mugclub/internal/model"
	"github.com/hitoshi/mugclub/internal/repository"
)

// SearchLimit は検索結果の最大件数。
const SearchLimit = 25

// Service はカタログのサービス層。
type Service struct {
	breweryRepo repository.BreweryRepository
	beerRepo    repository.BeerRepository
	now         func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(breweryRepo repository.BreweryRepository, beerRepo repository.BeerRepository) *Service {
	return &Service{
		breweryRepo: breweryRepo,
		beerRepo:    beerRepo,
		now:         time.Now,
	}
}

// GetOrCreateBrewery は名前に一致する醸造所を返す。存在しなければ作成する。
// 並行して同名の醸造所が作成された場合も同じ行に収束する。
func (s *Service) GetOrCreateBrewery(ctx context.Context, name string) (*model.Brewery, error) {
	brewery, err := s.breweryRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find brewery: %w", err)
	}
	if brewery != nil {
		return brewery, nil
	}

	now := s.now()
	brewery, err = s.breweryRepo.CreateOrGet(ctx, &model.Brewery{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create brewery: %w", err)
	}
	return brewery, nil
}

// GetOrCreateBeer は醸造所内で名前に一致するビールを返す。存在しなければ作成する。
func (s *Service) GetOrCreateBeer(ctx context.Context, name, breweryID string) (*model.Beer, error) {
	beer, err := s.beerRepo.FindByNameAndBrewery(ctx, name, breweryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find beer: %w", err)
	}
	if beer != nil {
		return beer, nil
	}

	now := s.now()
	beer, err = s.beerRepo.CreateOrGet(ctx, &model.Beer{
		ID:        uuid.New().String(),
		Name:      name,
		BreweryID: breweryID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create beer: %w", err)
	}
	return beer, nil
}

// SearchBeers は名前の部分一致でビールを検索する。空のクエリはエラーになる。
func (s *Service) SearchBeers(ctx context.Context, query string) ([]model.BeerSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.NewEmptySearchQueryError()
	}

	results, err := s.beerRepo.SearchByName(ctx, query, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search beers: %w", err)
	}
	return results, nil
}

// SearchBreweries は名前の部分一致で醸造所を検索する。空のクエリはエラーになる。
func (s *Service) SearchBreweries(ctx context.Context, query string) ([]model.BrewerySearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.NewEmptySearchQueryError()
	}

	results, err := s.breweryRepo.SearchByName(ctx, query, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search breweries: %w", err)
	}
	return results, nil
}
