package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/hitoshi/mugclub/internal/model"
	"github.com/hitoshi/mugclub/internal/repository"
)

// --- インメモリ実装 ---
// CreateOrGetは一意制約付きINSERT ... ON CONFLICTと同じく、既存の行があればそれを返す。

type memBreweryRepo struct {
	mu       sync.Mutex
	byName   map[string]*model.Brewery
	inserted int
}

func newMemBreweryRepo() *memBreweryRepo {
	return &memBreweryRepo{byName: make(map[string]*model.Brewery)}
}

func (r *memBreweryRepo) FindByName(_ context.Context, name string) (*model.Brewery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byName[name], nil
}

func (r *memBreweryRepo) CreateOrGet(_ context.Context, brewery *model.Brewery) (*model.Brewery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byName[brewery.Name]; ok {
		return existing, nil
	}
	r.byName[brewery.Name] = brewery
	r.inserted++
	return brewery, nil
}

func (r *memBreweryRepo) SearchByName(_ context.Context, query string, limit int) ([]model.BrewerySearchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	results := []model.BrewerySearchResult{}
	for name, b := range r.byName {
		if strings.Contains(strings.ToLower(name), strings.ToLower(query)) && len(results) < limit {
			results = append(results, model.BrewerySearchResult{ID: b.ID, Name: b.Name})
		}
	}
	return results, nil
}

type beerKey struct {
	name      string
	breweryID string
}

type memBeerRepo struct {
	mu       sync.Mutex
	byKey    map[beerKey]*model.Beer
	inserted int
	searchFn func(ctx context.Context, query string, limit int) ([]model.BeerSearchResult, error)
}

func newMemBeerRepo() *memBeerRepo {
	return &memBeerRepo{byKey: make(map[beerKey]*model.Beer)}
}

func (r *memBeerRepo) FindByNameAndBrewery(_ context.Context, name, breweryID string) (*model.Beer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byKey[beerKey{name, breweryID}], nil
}

func (r *memBeerRepo) CreateOrGet(_ context.Context, beer *model.Beer) (*model.Beer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := beerKey{beer.Name, beer.BreweryID}
	if existing, ok := r.byKey[key]; ok {
		return existing, nil
	}
	r.byKey[key] = beer
	r.inserted++
	return beer, nil
}

func (r *memBeerRepo) SearchByName(ctx context.Context, query string, limit int) ([]model.BeerSearchResult, error) {
	if r.searchFn != nil {
		return r.searchFn(ctx, query, limit)
	}
	return []model.BeerSearchResult{}, nil
}

var _ repository.BreweryRepository = (*memBreweryRepo)(nil)
var _ repository.BeerRepository = (*memBeerRepo)(nil)

// --- テスト ---

// 新しい名前で醸造所とビールがちょうど1件ずつ作成されることを検証
func TestGetOrCreate_NewNames_CreatesExactlyOne(t *testing.T) {
	ctx := context.Background()
	breweries := newMemBreweryRepo()
	beers := newMemBeerRepo()
	svc := NewService(breweries, beers)

	for i := 0; i < 3; i++ {
		brewery, err := svc.GetOrCreateBrewery(ctx, "Russian River")
		if err != nil {
			t.Fatalf("GetOrCreateBrewery() error = %v", err)
		}
		if _, err := svc.GetOrCreateBeer(ctx, "Pliny the Elder", brewery.ID); err != nil {
			t.Fatalf("GetOrCreateBeer() error = %v", err)
		}
	}

	if breweries.inserted != 1 {
		t.Errorf("breweries inserted = %d, want 1", breweries.inserted)
	}
	if beers.inserted != 1 {
		t.Errorf("beers inserted = %d, want 1", beers.inserted)
	}
}

// 同じ名前のビールでも醸造所が異なれば別の行になることを検証
func TestGetOrCreateBeer_SameNameDifferentBrewery(t *testing.T) {
	ctx := context.Background()
	beers := newMemBeerRepo()
	svc := NewService(newMemBreweryRepo(), beers)

	a, err := svc.GetOrCreateBeer(ctx, "IPA", "brewery-a")
	if err != nil {
		t.Fatalf("GetOrCreateBeer() error = %v", err)
	}
	b, err := svc.GetOrCreateBeer(ctx, "IPA", "brewery-b")
	if err != nil {
		t.Fatalf("GetOrCreateBeer() error = %v", err)
	}
	if a.ID == b.ID {
		t.Error("beers from different breweries should not share an ID")
	}
	if beers.inserted != 2 {
		t.Errorf("beers inserted = %d, want 2", beers.inserted)
	}
}

// 同名の醸造所を並行して作成しても1行に収束することを検証
func TestGetOrCreateBrewery_ConcurrentSameName_Converges(t *testing.T) {
	ctx := context.Background()
	breweries := newMemBreweryRepo()
	svc := NewService(breweries, newMemBeerRepo())

	const workers = 20
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			brewery, err := svc.GetOrCreateBrewery(ctx, "Russian River")
			if err != nil {
				t.Errorf("GetOrCreateBrewery() error = %v", err)
				return
			}
			ids[i] = brewery.ID
		}(i)
	}
	wg.Wait()

	for i, id := range ids {
		if id != ids[0] {
			t.Errorf("worker %d got brewery %q, want %q", i, id, ids[0])
		}
	}
	if breweries.inserted != 1 {
		t.Errorf("breweries inserted = %d, want 1", breweries.inserted)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := NewService(newMemBreweryRepo(), newMemBeerRepo())

	for _, query := range []string{"", "   "} {
		_, err := svc.SearchBeers(context.Background(), query)
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmptySearchQuery {
			t.Errorf("SearchBeers(%q) err = %v, want EMPTY_SEARCH_QUERY", query, err)
		}

		_, err = svc.SearchBreweries(context.Background(), query)
		if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmptySearchQuery {
			t.Errorf("SearchBreweries(%q) err = %v, want EMPTY_SEARCH_QUERY", query, err)
		}
	}
}

func TestSearchBeers_TrimsQueryAndUsesLimit(t *testing.T) {
	beers := newMemBeerRepo()
	var gotQuery string
	var gotLimit int
	beers.searchFn = func(ctx context.Context, query string, limit int) ([]model.BeerSearchResult, error) {
		gotQuery, gotLimit = query, limit
		return []model.BeerSearchResult{{ID: "beer-1", Name: "Pliny the Elder"}}, nil
	}
	svc := NewService(newMemBreweryRepo(), beers)

	results, err := svc.SearchBeers(context.Background(), "  pliny ")
	if err != nil {
		t.Fatalf("SearchBeers() error = %v", err)
	}
	if gotQuery != "pliny" {
		t.Errorf("query = %q, want %q", gotQuery, "pliny")
	}
	if gotLimit != SearchLimit {
		t.Errorf("limit = %d, want %d", gotLimit, SearchLimit)
	}
	if len(results) != 1 {
		t.Errorf("len(results) = %d, want 1", len(results))
	}
}

func TestSearchBreweries_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	breweries := newMemBreweryRepo()
	svc := NewService(breweries, newMemBeerRepo())
	if _, err := svc.GetOrCreateBrewery(ctx, "Russian River"); err != nil {
		t.Fatalf("GetOrCreateBrewery() error = %v", err)
	}

	results, err := svc.SearchBreweries(ctx, "RIVER")
	if err != nil {
		t.Fatalf("SearchBreweries() error = %v", err)
	}
	if len(results) != 1 || results[0].Name != "Russian River" {
		t.Errorf("results = %+v, want Russian River", results)
	}
}
