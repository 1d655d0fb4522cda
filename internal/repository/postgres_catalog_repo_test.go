package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/hitoshi/mugclub/internal/model"
)

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{query: "pliny", want: "%pliny%"},
		{query: "100%", want: `%100\%%`},
		{query: "a_b", want: `%a\_b%`},
		{query: `back\slash`, want: `%back\\slash%`},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := containsPattern(tt.query); got != tt.want {
				t.Errorf("containsPattern(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestPostgresBreweryRepo_FindByName_NotFound(t *testing.T) {
	exec, mock := newMockExecutor(t)
	mock.ExpectQuery("FROM brewery WHERE name").
		WithArgs("Nowhere Brewing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}))

	brewery, err := NewPostgresBreweryRepo(exec).FindByName(context.Background(), "Nowhere Brewing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if brewery != nil {
		t.Errorf("brewery = %+v, want nil", brewery)
	}
}

// 同名の醸造所が先に作成されていた場合、ON CONFLICTで既存の行が返ることを検証
func TestPostgresBreweryRepo_CreateOrGet_ReturnsExistingRow(t *testing.T) {
	exec, mock := newMockExecutor(t)
	now := time.Now()
	brewery := &model.Brewery{ID: "brewery-new", Name: "Russian River", CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery("INSERT INTO brewery .* ON CONFLICT \\(name\\) DO UPDATE").
		WithArgs(brewery.ID, brewery.Name, brewery.CreatedAt, brewery.UpdatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow("brewery-existing", "Russian River", now, now))

	got, err := NewPostgresBreweryRepo(exec).CreateOrGet(context.Background(), brewery)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "brewery-existing" {
		t.Errorf("ID = %q, want %q", got.ID, "brewery-existing")
	}
}

func TestPostgresBreweryRepo_SearchByName(t *testing.T) {
	exec, mock := newMockExecutor(t)
	mock.ExpectQuery("FROM brewery WHERE name ILIKE \\$1 ORDER BY name LIMIT \\$2").
		WithArgs("%river%", 25).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("b1", "Russian River").
			AddRow("b2", "River North"))

	results, err := NewPostgresBreweryRepo(exec).SearchByName(context.Background(), "river", 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Name != "Russian River" {
		t.Errorf("results[0].Name = %q, want %q", results[0].Name, "Russian River")
	}
}

// 検索結果が0件の場合、nilではなく空スライスが返ることを検証
func TestPostgresBreweryRepo_SearchByName_Empty(t *testing.T) {
	exec, mock := newMockExecutor(t)
	mock.ExpectQuery("FROM brewery").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	results, err := NewPostgresBreweryRepo(exec).SearchByName(context.Background(), "zzz", 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil {
		t.Error("results should be an empty slice, not nil")
	}
}

func TestPostgresBeerRepo_FindByNameAndBrewery_Found(t *testing.T) {
	exec, mock := newMockExecutor(t)
	now := time.Now()
	mock.ExpectQuery("FROM beer WHERE name = \\$1 AND brewery_id = \\$2").
		WithArgs("Pliny the Elder", "brewery-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "brewery_id", "created_at", "updated_at"}).
			AddRow("beer-1", "Pliny the Elder", "brewery-1", now, now))

	beer, err := NewPostgresBeerRepo(exec).FindByNameAndBrewery(context.Background(), "Pliny the Elder", "brewery-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if beer == nil || beer.ID != "beer-1" {
		t.Fatalf("beer = %+v, want ID beer-1", beer)
	}
}

func TestPostgresBeerRepo_CreateOrGet(t *testing.T) {
	exec, mock := newMockExecutor(t)
	now := time.Now()
	beer := &model.Beer{ID: "beer-1", Name: "Pliny the Elder", BreweryID: "brewery-1", CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery("INSERT INTO beer .* ON CONFLICT \\(name, brewery_id\\) DO UPDATE").
		WithArgs(beer.ID, beer.Name, beer.BreweryID, beer.CreatedAt, beer.UpdatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "brewery_id", "created_at", "updated_at"}).
			AddRow("beer-1", "Pliny the Elder", "brewery-1", now, now))

	got, err := NewPostgresBeerRepo(exec).CreateOrGet(context.Background(), beer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BreweryID != "brewery-1" {
		t.Errorf("BreweryID = %q, want %q", got.BreweryID, "brewery-1")
	}
}

// ビール検索の結果に醸造所が含まれることを検証
func TestPostgresBeerRepo_SearchByName_IncludesBrewery(t *testing.T) {
	exec, mock := newMockExecutor(t)
	mock.ExpectQuery("JOIN brewery br ON br.id = b.brewery_id WHERE b.name ILIKE").
		WithArgs("%pliny%", 25).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "brewery_id", "brewery_name"}).
			AddRow("beer-1", "Pliny the Elder", "brewery-1", "Russian River"))

	results, err := NewPostgresBeerRepo(exec).SearchByName(context.Background(), "pliny", 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Brewery.Name != "Russian River" {
		t.Errorf("Brewery.Name = %q, want %q", results[0].Brewery.Name, "Russian River")
	}
}
