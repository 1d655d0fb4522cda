package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/mugclub/internal/database"
	"github.com/hitoshi/mugclub/internal/model"
)

// PostgresBeerRepo はPostgreSQLを使用したビールリポジトリ。
type PostgresBeerRepo struct {
	exec *database.Executor
}

// NewPostgresBeerRepo はPostgresBeerRepoを生成する。
func NewPostgresBeerRepo(exec *database.Executor) *PostgresBeerRepo {
	return &PostgresBeerRepo{exec: exec}
}

// FindByNameAndBrewery は名前と醸造所IDでビールを検索する。見つからない場合はnilを返す。
func (r *PostgresBeerRepo) FindByNameAndBrewery(ctx context.Context, name, breweryID string) (*model.Beer, error) {
	var beer *model.Beer
	err := r.exec.Run(ctx, "GetBeerByName", func(ctx context.Context, q database.Querier) error {
		b := &model.Beer{}
		err := q.QueryRowContext(ctx,
			`SELECT id, name, brewery_id, created_at, updated_at
			 FROM beer
			 WHERE name = $1 AND brewery_id = $2`,
			name, breweryID,
		).Scan(&b.ID, &b.Name, &b.BreweryID, &b.CreatedAt, &b.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		beer = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find beer by name: %w", err)
	}

	return beer, nil
}

// CreateOrGet はビールを挿入する。
// (name, brewery_id) が既に存在する場合は既存の行を返す。
func (r *PostgresBeerRepo) CreateOrGet(ctx context.Context, beer *model.Beer) (*model.Beer, error) {
	result := &model.Beer{}
	err := r.exec.Run(ctx, "CreateBeer", func(ctx context.Context, q database.Querier) error {
		return q.QueryRowContext(ctx,
			`INSERT INTO beer (id, name, brewery_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (name, brewery_id) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id, name, brewery_id, created_at, updated_at`,
			beer.ID, beer.Name, beer.BreweryID, beer.CreatedAt, beer.UpdatedAt,
		).Scan(&result.ID, &result.Name, &result.BreweryID, &result.CreatedAt, &result.UpdatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create beer: %w", err)
	}

	return result, nil
}

// SearchByName は名前の部分一致でビールを検索する。醸造所名も結果に含める。
func (r *PostgresBeerRepo) SearchByName(ctx context.Context, query string, limit int) ([]model.BeerSearchResult, error) {
	results := []model.BeerSearchResult{}
	err := r.exec.Run(ctx, "SearchBeerByName", func(ctx context.Context, q database.Querier) error {
		rows, err := q.QueryContext(ctx,
			`SELECT b.id, b.name, br.id, br.name
			 FROM beer b
			 JOIN brewery br ON br.id = b.brewery_id
			 WHERE b.name ILIKE $1
			 ORDER BY b.name, br.name
			 LIMIT $2`,
			containsPattern(query), limit,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var b model.BeerSearchResult
			if err := rows.Scan(&b.ID, &b.Name, &b.Brewery.ID, &b.Brewery.Name); err != nil {
				return err
			}
			results = append(results, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search beers: %w", err)
	}

	return results, nil
}

// compile-time interface check
var _ BeerRepository = (*PostgresBeerRepo)(nil)
