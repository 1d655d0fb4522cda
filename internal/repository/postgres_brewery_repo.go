package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/mugclub/internal/database"
	"github.com/hitoshi/mugclub/internal/model"
)

// PostgresBreweryRepo はPostgreSQLを使用した醸造所リポジトリ。
type PostgresBreweryRepo struct {
	exec *database.Executor
}

// NewPostgresBreweryRepo はPostgresBreweryRepoを生成する。
func NewPostgresBreweryRepo(exec *database.Executor) *PostgresBreweryRepo {
	return &PostgresBreweryRepo{exec: exec}
}

// FindByName は名前で醸造所を検索する。見つからない場合はnilを返す。
func (r *PostgresBreweryRepo) FindByName(ctx context.Context, name string) (*model.Brewery, error) {
	var brewery *model.Brewery
	err := r.exec.Run(ctx, "GetBreweryByName", func(ctx context.Context, q database.Querier) error {
		b := &model.Brewery{}
		err := q.QueryRowContext(ctx,
			`SELECT id, name, created_at, updated_at FROM brewery WHERE name = $1`,
			name,
		).Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		brewery = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find brewery by name: %w", err)
	}

	return brewery, nil
}

// CreateOrGet は醸造所を挿入する。
// 同名の醸造所が並行して作成されていた場合は一意制約に任せ、既存の行を返す。
func (r *PostgresBreweryRepo) CreateOrGet(ctx context.Context, brewery *model.Brewery) (*model.Brewery, error) {
	result := &model.Brewery{}
	err := r.exec.Run(ctx, "CreateBrewery", func(ctx context.Context, q database.Querier) error {
		// DO UPDATEにすることでRETURNINGが既存行も返す
		return q.QueryRowContext(ctx,
			`INSERT INTO brewery (id, name, created_at, updated_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id, name, created_at, updated_at`,
			brewery.ID, brewery.Name, brewery.CreatedAt, brewery.UpdatedAt,
		).Scan(&result.ID, &result.Name, &result.CreatedAt, &result.UpdatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create brewery: %w", err)
	}

	return result, nil
}

// SearchByName は名前の部分一致で醸造所を検索する。
func (r *PostgresBreweryRepo) SearchByName(ctx context.Context, query string, limit int) ([]model.BrewerySearchResult, error) {
	results := []model.BrewerySearchResult{}
	err := r.exec.Run(ctx, "SearchBreweryByName", func(ctx context.Context, q database.Querier) error {
		rows, err := q.QueryContext(ctx,
			`SELECT id, name
			 FROM brewery
			 WHERE name ILIKE $1
			 ORDER BY name
			 LIMIT $2`,
			containsPattern(query), limit,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var b model.BrewerySearchResult
			if err := rows.Scan(&b.ID, &b.Name); err != nil {
				return err
			}
			results = append(results, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search breweries: %w", err)
	}

	return results, nil
}

// compile-time interface check
var _ BreweryRepository = (*PostgresBreweryRepo)(nil)
