package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hitoshi/mugclub/internal/database"
	"github.com/hitoshi/mugclub/internal/model"
)

// expandedDrinkColumns はdrink/beer/breweryを結合した飲酒記録のSELECT句。
const expandedDrinkColumns = `
	d.id, d.person_id, d.drank_on, d.rating, d.comment, d.created_at, d.updated_at,
	b.id, b.name, br.id, br.name`

const expandedDrinkJoin = `
	FROM drink d
	JOIN beer b ON b.id = d.beer_id
	JOIN brewery br ON br.id = b.brewery_id`

// PostgresDrinkRepo はPostgreSQLを使用した飲酒記録リポジトリ。
type PostgresDrinkRepo struct {
	exec *database.Executor
}

// NewPostgresDrinkRepo はPostgresDrinkRepoを生成する。
func NewPostgresDrinkRepo(exec *database.Executor) *PostgresDrinkRepo {
	return &PostgresDrinkRepo{exec: exec}
}

// Create は飲酒記録を挿入する。
func (r *PostgresDrinkRepo) Create(ctx context.Context, drink *model.Drink) error {
	err := r.exec.Run(ctx, "CreateDrink", func(ctx context.Context, q database.Querier) error {
		_, err := q.ExecContext(ctx,
			`INSERT INTO drink (id, person_id, drank_on, beer_id, rating, comment, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			drink.ID, drink.PersonID, drink.DrankOn.Format(model.DateLayout), drink.BeerID,
			drink.Rating, drink.Comment, drink.CreatedAt, drink.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create drink: %w", err)
	}
	return nil
}

// FindExpandedByID はBeer/Breweryを結合した飲酒記録を取得する。見つからない場合はnilを返す。
func (r *PostgresDrinkRepo) FindExpandedByID(ctx context.Context, id string) (*model.ExpandedDrink, error) {
	var drink *model.ExpandedDrink
	err := r.exec.Run(ctx, "GetExpandedDrink", func(ctx context.Context, q database.Querier) error {
		row := q.QueryRowContext(ctx,
			`SELECT`+expandedDrinkColumns+expandedDrinkJoin+`
			 WHERE d.id = $1`,
			id,
		)
		d, err := scanExpandedDrink(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		drink = d
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find drink by ID: %w", err)
	}

	return drink, nil
}

// ListExpandedByPerson はPersonの飲酒記録をdrank_on降順で返す。
func (r *PostgresDrinkRepo) ListExpandedByPerson(ctx context.Context, personID string) ([]model.ExpandedDrink, error) {
	drinks := []model.ExpandedDrink{}
	err := r.exec.Run(ctx, "ListDrinks", func(ctx context.Context, q database.Querier) error {
		rows, err := q.QueryContext(ctx,
			`SELECT`+expandedDrinkColumns+expandedDrinkJoin+`
			 WHERE d.person_id = $1
			 ORDER BY d.drank_on DESC, d.created_at DESC`,
			personID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			d, err := scanExpandedDrink(rows)
			if err != nil {
				return err
			}
			drinks = append(drinks, *d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list drinks: %w", err)
	}

	return drinks, nil
}

// DeleteByIDAndPerson はPerson所有の飲酒記録を削除する。
// 主キー指定のため削除件数は0か1になる。
func (r *PostgresDrinkRepo) DeleteByIDAndPerson(ctx context.Context, id, personID string) (bool, error) {
	var deleted int64
	err := r.exec.Run(ctx, "DeleteDrink", func(ctx context.Context, q database.Querier) error {
		result, err := q.ExecContext(ctx,
			`DELETE FROM drink WHERE id = $1 AND person_id = $2`,
			id, personID,
		)
		if err != nil {
			return err
		}
		deleted, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete drink: %w", err)
	}
	if deleted > 1 {
		return false, fmt.Errorf("deleted %d drinks for id %s", deleted, id)
	}

	return deleted == 1, nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpandedDrink(row rowScanner) (*model.ExpandedDrink, error) {
	var (
		d       model.ExpandedDrink
		drankOn time.Time
		comment sql.NullString
	)
	err := row.Scan(
		&d.ID, &d.PersonID, &drankOn, &d.Rating, &comment, &d.CreatedAt, &d.UpdatedAt,
		&d.Beer.ID, &d.Beer.Name, &d.Beer.Brewery.ID, &d.Beer.Brewery.Name,
	)
	if err != nil {
		return nil, err
	}
	d.DrankOn = drankOn.Format(model.DateLayout)
	if comment.Valid {
		c := comment.String
		d.Comment = &c
	}
	return &d, nil
}

// compile-time interface check
var _ DrinkRepository = (*PostgresDrinkRepo)(nil)
