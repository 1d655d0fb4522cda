package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/mugclub/internal/database"
	"github.com/hitoshi/mugclub/internal/model"
)

// PostgresIdentityRepo はPostgreSQLを使用したidentityリポジトリ。
type PostgresIdentityRepo struct {
	exec *database.Executor
}

// NewPostgresIdentityRepo はPostgresIdentityRepoを生成する。
func NewPostgresIdentityRepo(exec *database.Executor) *PostgresIdentityRepo {
	return &PostgresIdentityRepo{exec: exec}
}

// FindByIdentifier はidentifierでidentityを検索する。
// 見つからない場合はnilを返す。
func (r *PostgresIdentityRepo) FindByIdentifier(ctx context.Context, identifier string) (*model.Identity, error) {
	var identity *model.Identity
	err := r.exec.Run(ctx, "LookupIdentity", func(ctx context.Context, q database.Querier) error {
		i := &model.Identity{}
		err := q.QueryRowContext(ctx,
			`SELECT identifier, person_id, created_at, updated_at
			 FROM identity
			 WHERE identifier = $1`,
			identifier,
		).Scan(&i.Identifier, &i.PersonID, &i.CreatedAt, &i.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		identity = i
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	return identity, nil
}

// compile-time interface check
var _ IdentityRepository = (*PostgresIdentityRepo)(nil)
