package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/mugclub/internal/database"
	"github.com/hitoshi/mugclub/internal/model"
)

// errIdentityTaken はCreateWithIdentityのトランザクション内で
// identifierが既に使われていたことを示す。
var errIdentityTaken = errors.New("identity already exists")

// PostgresPersonRepo はPostgreSQLを使用したPersonリポジトリ。
type PostgresPersonRepo struct {
	exec *database.Executor
}

// NewPostgresPersonRepo はPostgresPersonRepoを生成する。
func NewPostgresPersonRepo(exec *database.Executor) *PostgresPersonRepo {
	return &PostgresPersonRepo{exec: exec}
}

// FindByID は指定IDのPersonを取得する。見つからない場合はnilを返す。
func (r *PostgresPersonRepo) FindByID(ctx context.Context, id string) (*model.Person, error) {
	var person *model.Person
	err := r.exec.Run(ctx, "GetPerson", func(ctx context.Context, q database.Querier) error {
		p := &model.Person{}
		err := q.QueryRowContext(ctx,
			`SELECT id, created_at, updated_at FROM person WHERE id = $1`,
			id,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		person = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find person by ID: %w", err)
	}

	return person, nil
}

// CreateWithIdentity はPersonとIdentityを同一トランザクションで作成する。
// identifierの一意制約に衝突した場合はトランザクションを取り消し、先に作成されたIdentityを返す。
func (r *PostgresPersonRepo) CreateWithIdentity(ctx context.Context, person *model.Person, identity *model.Identity) (*model.Identity, error) {
	err := r.exec.RunTx(ctx, "CreatePersonWithIdentity", func(ctx context.Context, q database.Querier) error {
		// Personを作成
		_, err := q.ExecContext(ctx,
			`INSERT INTO person (id, created_at, updated_at) VALUES ($1, $2, $3)`,
			person.ID, person.CreatedAt, person.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}

		// Identityを作成
		result, err := q.ExecContext(ctx,
			`INSERT INTO identity (identifier, person_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (identifier) DO NOTHING`,
			identity.Identifier, identity.PersonID, identity.CreatedAt, identity.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert identity: %w", err)
		}
		inserted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if inserted == 0 {
			return errIdentityTaken
		}
		return nil
	})

	if errors.Is(err, errIdentityTaken) {
		existing, findErr := NewPostgresIdentityRepo(r.exec).FindByIdentifier(ctx, identity.Identifier)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, fmt.Errorf("identity %s vanished after conflict", identity.Identifier)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create person with identity: %w", err)
	}

	return identity, nil
}

// compile-time interface check
var _ PersonRepository = (*PostgresPersonRepo)(nil)
