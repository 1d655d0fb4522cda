package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/mugclub/internal/database"
	"github.com/hitoshi/mugclub/internal/model"
)

// PostgresSessionRepo はPostgreSQLを使用したセッションリポジトリ。
type PostgresSessionRepo struct {
	exec *database.Executor
}

// NewPostgresSessionRepo はPostgresSessionRepoを生成する。
func NewPostgresSessionRepo(exec *database.Executor) *PostgresSessionRepo {
	return &PostgresSessionRepo{exec: exec}
}

// Create はセッションを作成する。
func (r *PostgresSessionRepo) Create(ctx context.Context, session *model.Session) error {
	err := r.exec.Run(ctx, "StartSession", func(ctx context.Context, q database.Querier) error {
		_, err := q.ExecContext(ctx,
			`INSERT INTO login_session (id, person_id, created_at, updated_at, expires_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			session.ID, session.PersonID, session.CreatedAt, session.UpdatedAt, session.ExpiresAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
func (r *PostgresSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	var session *model.Session
	err := r.exec.Run(ctx, "GetSession", func(ctx context.Context, q database.Querier) error {
		s := &model.Session{}
		err := q.QueryRowContext(ctx,
			`SELECT id, person_id, created_at, updated_at, expires_at
			 FROM login_session
			 WHERE id = $1 AND expires_at > now()`,
			id,
		).Scan(&s.ID, &s.PersonID, &s.CreatedAt, &s.UpdatedAt, &s.ExpiresAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return session, nil
}

// DeleteByID は指定IDのセッションを削除する。
func (r *PostgresSessionRepo) DeleteByID(ctx context.Context, id string) error {
	err := r.exec.Run(ctx, "EndSession", func(ctx context.Context, q database.Querier) error {
		_, err := q.ExecContext(ctx, `DELETE FROM login_session WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// compile-time interface check
var _ SessionRepository = (*PostgresSessionRepo)(nil)
