package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrorKind はExecutorが返すエラーの分類。
type ErrorKind int

const (
	// KindPool はコネクションプールから接続を借りられなかったことを示す。
	KindPool ErrorKind = iota + 1
	// KindQuery はクエリ・ステートメントの実行に失敗したことを示す。
	KindQuery
)

// String はErrorKindの文字列表現を返す。
func (k ErrorKind) String() string {
	switch k {
	case KindPool:
		return "pool"
	case KindQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Error はExecutorの実行エラー。Opは失敗したコマンド名。
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	return fmt.Sprintf("%s %s error: %v", e.Op, e.Kind, e.Err)
}

// Unwrap は元のエラーを返す。
func (e *Error) Unwrap() error {
	return e.Err
}

// IsPoolError はerrがコネクションプール起因のエラーかどうかを返す。
func IsPoolError(err error) bool {
	var dbErr *Error
	return errors.As(err, &dbErr) && dbErr.Kind == KindPool
}

// IsQueryError はerrがクエリ実行起因のエラーかどうかを返す。
func IsQueryError(err error) bool {
	var dbErr *Error
	return errors.As(err, &dbErr) && dbErr.Kind == KindQuery
}

// uniqueViolation はPostgreSQLの一意制約違反のSQLSTATE。
const uniqueViolation = "23505"

// IsUniqueViolation はerrが一意制約違反かどうかを返す。
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Querier はコマンド実行に必要なクエリ操作のインターフェース。
// *sql.Conn と *sql.Tx の両方が満たす。
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Pool はExecutorが接続を借りるコネクションプールのインターフェース。
// *sql.DB が満たす。
type Pool interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// Executor はコネクションプールから接続を1本借り、その接続上でコマンドを実行する。
// 接続はコマンド完了時に必ずプールへ返却され、リクエストをまたいで保持されることはない。
type Executor struct {
	pool Pool
}

// NewExecutor はExecutorを生成する。
func NewExecutor(pool Pool) *Executor {
	return &Executor{pool: pool}
}

// Run は借りた接続上でfnを実行する。
// 接続取得の失敗はKindPool、fnの失敗はKindQueryの*Errorとして返す。
func (e *Executor) Run(ctx context.Context, op string, fn func(ctx context.Context, q Querier) error) error {
	conn, err := e.pool.Conn(ctx)
	if err != nil {
		return &Error{Kind: KindPool, Op: op, Err: err}
	}
	defer conn.Close()

	if err := fn(ctx, conn); err != nil {
		return &Error{Kind: KindQuery, Op: op, Err: err}
	}
	return nil
}

// RunTx は借りた接続上でトランザクションを開始し、fnを実行する。
// fnがエラーを返した場合はロールバックする。
func (e *Executor) RunTx(ctx context.Context, op string, fn func(ctx context.Context, q Querier) error) error {
	conn, err := e.pool.Conn(ctx)
	if err != nil {
		return &Error{Kind: KindPool, Op: op, Err: err}
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return &Error{Kind: KindQuery, Op: op, Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return &Error{Kind: KindQuery, Op: op, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &Error{Kind: KindQuery, Op: op, Err: fmt.Errorf("failed to commit transaction: %w", err)}
	}
	return nil
}
