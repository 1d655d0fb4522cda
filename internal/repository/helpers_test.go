package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/hitoshi/mugclub/internal/database"
)

// newMockExecutor はsqlmockを背後に持つExecutorを返す。
func newMockExecutor(t *testing.T) (*database.Executor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return database.NewExecutor(db), mock
}
