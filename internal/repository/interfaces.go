// Package repository はデータ永続化のインターフェースを定義する。
// 各メソッドはdatabase.Executorを通じて実行される1つのコマンドに対応する。
package repository

import (
	"context"

	"github.com/hitoshi/mugclub/internal/model"
)

// PersonRepository はPersonデータの永続化インターフェース。
type PersonRepository interface {
	// FindByID は指定IDのPersonを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Person, error)

	// CreateWithIdentity はPersonとIdentityを同一トランザクションで作成する。
	// 同じidentifierのIdentityが並行して作成済みだった場合は作成を取り消し、
	// 既存のIdentityを返す。
	CreateWithIdentity(ctx context.Context, person *model.Person, identity *model.Identity) (*model.Identity, error)
}

// IdentityRepository は電話番号とPersonの紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByIdentifier はidentifierでIdentityを検索する。見つからない場合はnilを返す。
	FindByIdentifier(ctx context.Context, identifier string) (*model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// BreweryRepository は醸造所データの永続化インターフェース。
type BreweryRepository interface {
	// FindByName は名前で醸造所を検索する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.Brewery, error)
	// CreateOrGet は醸造所を挿入する。同名の行が既に存在する場合は既存の行を返す。
	CreateOrGet(ctx context.Context, brewery *model.Brewery) (*model.Brewery, error)
	// SearchByName は名前の部分一致（大文字小文字を区別しない）で醸造所を検索する。
	SearchByName(ctx context.Context, query string, limit int) ([]model.BrewerySearchResult, error)
}

// BeerRepository はビールデータの永続化インターフェース。
type BeerRepository interface {
	// FindByNameAndBrewery は名前と醸造所IDでビールを検索する。見つからない場合はnilを返す。
	FindByNameAndBrewery(ctx context.Context, name, breweryID string) (*model.Beer, error)
	// CreateOrGet はビールを挿入する。(name, brewery_id) が既に存在する場合は既存の行を返す。
	CreateOrGet(ctx context.Context, beer *model.Beer) (*model.Beer, error)
	// SearchByName は名前の部分一致（大文字小文字を区別しない）でビールを検索する。
	SearchByName(ctx context.Context, query string, limit int) ([]model.BeerSearchResult, error)
}

// DrinkRepository は飲酒記録の永続化インターフェース。
type DrinkRepository interface {
	// Create は飲酒記録を挿入する。
	Create(ctx context.Context, drink *model.Drink) error
	// FindExpandedByID はBeer/Breweryを結合した飲酒記録を取得する。見つからない場合はnilを返す。
	FindExpandedByID(ctx context.Context, id string) (*model.ExpandedDrink, error)
	// ListExpandedByPerson はPersonの飲酒記録をdrank_on降順で返す。
	ListExpandedByPerson(ctx context.Context, personID string) ([]model.ExpandedDrink, error)
	// DeleteByIDAndPerson はPerson所有の飲酒記録を削除する。
	// 該当行がなければfalseを返す（他人の記録も該当なしとして扱う）。
	DeleteByIDAndPerson(ctx context.Context, id, personID string) (bool, error)
}
