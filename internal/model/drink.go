package model

import "time"

// DateLayout はdrank_onの入出力フォーマット。
const DateLayout = "2006-01-02"

// MinRating と MaxRating は評価値の範囲。
const (
	MinRating = 0
	MaxRating = 5
)

// Brewery は醸造所を表す。名前で一意。
type Brewery struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Beer はビールを表す。(name, brewery_id) で一意。
type Beer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BreweryID string    `json:"brewery_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Drink は1回の飲酒記録を表す。
type Drink struct {
	ID        string
	PersonID  string
	DrankOn   time.Time
	BeerID    string
	Rating    int
	Comment   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BrewerySummary はレスポンスに埋め込む醸造所の要約。
type BrewerySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BeerSummary はレスポンスに埋め込むビールの要約。醸造所を含む。
type BeerSummary struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Brewery BrewerySummary `json:"brewery"`
}

// ExpandedDrink はDrinkにBeerとBreweryを結合した表示用レコード。
type ExpandedDrink struct {
	ID        string      `json:"id"`
	PersonID  string      `json:"person_id"`
	DrankOn   string      `json:"drank_on"`
	Rating    int         `json:"rating"`
	Comment   *string     `json:"comment,omitempty"`
	Beer      BeerSummary `json:"beer"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// BeerSearchResult はビール検索の1件分の結果。
type BeerSearchResult = BeerSummary

// BrewerySearchResult は醸造所検索の1件分の結果。
type BrewerySearchResult = BrewerySummary
