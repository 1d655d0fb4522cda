package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/mugclub/internal/middleware"
	"github.com/hitoshi/mugclub/internal/model"
)

// SearchServiceInterface は検索ハンドラーが必要とするサービスインターフェース。
type SearchServiceInterface interface {
	SearchBeers(ctx context.Context, query string) ([]model.BeerSearchResult, error)
	SearchBreweries(ctx context.Context, query string) ([]model.BrewerySearchResult, error)
}

// SearchHandler はビール・醸造所検索のHTTPハンドラー。
type SearchHandler struct {
	service SearchServiceInterface
}

// NewSearchHandler はSearchHandlerを生成する。
func NewSearchHandler(service SearchServiceInterface) *SearchHandler {
	return &SearchHandler{service: service}
}

type beerSearchResponse struct {
	Beers []model.BeerSearchResult `json:"beers"`
}

type brewerySearchResponse struct {
	Breweries []model.BrewerySearchResult `json:"breweries"`
}

// SearchBeers はビールを名前の部分一致で検索する。
// GET /search/beer?query=
func (h *SearchHandler) SearchBeers(w http.ResponseWriter, r *http.Request) {
	beers, err := h.service.SearchBeers(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if beers == nil {
		beers = []model.BeerSearchResult{}
	}

	middleware.WriteSuccess(w, beerSearchResponse{Beers: beers})
}

// SearchBreweries は醸造所を名前の部分一致で検索する。
// GET /search/brewery?query=
func (h *SearchHandler) SearchBreweries(w http.ResponseWriter, r *http.Request) {
	breweries, err := h.service.SearchBreweries(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if breweries == nil {
		breweries = []model.BrewerySearchResult{}
	}

	middleware.WriteSuccess(w, brewerySearchResponse{Breweries: breweries})
}
