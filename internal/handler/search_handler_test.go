package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/mugclub/internal/middleware"
	"github.com/hitoshi/mugclub/internal/model"
)

func TestSearchHandler_SearchBeers(t *testing.T) {
	svc := &mockSearchService{
		searchBeersFn: func(ctx context.Context, query string) ([]model.BeerSearchResult, error) {
			if query != "pliny" {
				t.Errorf("query = %q, want %q", query, "pliny")
			}
			return []model.BeerSearchResult{{
				ID:      "beer-1",
				Name:    "Pliny the Elder",
				Brewery: model.BrewerySummary{ID: "brewery-1", Name: "Russian River"},
			}}, nil
		},
	}
	h := NewSearchHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/search/beer?query=pliny", nil)
	w := httptest.NewRecorder()

	h.SearchBeers(w, req)

	env := assertEnvelope(t, w, http.StatusOK, middleware.StatusSuccess)
	var data beerSearchResponse
	decodeData(t, env, &data)
	if len(data.Beers) != 1 || data.Beers[0].Brewery.Name != "Russian River" {
		t.Errorf("beers = %+v", data.Beers)
	}
}

func TestSearchHandler_SearchBreweries(t *testing.T) {
	svc := &mockSearchService{
		searchBreweriesFn: func(ctx context.Context, query string) ([]model.BrewerySearchResult, error) {
			return []model.BrewerySearchResult{{ID: "brewery-1", Name: "Russian River"}}, nil
		},
	}
	h := NewSearchHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/search/brewery?query=river", nil)
	w := httptest.NewRecorder()

	h.SearchBreweries(w, req)

	env := assertEnvelope(t, w, http.StatusOK, middleware.StatusSuccess)
	var data brewerySearchResponse
	decodeData(t, env, &data)
	if len(data.Breweries) != 1 || data.Breweries[0].Name != "Russian River" {
		t.Errorf("breweries = %+v", data.Breweries)
	}
}

func TestSearchHandler_EmptyQuery(t *testing.T) {
	svc := &mockSearchService{
		searchBeersFn: func(ctx context.Context, query string) ([]model.BeerSearchResult, error) {
			return nil, model.NewEmptySearchQueryError()
		},
		searchBreweriesFn: func(ctx context.Context, query string) ([]model.BrewerySearchResult, error) {
			return nil, model.NewEmptySearchQueryError()
		},
	}
	h := NewSearchHandler(svc)

	for _, tc := range []struct {
		path    string
		handler http.HandlerFunc
	}{
		{path: "/search/beer?query=", handler: h.SearchBeers},
		{path: "/search/brewery", handler: h.SearchBreweries},
	} {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			w := httptest.NewRecorder()

			tc.handler(w, req)

			env := assertEnvelope(t, w, http.StatusBadRequest, middleware.StatusFail)
			if len(env.Messages) != 1 || env.Messages[0] != "Empty search query" {
				t.Errorf("messages = %v", env.Messages)
			}
		})
	}
}

func TestSearchHandler_NoResultsIsArray(t *testing.T) {
	h := NewSearchHandler(&mockSearchService{})

	req := httptest.NewRequest(http.MethodGet, "/search/beer?query=zzz", nil)
	w := httptest.NewRecorder()

	h.SearchBeers(w, req)

	env := assertEnvelope(t, w, http.StatusOK, middleware.StatusSuccess)
	if string(env.Data) != `{"beers":[]}` {
		t.Errorf("data = %s, want {\"beers\":[]}", env.Data)
	}
}
