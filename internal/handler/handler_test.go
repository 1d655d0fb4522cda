package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/mugclub/internal/auth"
	"github.com/hitoshi/mugclub/internal/catalog"
	"github.com/hitoshi/mugclub/internal/drink"
	"github.com/hitoshi/mugclub/internal/middleware"
	"github.com/hitoshi/mugclub/internal/model"
)

// --- モック定義 ---

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	beginFn    func(ctx context.Context, countryCode, phoneNumber string) (string, error)
	completeFn func(ctx context.Context, countryCode, phoneNumber, code string) (*model.Session, error)
	logoutFn   func(ctx context.Context, token string) error
	resolveFn  func(ctx context.Context, token string) (*model.Person, error)
}

func (m *mockAuthService) BeginVerification(ctx context.Context, countryCode, phoneNumber string) (string, error) {
	if m.beginFn != nil {
		return m.beginFn(ctx, countryCode, phoneNumber)
	}
	return "", nil
}

func (m *mockAuthService) CompleteVerification(ctx context.Context, countryCode, phoneNumber, code string) (*model.Session, error) {
	if m.completeFn != nil {
		return m.completeFn(ctx, countryCode, phoneNumber, code)
	}
	return nil, nil
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, token)
	}
	return nil
}

func (m *mockAuthService) ResolvePerson(ctx context.Context, token string) (*model.Person, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, token)
	}
	return nil, auth.ErrSessionNotFound
}

// mockDrinkService はDrinkServiceInterfaceのモック実装。
type mockDrinkService struct {
	recordFn func(ctx context.Context, personID string, in drink.RecordInput) (*model.ExpandedDrink, error)
	listFn   func(ctx context.Context, personID string) ([]model.ExpandedDrink, error)
	deleteFn func(ctx context.Context, personID, drinkID string) error
}

func (m *mockDrinkService) Record(ctx context.Context, personID string, in drink.RecordInput) (*model.ExpandedDrink, error) {
	if m.recordFn != nil {
		return m.recordFn(ctx, personID, in)
	}
	return nil, nil
}

func (m *mockDrinkService) List(ctx context.Context, personID string) ([]model.ExpandedDrink, error) {
	if m.listFn != nil {
		return m.listFn(ctx, personID)
	}
	return nil, nil
}

func (m *mockDrinkService) Delete(ctx context.Context, personID, drinkID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, personID, drinkID)
	}
	return nil
}

// mockSearchService はSearchServiceInterfaceのモック実装。
type mockSearchService struct {
	searchBeersFn     func(ctx context.Context, query string) ([]model.BeerSearchResult, error)
	searchBreweriesFn func(ctx context.Context, query string) ([]model.BrewerySearchResult, error)
}

func (m *mockSearchService) SearchBeers(ctx context.Context, query string) ([]model.BeerSearchResult, error) {
	if m.searchBeersFn != nil {
		return m.searchBeersFn(ctx, query)
	}
	return nil, nil
}

func (m *mockSearchService) SearchBreweries(ctx context.Context, query string) ([]model.BrewerySearchResult, error) {
	if m.searchBreweriesFn != nil {
		return m.searchBreweriesFn(ctx, query)
	}
	return nil, nil
}

// compile-time interface check
var (
	_ AuthServiceInterface      = (*mockAuthService)(nil)
	_ middleware.PersonResolver = (*mockAuthService)(nil)
	_ DrinkServiceInterface     = (*mockDrinkService)(nil)
	_ SearchServiceInterface    = (*mockSearchService)(nil)
	_ AuthServiceInterface      = (*auth.Service)(nil)
	_ DrinkServiceInterface     = (*drink.Service)(nil)
	_ SearchServiceInterface    = (*catalog.Service)(nil)
)

// --- テストヘルパー ---

// withPerson はテスト用にリクエストコンテキストに認証済みPersonを注入するヘルパー。
func withPerson(r *http.Request, personID string) *http.Request {
	ctx := middleware.ContextWithPerson(r.Context(), &model.Person{ID: personID})
	return r.WithContext(ctx)
}

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// newFormRequest はURLエンコードされたフォームを持つリクエストを生成する。
func newFormRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// rawEnvelope はdataを遅延デコードするためのエンベロープ。
type rawEnvelope struct {
	Status   middleware.ResponseStatus `json:"status"`
	Data     json.RawMessage           `json:"data"`
	Messages []string                  `json:"messages"`
}

// decodeEnvelope はレスポンスボディをエンベロープとしてパースするヘルパー。
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) rawEnvelope {
	t.Helper()
	var env rawEnvelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return env
}

// decodeData はエンベロープのdataを指定の型にパースするヘルパー。
func decodeData(t *testing.T, env rawEnvelope, v any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("failed to decode data %s: %v", env.Data, err)
	}
}

// assertEnvelope はステータスコードとエンベロープのstatusを検証するヘルパー。
func assertEnvelope(t *testing.T, w *httptest.ResponseRecorder, wantCode int, wantStatus middleware.ResponseStatus) rawEnvelope {
	t.Helper()
	if w.Code != wantCode {
		t.Errorf("status code = %d, want %d (body: %s)", w.Code, wantCode, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Status != wantStatus {
		t.Errorf("envelope status = %q, want %q", env.Status, wantStatus)
	}
	return env
}
