package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/mugclub/internal/drink"
	"github.com/hitoshi/mugclub/internal/middleware"
	"github.com/hitoshi/mugclub/internal/model"
)

// DrinkServiceInterface は飲酒記録ハンドラーが必要とするサービスインターフェース。
type DrinkServiceInterface interface {
	Record(ctx context.Context, personID string, in drink.RecordInput) (*model.ExpandedDrink, error)
	List(ctx context.Context, personID string) ([]model.ExpandedDrink, error)
	Delete(ctx context.Context, personID, drinkID string) error
}

// DrinkHandler は飲酒記録のHTTPハンドラー。
type DrinkHandler struct {
	service DrinkServiceInterface
}

// NewDrinkHandler はDrinkHandlerを生成する。
func NewDrinkHandler(service DrinkServiceInterface) *DrinkHandler {
	return &DrinkHandler{service: service}
}

// drinkListResponse は飲酒記録一覧のdata。
type drinkListResponse struct {
	Drinks []model.ExpandedDrink `json:"drinks"`
}

// ListDrinks は呼び出し元の飲酒記録を新しい順に返す。
// GET /drink
func (h *DrinkHandler) ListDrinks(w http.ResponseWriter, r *http.Request) {
	person := requirePerson(w, r)
	if person == nil {
		return
	}

	drinks, err := h.service.List(r.Context(), person.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if drinks == nil {
		drinks = []model.ExpandedDrink{}
	}

	middleware.WriteSuccess(w, drinkListResponse{Drinks: drinks})
}

// RecordDrink は飲酒記録を作成する。
// POST /drink
func (h *DrinkHandler) RecordDrink(w http.ResponseWriter, r *http.Request) {
	person := requirePerson(w, r)
	if person == nil {
		return
	}
	if !parseForm(w, r) {
		return
	}

	expanded, err := h.service.Record(r.Context(), person.ID, drink.RecordInput{
		DrankOn: r.PostForm.Get("drank_on"),
		Beer:    r.PostForm.Get("beer"),
		Brewery: r.PostForm.Get("brewery"),
		Rating:  r.PostForm.Get("rating"),
		Comment: r.PostForm.Get("comment"),
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteSuccess(w, expanded)
}

// DeleteDrink は呼び出し元の飲酒記録を削除する。
// DELETE /drink/{id}
func (h *DrinkHandler) DeleteDrink(w http.ResponseWriter, r *http.Request) {
	person := requirePerson(w, r)
	if person == nil {
		return
	}

	if err := h.service.Delete(r.Context(), person.ID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteSuccess(w, nil)
}
