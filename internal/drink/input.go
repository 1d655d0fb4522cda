package drink

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hitoshi/mugclub/internal/model"
)

const (
	maxNameLength    = 200
	maxCommentLength = 2000
)

// RecordInput はフォームから受け取った飲酒記録の入力値。
type RecordInput struct {
	DrankOn string
	Beer    string
	Brewery string
	Rating  string
	Comment string
}

// validInput は検証済みの入力値。
type validInput struct {
	drankOn time.Time
	beer    string
	brewery string
	rating  int
	comment string
}

// validate は入力値を検証する。不正な場合は*model.APIErrorを返す。
func (in RecordInput) validate() (validInput, error) {
	drankOn, err := time.Parse(model.DateLayout, strings.TrimSpace(in.DrankOn))
	if err != nil {
		return validInput{}, model.NewInvalidDrinkError("drank_on must be a date in YYYY-MM-DD format")
	}

	beer := strings.TrimSpace(in.Beer)
	if beer == "" {
		return validInput{}, model.NewInvalidDrinkError("beer is required")
	}
	if utf8.RuneCountInString(beer) > maxNameLength {
		return validInput{}, model.NewInvalidDrinkError("beer name is too long")
	}

	brewery := strings.TrimSpace(in.Brewery)
	if brewery == "" {
		return validInput{}, model.NewInvalidDrinkError("brewery is required")
	}
	if utf8.RuneCountInString(brewery) > maxNameLength {
		return validInput{}, model.NewInvalidDrinkError("brewery name is too long")
	}

	rating, err := strconv.Atoi(strings.TrimSpace(in.Rating))
	if err != nil || rating < model.MinRating || rating > model.MaxRating {
		return validInput{}, model.NewInvalidDrinkError("rating must be an integer from 0 to 5")
	}

	if utf8.RuneCountInString(in.Comment) > maxCommentLength {
		return validInput{}, model.NewInvalidDrinkError("comment is too long")
	}

	return validInput{
		drankOn: drankOn,
		beer:    beer,
		brewery: brewery,
		rating:  rating,
		comment: in.Comment,
	}, nil
}
