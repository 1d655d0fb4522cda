package auth

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hitoshi/mugclub/internal/model"
)

// phonePattern は受け付ける電話番号の形式。区切り文字は任意。
var phonePattern = regexp.MustCompile(`^([0-9][0-9][0-9])\W*([0-9][0-9]{2})\W*([0-9]{0,5})$`)

const (
	minCountryCode = 1
	maxCountryCode = 9999
)

// PhoneNumber は検証済みの国番号と電話番号。
type PhoneNumber struct {
	CountryCode int
	Number      string // 入力されたままの電話番号
}

// ValidatePhone は国番号と電話番号を検証する。
// 不正な場合は*model.APIErrorを返す。
func ValidatePhone(countryCode, phoneNumber string) (PhoneNumber, error) {
	cc, err := strconv.Atoi(strings.TrimSpace(countryCode))
	if err != nil || cc < minCountryCode || cc > maxCountryCode {
		return PhoneNumber{}, model.NewInvalidCountryCodeError()
	}

	number := strings.TrimSpace(phoneNumber)
	if !phonePattern.MatchString(number) {
		return PhoneNumber{}, model.NewInvalidPhoneNumberError()
	}

	return PhoneNumber{CountryCode: cc, Number: number}, nil
}

// Identifier はIdentityのキーを返す。
// 区切り文字の違いで別のIdentityにならないよう、数字以外を取り除く。
// 入力された電話番号をそのまま連結していた旧形式とは意図的に異なる。
func (p PhoneNumber) Identifier() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(p.CountryCode))
	for _, r := range p.Number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
