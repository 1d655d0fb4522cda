// Package authy はAuthy電話番号検証APIのクライアントを提供する。
// 使用するのはSMS検証の開始と検証コードの照合の2つのエンドポイントのみ。
package authy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL はAuthy APIのベースURL。
	DefaultBaseURL = "https://api.authy.com"

	startPath = "/protected/json/phones/verification/start"
	checkPath = "/protected/json/phones/verification/check"

	apiKeyHeader = "X-Authy-API-Key"
)

// Via は検証コードの送信手段。
type Via string

const (
	ViaSMS  Via = "sms"
	ViaCall Via = "call"
)

var (
	// ErrTransport は通信・レスポンス読み取り・JSONパースの失敗を示す。
	ErrTransport = errors.New("authy transport error")
	// ErrInvalidCode は検証コードが一致しなかったことを示す。
	ErrInvalidCode = errors.New("invalid verification code")
)

// APIError はAuthy APIがエラーレスポンスを返したことを表す。
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("authy api error: status=%d code=%s message=%s", e.StatusCode, e.ErrorCode, e.Message)
}

// StartResult は検証開始APIのレスポンス。
type StartResult struct {
	Message         string `json:"message"`
	Carrier         string `json:"carrier"`
	IsCellphone     bool   `json:"is_cellphone"`
	SecondsToExpire int    `json:"seconds_to_expire"`
	UUID            string `json:"uuid"`
}

// CheckResult は検証コード照合APIのレスポンス。
type CheckResult struct {
	Message string `json:"message"`
}

// response はAuthy APIのレスポンスに共通するフィールド。
type response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

// Client はAuthy APIのクライアント。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	apiKey     string
}

// NewClient はClientを生成する。baseURLが空の場合はDefaultBaseURLを使用する。
func NewClient(httpClient *http.Client, logger *slog.Logger, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// StartVerification は指定の電話番号へ検証コードの送信を開始する。
func (c *Client) StartVerification(ctx context.Context, via Via, countryCode int, phoneNumber string, codeLength int) (*StartResult, error) {
	form := url.Values{}
	form.Set("via", string(via))
	form.Set("country_code", strconv.Itoa(countryCode))
	form.Set("phone_number", phoneNumber)
	if codeLength > 0 {
		form.Set("code_length", strconv.Itoa(codeLength))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+startPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result StartResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CheckVerification は送信済みの検証コードを照合する。
// コード不一致の場合はErrInvalidCodeを返す。
func (c *Client) CheckVerification(ctx context.Context, countryCode int, phoneNumber, code string) (*CheckResult, error) {
	q := url.Values{}
	q.Set("country_code", strconv.Itoa(countryCode))
	q.Set("phone_number", phoneNumber)
	q.Set("verification_code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+checkPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", ErrTransport, err)
	}

	var result CheckResult
	err = c.do(req, &result)
	if err == nil {
		return &result, nil
	}

	// Authyはコード不一致を401で返す。200でsuccess=falseの場合も不一致として扱う
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusOK) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCode, apiErr.Message)
	}
	return nil, err
}

// do はリクエストを送信し、成功レスポンスをoutにデコードする。
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("authy request failed",
			slog.String("path", req.URL.Path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", ErrTransport, err)
	}

	var common response
	if err := json.Unmarshal(body, &common); err != nil {
		c.logger.Error("failed to parse authy response",
			slog.String("path", req.URL.Path),
			slog.Int("http_status", resp.StatusCode),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: failed to parse response: %v", ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK || !common.Success {
		c.logger.Warn("authy returned an error",
			slog.String("path", req.URL.Path),
			slog.Int("http_status", resp.StatusCode),
			slog.String("error_code", common.ErrorCode),
			slog.String("message", common.Message),
		)
		return &APIError{
			StatusCode: resp.StatusCode,
			ErrorCode:  common.ErrorCode,
			Message:    common.Message,
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to parse response: %v", ErrTransport, err)
	}
	return nil
}
