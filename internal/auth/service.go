// Package auth はSMS検証による認証フローとセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/mugclub/internal/authy"
	"github.com/hitoshi/mugclub/internal/metrics"
	"github.com/hitoshi/mugclub/internal/model"
	"github.com/hitoshi/mugclub/internal/repository"
)

// ErrSessionNotFound はセッションが存在しない、期限切れ、またはPersonが削除済みであることを示す。
var ErrSessionNotFound = errors.New("session not found or expired")

// verificationCodeLength はSMSで送信する検証コードの桁数。
const verificationCodeLength = 6

// VerificationProvider はSMS検証プロバイダーのインターフェース。
type VerificationProvider interface {
	// StartVerification は検証コードの送信を開始する。
	StartVerification(ctx context.Context, via authy.Via, countryCode int, phoneNumber string, codeLength int) (*authy.StartResult, error)
	// CheckVerification は検証コードを照合する。
	CheckVerification(ctx context.Context, countryCode int, phoneNumber, code string) (*authy.CheckResult, error)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	provider    VerificationProvider
	personRepo  repository.PersonRepository
	identRepo   repository.IdentityRepository
	sessionRepo repository.SessionRepository
	metrics     metrics.MetricsCollector
	config      ServiceConfig
	now         func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	provider VerificationProvider,
	personRepo repository.PersonRepository,
	identRepo repository.IdentityRepository,
	sessionRepo repository.SessionRepository,
	collector metrics.MetricsCollector,
	config ServiceConfig,
) *Service {
	return &Service{
		provider:    provider,
		personRepo:  personRepo,
		identRepo:   identRepo,
		sessionRepo: sessionRepo,
		metrics:     collector,
		config:      config,
		now:         time.Now,
	}
}

// BeginVerification は電話番号を検証し、SMSで検証コードを送信する。
// 成功時はプロバイダーのメッセージを返す。
func (s *Service) BeginVerification(ctx context.Context, countryCode, phoneNumber string) (string, error) {
	phone, err := ValidatePhone(countryCode, phoneNumber)
	if err != nil {
		slog.Info("received invalid phone number",
			slog.String("country_code", countryCode),
		)
		return "", err
	}

	result, err := s.provider.StartVerification(ctx, authy.ViaSMS, phone.CountryCode, phone.Number, verificationCodeLength)
	if err != nil {
		slog.Error("failed to start phone number verification",
			slog.Int("country_code", phone.CountryCode),
			slog.String("error", err.Error()),
		)
		s.metrics.RecordVerificationStarted(metrics.OutcomeError)
		return "", model.NewVerificationNotStartedError()
	}

	s.metrics.RecordVerificationStarted(metrics.OutcomeSent)
	return result.Message, nil
}

// CompleteVerification は検証コードを照合し、成功した場合はセッションを発行する。
// 初回の検証ではPersonとIdentityを作成する。
func (s *Service) CompleteVerification(ctx context.Context, countryCode, phoneNumber, code string) (*model.Session, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, model.NewMissingVerificationCodeError()
	}

	phone, err := ValidatePhone(countryCode, phoneNumber)
	if err != nil {
		return nil, err
	}

	if _, err := s.provider.CheckVerification(ctx, phone.CountryCode, phone.Number, code); err != nil {
		return nil, s.classifyCheckError(phone, err)
	}
	s.metrics.RecordVerificationChecked(metrics.OutcomeVerified)

	identity, err := s.getOrCreateIdentity(ctx, phone.Identifier())
	if err != nil {
		return nil, fmt.Errorf("failed to get or create identity: %w", err)
	}

	session, err := s.createSession(ctx, identity.PersonID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("person logged in", slog.String("person_id", identity.PersonID))
	return session, nil
}

// classifyCheckError はプロバイダーの照合エラーをクライアント向けエラーに変換する。
// 通信エラーはそのままラップして返し、内部エラーとして扱わせる。
func (s *Service) classifyCheckError(phone PhoneNumber, err error) error {
	var apiErr *authy.APIError
	switch {
	case errors.Is(err, authy.ErrInvalidCode):
		slog.Info("invalid verification code submitted",
			slog.Int("country_code", phone.CountryCode),
		)
		s.metrics.RecordVerificationChecked(metrics.OutcomeInvalidCode)
		return model.NewInvalidVerificationCodeError()
	case errors.As(err, &apiErr):
		slog.Warn("unexpected provider error during verification",
			slog.Int("country_code", phone.CountryCode),
			slog.String("error", err.Error()),
		)
		s.metrics.RecordVerificationChecked(metrics.OutcomeRejected)
		return model.NewVerificationFailedError()
	default:
		s.metrics.RecordVerificationChecked(metrics.OutcomeError)
		return fmt.Errorf("failed to check verification code: %w", err)
	}
}

// getOrCreateIdentity はidentifierに対応するIdentityを返す。存在しなければPersonと共に作成する。
func (s *Service) getOrCreateIdentity(ctx context.Context, identifier string) (*model.Identity, error) {
	identity, err := s.identRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if identity != nil {
		return identity, nil
	}

	now := s.now()
	person := &model.Person{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	newIdentity := &model.Identity{
		Identifier: identifier,
		PersonID:   person.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	identity, err = s.personRepo.CreateWithIdentity(ctx, person, newIdentity)
	if err != nil {
		return nil, err
	}
	if identity.PersonID == person.ID {
		slog.Info("new person created", slog.String("person_id", person.ID))
	}
	return identity, nil
}

// ResolvePerson はセッショントークンから呼び出し元のPersonを解決する。
// セッションが存在しない・期限切れ・Personが存在しない場合はErrSessionNotFoundを返す。
func (s *Service) ResolvePerson(ctx context.Context, token string) (*model.Person, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.sessionRepo.FindByID(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil || session.IsExpired(s.now()) {
		return nil, ErrSessionNotFound
	}

	person, err := s.personRepo.FindByID(ctx, session.PersonID)
	if err != nil {
		return nil, fmt.Errorf("failed to find person: %w", err)
	}
	if person == nil {
		return nil, ErrSessionNotFound
	}

	return person, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrSessionNotFound
	}

	if err := s.sessionRepo.DeleteByID(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("session ended")
	return nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, personID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := s.now()
	session := &model.Session{
		ID:        sessionID,
		PersonID:  personID,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
