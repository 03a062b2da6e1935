// Package account handles sign-up for paid plans.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/freightbench/internal/kvstore"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const keyPrefix = "account:"

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// Plan is a subscription tier.
type Plan struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	MonthlyPrice float64 `json:"monthlyPrice"`

	// MonthlySearches is the search allowance; -1 means unlimited.
	MonthlySearches int `json:"monthlySearches"`
}

// Unlimited marks a plan without a search allowance.
const Unlimited = -1

// Plans lists the available tiers, cheapest first.
var Plans = []Plan{
	{ID: "basic", Name: "Basic", MonthlyPrice: 9.99, MonthlySearches: 50},
	{ID: "pro", Name: "Pro", MonthlyPrice: 19.99, MonthlySearches: 250},
	{ID: "enterprise", Name: "Enterprise", MonthlyPrice: 49.99, MonthlySearches: Unlimited},
}

// DefaultPlan is used when a sign-up names no plan.
const DefaultPlan = "basic"

// PlanByID looks up a plan.
func PlanByID(id string) (Plan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// Sentinel errors.
var (
	ErrEmailTaken = errors.New("an account with this email already exists")
	ErrNotFound   = errors.New("account not found")

	// ErrInvalidCredentials is returned by Authenticate for an unknown
	// email or a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports an unusable sign-up field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SignUpRequest is the sign-up form.
type SignUpRequest struct {
	Email    string
	Password string
	Plan     string
}

// Account is a registered user. The password hash never leaves the package.
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Plan      Plan      `json:"plan"`
	CreatedAt time.Time `json:"createdAt"`
}

// SearchesRemaining is the plan allowance for the current period.
func (a *Account) SearchesRemaining() int {
	return a.Plan.MonthlySearches
}

type record struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"passwordHash"`
	Plan         string    `json:"plan"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Service stores accounts in a key-value store.
type Service struct {
	store  kvstore.Store
	logger *otelzap.Logger
	cost   int
	now    func() time.Time
}

// NewService creates an account service.
func NewService(store kvstore.Store, logger *otelzap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
}

// WithHashCost overrides the bcrypt cost.
func (s *Service) WithHashCost(cost int) *Service {
	s.cost = cost
	return s
}

// SignUp validates the form and creates an account. Emails are unique,
// compared case-insensitively.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*Account, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < MinPasswordLength {
		return nil, &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("Password must be at least %d characters", MinPasswordLength),
		}
	}
	planID := strings.ToLower(strings.TrimSpace(req.Plan))
	if planID == "" {
		planID = DefaultPlan
	}
	plan, ok := PlanByID(planID)
	if !ok {
		return nil, &ValidationError{Field: "plan", Message: "Please choose a valid plan"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	rec := record{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Plan:         plan.ID,
		CreatedAt:    s.now().UTC(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding account: %w", err)
	}

	created, err := s.store.SetIfAbsent(ctx, keyPrefix+email, string(data))
	if err != nil {
		return nil, fmt.Errorf("saving account: %w", err)
	}
	if !created {
		return nil, ErrEmailTaken
	}

	s.logger.Ctx(ctx).Info("Account created",
		zap.String("account_id", rec.ID),
		zap.String("plan", plan.ID),
	)
	return toAccount(rec, plan), nil
}

// Get returns the account registered under email.
func (s *Service) Get(ctx context.Context, email string) (*Account, error) {
	rec, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}
	plan, _ := PlanByID(rec.Plan)
	return toAccount(*rec, plan), nil
}

// Authenticate checks a password against the stored hash.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	rec, err := s.load(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(password)); err != nil {
		s.logger.Ctx(ctx).Info("Login refused", zap.String("account_id", rec.ID))
		return nil, ErrInvalidCredentials
	}
	plan, _ := PlanByID(rec.Plan)
	return toAccount(*rec, plan), nil
}

func (s *Service) load(ctx context.Context, email string) (*record, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	data, err := s.store.Get(ctx, keyPrefix+email)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading account: %w", err)
	}
	var rec record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("decoding account: %w", err)
	}
	return &rec, nil
}

func toAccount(rec record, plan Plan) *Account {
	return &Account{
		ID:        rec.ID,
		Email:     rec.Email,
		Plan:      plan,
		CreatedAt: rec.CreatedAt,
	}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	return email, nil
}
