package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/freightbench/internal/account"
	"github.com/tournevent/freightbench/internal/kvstore"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) (*account.Service, *kvstore.Memory) {
	t.Helper()
	store := kvstore.NewMemory()
	svc := account.NewService(store, otelzap.New(zap.NewNop())).WithHashCost(bcrypt.MinCost)
	return svc, store
}

func TestSignUp(t *testing.T) {
	svc, store := newService(t)

	acct, err := svc.SignUp(context.Background(), account.SignUpRequest{
		Email:    "Driver@Example.com",
		Password: "correct horse",
		Plan:     "pro",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, acct.ID)
	assert.Equal(t, "driver@example.com", acct.Email)
	assert.Equal(t, "pro", acct.Plan.ID)
	assert.Equal(t, 19.99, acct.Plan.MonthlyPrice)
	assert.Equal(t, 250, acct.SearchesRemaining())

	raw, err := store.Get(context.Background(), "account:driver@example.com")
	require.NoError(t, err)
	assert.NotContains(t, raw, "correct horse")
}

func TestSignUp_DefaultPlan(t *testing.T) {
	svc, _ := newService(t)

	acct, err := svc.SignUp(context.Background(), account.SignUpRequest{
		Email:    "a@example.com",
		Password: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, "basic", acct.Plan.ID)
	assert.Equal(t, 9.99, acct.Plan.MonthlyPrice)
}

func TestSignUp_Duplicate(t *testing.T) {
	svc, _ := newService(t)
	req := account.SignUpRequest{Email: "a@example.com", Password: "password1", Plan: "basic"}

	_, err := svc.SignUp(context.Background(), req)
	require.NoError(t, err)

	req.Email = "A@EXAMPLE.COM"
	_, err = svc.SignUp(context.Background(), req)
	assert.ErrorIs(t, err, account.ErrEmailTaken)
}

func TestSignUp_Validation(t *testing.T) {
	svc, _ := newService(t)

	tests := []struct {
		name  string
		req   account.SignUpRequest
		field string
	}{
		{"bad email", account.SignUpRequest{Email: "not-an-email", Password: "password1"}, "email"},
		{"display name", account.SignUpRequest{Email: "Bob <bob@example.com>", Password: "password1"}, "email"},
		{"short password", account.SignUpRequest{Email: "a@example.com", Password: "short"}, "password"},
		{"unknown plan", account.SignUpRequest{Email: "a@example.com", Password: "password1", Plan: "gold"}, "plan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(context.Background(), tt.req)
			var verr *account.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestGetAndAuthenticate(t *testing.T) {
	svc, _ := newService(t)
	created, err := svc.SignUp(context.Background(), account.SignUpRequest{
		Email:    "a@example.com",
		Password: "password1",
		Plan:     "enterprise",
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, account.Unlimited, got.SearchesRemaining())

	_, err = svc.Authenticate(context.Background(), "a@example.com", "password1")
	assert.NoError(t, err)
	_, err = svc.Authenticate(context.Background(), "a@example.com", "wrong")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)
	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "password1")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)

	_, err = svc.Get(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestPlanByID(t *testing.T) {
	p, ok := account.PlanByID("enterprise")
	require.True(t, ok)
	assert.Equal(t, 49.99, p.MonthlyPrice)

	_, ok = account.PlanByID("gold")
	assert.False(t, ok)
}
