package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tournevent/freightbench/internal/account"
	"github.com/tournevent/freightbench/internal/benchmark"
	"github.com/tournevent/freightbench/internal/graphql"
	"github.com/tournevent/freightbench/internal/report"
	"github.com/tournevent/freightbench/pkg/distance"
	"github.com/tournevent/freightbench/pkg/lane"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
)

// SignUpPath is where clients are sent once the free quota is used up.
const SignUpPath = "/signup"

type searchRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	res, err := s.tracker.Run(r.Context(), lane.New(req.Origin, req.Destination))
	if err != nil {
		s.writeSearchError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, graphql.NewSearchResult(res))
}

func (s *Server) writeSearchError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *benchmark.ValidationError
	msg := benchmark.UserMessage(err)
	switch {
	case errors.As(err, &verr):
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", msg)
	case errors.Is(err, benchmark.ErrQuotaExhausted):
		writeJSON(w, http.StatusPaymentRequired, map[string]any{"error": errorBody{
			Code:     "quota_exhausted",
			Message:  msg,
			Redirect: SignUpPath,
		}})
	case errors.Is(err, benchmark.ErrSuperseded):
		writeErrorJSON(w, http.StatusConflict, "superseded", err.Error())
	case distance.IsLookupError(err):
		writeErrorJSON(w, http.StatusBadGateway, "lookup_failed", msg)
	default:
		s.logger.Ctx(r.Context()).Error("Search failed", zap.Error(err))
		writeErrorJSON(w, http.StatusInternalServerError, "internal_error", msg)
	}
}

func (s *Server) handleSearchState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, graphql.NewSearchState(s.tracker.State()))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res := s.tracker.LastResult()
	if res == nil {
		writeErrorJSON(w, http.StatusNotFound, "resource_not_found", "no search to export yet")
		return
	}

	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, res); err != nil {
		s.logger.Ctx(r.Context()).Error("Export failed", zap.Error(err))
		writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName(res)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

type compareRequest struct {
	Rate string `json:"rate"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	c, err := s.comparator.Compare(req.Rate)
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"comparison":    graphql.NewComparison(c),
		"marketAverage": s.comparator.FormatMarketAverage(),
	})
}

func (s *Server) handleQuota(w http.ResponseWriter, r *http.Request) {
	d, err := s.searches.Quota(r.Context())
	if err != nil {
		s.logger.Ctx(r.Context()).Error("Quota lookup failed", zap.Error(err))
		writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "quota unavailable")
		return
	}
	writeJSON(w, http.StatusOK, graphql.NewQuota(d, s.searches.QuotaLimit()))
}

func (s *Server) handleBoards(w http.ResponseWriter, r *http.Request) {
	all := s.registry.All()
	boards := make([]*graphql.Board, len(all))
	for i, b := range all {
		boards[i] = graphql.NewBoard(b)
	}
	writeJSON(w, http.StatusOK, map[string]any{"boards": boards})
}

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	plans := make([]*graphql.Plan, len(account.Plans))
	for i, p := range account.Plans {
		plans[i] = graphql.NewPlan(p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Plan     string `json:"plan"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	a, err := s.accounts.SignUp(r.Context(), account.SignUpRequest{
		Email:    req.Email,
		Password: req.Password,
		Plan:     req.Plan,
	})
	var verr *account.ValidationError
	switch {
	case errors.As(err, &verr):
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", verr.Error())
	case errors.Is(err, account.ErrEmailTaken):
		writeErrorJSON(w, http.StatusConflict, "conflict", err.Error())
	case err != nil:
		s.logger.Ctx(r.Context()).Error("Sign-up failed", zap.Error(err))
		writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "sign-up failed")
	default:
		writeJSON(w, http.StatusCreated, graphql.NewAccount(a))
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	a, err := s.accounts.Authenticate(r.Context(), req.Email, req.Password)
	var verr *account.ValidationError
	switch {
	case errors.As(err, &verr):
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", verr.Error())
	case errors.Is(err, account.ErrInvalidCredentials):
		writeErrorJSON(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case err != nil:
		s.logger.Ctx(r.Context()).Error("Login failed", zap.Error(err))
		writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "login failed")
	default:
		writeJSON(w, http.StatusOK, graphql.NewAccount(a))
	}
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "email required")
		return
	}

	a, err := s.accounts.Get(r.Context(), email)
	var verr *account.ValidationError
	switch {
	case errors.As(err, &verr):
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", verr.Error())
	case errors.Is(err, account.ErrNotFound):
		writeErrorJSON(w, http.StatusNotFound, "resource_not_found", err.Error())
	case err != nil:
		s.logger.Ctx(r.Context()).Error("Account lookup failed", zap.Error(err))
		writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "account unavailable")
	default:
		writeJSON(w, http.StatusOK, graphql.NewAccount(a))
	}
}

func graphqlErrors(msg string) gqlerror.List {
	return gqlerror.List{{Message: msg}}
}
