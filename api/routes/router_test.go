package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantmarkets/carbonledger-backend/internal/auth"
	"github.com/verdantmarkets/carbonledger-backend/internal/companies"
	"github.com/verdantmarkets/carbonledger-backend/internal/proposals"
	"github.com/verdantmarkets/carbonledger-backend/internal/settlement"
	pkgAuth "github.com/verdantmarkets/carbonledger-backend/pkg/auth"
	"github.com/verdantmarkets/carbonledger-backend/pkg/auth/session"
	"github.com/verdantmarkets/carbonledger-backend/pkg/config"
	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
	"github.com/verdantmarkets/carbonledger-backend/pkg/logger"
)

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return &auth.RegisterResponse{}, nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubBalanceService struct{}

func (stubBalanceService) Get(ctx context.Context, companyID uuid.UUID) (*models.Balance, error) {
	return &models.Balance{CompanyID: companyID}, nil
}

type stubProposalService struct{}

func (stubProposalService) Create(ctx context.Context, actor uuid.UUID, input proposals.CreateInput) (*models.Proposal, error) {
	return &models.Proposal{}, nil
}

func (stubProposalService) Get(ctx context.Context, actor, id uuid.UUID) (*models.Proposal, error) {
	return &models.Proposal{ID: id}, nil
}

func (stubProposalService) ListMine(ctx context.Context, actor uuid.UUID) ([]proposals.Summary, error) {
	return nil, nil
}

func (stubProposalService) ListReceived(ctx context.Context, actor uuid.UUID) ([]proposals.Summary, error) {
	return nil, nil
}

func (stubProposalService) Update(ctx context.Context, actor, id uuid.UUID, input proposals.UpdateInput) (*models.Proposal, error) {
	return &models.Proposal{ID: id}, nil
}

func (stubProposalService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	return nil
}

func (stubProposalService) Alerts(ctx context.Context, actor uuid.UUID) ([]proposals.Alert, error) {
	return nil, nil
}

type stubSettlementService struct{}

func (stubSettlementService) Decide(ctx context.Context, input settlement.DecideInput) (*models.Proposal, error) {
	return &models.Proposal{ID: input.ProposalID}, nil
}

type stubInboxService struct{}

func (stubInboxService) MarkViewed(ctx context.Context, proposalID, actorCompanyID uuid.UUID) error {
	return nil
}

func (stubInboxService) Entry(ctx context.Context, proposalID, actorCompanyID uuid.UUID) (*models.InboxEntry, error) {
	return &models.InboxEntry{ProposalID: proposalID}, nil
}

type stubCompanyRepo struct{}

func (s stubCompanyRepo) WithTx(tx *gorm.DB) companies.Repository {
	return s
}

func (stubCompanyRepo) Create(ctx context.Context, company *models.Company) (*models.Company, error) {
	return company, nil
}

func (stubCompanyRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return &models.Company{ID: id}, nil
}

func (stubCompanyRepo) FindByName(ctx context.Context, name string) (*models.Company, error) {
	return nil, gorm.ErrRecordNotFound
}

func (stubCompanyRepo) List(ctx context.Context) ([]models.Company, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		nil,
		nil,
		stubSessionManager{},
		stubAuthService{},
		stubRegisterService{},
		stubBalanceService{},
		stubProposalService{},
		stubSettlementService{},
		stubInboxService{},
		stubCompanyRepo{},
	)
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:    uuid.New(),
		CompanyID: uuid.New(),
		JTI:       session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, target := range []string{
		"/api/v1/companies",
		"/api/v1/me/balance",
		"/api/v1/me/proposals",
		"/api/v1/me/alerts",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s without token got %d", target, resp.Code)
		}
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg)

	for _, target := range []string{
		"/api/v1/companies",
		"/api/v1/me/balance",
		"/api/v1/me/proposals",
		"/api/v1/me/proposals/received",
		"/api/v1/me/alerts",
		"/api/v1/me/inbox/" + uuid.NewString(),
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", target, resp.Code)
		}
	}
}

func TestDecisionRouteIsWired(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg)

	target := "/api/v1/me/proposals/" + uuid.NewString() + "/decision"
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{"decision":"ACCEPT"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
