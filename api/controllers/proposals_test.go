package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verdantmarkets/carbonledger-backend/api/middleware"
	"github.com/verdantmarkets/carbonledger-backend/internal/proposals"
	"github.com/verdantmarkets/carbonledger-backend/internal/settlement"
	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
	"github.com/verdantmarkets/carbonledger-backend/pkg/enums"
	pkgerrors "github.com/verdantmarkets/carbonledger-backend/pkg/errors"
)

type fakeProposalService struct {
	lastActor  uuid.UUID
	lastCreate proposals.CreateInput
	lastUpdate proposals.UpdateInput
	lastID     uuid.UUID
	proposal   *models.Proposal
	summaries  []proposals.Summary
	alerts     []proposals.Alert
	err        error
}

func (f *fakeProposalService) Create(ctx context.Context, actor uuid.UUID, input proposals.CreateInput) (*models.Proposal, error) {
	f.lastActor = actor
	f.lastCreate = input
	return f.proposal, f.err
}

func (f *fakeProposalService) Get(ctx context.Context, actor, id uuid.UUID) (*models.Proposal, error) {
	f.lastActor = actor
	f.lastID = id
	return f.proposal, f.err
}

func (f *fakeProposalService) ListMine(ctx context.Context, actor uuid.UUID) ([]proposals.Summary, error) {
	f.lastActor = actor
	return f.summaries, f.err
}

func (f *fakeProposalService) ListReceived(ctx context.Context, actor uuid.UUID) ([]proposals.Summary, error) {
	f.lastActor = actor
	return f.summaries, f.err
}

func (f *fakeProposalService) Update(ctx context.Context, actor, id uuid.UUID, input proposals.UpdateInput) (*models.Proposal, error) {
	f.lastActor = actor
	f.lastID = id
	f.lastUpdate = input
	return f.proposal, f.err
}

func (f *fakeProposalService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	f.lastActor = actor
	f.lastID = id
	return f.err
}

func (f *fakeProposalService) Alerts(ctx context.Context, actor uuid.UUID) ([]proposals.Alert, error) {
	f.lastActor = actor
	return f.alerts, f.err
}

type fakeSettlementService struct {
	lastInput settlement.DecideInput
	proposal  *models.Proposal
	err       error
}

func (f *fakeSettlementService) Decide(ctx context.Context, input settlement.DecideInput) (*models.Proposal, error) {
	f.lastInput = input
	return f.proposal, f.err
}

func authedRequest(method, target string, body []byte, companyID uuid.UUID) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithCompanyID(req.Context(), companyID.String()))
}

func withProposalParam(req *http.Request, id uuid.UUID) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("proposalId", id.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestProposalCreate(t *testing.T) {
	companyID := uuid.New()
	targetID := uuid.New()
	svc := &fakeProposalService{proposal: &models.Proposal{ID: uuid.New()}}
	handler := ProposalCreate(svc, nil)

	payload := map[string]any{
		"target_company_id": targetID.String(),
		"kind":              "BUY",
		"unit_price":        12.5,
		"quantity":          4,
	}
	body, _ := json.Marshal(payload)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/me/proposals", body, companyID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastActor != companyID {
		t.Fatalf("expected actor %s got %s", companyID, svc.lastActor)
	}
	if svc.lastCreate.TargetCompanyID != targetID {
		t.Fatalf("expected target %s got %s", targetID, svc.lastCreate.TargetCompanyID)
	}
	if svc.lastCreate.Kind != enums.TradeKindBuy {
		t.Fatalf("expected kind BUY got %s", svc.lastCreate.Kind)
	}
}

func TestProposalCreateRejectsUnknownKind(t *testing.T) {
	svc := &fakeProposalService{}
	handler := ProposalCreate(svc, nil)

	payload := map[string]any{
		"target_company_id": uuid.NewString(),
		"kind":              "SWAP",
		"unit_price":        1.0,
		"quantity":          1.0,
	}
	body, _ := json.Marshal(payload)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/me/proposals", body, uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestProposalCreateRequiresAuthContext(t *testing.T) {
	handler := ProposalCreate(&fakeProposalService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/me/proposals", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestProposalListReceived(t *testing.T) {
	companyID := uuid.New()
	svc := &fakeProposalService{summaries: []proposals.Summary{{ID: uuid.New()}, {ID: uuid.New()}}}
	handler := ProposalListReceived(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/me/proposals/received", nil, companyID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastActor != companyID {
		t.Fatalf("expected actor %s got %s", companyID, svc.lastActor)
	}
	var envelope struct {
		Data []proposals.Summary `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 summaries got %d", len(envelope.Data))
	}
}

func TestProposalUpdatePassesPartialFields(t *testing.T) {
	companyID := uuid.New()
	proposalID := uuid.New()
	svc := &fakeProposalService{proposal: &models.Proposal{ID: proposalID}}
	handler := ProposalUpdate(svc, nil)

	body := []byte(`{"unit_price": 22.0}`)
	req := withProposalParam(authedRequest(http.MethodPatch, "/me/proposals/"+proposalID.String(), body, companyID), proposalID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastID != proposalID {
		t.Fatalf("expected proposal %s got %s", proposalID, svc.lastID)
	}
	if svc.lastUpdate.UnitPrice == nil || *svc.lastUpdate.UnitPrice != 22.0 {
		t.Fatalf("expected unit price 22.0 got %v", svc.lastUpdate.UnitPrice)
	}
	if svc.lastUpdate.Quantity != nil || svc.lastUpdate.Kind != nil || svc.lastUpdate.Reason != nil || svc.lastUpdate.TargetCompanyID != nil {
		t.Fatal("expected untouched fields to stay nil")
	}
}

func TestProposalUpdateRetargetsProposal(t *testing.T) {
	companyID := uuid.New()
	proposalID := uuid.New()
	newTarget := uuid.New()
	svc := &fakeProposalService{proposal: &models.Proposal{ID: proposalID}}
	handler := ProposalUpdate(svc, nil)

	body := []byte(`{"target_company_id": "` + newTarget.String() + `"}`)
	req := withProposalParam(authedRequest(http.MethodPatch, "/me/proposals/"+proposalID.String(), body, companyID), proposalID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastUpdate.TargetCompanyID == nil || *svc.lastUpdate.TargetCompanyID != newTarget {
		t.Fatalf("expected target %s got %v", newTarget, svc.lastUpdate.TargetCompanyID)
	}

	body = []byte(`{"target_company_id": "not-a-uuid"}`)
	req = withProposalParam(authedRequest(http.MethodPatch, "/me/proposals/"+proposalID.String(), body, companyID), proposalID)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestProposalDelete(t *testing.T) {
	companyID := uuid.New()
	proposalID := uuid.New()
	svc := &fakeProposalService{}
	handler := ProposalDelete(svc, nil)

	req := withProposalParam(authedRequest(http.MethodDelete, "/me/proposals/"+proposalID.String(), nil, companyID), proposalID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastID != proposalID {
		t.Fatalf("expected proposal %s got %s", proposalID, svc.lastID)
	}
}

func TestProposalDecide(t *testing.T) {
	companyID := uuid.New()
	proposalID := uuid.New()
	svc := &fakeSettlementService{proposal: &models.Proposal{ID: proposalID, Status: enums.ProposalStatusAccepted}}
	handler := ProposalDecide(svc, nil)

	body := []byte(`{"decision":"ACCEPT"}`)
	req := withProposalParam(authedRequest(http.MethodPost, "/me/proposals/"+proposalID.String()+"/decision", body, companyID), proposalID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastInput.ProposalID != proposalID {
		t.Fatalf("expected proposal %s got %s", proposalID, svc.lastInput.ProposalID)
	}
	if svc.lastInput.ActorCompanyID != companyID {
		t.Fatalf("expected actor %s got %s", companyID, svc.lastInput.ActorCompanyID)
	}
	if svc.lastInput.Decision != enums.TradeDecisionAccept {
		t.Fatalf("expected decision ACCEPT got %s", svc.lastInput.Decision)
	}
}

func TestProposalDecideMapsConflict(t *testing.T) {
	companyID := uuid.New()
	proposalID := uuid.New()
	svc := &fakeSettlementService{err: pkgerrors.New(pkgerrors.CodeAlreadyProcessed, "proposal already settled")}
	handler := ProposalDecide(svc, nil)

	body := []byte(`{"decision":"REJECT"}`)
	req := withProposalParam(authedRequest(http.MethodPost, "/me/proposals/"+proposalID.String()+"/decision", body, companyID), proposalID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestProposalDecideRejectsUnknownDecision(t *testing.T) {
	proposalID := uuid.New()
	handler := ProposalDecide(&fakeSettlementService{}, nil)

	body := []byte(`{"decision":"MAYBE"}`)
	req := withProposalParam(authedRequest(http.MethodPost, "/me/proposals/"+proposalID.String()+"/decision", body, uuid.New()), proposalID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
