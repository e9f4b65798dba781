package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"hiring-management-api/internal/auth"
	"hiring-management-api/internal/backend"
	"hiring-management-api/internal/handler"
	"hiring-management-api/internal/middleware"
	"hiring-management-api/internal/model"
	"hiring-management-api/internal/store"
)

// upstream is a stub of the external scheduling service.
type upstream struct {
	scheduleCalls atomic.Int64
	slots         []model.TimeSlot
}

func (u *upstream) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /slots", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"slots": u.slots})
	})
	mux.HandleFunc("GET /slots/all-hours", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"slots": u.slots})
	})
	mux.HandleFunc("POST /events/schedule", func(w http.ResponseWriter, r *http.Request) {
		u.scheduleCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /interview-rounds", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /interview-rounds", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"rounds": []model.InterviewRound{}})
	})
	mux.HandleFunc("GET /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(backend.RawEventStatus{
			SessionID:         r.PathValue("id"),
			CandidateResponse: "tentative",
			Panelists:         []backend.RawPanelist{{Email: "ann@x.com", Response: "accepted"}},
		})
	})
	return mux
}

func setup(t *testing.T) (*gin.Engine, *store.Store, *upstream, string) {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	secret := os.Getenv("JWT_SECRET")
	if dbURL == "" || secret == "" {
		t.Skip("DATABASE_URL or JWT_SECRET not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)
	st := store.New(pool)

	up := &upstream{slots: []model.TimeSlot{
		{ID: "s1", Date: "2026-03-02", Start: "10:00", End: "11:00", Available: true},
		{ID: "s2", Date: "2026-03-02", Start: "11:00", End: "12:00", Available: true},
	}}
	upSrv := httptest.NewServer(up.handler())
	t.Cleanup(upSrv.Close)

	log := zap.NewNop()
	be := backend.New(upSrv.URL, 5*time.Second, log)
	h := handler.New(st, be, secret, log)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.Routes(r, middleware.NewRateLimiter(100, 100))
	return r, st, up, secret
}

func createUser(t *testing.T, st *store.Store) *model.User {
	t.Helper()
	u := &model.User{
		ID:       uuid.New().String(),
		Email:    fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8]),
		Name:     "Test User",
		JobTitle: "Software Engineer",
	}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	r, _, _, _ := setup(t)

	rec := doJSON(t, r, http.MethodGet, "/users", "", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/users", "not-a-jwt", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}
}

func TestRoundLifecycle(t *testing.T) {
	r, st, up, secret := setup(t)
	u := createUser(t, st)
	tok, _ := auth.MakeToken(u.ID, u.Name, secret)

	candID, campID, clientID := uuid.New().String(), uuid.New().String(), uuid.New().String()
	q := fmt.Sprintf("candidate_id=%s&campaign_id=%s&client_id=%s", candID, campID, clientID)
	// the triple rides in the body on POST, in the query everywhere else
	addBody := map[string]any{
		"name": "Technical Round", "candidate_id": candID, "campaign_id": campID, "client_id": clientID,
	}

	rec := doJSON(t, r, http.MethodPost, "/interviews/rounds", tok, addBody, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("add round: %d %s", rec.Code, rec.Body.String())
	}
	resp := decode(t, rec)
	round := resp["round"].(map[string]any)
	roundID := round["id"].(string)
	if round["status"] != "draft" {
		t.Fatalf("new round status: %v", round["status"])
	}

	// notify before a slot is selected is rejected
	notifyBody := map[string]any{"subject": "s", "body": "b", "to": []string{"cand@x.com"}}
	rec = doJSON(t, r, http.MethodPost, "/interviews/rounds/"+roundID+"/notify?"+q, tok, notifyBody, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("notify on draft: expected 409, got %d %s", rec.Code, rec.Body.String())
	}

	// select a slot -> scheduled
	slotBody := map[string]any{
		"slots":             []model.TimeSlot{{ID: "s1", Date: "2026-03-02", Start: "10:00", End: "11:00"}},
		"scheduling_option": "direct",
	}
	rec = doJSON(t, r, http.MethodPut, "/interviews/rounds/"+roundID+"/slot?"+q, tok, slotBody, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("select slot: %d %s", rec.Code, rec.Body.String())
	}
	resp = decode(t, rec)
	if resp["round"].(map[string]any)["status"] != "scheduled" {
		t.Fatalf("status after slot selection: %v", resp["round"].(map[string]any)["status"])
	}

	// notify -> completed, exactly one upstream schedule call
	before := up.scheduleCalls.Load()
	rec = doJSON(t, r, http.MethodPost, "/interviews/rounds/"+roundID+"/notify?"+q, tok, notifyBody, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("notify: %d %s", rec.Code, rec.Body.String())
	}
	resp = decode(t, rec)
	if resp["round"].(map[string]any)["status"] != "completed" {
		t.Fatalf("status after notify: %v", resp["round"].(map[string]any)["status"])
	}
	if got := up.scheduleCalls.Load() - before; got != 1 {
		t.Fatalf("expected 1 schedule call, got %d", got)
	}

	// a second notify is rejected, no extra upstream call
	rec = doJSON(t, r, http.MethodPost, "/interviews/rounds/"+roundID+"/notify?"+q, tok, notifyBody, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second notify: expected 409, got %d", rec.Code)
	}
	if got := up.scheduleCalls.Load() - before; got != 1 {
		t.Fatalf("second notify reached upstream: %d calls", got)
	}
}

func TestIdempotencyReplay(t *testing.T) {
	r, st, up, secret := setup(t)
	u := createUser(t, st)
	tok, _ := auth.MakeToken(u.ID, u.Name, secret)

	candID, campID, clientID := uuid.New().String(), uuid.New().String(), uuid.New().String()
	q := fmt.Sprintf("candidate_id=%s&campaign_id=%s&client_id=%s", candID, campID, clientID)

	addBody := map[string]any{
		"name": "Screening", "candidate_id": candID, "campaign_id": campID, "client_id": clientID,
	}
	rec := doJSON(t, r, http.MethodPost, "/interviews/rounds", tok, addBody, nil)
	roundID := decode(t, rec)["round"].(map[string]any)["id"].(string)

	slotBody := map[string]any{
		"slots":             []model.TimeSlot{{ID: "s1", Date: "2026-03-02", Start: "10:00", End: "11:00"}},
		"scheduling_option": "direct",
	}
	doJSON(t, r, http.MethodPut, "/interviews/rounds/"+roundID+"/slot?"+q, tok, slotBody, nil)

	key := uuid.New().String()
	headers := map[string]string{"Idempotency-Key": key}
	notifyBody := map[string]any{"subject": "s", "body": "b", "to": []string{"cand@x.com"}}

	before := up.scheduleCalls.Load()
	rec = doJSON(t, r, http.MethodPost, "/interviews/rounds/"+roundID+"/notify?"+q, tok, notifyBody, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("notify: %d %s", rec.Code, rec.Body.String())
	}
	first := rec.Body.String()

	// double submit with the same key replays the recorded response
	rec = doJSON(t, r, http.MethodPost, "/interviews/rounds/"+roundID+"/notify?"+q, tok, notifyBody, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("replay: %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Idempotent-Replay") != "true" {
		t.Error("missing replay marker header")
	}
	if rec.Body.String() != first {
		t.Error("replayed body differs from original")
	}
	if got := up.scheduleCalls.Load() - before; got != 1 {
		t.Fatalf("expected 1 schedule call across replays, got %d", got)
	}
}

func TestRemoveFirstRoundViaAPI(t *testing.T) {
	r, st, _, secret := setup(t)
	u := createUser(t, st)
	tok, _ := auth.MakeToken(u.ID, u.Name, secret)

	candID, campID, clientID := uuid.New().String(), uuid.New().String(), uuid.New().String()
	q := fmt.Sprintf("candidate_id=%s&campaign_id=%s&client_id=%s", candID, campID, clientID)

	addBody := map[string]any{
		"name": "Screening", "candidate_id": candID, "campaign_id": campID, "client_id": clientID,
	}
	rec := doJSON(t, r, http.MethodPost, "/interviews/rounds", tok, addBody, nil)
	roundID := decode(t, rec)["round"].(map[string]any)["id"].(string)

	rec = doJSON(t, r, http.MethodDelete, "/interviews/rounds/"+roundID+"?"+q, tok, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp["removed"] != false {
		t.Error("round 1 removal should be a no-op")
	}
	if len(resp["rounds"].([]any)) != 1 {
		t.Error("round 1 disappeared")
	}
}

func TestPanelThenDetailsThenSlots(t *testing.T) {
	r, st, _, secret := setup(t)
	u := createUser(t, st)
	tok, _ := auth.MakeToken(u.ID, u.Name, secret)

	// details against a session that does not exist is a prerequisite failure
	details := map[string]any{
		"title": "Tech Round", "description": "d", "duration": 60,
		"date": "2026-03-02", "meeting_type": "virtual",
	}
	rec := doJSON(t, r, http.MethodPut, "/sessions/"+uuid.New().String()+"/details", tok, details, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("details without panel: expected 409, got %d", rec.Code)
	}

	// save a panel -> new scheduling session
	panel := map[string]any{"user_ids": []string{u.ID}, "role": "Technical Interviewer"}
	rec = doJSON(t, r, http.MethodPost, "/panels", tok, panel, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("save panel: %d %s", rec.Code, rec.Body.String())
	}
	sessionID := decode(t, rec)["session_id"].(string)

	rec = doJSON(t, r, http.MethodPut, "/sessions/"+sessionID+"/details", tok, details, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("save details: %d %s", rec.Code, rec.Body.String())
	}

	// slot fetch requires a date
	rec = doJSON(t, r, http.MethodGet, "/sessions/"+sessionID+"/slots", tok, nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("slots without date: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/sessions/"+sessionID+"/slots?date=2026-03-02", tok, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch slots: %d %s", rec.Code, rec.Body.String())
	}
	if len(decode(t, rec)["slots"].([]any)) != 2 {
		t.Error("expected 2 slots from upstream")
	}
}

func TestLogoutTeardown(t *testing.T) {
	r, st, _, secret := setup(t)
	u := createUser(t, st)
	tok, _ := auth.MakeToken(u.ID, u.Name, secret)

	panel := map[string]any{"user_ids": []string{u.ID}}
	rec := doJSON(t, r, http.MethodPost, "/panels", tok, panel, nil)
	sessionID := decode(t, rec)["session_id"].(string)

	rec = doJSON(t, r, http.MethodPost, "/auth/logout", tok, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: %d %s", rec.Code, rec.Body.String())
	}

	// the scheduling session is gone after logout
	if _, err := st.GetSchedulingSession(context.Background(), sessionID); err != store.ErrNotFound {
		t.Errorf("expected session to be deleted, got %v", err)
	}
}

func TestEventTracking(t *testing.T) {
	r, st, _, secret := setup(t)
	u := createUser(t, st)
	tok, _ := auth.MakeToken(u.ID, u.Name, secret)

	rec := doJSON(t, r, http.MethodGet, "/events/sess-123", tok, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("track: %d %s", rec.Code, rec.Body.String())
	}
	resp := decode(t, rec)
	// free-text "tentative" from upstream is coerced to pending
	if resp["candidate_response"] != "pending" {
		t.Errorf("candidate response: %v", resp["candidate_response"])
	}
	panelists := resp["panelists"].([]any)
	if panelists[0].(map[string]any)["response"] != "accepted" {
		t.Errorf("panelist response: %v", panelists[0])
	}
}
