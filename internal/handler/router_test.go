package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lanekeeper/lanekeeper/internal/catalog"
	"github.com/lanekeeper/lanekeeper/internal/handler/dto"
	"github.com/lanekeeper/lanekeeper/internal/metrics"
	"github.com/lanekeeper/lanekeeper/internal/service"
	"github.com/lanekeeper/lanekeeper/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := metrics.NewInMemory()
	cat := catalog.New(14)

	ledger := store.NewMemoryLedger()
	users := store.NewMemoryUsers()
	sessions := store.NewMemorySessions()

	reservations := service.NewReservationService(ledger, cat, recorder)
	availability := service.NewAvailabilityService(ledger, cat, recorder)
	accounts := service.NewAccountService(users, sessions, recorder)

	router := NewDefaultRouter(NewLaneHandler(cat), availability, reservations, accounts, logger, recorder)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-Auth-Token", token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func registerUser(t *testing.T, baseURL, username, displayName string) dto.AuthResponse {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, baseURL+"/api/register", "", dto.RegisterRequest{
		Username:    username,
		Password:    "password",
		DisplayName: displayName,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body = %s", username, resp.StatusCode, body)
	}

	var auth dto.AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		t.Fatalf("unmarshal auth: %v", err)
	}
	if auth.Token == "" {
		t.Fatal("expected session token")
	}
	return auth
}

func TestReservationFlow(t *testing.T) {
	srv := newTestServer(t)

	alice := registerUser(t, srv.URL, "alice", "Alice")
	bob := registerUser(t, srv.URL, "bob", "Bob")

	const (
		start = "2024-01-02T18:00:00Z"
		end   = "2024-01-02T19:00:00Z"
	)

	// Alice books lane 3.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/reserve", alice.Token, dto.ReserveRequest{
		LaneID: 3, Start: start, End: end,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("reserve: status = %d, body = %s", resp.StatusCode, body)
	}
	var created dto.ReservationResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("unmarshal reservation: %v", err)
	}
	if created.Reservation.LaneID != 3 {
		t.Errorf("lane = %d, want 3", created.Reservation.LaneID)
	}

	// Lane 3 now shows occupied for the window.
	resp, body = doJSON(t, http.MethodGet,
		srv.URL+"/api/availability?start="+start+"&end="+end, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("availability: status = %d, body = %s", resp.StatusCode, body)
	}
	var avail dto.AvailabilityResponse
	if err := json.Unmarshal(body, &avail); err != nil {
		t.Fatalf("unmarshal availability: %v", err)
	}
	if len(avail.Available) != 13 {
		t.Errorf("available lanes = %d, want 13", len(avail.Available))
	}
	if len(avail.OccupiedLaneIDs) != 1 || avail.OccupiedLaneIDs[0] != 3 {
		t.Errorf("occupied = %v, want [3]", avail.OccupiedLaneIDs)
	}

	// Bob cannot take the same slot.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/reserve", bob.Token, dto.ReserveRequest{
		LaneID: 3, Start: start, End: end,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("conflicting reserve: status = %d, body = %s", resp.StatusCode, body)
	}
	var errResp dto.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if errResp.Code != "SLOT_TAKEN" {
		t.Errorf("code = %q, want SLOT_TAKEN", errResp.Code)
	}

	// A different lane is fine.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/reserve", bob.Token, dto.ReserveRequest{
		LaneID: 4, Start: start, End: end,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("reserve lane 4: status = %d, body = %s", resp.StatusCode, body)
	}

	// Each user sees only their own bookings.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/my-reservations", alice.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("my-reservations: status = %d", resp.StatusCode)
	}
	var mine dto.ReservationsResponse
	if err := json.Unmarshal(body, &mine); err != nil {
		t.Fatalf("unmarshal reservations: %v", err)
	}
	if len(mine.Reservations) != 1 || mine.Reservations[0].LaneID != 3 {
		t.Errorf("alice reservations = %+v", mine.Reservations)
	}

	// The public listing shows both.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/reservations?date=2024-01-02", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reservations: status = %d", resp.StatusCode)
	}
	var all dto.ReservationsResponse
	if err := json.Unmarshal(body, &all); err != nil {
		t.Fatalf("unmarshal reservations: %v", err)
	}
	if len(all.Reservations) != 2 {
		t.Errorf("public listing = %d entries, want 2", len(all.Reservations))
	}
}

func TestCancelReleasesSlot(t *testing.T) {
	srv := newTestServer(t)

	alice := registerUser(t, srv.URL, "alice", "Alice")
	bob := registerUser(t, srv.URL, "bob", "Bob")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/reserve", alice.Token, dto.ReserveRequest{
		LaneID: 1, Start: "2024-01-02T18:00:00Z", End: "2024-01-02T19:00:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("reserve: status = %d, body = %s", resp.StatusCode, body)
	}
	var created dto.ReservationResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("unmarshal reservation: %v", err)
	}

	// Bob cannot cancel Alice's booking; he cannot even see it exists.
	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/reserve/"+created.Reservation.ID, bob.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign cancel: status = %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/reserve/"+created.Reservation.ID, alice.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel: status = %d, want 200", resp.StatusCode)
	}

	// The slot is free again.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/reserve", bob.Token, dto.ReserveRequest{
		LaneID: 1, Start: "2024-01-02T18:00:00Z", End: "2024-01-02T19:00:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("re-reserve: status = %d, body = %s", resp.StatusCode, body)
	}
}

func TestReserveRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/reserve", "", dto.ReserveRequest{
		LaneID: 1, Start: "2024-01-02T18:00:00Z", End: "2024-01-02T19:00:00Z",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401, body = %s", resp.StatusCode, body)
	}
}

func TestLoginLogoutLifecycle(t *testing.T) {
	srv := newTestServer(t)

	registerUser(t, srv.URL, "carol", "Carol")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/login", "", dto.LoginRequest{
		Username: "carol", Password: "password",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status = %d, body = %s", resp.StatusCode, body)
	}
	var auth dto.AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		t.Fatalf("unmarshal auth: %v", err)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/my-reservations", auth.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("my-reservations before logout: status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/logout", auth.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/my-reservations", auth.Token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("my-reservations after logout: status = %d, want 401", resp.StatusCode)
	}

	// Logout is idempotent.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/logout", auth.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("repeat logout: status = %d", resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/login", "", dto.LoginRequest{
		Username: "carol", Password: "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: status = %d, body = %s", resp.StatusCode, body)
	}
}

func TestAvailabilityDateShorthand(t *testing.T) {
	srv := newTestServer(t)

	alice := registerUser(t, srv.URL, "alice", "Alice")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/reserve", alice.Token, dto.ReserveRequest{
		LaneID: 5, Start: "2024-03-01T18:30:00Z", End: "2024-03-01T19:30:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("reserve: status = %d, body = %s", resp.StatusCode, body)
	}

	// date=YYYY-MM-DD means the 18:00-19:00 UTC window; the 18:30 booking
	// overlaps it.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/availability?date=2024-03-01", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("availability: status = %d, body = %s", resp.StatusCode, body)
	}
	var avail dto.AvailabilityResponse
	if err := json.Unmarshal(body, &avail); err != nil {
		t.Fatalf("unmarshal availability: %v", err)
	}
	if len(avail.OccupiedLaneIDs) != 1 || avail.OccupiedLaneIDs[0] != 5 {
		t.Errorf("occupied = %v, want [5]", avail.OccupiedLaneIDs)
	}
}

func TestAvailabilityBadWindow(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		query    string
		wantCode string
	}{
		{"missing window", "", "MISSING_WINDOW"},
		{"bad date", "?date=tomorrow", "INVALID_DATE"},
		{"bad start", "?start=noon&end=2024-01-02T19:00:00Z", "INVALID_INTERVAL"},
		{"inverted window", "?start=2024-01-02T19:00:00Z&end=2024-01-02T18:00:00Z", "INVALID_INTERVAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/availability"+tt.query, "", nil)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body = %s", resp.StatusCode, body)
			}
			var errResp dto.ErrorResponse
			if err := json.Unmarshal(body, &errResp); err != nil {
				t.Fatalf("unmarshal error: %v", err)
			}
			if errResp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", errResp.Code, tt.wantCode)
			}
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/register", "", dto.RegisterRequest{
		Username: "dave",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", resp.StatusCode, body)
	}

	registerUser(t, srv.URL, "dave", "Dave")

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/register", "", dto.RegisterRequest{
		Username: "dave", Password: "password", DisplayName: "Dave Again",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register: status = %d, body = %s", resp.StatusCode, body)
	}
	var errResp dto.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if errResp.Code != "USERNAME_TAKEN" {
		t.Errorf("code = %q, want USERNAME_TAKEN", errResp.Code)
	}
}

func TestReserveUnknownLane(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv.URL, "alice", "Alice")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/reserve", alice.Token, dto.ReserveRequest{
		LaneID: 99, Start: "2024-01-02T18:00:00Z", End: "2024-01-02T19:00:00Z",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", resp.StatusCode, body)
	}
	var errResp dto.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if errResp.Code != "UNKNOWN_LANE" {
		t.Errorf("code = %q, want UNKNOWN_LANE", errResp.Code)
	}
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz: status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/readyz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("readyz: status = %d", resp.StatusCode)
	}

	alice := registerUser(t, srv.URL, "alice", "Alice")
	doJSON(t, http.MethodPost, srv.URL+"/api/reserve", alice.Token, dto.ReserveRequest{
		LaneID: 1, Start: "2024-01-02T18:00:00Z", End: "2024-01-02T19:00:00Z",
	})

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/metricsz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metricsz: status = %d", resp.StatusCode)
	}
	var snap map[string]any
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap["reservations_created"] != float64(1) {
		t.Errorf("reservations_created = %v, want 1", snap["reservations_created"])
	}
	if snap["registrations"] != float64(1) {
		t.Errorf("registrations = %v, want 1", snap["registrations"])
	}
}
