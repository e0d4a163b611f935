package server

import (
	"net/http"
	"testing"

	"truth-or-lie/internal/config"
)

func TestCreateRoomNames(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	resp := doRequest(t, ts, newClient(t), http.MethodPost, "/api/rooms", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["room_name"] != "Truth or Lie" {
		t.Fatalf("expected default room name, got %v", body["room_name"])
	}
	if err := validateCode(body["room_code"].(string)); err != nil {
		t.Fatalf("invalid room code %v: %v", body["room_code"], err)
	}

	resp = doRequest(t, ts, newClient(t), http.MethodPost, "/api/rooms", map[string]string{
		"name": "  Friday   night  ",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["room_name"] != "Friday night" {
		t.Fatalf("expected normalized room name, got %v", body["room_name"])
	}
}

func TestRoomCodeValidation(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	for _, code := range []string{"123", "12345", "12a4", "abcd"} {
		resp := doRequest(t, ts, http.DefaultClient, http.MethodGet, "/api/rooms/"+code, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("code %q: expected status %d, got %d", code, http.StatusBadRequest, resp.StatusCode)
		}
	}

	resp := doRequest(t, ts, http.DefaultClient, http.MethodGet, "/api/rooms/9999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d for unknown room, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestJoinValidation(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	host := newClient(t)
	code := createRoom(t, ts, host)

	resp := doRequest(t, ts, newClient(t), http.MethodPost, "/api/rooms/"+code+"/join", map[string]string{"name": "A"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d for short name, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	resp = doRequest(t, ts, newClient(t), http.MethodPost, "/api/rooms/"+code+"/join", map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d for missing name, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	joinRoom(t, ts, host, code, "Ada")
	second := newClient(t)
	joinRoom(t, ts, second, code, "Ben")
	setTruth(t, ts, host, code, "I hiked a volcano once")
	setTruth(t, ts, second, code, "I can juggle oranges")
	resp = doRequest(t, ts, host, http.MethodPost, "/api/rooms/"+code+"/start", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	resp = doRequest(t, ts, newClient(t), http.MethodPost, "/api/rooms/"+code+"/join", map[string]string{"name": "Late"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for late join, got %d", http.StatusConflict, resp.StatusCode)
	}
}

func TestTruthRequiresMembership(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	host := newClient(t)
	code := createRoom(t, ts, host)
	joinRoom(t, ts, host, code, "Ada")

	resp := doRequest(t, ts, newClient(t), http.MethodPost, "/api/rooms/"+code+"/truth", map[string]string{
		"statement": "I have met a president",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d for stranger, got %d", http.StatusForbidden, resp.StatusCode)
	}

	resp = doRequest(t, ts, host, http.MethodPost, "/api/rooms/"+code+"/truth", map[string]string{
		"statement": "short",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d for short statement, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	resp = doRequest(t, ts, host, http.MethodPost, "/api/rooms/"+code+"/truth", map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d for missing statement, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	setTruth(t, ts, host, code, "I hiked a volcano once")
	setTruth(t, ts, host, code, "Actually I rode a camel instead")

	room, ok := srv.store.GetRoom(code)
	if !ok {
		t.Fatalf("room not found")
	}
	if room.Players[0].TruthStatement != "Actually I rode a camel instead" {
		t.Fatalf("expected overwrite, got %q", room.Players[0].TruthStatement)
	}
}

func TestStartRequiresHost(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	host := newClient(t)
	second := newClient(t)
	code := createRoom(t, ts, host)
	joinRoom(t, ts, host, code, "Ada")
	joinRoom(t, ts, second, code, "Ben")
	setTruth(t, ts, host, code, "I hiked a volcano once")
	setTruth(t, ts, second, code, "I can juggle oranges")

	resp := doRequest(t, ts, second, http.MethodPost, "/api/rooms/"+code+"/start", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d for non-host start, got %d", http.StatusForbidden, resp.StatusCode)
	}
	resp = doRequest(t, ts, host, http.MethodPost, "/api/rooms/"+code+"/start", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d for host start, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestVoteValidation(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	code, _, second, _ := startedRoom(t, ts)

	resp := castVote(t, ts, second, code, "maybe")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d for bad choice, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	resp = castVote(t, ts, newClient(t), code, choiceTruth)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d for stranger vote, got %d", http.StatusForbidden, resp.StatusCode)
	}
	resp = castVote(t, ts, second, code, choiceTruth)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	resp = castVote(t, ts, second, code, choiceLie)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for duplicate vote, got %d", http.StatusConflict, resp.StatusCode)
	}
}

func TestListRooms(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	createRoom(t, ts, newClient(t))
	createRoom(t, ts, newClient(t))

	body := decodeBody(t, doRequest(t, ts, http.DefaultClient, http.MethodGet, "/api/rooms", nil))
	rooms, ok := body["rooms"].([]any)
	if !ok || len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %#v", body["rooms"])
	}
	first := rooms[0].(map[string]any)
	if first["status"] != statusLobby {
		t.Fatalf("expected lobby status, got %v", first["status"])
	}
}

func TestResultsBeforeAnyReveal(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	host := newClient(t)
	code := createRoom(t, ts, host)

	resp := doRequest(t, ts, http.DefaultClient, http.MethodGet, "/api/rooms/"+code+"/results", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["biggest_liar"] != nil {
		t.Fatalf("expected null biggest_liar, got %v", body["biggest_liar"])
	}
	if rounds, ok := body["rounds"].([]any); !ok || len(rounds) != 0 {
		t.Fatalf("expected empty rounds, got %#v", body["rounds"])
	}
}

func TestEventsUnavailableWithoutDatabase(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	code := createRoom(t, ts, newClient(t))
	resp := doRequest(t, ts, http.DefaultClient, http.MethodGet, "/api/rooms/"+code+"/events", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, resp.StatusCode)
	}
}

func TestJoinQRServesPNG(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	code := createRoom(t, ts, newClient(t))
	resp := doRequest(t, ts, http.DefaultClient, http.MethodGet, "/api/rooms/"+code+"/qr", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %s", ct)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	createRoom(t, ts, newClient(t))
	resp := doRequest(t, ts, http.DefaultClient, http.MethodGet, "/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestCreateRoomRateLimited(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimitPerMinute = 2
	srv := New(nil, cfg)
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	createRoom(t, ts, newClient(t))
	createRoom(t, ts, newClient(t))
	resp := doRequest(t, ts, newClient(t), http.MethodPost, "/api/rooms", nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected status %d, got %d", http.StatusTooManyRequests, resp.StatusCode)
	}
}
