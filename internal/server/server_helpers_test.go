package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func createRoom(t *testing.T, ts *httptest.Server, host *http.Client) string {
	t.Helper()
	resp := doRequest(t, ts, host, http.MethodPost, "/api/rooms", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return body["room_code"].(string)
}

func joinRoom(t *testing.T, ts *httptest.Server, client *http.Client, code, name string) int {
	t.Helper()
	resp := doRequest(t, ts, client, http.MethodPost, "/api/rooms/"+code+"/join", map[string]string{
		"name": name,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return int(body["player_id"].(float64))
}

func setTruth(t *testing.T, ts *httptest.Server, client *http.Client, code, statement string) {
	t.Helper()
	resp := doRequest(t, ts, client, http.MethodPost, "/api/rooms/"+code+"/truth", map[string]string{
		"statement": statement,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func castVote(t *testing.T, ts *httptest.Server, client *http.Client, code, choice string) *http.Response {
	t.Helper()
	return doRequest(t, ts, client, http.MethodPost, "/api/rooms/"+code+"/votes", map[string]string{
		"choice": choice,
	})
}

func fetchSnapshot(t *testing.T, ts *httptest.Server, code string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.DefaultClient, http.MethodGet, "/api/rooms/"+code, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func fetchView(t *testing.T, ts *httptest.Server, client *http.Client, code string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, client, http.MethodGet, "/api/rooms/"+code+"/view", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func doRequest(t *testing.T, ts *httptest.Server, client *http.Client, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

// startedRoom wires a room with three ready players and an open first
// round. The returned clients are host (also the first speaker), second
// and third player in join order.
func startedRoom(t *testing.T, ts *httptest.Server) (code string, host, second, third *http.Client) {
	t.Helper()
	host = newClient(t)
	second = newClient(t)
	third = newClient(t)

	code = createRoom(t, ts, host)
	joinRoom(t, ts, host, code, "Ada")
	joinRoom(t, ts, second, code, "Ben")
	joinRoom(t, ts, third, code, "Cara")
	setTruth(t, ts, host, code, "I once hiked the Appalachian trail")
	setTruth(t, ts, second, code, "I can juggle five oranges")
	setTruth(t, ts, third, code, "I have never eaten a mango")

	resp := doRequest(t, ts, host, http.MethodPost, "/api/rooms/"+code+"/start", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return code, host, second, third
}
