package http

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"circuitquest-service/internal/domain"
	"github.com/gorilla/websocket"
)

func TestWebSocketStreamsRoundState(t *testing.T) {
	server, _ := newTestServer(t)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?teamId=t1"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Initial snapshot arrives first.
	var initial outboundMessage
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if initial.Type != "roundState" || initial.Payload.Status() != domain.StatusNotStarted {
		t.Fatalf("unexpected initial message: %+v", initial)
	}

	// A committed answer pushes an update.
	status, body := postJSON(t, server.URL+"/api/round/quiz/answer", map[string]interface{}{
		"teamId":     "t1",
		"questionId": "q-choice",
		"answer":     "2",
	})
	if status != http.StatusOK {
		t.Fatalf("answer failed: %d %s", status, body)
	}

	var update outboundMessage
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if update.Payload.TotalBalance != 1300 || update.Payload.EarnedAmount != 100 {
		t.Fatalf("unexpected update: %+v", update.Payload)
	}
}

func TestWebSocketRejectsUnknownTeam(t *testing.T) {
	server, _ := newTestServer(t)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?teamId=ghost"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail for unknown team")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 handshake response, got %+v", resp)
	}
}
