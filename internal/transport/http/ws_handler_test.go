package http

import (
	"net/http"
	"testing"
	"time"

	"finergy-service/internal/domain"
	"github.com/gorilla/websocket"
)

func TestLeaderboardStreamPushesOnScoreChange(t *testing.T) {
	server := newTestServer(t)
	token := signUp(t, server, "frank@example.com")

	u := "ws" + server.URL[len("http"):] + "/ws/leaderboard?zip=94720"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The first frame is the current (empty) cohort snapshot.
	board := readBoard(t, conn)
	if len(board.Entries) != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", board)
	}

	doJSON(t, server, http.MethodPost, "/api/evaluation", token,
		map[string]any{"zipCode": "94720", "answers": greenestAnswers()},
		http.StatusOK, nil)

	board = readBoard(t, conn)
	if len(board.Entries) != 1 || board.Entries[0].Score != 10.0 {
		t.Fatalf("expected pushed snapshot with the new score, got %+v", board)
	}
	if board.ZipCode != "94720" {
		t.Fatalf("expected cohort zip on the snapshot, got %q", board.ZipCode)
	}
}

func TestLeaderboardStreamRejectsBadZip(t *testing.T) {
	server := newTestServer(t)
	u := "ws" + server.URL[len("http"):] + "/ws/leaderboard?zip=abc"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected dial to fail for invalid zip")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 handshake response, got %+v", resp)
	}
}

func readBoard(t *testing.T, conn *websocket.Conn) domain.Leaderboard {
	t.Helper()
	var msg struct {
		Type    string             `json:"type"`
		Payload domain.Leaderboard `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if msg.Type != "leaderboard" {
		t.Fatalf("expected leaderboard frame, got %s", msg.Type)
	}
	return msg.Payload
}
