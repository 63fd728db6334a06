package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/coder/websocket"
	syncpkg "github.com/ecmaops/stagesync/internal/sync"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	server := NewServer(&Config{
		Port:   0, // Use random available port
		Logger: log.New(os.Stderr, "[test] ", log.LstdFlags),
	})

	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	t.Cleanup(func() { _ = server.Stop() })

	// Give server time to start
	time.Sleep(100 * time.Millisecond)

	return server
}

func dialTestClient(t *testing.T, ctx context.Context, server *Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws://" + server.GetAddr() + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect WebSocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })

	// Read welcome message
	if _, _, err := conn.Read(ctx); err != nil {
		t.Fatalf("Failed to read welcome message: %v", err)
	}

	return conn
}

func TestServerStartStop(t *testing.T) {
	server := NewServer(&Config{
		Port:   0,
		Logger: log.New(os.Stderr, "[test] ", log.LstdFlags),
	})

	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if server.GetAddr() == "" {
		t.Fatal("Server address is empty")
	}

	if err := server.Stop(); err != nil {
		t.Fatalf("Failed to stop server: %v", err)
	}
}

func TestWebSocketConnection(t *testing.T) {
	server := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws://" + server.GetAddr() + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect WebSocket: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	if count := server.ClientCount(); count != 1 {
		t.Errorf("Expected 1 client, got %d", count)
	}

	// The welcome message is a stats frame
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Failed to read welcome message: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if msg.Type != MessageTypeStats {
		t.Errorf("Expected welcome message type %s, got %s", MessageTypeStats, msg.Type)
	}
}

func TestMessageBroadcast(t *testing.T) {
	server := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialTestClient(t, ctx, server)

	testData := ProposalSyncedData{
		Identifier: "proposal-temporal",
		Name:       "Temporal",
		Action:     "create",
		Key:        "STD-42",
	}

	dataJSON, _ := json.Marshal(testData)
	server.Broadcast(Message{
		Type:      MessageTypeProposalSynced,
		Timestamp: time.Now(),
		Data:      dataJSON,
	})

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Failed to read broadcast message: %v", err)
	}

	var received Message
	if err := json.Unmarshal(data, &received); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if received.Type != MessageTypeProposalSynced {
		t.Errorf("Expected message type %s, got %s", MessageTypeProposalSynced, received.Type)
	}

	var receivedData ProposalSyncedData
	if err := json.Unmarshal(received.Data, &receivedData); err != nil {
		t.Fatalf("Failed to unmarshal proposal data: %v", err)
	}
	if receivedData.Identifier != testData.Identifier {
		t.Errorf("Expected identifier %s, got %s", testData.Identifier, receivedData.Identifier)
	}
	if receivedData.Key != "STD-42" {
		t.Errorf("Expected key STD-42, got %s", receivedData.Key)
	}
}

func TestHandlerProposalSynced(t *testing.T) {
	server := newTestServer(t)
	handler := NewHandler(server, log.New(os.Stderr, "[test-handler] ", log.LstdFlags))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialTestClient(t, ctx, server)

	handler.OnProposalSynced(syncpkg.Outcome{
		Identifier: "proposal-records",
		Name:       "Records & Tuples",
		Action:     syncpkg.ActionUpdate,
		Key:        "STD-17",
	})

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Failed to read proposal update: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if msg.Type != MessageTypeProposalSynced {
		t.Errorf("Expected message type %s, got %s", MessageTypeProposalSynced, msg.Type)
	}

	var proposalData ProposalSyncedData
	if err := json.Unmarshal(msg.Data, &proposalData); err != nil {
		t.Fatalf("Failed to unmarshal proposal data: %v", err)
	}
	if proposalData.Action != "update" {
		t.Errorf("Expected action 'update', got %s", proposalData.Action)
	}
	if proposalData.Error != "" {
		t.Errorf("Expected no error, got %q", proposalData.Error)
	}
}

func TestHandlerProposalSyncedError(t *testing.T) {
	server := newTestServer(t)
	handler := NewHandler(server, log.New(os.Stderr, "[test-handler] ", log.LstdFlags))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialTestClient(t, ctx, server)

	handler.OnProposalSynced(syncpkg.Outcome{
		Identifier: "proposal-broken",
		Name:       "Broken",
		Action:     syncpkg.ActionCreate,
		Err:        fmt.Errorf("gateway refused"),
	})

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Failed to read proposal update: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}

	var proposalData ProposalSyncedData
	if err := json.Unmarshal(msg.Data, &proposalData); err != nil {
		t.Fatalf("Failed to unmarshal proposal data: %v", err)
	}
	if proposalData.Error != "gateway refused" {
		t.Errorf("Expected error to be carried, got %q", proposalData.Error)
	}
}

func TestHandlerRunComplete(t *testing.T) {
	server := newTestServer(t)
	handler := NewHandler(server, log.New(os.Stderr, "[test-handler] ", log.LstdFlags))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialTestClient(t, ctx, server)

	res := &syncpkg.Result{Created: 2, Updated: 10, Skipped: 5, Failed: 1}
	handler.OnRunComplete(res, 2*time.Second)

	// Run completion frame first
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Failed to read run complete: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if msg.Type != MessageTypeRunComplete {
		t.Errorf("Expected message type %s, got %s", MessageTypeRunComplete, msg.Type)
	}

	var runData RunCompleteData
	if err := json.Unmarshal(msg.Data, &runData); err != nil {
		t.Fatalf("Failed to unmarshal run data: %v", err)
	}
	if runData.Updated != 10 || runData.Failed != 1 {
		t.Errorf("Unexpected run data: %+v", runData)
	}

	// Stats frame follows
	_, data, err = conn.Read(ctx)
	if err != nil {
		t.Fatalf("Failed to read stats update: %v", err)
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal stats message: %v", err)
	}
	if msg.Type != MessageTypeStats {
		t.Errorf("Expected message type %s, got %s", MessageTypeStats, msg.Type)
	}

	// Counters accumulate across runs
	handler.OnRunComplete(res, time.Second)
	stats := handler.GetStats()
	if stats.Runs != 2 || stats.Updated != 20 {
		t.Errorf("Expected cumulative stats runs=2 updated=20, got %+v", stats)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get("http://" + server.GetAddr() + "/health")
	if err != nil {
		t.Fatalf("Failed to GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
}
