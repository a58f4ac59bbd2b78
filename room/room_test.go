package room

import (
	"net"
	"os"
	"testing"
	"time"

	"github.com/bistroduet/gameserver/logger"
	"github.com/bistroduet/gameserver/network"
	"github.com/bistroduet/gameserver/session"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// MockBroadcaster is a test double for the Broadcaster interface.
type MockBroadcaster struct{}

func (m *MockBroadcaster) BroadcastToRoom(roomID string, msgID uint16, data []byte) error {
	return nil
}

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(msgID uint16, data []byte) error { return nil }

func (m *MockConnection) Close() error { return nil }

func (m *MockConnection) RemoteAddr() net.Addr { return &net.TCPAddr{} }

func (m *MockConnection) SetHeartbeat(interval time.Duration) {}

func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func newTestSession(id string) *session.Session {
	return session.NewSession(id, &MockConnection{})
}

func newTestManager() *Manager {
	return NewManager(30 * time.Second)
}

func TestManager_CreateOrGet(t *testing.T) {
	manager := newTestManager()
	mockBroadcaster := &MockBroadcaster{}

	r, created := manager.CreateOrGet("table-for-two", mockBroadcaster)
	if r == nil {
		t.Fatal("CreateOrGet should not return nil")
	}
	if !created {
		t.Error("first CreateOrGet should report creation")
	}
	defer r.Close()

	again, created := manager.CreateOrGet("table-for-two", mockBroadcaster)
	if created {
		t.Error("second CreateOrGet should return the existing room")
	}
	if again != r {
		t.Error("CreateOrGet should return the same room instance")
	}
}

func TestRoom_AddPlayer_RoleUniqueness(t *testing.T) {
	r := NewRoom("roles", 30*time.Second, &MockBroadcaster{})
	defer r.Close()

	if _, err := r.AddPlayer(newTestSession("p1"), RoleVisitor, "ada"); err != nil {
		t.Fatalf("first visitor should join: %v", err)
	}

	if _, err := r.AddPlayer(newTestSession("p2"), RoleVisitor, "grace"); err != ErrRoleTaken {
		t.Errorf("expected ErrRoleTaken for a second visitor, got %v", err)
	}

	if _, err := r.AddPlayer(newTestSession("p3"), RoleChef, "auguste"); err != nil {
		t.Fatalf("chef should join: %v", err)
	}

	if r.PlayerCount() != 2 {
		t.Errorf("expected 2 players, got %d", r.PlayerCount())
	}
}

func TestRoom_AddPlayer_Full(t *testing.T) {
	r := NewRoom("full", 30*time.Second, &MockBroadcaster{})
	defer r.Close()

	r.AddPlayer(newTestSession("p1"), RoleVisitor, "ada")
	r.AddPlayer(newTestSession("p2"), RoleChef, "auguste")

	// Both roles taken and the cap is two, so any join fails.
	if _, err := r.AddPlayer(newTestSession("p3"), RoleVisitor, "late"); err != ErrRoomFull {
		t.Errorf("expected ErrRoomFull, got %v", err)
	}
}

func TestManager_RemovePlayer_DeletesEmptyRoom(t *testing.T) {
	manager := newTestManager()
	r, _ := manager.CreateOrGet("teardown", &MockBroadcaster{})

	sess := newTestSession("p1")
	r.AddPlayer(sess, RoleVisitor, "ada")

	_, deleted := manager.RemovePlayer("teardown", sess.GetID())
	if !deleted {
		t.Fatal("room with no players left should be deleted")
	}

	if _, exists := manager.Get("teardown"); exists {
		t.Error("deleted room should not be retrievable")
	}
}

// Rejoining under the same code after teardown gets a brand-new room with
// a completely fresh table inventory.
func TestManager_RecreatedRoomHasFreshTables(t *testing.T) {
	manager := newTestManager()
	r, _ := manager.CreateOrGet("fresh", &MockBroadcaster{})

	sess := newTestSession("p1")
	r.AddPlayer(sess, RoleVisitor, "ada")

	tbl, found := r.Tables.FindAvailable(2)
	if !found {
		t.Fatal("fresh room should have a free table")
	}
	if !r.Tables.Reserve(tbl.ID, sess.GetID()) {
		t.Fatal("reservation on a free table should succeed")
	}

	manager.RemovePlayer("fresh", sess.GetID())

	recreated, created := manager.CreateOrGet("fresh", &MockBroadcaster{})
	defer recreated.Close()
	if !created {
		t.Fatal("room should have been recreated, not reused")
	}

	got, ok := recreated.Tables.Get(tbl.ID)
	if !ok {
		t.Fatal("recreated room should have the full table layout")
	}
	if got.IsOccupied {
		t.Error("no stale reservation may survive room recreation")
	}
}

func TestRoom_GetByRole(t *testing.T) {
	r := NewRoom("lookup", 30*time.Second, &MockBroadcaster{})
	defer r.Close()

	visitorSess := newTestSession("v")
	r.AddPlayer(visitorSess, RoleVisitor, "ada")

	p, ok := r.GetByRole(RoleVisitor)
	if !ok {
		t.Fatal("visitor should be found by role")
	}
	if p.Session.GetID() != "v" {
		t.Errorf("wrong player returned for role lookup: %s", p.Session.GetID())
	}

	if _, ok := r.GetByRole(RoleChef); ok {
		t.Error("chef lookup should fail in a chef-less room")
	}
}

func TestRoom_Summary(t *testing.T) {
	r := NewRoom("summary", 30*time.Second, &MockBroadcaster{})
	defer r.Close()

	r.AddPlayer(newTestSession("v"), RoleVisitor, "ada")
	r.SetRating(4)

	summary := r.Summary()
	if summary.RoomID != "summary" {
		t.Errorf("unexpected room id %q", summary.RoomID)
	}
	if summary.Rating != 4 {
		t.Errorf("expected rating 4, got %d", summary.Rating)
	}
	if len(summary.Players) != 1 {
		t.Errorf("expected 1 player in summary, got %d", len(summary.Players))
	}
}
