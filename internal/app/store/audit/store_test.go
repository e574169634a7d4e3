package audit_test

import (
	"testing"
	"time"

	"github.com/sroam/sroregistry/internal/app/store/audit"
	"github.com/sroam/sroregistry/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actorID := primitive.NewObjectID()
	memberID := primitive.NewObjectID()
	event := audit.Event{
		Category:  audit.CategoryRegistry,
		EventType: audit.EventMemberCreated,
		ActorID:   &actorID,
		MemberID:  &memberID,
		IP:        "192.168.1.1",
		UserAgent: "TestBrowser/1.0",
		Success:   true,
	}

	if err := store.Log(ctx, event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByMember(ctx, memberID, 10)
	if err != nil {
		t.Fatalf("GetByMember failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be auto-generated")
	}
	if events[0].ActorID == nil || *events[0].ActorID != actorID {
		t.Errorf("actor_id not stored")
	}
}

func TestStore_Log_AutoSetsTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	before := time.Now().Add(-time.Second)
	if err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryRegistry,
		EventType: audit.EventRegistryExported,
		IP:        "192.168.1.1",
		Success:   true,
	}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	after := time.Now().Add(time.Second)

	events, err := store.Query(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Timestamp.Before(before) || events[0].Timestamp.After(after) {
		t.Errorf("expected timestamp to be set to current time, got %v", events[0].Timestamp)
	}
}

func TestStore_Query_ByEventTypeAndActor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor1 := primitive.NewObjectID()
	actor2 := primitive.NewObjectID()

	for _, e := range []audit.Event{
		{Category: audit.CategoryRegistry, EventType: audit.EventMemberCreated, ActorID: &actor1, Success: true},
		{Category: audit.CategoryRegistry, EventType: audit.EventMemberUpdated, ActorID: &actor1, Success: true},
		{Category: audit.CategoryRegistry, EventType: audit.EventMemberUpdated, ActorID: &actor2, Success: true},
		{Category: audit.CategoryRegistry, EventType: audit.EventMemberDeleted, ActorID: &actor2, Success: true},
	} {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	events, err := store.Query(ctx, audit.QueryFilter{EventType: audit.EventMemberUpdated})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 member_updated events, got %d", len(events))
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{ActorID: &actor2})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 events for actor2, got %d", n)
	}
}

func TestStore_Query_Limit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	memberID := primitive.NewObjectID()
	for i := 0; i < 5; i++ {
		if err := store.Log(ctx, audit.Event{
			Category:  audit.CategoryRegistry,
			EventType: audit.EventMemberUpdated,
			MemberID:  &memberID,
			Success:   true,
		}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	events, err := store.GetByMember(ctx, memberID, 3)
	if err != nil {
		t.Fatalf("GetByMember failed: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events, got %d", len(events))
	}
}
