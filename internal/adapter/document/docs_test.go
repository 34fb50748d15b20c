package document

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
)

func TestToTime_AcceptedEncodings(t *testing.T) {
	ref := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	if got := toTime(ref); !got.Equal(ref) {
		t.Fatalf("time.Time passthrough: got %v", got)
	}
	if got := toTime(primitive.NewDateTimeFromTime(ref)); !got.Equal(ref) {
		t.Fatalf("primitive.DateTime: got %v", got)
	}
	if got := toTime(ref.UnixMilli()); !got.Equal(ref) {
		t.Fatalf("unix millis: got %v", got)
	}
	if got := toTime(ref.Format(time.RFC3339)); !got.Equal(ref) {
		t.Fatalf("rfc3339 string: got %v", got)
	}
}

func TestToTime_MalformedFallsBackToNow(t *testing.T) {
	before := time.Now()
	got := toTime("not a timestamp")
	if got.Before(before) {
		t.Fatalf("malformed input must fall back to now, got %v", got)
	}
	if got := toTime(nil); got.Before(before) {
		t.Fatalf("nil must fall back to now, got %v", got)
	}
}

func TestToTimePtr_NilStaysNil(t *testing.T) {
	if got := toTimePtr(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	ref := time.Now()
	if got := toTimePtr(ref); got == nil || !got.Equal(ref) {
		t.Fatalf("expected %v, got %v", ref, got)
	}
}

func TestMeetingCodec_Roundtrip(t *testing.T) {
	deadline := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	item := entities.NewActionItem("draft the proposal")
	item.Assign("alice", "Alice", "owner")
	item.Deadline = &deadline

	m := entities.NewMeeting("owner", "Quarterly review")
	m.Summary = "summary"
	m.RawTranscript = "transcript"
	m.TeamID = "t1"
	m.ActionItems = []entities.ActionItem{item}

	got := decodeMeeting(encodeMeeting(m))

	if got.ID != m.ID || got.OwnerID != m.OwnerID || got.Title != m.Title || got.TeamID != m.TeamID {
		t.Fatalf("identity fields changed: %+v", got)
	}
	if len(got.ActionItems) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got.ActionItems))
	}
	gotItem := got.ActionItems[0]
	if gotItem.AssigneeID != "alice" || gotItem.AssignedBy != "owner" {
		t.Fatalf("assignment fields changed: %+v", gotItem)
	}
	if gotItem.Deadline == nil || !gotItem.Deadline.Equal(deadline) {
		t.Fatalf("deadline changed: %v", gotItem.Deadline)
	}
	if gotItem.AssignedAt == nil {
		t.Fatal("assignedAt must survive the roundtrip")
	}
}

func TestActionItemDecode_NormalizesBadEnums(t *testing.T) {
	got := decodeActionItem(actionItemDoc{
		ID:          "item-1",
		Description: "stale row",
		Priority:    "urgent", // not a valid priority
		Status:      "",
	})
	if got.Priority != entities.PriorityMedium {
		t.Fatalf("invalid priority must normalize to medium, got %q", got.Priority)
	}
	if got.Status != entities.StatusPending {
		t.Fatalf("missing status must normalize to pending, got %q", got.Status)
	}
}

func TestTeamCodec_Roundtrip(t *testing.T) {
	team := entities.NewTeam("Platform", "desc", "creator", "creator@example.com", "Creator")
	team.Members = append(team.Members, entities.TeamMember{
		UserID:   "alice",
		Email:    "alice@example.com",
		Role:     entities.TeamRoleMember,
		Status:   entities.MemberStatusInvited,
		JoinedAt: time.Now(),
	})

	got := decodeTeam(encodeTeam(team))

	if got.ID != team.ID || got.CreatedBy != "creator" {
		t.Fatalf("identity fields changed: %+v", got)
	}
	if len(got.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(got.Members))
	}
	member, ok := got.Member("alice")
	if !ok || member.Status != entities.MemberStatusInvited {
		t.Fatalf("member row changed: %+v", member)
	}
}
