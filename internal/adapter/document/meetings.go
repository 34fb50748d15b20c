package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
)

// SaveMeeting writes the primary copy under the owner and, when the meeting
// belongs to a team, a denormalized copy in the team meetings collection.
// The team copy is best-effort: its failure is logged, never propagated.
func (s *Store) SaveMeeting(ctx context.Context, m *entities.Meeting) (string, error) {
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}

	doc := encodeMeeting(m)
	opts := options.Replace().SetUpsert(true)
	if _, err := s.meetings().ReplaceOne(ctx, bson.M{"_id": m.ID}, doc, opts); err != nil {
		return "", fmt.Errorf("failed to save meeting: %w", err)
	}

	if m.TeamID != "" {
		s.upsertTeamCopy(ctx, doc)
	}
	return m.ID, nil
}

// upsertTeamCopy maintains the denormalized copy under the team. Callers
// treat it as a side effect of the primary write.
func (s *Store) upsertTeamCopy(ctx context.Context, doc meetingDoc) {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.teamMeetings().ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		s.logger.Warn("team meeting copy failed",
			zap.String("meeting_id", doc.ID),
			zap.String("team_id", doc.TeamID),
			zap.Error(err),
		)
	}
}

// GetUserMeetings returns the owner's meetings, newest created first.
func (s *Store) GetUserMeetings(ctx context.Context, userID string) ([]*entities.Meeting, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.meetings().Find(ctx, bson.M{"ownerId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeMeetingCursor(ctx, cursor)
}

// GetMeetingByID retrieves one meeting from the owner's collection.
func (s *Store) GetMeetingByID(ctx context.Context, ownerID, meetingID string) (*entities.Meeting, error) {
	var doc meetingDoc
	err := s.meetings().FindOne(ctx, bson.M{"_id": meetingID, "ownerId": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecaseErrors.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return decodeMeeting(doc), nil
}

// UpdateMeeting replaces the primary copy, re-stamps UpdatedAt and keeps the
// team copy in sync (removing it when the meeting left its team).
func (s *Store) UpdateMeeting(ctx context.Context, m *entities.Meeting) error {
	m.Touch()
	doc := encodeMeeting(m)

	res, err := s.meetings().ReplaceOne(ctx, bson.M{"_id": m.ID, "ownerId": m.OwnerID}, doc)
	if err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
	}
	if res.MatchedCount == 0 {
		return usecaseErrors.ErrMeetingNotFound
	}

	if m.TeamID != "" {
		s.upsertTeamCopy(ctx, doc)
	} else {
		s.dropTeamCopy(ctx, m.ID)
	}
	return nil
}

func (s *Store) dropTeamCopy(ctx context.Context, meetingID string) {
	if _, err := s.teamMeetings().DeleteOne(ctx, bson.M{"_id": meetingID}); err != nil {
		s.logger.Warn("team meeting copy cleanup failed",
			zap.String("meeting_id", meetingID),
			zap.Error(err),
		)
	}
}

// DeleteMeeting removes the primary copy and, best-effort, the team copy.
func (s *Store) DeleteMeeting(ctx context.Context, ownerID, meetingID string) error {
	res, err := s.meetings().DeleteOne(ctx, bson.M{"_id": meetingID, "ownerId": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	if res.DeletedCount == 0 {
		return usecaseErrors.ErrMeetingNotFound
	}
	s.dropTeamCopy(ctx, meetingID)
	return nil
}

// GetTeamMeetings reads from the denormalized team collection, newest
// created first.
func (s *Store) GetTeamMeetings(ctx context.Context, teamID string) ([]*entities.Meeting, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.teamMeetings().Find(ctx, bson.M{"teamId": teamID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list team meetings: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeMeetingCursor(ctx, cursor)
}

// ClearMeetingTeam converts a team meeting back to a personal one: the
// teamId field is removed and the denormalized copy dropped.
func (s *Store) ClearMeetingTeam(ctx context.Context, ownerID, meetingID string) error {
	update := bson.M{
		"$unset": bson.M{"teamId": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	}
	res, err := s.meetings().UpdateOne(ctx, bson.M{"_id": meetingID, "ownerId": ownerID}, update)
	if err != nil {
		return fmt.Errorf("failed to clear meeting team: %w", err)
	}
	if res.MatchedCount == 0 {
		return usecaseErrors.ErrMeetingNotFound
	}
	s.dropTeamCopy(ctx, meetingID)
	return nil
}

func decodeMeetingCursor(ctx context.Context, cursor *mongo.Cursor) ([]*entities.Meeting, error) {
	meetings := make([]*entities.Meeting, 0)
	for cursor.Next(ctx) {
		var doc meetingDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode meeting: %w", err)
		}
		meetings = append(meetings, decodeMeeting(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("meeting cursor failed: %w", err)
	}
	return meetings, nil
}
