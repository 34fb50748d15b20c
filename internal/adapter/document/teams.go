package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
)

// CreateTeam inserts a new team document with its embedded member array.
func (s *Store) CreateTeam(ctx context.Context, t *entities.Team) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	if _, err := s.teams().InsertOne(ctx, encodeTeam(t)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", usecaseErrors.ErrAlreadyExists
		}
		return "", fmt.Errorf("failed to create team: %w", err)
	}
	return t.ID, nil
}

// GetTeamByID retrieves one team with its full member roster.
func (s *Store) GetTeamByID(ctx context.Context, teamID string) (*entities.Team, error) {
	var doc teamDoc
	err := s.teams().FindOne(ctx, bson.M{"_id": teamID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecaseErrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return decodeTeam(doc), nil
}

// GetUserTeams returns every team whose member array contains the user,
// regardless of invitation status.
func (s *Store) GetUserTeams(ctx context.Context, userID string) ([]*entities.Team, error) {
	filter := bson.M{"members.userId": userID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.teams().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer cursor.Close(ctx)

	teams := make([]*entities.Team, 0)
	for cursor.Next(ctx) {
		var doc teamDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode team: %w", err)
		}
		teams = append(teams, decodeTeam(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("team cursor failed: %w", err)
	}
	return teams, nil
}

// UpdateTeam replaces the whole document, member array included.
func (s *Store) UpdateTeam(ctx context.Context, t *entities.Team) error {
	t.Touch()
	res, err := s.teams().ReplaceOne(ctx, bson.M{"_id": t.ID}, encodeTeam(t))
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}
	if res.MatchedCount == 0 {
		return usecaseErrors.ErrTeamNotFound
	}
	return nil
}

// DeleteTeam removes the team document. Related cleanup (notifications,
// meeting assignments) is the caller's responsibility.
func (s *Store) DeleteTeam(ctx context.Context, teamID string) error {
	res, err := s.teams().DeleteOne(ctx, bson.M{"_id": teamID})
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if res.DeletedCount == 0 {
		return usecaseErrors.ErrTeamNotFound
	}
	return nil
}

// AddTeamMember appends one member to the embedded array. The filter only
// matches when the user is not already on the roster, keeping exactly one
// row per userId.
func (s *Store) AddTeamMember(ctx context.Context, teamID string, m entities.TeamMember) error {
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	filter := bson.M{"_id": teamID, "members.userId": bson.M{"$ne": m.UserID}}
	update := bson.M{
		"$push": bson.M{"members": encodeTeamMember(m)},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := s.teams().UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to add team member: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetTeamByID(ctx, teamID); err != nil {
			return err
		}
		return usecaseErrors.ErrAlreadyExists
	}
	return nil
}

// UpdateTeamMember replaces the matching array element in place.
func (s *Store) UpdateTeamMember(ctx context.Context, teamID string, m entities.TeamMember) error {
	filter := bson.M{"_id": teamID, "members.userId": m.UserID}
	update := bson.M{
		"$set": bson.M{
			"members.$": encodeTeamMember(m),
			"updatedAt": time.Now(),
		},
	}
	res, err := s.teams().UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update team member: %w", err)
	}
	if res.MatchedCount == 0 {
		return usecaseErrors.ErrMemberNotFound
	}
	return nil
}

// RemoveTeamMember pulls the member out of the embedded array. The filter
// requires the membership so an absent member is reported, not swallowed.
func (s *Store) RemoveTeamMember(ctx context.Context, teamID, userID string) error {
	filter := bson.M{"_id": teamID, "members.userId": userID}
	update := bson.M{
		"$pull": bson.M{"members": bson.M{"userId": userID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := s.teams().UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetTeamByID(ctx, teamID); err != nil {
			return err
		}
		return usecaseErrors.ErrMemberNotFound
	}
	return nil
}
