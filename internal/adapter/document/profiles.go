package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
)

// SaveUserProfile upserts the profile keyed by user id. The lowercased email
// is stored alongside so lookups by email stay an exact match.
func (s *Store) SaveUserProfile(ctx context.Context, p *entities.UserProfile) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	if _, err := s.profiles().ReplaceOne(ctx, bson.M{"_id": p.UserID}, encodeProfile(p), opts); err != nil {
		return fmt.Errorf("failed to save user profile: %w", err)
	}
	return nil
}

// GetUserProfile retrieves one profile by user id.
func (s *Store) GetUserProfile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	var doc profileDoc
	err := s.profiles().FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecaseErrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return decodeProfile(doc), nil
}

// SearchUserByEmail finds a profile by email, case-insensitively. A missing
// user is not an error: both return values are nil.
func (s *Store) SearchUserByEmail(ctx context.Context, email string) (*entities.UserProfile, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, nil
	}

	var doc profileDoc
	err := s.profiles().FindOne(ctx, bson.M{"emailLower": normalized}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to search user by email: %w", err)
	}
	return decodeProfile(doc), nil
}
