package document

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
)

// SaveTask upserts the denormalized task document. The task shares its id
// with the action item it was derived from, so repeated assignments of the
// same item converge on one document.
func (s *Store) SaveTask(ctx context.Context, t *entities.Task) error {
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	if _, err := s.tasks().ReplaceOne(ctx, bson.M{"_id": t.ID}, encodeTask(t), opts); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// GetUserTasks returns tasks assigned to the user, newest first.
func (s *Store) GetUserTasks(ctx context.Context, userID string) ([]*entities.Task, error) {
	return s.findTasks(ctx, bson.M{"assigneeId": userID})
}

// GetAssignedTasks returns every task that has an assignee. The overdue
// scanner walks this set.
func (s *Store) GetAssignedTasks(ctx context.Context) ([]*entities.Task, error) {
	filter := bson.M{"assigneeId": bson.M{"$exists": true, "$ne": ""}}
	return s.findTasks(ctx, filter)
}

// DeleteTasksForMeeting removes every task derived from the meeting.
func (s *Store) DeleteTasksForMeeting(ctx context.Context, meetingID string) error {
	if _, err := s.tasks().DeleteMany(ctx, bson.M{"meetingId": meetingID}); err != nil {
		return fmt.Errorf("failed to delete meeting tasks: %w", err)
	}
	return nil
}

func (s *Store) findTasks(ctx context.Context, filter bson.M) ([]*entities.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.tasks().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeTaskCursor(ctx, cursor)
}

func decodeTaskCursor(ctx context.Context, cursor *mongo.Cursor) ([]*entities.Task, error) {
	tasks := make([]*entities.Task, 0)
	for cursor.Next(ctx) {
		var doc taskDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode task: %w", err)
		}
		tasks = append(tasks, decodeTask(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("task cursor failed: %w", err)
	}
	return tasks, nil
}
