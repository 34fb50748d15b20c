// Package meeting implements transcript processing and the meeting
// lifecycle, including team sharing and the derived task cleanup that
// follows a deletion.
package meeting

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/repositories"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/notification"
	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/ai"
)

// Service defines the interface for meeting use case
type Service interface {
	// ProcessTranscript runs extraction over a raw transcript and persists
	// the resulting meeting.
	ProcessTranscript(ctx context.Context, input ProcessInput) (*entities.Meeting, error)

	// GetMeeting retrieves one meeting for its owner.
	GetMeeting(ctx context.Context, ownerID, meetingID string) (*entities.Meeting, error)

	// ListMeetings retrieves the owner's meetings.
	ListMeetings(ctx context.Context, ownerID string) ([]*entities.Meeting, error)

	// ListTeamMeetings retrieves a team's meetings for one of its members.
	ListTeamMeetings(ctx context.Context, teamID, userID string) ([]*entities.Meeting, error)

	// UpdateMeeting persists edits and tells team members about them.
	UpdateMeeting(ctx context.Context, userID string, m *entities.Meeting) error

	// AssignToTeam shares a meeting with a team.
	AssignToTeam(ctx context.Context, ownerID, meetingID, teamID string) error

	// RemoveFromTeam makes a team meeting personal again.
	RemoveFromTeam(ctx context.Context, ownerID, meetingID string) error

	// DeleteMeeting removes the meeting and its derived tasks.
	DeleteMeeting(ctx context.Context, ownerID, meetingID string) error

	// Subscribe streams the owner's meeting list.
	Subscribe(ctx context.Context, ownerID string, fn func([]*entities.Meeting)) repositories.Unsubscribe

	// SubscribeTeam streams a team's meeting list.
	SubscribeTeam(ctx context.Context, teamID string, fn func([]*entities.Meeting)) repositories.Unsubscribe
}

// ProcessInput carries one transcript to process.
type ProcessInput struct {
	OwnerID    string
	Title      string
	Transcript string
	TeamID     string
}

// Archiver stores large transcripts outside the database and returns an
// opaque reference.
type Archiver interface {
	Archive(ctx context.Context, meetingID string, transcript string) (string, error)
	Retrieve(ctx context.Context, ref string) (string, error)
}

var _ Service = (*MeetingService)(nil)

// MeetingService implements Service.
type MeetingService struct {
	store     repositories.Store
	extractor ai.Extractor
	archiver  Archiver
	notifier  notification.Service
	logger    *zap.Logger

	// archiveThreshold is the transcript size in bytes beyond which the raw
	// text moves to object storage. Zero disables archiving.
	archiveThreshold int
}

// NewService creates a MeetingService. extractor and archiver may be nil:
// without an extractor transcripts are stored unanalyzed, without an
// archiver every transcript stays inline.
func NewService(store repositories.Store, extractor ai.Extractor, archiver Archiver, notifier notification.Service, archiveThreshold int, logger *zap.Logger) *MeetingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeetingService{
		store:            store,
		extractor:        extractor,
		archiver:         archiver,
		notifier:         notifier,
		logger:           logger,
		archiveThreshold: archiveThreshold,
	}
}

func (s *MeetingService) ProcessTranscript(ctx context.Context, input ProcessInput) (*entities.Meeting, error) {
	if input.OwnerID == "" {
		return nil, usecaseErrors.ErrInvalidInput
	}
	if strings.TrimSpace(input.Transcript) == "" {
		return nil, usecaseErrors.ErrEmptyTranscript
	}

	title := input.Title
	if title == "" {
		title = "Untitled meeting"
	}
	meeting := entities.NewMeeting(input.OwnerID, title)
	meeting.RawTranscript = input.Transcript
	meeting.TeamID = input.TeamID

	if s.extractor != nil {
		analysis, err := s.extractor.Extract(ctx, input.Transcript)
		if err != nil {
			// Extraction failures degrade to a transcript-only meeting
			// rather than losing the recording.
			s.logger.Warn("transcript analysis failed, saving without summary",
				zap.String("owner_id", input.OwnerID),
				zap.Error(err),
			)
		} else {
			meeting.Summary = analysis.Summary
			for _, extracted := range analysis.ActionItems {
				item := entities.NewActionItem(extracted.Description)
				item.Owner = extracted.Owner
				if extracted.Priority.IsValid() {
					item.Priority = extracted.Priority
				}
				item.Deadline = extracted.Deadline
				meeting.ActionItems = append(meeting.ActionItems, item)
			}
		}
	}

	s.maybeArchive(ctx, meeting)

	if _, err := s.store.SaveMeeting(ctx, meeting); err != nil {
		return nil, err
	}

	if meeting.TeamID != "" {
		s.notifyTeam(ctx, meeting, entities.NotificationMeetingAssignment,
			"New team meeting",
			fmt.Sprintf("%s was shared with your team", meeting.Title))
	}
	return meeting, nil
}

// maybeArchive moves a large transcript to object storage, keeping only the
// reference inline. An archive failure leaves the transcript where it is.
func (s *MeetingService) maybeArchive(ctx context.Context, m *entities.Meeting) {
	if s.archiver == nil || s.archiveThreshold <= 0 || len(m.RawTranscript) < s.archiveThreshold {
		return
	}
	ref, err := s.archiver.Archive(ctx, m.ID, m.RawTranscript)
	if err != nil {
		s.logger.Warn("transcript archive failed, keeping inline",
			zap.String("meeting_id", m.ID),
			zap.Error(err),
		)
		return
	}
	m.TranscriptRef = ref
	m.RawTranscript = ""
}

func (s *MeetingService) GetMeeting(ctx context.Context, ownerID, meetingID string) (*entities.Meeting, error) {
	meeting, err := s.store.GetMeetingByID(ctx, ownerID, meetingID)
	if err != nil {
		return nil, err
	}
	// Archived transcripts are rehydrated for single-meeting reads only;
	// list endpoints stay light.
	if meeting.TranscriptRef != "" && meeting.RawTranscript == "" && s.archiver != nil {
		transcript, err := s.archiver.Retrieve(ctx, meeting.TranscriptRef)
		if err != nil {
			s.logger.Warn("transcript retrieval failed",
				zap.String("meeting_id", meetingID),
				zap.Error(err),
			)
		} else {
			meeting.RawTranscript = transcript
		}
	}
	return meeting, nil
}

func (s *MeetingService) ListMeetings(ctx context.Context, ownerID string) ([]*entities.Meeting, error) {
	return s.store.GetUserMeetings(ctx, ownerID)
}

func (s *MeetingService) ListTeamMeetings(ctx context.Context, teamID, userID string) ([]*entities.Meeting, error) {
	team, err := s.store.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.HasMember(userID) && team.CreatedBy != userID {
		return nil, usecaseErrors.ErrForbidden
	}
	return s.store.GetTeamMeetings(ctx, teamID)
}

func (s *MeetingService) UpdateMeeting(ctx context.Context, userID string, m *entities.Meeting) error {
	if m == nil {
		return usecaseErrors.ErrInvalidInput
	}
	if m.OwnerID != userID {
		return usecaseErrors.ErrForbidden
	}

	previous, err := s.store.GetMeetingByID(ctx, userID, m.ID)
	if err != nil {
		return err
	}

	if err := s.store.UpdateMeeting(ctx, m); err != nil {
		return err
	}

	if m.TeamID != "" {
		s.notifyTeam(ctx, m, entities.NotificationMeetingUpdate,
			"Meeting updated", updateMessage(previous, m))
	}
	return nil
}

// updateMessage names the part of the meeting that changed so members know
// whether to re-read the summary or their action items.
func updateMessage(before, after *entities.Meeting) string {
	switch {
	case !sameItems(before.ActionItems, after.ActionItems):
		return fmt.Sprintf("Action items changed in %s", after.Title)
	case before.Summary != after.Summary:
		return fmt.Sprintf("The summary of %s was updated", after.Title)
	default:
		return fmt.Sprintf("%s was updated", after.Title)
	}
}

// sameItems treats a nil slice and an empty slice as equal.
func sameItems(a, b []entities.ActionItem) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func (s *MeetingService) AssignToTeam(ctx context.Context, ownerID, meetingID, teamID string) error {
	meeting, err := s.store.GetMeetingByID(ctx, ownerID, meetingID)
	if err != nil {
		return err
	}
	team, err := s.store.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if !team.HasMember(ownerID) && team.CreatedBy != ownerID {
		return usecaseErrors.ErrForbidden
	}

	meeting.TeamID = teamID
	if err := s.store.UpdateMeeting(ctx, meeting); err != nil {
		return err
	}

	s.notifyTeam(ctx, meeting, entities.NotificationMeetingAssignment,
		"New team meeting",
		fmt.Sprintf("%s was shared with your team", meeting.Title))
	return nil
}

func (s *MeetingService) RemoveFromTeam(ctx context.Context, ownerID, meetingID string) error {
	return s.store.ClearMeetingTeam(ctx, ownerID, meetingID)
}

func (s *MeetingService) DeleteMeeting(ctx context.Context, ownerID, meetingID string) error {
	if err := s.store.DeleteMeeting(ctx, ownerID, meetingID); err != nil {
		return err
	}
	if err := s.store.DeleteTasksForMeeting(ctx, meetingID); err != nil {
		s.logger.Warn("task cleanup failed after meeting delete",
			zap.String("meeting_id", meetingID),
			zap.Error(err),
		)
	}
	return nil
}

func (s *MeetingService) Subscribe(ctx context.Context, ownerID string, fn func([]*entities.Meeting)) repositories.Unsubscribe {
	return s.store.SubscribeUserMeetings(ctx, ownerID, fn)
}

func (s *MeetingService) SubscribeTeam(ctx context.Context, teamID string, fn func([]*entities.Meeting)) repositories.Unsubscribe {
	return s.store.SubscribeTeamMeetings(ctx, teamID, fn)
}

// notifyTeam fans a meeting event out to every active member except the
// owner. Delivery problems are logged, never returned: the meeting write
// already succeeded.
func (s *MeetingService) notifyTeam(ctx context.Context, m *entities.Meeting, typ entities.NotificationType, title, message string) {
	if s.notifier == nil {
		return
	}
	team, err := s.store.GetTeamByID(ctx, m.TeamID)
	if err != nil {
		s.logger.Warn("team lookup failed for meeting notification",
			zap.String("team_id", m.TeamID),
			zap.Error(err),
		)
		return
	}

	recipients := make([]string, 0, len(team.Members))
	for _, member := range team.ActiveMembers() {
		if member.UserID == m.OwnerID {
			continue
		}
		recipients = append(recipients, member.UserID)
	}

	err = s.notifier.NotifyMany(ctx, recipients, notification.NotifyInput{
		Type:    typ,
		Title:   title,
		Message: message,
		Data: map[string]any{
			"meetingId": m.ID,
			"teamId":    m.TeamID,
		},
		DedupKey: fmt.Sprintf("%s:%s:%s", typ, m.ID, m.UpdatedAt.Format("20060102150405")),
	})
	if err != nil {
		s.logger.Warn("team meeting notification incomplete",
			zap.String("meeting_id", m.ID),
			zap.Error(err),
		)
	}
}
