package meetings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/validation"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/websocket"
)

// HubInterface is the subset of the websocket hub the service needs
type HubInterface interface {
	SendToUser(userID string, msg *websocket.Message)
}

// Service implements safe zone lookup and meeting scheduling
type Service struct {
	repo          RepositoryInterface
	conversations ConversationProvider
	hub           HubInterface
}

// NewService creates a new meetings service
func NewService(repo RepositoryInterface, conversations ConversationProvider, hub HubInterface) *Service {
	return &Service{repo: repo, conversations: conversations, hub: hub}
}

// ListSafeZones returns the safe zone directory, optionally filtered by city
func (s *Service) ListSafeZones(ctx context.Context, city string) ([]*SafeZone, error) {
	return s.repo.ListSafeZones(ctx, city)
}

// ProposeMeeting proposes a handover at a safe zone. The proposer must be a
// participant of the conversation; the counterpart is notified.
func (s *Service) ProposeMeeting(ctx context.Context, proposerID uuid.UUID, req ProposeMeetingRequest) (*Meeting, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, common.NewBadRequestError(err.Error(), err)
	}

	conversation, err := s.conversations.GetConversation(ctx, req.ConversationID, proposerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetSafeZoneByID(ctx, req.SafeZoneID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	meeting := &Meeting{
		ID:             uuid.New(),
		ConversationID: conversation.ID,
		ListingID:      conversation.ListingID,
		BuyerID:        conversation.BuyerID,
		SellerID:       conversation.SellerID,
		SafeZoneID:     req.SafeZoneID,
		ProposedBy:     proposerID,
		ScheduledAt:    req.ScheduledAt.UTC(),
		Status:         StatusProposed,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateMeeting(ctx, meeting); err != nil {
		return nil, err
	}

	s.notify(counterpart(meeting, proposerID), "meeting.proposed", meeting)
	return meeting, nil
}

// ConfirmMeeting accepts a proposed meeting. Only the party who did not
// propose it can confirm.
func (s *Service) ConfirmMeeting(ctx context.Context, meetingID, userID uuid.UUID) (*Meeting, error) {
	meeting, err := s.participantMeeting(ctx, meetingID, userID)
	if err != nil {
		return nil, err
	}
	if meeting.Status != StatusProposed {
		return nil, common.NewConflictError("meeting is not awaiting confirmation", nil)
	}
	if meeting.ProposedBy == userID {
		return nil, common.NewForbiddenError("the proposing party cannot confirm the meeting")
	}

	return s.transition(ctx, meeting, StatusConfirmed, "meeting.confirmed", counterpart(meeting, userID))
}

// CancelMeeting cancels a proposed or confirmed meeting; either party may cancel
func (s *Service) CancelMeeting(ctx context.Context, meetingID, userID uuid.UUID) (*Meeting, error) {
	meeting, err := s.participantMeeting(ctx, meetingID, userID)
	if err != nil {
		return nil, err
	}
	if meeting.Status != StatusProposed && meeting.Status != StatusConfirmed {
		return nil, common.NewConflictError("meeting can no longer be cancelled", nil)
	}

	return s.transition(ctx, meeting, StatusCancelled, "meeting.cancelled", counterpart(meeting, userID))
}

// CompleteMeeting marks a confirmed meeting as completed
func (s *Service) CompleteMeeting(ctx context.Context, meetingID, userID uuid.UUID) (*Meeting, error) {
	meeting, err := s.participantMeeting(ctx, meetingID, userID)
	if err != nil {
		return nil, err
	}
	if meeting.Status != StatusConfirmed {
		return nil, common.NewConflictError("only confirmed meetings can be completed", nil)
	}

	return s.transition(ctx, meeting, StatusCompleted, "meeting.completed", counterpart(meeting, userID))
}

// ListMyMeetings returns a user's meetings, optionally only upcoming ones
func (s *Service) ListMyMeetings(ctx context.Context, userID uuid.UUID, upcomingOnly bool, limit, offset int64) ([]*Meeting, int64, error) {
	return s.repo.ListMeetingsForUser(ctx, userID, upcomingOnly, limit, offset)
}

func (s *Service) participantMeeting(ctx context.Context, meetingID, userID uuid.UUID) (*Meeting, error) {
	meeting, err := s.repo.GetMeetingByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if userID != meeting.BuyerID && userID != meeting.SellerID {
		return nil, common.NewForbiddenError("not a participant in this meeting")
	}
	return meeting, nil
}

func (s *Service) transition(ctx context.Context, meeting *Meeting, status MeetingStatus, event string, notifyUser uuid.UUID) (*Meeting, error) {
	if err := s.repo.UpdateMeetingStatus(ctx, meeting.ID, status); err != nil {
		return nil, err
	}
	meeting.Status = status
	meeting.UpdatedAt = time.Now().UTC()

	s.notify(notifyUser, event, meeting)
	return meeting, nil
}

func (s *Service) notify(userID uuid.UUID, event string, meeting *Meeting) {
	if s.hub == nil {
		return
	}
	s.hub.SendToUser(userID.String(), &websocket.Message{
		Type:   event,
		UserID: userID.String(),
		Data: map[string]interface{}{
			"meeting_id":   meeting.ID.String(),
			"listing_id":   meeting.ListingID.String(),
			"safe_zone_id": meeting.SafeZoneID.String(),
			"scheduled_at": meeting.ScheduledAt,
			"status":       meeting.Status,
		},
	})
}

func counterpart(meeting *Meeting, userID uuid.UUID) uuid.UUID {
	if userID == meeting.BuyerID {
		return meeting.SellerID
	}
	return meeting.BuyerID
}
