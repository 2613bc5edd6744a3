package meetings

import (
	"context"

	"github.com/google/uuid"

	"github.com/geargillie/safetrade-mvp-sub000/internal/messaging"
)

// RepositoryInterface defines safe zone and meeting persistence
type RepositoryInterface interface {
	ListSafeZones(ctx context.Context, city string) ([]*SafeZone, error)
	GetSafeZoneByID(ctx context.Context, id uuid.UUID) (*SafeZone, error)
	CreateMeeting(ctx context.Context, meeting *Meeting) error
	GetMeetingByID(ctx context.Context, id uuid.UUID) (*Meeting, error)
	ListMeetingsForUser(ctx context.Context, userID uuid.UUID, upcomingOnly bool, limit, offset int64) ([]*Meeting, int64, error)
	UpdateMeetingStatus(ctx context.Context, id uuid.UUID, status MeetingStatus) error
}

// ConversationProvider resolves the conversation a meeting is anchored to.
// Satisfied by the messaging service.
type ConversationProvider interface {
	GetConversation(ctx context.Context, conversationID, requesterID uuid.UUID) (*messaging.Conversation, error)
}

// ServiceInterface defines meeting operations
type ServiceInterface interface {
	ListSafeZones(ctx context.Context, city string) ([]*SafeZone, error)
	ProposeMeeting(ctx context.Context, proposerID uuid.UUID, req ProposeMeetingRequest) (*Meeting, error)
	ConfirmMeeting(ctx context.Context, meetingID, userID uuid.UUID) (*Meeting, error)
	CancelMeeting(ctx context.Context, meetingID, userID uuid.UUID) (*Meeting, error)
	CompleteMeeting(ctx context.Context, meetingID, userID uuid.UUID) (*Meeting, error)
	ListMyMeetings(ctx context.Context, userID uuid.UUID, upcomingOnly bool, limit, offset int64) ([]*Meeting, int64, error)
}
