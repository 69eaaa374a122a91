package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/noteflow-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Token  string    `json:"token"`
}

// UserResponse is the external representation of an account.
type UserResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateNoteRequest defines the payload for creating a note.
type CreateNoteRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// UpdateNoteRequest defines the payload for editing a note. Content may be
// unchanged when only a summary regeneration is requested.
type UpdateNoteRequest struct {
	Content           string `json:"content" validate:"required,min=1"`
	RegenerateSummary bool   `json:"regenerate_summary"`
}

// NoteResponse is the external representation of a note. Summary and
// SummaryState are what clients poll after a create or edit.
type NoteResponse struct {
	ID             uuid.UUID `json:"id"`
	Content        string    `json:"content"`
	Summary        *string   `json:"summary"`
	SummaryState   string    `json:"summary_state"`
	ContentVersion int64     `json:"content_version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NoteListResponse wraps a page of notes.
type NoteListResponse struct {
	Notes []NoteResponse `json:"notes"`
	Count int            `json:"count"`
}

// UnsubscribeRequest defines the payload for removing a push subscription.
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
}

// SubscriptionResponse is the external representation of a push subscription.
// Key material is never echoed back.
type SubscriptionResponse struct {
	ID           uuid.UUID `json:"id"`
	Endpoint     string    `json:"endpoint"`
	DeviceLabel  string    `json:"device_label,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

// SubscriptionListResponse wraps a user's registered devices.
type SubscriptionListResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
	Count         int                    `json:"count"`
}

// SendTestResponse reports how many devices received the test notification.
type SendTestResponse struct {
	Sent int `json:"sent"`
}

func noteToResponse(note *domain.Note) NoteResponse {
	return NoteResponse{
		ID:             note.ID,
		Content:        note.Content,
		Summary:        note.Summary,
		SummaryState:   string(note.SummaryState),
		ContentVersion: note.ContentVersion,
		CreatedAt:      note.CreatedAt,
		UpdatedAt:      note.UpdatedAt,
	}
}

func notesToResponse(notes []*domain.Note) NoteListResponse {
	out := NoteListResponse{Notes: make([]NoteResponse, 0, len(notes))}
	for _, note := range notes {
		out.Notes = append(out.Notes, noteToResponse(note))
	}
	out.Count = len(out.Notes)
	return out
}

func subscriptionToResponse(sub *domain.PushSubscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:           sub.ID,
		Endpoint:     sub.Endpoint,
		DeviceLabel:  sub.DeviceLabel,
		RegisteredAt: sub.RegisteredAt,
	}
}

func subscriptionsToResponse(subs []*domain.PushSubscription) SubscriptionListResponse {
	out := SubscriptionListResponse{
		Subscriptions: make([]SubscriptionResponse, 0, len(subs)),
	}
	for _, sub := range subs {
		out.Subscriptions = append(out.Subscriptions, subscriptionToResponse(sub))
	}
	out.Count = len(out.Subscriptions)
	return out
}
