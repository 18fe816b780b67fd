// Package models defines the core data structures for users, sessions,
// mood records, daily tasks, and couple spaces.
package models

import "time"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Email is the unique registration email.
	Email string `json:"email"`
	// Username is an optional unique display name.
	Username string `json:"username"`
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`
	// AvatarURL points to the user's avatar image, may be empty.
	AvatarURL string `json:"avatar_url"`
}

// Session binds an opaque bearer token to a user until it expires.
type Session struct {
	// ID is the opaque session token handed to the client.
	ID string `json:"session_id"`
	// UserID is the owning user.
	UserID string `json:"user_id"`
	// ExpiresAt is the absolute expiry timestamp. A session is treated
	// as absent once now >= ExpiresAt.
	ExpiresAt time.Time `json:"expires_at"`
}

// MoodRecord is a single mood entry owned by one user.
type MoodRecord struct {
	ID string `json:"id"`
	// UserID is the owning user id.
	UserID string `json:"user_id"`
	// MoodType is one of the MoodType constants.
	MoodType string `json:"mood_type"`
	// Intensity is always within [1,10].
	Intensity int `json:"intensity"`
	// Note is free text; encrypted at rest, plaintext in responses.
	Note string `json:"note"`
	// Tags preserves insertion order for display.
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// CoupleMoodRecord is a mood entry shared by both members of an
// accepted couple space.
type CoupleMoodRecord struct {
	ID      string `json:"id"`
	SpaceID string `json:"space_id"`
	// CreatedByUserID records which member wrote the entry.
	CreatedByUserID string    `json:"created_by_user_id"`
	MoodType        string    `json:"mood_type"`
	Intensity       int       `json:"intensity"`
	Note            string    `json:"note"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"created_at"`
}

// Task is a dated to-do item owned by one user.
type Task struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	// Title is free text; encrypted at rest, plaintext in responses.
	Title string `json:"title"`
	// TaskDate is a pure calendar date in YYYY-MM-DD form.
	TaskDate  string    `json:"task_date"`
	IsDone    bool      `json:"is_done"`
	CreatedAt time.Time `json:"created_at"`
}

// CoupleSpace is a shared context jointly owned by exactly two users.
// Member ids are stored sorted so an unordered pair maps to at most
// one non-deleted space.
type CoupleSpace struct {
	ID string `json:"id"`
	// UserID1 is the lexicographically smaller member id.
	UserID1 string `json:"user_id_1"`
	// UserID2 is the lexicographically larger member id.
	UserID2 string `json:"user_id_2"`
	// CreatorUserID is the member who sent the invitation.
	CreatorUserID string `json:"creator_user_id"`
	// Status is one of the Space* constants.
	Status    string    `json:"status"`
	SpaceName string    `json:"space_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Mood type identifiers accepted by the API.
const (
	MoodHappy   = "happy"
	MoodCalm    = "calm"
	MoodAnxious = "anxious"
	MoodSad     = "sad"
	MoodAngry   = "angry"
)

// Couple space status values. Transitions go pending -> accepted or
// pending -> rejected, never back.
const (
	SpacePending  = "pending"
	SpaceAccepted = "accepted"
	SpaceRejected = "rejected"
)
