// Package models defines the core data structures and error kinds for the
// burn classification service.
package models

import (
	"errors"
	"time"
)

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID int64
	// Username is the login name chosen by the user.
	Username string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string
}

// Classification represents a stored classification result for an uploaded
// skin image. JSON field names match the public API payload.
type Classification struct {
	// ID is the unique identifier for the classification record.
	ID int64 `json:"id"`
	// UserID references the owning user.
	UserID int64 `json:"user_id"`
	// ImageName is the original filename of the uploaded image.
	ImageName string `json:"image_name"`
	// PredictedClass is the burn severity label produced by the model.
	PredictedClass string `json:"predicted_class"`
	// Confidence is the model's confidence for the predicted class, in [0,1].
	Confidence float64 `json:"confidence"`
	// Timestamp is when the record was created.
	Timestamp time.Time `json:"timestamp"`
}

// Feedback represents user feedback on a classification result.
type Feedback struct {
	// ID is the unique identifier for the feedback row.
	ID int64 `json:"id"`
	// UserID references the user submitting the feedback.
	UserID int64 `json:"user_id"`
	// ClassificationID references the classification being commented on.
	ClassificationID int64 `json:"classification_id"`
	// FeedbackText is the free-form feedback text.
	FeedbackText string `json:"feedback_text"`
	// CreatedAt is when the feedback was submitted.
	CreatedAt time.Time `json:"created_at"`
}

// Error kinds recognized at the HTTP boundary. Services and repositories
// wrap these so handlers can map them to status codes without inspecting
// internal detail.
var (
	// ErrInvalidCredentials indicates an unknown username or a password
	// hash mismatch during login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken indicates a registration attempt with an existing
	// username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidToken indicates a bearer token that is malformed, has a bad
	// signature, has expired, or whose subject no longer resolves to a user.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnauthorized indicates an authenticated caller accessing a resource
	// owned by a different user.
	ErrUnauthorized = errors.New("unauthorized access")
	// ErrUnsupportedFormat indicates an upload that cannot be decoded as an
	// image.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrClassificationFailed indicates a failure inside the classification
	// call, including a tensor shape the model does not accept.
	ErrClassificationFailed = errors.New("classification failed")
	// ErrStoreUnavailable indicates a persistence operation that could not
	// reach or use the store.
	ErrStoreUnavailable = errors.New("store unavailable")
)
