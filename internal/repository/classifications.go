package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avdeyev/burnscan/internal/models"
)

// PostgresClassificationRepository implements classification and feedback
// persistence against a PostgreSQL database.
type PostgresClassificationRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresClassificationRepository creates a new
// PostgresClassificationRepository using the provided *sql.DB.
func NewPostgresClassificationRepository(db *sql.DB) *PostgresClassificationRepository {
	return &PostgresClassificationRepository{DB: db}
}

// Insert stores one classification record and returns its generated id.
func (r *PostgresClassificationRepository) Insert(ctx context.Context, c models.Classification) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO classifications (user_id, image_name, predicted_class, confidence)
		VALUES ($1, $2, $3, $4) RETURNING id
	`, c.UserID, c.ImageName, c.PredictedClass, c.Confidence).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: insert classification: %v", models.ErrStoreUnavailable, err)
	}
	return id, nil
}

// ListByUser fetches all classification records belonging to the given user,
// in creation order.
func (r *PostgresClassificationRepository) ListByUser(ctx context.Context, userID int64) ([]models.Classification, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, image_name, predicted_class, confidence, timestamp
		FROM classifications WHERE user_id = $1 ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list classifications: %v", models.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var records []models.Classification
	for rows.Next() {
		var c models.Classification
		if err := rows.Scan(&c.ID, &c.UserID, &c.ImageName, &c.PredictedClass, &c.Confidence, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: scan classification: %v", models.ErrStoreUnavailable, err)
		}
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate classifications: %v", models.ErrStoreUnavailable, err)
	}
	return records, nil
}

// InsertFeedback stores one feedback row and returns its generated id.
func (r *PostgresClassificationRepository) InsertFeedback(ctx context.Context, f models.Feedback) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO feedback (user_id, classification_id, feedback_text)
		VALUES ($1, $2, $3) RETURNING id
	`, f.UserID, f.ClassificationID, f.FeedbackText).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: insert feedback: %v", models.ErrStoreUnavailable, err)
	}
	return id, nil
}
