package service

import (
	"context"
	"time"

	"github.com/avdeyev/burnscan/internal/classifier"
	"github.com/avdeyev/burnscan/internal/imaging"
	"github.com/avdeyev/burnscan/internal/models"
)

// Normalizer converts raw upload bytes into the model's input tensor.
type Normalizer interface {
	Normalize(raw []byte) (*imaging.Tensor, error)
}

// Enqueuer schedules a classification record for background persistence
// without blocking.
type Enqueuer interface {
	Enqueue(rec models.Classification)
}

// ClassificationReader provides read and feedback operations on stored
// classifications.
type ClassificationReader interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Classification, error)
	InsertFeedback(ctx context.Context, f models.Feedback) (int64, error)
}

// ClassificationService orchestrates the predict pipeline:
// normalize → classify → respond, with persistence detached into the
// background queue.
type ClassificationService struct {
	normalizer Normalizer
	model      classifier.Classifier
	persister  Enqueuer
	repo       ClassificationReader
}

// NewClassificationService constructs a ClassificationService from its
// collaborators.
func NewClassificationService(
	normalizer Normalizer,
	model classifier.Classifier,
	persister Enqueuer,
	repo ClassificationReader,
) *ClassificationService {
	return &ClassificationService{
		normalizer: normalizer,
		model:      model,
		persister:  persister,
		repo:       repo,
	}
}

// Predict runs one classification request for the given user. The returned
// record is what the caller sees immediately; persistence happens in the
// background after this method returns and its failure never reaches the
// caller. The request context bounds normalization and classification, not
// the detached write.
func (s *ClassificationService) Predict(ctx context.Context, userID int64, imageName string, raw []byte) (models.Classification, error) {
	tensor, err := s.normalizer.Normalize(raw)
	if err != nil {
		return models.Classification{}, err
	}

	label, confidence, err := s.model.Predict(ctx, tensor)
	if err != nil {
		return models.Classification{}, err
	}

	rec := models.Classification{
		UserID:         userID,
		ImageName:      imageName,
		PredictedClass: label,
		Confidence:     confidence,
		Timestamp:      time.Now().UTC(),
	}

	s.persister.Enqueue(rec)
	return rec, nil
}

// History returns all classification records owned by the given user in
// creation order.
func (s *ClassificationService) History(ctx context.Context, userID int64) ([]models.Classification, error) {
	return s.repo.ListByUser(ctx, userID)
}

// SaveFeedback stores user feedback for a classification and returns the
// feedback id.
func (s *ClassificationService) SaveFeedback(ctx context.Context, f models.Feedback) (int64, error) {
	return s.repo.InsertFeedback(ctx, f)
}
