package services

import (
	"context"
	"time"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/config"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/dtos"
	internal_utils "github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/utils"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-repositories"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
)

// ReviewService keeps apartment reviews and the property's rating
// aggregate in step. The repository recomputes the aggregate in the same
// transaction as every write.
type ReviewService struct {
	properties     repositories.PropertyRepository
	reviews        repositories.ReviewRepository
	storageTimeout time.Duration
	now            func() time.Time
}

func NewReviewService(
	cfg *config.Config,
	properties repositories.PropertyRepository,
	reviews repositories.ReviewRepository,
) *ReviewService {
	return &ReviewService{
		properties:     properties,
		reviews:        reviews,
		storageTimeout: cfg.StorageTimeout,
		now:            time.Now,
	}
}

func (s *ReviewService) AddReview(ctx context.Context, rawPropertyID string, req dtos.ReviewRequest) (*dtos.ReviewResponse, error) {
	propID, err := parseID("id", rawPropertyID)
	if err != nil {
		return nil, err
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	if err := s.requireApartment(ctx, propID); err != nil {
		return nil, err
	}
	rv := &models.Review{
		ID:         uuid.New(),
		PropertyID: propID,
		Name:       req.Name,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Date:       s.now(),
	}
	rating, err := s.reviews.Add(ctx, rv)
	if err != nil {
		return nil, storageErr(err)
	}
	return &dtos.ReviewResponse{Review: rv, Rating: rating}, nil
}

func (s *ReviewService) UpdateReview(
	ctx context.Context,
	rawPropertyID, rawReviewID string,
	req dtos.ReviewRequest,
) (*dtos.ReviewResponse, error) {
	propID, err := parseID("id", rawPropertyID)
	if err != nil {
		return nil, err
	}
	reviewID, err := parseID("reviewId", rawReviewID)
	if err != nil {
		return nil, err
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	existing, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, storageErr(err)
	}
	if existing == nil || existing.PropertyID != propID {
		return nil, utils.NewNotFoundError("Review")
	}
	existing.Name = req.Name
	existing.Rating = req.Rating
	existing.Comment = req.Comment

	rating, err := s.reviews.Update(ctx, existing)
	if err != nil {
		return nil, notFoundOr(err, "Review")
	}
	return &dtos.ReviewResponse{Review: existing, Rating: rating}, nil
}

// DeleteReview removes a review. Removing the last one resets the rating
// to zero.
func (s *ReviewService) DeleteReview(ctx context.Context, rawPropertyID, rawReviewID string) (*dtos.ReviewResponse, error) {
	propID, err := parseID("id", rawPropertyID)
	if err != nil {
		return nil, err
	}
	reviewID, err := parseID("reviewId", rawReviewID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	rating, err := s.reviews.Delete(ctx, propID, reviewID)
	if err != nil {
		return nil, notFoundOr(err, "Review")
	}
	return &dtos.ReviewResponse{Rating: rating}, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, rawPropertyID string) ([]*models.Review, error) {
	propID, err := parseID("id", rawPropertyID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	list, err := s.reviews.ListByProperty(ctx, propID)
	if err != nil {
		return nil, storageErr(err)
	}
	if list == nil {
		list = []*models.Review{}
	}
	return list, nil
}

func (s *ReviewService) requireApartment(ctx context.Context, id uuid.UUID) error {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return storageErr(err)
	}
	if p == nil {
		return utils.NewNotFoundError("Apartment")
	}
	if p.Kind != models.InventoryApartment {
		return badRequest(utils.ErrCodeValidation, "id", "reviews are only kept for premium apartments", internal_utils.ErrWrongPropertyKind)
	}
	return nil
}

func validateRating(r float64) error {
	if r < 1 || r > 5 {
		return utils.NewValidationError("rating", "rating must be between 1 and 5")
	}
	return nil
}
