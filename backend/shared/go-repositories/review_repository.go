package repositories

import (
	"context"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

// ReviewRepository keeps the property's cached rating in step with its
// reviews. Every write recomputes it in the same transaction.
type ReviewRepository interface {
	Add(ctx context.Context, rv *models.Review) (models.Rating, error)
	Update(ctx context.Context, rv *models.Review) (models.Rating, error)
	// Delete returns pgx.ErrNoRows when the review is not on the property.
	Delete(ctx context.Context, propertyID, reviewID uuid.UUID) (models.Rating, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Review, error)
}

type reviewRepo struct {
	db DB
}

func NewReviewRepository(db DB) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) Add(ctx context.Context, rv *models.Review) (models.Rating, error) {
	var rating models.Rating
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO reviews (id, property_id, name, rating, comment, date)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, rv.ID, rv.PropertyID, rv.Name, rv.Rating, rv.Comment, rv.Date); err != nil {
			return err
		}
		var err error
		rating, err = recomputeRating(ctx, tx, rv.PropertyID)
		return err
	})
	return rating, err
}

func (r *reviewRepo) Update(ctx context.Context, rv *models.Review) (models.Rating, error) {
	var rating models.Rating
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE reviews SET name=$1, rating=$2, comment=$3
			WHERE id=$4 AND property_id=$5
		`, rv.Name, rv.Rating, rv.Comment, rv.ID, rv.PropertyID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		rating, err = recomputeRating(ctx, tx, rv.PropertyID)
		return err
	})
	return rating, err
}

func (r *reviewRepo) Delete(ctx context.Context, propertyID, reviewID uuid.UUID) (models.Rating, error) {
	var rating models.Rating
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id=$1 AND property_id=$2`, reviewID, propertyID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		rating, err = recomputeRating(ctx, tx, propertyID)
		return err
	})
	return rating, err
}

func (r *reviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return scanReview(r.db.QueryRow(ctx, baseSelectReview()+" WHERE id=$1", id))
}

func (r *reviewRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Review, error) {
	rows, err := r.db.Query(ctx, baseSelectReview()+" WHERE property_id=$1 ORDER BY date DESC", propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// recomputeRating rewrites rating_average and reviews_count from scratch.
// No reviews resets both to zero.
func recomputeRating(ctx context.Context, q querier, propertyID uuid.UUID) (models.Rating, error) {
	var rating models.Rating
	err := q.QueryRow(ctx, `
		UPDATE properties p
		SET rating_average = agg.avg, reviews_count = agg.cnt,
			updated_at=NOW(), row_version=p.row_version+1
		FROM (
			SELECT COALESCE(AVG(rating), 0)::float8 AS avg, COUNT(*)::int AS cnt
			FROM reviews WHERE property_id=$1
		) agg
		WHERE p.id=$1
		RETURNING p.rating_average, p.reviews_count
	`, propertyID).Scan(&rating.Average, &rating.ReviewsCount)
	return rating, err
}

func baseSelectReview() string {
	return `SELECT id, property_id, name, rating, comment, date FROM reviews`
}

func scanReview(row pgx.Row) (*models.Review, error) {
	var rv models.Review
	if err := row.Scan(&rv.ID, &rv.PropertyID, &rv.Name, &rv.Rating, &rv.Comment, &rv.Date); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rv, nil
}
