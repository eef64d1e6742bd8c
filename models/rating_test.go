package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRatingAggregateZeroState(t *testing.T) {
	ra := NewRatingAggregate("r1")

	assert.Equal(t, "r1", ra.RestaurantID)
	assert.Equal(t, 0.0, ra.AverageRating)
	assert.Equal(t, 0, ra.TotalReviews)
	assert.Empty(t, ra.RatingDistribution)
	assert.Equal(t, int64(0), ra.Version)
}

func TestValidRating(t *testing.T) {
	assert.True(t, ValidRating(1.0))
	assert.True(t, ValidRating(5.0))
	assert.True(t, ValidRating(3.7))
	assert.False(t, ValidRating(0.9))
	assert.False(t, ValidRating(5.1))
	assert.False(t, ValidRating(0))
	assert.False(t, ValidRating(-3))
}

func TestStarBucketRoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 5, StarBucket(4.5))
	assert.Equal(t, 4, StarBucket(4.4))
	assert.Equal(t, 3, StarBucket(2.5))
	assert.Equal(t, 1, StarBucket(1.0))
	assert.Equal(t, 5, StarBucket(5.0))
}

func TestApplyNewRatingSequence(t *testing.T) {
	now := time.Now()
	ra := NewRatingAggregate("r1")

	ra = ra.ApplyNewRating(5, now)
	ra = ra.ApplyNewRating(3, now)
	ra = ra.ApplyNewRating(4, now)

	assert.InDelta(t, 4.0, ra.AverageRating, 1e-9)
	assert.Equal(t, 3, ra.TotalReviews)
	assert.Equal(t, 1, ra.StarCount(5))
	assert.Equal(t, 1, ra.StarCount(4))
	assert.Equal(t, 1, ra.StarCount(3))
	assert.Equal(t, 0, ra.StarCount(2))
	assert.Equal(t, int64(3), ra.Version)
}

func TestApplyNewRatingMatchesSequenceMean(t *testing.T) {
	now := time.Now()
	ratings := []float64{4.5, 2.0, 3.5, 5.0, 1.0, 4.0, 4.0, 2.5}

	ra := NewRatingAggregate("r1")
	sum := 0.0
	for _, r := range ratings {
		ra = ra.ApplyNewRating(r, now)
		sum += r
	}

	assert.InDelta(t, sum/float64(len(ratings)), ra.AverageRating, 1e-9)
	assert.Equal(t, len(ratings), ra.TotalReviews)

	counted := 0
	for star := 1; star <= 5; star++ {
		counted += ra.StarCount(star)
	}
	assert.Equal(t, ra.TotalReviews, counted, "distribution counts must sum to the review total")
}

func TestApplyRatingEdit(t *testing.T) {
	now := time.Now()
	ra := NewRatingAggregate("r1")
	for _, r := range []float64{5, 3, 4} {
		ra = ra.ApplyNewRating(r, now)
	}

	edited := ra.ApplyRatingEdit(5, 1, now)

	assert.InDelta(t, 8.0/3.0, edited.AverageRating, 1e-9)
	assert.Equal(t, 3, edited.TotalReviews, "an edit must not change the review count")
	assert.Equal(t, 0, edited.StarCount(5))
	assert.Equal(t, 1, edited.StarCount(1))
	assert.Equal(t, ra.Version+1, edited.Version)

	// The emptied bucket is dropped from the stored map entirely.
	_, present := edited.RatingDistribution["5"]
	assert.False(t, present)
}

func TestApplyRatingEditFloorsMissingBucket(t *testing.T) {
	now := time.Now()
	ra := NewRatingAggregate("r1")
	ra = ra.ApplyNewRating(4, now)

	// Old rating claims a bucket that was never counted; the decrement
	// floors at zero instead of going negative.
	edited := ra.ApplyRatingEdit(2, 3, now)

	assert.Equal(t, 0, edited.StarCount(2))
	assert.Equal(t, 1, edited.StarCount(3))
	assert.Equal(t, 1, edited.TotalReviews)
}

func TestApplyNewRatingDoesNotMutateReceiver(t *testing.T) {
	now := time.Now()
	ra := NewRatingAggregate("r1").ApplyNewRating(4, now)

	_ = ra.ApplyNewRating(1, now)

	require.Equal(t, 1, ra.TotalReviews)
	assert.InDelta(t, 4.0, ra.AverageRating, 1e-9)
	assert.Equal(t, 1, ra.StarCount(4))
}

func TestEditRecomputedAfterConflictConverges(t *testing.T) {
	now := time.Now()
	ra := NewRatingAggregate("r1")
	for _, r := range []float64{5, 3, 4} {
		ra = ra.ApplyNewRating(r, now)
	}

	// First attempt loses the version condition: the whole write is
	// rejected, so the stored review keeps its old rating and the stored
	// aggregate is unchanged. A retry recomputes from the same inputs.
	_ = ra.ApplyRatingEdit(5, 1, now)
	retried := ra.ApplyRatingEdit(5, 1, now)

	assert.InDelta(t, 8.0/3.0, retried.AverageRating, 1e-9)
	assert.Equal(t, 3, retried.TotalReviews)
	assert.Equal(t, 0, retried.StarCount(5))
	assert.Equal(t, 1, retried.StarCount(1))

	counted := 0
	for _, n := range retried.RatingDistribution {
		counted += n
	}
	assert.Equal(t, retried.TotalReviews, counted)
}
