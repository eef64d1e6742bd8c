package models

import (
	"math"
	"strconv"
	"time"
)

// RatingAggregate is the running (mean, count, histogram) summary for one
// restaurant. Distribution keys are the star buckets "1".."5" (DynamoDB
// map keys are strings); missing keys imply zero. Invariant: the counts
// sum to TotalReviews, and AverageRating*TotalReviews equals the sum of
// all contributing raw ratings within floating-point tolerance.
//
// Version guards the read-modify-write cycle at the storage layer: the
// writer conditions on the version it read, so concurrent submissions for
// the same restaurant cannot silently lose an update.
type RatingAggregate struct {
	RestaurantID       string         `json:"restaurantId" dynamodbav:"restaurantId"`
	AverageRating      float64        `json:"averageRating" dynamodbav:"averageRating"`
	TotalReviews       int            `json:"totalReviews" dynamodbav:"totalReviews"`
	RatingDistribution map[string]int `json:"ratingDistribution,omitempty" dynamodbav:"ratingDistribution,omitempty"`
	LastUpdated        time.Time      `json:"lastUpdated" dynamodbav:"lastUpdated"`
	Version            int64          `json:"version" dynamodbav:"version"`
}

// TableName returns the DynamoDB table name for rating aggregates.
func (RatingAggregate) TableName() string { return "RestaurantRatings" }

// NewRatingAggregate returns the zero-state aggregate. It exists only as
// a computation default for the first review; "no stored aggregate" and
// "zero reviews" are kept distinct at the storage boundary.
func NewRatingAggregate(restaurantID string) RatingAggregate {
	return RatingAggregate{
		RestaurantID:       restaurantID,
		AverageRating:      0.0,
		TotalReviews:       0,
		RatingDistribution: map[string]int{},
	}
}

// ValidRating reports whether r is inside the [1.0, 5.0] contract. The
// aggregate operations assume pre-validated input; callers reject
// out-of-range ratings at the submission boundary.
func ValidRating(r float64) bool {
	return r >= 1.0 && r <= 5.0
}

// StarBucket maps a raw rating to its histogram bucket, rounding half
// away from zero so 4.5 lands in the 5-star bucket.
func StarBucket(rating float64) int {
	return int(math.Round(rating))
}

func starKey(rating float64) string {
	return strconv.Itoa(StarBucket(rating))
}

// StarCount returns the histogram count for a star value, treating
// missing keys as zero.
func (ra RatingAggregate) StarCount(star int) int {
	return ra.RatingDistribution[strconv.Itoa(star)]
}

// ApplyNewRating folds one more rating into the aggregate. Requires
// ValidRating(newRating). The returned aggregate always has
// TotalReviews >= 1.
func (ra RatingAggregate) ApplyNewRating(newRating float64, now time.Time) RatingAggregate {
	sum := ra.AverageRating*float64(ra.TotalReviews) + newRating
	total := ra.TotalReviews + 1

	dist := copyDistribution(ra.RatingDistribution)
	dist[starKey(newRating)]++

	return RatingAggregate{
		RestaurantID:       ra.RestaurantID,
		AverageRating:      sum / float64(total),
		TotalReviews:       total,
		RatingDistribution: dist,
		LastUpdated:        now.UTC(),
		Version:            ra.Version + 1,
	}
}

// ApplyRatingEdit revises a previously counted rating. TotalReviews is
// unchanged; the old bucket is decremented (floored at zero) and the new
// one incremented. Requires both ratings valid and TotalReviews > 0.
func (ra RatingAggregate) ApplyRatingEdit(oldRating, newRating float64, now time.Time) RatingAggregate {
	sum := ra.AverageRating*float64(ra.TotalReviews) - oldRating + newRating

	dist := copyDistribution(ra.RatingDistribution)
	oldKey := starKey(oldRating)
	if dist[oldKey] > 0 {
		dist[oldKey]--
	}
	if dist[oldKey] == 0 {
		delete(dist, oldKey)
	}
	dist[starKey(newRating)]++

	avg := 0.0
	if ra.TotalReviews > 0 {
		avg = sum / float64(ra.TotalReviews)
	}

	return RatingAggregate{
		RestaurantID:       ra.RestaurantID,
		AverageRating:      avg,
		TotalReviews:       ra.TotalReviews,
		RatingDistribution: dist,
		LastUpdated:        now.UTC(),
		Version:            ra.Version + 1,
	}
}

func copyDistribution(in map[string]int) map[string]int {
	out := make(map[string]int, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
