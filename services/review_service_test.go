package services

import (
	"testing"
	"time"

	"socialeats_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingAggregateItemConditionsOnReadVersion(t *testing.T) {
	now := time.Now()
	current := models.NewRatingAggregate("r1")
	for _, r := range []float64{5, 3, 4} {
		current = current.ApplyNewRating(r, now)
	}
	next := current.ApplyRatingEdit(5, 1, now)

	item, err := ratingAggregateItem(false, next, current.Version)
	require.NoError(t, err)

	require.NotNil(t, item.Put)
	assert.Equal(t, "RestaurantRatings", *item.Put.TableName)
	assert.Equal(t, "version = :v", *item.Put.ConditionExpression)
	assert.Equal(t, &types.AttributeValueMemberN{Value: "3"}, item.Put.ExpressionAttributeValues[":v"])
}

func TestRatingAggregateItemFreshRequiresAbsence(t *testing.T) {
	next := models.NewRatingAggregate("r1").ApplyNewRating(4, time.Now())

	item, err := ratingAggregateItem(true, next, 0)
	require.NoError(t, err)

	require.NotNil(t, item.Put)
	assert.Equal(t, "attribute_not_exists(restaurantId)", *item.Put.ConditionExpression)
}

func TestReviewRatingUpdateItemGuardsReadRating(t *testing.T) {
	item := reviewRatingUpdateItem("rev-1", "u1", 5, 1, time.Now())

	require.NotNil(t, item.Update)
	assert.Equal(t, "Reviews", *item.Update.TableName)
	assert.Equal(t, "rating = :old AND userId = :uid", *item.Update.ConditionExpression)
	assert.Equal(t, &types.AttributeValueMemberN{Value: "5"}, item.Update.ExpressionAttributeValues[":old"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "rev-1"}, item.Update.Key["id"])
}

func TestReviewPutItemTargetsReviewsTable(t *testing.T) {
	review := models.NewRestaurantReview(
		models.RestaurantDisplay{RestaurantID: "place-1", RestaurantName: "Trattoria"},
		models.User{ID: "u1", DisplayName: "Olivia"},
		4.5, "great", nil, false, time.Now(),
	)

	item, err := reviewPutItem(review)
	require.NoError(t, err)

	require.NotNil(t, item.Put)
	assert.Equal(t, "Reviews", *item.Put.TableName)
	assert.Nil(t, item.Put.ConditionExpression)
	assert.Equal(t, &types.AttributeValueMemberS{Value: review.ID}, item.Put.Item["id"])
}
