package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"socialeats_server/models"
	"socialeats_server/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ReviewService handles review documents and the per-restaurant rating
// aggregate. A review write and its aggregate update always travel in
// one transaction, with the aggregate leg guarded by a version
// condition: a lost race surfaces as models.ErrConflict with neither
// document written, so the caller can safely retry the whole action.
// The service itself never retries.
type ReviewService struct {
	Dynamo        *DynamoService
	Users         *UserService
	Notifications *NotificationService
}

// SubmitReviewParams carries the submission input. Restaurant display
// fields are denormalized into the review document.
type SubmitReviewParams struct {
	Restaurant models.RestaurantDisplay
	UserID     string
	Rating     float64
	ReviewText string
	Photos     []string
}

// SubmitReview validates, stamps the verified-visit flag from the
// author's active selection, then stores the review and folds the rating
// into the restaurant aggregate in a single transaction.
func (s *ReviewService) SubmitReview(ctx context.Context, params SubmitReviewParams) (models.RestaurantReview, error) {
	if !models.ValidRating(params.Rating) {
		return models.RestaurantReview{}, fmt.Errorf("%w: rating must be between 1.0 and 5.0", models.ErrValidation)
	}
	if params.Restaurant.RestaurantID == "" {
		return models.RestaurantReview{}, fmt.Errorf("%w: restaurantId is required", models.ErrValidation)
	}

	author, err := s.Users.GetUser(ctx, params.UserID)
	if err != nil {
		return models.RestaurantReview{}, err
	}

	now := time.Now()
	verified := false
	if sel := author.ActiveSelection(now); sel != nil && sel.RestaurantID == params.Restaurant.RestaurantID {
		verified = true
	}

	review := models.NewRestaurantReview(params.Restaurant, author, params.Rating, params.ReviewText, params.Photos, verified, now)
	putReview, err := reviewPutItem(review)
	if err != nil {
		return models.RestaurantReview{}, err
	}
	aggregate, err := s.nextAggregateItem(ctx, params.Restaurant.RestaurantID, params.Rating, nil, now)
	if err != nil {
		return models.RestaurantReview{}, err
	}
	if err := s.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{putReview, aggregate}); err != nil {
		return models.RestaurantReview{}, err
	}

	s.notifyFriendsOfReview(author, review)
	return review, nil
}

// EditReviewRating revises the rating on the author's own review and
// rebalances the aggregate without changing its review count. Both
// writes ride one transaction; the review leg conditions on the rating
// that was read, so a conflicted edit leaves the old rating in place and
// a retry recomputes from unchanged documents.
func (s *ReviewService) EditReviewRating(ctx context.Context, reviewID, userID string, newRating float64) (models.RestaurantReview, error) {
	if !models.ValidRating(newRating) {
		return models.RestaurantReview{}, fmt.Errorf("%w: rating must be between 1.0 and 5.0", models.ErrValidation)
	}

	review, err := s.getReview(ctx, reviewID)
	if err != nil {
		return models.RestaurantReview{}, err
	}
	if review.UserID != userID {
		return models.RestaurantReview{}, models.Ineligible("only the author can edit a review")
	}

	now := time.Now()
	oldRating := review.Rating

	aggregate, err := s.nextAggregateItem(ctx, review.RestaurantID, newRating, &oldRating, now)
	if err != nil {
		return models.RestaurantReview{}, err
	}
	update := reviewRatingUpdateItem(reviewID, userID, oldRating, newRating, now)
	if err := s.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{update, aggregate}); err != nil {
		return models.RestaurantReview{}, err
	}

	review.Rating = newRating
	review.UpdatedAt = now.UTC()
	return review, nil
}

// GetReviews lists a restaurant's reviews, newest first.
func (s *ReviewService) GetReviews(ctx context.Context, restaurantID string) ([]models.RestaurantReview, error) {
	return s.queryReviews(ctx, "RestaurantIndex", "restaurantId = :v", restaurantID)
}

// GetUserReviews lists a user's reviews, newest first.
func (s *ReviewService) GetUserReviews(ctx context.Context, userID string) ([]models.RestaurantReview, error) {
	return s.queryReviews(ctx, "UserIndex", "userId = :v", userID)
}

// LikeReview records a like (set union, idempotent) and notifies the
// review's author.
func (s *ReviewService) LikeReview(ctx context.Context, reviewID, userID string) error {
	review, err := s.getReview(ctx, reviewID)
	if err != nil {
		return err
	}

	_, err = s.Dynamo.UpdateItem(ctx, review.TableName(),
		"ADD likes :u",
		reviewKey(reviewID),
		map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberSS{Value: []string{userID}},
		},
		nil,
	)
	if err != nil {
		return err
	}

	if review.UserID != userID {
		go s.notifyReviewLiked(review, userID)
	}
	return nil
}

// UnlikeReview removes a like (set delete, idempotent).
func (s *ReviewService) UnlikeReview(ctx context.Context, reviewID, userID string) error {
	_, err := s.Dynamo.UpdateItem(ctx, models.RestaurantReview{}.TableName(),
		"DELETE likes :u",
		reviewKey(reviewID),
		map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberSS{Value: []string{userID}},
		},
		nil,
	)
	return err
}

// GetRestaurantRating returns the stored aggregate, or nil when the
// restaurant has no reviews yet. "Missing" and "zero reviews" stay
// distinct at this boundary.
func (s *ReviewService) GetRestaurantRating(ctx context.Context, restaurantID string) (*models.RatingAggregate, error) {
	item, err := s.Dynamo.GetItem(ctx, models.RatingAggregate{}.TableName(), ratingKey(restaurantID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var aggregate models.RatingAggregate
	if err := attributevalue.UnmarshalMap(item, &aggregate); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rating aggregate: %w", err)
	}
	return &aggregate, nil
}

// nextAggregateItem runs the read-compute half of the aggregate cycle
// and returns the guarded write leg for the transaction: conditioned on
// the version that was read, or on the aggregate not existing yet, so a
// concurrent submission fails the whole transaction with ErrConflict
// instead of silently losing a rating.
func (s *ReviewService) nextAggregateItem(ctx context.Context, restaurantID string, newRating float64, oldRating *float64, now time.Time) (types.TransactWriteItem, error) {
	current, err := s.GetRestaurantRating(ctx, restaurantID)
	if err != nil {
		return types.TransactWriteItem{}, err
	}

	fresh := current == nil
	if fresh {
		zero := models.NewRatingAggregate(restaurantID)
		current = &zero
	}

	var next models.RatingAggregate
	if oldRating != nil {
		next = current.ApplyRatingEdit(*oldRating, newRating, now)
	} else {
		next = current.ApplyNewRating(newRating, now)
	}
	return ratingAggregateItem(fresh, next, current.Version)
}

// ratingAggregateItem builds the aggregate's transaction leg.
func ratingAggregateItem(fresh bool, next models.RatingAggregate, readVersion int64) (types.TransactWriteItem, error) {
	item, err := marshalItem(next)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("failed to marshal rating aggregate: %w", err)
	}
	tableName := next.TableName()
	put := &types.Put{
		TableName: &tableName,
		Item:      item,
	}
	if fresh {
		put.ConditionExpression = aws.String("attribute_not_exists(restaurantId)")
	} else {
		put.ConditionExpression = aws.String("version = :v")
		put.ExpressionAttributeValues = map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", readVersion)},
		}
	}
	return types.TransactWriteItem{Put: put}, nil
}

// reviewPutItem builds the review document's transaction leg.
func reviewPutItem(review models.RestaurantReview) (types.TransactWriteItem, error) {
	item, err := marshalItem(review)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("failed to marshal review: %w", err)
	}
	tableName := review.TableName()
	return types.TransactWriteItem{Put: &types.Put{TableName: &tableName, Item: item}}, nil
}

// reviewRatingUpdateItem builds the edit's review leg, conditioned on
// the rating that was read and on ownership.
func reviewRatingUpdateItem(reviewID, userID string, oldRating, newRating float64, now time.Time) types.TransactWriteItem {
	tableName := models.RestaurantReview{}.TableName()
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           &tableName,
			Key:                 reviewKey(reviewID),
			UpdateExpression:    aws.String("SET rating = :new, updatedAt = :now"),
			ConditionExpression: aws.String("rating = :old AND userId = :uid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":new": &types.AttributeValueMemberN{Value: fmt.Sprintf("%g", newRating)},
				":old": &types.AttributeValueMemberN{Value: fmt.Sprintf("%g", oldRating)},
				":uid": &types.AttributeValueMemberS{Value: userID},
				":now": timeAttr(now),
			},
		},
	}
}

func (s *ReviewService) getReview(ctx context.Context, reviewID string) (models.RestaurantReview, error) {
	item, err := s.Dynamo.GetItem(ctx, models.RestaurantReview{}.TableName(), reviewKey(reviewID))
	if err != nil {
		return models.RestaurantReview{}, err
	}
	var review models.RestaurantReview
	if err := attributevalue.UnmarshalMap(item, &review); err != nil {
		return models.RestaurantReview{}, fmt.Errorf("failed to unmarshal review: %w", err)
	}
	return review, nil
}

func (s *ReviewService) queryReviews(ctx context.Context, index, keyCondition, value string) ([]models.RestaurantReview, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.RestaurantReview{}.TableName(), index,
		keyCondition,
		map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
		nil, 0, true,
	)
	if err != nil {
		return nil, err
	}
	var reviews []models.RestaurantReview
	if err := attributevalue.UnmarshalListOfMaps(items, &reviews); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) notifyFriendsOfReview(author models.User, review models.RestaurantReview) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		for _, friendID := range author.Friends {
			if token := s.Users.fetchFCMToken(ctx, friendID); token != "" {
				s.Notifications.Dispatch(NewReviewNotification(token, author.DisplayName, review.RestaurantName, review.Rating))
			}
		}
	}()
}

func (s *ReviewService) notifyReviewLiked(review models.RestaurantReview, likerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	liker, err := s.Users.GetUser(ctx, likerID)
	if err != nil {
		slog.Warn("review-liked notification aborted", "likerId", likerID, "error", err)
		return
	}
	item, err := s.Dynamo.GetItem(ctx, models.User{}.TableName(), userKey(review.UserID))
	if err != nil {
		return
	}
	if token := utils.ExtractString(item, "fcmToken"); token != "" {
		s.Notifications.Dispatch(ReviewLikedNotification(token, liker.DisplayName, review.RestaurantName))
	}
}

func reviewKey(reviewID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: reviewID},
	}
}

func ratingKey(restaurantID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"restaurantId": &types.AttributeValueMemberS{Value: restaurantID},
	}
}
