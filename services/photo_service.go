package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"socialeats_server/models"
	"socialeats_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PhotoService handles shared restaurant photo documents. The photo
// bytes themselves go to S3 through presigned URLs; this service only
// touches the metadata documents.
type PhotoService struct {
	Dynamo        *DynamoService
	Users         *UserService
	Notifications *NotificationService
}

// CreatePhotoParams carries the photo submission input.
type CreatePhotoParams struct {
	Restaurant models.RestaurantDisplay
	UserID     string
	PhotoURL   string
	Caption    string
	Tags       []string
}

// CreatePhoto validates tags, stamps the verified-visit flag from the
// author's active selection, stores the document and tells the author's
// friends.
func (s *PhotoService) CreatePhoto(ctx context.Context, params CreatePhotoParams) (models.RestaurantPhoto, error) {
	if params.PhotoURL == "" || params.Restaurant.RestaurantID == "" {
		return models.RestaurantPhoto{}, fmt.Errorf("%w: photoURL and restaurantId are required", models.ErrValidation)
	}
	for _, tag := range params.Tags {
		if !models.ValidPhotoTag(tag) {
			return models.RestaurantPhoto{}, fmt.Errorf("%w: unknown photo tag %q", models.ErrValidation, tag)
		}
	}

	author, err := s.Users.GetUser(ctx, params.UserID)
	if err != nil {
		return models.RestaurantPhoto{}, err
	}

	now := time.Now()
	verified := false
	if sel := author.ActiveSelection(now); sel != nil && sel.RestaurantID == params.Restaurant.RestaurantID {
		verified = true
	}

	photo := models.NewRestaurantPhoto(params.Restaurant, author, params.PhotoURL, params.Caption, params.Tags, verified, now)
	if err := s.Dynamo.PutItem(ctx, photo.TableName(), photo); err != nil {
		return models.RestaurantPhoto{}, err
	}

	s.notifyFriendsOfPhoto(author, photo)
	return photo, nil
}

// GetPhotosForRestaurant lists a restaurant's photos, newest first.
func (s *PhotoService) GetPhotosForRestaurant(ctx context.Context, restaurantID string) ([]models.RestaurantPhoto, error) {
	return s.queryPhotos(ctx, "RestaurantIndex", "restaurantId = :v", restaurantID, 0)
}

// GetUserPhotos lists a user's photos, newest first.
func (s *PhotoService) GetUserPhotos(ctx context.Context, userID string) ([]models.RestaurantPhoto, error) {
	return s.queryPhotos(ctx, "UserIndex", "userId = :v", userID, 0)
}

// GetFriendsPhotoFeed merges the recent photos of the user's friends
// into one feed, newest first, capped at limit (default 50).
func (s *PhotoService) GetFriendsPhotoFeed(ctx context.Context, userID string, limit int) ([]models.RestaurantPhoto, error) {
	if limit <= 0 {
		limit = 50
	}

	user, err := s.Users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	feed := []models.RestaurantPhoto{}
	for _, friendID := range user.Friends {
		photos, err := s.queryPhotos(ctx, "UserIndex", "userId = :v", friendID, int32(limit))
		if err != nil {
			slog.Warn("skipping friend in photo feed", "friendId", friendID, "error", err)
			continue
		}
		feed = append(feed, photos...)
	}

	sort.Slice(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}

// LikePhoto records a like (set union, idempotent) and notifies the
// photo's author.
func (s *PhotoService) LikePhoto(ctx context.Context, photoID, userID string) error {
	photo, err := s.getPhoto(ctx, photoID)
	if err != nil {
		return err
	}

	_, err = s.Dynamo.UpdateItem(ctx, photo.TableName(),
		"ADD likes :u",
		photoKey(photoID),
		map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberSS{Value: []string{userID}},
		},
		nil,
	)
	return err
}

// UnlikePhoto removes a like (set delete, idempotent).
func (s *PhotoService) UnlikePhoto(ctx context.Context, photoID, userID string) error {
	_, err := s.Dynamo.UpdateItem(ctx, models.RestaurantPhoto{}.TableName(),
		"DELETE likes :u",
		photoKey(photoID),
		map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberSS{Value: []string{userID}},
		},
		nil,
	)
	return err
}

// PhotoTags returns the predefined tag set for clients.
func (s *PhotoService) PhotoTags() []models.PhotoTag {
	return models.PredefinedPhotoTags
}

func (s *PhotoService) getPhoto(ctx context.Context, photoID string) (models.RestaurantPhoto, error) {
	item, err := s.Dynamo.GetItem(ctx, models.RestaurantPhoto{}.TableName(), photoKey(photoID))
	if err != nil {
		return models.RestaurantPhoto{}, err
	}
	var photo models.RestaurantPhoto
	if err := attributevalue.UnmarshalMap(item, &photo); err != nil {
		return models.RestaurantPhoto{}, fmt.Errorf("failed to unmarshal photo: %w", err)
	}
	return photo, nil
}

func (s *PhotoService) queryPhotos(ctx context.Context, index, keyCondition, value string, limit int32) ([]models.RestaurantPhoto, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.RestaurantPhoto{}.TableName(), index,
		keyCondition,
		map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
		nil, limit, true,
	)
	if err != nil {
		return nil, err
	}
	var photos []models.RestaurantPhoto
	if err := attributevalue.UnmarshalListOfMaps(items, &photos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal photos: %w", err)
	}
	return photos, nil
}

func (s *PhotoService) notifyFriendsOfPhoto(author models.User, photo models.RestaurantPhoto) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		for _, friendID := range author.Friends {
			item, err := s.Dynamo.GetItem(ctx, models.User{}.TableName(), userKey(friendID))
			if err != nil {
				continue
			}
			if token := utils.ExtractString(item, "fcmToken"); token != "" {
				s.Notifications.Dispatch(NewPhotoNotification(token, author.DisplayName, photo.RestaurantName))
			}
		}
	}()
}

func photoKey(photoID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: photoID},
	}
}
