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
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// UserService handles user documents, the dining-selection window, the
// friend graph and friend requests.
type UserService struct {
	Dynamo          *DynamoService
	Notifications   *NotificationService
	SelectionWindow time.Duration
}

// CreateUser stores a new user document. The id usually comes from the
// auth provider; a missing id gets a generated one.
func (s *UserService) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.Email == "" || user.DisplayName == "" {
		return models.User{}, fmt.Errorf("%w: email and displayName are required", models.ErrValidation)
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.LastSeen = now

	if err := s.Dynamo.PutItemIfAbsent(ctx, user.TableName(), user, "id"); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetUser fetches a user by id. An expired dining selection reads as
// absent; the stored attribute is left for the owner to overwrite or
// clear.
func (s *UserService) GetUser(ctx context.Context, userID string) (models.User, error) {
	item, err := s.Dynamo.GetItem(ctx, models.User{}.TableName(), userKey(userID))
	if err != nil {
		return models.User{}, err
	}
	var user models.User
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return models.User{}, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	user.SelectedRestaurant = user.ActiveSelection(time.Now())
	return user, nil
}

// UpdateUser overwrites mutable profile fields and bumps lastSeen.
func (s *UserService) UpdateUser(ctx context.Context, userID, displayName, photoURL, fcmToken string) (models.User, error) {
	updateExpression := "SET displayName = :name, photoURL = :photo, fcmToken = :token, lastSeen = :seen"
	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, models.User{}.TableName(),
		updateExpression,
		"attribute_exists(id)",
		userKey(userID),
		map[string]types.AttributeValue{
			":name":  &types.AttributeValueMemberS{Value: displayName},
			":photo": &types.AttributeValueMemberS{Value: photoURL},
			":token": &types.AttributeValueMemberS{Value: fcmToken},
			":seen":  timeAttr(time.Now()),
		},
		nil,
	)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, err
	}
	var user models.User
	if err := attributevalue.UnmarshalMap(attrs, &user); err != nil {
		return models.User{}, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return user, nil
}

// SelectRestaurant stamps a fresh selection window on the user and tells
// their friends. The selection auto-expires; storage is only cleared when
// the user clears it or a reader triggers ClearSelection.
func (s *UserService) SelectRestaurant(ctx context.Context, userID, restaurantID, restaurantName string, now time.Time) (models.SelectedRestaurant, error) {
	if restaurantID == "" || restaurantName == "" {
		return models.SelectedRestaurant{}, fmt.Errorf("%w: restaurantId and restaurantName are required", models.ErrValidation)
	}
	selection := models.NewSelectedRestaurant(restaurantID, restaurantName, now, s.SelectionWindow)

	selectionAttr, err := itemEncoder().Encode(selection)
	if err != nil {
		return models.SelectedRestaurant{}, fmt.Errorf("failed to marshal selection: %w", err)
	}
	_, err = s.Dynamo.UpdateItemWithCondition(ctx, models.User{}.TableName(),
		"SET selectedRestaurant = :sel",
		"attribute_exists(id)",
		userKey(userID),
		map[string]types.AttributeValue{":sel": selectionAttr},
		nil,
	)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return models.SelectedRestaurant{}, models.ErrNotFound
		}
		return models.SelectedRestaurant{}, err
	}

	s.notifyFriendsOfSelection(userID, restaurantName)
	return selection, nil
}

// ClearSelection removes the user's dining selection.
func (s *UserService) ClearSelection(ctx context.Context, userID string) error {
	_, err := s.Dynamo.UpdateItem(ctx, models.User{}.TableName(),
		"REMOVE selectedRestaurant",
		userKey(userID),
		nil,
		nil,
	)
	return err
}

// SearchUsersByEmail looks a user up through the EmailIndex GSI.
func (s *UserService) SearchUsersByEmail(ctx context.Context, email string) ([]models.User, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.User{}.TableName(), "EmailIndex",
		"email = :email",
		map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
		nil, 0, false,
	)
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := attributevalue.UnmarshalListOfMaps(items, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}
	return users, nil
}

// GetFriends returns the user's friends enriched with their active
// selections. Expired selections are filtered out here, at read time.
func (s *UserService) GetFriends(ctx context.Context, userID string, now time.Time) ([]models.Friend, error) {
	item, err := s.Dynamo.GetItem(ctx, models.User{}.TableName(), userKey(userID))
	if err != nil {
		return nil, err
	}

	friends := []models.Friend{}
	for _, friendID := range utils.ExtractStringSet(item, "friends") {
		profile, err := s.GetUser(ctx, friendID)
		if err != nil {
			// Skip dangling friend edges rather than failing the list.
			slog.Warn("skipping unresolvable friend", "friendId", friendID, "error", err)
			continue
		}
		friends = append(friends, models.Friend{
			ID:                 profile.ID,
			DisplayName:        profile.DisplayName,
			Email:              profile.Email,
			PhotoURL:           profile.PhotoURL,
			SelectedRestaurant: profile.ActiveSelection(now),
			LastSeen:           profile.LastSeen,
			IsOnline:           models.OnlineAt(profile.LastSeen, now),
		})
	}
	return friends, nil
}

// GetFriendsAtRestaurant returns the friends whose active selection
// matches the restaurant.
func (s *UserService) GetFriendsAtRestaurant(ctx context.Context, userID, restaurantID string, now time.Time) ([]models.Friend, error) {
	all, err := s.GetFriends(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	atRestaurant := []models.Friend{}
	for _, f := range all {
		if f.SelectedRestaurant != nil && f.SelectedRestaurant.RestaurantID == restaurantID {
			atRestaurant = append(atRestaurant, f)
		}
	}
	return atRestaurant, nil
}

// AddFriend writes both sides of the friendship edge atomically.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return fmt.Errorf("%w: cannot befriend yourself", models.ErrValidation)
	}
	return s.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{
		friendEdgeUpdate(userID, friendID, "ADD"),
		friendEdgeUpdate(friendID, userID, "ADD"),
	})
}

// RemoveFriend removes both sides of the friendship edge atomically.
func (s *UserService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	return s.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{
		friendEdgeUpdate(userID, friendID, "DELETE"),
		friendEdgeUpdate(friendID, userID, "DELETE"),
	})
}

// SendFriendRequest creates a pending request unless one is already
// outstanding or the users are already friends, and pushes to the
// recipient.
func (s *UserService) SendFriendRequest(ctx context.Context, fromUserID, toUserID string) (models.FriendRequest, error) {
	if fromUserID == toUserID {
		return models.FriendRequest{}, fmt.Errorf("%w: cannot befriend yourself", models.ErrValidation)
	}
	sender, err := s.GetUser(ctx, fromUserID)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if sender.HasFriend(toUserID) {
		return models.FriendRequest{}, models.Ineligible("users are already friends")
	}

	pending, err := s.GetPendingFriendRequests(ctx, toUserID)
	if err != nil {
		return models.FriendRequest{}, err
	}
	for _, req := range pending {
		if req.FromUserID == fromUserID {
			return models.FriendRequest{}, models.Ineligible("friend request already pending")
		}
	}

	request := models.NewFriendRequest(sender, toUserID, time.Now())
	if err := s.Dynamo.PutItem(ctx, request.TableName(), request); err != nil {
		return models.FriendRequest{}, err
	}

	if token := s.fetchFCMToken(ctx, toUserID); token != "" {
		s.Notifications.Dispatch(FriendRequestNotification(token, sender.DisplayName))
	}
	return request, nil
}

// GetPendingFriendRequests lists pending requests addressed to the user,
// newest first.
func (s *UserService) GetPendingFriendRequests(ctx context.Context, toUserID string) ([]models.FriendRequest, error) {
	tableName := models.FriendRequest{}.TableName()
	input := &dynamodb.QueryInput{
		TableName:              &tableName,
		IndexName:              aws.String("ToUserIndex"),
		KeyConditionExpression: aws.String("toUserId = :to"),
		FilterExpression:       aws.String("#s = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":to":      &types.AttributeValueMemberS{Value: toUserID},
			":pending": &types.AttributeValueMemberS{Value: models.FriendRequestStatusPending},
		},
		ScanIndexForward: aws.Bool(false),
	}

	items, err := s.Dynamo.QueryItemsWithQueryInput(ctx, input)
	if err != nil {
		return nil, err
	}
	var requests []models.FriendRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal friend requests: %w", err)
	}
	return requests, nil
}

// RespondToFriendRequest resolves a pending request. Accepting performs
// the two-sided friend add.
func (s *UserService) RespondToFriendRequest(ctx context.Context, requestID, userID, status string) error {
	if status != models.FriendRequestStatusAccepted && status != models.FriendRequestStatusDeclined {
		return fmt.Errorf("%w: invalid status %q", models.ErrValidation, status)
	}

	item, err := s.Dynamo.GetItem(ctx, models.FriendRequest{}.TableName(), map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: requestID},
	})
	if err != nil {
		return err
	}
	var request models.FriendRequest
	if err := attributevalue.UnmarshalMap(item, &request); err != nil {
		return fmt.Errorf("failed to unmarshal friend request: %w", err)
	}
	if request.ToUserID != userID {
		return models.Ineligible("only the recipient can respond to a friend request")
	}
	if request.Status != models.FriendRequestStatusPending {
		return models.Ineligible("friend request is already " + request.Status)
	}

	_, err = s.Dynamo.UpdateItemWithCondition(ctx, request.TableName(),
		"SET #s = :status",
		"#s = :pending",
		map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: requestID},
		},
		map[string]types.AttributeValue{
			":status":  &types.AttributeValueMemberS{Value: status},
			":pending": &types.AttributeValueMemberS{Value: models.FriendRequestStatusPending},
		},
		map[string]string{"#s": "status"},
	)
	if err != nil {
		return err
	}

	if status == models.FriendRequestStatusAccepted {
		return s.AddFriend(ctx, request.FromUserID, request.ToUserID)
	}
	return nil
}

// notifyFriendsOfSelection fans out "X is now dining at Y" pushes in the
// background.
func (s *UserService) notifyFriendsOfSelection(userID, restaurantName string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := s.GetUser(ctx, userID)
		if err != nil {
			slog.Warn("friend activity fan-out aborted", "userId", userID, "error", err)
			return
		}
		for _, friendID := range user.Friends {
			if token := s.fetchFCMToken(ctx, friendID); token != "" {
				s.Notifications.Dispatch(FriendActivityNotification(token, user.DisplayName, restaurantName))
			}
		}
	}()
}

// fetchFCMToken reads just the push token off a user item.
func (s *UserService) fetchFCMToken(ctx context.Context, userID string) string {
	item, err := s.Dynamo.GetItem(ctx, models.User{}.TableName(), userKey(userID))
	if err != nil {
		return ""
	}
	return utils.ExtractString(item, "fcmToken")
}

func userKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: userID},
	}
}

func friendEdgeUpdate(userID, friendID, verb string) types.TransactWriteItem {
	tableName := models.User{}.TableName()
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           &tableName,
			Key:                 userKey(userID),
			UpdateExpression:    aws.String(verb + " friends :f"),
			ConditionExpression: aws.String("attribute_exists(id)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":f": &types.AttributeValueMemberSS{Value: []string{friendID}},
			},
		},
	}
}

func timeAttr(t time.Time) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: t.UTC().Format(timestampLayout)}
}
