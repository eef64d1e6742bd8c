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
)

// GroupDiningService handles the group event lifecycle and its
// invitations. Membership writes go through conditional expressions that
// restate the eligibility checks, so two racing joins for the last spot
// resolve in storage: one succeeds, the other gets models.ErrConflict.
type GroupDiningService struct {
	Dynamo        *DynamoService
	Users         *UserService
	Notifications *NotificationService
}

// CreateGroupDiningParams carries the event creation input.
type CreateGroupDiningParams struct {
	Restaurant      models.RestaurantDisplay
	OrganizerID     string
	Title           string
	Description     string
	ScheduledDate   time.Time
	MaxParticipants int
	InvitedUsers    []string
}

// InvitationOutcome reports what happened when an invitee accepted or
// declined. Joined is only meaningful on accept; when the join failed
// the invitation still counts as accepted and JoinFailure carries the
// reason.
type InvitationOutcome struct {
	Invitation  models.GroupDiningInvitation `json:"invitation"`
	Joined      bool                         `json:"joined"`
	JoinFailure string                       `json:"joinFailure,omitempty"`
}

// CreateGroupDining validates and stores a new active event with the
// organizer as the first participant, then sends invitations to any
// friends picked at creation time.
func (s *GroupDiningService) CreateGroupDining(ctx context.Context, params CreateGroupDiningParams) (models.GroupDining, error) {
	organizer, err := s.Users.GetUser(ctx, params.OrganizerID)
	if err != nil {
		return models.GroupDining{}, err
	}

	now := time.Now()
	event, err := models.NewGroupDining(params.Restaurant, organizer.ID, organizer.DisplayName,
		params.Title, params.Description, params.ScheduledDate, params.MaxParticipants, params.InvitedUsers, now)
	if err != nil {
		return models.GroupDining{}, err
	}

	if err := s.Dynamo.PutItemIfAbsent(ctx, event.TableName(), event, "id"); err != nil {
		return models.GroupDining{}, err
	}

	for _, toUserID := range event.InvitedUsers {
		invitation := models.NewGroupDiningInvitation(event, organizer.ID, organizer.DisplayName, toUserID, now)
		if err := s.Dynamo.PutItem(ctx, invitation.TableName(), invitation); err != nil {
			slog.Warn("failed to store invitation at event creation", "eventId", event.ID, "toUserId", toUserID, "error", err)
			continue
		}
		s.pushInvitation(ctx, invitation)
	}
	return event, nil
}

// GetGroupDining fetches one event by id.
func (s *GroupDiningService) GetGroupDining(ctx context.Context, eventID string) (models.GroupDining, error) {
	item, err := s.Dynamo.GetItem(ctx, models.GroupDining{}.TableName(), groupDiningKey(eventID))
	if err != nil {
		return models.GroupDining{}, err
	}
	var event models.GroupDining
	if err := attributevalue.UnmarshalMap(item, &event); err != nil {
		return models.GroupDining{}, fmt.Errorf("failed to unmarshal group dining event: %w", err)
	}
	return event, nil
}

// GetGroupDiningsForUser lists the events the user participates in,
// in any state.
func (s *GroupDiningService) GetGroupDiningsForUser(ctx context.Context, userID string) ([]models.GroupDining, error) {
	var events []models.GroupDining
	err := s.Dynamo.ScanWithFilter(ctx, models.GroupDining{}.TableName(),
		"contains(currentParticipants, :uid)",
		map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		nil, nil, &events,
	)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// GetUpcomingGroupDinings lists active events scheduled in the future,
// soonest first, capped at 20.
func (s *GroupDiningService) GetUpcomingGroupDinings(ctx context.Context) ([]models.GroupDining, error) {
	tableName := models.GroupDining{}.TableName()
	input := &dynamodb.QueryInput{
		TableName:              &tableName,
		IndexName:              aws.String("StatusIndex"),
		KeyConditionExpression: aws.String("#s = :active AND scheduledDate > :now"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberS{Value: models.GroupDiningStatusActive},
			":now":    timeAttr(time.Now()),
		},
		Limit: aws.Int32(20),
	}

	items, err := s.Dynamo.QueryItemsWithQueryInput(ctx, input)
	if err != nil {
		return nil, err
	}
	var events []models.GroupDining
	if err := attributevalue.UnmarshalListOfMaps(items, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group dining events: %w", err)
	}
	return events, nil
}

// GetGroupDiningsForRestaurant lists a restaurant's active events,
// soonest first.
func (s *GroupDiningService) GetGroupDiningsForRestaurant(ctx context.Context, restaurantID string) ([]models.GroupDining, error) {
	tableName := models.GroupDining{}.TableName()
	input := &dynamodb.QueryInput{
		TableName:              &tableName,
		IndexName:              aws.String("RestaurantIndex"),
		KeyConditionExpression: aws.String("restaurantId = :rid"),
		FilterExpression:       aws.String("#s = :active"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":rid":    &types.AttributeValueMemberS{Value: restaurantID},
			":active": &types.AttributeValueMemberS{Value: models.GroupDiningStatusActive},
		},
	}

	items, err := s.Dynamo.QueryItemsWithQueryInput(ctx, input)
	if err != nil {
		return nil, err
	}
	var events []models.GroupDining
	if err := attributevalue.UnmarshalListOfMaps(items, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group dining events: %w", err)
	}
	return events, nil
}

// JoinGroupDining adds the user to an event. Eligibility is checked
// against a fresh read first so the caller gets a precise reason, then
// the conditional write re-asserts status, capacity and membership.
func (s *GroupDiningService) JoinGroupDining(ctx context.Context, eventID, userID string) (models.GroupDining, error) {
	event, err := s.GetGroupDining(ctx, eventID)
	if err != nil {
		return models.GroupDining{}, err
	}
	now := time.Now()
	if err := event.JoinEligibility(userID, now); err != nil {
		return models.GroupDining{}, err
	}

	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, event.TableName(),
		"ADD currentParticipants :u SET updatedAt = :now",
		"#s = :active AND size(currentParticipants) < :max AND NOT contains(currentParticipants, :uid)",
		groupDiningKey(eventID),
		map[string]types.AttributeValue{
			":u":      &types.AttributeValueMemberSS{Value: []string{userID}},
			":uid":    &types.AttributeValueMemberS{Value: userID},
			":active": &types.AttributeValueMemberS{Value: models.GroupDiningStatusActive},
			":max":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", event.MaxParticipants)},
			":now":    timeAttr(now),
		},
		map[string]string{"#s": "status"},
	)
	if err != nil {
		return models.GroupDining{}, err
	}

	var updated models.GroupDining
	if err := attributevalue.UnmarshalMap(attrs, &updated); err != nil {
		return models.GroupDining{}, fmt.Errorf("failed to unmarshal group dining event: %w", err)
	}
	return updated, nil
}

// LeaveGroupDining removes a non-organizer participant from an active
// event.
func (s *GroupDiningService) LeaveGroupDining(ctx context.Context, eventID, userID string) (models.GroupDining, error) {
	event, err := s.GetGroupDining(ctx, eventID)
	if err != nil {
		return models.GroupDining{}, err
	}
	now := time.Now()
	if _, err := event.Leave(userID, now); err != nil {
		return models.GroupDining{}, err
	}

	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, event.TableName(),
		"DELETE currentParticipants :u SET updatedAt = :now",
		"#s = :active AND contains(currentParticipants, :uid)",
		groupDiningKey(eventID),
		map[string]types.AttributeValue{
			":u":      &types.AttributeValueMemberSS{Value: []string{userID}},
			":uid":    &types.AttributeValueMemberS{Value: userID},
			":active": &types.AttributeValueMemberS{Value: models.GroupDiningStatusActive},
			":now":    timeAttr(now),
		},
		map[string]string{"#s": "status"},
	)
	if err != nil {
		return models.GroupDining{}, err
	}

	var updated models.GroupDining
	if err := attributevalue.UnmarshalMap(attrs, &updated); err != nil {
		return models.GroupDining{}, fmt.Errorf("failed to unmarshal group dining event: %w", err)
	}
	return updated, nil
}

// CancelGroupDining moves an active event to cancelled. Organizer only.
func (s *GroupDiningService) CancelGroupDining(ctx context.Context, eventID, requesterID string) (models.GroupDining, error) {
	return s.transitionStatus(ctx, eventID, requesterID, models.GroupDiningStatusCancelled,
		func(event models.GroupDining, now time.Time) (models.GroupDining, error) {
			return event.Cancel(requesterID, now)
		})
}

// CompleteGroupDining moves an active event to completed. This is an
// explicit organizer action, never triggered automatically.
func (s *GroupDiningService) CompleteGroupDining(ctx context.Context, eventID, requesterID string) (models.GroupDining, error) {
	return s.transitionStatus(ctx, eventID, requesterID, models.GroupDiningStatusCompleted,
		func(event models.GroupDining, now time.Time) (models.GroupDining, error) {
			return event.MarkCompleted(requesterID, now)
		})
}

// InviteToGroupDining sends an invitation from a current participant to
// another user. Refuses duplicates: users already in the event, already
// in the invited set, or with an outstanding pending invitation.
func (s *GroupDiningService) InviteToGroupDining(ctx context.Context, eventID, fromUserID, toUserID string) (models.GroupDiningInvitation, error) {
	event, err := s.GetGroupDining(ctx, eventID)
	if err != nil {
		return models.GroupDiningInvitation{}, err
	}
	if !event.HasParticipant(fromUserID) {
		return models.GroupDiningInvitation{}, models.Ineligible("only participants can send invitations")
	}
	if err := event.InviteEligibility(toUserID); err != nil {
		return models.GroupDiningInvitation{}, err
	}

	pending, err := s.GetInvitations(ctx, toUserID)
	if err != nil {
		return models.GroupDiningInvitation{}, err
	}
	for _, inv := range pending {
		if inv.GroupDiningID == eventID {
			return models.GroupDiningInvitation{}, models.Ineligible("invitation already pending")
		}
	}

	sender, err := s.Users.GetUser(ctx, fromUserID)
	if err != nil {
		return models.GroupDiningInvitation{}, err
	}

	now := time.Now()
	invitation := models.NewGroupDiningInvitation(event, sender.ID, sender.DisplayName, toUserID, now)
	if err := s.Dynamo.PutItem(ctx, invitation.TableName(), invitation); err != nil {
		return models.GroupDiningInvitation{}, err
	}

	_, err = s.Dynamo.UpdateItem(ctx, event.TableName(),
		"ADD invitedUsers :u SET updatedAt = :now",
		groupDiningKey(eventID),
		map[string]types.AttributeValue{
			":u":   &types.AttributeValueMemberSS{Value: []string{toUserID}},
			":now": timeAttr(now),
		},
		nil,
	)
	if err != nil {
		return models.GroupDiningInvitation{}, err
	}

	s.pushInvitation(ctx, invitation)
	return invitation, nil
}

// GetInvitations lists the user's pending invitations, newest first.
func (s *GroupDiningService) GetInvitations(ctx context.Context, toUserID string) ([]models.GroupDiningInvitation, error) {
	tableName := models.GroupDiningInvitation{}.TableName()
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
			":pending": &types.AttributeValueMemberS{Value: models.InvitationStatusPending},
		},
		ScanIndexForward: aws.Bool(false),
	}

	items, err := s.Dynamo.QueryItemsWithQueryInput(ctx, input)
	if err != nil {
		return nil, err
	}
	var invitations []models.GroupDiningInvitation
	if err := attributevalue.UnmarshalListOfMaps(items, &invitations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invitations: %w", err)
	}
	return invitations, nil
}

// RespondToInvitation resolves a pending invitation. Accepting attempts
// the join; a join that fails (event filled up or was cancelled in the
// meantime) leaves the invitation accepted and reports the reason in the
// outcome instead of rolling back.
func (s *GroupDiningService) RespondToInvitation(ctx context.Context, invitationID, userID, status string) (InvitationOutcome, error) {
	if status != models.InvitationStatusAccepted && status != models.InvitationStatusDeclined {
		return InvitationOutcome{}, fmt.Errorf("%w: invalid status %q", models.ErrValidation, status)
	}

	item, err := s.Dynamo.GetItem(ctx, models.GroupDiningInvitation{}.TableName(), map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: invitationID},
	})
	if err != nil {
		return InvitationOutcome{}, err
	}
	var invitation models.GroupDiningInvitation
	if err := attributevalue.UnmarshalMap(item, &invitation); err != nil {
		return InvitationOutcome{}, fmt.Errorf("failed to unmarshal invitation: %w", err)
	}
	if invitation.ToUserID != userID {
		return InvitationOutcome{}, models.Ineligible("only the invitee can respond to an invitation")
	}
	if invitation.Status != models.InvitationStatusPending {
		return InvitationOutcome{}, models.Ineligible("invitation is already " + invitation.Status)
	}

	_, err = s.Dynamo.UpdateItemWithCondition(ctx, invitation.TableName(),
		"SET #s = :status",
		"#s = :pending",
		map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: invitationID},
		},
		map[string]types.AttributeValue{
			":status":  &types.AttributeValueMemberS{Value: status},
			":pending": &types.AttributeValueMemberS{Value: models.InvitationStatusPending},
		},
		map[string]string{"#s": "status"},
	)
	if err != nil {
		return InvitationOutcome{}, err
	}
	invitation.Status = status

	outcome := InvitationOutcome{Invitation: invitation}
	if status == models.InvitationStatusAccepted {
		if _, err := s.JoinGroupDining(ctx, invitation.GroupDiningID, userID); err != nil {
			outcome.JoinFailure = joinFailureReason(err)
		} else {
			outcome.Joined = true
		}
	}
	return outcome, nil
}

func (s *GroupDiningService) transitionStatus(ctx context.Context, eventID, requesterID, target string, transition func(models.GroupDining, time.Time) (models.GroupDining, error)) (models.GroupDining, error) {
	event, err := s.GetGroupDining(ctx, eventID)
	if err != nil {
		return models.GroupDining{}, err
	}
	now := time.Now()
	if _, err := transition(event, now); err != nil {
		return models.GroupDining{}, err
	}

	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, event.TableName(),
		"SET #s = :target, updatedAt = :now",
		"#s = :active AND organizerId = :org",
		groupDiningKey(eventID),
		map[string]types.AttributeValue{
			":target": &types.AttributeValueMemberS{Value: target},
			":active": &types.AttributeValueMemberS{Value: models.GroupDiningStatusActive},
			":org":    &types.AttributeValueMemberS{Value: requesterID},
			":now":    timeAttr(now),
		},
		map[string]string{"#s": "status"},
	)
	if err != nil {
		return models.GroupDining{}, err
	}

	var updated models.GroupDining
	if err := attributevalue.UnmarshalMap(attrs, &updated); err != nil {
		return models.GroupDining{}, fmt.Errorf("failed to unmarshal group dining event: %w", err)
	}
	return updated, nil
}

func (s *GroupDiningService) pushInvitation(ctx context.Context, invitation models.GroupDiningInvitation) {
	item, err := s.Dynamo.GetItem(ctx, models.User{}.TableName(), userKey(invitation.ToUserID))
	if err != nil {
		slog.Warn("invitation push skipped", "toUserId", invitation.ToUserID, "error", err)
		return
	}
	if token := utils.ExtractString(item, "fcmToken"); token != "" {
		s.Notifications.Dispatch(GroupDiningInvitationNotification(token,
			invitation.FromUserName, invitation.GroupTitle, invitation.RestaurantName, invitation.ScheduledDate))
	}
}

func joinFailureReason(err error) string {
	if errors.Is(err, models.ErrConflict) {
		return "event changed concurrently"
	}
	return err.Error()
}

func groupDiningKey(eventID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: eventID},
	}
}
