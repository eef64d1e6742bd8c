package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalItemFixedWidthTimestamps(t *testing.T) {
	type doc struct {
		ID string    `dynamodbav:"id"`
		At time.Time `dynamodbav:"at"`
	}
	whole := time.Date(2025, 6, 1, 12, 0, 5, 0, time.UTC)
	half := whole.Add(500 * time.Millisecond)

	a, err := marshalItem(doc{ID: "a", At: whole})
	require.NoError(t, err)
	b, err := marshalItem(doc{ID: "b", At: half})
	require.NoError(t, err)

	sa := a["at"].(*types.AttributeValueMemberS).Value
	sb := b["at"].(*types.AttributeValueMemberS).Value

	assert.Equal(t, "2025-06-01T12:00:05.000000000Z", sa)
	assert.Equal(t, "2025-06-01T12:00:05.500000000Z", sb)

	// RFC3339Nano trims trailing zeros, which would make the whole-second
	// value ("...05Z") sort after the later half-second one ("...05.5Z").
	assert.Less(t, sa, sb)

	parsed, err := time.Parse(time.RFC3339, sa)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(whole))
}

func TestMarshalItemRejectsNonStruct(t *testing.T) {
	_, err := marshalItem("not a document")
	assert.Error(t, err)
}

func TestIsConditionalFailure(t *testing.T) {
	ccf := &types.ConditionalCheckFailedException{}
	assert.True(t, isConditionalFailure(ccf))
	assert.True(t, isConditionalFailure(fmt.Errorf("put failed: %w", ccf)))

	cancelled := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("None")},
			{Code: aws.String("ConditionalCheckFailed")},
		},
	}
	assert.True(t, isConditionalFailure(cancelled))

	throttled := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("TransactionConflict")},
		},
	}
	assert.False(t, isConditionalFailure(throttled))
	assert.False(t, isConditionalFailure(errors.New("network unreachable")))
}
