package utils

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
)

func TestExtractString(t *testing.T) {
	item := map[string]types.AttributeValue{
		"name": &types.AttributeValueMemberS{Value: "Olivia"},
		"age":  &types.AttributeValueMemberN{Value: "30"},
	}

	assert.Equal(t, "Olivia", ExtractString(item, "name"))
	assert.Empty(t, ExtractString(item, "age"), "non-string attributes read as empty")
	assert.Empty(t, ExtractString(item, "missing"))
}

func TestExtractStringSet(t *testing.T) {
	item := map[string]types.AttributeValue{
		"friends": &types.AttributeValueMemberSS{Value: []string{"a", "b"}},
		"legacy": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "c"},
			&types.AttributeValueMemberN{Value: "1"},
		}},
	}

	assert.Equal(t, []string{"a", "b"}, ExtractStringSet(item, "friends"))
	assert.Equal(t, []string{"c"}, ExtractStringSet(item, "legacy"), "list-stored values are tolerated, non-strings dropped")
	assert.Nil(t, ExtractStringSet(item, "missing"))
}
