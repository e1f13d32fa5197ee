package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsErrorType_MatchesWrapperTypes(t *testing.T) {
	cause := fmt.Errorf("connection refused")

	assert.True(t, IsErrorType(NewConnectionFailed("bolt://localhost:7687", cause), ErrorTypeConnectivity))
	assert.True(t, IsErrorType(NewConstraintViolation("Entity", cause), ErrorTypeConstraint))
	assert.True(t, IsErrorType(NewQueryFailed("get_by_id", cause), ErrorTypeQuerySyntax))
	assert.True(t, IsErrorType(NewRecordMapping("Server", cause), ErrorTypeMapping))
	assert.True(t, IsErrorType(NewConfigMissingRequired("NEO4J_URI"), ErrorTypeConfig))

	assert.False(t, IsErrorType(NewConnectionFailed("", cause), ErrorTypeConstraint))
	assert.False(t, IsErrorType(cause, ErrorTypeConnectivity))
	assert.False(t, IsErrorType(nil, ErrorTypeConnectivity))
}

func TestIsErrorType_WalksWrappedChain(t *testing.T) {
	inner := NewConnectionFailed("bolt://localhost:7687", fmt.Errorf("refused"))
	outer := fmt.Errorf("health probe: %w", inner)

	assert.True(t, IsErrorType(outer, ErrorTypeConnectivity))
}

func TestIsRetryable(t *testing.T) {
	cause := fmt.Errorf("boom")

	assert.True(t, IsRetryable(NewConnectionFailed("", cause)))
	assert.False(t, IsRetryable(NewQueryFailed("q", cause)))
	assert.False(t, IsRetryable(NewConstraintViolation("Entity", cause)))
	assert.False(t, IsRetryable(cause))
}

func TestBaseError_Message(t *testing.T) {
	err := NewConstraintViolation("Entity", fmt.Errorf("already exists"))
	assert.Contains(t, err.Error(), "constraint")
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, "already exists", err.Unwrap().Error())
}
