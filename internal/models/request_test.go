package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestEnumValidation(t *testing.T) {
	assert.True(t, IsValidRequestType(RequestTypeBug))
	assert.True(t, IsValidRequestType(RequestTypeSupport))
	assert.False(t, IsValidRequestType("outage"))

	assert.True(t, IsValidRequestPriority(RequestPriorityUrgent))
	assert.False(t, IsValidRequestPriority("critical"))

	assert.True(t, IsValidRequestStatus(RequestStatusInProgress))
	assert.True(t, IsValidRequestStatus(RequestStatusCanceled))
	assert.False(t, IsValidRequestStatus("archived"))
}
