package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessingStatusRoundTrip(t *testing.T) {
	for _, status := range ProcessingStatusValues() {
		parsed, err := ProcessingStatusString(status.String())
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}

	_, err := ProcessingStatusString("bogus")
	assert.Error(t, err)
}

func TestProcessingStatusJSON(t *testing.T) {
	data, err := json.Marshal(StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, `"processing"`, string(data))

	var status ProcessingStatus
	require.NoError(t, json.Unmarshal([]byte(`"failed"`), &status))
	assert.Equal(t, StatusFailed, status)
}

func TestDecisionStrings(t *testing.T) {
	assert.Equal(t, "approved", DecisionApproved.String())
	assert.Equal(t, "needs_review", DecisionNeedsReview.String())

	parsed, err := DecisionString("rejected")
	require.NoError(t, err)
	assert.Equal(t, DecisionRejected, parsed)
}

func TestJSONBScanValue(t *testing.T) {
	original := JSONB{"age": float64(46), "city": "Pune"}

	val, err := original.Value()
	require.NoError(t, err)

	var scanned JSONB
	require.NoError(t, scanned.Scan(val))
	assert.Equal(t, original, scanned)

	var nilScanned JSONB
	require.NoError(t, nilScanned.Scan(nil))
	assert.Nil(t, nilScanned)
}

func TestVectorScanValue(t *testing.T) {
	original := Vector{0.1, -0.5, 0.33}

	val, err := original.Value()
	require.NoError(t, err)

	var scanned Vector
	require.NoError(t, scanned.Scan(val))
	assert.InDeltaSlice(t, original, scanned, 1e-6)

	assert.Error(t, scanned.Scan(42))
}

func TestUserSessionIsExpired(t *testing.T) {
	session := &UserSession{ExpiresAt: time.Now().Add(time.Minute)}
	assert.False(t, session.IsExpired())

	session.ExpiresAt = time.Now().Add(-time.Minute)
	assert.True(t, session.IsExpired())
}
