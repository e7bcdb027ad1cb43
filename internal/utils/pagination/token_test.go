package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC)
	orderID := "6f1a8f3c-9f21-4c57-9a47-2f9b7f0f8b11"

	token := EncodeToken(createdAt, orderID)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedCreatedAt, decodedOrderID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, createdAt, decodedCreatedAt, "Created at time should match after decode")
	assert.Equal(t, orderID, decodedOrderID, "Order ID should match after decode")

	// Zero time still round-trips.
	zeroToken := EncodeToken(time.Time{}, orderID)
	decodedZero, decodedID, err := DecodeToken(zeroToken)
	assert.NoError(t, err)
	assert.Equal(t, time.Time{}, decodedZero)
	assert.Equal(t, orderID, decodedID)

	// Current time survives with nanosecond precision.
	now := time.Now().UTC()
	nowToken := EncodeToken(now, orderID)
	decodedNow, _, err := DecodeToken(nowToken)
	assert.NoError(t, err)
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	// Invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Valid base64, missing separator
	_, _, err = DecodeToken("aGVsbG8=") // "hello"
	assert.Error(t, err, "Should return an error for a token without separator")
	assert.Contains(t, err.Error(), "split")

	// Valid shape, unparseable timestamp
	_, _, err = DecodeToken("bm90LWEtZGF0ZXxvcmRlci0x") // "not-a-date|order-1"
	assert.Error(t, err, "Should return an error for an unparseable timestamp")
	assert.Contains(t, err.Error(), "created_at parse")
}
