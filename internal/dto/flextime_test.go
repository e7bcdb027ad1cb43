package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTime_UnmarshalRFC3339(t *testing.T) {
	var ft FlexTime
	err := json.Unmarshal([]byte(`"2024-03-10T12:30:00Z"`), &ft)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC), ft.Time)
}

func TestFlexTime_UnmarshalRFC3339Nano(t *testing.T) {
	var ft FlexTime
	err := json.Unmarshal([]byte(`"2024-03-10T12:30:00.123456789Z"`), &ft)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 12, 30, 0, 123456789, time.UTC), ft.Time)
}

func TestFlexTime_UnmarshalSecondsNanos(t *testing.T) {
	instant := time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)

	var ft FlexTime
	err := json.Unmarshal([]byte(`{"seconds": 1710073800, "nanos": 0}`), &ft)
	require.NoError(t, err)
	assert.True(t, instant.Equal(ft.Time), "seconds/nanos shape should decode to the same instant")
}

func TestFlexTime_BothShapesAgree(t *testing.T) {
	var fromString, fromObject FlexTime
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-10T12:30:00.5Z"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`{"seconds": 1710073800, "nanos": 500000000}`), &fromObject))
	assert.True(t, fromString.Equal(fromObject.Time))
}

func TestFlexTime_UnmarshalNull(t *testing.T) {
	var ft FlexTime
	err := json.Unmarshal([]byte(`null`), &ft)
	require.NoError(t, err)
	assert.True(t, ft.IsZero())
}

func TestFlexTime_UnmarshalInvalid(t *testing.T) {
	var ft FlexTime
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ft))
	assert.Error(t, json.Unmarshal([]byte(`42`), &ft))
}

func TestFlexTime_MarshalIsRFC3339(t *testing.T) {
	ft := FlexTime{Time: time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)}
	data, err := json.Marshal(ft)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-03-10T12:30:00Z"`, string(data))
}

func TestFlexTime_TimePtr(t *testing.T) {
	var nilTime *FlexTime
	assert.Nil(t, nilTime.TimePtr())

	var zero FlexTime
	assert.Nil(t, zero.TimePtr())

	ft := FlexTime{Time: time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)}
	ptr := ft.TimePtr()
	require.NotNil(t, ptr)
	assert.Equal(t, ft.Time, *ptr)
}
