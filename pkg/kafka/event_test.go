package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewCreated struct {
	ReviewID     string `json:"review_id"`
	RestaurantID string `json:"restaurant_id"`
	Rating       int    `json:"rating"`
}

func TestNewEvent(t *testing.T) {
	payload := reviewCreated{ReviewID: "rev-1", RestaurantID: "rest-1", Rating: 5}

	evt, err := NewEvent("restaurant.review.created", "rest-1", "restaurant", "restaurant-review", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, "restaurant.review.created", evt.EventType)
	assert.Equal(t, "rest-1", evt.AggregateID)
	assert.Equal(t, "restaurant", evt.AggregateType)
	assert.Equal(t, 1, evt.Version)
	assert.False(t, evt.Timestamp.IsZero())
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	payload := reviewCreated{ReviewID: "rev-2", RestaurantID: "rest-9", Rating: 3}
	evt, err := NewEvent("restaurant.review.created", "rest-9", "restaurant", "restaurant-review", payload)
	require.NoError(t, err)
	evt.WithCorrelationID("corr-1")

	data, err := evt.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"correlation_id":"corr-1"`)

	var decoded reviewCreated
	require.NoError(t, evt.UnmarshalData(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("x", "y", "z", "s", make(chan int))
	assert.Error(t, err)
}
