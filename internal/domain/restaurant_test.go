package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{
			name:    "no reviews yields zero",
			ratings: nil,
			want:    0,
		},
		{
			name:    "single review",
			ratings: []int{4},
			want:    4,
		},
		{
			name:    "whole mean",
			ratings: []int{5, 3, 4},
			want:    4,
		},
		{
			name:    "fractional mean",
			ratings: []int{5, 3, 4, 2},
			want:    3.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Restaurant{}
			for _, rating := range tt.ratings {
				r.Reviews = append(r.Reviews, Review{Rating: rating})
			}

			r.RecomputeAverageRating()

			assert.Equal(t, tt.want, r.AverageRating)
		})
	}
}

func TestRecomputeAverageRating_AfterRemoval(t *testing.T) {
	r := &Restaurant{Reviews: []Review{
		{ID: "a", Rating: 5},
		{ID: "b", Rating: 3},
		{ID: "c", Rating: 4},
	}}
	r.RecomputeAverageRating()
	require.Equal(t, 4.0, r.AverageRating)

	require.True(t, r.RemoveReview("a"))
	r.RecomputeAverageRating()

	assert.Equal(t, 3.5, r.AverageRating)
}

func TestReview_Editable(t *testing.T) {
	posted := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	review := Review{DatePosted: posted}

	assert.True(t, review.Editable(posted))
	assert.True(t, review.Editable(posted.Add(EditWindow)))
	assert.False(t, review.Editable(posted.Add(EditWindow+time.Nanosecond)))
}

func TestRestaurant_FindReview(t *testing.T) {
	r := &Restaurant{Reviews: []Review{
		{ID: "r1", Content: "great"},
		{ID: "r2", Content: "fine"},
	}}

	found := r.FindReview("r2")
	require.NotNil(t, found)
	assert.Equal(t, "fine", found.Content)

	// Mutations through the pointer must hit the aggregate itself.
	found.Content = "edited"
	assert.Equal(t, "edited", r.Reviews[1].Content)

	assert.Nil(t, r.FindReview("missing"))
}

func TestRestaurant_HasReviewBy(t *testing.T) {
	r := &Restaurant{Reviews: []Review{
		{ID: "r1", WrittenBy: User{ID: "alice"}},
	}}

	assert.True(t, r.HasReviewBy("alice"))
	assert.False(t, r.HasReviewBy("bob"))

	require.True(t, r.RemoveReview("r1"))
	assert.False(t, r.HasReviewBy("alice"))
}

func TestRestaurant_RemoveReview(t *testing.T) {
	r := &Restaurant{Reviews: []Review{
		{ID: "r1"},
		{ID: "r2"},
		{ID: "r3"},
	}}

	assert.False(t, r.RemoveReview("nope"))
	assert.Len(t, r.Reviews, 3)

	assert.True(t, r.RemoveReview("r2"))
	require.Len(t, r.Reviews, 2)
	assert.Equal(t, "r1", r.Reviews[0].ID)
	assert.Equal(t, "r3", r.Reviews[1].ID)
}
