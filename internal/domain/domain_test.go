package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCancelled, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseBookingStatus(t *testing.T) {
	s, err := ParseBookingStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseBookingStatus("done")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOverlaps_HalfOpen(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC) }

	assert.False(t, Overlaps(at(9, 0), at(9, 30), at(9, 30), at(10, 0)))
	assert.False(t, Overlaps(at(9, 30), at(10, 0), at(9, 0), at(9, 30)))
	assert.True(t, Overlaps(at(9, 0), at(9, 30), at(9, 15), at(9, 45)))
	assert.True(t, Overlaps(at(9, 0), at(12, 0), at(10, 0), at(10, 30)))
}

func TestValidationError(t *testing.T) {
	v := NewValidationError()
	assert.NoError(t, v.OrNil())

	v.Add("customer_name", "must be at least 3 characters")
	v.Add("customer_email", "must be a valid email address")
	err := v.OrNil()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Len(t, fields, 2)
	assert.Equal(t, "validation failed: customer_email: must be a valid email address; customer_name: must be at least 3 characters", err.Error())
}

func TestActor_CanManage(t *testing.T) {
	b := &Business{ID: 1, OwnerID: 7}
	assert.True(t, Actor{UserID: 7, Role: RoleOwner}.CanManage(b))
	assert.False(t, Actor{UserID: 8, Role: RoleOwner}.CanManage(b))
	assert.True(t, Actor{UserID: 8, Role: RoleSuperadmin}.CanManage(b))
}

func TestBookingSettings_StepFor(t *testing.T) {
	s := &BookingSettings{}
	assert.Equal(t, 45*time.Minute, s.StepFor(45))

	step := 15
	s.SlotStepMinutes = &step
	assert.Equal(t, 15*time.Minute, s.StepFor(45))
}

func TestDecodeBlockContent(t *testing.T) {
	t.Run("hero", func(t *testing.T) {
		c, err := DecodeBlockContent(BlockHero, json.RawMessage(`{"title":"Welcome","image_url":"https://cdn.example.com/a.png"}`))
		require.NoError(t, err)
		hero, ok := c.(HeroContent)
		require.True(t, ok)
		assert.Equal(t, "Welcome", hero.Title)

		v := NewValidationError()
		c.Validate(v, "blocks[0].content")
		assert.False(t, v.HasErrors())
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		_, err := DecodeBlockContent(BlockAbout, json.RawMessage(`{"title":"x","text":"y","color":"red"}`))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := DecodeBlockContent("gallery", json.RawMessage(`{}`))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("contact needs a channel", func(t *testing.T) {
		c, err := DecodeBlockContent(BlockContact, nil)
		require.NoError(t, err)
		v := NewValidationError()
		c.Validate(v, "content")
		assert.Contains(t, v.Fields, "content")
	})

	t.Run("bad image url", func(t *testing.T) {
		c, err := DecodeBlockContent(BlockHero, json.RawMessage(`{"title":"t","image_url":"ftp://x"}`))
		require.NoError(t, err)
		v := NewValidationError()
		c.Validate(v, "content")
		assert.Contains(t, v.Fields, "content.image_url")
	})
}

func TestSortBlocks(t *testing.T) {
	blocks := []Block{
		{ID: 3, Order: 2},
		{ID: 1, Order: -1},
		{ID: 5, Order: 2},
		{ID: 2, Order: 0},
	}
	SortBlocks(blocks)

	ids := make([]int64, 0, len(blocks))
	for _, b := range blocks {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []int64{1, 2, 3, 5}, ids)
}
