package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reflection-backend/internal/models"
)

func entryOn(day time.Time, mood string) models.JournalEntry {
	return models.JournalEntry{Mood: mood, EntryDate: day}
}

func TestWeeklyMoodsAveragesPerDay(t *testing.T) {
	now := time.Date(2025, 9, 14, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	entries := []models.JournalEntry{
		entryOn(yesterday, models.MoodAmazing),
		entryOn(yesterday, models.MoodOkay),
		entryOn(now, models.MoodGood),
		entryOn(now.AddDate(0, 0, -30), models.MoodAwful), // outside the window
	}

	points := weeklyMoods(entries, now)
	require.Len(t, points, 7)

	assert.Equal(t, 4.0, points[5].Value, "yesterday averages amazing(5) and okay(3)")
	assert.Equal(t, models.MoodGood, points[5].Mood)
	assert.Equal(t, 4.0, points[6].Value)
	assert.Equal(t, models.MoodGood, points[6].Mood)

	for _, point := range points[:5] {
		assert.Zero(t, point.Value)
		assert.Empty(t, point.Mood)
	}
}

func TestWeeklyMoodsEmptyJournal(t *testing.T) {
	points := weeklyMoods(nil, time.Now())
	require.Len(t, points, 7)
	for _, point := range points {
		assert.Zero(t, point.Value)
	}
}

func TestDistributeMoods(t *testing.T) {
	entries := []models.JournalEntry{
		{Mood: models.MoodGood},
		{Mood: models.MoodGood},
		{Mood: models.MoodOkay},
		{Mood: models.MoodAwful},
	}

	distribution := distributeMoods(entries)
	require.Len(t, distribution, 5)

	byMood := map[string]moodDistribution{}
	for _, item := range distribution {
		byMood[item.Mood] = item
	}

	assert.Equal(t, 2, byMood[models.MoodGood].Count)
	assert.Equal(t, 50.0, byMood[models.MoodGood].Percentage)
	assert.Equal(t, 25.0, byMood[models.MoodOkay].Percentage)
	assert.Equal(t, 0, byMood[models.MoodAmazing].Count)
	assert.NotEmpty(t, byMood[models.MoodAwful].Color)
}

func TestDistributeMoodsEmpty(t *testing.T) {
	distribution := distributeMoods(nil)
	require.Len(t, distribution, 5)
	for _, item := range distribution {
		assert.Zero(t, item.Count)
		assert.Zero(t, item.Percentage)
	}
}
