package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"reflection-backend/internal/models"
)

type InsightsHandler struct {
	DB *gorm.DB
}

type weeklyMoodPoint struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
	Mood  string  `json:"mood"`
}

type moodDistribution struct {
	Mood       string  `json:"mood"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

var moodScores = map[string]float64{
	models.MoodAmazing:  5,
	models.MoodGood:     4,
	models.MoodOkay:     3,
	models.MoodNotGreat: 2,
	models.MoodAwful:    1,
}

var moodColors = map[string]string{
	models.MoodAmazing:  "#10B981",
	models.MoodGood:     "#3B82F6",
	models.MoodOkay:     "#F59E0B",
	models.MoodNotGreat: "#EF4444",
	models.MoodAwful:    "#7C2D12",
}

var moodOrder = []string{
	models.MoodAmazing,
	models.MoodGood,
	models.MoodOkay,
	models.MoodNotGreat,
	models.MoodAwful,
}

func NewInsightsHandler(db *gorm.DB) *InsightsHandler {
	return &InsightsHandler{DB: db}
}

func (h *InsightsHandler) Get(c *gin.Context) {
	userID, ok := currentUserUUID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var entries []models.JournalEntry
	if err := h.DB.Where("user_id = ?", userID).Order("entry_date asc").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"weekly":       weeklyMoods(entries, time.Now()),
		"distribution": distributeMoods(entries),
	})
}

// weeklyMoods averages mood scores per day over the 7 days ending at
// now, oldest day first. Days without entries carry a zero value and
// an empty mood.
func weeklyMoods(entries []models.JournalEntry, now time.Time) []weeklyMoodPoint {
	type bucket struct {
		total float64
		count int
	}
	start := now.AddDate(0, 0, -6).Truncate(24 * time.Hour)
	buckets := map[string]*bucket{}
	for _, entry := range entries {
		day := entry.EntryDate.Truncate(24 * time.Hour)
		if day.Before(start) || day.After(now) {
			continue
		}
		key := day.Format("2006-01-02")
		if buckets[key] == nil {
			buckets[key] = &bucket{}
		}
		buckets[key].total += moodScores[entry.Mood]
		buckets[key].count++
	}

	points := make([]weeklyMoodPoint, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		point := weeklyMoodPoint{Day: day.Format("Mon")}
		if b := buckets[day.Format("2006-01-02")]; b != nil && b.count > 0 {
			point.Value = b.total / float64(b.count)
			point.Mood = nearestMood(point.Value)
		}
		points = append(points, point)
	}
	return points
}

// distributeMoods counts entries per mood across the whole journal and
// derives each mood's share as a percentage.
func distributeMoods(entries []models.JournalEntry) []moodDistribution {
	counts := map[string]int{}
	for _, entry := range entries {
		counts[entry.Mood]++
	}

	distribution := make([]moodDistribution, 0, len(moodOrder))
	for _, mood := range moodOrder {
		item := moodDistribution{Mood: mood, Count: counts[mood], Color: moodColors[mood]}
		if len(entries) > 0 {
			item.Percentage = float64(counts[mood]) * 100 / float64(len(entries))
		}
		distribution = append(distribution, item)
	}
	return distribution
}

func nearestMood(score float64) string {
	best := moodOrder[0]
	bestDiff := -1.0
	for _, mood := range moodOrder {
		diff := moodScores[mood] - score
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best = mood
			bestDiff = diff
		}
	}
	return best
}
