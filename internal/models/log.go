package models

import (
	"strconv"
	"time"
)

type LogType string

const (
	LogTypeObserved LogType = "observed"
	LogTypeResisted LogType = "resisted"
)

// Points awarded per log type, fixed at creation time.
const (
	PointsObserved = 10
	PointsResisted = 30
)

// Category is a craving label. The app ships a built-in set but users may
// add free-text categories, so the type stays an open string with a
// well-known const block rather than a closed enum.
type Category string

const (
	CategorySugar      Category = "Sugar"
	CategoryJunkFood   Category = "Junk Food"
	CategoryInstagram  Category = "Instagram"
	CategoryTikTok     Category = "TikTok"
	CategoryYouTube    Category = "YouTube"
	CategoryAlcohol    Category = "Alcohol"
	CategoryCigarettes Category = "Cigarettes"
	CategoryShopping   Category = "Shopping"
	CategoryGaming     Category = "Gaming"
	CategoryNetflix    Category = "Netflix"
	CategoryTwitter    Category = "Twitter"
	CategoryReddit     Category = "Reddit"
	CategoryPorn       Category = "Porn"
	CategoryCoffee     Category = "Coffee"
	CategoryOther      Category = "Other"
)

// BuiltinCategories is the default selection offered during onboarding.
var BuiltinCategories = []Category{
	CategorySugar, CategoryJunkFood, CategoryInstagram, CategoryTikTok,
	CategoryYouTube, CategoryAlcohol, CategoryCigarettes, CategoryShopping,
	CategoryGaming, CategoryNetflix, CategoryTwitter, CategoryReddit,
	CategoryPorn, CategoryCoffee, CategoryOther,
}

// Known reports whether c is one of the built-in categories.
func (c Category) Known() bool {
	for _, b := range BuiltinCategories {
		if c == b {
			return true
		}
	}
	return false
}

// Emotion is free text so users can define custom emotions ("Happy 😊").
type Emotion = string

// Log is one recorded craving event. Points are stored on the record, not
// recomputed, so historical totals survive policy changes.
type Log struct {
	ID         string    `json:"id"`
	Category   Category  `json:"category"`
	Type       LogType   `json:"type"`
	Emotion    *Emotion  `json:"emotion,omitempty"`
	Reflection *string   `json:"reflection,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Points     int       `json:"points"`
}

// PointsFor returns the award for a log type.
func PointsFor(t LogType) int {
	if t == LogTypeResisted {
		return PointsResisted
	}
	return PointsObserved
}

// NewLogID derives a log id from the creation instant. Decimal millisecond
// ids sort chronologically, which breaks ties when timestamps collide.
func NewLogID(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
