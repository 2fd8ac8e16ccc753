package models

import "time"

type ImpactStat struct {
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
}

// ImpactStory is a testimonial shown on the impact pages.
type ImpactStory struct {
	StoryID   string       `json:"_id" bson:"storyid"`
	Title     string       `json:"title" bson:"title"`
	Role      string       `json:"role" bson:"role"`
	Name      string       `json:"name" bson:"name"`
	Location  string       `json:"location,omitempty" bson:"location,omitempty"`
	Quote     string       `json:"quote" bson:"quote"`
	Stats     []ImpactStat `json:"stats,omitempty" bson:"stats,omitempty"`
	ImagePath string       `json:"imagePath,omitempty" bson:"imagepath,omitempty"`
	CreatedAt time.Time    `json:"createdAt" bson:"created_at"`
}
