package models

import "time"

// Episode is one published unit of audio content from a provider's feed.
// The ID is derived from publish date, provider key and episode number, so
// re-ingesting the same feed entry always yields the same record key.
type Episode struct {
	ID            string    `json:"id"`
	Provider      string    `json:"provider"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Summary       string    `json:"summary"`
	Description   string    `json:"description"`
	EpisodeNumber *int      `json:"episode_number,omitempty"`
	Date          time.Time `json:"date"`
	AudioURL      string    `json:"audio_url"`
	ImageURL      string    `json:"image_url"`
	URL           string    `json:"url"`
	Duration      string    `json:"duration"`
}
