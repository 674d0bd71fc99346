package models

// Channel is one provider's podcast metadata. Its ID is the provider key,
// and TotalEpisodes is recomputed from the merged store at write time rather
// than taken from the feed.
type Channel struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Author        string `json:"author"`
	Description   string `json:"description"`
	ImageURL      string `json:"image_url"`
	URL           string `json:"url"`
	TotalEpisodes int    `json:"total_episodes"`
}
