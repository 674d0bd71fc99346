package providers

// Provider declares one upstream podcast source.
type Provider struct {
	// Key identifies the provider everywhere: in episode IDs, in the
	// channel record and in the persisted dataset.
	Key     string
	Name    string
	FeedURL string
}

// All is the static list of ingested feeds.
var All = []Provider{
	{
		Key:     "darknetdiaries",
		Name:    "Darknet Diaries",
		FeedURL: "https://feeds.megaphone.fm/darknetdiaries",
	},
	{
		Key:     "syntax",
		Name:    "Syntax",
		FeedURL: "https://feed.syntax.fm/rss",
	},
	{
		Key:     "changelog",
		Name:    "The Changelog",
		FeedURL: "https://changelog.com/podcast/feed",
	},
	{
		Key:     "shoptalk",
		Name:    "ShopTalk Show",
		FeedURL: "https://shoptalkshow.com/feed/podcast/",
	},
	{
		Key:     "gotime",
		Name:    "Go Time",
		FeedURL: "https://changelog.com/gotime/feed",
	},
}

// ByKey looks up a provider by its key.
func ByKey(key string) (Provider, bool) {
	for _, p := range All {
		if p.Key == key {
			return p, true
		}
	}
	return Provider{}, false
}
