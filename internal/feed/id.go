package feed

import (
	"fmt"
	"time"
)

// EpisodeID derives the stable identifier for an episode from its publish
// date, provider key and episode number. The same inputs always produce the
// same ID, which is what makes repeated ingestion runs idempotent: an entry
// seen before maps onto the record already in the store.
//
// The date renders as YYYYMMDD in UTC. An absent episode number renders as
// the literal token "unknown".
func EpisodeID(date time.Time, provider string, number *int) string {
	num := "unknown"
	if number != nil {
		num = fmt.Sprintf("%d", *number)
	}
	return fmt.Sprintf("%s-%s-ep%s", date.UTC().Format("20060102"), provider, num)
}
