package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kairo-app/scrapper/internal/models"
)

const (
	episodesFile = "episodes.json"
	channelsFile = "channels.json"
)

// Metadata summarizes a persisted collection. It is computed at write time
// and never stored anywhere else.
type Metadata struct {
	Total       int       `json:"total"`
	GeneratedAt time.Time `json:"generated_at"`
}

type episodeDocument struct {
	Metadata Metadata         `json:"metadata"`
	Episodes []models.Episode `json:"episodes"`
}

type channelDocument struct {
	Metadata Metadata         `json:"metadata"`
	Channels []models.Channel `json:"channels"`
}

// Store is the durable merged dataset: every episode and channel across all
// providers, persisted as two JSON documents under one directory. Writes
// are whole-dataset read-merge-write operations; the store assumes a single
// writer at a time.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Episodes returns all persisted episodes. A missing or unreadable file
// means no prior state, never an error.
func (s *Store) Episodes() []models.Episode {
	var doc episodeDocument
	s.read(episodesFile, &doc)
	return doc.Episodes
}

// Channels returns all persisted channels, with the same missing-file
// semantics as Episodes.
func (s *Store) Channels() []models.Channel {
	var doc channelDocument
	s.read(channelsFile, &doc)
	return doc.Channels
}

// ExistingEpisodeIDs returns the set of episode IDs already persisted for
// one provider. Ingestion uses it to skip re-validating audio URLs that
// were confirmed reachable in a prior run.
func (s *Store) ExistingEpisodeIDs(provider string) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, ep := range s.Episodes() {
		if ep.Provider == provider {
			ids[ep.ID] = struct{}{}
		}
	}
	return ids
}

// Reconcile merges one provider's freshly ingested dataset into the store.
// Incoming episodes overlay existing ones by ID (last write wins), the
// merged episode list is re-sorted by date descending, the channel list is
// overlaid and re-sorted by name, and every channel's total_episodes is
// recomputed from the merged set. Both documents are serialized and written
// to temporary files before either is renamed into place, so a failure
// partway through leaves the prior dataset untouched.
func (s *Store) Reconcile(episodes []models.Episode, channel models.Channel) error {
	merged := s.Episodes()
	index := make(map[string]int, len(merged))
	for i, ep := range merged {
		index[ep.ID] = i
	}
	for _, ep := range episodes {
		if i, ok := index[ep.ID]; ok {
			merged[i] = ep
			continue
		}
		index[ep.ID] = len(merged)
		merged = append(merged, ep)
	}

	// Date ties keep their relative order, existing entries first.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})

	channels := s.Channels()
	replaced := false
	for i, ch := range channels {
		if ch.ID == channel.ID {
			channels[i] = channel
			replaced = true
			break
		}
	}
	if !replaced {
		channels = append(channels, channel)
	}

	counts := make(map[string]int)
	for _, ep := range merged {
		counts[ep.Provider]++
	}
	for i := range channels {
		channels[i].TotalEpisodes = counts[channels[i].ID]
	}

	sort.Slice(channels, func(i, j int) bool {
		return channels[i].Name < channels[j].Name
	})

	return s.write(merged, channels)
}

func (s *Store) read(name string, v interface{}) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("store: ignoring corrupt %s: %v", name, err)
	}
}

func (s *Store) write(episodes []models.Episode, channels []models.Channel) error {
	now := time.Now().UTC()

	epData, err := json.MarshalIndent(episodeDocument{
		Metadata: Metadata{Total: len(episodes), GeneratedAt: now},
		Episodes: episodes,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal episodes: %w", err)
	}

	chData, err := json.MarshalIndent(channelDocument{
		Metadata: Metadata{Total: len(channels), GeneratedAt: now},
		Channels: channels,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal channels: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	epTmp := filepath.Join(s.dir, episodesFile+".tmp")
	chTmp := filepath.Join(s.dir, channelsFile+".tmp")
	if err := os.WriteFile(epTmp, epData, 0o644); err != nil {
		return fmt.Errorf("failed to write episodes: %w", err)
	}
	if err := os.WriteFile(chTmp, chData, 0o644); err != nil {
		os.Remove(epTmp)
		return fmt.Errorf("failed to write channels: %w", err)
	}

	if err := os.Rename(epTmp, filepath.Join(s.dir, episodesFile)); err != nil {
		os.Remove(chTmp)
		return fmt.Errorf("failed to replace episodes: %w", err)
	}
	if err := os.Rename(chTmp, filepath.Join(s.dir, channelsFile)); err != nil {
		return fmt.Errorf("failed to replace channels: %w", err)
	}
	return nil
}
