// Package matcher correlates library, download and playback snapshots and
// decides which media can be deleted.
//
// Nothing in this package performs I/O or returns errors: every function
// consumes collector snapshots that were already degraded to empty on failure.
package matcher

import (
	"strings"

	"github.com/amaumene/mediacleanerr/internal/models"
)

// Index holds the lookup structures built from one set of snapshots
type Index struct {
	// Torrents in download client order
	Torrents []models.Torrent
	// TorrentsByHash is keyed by lower-cased hash; duplicates keep the last torrent
	TorrentsByHash map[string]models.Torrent

	// MovieCandidates and SeriesCandidates map a manager's internal id to the
	// distinct lower-cased download ids found in its history, in discovery order
	MovieCandidates  map[int][]string
	SeriesCandidates map[int][]string

	// EpisodesByDownload maps a lower-cased download id to the episodes the
	// series manager recorded for it
	EpisodesByDownload map[string][]models.Episode

	Watch *WatchMap
}

// BuildIndex builds every lookup structure from the snapshot
func BuildIndex(s Snapshot) *Index {
	return &Index{
		Torrents:           s.Torrents,
		TorrentsByHash:     IndexTorrents(s.Torrents),
		MovieCandidates:    IndexCandidates(s.MovieHistory),
		SeriesCandidates:   IndexCandidates(s.SeriesHistory),
		EpisodesByDownload: IndexEpisodes(s.SeriesHistory),
		Watch:              BuildWatchMap(s.PlayerItems),
	}
}

// IndexTorrents maps lower-cased torrent hashes to torrents
func IndexTorrents(torrents []models.Torrent) map[string]models.Torrent {
	byHash := make(map[string]models.Torrent, len(torrents))
	for _, torrent := range torrents {
		byHash[strings.ToLower(torrent.Hash)] = torrent
	}
	return byHash
}

// IndexCandidates groups history download ids by media id.
// Records without a media id or download id are skipped.
func IndexCandidates(history []models.HistoryRecord) map[int][]string {
	candidates := make(map[int][]string)
	seen := make(map[int]map[string]struct{})

	for _, record := range history {
		if record.MediaID == 0 || record.DownloadID == "" {
			continue
		}
		id := strings.ToLower(record.DownloadID)

		if seen[record.MediaID] == nil {
			seen[record.MediaID] = make(map[string]struct{})
		}
		if _, ok := seen[record.MediaID][id]; ok {
			continue
		}
		seen[record.MediaID][id] = struct{}{}
		candidates[record.MediaID] = append(candidates[record.MediaID], id)
	}

	return candidates
}

// IndexEpisodes maps lower-cased download ids to the episodes recorded for them
func IndexEpisodes(history []models.HistoryRecord) map[string][]models.Episode {
	episodes := make(map[string][]models.Episode)
	for _, record := range history {
		if record.DownloadID == "" || record.Episode == nil {
			continue
		}
		id := strings.ToLower(record.DownloadID)
		episodes[id] = append(episodes[id], *record.Episode)
	}
	return episodes
}
