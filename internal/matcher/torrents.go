package matcher

import (
	"path"
	"strings"

	"github.com/amaumene/mediacleanerr/internal/models"
	"golang.org/x/text/cases"
)

// MatchMethod records how a torrent was associated with a media item
type MatchMethod string

const (
	MatchNone MatchMethod = "none"
	MatchHash MatchMethod = "hash"
	MatchPath MatchMethod = "path"
)

// TorrentMatcher resolves the torrents backing each media item.
// A hash matched to one item is not offered to later items.
type TorrentMatcher struct {
	index   *Index
	claimed map[string]struct{}
}

// NewTorrentMatcher creates a matcher over the given index
func NewTorrentMatcher(index *Index) *TorrentMatcher {
	return &TorrentMatcher{
		index:   index,
		claimed: make(map[string]struct{}),
	}
}

// Match returns the torrents of a media item, in match order.
// History download ids are tried first; content paths are only compared when
// no history id matched. Movies stop at the first hit, series collect all hits.
func (m *TorrentMatcher) Match(item models.MediaItem) ([]models.Torrent, MatchMethod) {
	if torrents := m.matchByHash(item); len(torrents) > 0 {
		return torrents, MatchHash
	}
	if torrents := m.matchByPath(item); len(torrents) > 0 {
		return torrents, MatchPath
	}
	return nil, MatchNone
}

func (m *TorrentMatcher) matchByHash(item models.MediaItem) []models.Torrent {
	candidates := m.index.MovieCandidates[item.ID]
	if item.Kind == models.MediaTypeSeries {
		candidates = m.index.SeriesCandidates[item.ID]
	}

	var matched []models.Torrent
	for _, hash := range candidates {
		if _, taken := m.claimed[hash]; taken {
			continue
		}
		torrent, ok := m.index.TorrentsByHash[hash]
		if !ok {
			continue
		}
		m.claimed[hash] = struct{}{}
		matched = append(matched, torrent)
		if item.Kind == models.MediaTypeMovie {
			break
		}
	}
	return matched
}

func (m *TorrentMatcher) matchByPath(item models.MediaItem) []models.Torrent {
	mediaPath := NormalizePath(item.Path)
	if mediaPath == "" {
		return nil
	}

	var matched []models.Torrent
	for _, torrent := range m.index.Torrents {
		torrentPath := NormalizePath(torrent.ContentPath)
		if torrentPath == "" {
			continue
		}

		if item.Kind == models.MediaTypeMovie {
			if strings.Contains(torrentPath, mediaPath) || strings.Contains(mediaPath, torrentPath) {
				return []models.Torrent{torrent}
			}
			continue
		}

		if strings.Contains(torrentPath, mediaPath) {
			matched = append(matched, torrent)
		}
	}
	return matched
}

// NormalizePath converts separators to forward slashes, cleans the path and
// case-folds it. Empty and root paths normalize to "" so they never match.
func NormalizePath(p string) string {
	if strings.TrimSpace(p) == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	if p == "/" || p == "." {
		return ""
	}
	p = strings.TrimSuffix(p, "/")
	return cases.Fold().String(p)
}
