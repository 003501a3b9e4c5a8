package matcher

import (
	"fmt"
	"strings"

	"github.com/amaumene/mediacleanerr/internal/models"
	"github.com/amaumene/mediacleanerr/internal/utils"
)

// TorrentLabel derives a season/episode label for a series torrent.
// Episodes recorded in history for the torrent's hash win over the release name.
func TorrentLabel(torrent models.Torrent, episodesByDownload map[string][]models.Episode) string {
	if episodes := episodesByDownload[strings.ToLower(torrent.Hash)]; len(episodes) > 0 {
		if label := utils.SeasonLabelFromEpisodes(episodes); label != "" {
			return label
		}
	}
	return utils.SeasonLabelFromName(torrent.Name)
}

// SeriesTitles returns one display title per torrent of a series.
// A label is appended only when no other torrent of the series shares it;
// otherwise, or when no label could be derived, the torrent name is appended.
func SeriesTitles(title string, torrents []models.Torrent, episodesByDownload map[string][]models.Episode) []string {
	if len(torrents) <= 1 {
		titles := make([]string, len(torrents))
		for i := range titles {
			titles[i] = title
		}
		return titles
	}

	labels := make([]string, len(torrents))
	counts := make(map[string]int)
	for i, torrent := range torrents {
		labels[i] = TorrentLabel(torrent, episodesByDownload)
		if labels[i] != "" {
			counts[labels[i]]++
		}
	}

	titles := make([]string, len(torrents))
	for i, torrent := range torrents {
		suffix := torrent.Name
		if labels[i] != "" && counts[labels[i]] == 1 {
			suffix = labels[i]
		}
		titles[i] = fmt.Sprintf("%s (%s)", title, suffix)
	}
	return titles
}
