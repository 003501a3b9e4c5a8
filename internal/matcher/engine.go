package matcher

import (
	"fmt"

	"github.com/amaumene/mediacleanerr/internal/models"
	"github.com/amaumene/mediacleanerr/internal/utils"
	"github.com/sirupsen/logrus"
)

// Snapshot is everything the collectors returned for one aggregation run
type Snapshot struct {
	Movies        []models.MediaItem
	MovieHistory  []models.HistoryRecord
	Series        []models.MediaItem
	SeriesHistory []models.HistoryRecord
	Torrents      []models.Torrent
	PlayerItems   [][]models.PlayerItem // one slice per player user
	Disks         []models.DiskSpace
	RootFolders   []models.RootFolder
}

// Result is the outcome of one aggregation run
type Result struct {
	Rows      []models.MediaRow
	DiskUsage *models.DiskUsage
	Policy    models.Policy
}

// Deletable counts rows whose verdict is deletable
func (r *Result) Deletable() int {
	count := 0
	for _, row := range r.Rows {
		if row.Deletable {
			count++
		}
	}
	return count
}

// FileLoaded returns the rows that have files on disk
func (r *Result) FileLoaded() []models.MediaRow {
	rows := make([]models.MediaRow, 0, len(r.Rows))
	for _, row := range r.Rows {
		if row.FileLoaded {
			rows = append(rows, row)
		}
	}
	return rows
}

// Engine aggregates snapshots into result rows
type Engine struct {
	policy        models.Policy
	fallbackMount string
	logger        *logrus.Logger
}

// NewEngine creates an engine for one policy
func NewEngine(policy models.Policy, fallbackMount string, logger *logrus.Logger) *Engine {
	return &Engine{
		policy:        policy,
		fallbackMount: fallbackMount,
		logger:        logger,
	}
}

// Aggregate emits all movie rows in collector order, then all series rows.
// A series yields one row per matched torrent, or a single row when unmatched.
func (e *Engine) Aggregate(s Snapshot) *Result {
	index := BuildIndex(s)
	torrents := NewTorrentMatcher(index)
	watch := NewWatchResolver(index.Watch)

	usage := ResolveDiskUsage(s.Disks, s.RootFolders, e.fallbackMount)
	pressure := DiskPressure(usage, e.policy)

	e.logger.WithFields(logrus.Fields{
		"movies":         len(s.Movies),
		"series":         len(s.Series),
		"torrents":       len(s.Torrents),
		"movie_history":  len(index.MovieCandidates),
		"series_history": len(index.SeriesCandidates),
		"watch_entries":  len(index.Watch.Entries),
		"disk_pressure":  pressure,
	}).Info("Aggregating media")

	rows := make([]models.MediaRow, 0, len(s.Movies)+len(s.Series))

	for _, movie := range s.Movies {
		matched, method := torrents.Match(movie)
		e.logMatch(movie, matched, method)

		base := baseRow(movie, watch.Watched(movie))
		var torrent *models.Torrent
		if len(matched) > 0 {
			torrent = &matched[0]
		}
		rows = append(rows, e.torrentRow(base, movie.Title, torrent, pressure))
	}

	for _, series := range s.Series {
		matched, method := torrents.Match(series)
		e.logMatch(series, matched, method)

		base := baseRow(series, watch.Watched(series))
		if len(matched) == 0 {
			rows = append(rows, e.torrentRow(base, series.Title, nil, pressure))
			continue
		}

		titles := SeriesTitles(series.Title, matched, index.EpisodesByDownload)
		for i := range matched {
			rows = append(rows, e.torrentRow(base, titles[i], &matched[i], pressure))
		}
	}

	e.logger.WithField("rows", len(rows)).Info("Processed media items")

	return &Result{
		Rows:      rows,
		DiskUsage: usage,
		Policy:    e.policy,
	}
}

func (e *Engine) logMatch(item models.MediaItem, matched []models.Torrent, method MatchMethod) {
	if method == MatchNone {
		return
	}
	for _, torrent := range matched {
		e.logger.WithFields(logrus.Fields{
			"origin": item.Origin(),
			"title":  item.Title,
			"hash":   torrent.Hash,
			"state":  torrent.State,
			"method": method,
		}).Debug("Matched torrent")
	}
}

// baseRow holds the library fields shared by every row of an item
func baseRow(item models.MediaItem, watched bool) models.MediaRow {
	return models.MediaRow{
		Origin:        item.Origin(),
		ID:            item.ID,
		Title:         item.Title,
		Year:          item.Year,
		Path:          item.Path,
		Monitored:     item.Monitored,
		Status:        LibraryStatus(item),
		FileLoaded:    item.FileLoaded(),
		TorrentState:  models.NotAvailable,
		TorrentHashes: []string{},
		Ratio:         models.NotAvailable,
		SeedTime:      models.NotAvailable,
		Watched:       watched,
	}
}

// torrentRow derives a fresh row from base; base is passed by value and never mutated
func (e *Engine) torrentRow(base models.MediaRow, title string, torrent *models.Torrent, pressure bool) models.MediaRow {
	row := base
	row.Title = title
	row.TorrentHashes = []string{}

	if torrent != nil {
		row.TorrentState = torrent.State
		row.TorrentHashes = []string{torrent.Hash}
		row.Ratio = utils.FormatRatio(torrent.Ratio)
		row.SeedTime = utils.FormatSeedTime(torrent.SeedingTime)
	}

	row.Criteria = Evaluate(e.policy, pressure, base.Watched, base.FileLoaded, torrent)
	row.Deletable = row.Criteria.All()
	return row
}

// LibraryStatus describes the library state of an item
func LibraryStatus(item models.MediaItem) string {
	if item.Kind == models.MediaTypeSeries {
		switch {
		case item.EpisodeCount == 0:
			return "No Episodes"
		case item.EpisodeFileCount == item.EpisodeCount:
			return "Downloaded"
		case item.EpisodeFileCount == 0:
			return "Missing"
		default:
			return fmt.Sprintf("Partial (%d/%d)", item.EpisodeFileCount, item.EpisodeCount)
		}
	}

	switch {
	case item.HasFile:
		return "Downloaded"
	case item.Monitored:
		return "Missing"
	default:
		return "Unmonitored"
	}
}
