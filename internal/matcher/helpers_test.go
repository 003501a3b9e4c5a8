package matcher

import (
	"io"

	"github.com/amaumene/mediacleanerr/internal/models"
	"github.com/sirupsen/logrus"
)

const day = 86400

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func defaultPolicy() models.Policy {
	return models.Policy{DiskThreshold: 90, MinSeedWeeks: 2, MinRatio: 1.0}
}

func disksAt(percent int64) []models.DiskSpace {
	return []models.DiskSpace{{Path: "/media", TotalSpace: 100, FreeSpace: 100 - percent}}
}

func movie(id int, title, path string) models.MediaItem {
	return models.MediaItem{
		ID:          id,
		Kind:        models.MediaTypeMovie,
		Title:       title,
		Year:        2020,
		Path:        path,
		Monitored:   true,
		HasFile:     true,
		ExternalIDs: models.ExternalIDs{TMDB: "tmdb-" + title, IMDB: "imdb-" + title},
	}
}

func series(id int, title, path string) models.MediaItem {
	return models.MediaItem{
		ID:               id,
		Kind:             models.MediaTypeSeries,
		Title:            title,
		Year:             2018,
		Path:             path,
		Monitored:        true,
		EpisodeCount:     10,
		EpisodeFileCount: 10,
		ExternalIDs:      models.ExternalIDs{TVDB: "tvdb-" + title},
	}
}

func episode(season, number int) *models.Episode {
	return &models.Episode{Season: season, Number: number}
}
