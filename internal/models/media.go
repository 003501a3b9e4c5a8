package models

// ExternalIDs holds provider identifiers used to join library items with the player.
// Absent identifiers are empty strings and never match.
type ExternalIDs struct {
	TMDB string `json:"tmdb,omitempty"`
	IMDB string `json:"imdb,omitempty"`
	TVDB string `json:"tvdb,omitempty"`
}

// MediaItem represents a movie or series tracked by a library manager
type MediaItem struct {
	ID        int
	Kind      MediaType
	Title     string
	Year      int
	Path      string
	Monitored bool

	// Movie specific
	HasFile bool

	// Series specific
	EpisodeCount     int
	EpisodeFileCount int

	ExternalIDs ExternalIDs
}

// Origin returns the manager tag for the item
func (m MediaItem) Origin() Origin {
	if m.Kind == MediaTypeSeries {
		return OriginSonarr
	}
	return OriginRadarr
}

// FileLoaded reports whether any file of the item is on disk
func (m MediaItem) FileLoaded() bool {
	if m.Kind == MediaTypeSeries {
		return m.EpisodeFileCount > 0
	}
	return m.HasFile
}

// Episode identifies a single episode of a series
type Episode struct {
	Season int `json:"season"`
	Number int `json:"episode"`
}

// HistoryRecord links a media item to the download that supplied its file
type HistoryRecord struct {
	MediaID    int
	DownloadID string
	Episode    *Episode // nil for movies and for records without episode info
}

// DiskSpace is a storage volume reported by a library manager
type DiskSpace struct {
	Path       string `json:"path"`
	FreeSpace  int64  `json:"freeSpace"`
	TotalSpace int64  `json:"totalSpace"`
}

// RootFolder is a library root configured in a manager
type RootFolder struct {
	Path string `json:"path"`
}
