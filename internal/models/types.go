package models

// MediaType represents the kind of library item (movie or series)
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
)

// Origin tags which library manager a row came from
type Origin string

const (
	OriginRadarr Origin = "Radarr"
	OriginSonarr Origin = "Sonarr"
)

// ItemType is the player's item type
type ItemType string

const (
	ItemTypeMovie   ItemType = "Movie"
	ItemTypeSeries  ItemType = "Series"
	ItemTypeEpisode ItemType = "Episode"
)

// DeleteType selects what a deletion request removes
type DeleteType string

const (
	DeleteTypeMedia   DeleteType = "media"   // torrents and the library entry with its files
	DeleteTypeTorrent DeleteType = "torrent" // torrents only
)

// NotAvailable is rendered for torrent fields of unmatched rows
const NotAvailable = "N/A"
