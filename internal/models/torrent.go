package models

// Torrent is a transfer tracked by the download client
type Torrent struct {
	Hash        string
	Name        string
	State       string
	ContentPath string
	Ratio       float64
	SeedingTime int64 // seconds
}

// PlayerUser is a user of the media player
type PlayerUser struct {
	ID   string
	Name string
}

// PlayerItem is a consumable item as seen by one player user
type PlayerItem struct {
	ID          string
	Name        string
	Path        string
	Type        ItemType
	ProviderIDs ExternalIDs
	Played      bool
}

// WatchEntry aggregates the played state of one player item across all users
type WatchEntry struct {
	ItemID      string
	Name        string
	Path        string
	Type        ItemType
	ProviderIDs ExternalIDs
	Watched     bool
}
