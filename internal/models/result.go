package models

import "time"

// Policy holds the deletion thresholds
type Policy struct {
	DiskThreshold float64 `json:"disk_threshold"` // percent
	MinSeedWeeks  int     `json:"min_seed_weeks"`
	MinRatio      float64 `json:"min_ratio"`
}

// Criteria is the per-row breakdown of the deletion policy
type Criteria struct {
	Disk    bool `json:"disk"`
	Watched bool `json:"watched"`
	Time    bool `json:"time"`
	Ratio   bool `json:"ratio"`
}

// All reports whether every criterion is satisfied
func (c Criteria) All() bool {
	return c.Disk && c.Watched && c.Time && c.Ratio
}

// MediaRow is one aggregated result row
type MediaRow struct {
	Origin        Origin   `json:"origin"`
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Year          int      `json:"year"`
	Path          string   `json:"path"`
	Monitored     bool     `json:"monitored"`
	Status        string   `json:"status"`
	FileLoaded    bool     `json:"file_loaded"`
	TorrentState  string   `json:"torrent_state"`
	TorrentHashes []string `json:"torrent_hashes"`
	Ratio         string   `json:"ratio"`
	SeedTime      string   `json:"seed_time"`
	Watched       bool     `json:"watched"`
	Deletable     bool     `json:"deletable"`
	Criteria      Criteria `json:"criteria"`
}

// DiskUsage describes the volume backing the library
type DiskUsage struct {
	Path    string  `json:"path"`
	Free    string  `json:"free"`
	Total   string  `json:"total"`
	Percent float64 `json:"percent"`
}

// Deletion is an executed deletion request
type Deletion struct {
	ID            uint64     `json:"id" boltholdKey:"ID"`
	Origin        Origin     `json:"origin" boltholdIndex:"Origin"`
	MediaID       int        `json:"media_id"`
	Title         string     `json:"title"`
	TorrentHashes []string   `json:"torrent_hashes"`
	DeleteType    DeleteType `json:"delete_type"`
	Errors        []string   `json:"errors,omitempty"`
	DeletedAt     time.Time  `json:"deleted_at"`
}
