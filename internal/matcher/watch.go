package matcher

import "github.com/amaumene/mediacleanerr/internal/models"

// WatchMap is the played state of every player item, merged across users.
// Entries keep the order in which items were first seen.
type WatchMap struct {
	Entries []*models.WatchEntry
	byID    map[string]*models.WatchEntry
}

// BuildWatchMap merges per-user item lists. An item is watched once any user played it.
func BuildWatchMap(perUser [][]models.PlayerItem) *WatchMap {
	wm := &WatchMap{byID: make(map[string]*models.WatchEntry)}

	for _, items := range perUser {
		for _, item := range items {
			entry, ok := wm.byID[item.ID]
			if !ok {
				entry = &models.WatchEntry{
					ItemID:      item.ID,
					Name:        item.Name,
					Path:        item.Path,
					Type:        item.Type,
					ProviderIDs: item.ProviderIDs,
					Watched:     item.Played,
				}
				wm.byID[item.ID] = entry
				wm.Entries = append(wm.Entries, entry)
				continue
			}
			if item.Played {
				entry.Watched = true
			}
		}
	}

	return wm
}

// Get returns the merged entry for a player item id
func (wm *WatchMap) Get(itemID string) (*models.WatchEntry, bool) {
	entry, ok := wm.byID[itemID]
	return entry, ok
}

// WatchResolver answers watched lookups by external identifier
type WatchResolver struct {
	moviesByTMDB map[string]*models.WatchEntry
	moviesByIMDB map[string]*models.WatchEntry
	seriesByTVDB map[string]*models.WatchEntry
}

// NewWatchResolver indexes movie entries by TMDB and IMDB ids and series
// entries by TVDB id. The first entry seen for an id wins.
func NewWatchResolver(wm *WatchMap) *WatchResolver {
	r := &WatchResolver{
		moviesByTMDB: make(map[string]*models.WatchEntry),
		moviesByIMDB: make(map[string]*models.WatchEntry),
		seriesByTVDB: make(map[string]*models.WatchEntry),
	}
	if wm == nil {
		return r
	}

	for _, entry := range wm.Entries {
		switch entry.Type {
		case models.ItemTypeMovie:
			addFirst(r.moviesByTMDB, entry.ProviderIDs.TMDB, entry)
			addFirst(r.moviesByIMDB, entry.ProviderIDs.IMDB, entry)
		case models.ItemTypeSeries:
			addFirst(r.seriesByTVDB, entry.ProviderIDs.TVDB, entry)
		}
	}
	return r
}

func addFirst(m map[string]*models.WatchEntry, id string, entry *models.WatchEntry) {
	if id == "" {
		return
	}
	if _, ok := m[id]; !ok {
		m[id] = entry
	}
}

// Watched reports whether a media item was played by at least one user.
// Movies join on TMDB id, then IMDB id; series join on TVDB id.
func (r *WatchResolver) Watched(item models.MediaItem) bool {
	ids := item.ExternalIDs

	if item.Kind == models.MediaTypeSeries {
		if entry, ok := lookup(r.seriesByTVDB, ids.TVDB); ok {
			return entry.Watched
		}
		return false
	}

	if entry, ok := lookup(r.moviesByTMDB, ids.TMDB); ok {
		return entry.Watched
	}
	if entry, ok := lookup(r.moviesByIMDB, ids.IMDB); ok {
		return entry.Watched
	}
	return false
}

func lookup(m map[string]*models.WatchEntry, id string) (*models.WatchEntry, bool) {
	if id == "" {
		return nil, false
	}
	entry, ok := m[id]
	return entry, ok
}
