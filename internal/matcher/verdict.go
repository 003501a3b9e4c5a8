package matcher

import "github.com/amaumene/mediacleanerr/internal/models"

const secondsPerWeek = 7 * 86400

// DiskPressure reports whether disk usage reached the policy threshold.
// Unknown usage never counts as pressure.
func DiskPressure(usage *models.DiskUsage, policy models.Policy) bool {
	return usage != nil && usage.Percent >= policy.DiskThreshold
}

// Evaluate applies the deletion policy to one row. Seeding criteria are only
// satisfied by a matched torrent of an item that has files on disk.
func Evaluate(policy models.Policy, diskPressure, watched, fileLoaded bool, torrent *models.Torrent) models.Criteria {
	criteria := models.Criteria{
		Disk:    diskPressure,
		Watched: watched,
	}
	if torrent == nil || !fileLoaded {
		return criteria
	}

	criteria.Time = torrent.SeedingTime >= int64(policy.MinSeedWeeks)*secondsPerWeek
	criteria.Ratio = torrent.Ratio >= policy.MinRatio
	return criteria
}
