package matcher

import (
	"math"
	"strings"

	"github.com/amaumene/mediacleanerr/internal/models"
	"github.com/amaumene/mediacleanerr/internal/utils"
)

// DefaultFallbackMount is used when no volume contains the root folder
const DefaultFallbackMount = "/media"

// SelectDisk picks the volume backing the library: the longest mount path that
// prefixes the first root folder, else the fallback mount, else the first volume.
// Returns nil when no volumes are reported.
func SelectDisk(disks []models.DiskSpace, roots []models.RootFolder, fallbackMount string) *models.DiskSpace {
	if len(disks) == 0 {
		return nil
	}

	if len(roots) > 0 {
		rootPath := roots[0].Path
		best := -1
		for i, disk := range disks {
			if !strings.HasPrefix(rootPath, disk.Path) {
				continue
			}
			if best == -1 || len(disk.Path) > len(disks[best].Path) {
				best = i
			}
		}
		if best >= 0 {
			return &disks[best]
		}
	}

	if fallbackMount == "" {
		fallbackMount = DefaultFallbackMount
	}
	for i := range disks {
		if disks[i].Path == fallbackMount {
			return &disks[i]
		}
	}

	return &disks[0]
}

// ResolveDiskUsage computes utilization of the volume selected by SelectDisk
func ResolveDiskUsage(disks []models.DiskSpace, roots []models.RootFolder, fallbackMount string) *models.DiskUsage {
	disk := SelectDisk(disks, roots, fallbackMount)
	if disk == nil {
		return nil
	}

	used := disk.TotalSpace - disk.FreeSpace
	percent := 0.0
	if disk.TotalSpace > 0 {
		percent = float64(used) / float64(disk.TotalSpace) * 100
	}

	return &models.DiskUsage{
		Path:    disk.Path,
		Free:    utils.FormatBytes(disk.FreeSpace),
		Total:   utils.FormatBytes(disk.TotalSpace),
		Percent: math.Round(percent*100) / 100,
	}
}
