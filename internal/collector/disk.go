// Disk usage for the system card: one entry per local mount.
// Uses gopsutil for cross-platform partition listing.
package collector

import (
	"context"
	"math"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"go.uber.org/zap"

	"github.com/Guliveer/mission-control/internal/models"
)

// pseudoFSTypes contains filesystem types that should be excluded from disk metrics.
// These are virtual/system filesystems and network/remote filesystems that don't
// represent local storage devices.
var pseudoFSTypes = map[string]bool{
	// Virtual / system filesystems
	"devfs":         true,
	"autofs":        true,
	"nullfs":        true,
	"tmpfs":         true,
	"sysfs":         true,
	"proc":          true,
	"procfs":        true,
	"devtmpfs":      true,
	"cgroup":        true,
	"cgroup2":       true,
	"overlay":       true,
	"squashfs":      true,
	"fuse.snapfuse": true,
	"nsfs":          true,
	"pstore":        true,
	"debugfs":       true,
	"tracefs":       true,
	"securityfs":    true,
	"configfs":      true,
	"fusectl":       true,
	"mqueue":        true,
	"hugetlbfs":     true,
	"binfmt_misc":   true,
	"efivarfs":      true,
	"bpf":           true,
	"ramfs":         true,

	// Network / remote filesystems
	"nfs":            true,
	"nfs4":           true,
	"cifs":           true,
	"smbfs":          true,
	"fuse.sshfs":     true,
	"fuse.rclone":    true,
	"9p":             true,
	"afs":            true,
	"ncpfs":          true,
	"glusterfs":      true,
	"lustre":         true,
	"ceph":           true,
	"fuse.ceph":      true,
	"gpfs":           true,
	"pvfs2":          true,
	"fuse.s3fs":      true,
	"fuse.gcsfuse":   true,
	"fuse.blobfuse":  true,
	"davfs2":         true,
}

// isSystemMount returns true for mount points that are macOS system volumes
// or other OS-internal paths that shouldn't be shown to users.
func isSystemMount(mount string) bool {
	systemPrefixes := []string{
		"/System/Volumes/",
		"/private/var/vm",
	}
	for _, prefix := range systemPrefixes {
		if strings.HasPrefix(mount, prefix) {
			return true
		}
	}
	return false
}

// localDisks returns usage for every local, non-pseudo mount. Listing
// failures yield an empty list; inaccessible partitions are skipped.
func localDisks(ctx context.Context, logger *zap.Logger) []models.DiskInfo {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		logger.Debug("Listing partitions failed", zap.Error(err))
		return []models.DiskInfo{}
	}

	results := make([]models.DiskInfo, 0, len(partitions))
	seen := make(map[string]bool, len(partitions))
	for _, p := range partitions {
		if pseudoFSTypes[p.Fstype] || isSystemMount(p.Mountpoint) || seen[p.Mountpoint] {
			continue
		}
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil || usage.Total == 0 {
			continue
		}
		seen[p.Mountpoint] = true
		results = append(results, models.DiskInfo{
			Mount:   p.Mountpoint,
			Fs:      p.Fstype,
			Total:   usage.Total,
			Used:    usage.Used,
			Free:    usage.Free,
			Percent: math.Round(usage.UsedPercent*10) / 10,
		})
	}
	return results
}
