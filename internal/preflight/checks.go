package preflight

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"cutout/internal/config"
)

// minFreeBytes is the disk headroom required before processing starts.
// Workspace copies, previews, and cutouts for a full batch fit comfortably
// under this.
const minFreeBytes = 512 << 20

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies the filesystem holding path has at least minBytes free.
func CheckDiskSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %d MiB free, need %d MiB)", path, free>>20, minBytes>>20)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB free)", path, free>>20)}
}

// CheckRemovalConfig verifies the removal API credentials are present and the
// endpoint is a parseable URL. No live request is made; quota is not spent.
func CheckRemovalConfig(cfg *config.Config) Result {
	const name = "Removal API"
	if strings.TrimSpace(cfg.Removal.APIKey) == "" {
		return Result{Name: name, Detail: "api key not configured (set removal.api_key or CUTOUT_REMOVAL_API_KEY)"}
	}
	base := strings.TrimSpace(cfg.Removal.BaseURL)
	if base == "" {
		return Result{Name: name, Detail: "base url not configured"}
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Result{Name: name, Detail: fmt.Sprintf("invalid base url %q", base)}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}
