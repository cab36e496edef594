// Package preflight checks the host environment before a download or
// install mutates anything.
package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// diskHeadroom doubles the required space: the package is staged and then
// extracted, so the peak footprint is roughly archive + contents.
const diskHeadroom = 2

// Check is one preflight result, in report form for the doctor command.
type Check struct {
	Name   string `json:"name" yaml:"name"`
	OK     bool   `json:"ok" yaml:"ok"`
	Detail string `json:"detail" yaml:"detail"`
}

// nearestExisting walks up from path to a directory that exists, so disk
// usage can be queried before the install dir is created.
func nearestExisting(path string) string {
	for p := path; ; p = filepath.Dir(p) {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		if p == filepath.Dir(p) {
			return p
		}
	}
}

// CheckDisk verifies the filesystem holding path has room for an asset of
// the given size plus extraction headroom.
func CheckDisk(path string, assetSize int64) error {
	usage, err := disk.Usage(nearestExisting(path))
	if err != nil {
		return fmt.Errorf("cannot determine free disk space for %s: %w", path, err)
	}
	need := uint64(assetSize) * diskHeadroom
	if usage.Free < need {
		return fmt.Errorf("insufficient disk space at %s: need %d bytes, %d free", path, need, usage.Free)
	}
	return nil
}

// Report runs the full environment check set for the doctor command.
func Report(installDir string, assetSize int64) []Check {
	var checks []Check

	diskCheck := Check{Name: "disk space", OK: true}
	if usage, err := disk.Usage(nearestExisting(installDir)); err != nil {
		diskCheck.OK = false
		diskCheck.Detail = err.Error()
	} else {
		diskCheck.Detail = fmt.Sprintf("%d bytes free at %s", usage.Free, installDir)
		if assetSize > 0 && usage.Free < uint64(assetSize)*diskHeadroom {
			diskCheck.OK = false
		}
	}
	checks = append(checks, diskCheck)

	memCheck := Check{Name: "memory", OK: true}
	if vm, err := mem.VirtualMemory(); err != nil {
		memCheck.OK = false
		memCheck.Detail = err.Error()
	} else {
		memCheck.Detail = fmt.Sprintf("%d of %d bytes available", vm.Available, vm.Total)
	}
	checks = append(checks, memCheck)

	checks = append(checks, Check{
		Name:   "platform",
		OK:     true,
		Detail: fmt.Sprintf("%s/%s, %d cpus", runtime.GOOS, runtime.GOARCH, runtime.NumCPU()),
	})

	return checks
}
