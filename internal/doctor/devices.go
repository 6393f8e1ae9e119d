package doctor

import (
	"context"
	"fmt"
	"sort"

	"github.com/jaa/vinstall/internal/platform"
)

// Device is a candidate installation target.
type Device struct {
	Path       string `json:"path"`
	Mountpoint string `json:"mountpoint,omitempty"`
	Fstype     string `json:"fstype,omitempty"`
	TotalBytes uint64 `json:"total_bytes,omitempty"`
	Default    bool   `json:"default"`
	Present    bool   `json:"present"`
}

// Devices lists mounted block devices plus the platform's default floppy
// device, which is usually not mounted. The default is always listed first.
func (c *Checker) Devices(ctx context.Context, p platform.Platform) ([]Device, error) {
	partitions, err := c.Partitions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}

	defaultPath := platform.DefaultDevice(p)
	devices := []Device{}
	seen := map[string]bool{}
	for _, partition := range partitions {
		if partition.Device == "" || seen[partition.Mountpoint] {
			continue
		}
		seen[partition.Mountpoint] = true

		device := Device{
			Path:       partition.Device,
			Mountpoint: partition.Mountpoint,
			Fstype:     partition.Fstype,
			Present:    true,
			Default:    samePath(partition.Device, defaultPath),
		}
		if c.Usage != nil && partition.Mountpoint != "" {
			if usage, err := c.Usage(ctx, partition.Mountpoint); err == nil {
				device.TotalBytes = usage.Total
			}
		}
		devices = append(devices, device)
	}
	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Path < devices[j].Path
	})

	for i, device := range devices {
		if device.Default {
			defaultDevice := devices[i]
			devices = append(devices[:i], devices[i+1:]...)
			return append([]Device{defaultDevice}, devices...), nil
		}
	}

	present := false
	if p.UsesMount() {
		_, statErr := c.Stat(defaultPath)
		present = statErr == nil
	} else {
		_, indexErr := platform.DriveIndex(defaultPath)
		present = indexErr == nil
	}
	return append([]Device{{Path: defaultPath, Default: true, Present: present}}, devices...), nil
}
