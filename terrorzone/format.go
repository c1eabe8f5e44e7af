package terrorzone

import (
	"fmt"
	"sort"
)

// FormatStatus renders the two soonest-to-expire rotation entries as the
// two-line group message: current zone first, upcoming zone second.
func FormatStatus(rot *Rotation, areas map[int]AreaInfo) (string, error) {
	if rot == nil || rot.Data == nil {
		return "", fmt.Errorf("rotation payload is malformed")
	}
	if len(rot.Data) < 2 {
		return "", fmt.Errorf("rotation payload has %d entries, need at least 2", len(rot.Data))
	}

	entries := make([]RotationEntry, len(rot.Data))
	copy(entries, rot.Data)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Time < entries[j].Time
	})

	current, next := entries[0], entries[1]

	currentArea, ok := areas[current.Zone]
	if !ok {
		return "", fmt.Errorf("unknown zone id %d", current.Zone)
	}
	nextArea, ok := areas[next.Zone]
	if !ok {
		return "", fmt.Errorf("unknown zone id %d", next.Zone)
	}

	return fmt.Sprintf("TZ：%s，掉落：%s\nNext：%s，掉落：%s",
		currentArea.Name, currentArea.Tier, nextArea.Name, nextArea.Tier), nil
}
