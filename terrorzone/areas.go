// package terrorzone looks up the current Terror Zone rotation and renders it
// for chat. Zone ids map to display names and loot tiers through a bundled
// dataset that never changes at runtime.
package terrorzone

import (
	"encoding/json"
	"fmt"

	_ "embed"
)

//go:embed areas.json
var areasJSON []byte

// AreaInfo is the display name and loot-tier label for one terrorizable zone.
type AreaInfo struct {
	Name string `json:"name"`
	Tier string `json:"tier"`
}

// LoadAreas parses the bundled zone dataset. Call it once at startup and pass
// the table around; the map must not be mutated.
func LoadAreas() (map[int]AreaInfo, error) {
	areas := make(map[int]AreaInfo)
	if err := json.Unmarshal(areasJSON, &areas); err != nil {
		return nil, fmt.Errorf("failed to parse bundled area dataset: %w", err)
	}
	if len(areas) == 0 {
		return nil, fmt.Errorf("bundled area dataset is empty")
	}
	return areas, nil
}
