package terrorzone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAreas() map[int]AreaInfo {
	return map[int]AreaInfo{
		1: {Name: "A", Tier: "X"},
		2: {Name: "B", Tier: "Y"},
	}
}

func TestFormatStatus(t *testing.T) {
	rot := &Rotation{Data: []RotationEntry{
		{Zone: 1, Time: 200},
		{Zone: 2, Time: 100},
	}}

	got, err := FormatStatus(rot, testAreas())
	require.NoError(t, err)
	assert.Equal(t, "TZ：B，掉落：Y\nNext：A，掉落：X", got)
}

func TestFormatStatusDoesNotMutateInput(t *testing.T) {
	rot := &Rotation{Data: []RotationEntry{
		{Zone: 1, Time: 200},
		{Zone: 2, Time: 100},
	}}

	_, err := FormatStatus(rot, testAreas())
	require.NoError(t, err)
	assert.Equal(t, 1, rot.Data[0].Zone)
}

func TestFormatStatusErrors(t *testing.T) {
	tests := []struct {
		name string
		rot  *Rotation
	}{
		{
			name: "nil payload",
			rot:  nil,
		},
		{
			name: "missing data array",
			rot:  &Rotation{},
		},
		{
			name: "single entry",
			rot:  &Rotation{Data: []RotationEntry{{Zone: 1, Time: 100}}},
		},
		{
			name: "unmapped current zone",
			rot:  &Rotation{Data: []RotationEntry{{Zone: 99, Time: 100}, {Zone: 1, Time: 200}}},
		},
		{
			name: "unmapped next zone",
			rot:  &Rotation{Data: []RotationEntry{{Zone: 1, Time: 100}, {Zone: 99, Time: 200}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatStatus(tt.rot, testAreas())
			assert.Error(t, err)
		})
	}
}

func TestLoadAreas(t *testing.T) {
	areas, err := LoadAreas()
	require.NoError(t, err)
	require.NotEmpty(t, areas)

	chaos, ok := areas[108]
	require.True(t, ok)
	assert.Equal(t, "混沌圣所", chaos.Name)
	assert.NotEmpty(t, chaos.Tier)
}
