package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDate(t *testing.T) {
	d, err := ExtractDate("2023-09-10-00_00_2023-09-10-23_59_Sentinel-2_L2A_B03_(Raw).asc")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 9, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = ExtractDate("B03_no_date.asc")
	assert.Error(t, err)
}

func TestDetectBand(t *testing.T) {
	bands := map[string]string{"green": "B03", "nir": "B08"}

	variable, found := DetectBand("2023-09-10_Sentinel-2_L2A_B03_(Raw).asc", bands)
	assert.True(t, found)
	assert.Equal(t, "green", variable)

	variable, found = DetectBand("2023-09-10_sentinel-2_l2a_b08_(raw).asc", bands)
	assert.True(t, found)
	assert.Equal(t, "nir", variable)

	_, found = DetectBand("2023-09-10_Sentinel-2_L2A_B11_(Raw).asc", bands)
	assert.False(t, found)
}
