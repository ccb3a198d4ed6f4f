package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

var dateRegexp = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// ExtractDate pulls the acquisition date out of a band filename. The
// export convention embeds exactly one YYYY-MM-DD prefix, e.g.
// 2023-09-10-00_00_2023-09-10-23_59_Sentinel-2_L2A_B03_(Raw).tiff,
// and repeats it for the end of the acquisition window; the first
// match wins. Dates parse as UTC midnight.
func ExtractDate(name string) (time.Time, error) {
	m := dateRegexp.FindString(name)
	if m == "" {
		return time.Time{}, fmt.Errorf("cannot parse date from filename: %v", name)
	}
	t, err := time.ParseInLocation(dateFormat, m, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse date %v from filename %v: %v", m, name, err)
	}
	return t, nil
}

// DetectBand matches a filename against the configured band tokens and
// returns the band variable name the file belongs to. Matching is
// case-insensitive on the token.
func DetectBand(name string, bands map[string]string) (string, bool) {
	upper := strings.ToUpper(name)
	for variable, token := range bands {
		if strings.Contains(upper, strings.ToUpper(token)) {
			return variable, true
		}
	}
	return "", false
}
