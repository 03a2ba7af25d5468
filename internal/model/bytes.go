package model

import (
	"math"
	"strconv"
)

var (
	contentUnits = []string{"Bytes", "KB", "MB", "GB"}
	listingUnits = []string{"B", "KB", "MB", "GB"}
)

// FormatBytes renders n with a 1024 base and up to two decimals, using the
// unit names shown next to content sizes: "0 Bytes", "1.5 KB", "2 MB".
func FormatBytes(n int64) string {
	return formatSize(n, contentUnits)
}

// FormatSize is FormatBytes with the short unit names used in file
// listings: "0 B", "1.5 KB".
func FormatSize(n int64) string {
	return formatSize(n, listingUnits)
}

// formatSize picks the largest unit not exceeding n. Sizes beyond the last
// unit stay in that unit. Negative sizes are treated as zero.
func formatSize(n int64, units []string) string {
	if n <= 0 {
		return "0 " + units[0]
	}
	i, div := 0, int64(1)
	for i < len(units)-1 && n/div >= 1024 {
		div *= 1024
		i++
	}
	v := math.Round(float64(n)/float64(div)*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + units[i]
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
