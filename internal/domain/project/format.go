package project

import (
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"
)

// MaxFileSize is the largest accepted model upload.
const MaxFileSize int64 = 500 * 1024 * 1024

const ifcExt = ".ifc"

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a byte count with a 1024-based unit, two decimals at
// most, e.g. "1.5 KB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// MegabytesLabel renders a byte count in megabytes with one decimal, the
// format the backend uses for Project.FileSize.
func MegabytesLabel(bytes int64) string {
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
}

// DisplayName strips a trailing .ifc extension, in any letter case.
func DisplayName(filename string) string {
	if len(filename) >= len(ifcExt) && strings.EqualFold(filename[len(filename)-len(ifcExt):], ifcExt) {
		return filename[:len(filename)-len(ifcExt)]
	}
	return filename
}

// ValidateFileType reports whether name carries a .ifc or .IFC extension.
func ValidateFileType(name string) bool {
	ext := path.Ext(name)
	return ext == ".ifc" || ext == ".IFC"
}

// ValidateFileSize reports whether size is positive and within max bytes.
// A non-positive max selects MaxFileSize.
func ValidateFileSize(size, max int64) bool {
	if max <= 0 {
		max = MaxFileSize
	}
	return size > 0 && size <= max
}

// ValidateFile checks an upload candidate before it is handed to the dashboard.
func ValidateFile(name string, size, max int64) error {
	if !ValidateFileType(name) {
		return fmt.Errorf("%w: %q is not an .ifc file", ErrInvalidFile, name)
	}
	if !ValidateFileSize(size, max) {
		return fmt.Errorf("%w: size %s outside accepted range", ErrInvalidFile, FormatFileSize(size))
	}
	return nil
}

// CalculatePercentage returns value/total as a rounded percentage; zero total yields 0.
func CalculatePercentage(value, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(value) / float64(total) * 100))
}

// TruncateText shortens text to maxLen runes with a trailing ellipsis.
func TruncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return strings.TrimSpace(string(runes[:maxLen])) + "..."
}
