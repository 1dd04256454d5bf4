package util

import (
	"os"
	"path/filepath"
	"strings"
)

// VideoExtensions is the list of file extensions treated as video containers.
var VideoExtensions = map[string]bool{
	".mkv":  true,
	".wmv":  true,
	".ts":   true,
	".avi":  true,
	".mp4":  true,
	".m4v":  true,
	".mpg":  true,
	".mpeg": true,
	".mov":  true,
	".webm": true,
	".flv":  true,
	".m2ts": true,
	".vob":  true,
}

// IsVideoFile checks if the given path is a regular file with a video extension.
func IsVideoFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	return VideoExtensions[ext]
}

// GetFileStem returns the filename without extension.
func GetFileStem(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// GetFileSize returns the size of a file in bytes.
func GetFileSize(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()), nil
}

// BytesToMB converts a byte count to (binary) megabytes.
func BytesToMB(bytes uint64) float64 {
	return float64(bytes) / MiB
}

// EnsureDirectory creates a directory if it doesn't exist.
func EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0755)
}

// ResolveOutputPath returns the path inside outputDir for the transcoded
// form of inputPath. An empty extension keeps the input's extension.
func ResolveOutputPath(inputPath, outputDir, extension string) string {
	if extension == "" {
		extension = filepath.Ext(inputPath)
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return filepath.Join(outputDir, GetFileStem(inputPath)+extension)
}

// SamePath reports whether a and b name the same file. Paths that do not
// exist yet are compared after cleaning.
func SamePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	if absA == absB {
		return true, nil
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	if errA != nil || errB != nil {
		return false, nil
	}
	return os.SameFile(infoA, infoB), nil
}
