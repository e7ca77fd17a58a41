package project_test

import (
	"testing"

	"github.com/ganot/project-sentry/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 Bytes"},
		{-3, "0 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5 MB"},
		{131701555, "125.6 MB"},
		{3 * 1024 * 1024 * 1024, "3 GB"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, project.FormatFileSize(tt.bytes), "bytes %d", tt.bytes)
	}
}

func TestMegabytesLabel(t *testing.T) {
	require.Equal(t, "5.0 MB", project.MegabytesLabel(5*1024*1024))
	require.Equal(t, "0.0 MB", project.MegabytesLabel(0))
	require.Equal(t, "1.5 MB", project.MegabytesLabel(1572864))
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "tower", project.DisplayName("tower.ifc"))
	require.Equal(t, "tower", project.DisplayName("tower.IFC"))
	require.Equal(t, "tower", project.DisplayName("tower.Ifc"))
	require.Equal(t, "tower.ifc.bak", project.DisplayName("tower.ifc.bak"))
	require.Equal(t, "notes", project.DisplayName("notes"))
}

func TestValidateFile(t *testing.T) {
	require.True(t, project.ValidateFileType("a.ifc"))
	require.True(t, project.ValidateFileType("a.IFC"))
	require.False(t, project.ValidateFileType("a.Ifc"))
	require.False(t, project.ValidateFileType("a.txt"))
	require.False(t, project.ValidateFileType("ifc"))

	require.True(t, project.ValidateFileSize(1, 0))
	require.False(t, project.ValidateFileSize(0, 0))
	require.False(t, project.ValidateFileSize(project.MaxFileSize+1, 0))
	require.False(t, project.ValidateFileSize(11, 10))

	require.NoError(t, project.ValidateFile("tower.ifc", 1024, 0))
	require.ErrorIs(t, project.ValidateFile("tower.dwg", 1024, 0), project.ErrInvalidFile)
	require.ErrorIs(t, project.ValidateFile("tower.ifc", 0, 0), project.ErrInvalidFile)
}

func TestCalculatePercentageAndTruncate(t *testing.T) {
	require.Equal(t, 0, project.CalculatePercentage(5, 0))
	require.Equal(t, 90, project.CalculatePercentage(13847, 15420))
	require.Equal(t, "short", project.TruncateText("short", 10))
	require.Equal(t, "Office...", project.TruncateText("Office Building Phase 2", 7))
	require.Equal(t, "", project.TruncateText("Office", 0))
	require.NotPanics(t, func() {
		require.Equal(t, "", project.TruncateText("Office", -3))
	})
}
