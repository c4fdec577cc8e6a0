package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fextract/internal/domain"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "1505000000000", want: time.UnixMilli(1505000000000)},
		{in: "2024-10-01", want: time.Date(2024, 10, 1, 0, 0, 0, 0, time.Local)},
		{in: "2024-10-01 08:30", want: time.Date(2024, 10, 1, 8, 30, 0, 0, time.Local)},
		{in: "2024-10-01T08:30:15", want: time.Date(2024, 10, 1, 8, 30, 15, 0, time.Local)},
		{in: "2024/10/01", want: time.Date(2024, 10, 1, 0, 0, 0, 0, time.Local)},
		{in: "2024-10-01T08:30:15Z", want: time.Date(2024, 10, 1, 8, 30, 15, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseDate("yesterday")
	assert.Error(t, err)
}

func TestParseOutput(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ".extract/"},
		{in: "out", want: "out/"},
		{in: "out/", want: "out/"},
		{in: `out\\nested\`, want: "out/nested/"},
		{in: "./out//x", want: "out/x/"},
		{in: "/abs", wantErr: true},
		{in: "../escape", wantErr: true},
		{in: ".", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutput(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTypes(t *testing.T) {
	all, err := ParseTypes(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.AllTimeKinds, all)

	got, err := ParseTypes([]string{"mtime, created", "modified"})
	require.NoError(t, err)
	assert.Equal(t, []domain.TimeKind{domain.Modified, domain.Created}, got)

	_, err = ParseTypes([]string{"modified,born"})
	assert.ErrorContains(t, err, "born")
}

func TestParseEndDefaultsToNow(t *testing.T) {
	now := time.Date(2024, 10, 16, 12, 0, 0, 0, time.UTC)
	got, err := ParseEnd("", now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	_, err = ParseEnd("not a date", now)
	assert.Error(t, err)
}

func TestParseStartIsRequired(t *testing.T) {
	_, err := ParseStart("  ")
	assert.ErrorContains(t, err, "start date is required")
}

func TestParseJobs(t *testing.T) {
	jobs, err := ParseJobs(0)
	require.NoError(t, err)
	assert.Equal(t, 1, jobs)

	_, err = ParseJobs(-2)
	assert.Error(t, err)
}

func TestBuildAppliesDefaults(t *testing.T) {
	now := time.Date(2024, 10, 16, 12, 0, 0, 0, time.UTC)

	req, err := Build(Options{Start: "2024-10-01"}, "/work", domain.DefaultConfigFile, now)
	require.NoError(t, err)

	assert.Equal(t, []string{"**/*"}, req.Patterns)
	assert.Equal(t, ".extract/", req.OutputDir)
	assert.Equal(t, now, req.RangeEnd)
	assert.Equal(t, domain.AllTimeKinds, req.TimeKinds)
	assert.False(t, req.IncludeHidden)
	assert.Equal(t, 1, req.Jobs)
	assert.Equal(t, "/work", req.Root)
	assert.Equal(t, "fextract.yml", req.ConfigFile)
	assert.Empty(t, req.ExcludePatterns)
}

func TestBuildRejectsInvertedRange(t *testing.T) {
	_, err := Build(Options{Start: "2024-10-02", End: "2024-10-01"}, "/work", "", time.Now())
	assert.ErrorContains(t, err, "after end date")
}

func TestBuildRequiresStart(t *testing.T) {
	_, err := Build(Options{}, "/work", "", time.Now())
	assert.Error(t, err)
}

func TestMergePrefersReceiver(t *testing.T) {
	flags := Options{Output: "flag/", Types: []string{"modified"}}
	file := Options{Output: "file/", Start: "2024-01-01", Dot: "true", Types: []string{"created"}}

	got := flags.Merge(file)
	assert.Equal(t, "flag/", got.Output)
	assert.Equal(t, "2024-01-01", got.Start)
	assert.Equal(t, "true", got.Dot)
	assert.Equal(t, []string{"modified"}, got.Types)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("FEXTRACT_FILES", "**/*.go, **/*.md")
	t.Setenv("FEXTRACT_START", "2024-10-01")
	t.Setenv("FEXTRACT_DOT", "yes")
	t.Setenv("FEXTRACT_VERBOSE", "1")

	opts := FromEnv()
	assert.Equal(t, []string{"**/*.go", "**/*.md"}, opts.Files)
	assert.Equal(t, "2024-10-01", opts.Start)
	assert.True(t, ParseDot(opts.Dot))
	assert.True(t, VerboseFromEnv())
}

func TestParseFile(t *testing.T) {
	data := []byte(`
files:
  - "src/**/*"
  - "docs/*.md"
output: build/extract
start: 2024-10-01
end: 1728000000000
types: modified, created
dot: true
ignore: "**/*.log"
jobs: 4
`)
	opts, err := ParseFile(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/**/*", "docs/*.md"}, opts.Files)
	assert.Equal(t, "build/extract", opts.Output)
	assert.Equal(t, "2024-10-01", opts.Start)
	assert.Equal(t, "1728000000000", opts.End)
	assert.Equal(t, []string{"modified", "created"}, opts.Types)
	assert.Equal(t, "true", opts.Dot)
	assert.Equal(t, []string{"**/*.log"}, opts.Ignore)
	assert.Equal(t, 4, opts.Jobs)
}

func TestParseFileRejectsUnknownKeys(t *testing.T) {
	_, err := ParseFile([]byte("strat: 2024-10-01\n"))
	assert.Error(t, err)
}

func TestLoadFileMissingIsEmpty(t *testing.T) {
	opts, err := LoadFile(filepath.Join(t.TempDir(), "fextract.yml"))
	require.NoError(t, err)
	assert.Equal(t, Options{}, opts)
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fextract.yml")
	require.NoError(t, os.WriteFile(path, []byte("files: [unterminated\n"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
