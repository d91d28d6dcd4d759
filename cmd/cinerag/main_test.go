package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"WARN", false},
		{"error", false},
		{"verbose", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			app := &cli.App{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "log-level", Value: "info"},
				},
				Before: setupLogger,
				Action: func(*cli.Context) error { return nil },
			}
			err := app.Run([]string{"cinerag", "--log-level", tt.level})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadMovies(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movies.json")
	data := `[
		{"Title": "Toy Story", "Genres": ["Animation", "Children"], "Year": 1995, "Popularity": 0.9, "Overview": "toys come alive"},
		{"Title": "Heat", "Genres": ["Crime"], "Year": 1995}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	movies, err := loadMovies(path)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "Toy Story", movies[0].Title)
	assert.Equal(t, 1995, movies[1].Year)
}

func TestLoadMovies_Errors(t *testing.T) {
	_, err := loadMovies("/nonexistent/movies.json")
	assert.Error(t, err)

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o644))
	_, err = loadMovies(empty)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`not json`), 0o644))
	_, err = loadMovies(invalid)
	assert.Error(t, err)
}

func TestSampleCatalog(t *testing.T) {
	movies := sampleCatalog()
	require.NotEmpty(t, movies)

	seen := make(map[string]bool)
	for _, movie := range movies {
		assert.NotEmpty(t, movie.Title)
		assert.NotEmpty(t, movie.Genres)
		assert.Positive(t, movie.Year)
		assert.False(t, seen[movie.Title], "duplicate title %s", movie.Title)
		seen[movie.Title] = true
	}
}
