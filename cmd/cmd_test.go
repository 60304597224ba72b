package cmd

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/filmquery/config"
	"github.com/s0up4200/filmquery/film"
	"github.com/s0up4200/filmquery/filter"
)

func fixtureSource() film.Source {
	return film.FileSource{Path: "../film/testdata/oscars.json", Container: "content/oscars"}
}

func newTestManager(t *testing.T) (*filter.Engine, *filter.Manager) {
	t.Helper()

	engine := newEngine(config.QueryConfig{Workers: 2, BatchSize: 4}, zerolog.Nop())
	t.Cleanup(func() { _ = engine.Close(context.Background()) })

	manager := filter.NewManager(engine)
	require.NoError(t, manager.RegisterPresets(presetSpecs(map[string]config.PresetConfig{
		"recent-winners": {Params: map[string]string{"minyear": "2017", "isbestpicture": "true", "sortby": "year"}},
		"sweeps":         {Where: "Awards * 2 > Nominations"},
	})))

	return engine, manager
}

func titles(records []film.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Title)
	}
	return out
}

func TestCollectParams(t *testing.T) {
	c := &cobra.Command{}
	addParamFlags(c)

	require.NoError(t, c.ParseFlags([]string{"--minYear", "2018", "--sortBy=awards", "--title", ""}))

	assert.Equal(t, map[string]string{
		"minYear": "2018",
		"sortBy":  "awards",
		"title":   "",
	}, collectParams(c))
}

func TestExecuteQuery(t *testing.T) {
	engine, manager := newTestManager(t)

	tests := []struct {
		name    string
		req     queryRequest
		want    []string
		wantErr error
	}{
		{
			name: "params only",
			req:  queryRequest{Params: map[string]string{"year": "2019", "minAwards": "4"}},
			want: []string{"Parasite"},
		},
		{
			name: "preset",
			req:  queryRequest{Preset: "recent-winners"},
			want: []string{"The Shape of Water", "Green Book", "Parasite"},
		},
		{
			name: "explicit params override preset",
			req: queryRequest{
				Preset: "recent-winners",
				Params: map[string]string{"sortBy": "title", "limit": "2"},
			},
			want: []string{"Green Book", "Parasite"},
		},
		{
			name: "where expression",
			req:  queryRequest{Params: map[string]string{"year": "2019"}, Where: "Awards >= 4"},
			want: []string{"Parasite"},
		},
		{
			name: "preset expression with where",
			req:  queryRequest{Preset: "sweeps", Where: "Year < 2000"},
			want: []string{"Amadeus", "Ben-Hur", "Titanic"},
		},
		{
			name:    "unknown preset",
			req:     queryRequest{Preset: "missing"},
			wantErr: filter.ErrPresetNotFound,
		},
		{
			name:    "malformed number",
			req:     queryRequest{Params: map[string]string{"limit": "ten"}},
			wantErr: filter.ErrMalformedNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := executeQuery(context.Background(), fixtureSource(), engine, manager, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestExecuteQuery_InvalidExpression(t *testing.T) {
	engine, manager := newTestManager(t)

	_, err := executeQuery(context.Background(), fixtureSource(), engine, manager, queryRequest{Where: "Awards >"})
	require.Error(t, err)

	var compErr *filter.CompilationError
	assert.ErrorAs(t, err, &compErr)
}

func TestExecuteQuery_ParseBeforeLoad(t *testing.T) {
	engine, manager := newTestManager(t)

	missing := film.FileSource{Path: "does-not-exist.json"}
	_, err := executeQuery(context.Background(), missing, engine, manager, queryRequest{
		Params: map[string]string{"minAwards": "x"},
	})
	assert.ErrorIs(t, err, filter.ErrMalformedNumber)

	_, err = executeQuery(context.Background(), missing, engine, manager, queryRequest{})
	assert.ErrorContains(t, err, "failed to load films")
}

func TestWriteResult(t *testing.T) {
	records := []film.Record{{Title: "Titanic", Year: 1997, Awards: 11, Nominations: 14, IsBestPicture: true}}

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, nil, true, false))
	assert.JSONEq(t, `{"result":[]}`, buf.String())

	buf.Reset()
	require.NoError(t, writeResult(&buf, records, true, false))
	assert.JSONEq(t, `{"result":[{"title":"Titanic","year":1997,"awards":11,"nominations":14,"isBestPicture":true,"numberOfReferences":0}]}`, buf.String())

	buf.Reset()
	require.NoError(t, writeResult(&buf, records, false, true))
	assert.Contains(t, buf.String(), "╰── Titanic (1997) [BEST PICTURE]")
	assert.Contains(t, buf.String(), "Awards: 11 of 14 nominations")
}

func TestListPresets(t *testing.T) {
	_, manager := newTestManager(t)

	var buf bytes.Buffer
	require.NoError(t, listPresets(&buf, manager))

	assert.Equal(t, "• recent-winners\n"+
		"  isBestPicture=true\n"+
		"  minYear=2017\n"+
		"  sortBy=year\n"+
		"• sweeps\n"+
		"  where: Awards * 2 > Nominations\n", buf.String())

	buf.Reset()
	require.NoError(t, listPresets(&buf, filter.NewManager(filter.NewEngine())))
	assert.Equal(t, "No presets configured\n", buf.String())
}

func TestVersionString(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		buildTime string
		want      string
	}{
		{name: "release", version: "1.2.0", buildTime: "2026-01-01", want: "filmquery v1.2.0 (built 2026-01-01)"},
		{name: "tolerant", version: "v1.3", buildTime: "unknown", want: "filmquery v1.3.0 "},
		{name: "dev", version: "dev", buildTime: "unknown", want: "filmquery dev "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, versionString(tt.version, tt.buildTime), tt.want)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()

	logger := setupLogger(config.LoggingConfig{Level: "warn", Format: "json"}, f)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"message":"shown"`)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
