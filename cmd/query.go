package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"

	"github.com/spf13/cobra"

	"github.com/s0up4200/filmquery/film"
	"github.com/s0up4200/filmquery/filter"
)

var (
	whereExpr  string
	presetName string
	asJSON     bool
	details    bool
)

var paramUsage = map[filter.Param]string{
	filter.ParamTitle:         "exact title, ignoring case",
	filter.ParamYear:          "release year",
	filter.ParamMinYear:       "earliest release year",
	filter.ParamMaxYear:       "latest release year",
	filter.ParamMinAwards:     "minimum number of awards",
	filter.ParamMaxAwards:     "maximum number of awards",
	filter.ParamNominations:   "exact number of nominations",
	filter.ParamIsBestPicture: "best picture winners only (true/false)",
	filter.ParamSortBy:        "sort key: title, year, awards or nominations",
	filter.ParamLimit:         "maximum number of results",
}

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "List films matching the query parameters",
	Long: `List the films in the content store that match every given parameter.

Parameters use the same names as the HTTP listing endpoint. An expression
filter can narrow the result further, for example:

  filmquery query --minYear 2000 --where 'Awards > Nominations / 2'`,
	RunE: runQuery,
}

func init() {
	addParamFlags(queryCmd)

	queryCmd.Flags().StringVarP(&whereExpr, "where", "w", "", "expression filter")
	queryCmd.Flags().StringVarP(&presetName, "preset", "p", "", "start from a preset defined in config")
	queryCmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	queryCmd.Flags().BoolVar(&details, "details", false, "show awards and references for each film")
}

// addParamFlags registers one string flag per query parameter
func addParamFlags(cmd *cobra.Command) {
	for _, p := range filter.Params() {
		cmd.Flags().String(string(p), "", paramUsage[p])
	}
}

// collectParams returns the query parameters set on the command line
func collectParams(cmd *cobra.Command) map[string]string {
	params := make(map[string]string)
	for _, p := range filter.Params() {
		if f := cmd.Flags().Lookup(string(p)); f != nil && f.Changed {
			params[string(p)] = f.Value.String()
		}
	}
	return params
}

type queryRequest struct {
	Params map[string]string
	Where  string
	Preset string
}

func runQuery(cmd *cobra.Command, args []string) error {
	req := queryRequest{
		Params: collectParams(cmd),
		Where:  whereExpr,
		Preset: presetName,
	}

	logger.Info().
		Interface("params", req.Params).
		Str("where", req.Where).
		Str("preset", req.Preset).
		Msg("Querying films")

	result, err := executeQuery(cmd.Context(), source, engine, presets, req)
	if err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), result, asJSON, details)
}

// executeQuery runs req against the films in source. Explicit parameters
// override those of the preset; preset and --where expressions both apply.
func executeQuery(ctx context.Context, source film.Source, engine *filter.Engine, presets *filter.Manager, req queryRequest) ([]film.Record, error) {
	params := make(map[string]string)
	var extra []filter.Filter

	if req.Preset != "" {
		preset, ok := presets.GetPreset(req.Preset)
		if !ok {
			return nil, fmt.Errorf("%w: %s", filter.ErrPresetNotFound, req.Preset)
		}
		maps.Copy(params, preset.Params)
		if preset.Filter != nil {
			extra = append(extra, preset.Filter)
		}
	}

	maps.Copy(params, req.Params)

	if req.Where != "" {
		compiled, err := filter.CompileFilter(req.Where)
		if err != nil {
			return nil, fmt.Errorf("invalid expression: %w", err)
		}
		extra = append(extra, compiled)
	}

	// Reject bad parameters before touching the store
	directives, err := filter.ParseCriteria(params)
	if err != nil {
		return nil, err
	}

	records, err := source.Films(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load films: %w", err)
	}

	return engine.Query(ctx, records, directives, extra...)
}

func writeResult(w io.Writer, result []film.Record, asJSON, details bool) error {
	if asJSON {
		if result == nil {
			result = []film.Record{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Result []film.Record `json:"result"`
		}{result})
	}

	_, err := fmt.Fprintln(w, film.NewConsoleFormatter().FormatFilmList(result, film.FormatOptions{ShowDetails: details}))
	return err
}
