package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taigrr/appfinder/internal/textutil"
	"github.com/taigrr/appfinder/internal/types"
)

// maxPathWidth bounds the path column of the search table.
const maxPathWidth = 80

func newSearchCmd(configPath *string) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search for applications, shortcuts and folders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			resp, err := a.search.Find(cmd.Context(), types.SearchParams{
				Term:  strings.Join(args, " "),
				Limit: limit,
			})
			if err != nil {
				return searchFailure(err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), toHits(resp.Results))
			}
			writeResultTable(cmd.OutOrStdout(), resp.Results)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func newLocationsCmd(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List the directories a search scans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			_, out, err := a.handleLocations(cmd.Context(), nil, LocationsInput{})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			writeLocations(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print locations as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeResultTable(w io.Writer, results []types.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no matches")
		return
	}

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	nameWidth := textutil.MaxWidth(names)
	kindWidth := len(types.KindApplication.String())

	for _, r := range results {
		fmt.Fprintf(w, "%s  %s  %s\n",
			textutil.PadRight(r.Kind.String(), kindWidth),
			textutil.PadRight(r.Name, nameWidth),
			strings.TrimRight(textutil.PadRight(r.Path, maxPathWidth), " "))
	}
}

func writeLocations(w io.Writer, out LocationsOutput) {
	groups := make([]string, len(out.Roots))
	for i, r := range out.Roots {
		groups[i] = r.Group
	}
	groupWidth := textutil.MaxWidth(groups)

	for _, r := range out.Roots {
		fmt.Fprintf(w, "%s  %s\n", textutil.PadRight(r.Group, groupWidth), r.Path)
	}
	if len(out.IgnoredPatterns) > 0 {
		fmt.Fprintf(w, "\nignored: %s\n", strings.Join(out.IgnoredPatterns, ", "))
	}
}
