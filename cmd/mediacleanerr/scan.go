package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/amaumene/mediacleanerr/internal/matcher"
	"github.com/amaumene/mediacleanerr/internal/models"
)

func newScanCommand() *cobra.Command {
	var (
		jsonOutput    bool
		all           bool
		deletableOnly bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one aggregation and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			result := a.scanCtrl.Scan(ctx)

			rows := result.Rows
			if !all {
				rows = result.FileLoaded()
			}
			if deletableOnly {
				rows = filterDeletable(rows)
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), scanOutput{
					Policy:    result.Policy,
					DiskUsage: result.DiskUsage,
					Media:     rows,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(result, rows))
			fmt.Fprintln(cmd.OutOrStdout(), renderRows(rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&all, "all", false, "Include items without files on disk")
	cmd.Flags().BoolVar(&deletableOnly, "deletable", false, "Only print deletable items")

	return cmd
}

type scanOutput struct {
	Policy    models.Policy     `json:"config"`
	DiskUsage *models.DiskUsage `json:"disk_usage"`
	Media     []models.MediaRow `json:"media"`
}

func filterDeletable(rows []models.MediaRow) []models.MediaRow {
	out := make([]models.MediaRow, 0, len(rows))
	for _, row := range rows {
		if row.Deletable {
			out = append(out, row)
		}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderSummary(result *matcher.Result, rows []models.MediaRow) string {
	disk := "unknown"
	if result.DiskUsage != nil {
		disk = fmt.Sprintf("%s %.2f%% used (%s free of %s)", result.DiskUsage.Path, result.DiskUsage.Percent,
			result.DiskUsage.Free, result.DiskUsage.Total)
	}
	return fmt.Sprintf("Disk: %s | threshold %.0f%%, min seed %d weeks, min ratio %.2f | %d shown, %d deletable",
		disk, result.Policy.DiskThreshold, result.Policy.MinSeedWeeks, result.Policy.MinRatio,
		len(rows), len(filterDeletable(rows)))
}

func renderRows(rows []models.MediaRow) string {
	headers := []string{"Origin", "Title", "Year", "Status", "Torrent", "Ratio", "Seeded", "Watched", "Deletable"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft}

	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		table = append(table, []string{
			string(row.Origin),
			row.Title,
			strconv.Itoa(row.Year),
			row.Status,
			row.TorrentState,
			row.Ratio,
			row.SeedTime,
			yesNo(row.Watched),
			verdict(row),
		})
	}
	return renderTable(headers, table, aligns)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// verdict shows which criteria are met as D/W/T/R flags
func verdict(row models.MediaRow) string {
	flags := []byte("----")
	if row.Criteria.Disk {
		flags[0] = 'D'
	}
	if row.Criteria.Watched {
		flags[1] = 'W'
	}
	if row.Criteria.Time {
		flags[2] = 'T'
	}
	if row.Criteria.Ratio {
		flags[3] = 'R'
	}
	if row.Deletable {
		return "yes " + string(flags)
	}
	return "no  " + string(flags)
}
