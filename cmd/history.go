package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pmsched/infra/metrics"
	"github.com/kilianp07/pmsched/pkg/export"
)

var (
	historyDB      string
	historyProject string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the runs recorded by the sqlite sink",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDB, "db", "pmsched.db", "sqlite run history")
	historyCmd.Flags().StringVar(&historyProject, "project", "", "project name")
	_ = historyCmd.MarkFlagRequired("project")
	rootCmd.AddCommand(historyCmd)
}

type historyRow struct {
	RunID    string    `json:"run_id"`
	Duration int       `json:"duration"`
	Critical int       `json:"critical"`
	SPI      *float64  `json:"spi,omitempty"`
	CPI      *float64  `json:"cpi,omitempty"`
	Time     time.Time `json:"time"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := metrics.NewSQLiteSink(historyDB)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = store.Close() }()
	runs, err := store.Runs(historyProject)
	if err != nil {
		return err
	}

	rows := make([]historyRow, 0, len(runs))
	t := export.Table{Name: "history", Header: []string{"run_id", "time", "duration", "critical", "spi", "cpi"}}
	for _, r := range runs {
		row := historyRow{RunID: r.RunID, Duration: r.Duration, Critical: r.Critical, Time: r.Time}
		spi, cpi := "", ""
		if r.SPI.Valid {
			row.SPI = &r.SPI.Float64
			spi = strconv.FormatFloat(r.SPI.Float64, 'f', -1, 64)
		}
		if r.CPI.Valid {
			row.CPI = &r.CPI.Float64
			cpi = strconv.FormatFloat(r.CPI.Float64, 'f', -1, 64)
		}
		rows = append(rows, row)
		t.Rows = append(t.Rows, []string{r.RunID, r.Time.Format(time.RFC3339), strconv.Itoa(r.Duration), strconv.Itoa(r.Critical), spi, cpi})
	}
	return write(cmd.OutOrStdout(), rows, []export.Table{t})
}
