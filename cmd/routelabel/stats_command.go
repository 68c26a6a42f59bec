package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"routelabel/internal/ledger"
)

type statsReport struct {
	Labels   []labelStat      `json:"labels"`
	Outcomes map[string]int   `json:"outcomes"`
	Recent   []recentRouteRow `json:"recent_routes"`
}

type labelStat struct {
	Label     string  `json:"label"`
	Decisions int     `json:"decisions"`
	Agreed    int     `json:"agreed"`
	Agreement float64 `json:"agreement"`
}

type recentRouteRow struct {
	Time    string `json:"time"`
	Age     string `json:"-"`
	Route   string `json:"route"`
	Outcome string `json:"outcome"`
	Frames  int    `json:"frames"`
	Shown   int    `json:"shown"`
	Filed   int    `json:"filed"`
}

var outcomeOrder = []ledger.Outcome{
	ledger.OutcomeReviewed,
	ledger.OutcomeEmpty,
	ledger.OutcomeFailed,
	ledger.OutcomeAborted,
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize labeling decisions and route outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			report, err := buildStatsReport(cmd, store, limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, report)
			}
			printStatsReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of recent routes to show")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func buildStatsReport(cmd *cobra.Command, store *ledger.Store, limit int) (statsReport, error) {
	ctx := cmd.Context()
	counts, err := store.LabelCounts(ctx)
	if err != nil {
		return statsReport{}, fmt.Errorf("label counts: %w", err)
	}
	outcomes, err := store.OutcomeCounts(ctx)
	if err != nil {
		return statsReport{}, fmt.Errorf("outcome counts: %w", err)
	}
	recent, err := store.RecentRoutes(ctx, limit)
	if err != nil {
		return statsReport{}, fmt.Errorf("recent routes: %w", err)
	}

	report := statsReport{Outcomes: make(map[string]int, len(outcomes))}
	for _, c := range counts {
		report.Labels = append(report.Labels, labelStat{
			Label:     c.Label,
			Decisions: c.Total,
			Agreed:    c.Agreed,
			Agreement: c.AgreementRate(),
		})
	}
	for outcome, n := range outcomes {
		report.Outcomes[string(outcome)] = n
	}
	for _, r := range recent {
		report.Recent = append(report.Recent, recentRouteRow{
			Time:    r.CreatedAt.Local().Format(time.DateTime),
			Age:     humanize.Time(r.CreatedAt),
			Route:   r.Route,
			Outcome: string(r.Outcome),
			Frames:  r.FrameCount,
			Shown:   r.ShownCount,
			Filed:   r.FiledCount,
		})
	}
	return report, nil
}

func printStatsReport(cmd *cobra.Command, report statsReport) {
	out := cmd.OutOrStdout()
	if len(report.Labels) == 0 && len(report.Recent) == 0 {
		fmt.Fprintln(out, "No decisions recorded yet")
		return
	}

	labelRows := make([][]string, 0, len(report.Labels))
	for _, l := range report.Labels {
		labelRows = append(labelRows, []string{
			l.Label,
			strconv.Itoa(l.Decisions),
			strconv.Itoa(l.Agreed),
			fmt.Sprintf("%.1f%%", l.Agreement*100),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]column{textCol("Label"), numCol("Decisions"), numCol("Agreed"), numCol("Agreement")},
		labelRows,
	))

	outcomeRows := make([][]string, 0, len(outcomeOrder))
	for _, o := range outcomeOrder {
		outcomeRows = append(outcomeRows, []string{string(o), strconv.Itoa(report.Outcomes[string(o)])})
	}
	fmt.Fprintln(out, renderTable([]column{textCol("Outcome"), numCol("Routes")}, outcomeRows))

	if len(report.Recent) == 0 {
		return
	}
	recentRows := make([][]string, 0, len(report.Recent))
	for _, r := range report.Recent {
		recentRows = append(recentRows, []string{
			r.Age, r.Route, r.Outcome,
			strconv.Itoa(r.Frames), strconv.Itoa(r.Shown), strconv.Itoa(r.Filed),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]column{textCol("When"), textCol("Route"), textCol("Outcome"), numCol("Frames"), numCol("Shown"), numCol("Filed")},
		recentRows,
	))
}
