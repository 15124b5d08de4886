package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/exitguard/internal/journal"
)

// HistoryCommand returns the history command, which lists recorded
// shutdowns.
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "list recorded shutdown reports, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "maximum number of reports (0 for all)",
				Value:   20,
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "journal directory (defaults to journal.dir)",
			},
		},
		Action: showHistory,
	}
}

func showHistory(c *cli.Context) error {
	dir := c.String("dir")
	if dir == "" {
		cfg, _, err := loadConfig(c)
		if err != nil {
			return err
		}
		dir = cfg.Journal.Dir
	}
	if dir == "" {
		return errors.New("journal is disabled (journal.dir is empty)")
	}

	j, err := journal.Open(dir)
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.List(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	return render(c, history(recs))
}

// history renders journal records as a table.
type history []journal.Record

func (h history) Headers() []string {
	return []string{"RUN", "STARTED", "TRIGGER", "SIGNAL", "LISTENERS", "FAILURES", "DURATION", "STATUS"}
}

func (h history) Rows() [][]string {
	rows := make([][]string, 0, len(h))
	for _, r := range h {
		status := "finished"
		if !r.Finished {
			status = "interrupted"
		}
		rows = append(rows, []string{
			r.ID,
			r.Started.Local().Format(time.DateTime),
			r.Trigger,
			dash(r.Signal),
			strconv.Itoa(r.Listeners),
			failureSummary(r.Failures),
			r.Duration.Round(time.Millisecond).String(),
			status,
		})
	}
	return rows
}

func failureSummary(fs []journal.FailureRecord) string {
	if len(fs) == 0 {
		return "-"
	}
	kinds := make([]string, 0, len(fs))
	for _, f := range fs {
		kinds = append(kinds, strconv.Itoa(f.Index)+":"+f.Kind)
	}
	return strings.Join(kinds, ",")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
