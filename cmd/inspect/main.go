package main

// #region imports
import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/claritycare/policysuggest/internal/audit"
)

// #endregion

// #region main
func main() {
	dbPath := flag.String("db", "", "path to the audit database")
	userID := flag.String("user", "", "list suggestion history for this user")
	orgID := flag.String("org", "", "show usage analytics for this organization")
	last := flag.Int("last", 20, "show N most recent records")
	days := flag.Int("days", 30, "analytics window in days")
	jsonOut := flag.Bool("json", false, "output as JSON")
	flag.Parse()

	if *dbPath == "" || (*userID == "" && *orgID == "") {
		fmt.Fprintln(os.Stderr, "usage: inspect --db audit.db (--user id [--last N] | --org id [--days N]) [--json]")
		os.Exit(2)
	}

	sink, err := audit.NewSQLiteSink(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer sink.Close()

	ctx := context.Background()
	if *userID != "" {
		if err := runHistory(ctx, sink, *userID, *last, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := runUsage(ctx, sink, *orgID, *days, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region history-mode

func runHistory(ctx context.Context, sink *audit.SQLiteSink, userID string, last int, jsonOut bool) error {
	records, err := sink.History(ctx, userID, audit.HistoryFilter{Limit: last})
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(records)
	}

	fmt.Printf("%-36s  %-20s  %-8s  %-8s  %s\n", "SUGGESTION", "INTENT", "STATUS", "DECISION", "CREATED")
	for _, rec := range records {
		fmt.Printf("%-36s  %-20s  %-8s  %-8s  %s\n",
			rec.SuggestionID, rec.Intent, rec.Status, rec.Decision,
			rec.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

// #endregion history-mode

// #region usage-mode

func runUsage(ctx context.Context, sink *audit.SQLiteSink, orgID string, days int, jsonOut bool) error {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	usage, err := sink.UsageAnalytics(ctx, orgID, from, to)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(usage)
	}

	fmt.Printf("organization %s, last %d days:\n", orgID, days)
	fmt.Printf("  total=%d success=%d fallback=%d error=%d (fallback rate %.1f%%)\n",
		usage.Total, usage.Success, usage.Fallback, usage.Errors, usage.FallbackRate*100)
	fmt.Printf("  decisions: accepted=%d modified=%d rejected=%d\n",
		usage.Accepted, usage.Modified, usage.Rejected)
	fmt.Printf("  avg success confidence: %.2f\n", usage.AvgConfidence)
	return nil
}

// #endregion usage-mode
