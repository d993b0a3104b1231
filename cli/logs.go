// ABOUTME: Activity log CLI command
// ABOUTME: Prints audit events newest first with optional filters
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/userdesk/handlers"
)

// LogsCommand prints the activity log.
func LogsCommand(admin *handlers.AdminHandlers, args []string) error {
	fs := flag.NewFlagSet("logs", flag.ExitOnError)
	action := fs.String("action", "", `Exact action filter (e.g. "User Created")`)
	date := fs.String("date", "", "Calendar date prefix filter (e.g. 2026-09-01 or 2026-09)")
	_ = fs.Parse(args)

	logs := admin.ListLogs(*action, *date)
	if len(logs) == 0 {
		fmt.Println("No activity recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ACTION\tTARGET USER\tTIMESTAMP")
	_, _ = fmt.Fprintln(w, "------\t-----------\t---------")
	for _, entry := range logs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Action, entry.TargetUsername, entry.Timestamp)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d entr(ies)\n", len(logs))
	return nil
}
