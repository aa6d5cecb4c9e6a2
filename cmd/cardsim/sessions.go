package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MJE43/cardsim/internal/decision"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect recorded sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded sessions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the decision transcript of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a session and its decisions",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsRemove,
}

var (
	listLimit  int
	listOffset int
	showJSON   bool
)

func runSessionsList(cmd *cobra.Command, _ []string) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, total, err := st.ListSessions(cmd.Context(), listLimit, listOffset)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPROVIDER\tSTATE\tDECISIONS\tCREATED")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			s.ID, s.Name, s.Provider, s.FinalState, s.TotalDecisions, s.CreatedAt.Format(time.RFC3339))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d sessions\n", len(sessions), total)
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	t, err := st.Transcript(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if showJSON {
		return printJSON(cmd.OutOrStdout(), t)
	}
	return writeTranscript(cmd.OutOrStdout(), t)
}

func runSessionsRemove(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteSession(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}

func writeTranscript(out io.Writer, t decision.Transcript) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tOP\tSOURCE\tTARGET\tANSWER")
	for _, d := range t {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", d.Seq, d.Op, d.Source, d.Target, answer(d))
	}
	return w.Flush()
}

func answer(d decision.Decision) string {
	switch {
	case d.Op == decision.OpSortSummonCopy:
		return fmt.Sprint(d.Order)
	case d.Op.Numeric():
		return fmt.Sprint(d.Number)
	default:
		return d.Choice
	}
}

func init() {
	sessionsListCmd.Flags().IntVar(&listLimit, "limit", 20, "page size")
	sessionsListCmd.Flags().IntVar(&listOffset, "offset", 0, "page offset")
	sessionsShowCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsRemoveCmd)
}
