package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalfund/internal/cli"
	"github.com/theirongolddev/goalfund/internal/config"
	"github.com/theirongolddev/goalfund/internal/planfile"
	"github.com/theirongolddev/goalfund/internal/projection"
	"github.com/theirongolddev/goalfund/internal/store"
)

var snapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Aliases: []string{"snap"},
	Short:   "Save and restore named copies of the plan",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Save the current plan as a snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSnapshotSave,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotList,
}

var snapshotLoadCmd = &cobra.Command{
	Use:   "load <id|name>",
	Short: "Replace the plan file with a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotLoad,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:     "delete <id|name>",
	Aliases: []string{"rm"},
	Short:   "Delete snapshots by id or name",
	Args:    cobra.ExactArgs(1),
	RunE:    runSnapshotDelete,
}

func init() {
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd, snapshotLoadCmd, snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func openStore() (*store.Store, error) {
	return store.Open(config.SnapshotDBPath(appConfig))
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	p, _, err := loadPlan()
	if err != nil {
		return err
	}
	name := time.Now().Format("2006-01-02 15:04")
	if len(args) == 1 {
		name = args[0]
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	snap, err := st.Save(cmd.Context(), name, p)
	if err != nil {
		return err
	}
	info("Saved snapshot %q (%s)", snap.Name, snap.ID)
	return nil
}

func runSnapshotList(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	snaps, err := st.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("\n  No snapshots yet. Save one with `goalfund snapshot save`.")
		return nil
	}

	f := formatter()
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rt := projection.RoundTotals(s.Totals)
		rows = append(rows, []string{
			s.ID,
			s.Name,
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(s.GoalCount),
			strconv.Itoa(s.SourceCount),
			f.Amount(rt.Lumpsum),
			f.Amount(rt.SIP),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:     "Snapshots",
		Headers:   []string{"ID", "Name", "Saved", "Goals", "Sources", "Lumpsum", "SIP / mo"},
		Rows:      rows,
		LeftAlign: map[int]bool{0: true, 1: true, 2: true},
	}))
	fmt.Println()
	return nil
}

func runSnapshotLoad(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	p, snap, err := st.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	path := planPath()
	if err := planfile.Save(path, p); err != nil {
		return err
	}
	info("Restored snapshot %q from %s into %s", snap.Name, snap.CreatedAt.Local().Format("2006-01-02 15:04"), path)
	return nil
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	n, err := st.Delete(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	info("Deleted %d snapshot(s)", n)
	return nil
}
