package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"ETFSwitch/internal/model"

	"github.com/spf13/cobra"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Manage the candidate universe",
	Long: `List and edit the ETFs considered for the target book.

Examples:
  etfswitch candidates list
  etfswitch candidates add 069500 equity "KODEX 200"
  etfswitch candidates remove 069500`,
}

var candidatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidates by category",
	Args:  cobra.NoArgs,
	RunE:  runCandidatesList,
}

var candidatesAddCmd = &cobra.Command{
	Use:   "add <symbol> <category> [name]",
	Short: "Add or update a candidate",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runCandidatesAdd,
}

var candidatesRemoveCmd = &cobra.Command{
	Use:   "remove <symbol>",
	Short: "Remove a candidate",
	Args:  cobra.ExactArgs(1),
	RunE:  runCandidatesRemove,
}

func init() {
	rootCmd.AddCommand(candidatesCmd)
	candidatesCmd.AddCommand(candidatesListCmd)
	candidatesCmd.AddCommand(candidatesAddCmd)
	candidatesCmd.AddCommand(candidatesRemoveCmd)
}

func runCandidatesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	list, err := st.ListCandidates(cmd.Context())
	if err != nil {
		return fmt.Errorf("list candidates: %w", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tSYMBOL\tNAME")
	for _, c := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Category, c.Symbol, c.Name)
	}
	return w.Flush()
}

func runCandidatesAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	c := model.Candidate{Symbol: args[0], Category: args[1]}
	if len(args) == 3 {
		c.Name = args[2]
	}
	if err := st.UpsertCandidate(cmd.Context(), c); err != nil {
		return fmt.Errorf("add candidate: %w", err)
	}
	fmt.Printf("saved %s (%s)\n", c.Symbol, c.Category)
	return nil
}

func runCandidatesRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	removed, err := st.RemoveCandidate(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("remove candidate: %w", err)
	}
	if !removed {
		return fmt.Errorf("candidate %s not found", args[0])
	}
	fmt.Printf("removed %s\n", args[0])
	return nil
}
