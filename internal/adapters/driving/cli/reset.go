package cli

import (
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the current search",
	Long: `Clears the remembered query so the next run starts idle.
The result cache is kept and serves the query again if it is repeated.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	session, release, err := requireSession("")
	if err != nil {
		return err
	}
	defer release()

	previous := session.View().Location
	session.HandleReset()

	cmd.Printf("Cleared %s\n", previous)
	return nil
}
