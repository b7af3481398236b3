package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <wallet-id>",
	Short: "Show a wallet's metadata snapshot",
	Long: `Show a read-only snapshot of a wallet: identity, display name,
currency code, archived flag and balance. The name and currency code are
decrypted from the wallet's sync directory with its master key.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := manager.GetInfo(args[0])
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
