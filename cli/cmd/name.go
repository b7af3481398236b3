package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var nameCmd = &cobra.Command{
	Use:   "name",
	Short: "Get or set a wallet's display name",
}

var nameGetCmd = &cobra.Command{
	Use:   "get <wallet-id>",
	Short: "Print a wallet's display name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := manager.GetInfo(args[0])
		if err != nil {
			return err
		}
		fmt.Println(info.Name)
		return nil
	},
}

var nameSetCmd = &cobra.Command{
	Use:   "set <wallet-id> <name>",
	Short: "Set a wallet's display name",
	Long: `Set a wallet's display name. The name is written to the wallet's
sync directory encrypted under the wallet master key. If the write fails the
command reports an error; re-running it retries the write.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := manager.SetName(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Wallet %s renamed to %q\n", args[0], args[1])
		return nil
	},
}

var currencyCmd = &cobra.Command{
	Use:   "currency",
	Short: "Get or set a wallet's currency code",
}

var currencyGetCmd = &cobra.Command{
	Use:   "get <wallet-id>",
	Short: "Print a wallet's currency code (-1 when unset)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := manager.GetInfo(args[0])
		if err != nil {
			return err
		}
		fmt.Println(info.CurrencyCode)
		return nil
	},
}

var currencySetCmd = &cobra.Command{
	Use:   "set <wallet-id> <currency-code>",
	Short: "Set a wallet's currency code",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("currency code must be an integer: %w", err)
		}
		if err = manager.SetCurrency(args[0], code); err != nil {
			return err
		}
		fmt.Printf("Wallet %s currency set to %d\n", args[0], code)
		return nil
	},
}

func init() {
	nameCmd.AddCommand(nameGetCmd)
	nameCmd.AddCommand(nameSetCmd)
	rootCmd.AddCommand(nameCmd)

	currencyCmd.AddCommand(currencyGetCmd)
	currencyCmd.AddCommand(currencySetCmd)
	rootCmd.AddCommand(currencyCmd)
}
