package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/TJLW/airbitz-core/wallet"
)

var walletsCmd = &cobra.Command{
	Use:   "wallets",
	Short: "List and register the account's wallets",
}

var walletsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the account's wallet identities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := accountDir.List()
		if err != nil {
			return err
		}

		sort.Strings(ids)
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

var walletsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a wallet entry with fresh key material",
	Long: `Create a wallet entry in the account's wallet list with a random
identity, master key and coin seed. The wallet's sync directory is created
lazily on the first metadata write.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		masterKey := make([]byte, 32)
		if _, err := rand.Read(masterKey); err != nil {
			return fmt.Errorf("failed to generate master key: %w", err)
		}
		coinSeed := make([]byte, 32)
		if _, err := rand.Read(coinSeed); err != nil {
			return fmt.Errorf("failed to generate coin seed: %w", err)
		}
		syncKey := make([]byte, 20)
		if _, err := rand.Read(syncKey); err != nil {
			return fmt.Errorf("failed to generate sync key: %w", err)
		}

		walletID := uuid.NewString()
		meta := wallet.Metadata{
			DataKey:  hex.EncodeToString(masterKey),
			CoinSeed: hex.EncodeToString(coinSeed),
			SyncKey:  hex.EncodeToString(syncKey),
		}

		if err := accountDir.AddWallet(walletID, meta, false); err != nil {
			return err
		}

		fmt.Println(walletID)
		return nil
	},
}

var walletsArchiveCmd = &cobra.Command{
	Use:   "archive <wallet-id>",
	Short: "Flag a wallet as archived",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return accountDir.SetArchived(args[0], true)
	},
}

func init() {
	walletsCmd.AddCommand(walletsListCmd)
	walletsCmd.AddCommand(walletsCreateCmd)
	walletsCmd.AddCommand(walletsArchiveCmd)
	rootCmd.AddCommand(walletsCmd)
}
