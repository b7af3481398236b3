package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store connectivity and protection status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Store:             %s\n", manager.Store().GetType())
		fmt.Printf("Account:           %s\n", viper.GetString("account"))
		fmt.Printf("Memory protection: %s\n", manager.MemoryProtection())

		if err := manager.Store().Ping(); err != nil {
			fmt.Printf("Connectivity:      FAILED (%v)\n", err)
			return err
		}
		fmt.Println("Connectivity:      ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
