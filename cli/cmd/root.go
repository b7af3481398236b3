package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TJLW/airbitz-core/account"
	"github.com/TJLW/airbitz-core/audit"
	"github.com/TJLW/airbitz-core/persist"
	"github.com/TJLW/airbitz-core/wallet"
)

var (
	cfgFile     string
	storePath   string
	accountName string

	store       persist.Store
	accountDir  *account.Directory
	manager     *wallet.Manager
	auditLogger audit.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Inspect and edit encrypted wallet metadata",
	Long: `Inspect and edit the encrypted metadata of an account's wallets.
Wallet names and currency codes are stored AES-256-GCM encrypted under each
wallet's master key; key material is held in protected memory for the
lifetime of the command only.`,
	PersistentPreRunE: initializeManager,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if manager != nil {
			return manager.Close()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.wallet.yaml)")
	rootCmd.PersistentFlags().StringVarP(&storePath, "store-path", "p", "", "path to wallet storage")
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "", "account identifier")
	rootCmd.PersistentFlags().String("store-type", "", "storage backend type (filesystem, s3)")
	rootCmd.PersistentFlags().Bool("memory-lock", false, "lock process memory against swapping")

	bindFlagOrPanic("store.path", "store-path")
	bindFlagOrPanic("store.type", "store-type")
	bindFlagOrPanic("account", "account")
	bindFlagOrPanic("memory_lock", "memory-lock")

	// Audit flags
	rootCmd.PersistentFlags().Bool("audit", false, "enable audit logging")
	rootCmd.PersistentFlags().String("audit-type", "", "audit logger type (file, syslog)")
	rootCmd.PersistentFlags().String("audit-file", "", "audit log file path")

	bindFlagOrPanic("audit.enabled", "audit")
	bindFlagOrPanic("audit.type", "audit-type")
	bindFlagOrPanic("audit.options.file_path", "audit-file")

	// S3 flags
	rootCmd.PersistentFlags().String("s3-endpoint", "", "S3 endpoint URL")
	rootCmd.PersistentFlags().String("s3-region", "", "S3 region")
	rootCmd.PersistentFlags().String("s3-bucket", "", "S3 bucket name")
	rootCmd.PersistentFlags().String("s3-prefix", "", "S3 key prefix")
	rootCmd.PersistentFlags().String("s3-access-key", "", "S3 access key ID")
	rootCmd.PersistentFlags().String("s3-secret-key", "", "S3 secret access key")
	rootCmd.PersistentFlags().Bool("s3-use-ssl", true, "Use SSL for S3 connections")

	bindFlagOrPanic("store.s3.endpoint", "s3-endpoint")
	bindFlagOrPanic("store.s3.region", "s3-region")
	bindFlagOrPanic("store.s3.bucket", "s3-bucket")
	bindFlagOrPanic("store.s3.key_prefix", "s3-prefix")
	bindFlagOrPanic("store.s3.access_key_id", "s3-access-key")
	bindFlagOrPanic("store.s3.secret_access_key", "s3-secret-key")
	bindFlagOrPanic("store.s3.use_ssl", "s3-use-ssl")
}

func bindFlagOrPanic(configKey, flagName string) {
	if err := viper.BindPFlag(configKey, rootCmd.PersistentFlags().Lookup(flagName)); err != nil {
		panic(fmt.Sprintf("failed to bind %s flag: %v", flagName, err))
	}
}

func initConfig() {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".wallet")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("WALLET")
	viper.AutomaticEnv()

	// Missing config file is fine; flags and env carry the day
	_ = viper.ReadInConfig()
}

func setDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	viper.SetDefault("store.type", string(persist.StoreTypeFileSystem))
	viper.SetDefault("store.path", filepath.Join(home, ".wallet", "store"))
	viper.SetDefault("account", "default")
}

func initializeManager(cmd *cobra.Command, args []string) error {
	var err error

	store, err = buildStore()
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	auditLogger, err = buildAuditLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize audit logger: %w", err)
	}

	accountDir, err = account.NewDirectory(store, viper.GetString("account"))
	if err != nil {
		return fmt.Errorf("failed to open account: %w", err)
	}

	manager, err = wallet.New(
		wallet.Options{EnableMemoryLock: viper.GetBool("memory_lock")},
		store,
		accountDir,
		account.FixedBalanceSource{},
		auditLogger,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize wallet manager: %w", err)
	}

	return nil
}

func buildStore() (persist.Store, error) {
	switch persist.StoreType(viper.GetString("store.type")) {
	case persist.StoreTypeS3:
		return persist.NewS3Store(persist.S3Config{
			Endpoint:        viper.GetString("store.s3.endpoint"),
			AccessKeyID:     viper.GetString("store.s3.access_key_id"),
			SecretAccessKey: viper.GetString("store.s3.secret_access_key"),
			Bucket:          viper.GetString("store.s3.bucket"),
			KeyPrefix:       viper.GetString("store.s3.key_prefix"),
			UseSSL:          viper.GetBool("store.s3.use_ssl"),
			Region:          viper.GetString("store.s3.region"),
		})
	default:
		return persist.NewFileSystemStore(viper.GetString("store.path"))
	}
}

func buildAuditLogger() (audit.Logger, error) {
	if !viper.GetBool("audit.enabled") {
		return audit.NewNoOpLogger(), nil
	}

	return audit.NewLogger(&audit.Config{
		Enabled: true,
		Type:    audit.ConfigType(viper.GetString("audit.type")),
		Options: viper.GetStringMap("audit.options"),
	})
}
