package cmd

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	debug      bool
	logLevel   string
	configFile string
	envFile    string
	network    string
	wsURL      string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sdkrx",
	Short: "Bitmark event bus client",
	Long: `sdkrx connects to the Bitmark subscription server and streams blockchain
events: new blocks, bitmark changes, transfer offers, pending issuances and
pending transactions.

Events can be printed (watch) or forwarded to Redis or NATS (relay).

The signing key is an ed25519 seed, hex encoded, read from SDKRX_SEED; the
matching account number is read from SDKRX_ACCOUNT. Both may be set in a .env
file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "debug output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "HCL configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&network, "network", "", "Bitmark network (livenet or testnet)")
	rootCmd.PersistentFlags().StringVar(&wsURL, "ws-url", "", "subscription server URL, overriding the network default")
}
