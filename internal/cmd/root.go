// Package cmd implements the aclengine command-line interface: a cobra
// command tree, viper-backed YAML/TOML/JSON configuration, and a zap
// logger that is also installed as the acl package's logger.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	logger  *zap.Logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "aclengine",
	Short: "ACL-driven TCP/UDP forwarder",
	Long:  "aclengine loads a rule file, compiles it against a table of outbound transports, and serves as a local SOCKS5/TCP+UDP forwarder that routes each connection according to the compiled rules.",
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: config.yaml in the working directory)")
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the root command, exiting the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
	}
	viper.AutomaticEnv()
}

func initLogger() {
	logLevel := viper.GetString("log.level")
	zapLevel := zap.InfoLevel
	if logLevel != "" {
		if err := zapLevel.Set(logLevel); err != nil {
			zapLevel = zap.InfoLevel
		}
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	zapConfig.Encoding = "console"

	l, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	logger = l
}
