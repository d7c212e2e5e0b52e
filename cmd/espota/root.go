package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	log     zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "espota",
	Short: "OTA firmware uploads for ESP8266/ESP32 devices",
	Long: `espota pushes firmware and filesystem images to espota-capable devices
over the network: a UDP invitation announces the payload, then the device
connects back over TCP and pulls it in acknowledged chunks.

Usage:
  Flash an application image: espota flash --host 192.168.4.1 --file app.bin
  Flash a filesystem image:   espota spiffs --host 192.168.4.1 --file fs.bin
  Check reachability:         espota ping --host 192.168.4.1

Flags can also come from the environment (ESPOTA_HOST, ESPOTA_AUTH, ...)
or a config file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initConfig()
		initLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.espota.yaml)")
	rootCmd.PersistentFlags().StringP("host", "i", "", "device address (required)")
	rootCmd.PersistentFlags().IntP("port", "p", 8266, "device OTA port")
	rootCmd.PersistentFlags().StringP("auth", "a", "", "OTA password for protected devices")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	_ = viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	_ = viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("auth", rootCmd.PersistentFlags().Lookup("auth"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	viper.SetEnvPrefix("ESPOTA")
	viper.AutomaticEnv()
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".espota")
			viper.SetConfigType("yaml")
		}
	}

	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()
}

// initLogging sets up the console logger shared by all commands.
func initLogging() {
	level := zerolog.InfoLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}

	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
