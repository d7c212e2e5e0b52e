package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ismail-ozturk/go-espota/uploader"
)

// pingCmd represents the ping command
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check whether the device answers OTA invitations",
	Long: `Send a sentinel invitation (size zero) and report whether the device
answered. No transfer is performed. Exits non-zero when the device is
unreachable.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("host") == "" {
			return fmt.Errorf("device host is required (--host or ESPOTA_HOST)")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		host := viper.GetString("host")
		port := viper.GetInt("port")

		up := uploader.New(uploader.WithLogger(&zerologAdapter{l: log}))

		if !up.TestConnection(ctx, host, port) {
			return fmt.Errorf("device %s:%d is not answering OTA invitations", host, port)
		}

		log.Info().Str("host", host).Int("port", port).Msg("device is reachable")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
