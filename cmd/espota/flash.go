package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ismail-ozturk/go-espota/firmware"
	"github.com/ismail-ozturk/go-espota/protocol"
	"github.com/ismail-ozturk/go-espota/uploader"
)

// flashCmd represents the flash command
var flashCmd = &cobra.Command{
	Use:   "flash",
	Short: "Upload an application firmware image",
	Long: `Upload an application firmware image to the device. This will:

1. Compute the image size and content digest
2. Invite the device over UDP (retried on silence)
3. Authenticate if the device demands it and --auth is set
4. Serve the image over TCP in acknowledged chunks

Use --file to specify the image to upload.`,
	PreRunE: validateUploadFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpload(cmd, protocol.CmdFlash)
	},
}

// spiffsCmd represents the spiffs command
var spiffsCmd = &cobra.Command{
	Use:   "spiffs",
	Short: "Upload a filesystem (SPIFFS/LittleFS) image",
	Long: `Upload a filesystem image to the device. Identical to flash except the
invitation announces a filesystem payload, so the device writes it to the
filesystem partition instead of the application slot.`,
	PreRunE: validateUploadFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpload(cmd, protocol.CmdSpiffs)
	},
}

func init() {
	for _, c := range []*cobra.Command{flashCmd, spiffsCmd} {
		c.Flags().StringP("file", "f", "", "path to the image to upload (required)")
		_ = c.MarkFlagRequired("file")
	}

	rootCmd.AddCommand(flashCmd)
	rootCmd.AddCommand(spiffsCmd)
}

func validateUploadFlags(cmd *cobra.Command, args []string) error {
	if viper.GetString("host") == "" {
		return fmt.Errorf("device host is required (--host or ESPOTA_HOST)")
	}

	file, _ := cmd.Flags().GetString("file")
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("image file: %w", err)
	}

	return nil
}

func runUpload(cmd *cobra.Command, command protocol.Command) error {
	ctx, cancel := signalContext()
	defer cancel()

	host := viper.GetString("host")
	port := viper.GetInt("port")
	file, _ := cmd.Flags().GetString("file")

	img, err := firmware.Load(file)
	if err != nil {
		return err
	}

	log.Info().
		Str("file", file).
		Int("size", img.Size()).
		Str("digest", img.Digest()).
		Str("command", command.String()).
		Msg("image loaded")

	bar := progressbar.NewOptions(img.Size(),
		progressbar.OptionSetDescription(fmt.Sprintf("Uploading %s", file)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(false),
	)

	up := uploader.New(
		uploader.WithCommand(command),
		uploader.WithPassword(viper.GetString("auth")),
		uploader.WithLogger(&zerologAdapter{l: log}),
		uploader.WithProgressCallback(func(p uploader.Progress) {
			if p.Phase == uploader.PhaseTransferring || p.Phase == uploader.PhaseComplete {
				_ = bar.Set(p.BytesSent)
			}
		}),
	)

	res, err := up.Upload(ctx, host, port, img)
	if err != nil {
		return err
	}

	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	log.Info().
		Int("bytes", res.BytesSent).
		Dur("elapsed", res.Elapsed).
		Msg(res.Message)

	return nil
}
