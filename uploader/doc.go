// Package uploader provides a high-level API for delivering firmware images
// to espota-capable devices (ESP8266/ESP32 class) over the network.
//
// # Overview
//
// This package orchestrates the complete OTA sequence:
//   - Announcing the payload with a UDP invitation, retried on silence
//   - Completing the authentication challenge-response when demanded
//   - Serving the payload over an ephemeral TCP session in
//     acknowledgment-gated chunks under a global watchdog
//   - Probing device reachability without performing a transfer
//
// # Basic Usage
//
// The simplest way to flash a device:
//
//	img, err := firmware.Load("app.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	up := uploader.New()
//	res, err := up.Upload(context.Background(), "192.168.4.1", 8266, img)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Message)
//
// # Progress Tracking
//
// Track upload progress with a callback:
//
//	up := uploader.New(
//	    uploader.WithProgressCallback(func(p uploader.Progress) {
//	        fmt.Printf("[%s] %.1f%% - %d/%d bytes\n",
//	            p.Phase, p.Fraction*100, p.BytesSent, p.TotalBytes)
//	    }),
//	)
//
// # Configuration Options
//
// Customize behavior with functional options:
//
//	up := uploader.New(
//	    uploader.WithCommand(protocol.CmdSpiffs),
//	    uploader.WithPassword("ota-secret"),
//	    uploader.WithProgressCallback(progressFunc),
//	    uploader.WithLogger(myLogger),
//	    uploader.WithChunkSize(1024),
//	    uploader.WithInviteTimeout(time.Second),
//	    uploader.WithInviteAttempts(10),
//	    uploader.WithTransferTimeout(60*time.Second),
//	)
//
// # Error Handling
//
// The package provides structured error types:
//   - TimeoutError: no invitation reply, no auth verdict, or watchdog expiry
//   - TransportError: socket-level dial/bind/read/write failure
//   - AuthError: authentication demanded but unavailable or rejected
//   - protocol.ProtocolError: device reply outside the espota grammar
//
// All are matchable with errors.As. Retries are confined to the invitation
// phase; any failure in either phase surfaces one terminal error and never
// re-attempts the other phase. Bytes already transferred are not resumed.
//
// # Concurrency
//
// Each upload is one sequential pipeline on the caller's goroutine. An
// Uploader holds only configuration and no cross-call state; callers must
// serialize uploads targeting the same device. Progress and log callbacks
// are invoked from the upload's own execution context and should return
// quickly.
package uploader
