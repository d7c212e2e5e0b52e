// Package firmware provides the in-memory container for OTA firmware images.
//
// An Image owns one payload for the duration of an upload: the raw bytes, the
// byte count and the hex-encoded MD5 content digest. All three are fixed when
// the image is created — the uploader announces them during the invitation and
// streams exactly those bytes afterwards.
//
// # Usage
//
// Load an image from disk:
//
//	img, err := firmware.Load("app.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Size:   %d bytes\n", img.Size())
//	fmt.Printf("Digest: %s\n", img.Digest())
//
// Or from any io.Reader:
//
//	img, err := firmware.LoadReader(resp.Body)
//
// Or from bytes already in memory:
//
//	img, err := firmware.New(payload)
//
// The digest is MD5 because that is what the espota device stack computes on
// its side; it reports payload integrity, not authenticity.
package firmware
