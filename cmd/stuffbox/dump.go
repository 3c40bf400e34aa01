package main

import (
	"bytes"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// cborEncMode uses canonical encoding so dumps are byte-for-byte
// reproducible.
var cborEncMode cbor.EncMode

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("stuffbox: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic(fmt.Sprintf("stuffbox: failed to create zstd encoder: %v", err))
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		panic(fmt.Sprintf("stuffbox: failed to create zstd decoder: %v", err))
	}
}

// marshalEntries serializes entries to CBOR bytes.
func marshalEntries(entries []entry) ([]byte, error) {
	return cborEncMode.Marshal(entries)
}

// unmarshalEntries deserializes entries from CBOR bytes.
func unmarshalEntries(data []byte) ([]entry, error) {
	var entries []entry
	if err := cbor.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("stuffbox: unmarshal entries: %w", err)
	}
	return entries, nil
}

func writeText(w io.Writer, entries []entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INPUT\tSTATE\tBITS\tVALUE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t0x%016x\t%s\n", e.Input, e.State, e.Bits, e.Value)
	}
	return tw.Flush()
}

// zstdMagic starts every zstd frame. A CBOR dump starts with an array
// header, so the two never collide.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// readCBOR decodes a dump written by writeCBOR, compressed or not.
func readCBOR(data []byte) ([]entry, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		var err error
		data, err = zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("stuffbox: zstd decompression failed: %w", err)
		}
	}
	return unmarshalEntries(data)
}

func writeCBOR(w io.Writer, entries []entry, compress bool) error {
	data, err := marshalEntries(entries)
	if err != nil {
		return err
	}
	if compress {
		data = zstdEncoder.EncodeAll(data, nil)
	}
	_, err = w.Write(data)
	return err
}
