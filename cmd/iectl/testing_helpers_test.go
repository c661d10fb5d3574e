package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/iekit/internal/testfix"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String(), fnErr
}

// resetFlags restores every global flag to its default.
func resetFlags() {
	verbose, quiet, jsonOut, tolerant = false, false, false, false
	profilePath, engineName, overrideDir, tlkPath = "", "", "", ""
	dumpPath, dumpDepth, dumpNodeOnly, dumpNoFields, dumpKinds, dumpMaxBytes = "", 0, false, false, false, 32
	addIndex, addFrom, addOutput = -1, "", ""
	removeOutput, sortOutput, extractOutput = "", "", ""
	indexWorkers, indexLookup = 0, ""
	inflateSize = -1
}

func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func decodeJSON(t *testing.T, output string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(output), v), "output: %s", output)
}

// splBytes is a spell with two 40-byte abilities at 0x72 and three 48-byte
// effects at 0xC2: ability 0 owns effect 1, ability 1 owns effect 2, and
// effect 0 is global.
func splBytes() []byte {
	w := testfix.New(0xC2+3*48).Tag(0, "SPL ", "V1  ")
	w.U32(0x08, 0xFFFFFFFF).U32(0x34, 3)
	w.U32(0x64, 0x72).U16(0x68, 2).U32(0x6A, 0xC2).U16(0x6E, 0).U16(0x70, 1)
	for i := 0; i < 2; i++ {
		ab := 0x72 + i*40
		w.U8(ab, 1).U16(ab+2, 4).Text(ab+4, 8, "SPWI112B")
		w.U16(ab+30, 1).U16(ab+32, uint16(1+i)).U16(ab+38, 2)
	}
	for i := 0; i < 3; i++ {
		w.U16(0xC2+i*48, uint16(12+i)).U8(0xC2+i*48+2, 2)
	}
	return w.Bytes()
}

const (
	creHeader = 0x2D4
	slotsSize = 80
)

// creBytes is a CRE V1.0 with no sections besides the item slots.
func creBytes(script string) []byte {
	w := testfix.New(creHeader+slotsSize).Tag(0, "CRE ", "V1.0").
		U32(0x08, 0xFFFFFFFF).U32(0x0C, 0xFFFFFFFF).
		Text(0x280, 32, script)
	for _, off := range []int{0x2A0, 0x2A8, 0x2B0, 0x2B8, 0x2BC, 0x2C4} {
		w.U32(off, creHeader)
	}
	w.Fill(creHeader, slotsSize-6, 0xFF)
	return w.Bytes()
}

// chrBytes wraps a creature in a CHR V1.0 envelope.
func chrBytes(script string) []byte {
	cre := creBytes(script)
	return testfix.New(0x64).Tag(0, "CHR ", "V1.0").Text(0x08, 32, "Imoen").
		U32(0x28, 0x64).U32(0x2C, uint32(len(cre))).
		Put(0x64, cre).Bytes()
}

// stoBytes is a store with three items for sale in unsorted order.
func stoBytes() []byte {
	w := testfix.New(0x9C+3*28).Tag(0, "STOR", "V1.0")
	w.U32(0x08, 2).U32(0x0C, 0xFFFFFFFF)
	w.U32(0x2C, 0x9C)
	w.U32(0x34, 0x9C).U32(0x38, 3)
	w.U32(0x4C, 0xF0)
	w.U32(0x70, 0xF0)
	for i, name := range []string{"SW1H02", "AROW01", "POTN08"} {
		w.Text(0x9C+i*28, 8, name)
	}
	return w.Bytes()
}

// tlkBytes is a TLK V1 with two entries.
func tlkBytes() []byte {
	const base = 0x12 + 2*26
	w := testfix.New(base).Tag(0, "TLK ", "V1  ").U32(0x0A, 2).U32(0x0E, base)
	w.U16(0x12, 1).U32(0x12+0x12, 0).U32(0x12+0x16, 5)
	w.U16(0x2C, 3).Text(0x2E, 8, "IMOEN01").U32(0x2C+0x12, 5).U32(0x2C+0x16, 3)
	w.Put(base, []byte("ImoenHey"))
	return w.Bytes()
}
