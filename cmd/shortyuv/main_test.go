package main

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// writeRawFrame writes a random planar frame and returns its path.
func writeRawFrame(t *testing.T, dir, name string, width, height, cw, ch, depth int, seed int64) string {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	n := width*height + 2*cw*ch
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		v := rng.Intn(1 << depth)
		if depth <= 8 {
			buf.WriteByte(byte(v))
		} else {
			binary.Write(&buf, binary.LittleEndian, uint16(v))
		}
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRoundTripAndInfo(t *testing.T) {
	tests := []struct {
		name          string
		csp           string
		width, height int
		cw, ch        int
		depth, unit   int
	}{
		{"420_8bit", "420", 96, 80, 48, 40, 8, 8},
		{"422_10bit", "422", 64, 64, 32, 64, 10, 16},
		{"444_8bit", "444", 72, 40, 72, 40, 8, 4},
		{"400_12bit", "400", 128, 64, 0, 0, 12, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeRawFrame(t, dir, "src.yuv", tt.width, tt.height, tt.cw, tt.ch, tt.depth, 1)
			pred := writeRawFrame(t, dir, "pred.yuv", tt.width, tt.height, tt.cw, tt.ch, tt.depth, 2)
			snap := filepath.Join(dir, "res.syuv")

			var out bytes.Buffer
			args := []string{
				"-w", strconv.Itoa(tt.width), "-h", strconv.Itoa(tt.height), "-csp", tt.csp,
				"-depth", strconv.Itoa(tt.depth), "-u", strconv.Itoa(tt.unit), "-j", "3",
				"-pred", pred, "-o", snap, src,
			}
			if err := runRoundTrip(args, &out); err != nil {
				t.Fatalf("roundtrip: %v\n%s", err, out.String())
			}
			if !strings.Contains(out.String(), "mismatch:  0 samples") {
				t.Errorf("roundtrip output:\n%s", out.String())
			}

			out.Reset()
			if err := runInfo([]string{snap}, &out); err != nil {
				t.Fatalf("info: %v", err)
			}
			want := "Luma:       " + strconv.Itoa(tt.width) + "x" + strconv.Itoa(tt.height)
			if !strings.Contains(out.String(), want) {
				t.Errorf("info output missing %q:\n%s", want, out.String())
			}
		})
	}
}

func TestRoundTripFlatPrediction(t *testing.T) {
	dir := t.TempDir()
	src := writeRawFrame(t, dir, "src.yuv", 64, 64, 32, 32, 8, 3)
	var out bytes.Buffer
	if err := runRoundTrip([]string{"-w", "64", "-h", "64", "-kernels", "scalar", src}, &out); err != nil {
		t.Fatalf("roundtrip: %v", err)
	}
	if !strings.Contains(out.String(), "kernels:   scalar") {
		t.Errorf("expected scalar kernels:\n%s", out.String())
	}

	out.Reset()
	if err := runRoundTrip([]string{"-w", "64", "-h", "64", "-kernels", "hwy", src}, &out); err != nil {
		t.Fatalf("roundtrip with highway kernels: %v", err)
	}
	if !strings.Contains(out.String(), "kernels:   hwy-") || !strings.Contains(out.String(), "mismatch:  0 samples") {
		t.Errorf("highway run output:\n%s", out.String())
	}
}

func TestRoundTripErrors(t *testing.T) {
	dir := t.TempDir()
	short := filepath.Join(dir, "short.yuv")
	if err := os.WriteFile(short, make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing input", []string{"-w", "64", "-h", "64"}, "missing source"},
		{"no size", []string{short}, "set -w and -h"},
		{"bad csp", []string{"-w", "64", "-h", "64", "-csp", "411", short}, "color space"},
		{"bad unit", []string{"-w", "64", "-h", "64", "-u", "12", short}, "unit size"},
		{"unaligned", []string{"-w", "60", "-h", "64", short}, "multiple"},
		{"bad kernels", []string{"-w", "64", "-h", "64", "-kernels", "avx9", short}, "kernel set"},
		{"bad depth", []string{"-w", "64", "-h", "64", "-depth", "16", short}, "bit depth"},
		{"short frame", []string{"-w", "64", "-h", "64", short}, "short frame"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runRoundTrip(tt.args, &bytes.Buffer{})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestInfoRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.syuv")
	if err := os.WriteFile(path, []byte("not a snapshot at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runInfo([]string{path}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for corrupt snapshot")
	}
}
