// Command shortyuv runs residual round trips over raw planar YUV frames.
//
// Usage:
//
//	shortyuv roundtrip [options] <source.yuv>   residual + reconstruction per CTU
//	shortyuv info <residual.syuv>               describe a residual snapshot
package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"

	"github.com/deepteams/shortyuv"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "roundtrip":
		err = runRoundTrip(os.Args[2:], os.Stdout)
	case "info":
		err = runInfo(os.Args[2:], os.Stdout)
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "shortyuv: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "shortyuv: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  shortyuv roundtrip [options] <source.yuv>   Subtract, reconstruct and verify every CTU
  shortyuv info <residual.syuv>               Describe a residual snapshot

Samples are 8-bit for -depth 8 and 16-bit little endian above that.

Run "shortyuv <command> -h" for command-specific options.
`)
}

// --- roundtrip ---

type roundTripConfig struct {
	width, height int
	csp           shortyuv.ColorSpace
	depth         int
	unit          int
	src, pred     string
	out           string
	workers       int
	kernels       string
}

// stats accumulates per-CTU results.
type stats struct {
	ctus     int
	units    int
	energy   uint64
	mismatch int
	minRes   int
	maxRes   int
}

func (s *stats) merge(o stats) {
	s.ctus += o.ctus
	s.units += o.units
	s.energy += o.energy
	s.mismatch += o.mismatch
	s.minRes = min(s.minRes, o.minRes)
	s.maxRes = max(s.maxRes, o.maxRes)
}

func newStats() stats {
	return stats{minRes: math.MaxInt, maxRes: math.MinInt}
}

func runRoundTrip(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("roundtrip", flag.ContinueOnError)
	width := fs.Int("w", 0, "luma width in samples")
	height := fs.Int("h", 0, "luma height in samples")
	cspName := fs.String("csp", "420", "chroma layout: 400/420/422/444")
	depth := fs.Int("depth", 8, "sample bit depth 1-15")
	unit := fs.Int("u", 8, "transform unit size: 4/8/16/32/64")
	pred := fs.String("pred", "", "prediction frame (default: flat mid-level prediction)")
	output := fs.String("o", "", "write the residual frame snapshot to this path")
	workers := fs.Int("j", 0, "worker count (0=GOMAXPROCS)")
	kernels := fs.String("kernels", "default", "kernel set: default/scalar/hwy")
	verbose := fs.Bool("v", false, "log diagnostics to stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("roundtrip: missing source file\nUsage: shortyuv roundtrip [options] <source.yuv>")
	}
	if *verbose {
		shortyuv.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer shortyuv.SetLogger(nil)
	}

	csp, err := shortyuv.ParseColorSpace(*cspName)
	if err != nil {
		return fmt.Errorf("roundtrip: %w", err)
	}
	cfg := roundTripConfig{
		width: *width, height: *height, csp: csp, depth: *depth, unit: *unit,
		src: fs.Arg(0), pred: *pred, out: *output, workers: *workers, kernels: *kernels,
	}
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("roundtrip: %w", err)
	}

	if cfg.depth <= 8 {
		return roundTrip[uint8](cfg, stdout)
	}
	return roundTrip[uint16](cfg, stdout)
}

func (c *roundTripConfig) validate() error {
	if c.width <= 0 || c.height <= 0 {
		return fmt.Errorf("frame size %dx%d: set -w and -h", c.width, c.height)
	}
	if _, ok := shortyuv.PartitionFromSizes(c.unit, c.unit); !ok {
		return fmt.Errorf("unit size %d not supported", c.unit)
	}
	if c.width%c.unit != 0 || c.height%c.unit != 0 {
		return fmt.Errorf("frame size %dx%d is not a multiple of unit size %d", c.width, c.height, c.unit)
	}
	if c.depth < 1 || c.depth > 15 {
		return fmt.Errorf("bit depth %d outside 1-15", c.depth)
	}
	return nil
}

func roundTrip[P shortyuv.Pel](cfg roundTripConfig, stdout io.Writer) error {
	var newKernels func(int) (shortyuv.Kernels[P], error)
	switch cfg.kernels {
	case "default":
		newKernels = shortyuv.NewKernels[P]
	case "scalar":
		newKernels = shortyuv.NewScalarKernels[P]
	case "hwy":
		newKernels = shortyuv.NewHighwayKernels[P]
	default:
		return fmt.Errorf("roundtrip: unknown kernel set %q (use default/scalar/hwy)", cfg.kernels)
	}
	k, err := newKernels(cfg.depth)
	if err != nil {
		return err
	}

	src, err := loadFrame[P](cfg.src, cfg.width, cfg.height, cfg.csp)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	var pred *shortyuv.PixelYUV[P]
	if cfg.pred != "" {
		if pred, err = loadFrame[P](cfg.pred, cfg.width, cfg.height, cfg.csp); err != nil {
			return fmt.Errorf("prediction: %w", err)
		}
	} else if pred, err = flatFrame[P](cfg.width, cfg.height, cfg.csp, cfg.depth); err != nil {
		return err
	}

	residual := shortyuv.New(k)
	if err := residual.Create(cfg.width, cfg.height, cfg.csp); err != nil {
		return err
	}
	defer residual.Destroy()

	ctusX := (cfg.width + shortyuv.MaxCUSize - 1) / shortyuv.MaxCUSize
	ctusY := (cfg.height + shortyuv.MaxCUSize - 1) / shortyuv.MaxCUSize

	wp := workerpool.New(cfg.workers)
	defer wp.Close()

	var (
		mu       sync.Mutex
		total    = newStats()
		firstErr error
	)
	start := time.Now()
	wp.ParallelFor(ctusX*ctusY, func(lo, hi int) {
		w, err := newCTUWorker(k, cfg.csp)
		if err != nil {
			mu.Lock()
			firstErr = cmpErr(firstErr, err)
			mu.Unlock()
			return
		}
		defer w.destroy()

		st := newStats()
		for i := lo; i < hi; i++ {
			x, y := (i%ctusX)*shortyuv.MaxCUSize, (i/ctusX)*shortyuv.MaxCUSize
			if err = w.process(src, pred, residual, x, y, cfg.unit, &st); err != nil {
				err = fmt.Errorf("CTU at (%d,%d): %w", x, y, err)
				break
			}
		}
		mu.Lock()
		total.merge(st)
		firstErr = cmpErr(firstErr, err)
		mu.Unlock()
	})
	if firstErr != nil {
		return firstErr
	}
	elapsed := time.Since(start)

	if cfg.out != "" {
		if err := writeSnapshot(cfg.out, residual); err != nil {
			return err
		}
	}

	samples := cfg.width*cfg.height + 2*residual.ChromaWidth()*residual.ChromaHeight()
	fmt.Fprintf(stdout, "kernels:   %s (%d-bit)\n", k.Name(), k.BitDepth())
	fmt.Fprintf(stdout, "frame:     %dx%d %v, %d CTUs, %d units of %dx%d\n",
		cfg.width, cfg.height, cfg.csp, total.ctus, total.units, cfg.unit, cfg.unit)
	fmt.Fprintf(stdout, "residual:  min %d, max %d, mean energy %.3f\n",
		total.minRes, total.maxRes, float64(total.energy)/float64(samples))
	fmt.Fprintf(stdout, "mismatch:  %d samples\n", total.mismatch)
	fmt.Fprintf(stdout, "time:      %v\n", elapsed.Round(time.Microsecond))
	if total.mismatch > 0 {
		return fmt.Errorf("roundtrip: %d reconstructed samples differ from the source", total.mismatch)
	}
	return nil
}

func cmpErr(first, err error) error {
	if first != nil {
		return first
	}
	return err
}

func planes(csp shortyuv.ColorSpace) []shortyuv.Component {
	if csp.HasChroma() {
		return []shortyuv.Component{shortyuv.Luma, shortyuv.Cb, shortyuv.Cr}
	}
	return []shortyuv.Component{shortyuv.Luma}
}

// ctuWorker owns one set of CTU-sized buffers.
type ctuWorker[P shortyuv.Pel] struct {
	csp       shortyuv.ColorSpace
	src, pred *shortyuv.PixelYUV[P]
	recon     *shortyuv.PixelYUV[P]
	res       *shortyuv.ShortYUV[P]
	predWide  *shortyuv.ShortYUV[P]
	sum       *shortyuv.ShortYUV[P]
}

func newCTUWorker[P shortyuv.Pel](k shortyuv.Kernels[P], csp shortyuv.ColorSpace) (*ctuWorker[P], error) {
	w := &ctuWorker[P]{csp: csp}
	var err error
	for _, p := range []**shortyuv.PixelYUV[P]{&w.src, &w.pred, &w.recon} {
		if *p, err = shortyuv.NewPixelYUV[P](shortyuv.MaxCUSize, shortyuv.MaxCUSize, csp); err != nil {
			return nil, err
		}
	}
	for _, s := range []**shortyuv.ShortYUV[P]{&w.res, &w.predWide, &w.sum} {
		*s = shortyuv.New(k)
		if err = (*s).Create(shortyuv.MaxCUSize, shortyuv.MaxCUSize, csp); err != nil {
			w.destroy()
			return nil, err
		}
	}
	return w, nil
}

func (w *ctuWorker[P]) destroy() {
	for _, s := range []*shortyuv.ShortYUV[P]{w.res, w.predWide, w.sum} {
		if s != nil {
			s.Destroy()
		}
	}
}

// process runs the residual round trip on the CTU whose top-left luma
// sample is (x, y) and stores its residual into frameRes.
func (w *ctuWorker[P]) process(src, pred *shortyuv.PixelYUV[P], frameRes *shortyuv.ShortYUV[P], x, y, unit int, st *stats) error {
	cw := min(shortyuv.MaxCUSize, src.Width()-x)
	ch := min(shortyuv.MaxCUSize, src.Height()-y)
	hs, vs := frameRes.HShift(), frameRes.VShift()

	for _, c := range planes(w.csp) {
		px, py, pw, ph := x, y, cw, ch
		if c != shortyuv.Luma {
			px, py, pw, ph = x>>hs, y>>vs, cw>>hs, ch>>vs
		}
		if err := w.src.CopyBlock(c, 0, 0, src, px, py, pw, ph); err != nil {
			return err
		}
		if err := w.pred.CopyBlock(c, 0, 0, pred, px, py, pw, ph); err != nil {
			return err
		}
	}

	perRow := shortyuv.MaxCUSize / unit
	for u := 0; u < perRow*perRow; u++ {
		if (u%perRow)*unit >= cw || (u/perRow)*unit >= ch {
			continue
		}
		if err := w.res.Subtract(w.src, w.pred, u, unit); err != nil {
			return err
		}
		if err := w.predWide.LoadPixels(w.pred, u, unit); err != nil {
			return err
		}
		if err := w.sum.AddClip(w.res, w.predWide, u, unit); err != nil {
			return err
		}
		st.units++
	}
	if err := w.sum.CopyPartToPartYuv(w.recon, 0, cw, ch); err != nil {
		return err
	}

	for _, c := range planes(w.csp) {
		pw, ph, px, py := cw, ch, x, y
		if c != shortyuv.Luma {
			pw, ph, px, py = cw>>hs, ch>>vs, x>>hs, y>>vs
		}
		if err := w.compare(c, pw, ph, st); err != nil {
			return err
		}
		if err := exportResidual(frameRes, w.res, c, px, py, pw, ph, st); err != nil {
			return err
		}
	}
	st.ctus++
	return nil
}

func (w *ctuWorker[P]) compare(c shortyuv.Component, pw, ph int, st *stats) error {
	got, gs, err := w.recon.Plane(c)
	if err != nil {
		return err
	}
	want, ws, err := w.src.Plane(c)
	if err != nil {
		return err
	}
	for j := 0; j < ph; j++ {
		g, s := got[j*gs:j*gs+pw], want[j*ws:j*ws+pw]
		for i := range g {
			if g[i] != s[i] {
				st.mismatch++
			}
		}
	}
	return nil
}

// exportResidual copies a pw x ph CTU residual block of plane c to (px, py)
// of the frame residual. CTUs never overlap, so workers write disjoint rows.
func exportResidual[P shortyuv.Pel](frame, ctu *shortyuv.ShortYUV[P], c shortyuv.Component, px, py, pw, ph int, st *stats) error {
	dst, ds, err := frame.Plane(c)
	if err != nil {
		return err
	}
	src, ss, err := ctu.Plane(c)
	if err != nil {
		return err
	}
	for j := 0; j < ph; j++ {
		row := src[j*ss : j*ss+pw]
		copy(dst[(py+j)*ds+px:], row)
		for _, v := range row {
			st.energy += uint64(int(v) * int(v))
			st.minRes = min(st.minRes, int(v))
			st.maxRes = max(st.maxRes, int(v))
		}
	}
	return nil
}

// loadFrame reads one planar frame: Y, then Cb and Cr.
func loadFrame[P shortyuv.Pel](path string, width, height int, csp shortyuv.ColorSpace) (*shortyuv.PixelYUV[P], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pic, err := shortyuv.NewPixelYUV[P](width, height, csp)
	if err != nil {
		return nil, err
	}
	r := bufio.NewReader(f)
	for _, c := range planes(csp) {
		buf, _, err := pic.Plane(c)
		if err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%s: short frame reading %v plane", path, c)
			}
			return nil, err
		}
	}
	return pic, nil
}

// flatFrame is the DC prediction used when no prediction file is given.
func flatFrame[P shortyuv.Pel](width, height int, csp shortyuv.ColorSpace, depth int) (*shortyuv.PixelYUV[P], error) {
	pic, err := shortyuv.NewPixelYUV[P](width, height, csp)
	if err != nil {
		return nil, err
	}
	mid := P(1) << (depth - 1)
	for _, c := range planes(csp) {
		if err := pic.Fill(c, mid); err != nil {
			return nil, err
		}
	}
	return pic, nil
}

func writeSnapshot[P shortyuv.Pel](path string, s *shortyuv.ShortYUV[P]) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(out)
	if _, err := s.WriteTo(bw); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}

// --- info ---

func runInfo(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("info: missing input file\nUsage: shortyuv info <residual.syuv>")
	}
	path := fs.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	k, err := shortyuv.NewScalarKernels[uint16](15)
	if err != nil {
		return err
	}
	s := shortyuv.New(k)
	n, err := s.ReadFrom(bufio.NewReader(f))
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	defer s.Destroy()

	fmt.Fprintf(stdout, "File:       %s (%d bytes)\n", path, n)
	fmt.Fprintf(stdout, "Luma:       %dx%d\n", s.Width(), s.Height())
	fmt.Fprintf(stdout, "Chroma:     %dx%d (%v)\n", s.ChromaWidth(), s.ChromaHeight(), s.ColorSpace())
	for _, c := range planes(s.ColorSpace()) {
		buf, _, err := s.Plane(c)
		if err != nil {
			return err
		}
		lo, hi, nz := math.MaxInt, math.MinInt, 0
		for _, v := range buf {
			lo, hi = min(lo, int(v)), max(hi, int(v))
			if v != 0 {
				nz++
			}
		}
		fmt.Fprintf(stdout, "%-11s min %d, max %d, nonzero %d/%d\n", c.String()+":", lo, hi, nz, len(buf))
	}
	return nil
}
