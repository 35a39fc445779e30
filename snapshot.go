package shortyuv

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/deepteams/shortyuv/internal/pool"
)

// Snapshot layout, little endian:
//
//	magic   [4]byte "SYUV"
//	version uint16
//	csp     uint16
//	width   uint32
//	height  uint32
//	size    uint32  compressed payload bytes
//	payload zstd frame of the Y, Cb and Cr planes as int16 samples
const (
	snapshotMagic   = "SYUV"
	snapshotVersion = 1

	// maxSnapshotBytes bounds the raw plane payload of a snapshot.
	maxSnapshotBytes = pool.MaxSamples * 2
)

type snapshotHeader struct {
	Magic   [4]byte
	Version uint16
	CSP     uint16
	Width   uint32
	Height  uint32
	Size    uint32
}

var zstdEncPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderConcurrency(1),
			zstd.WithLowerEncoderMem(true),
		)
		if err != nil {
			panic(err)
		}
		return enc
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(true),
			zstd.WithDecoderMaxMemory(maxSnapshotBytes),
		)
		if err != nil {
			panic(err)
		}
		return dec
	},
}

// countWriter tracks bytes written for io.WriterTo.
type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// countReader tracks bytes read for io.ReaderFrom.
type countReader struct {
	r io.Reader
	n int64
}

func (c *countReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// rawSize returns the uncompressed payload size for layout g.
func rawSize(g geometry) int {
	return 2 * (g.width*g.height + 2*g.cwidth*g.cheight)
}

// WriteTo writes a compressed snapshot of all planes to w.
func (s *ShortYUV[P]) WriteTo(w io.Writer) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	raw := make([]byte, 0, rawSize(s.geom))
	for _, c := range s.geom.components() {
		if len(s.planes[c].buf) == 0 {
			continue
		}
		var err error
		raw, err = binary.Append(raw, binary.LittleEndian, s.planes[c].buf)
		if err != nil {
			return 0, err
		}
	}
	enc := zstdEncPool.Get().(*zstd.Encoder)
	payload := enc.EncodeAll(raw, nil)
	zstdEncPool.Put(enc)

	h := snapshotHeader{
		Version: snapshotVersion,
		CSP:     uint16(s.geom.csp),
		Width:   uint32(s.geom.width),
		Height:  uint32(s.geom.height),
		Size:    uint32(len(payload)),
	}
	copy(h.Magic[:], snapshotMagic)

	cw := &countWriter{w: w}
	if err := binary.Write(cw, binary.LittleEndian, &h); err != nil {
		return cw.n, err
	}
	if _, err := cw.Write(payload); err != nil {
		return cw.n, err
	}
	slogger().Debug("shortyuv: snapshot written",
		"width", s.geom.width, "height", s.geom.height, "csp", s.geom.csp,
		"raw", len(raw), "compressed", len(payload))
	return cw.n, nil
}

// ReadFrom replaces the buffer with a snapshot read from r, re-creating it
// with the stored geometry. The snapshot is decoded into new planes that
// replace the old ones only on success; on any error the buffer is left
// as it was.
func (s *ShortYUV[P]) ReadFrom(r io.Reader) (int64, error) {
	cr := &countReader{r: r}
	var h snapshotHeader
	if err := binary.Read(cr, binary.LittleEndian, &h); err != nil {
		return cr.n, fmt.Errorf("%w: header: %w", ErrCorruptSnapshot, err)
	}
	if string(h.Magic[:]) != snapshotMagic {
		return cr.n, fmt.Errorf("%w: bad magic %q", ErrCorruptSnapshot, h.Magic[:])
	}
	if h.Version != snapshotVersion {
		return cr.n, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, h.Version)
	}
	if h.Width == 0 || h.Height == 0 || h.Width > pool.MaxSamples || h.Height > pool.MaxSamples ||
		uint64(h.Width)*uint64(h.Height) > pool.MaxSamples {
		return cr.n, fmt.Errorf("%w: %dx%d picture", ErrCorruptSnapshot, h.Width, h.Height)
	}
	g, err := newGeometry(int(h.Width), int(h.Height), ColorSpace(h.CSP))
	if err != nil {
		return cr.n, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	want := rawSize(g)
	if int64(h.Size) > int64(want)+int64(want>>7)+1<<16 {
		return cr.n, fmt.Errorf("%w: %d byte payload for %d raw bytes", ErrCorruptSnapshot, h.Size, want)
	}
	payload := make([]byte, h.Size)
	if _, err := io.ReadFull(cr, payload); err != nil {
		return cr.n, fmt.Errorf("%w: payload: %w", ErrCorruptSnapshot, err)
	}

	dec := zstdDecPool.Get().(*zstd.Decoder)
	raw, err := dec.DecodeAll(payload, make([]byte, 0, want))
	zstdDecPool.Put(dec)
	if err != nil {
		return cr.n, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if len(raw) != want {
		return cr.n, fmt.Errorf("%w: %d plane bytes, want %d", ErrCorruptSnapshot, len(raw), want)
	}

	fresh := &ShortYUV[P]{kernels: s.kernels}
	if err := fresh.Create(g.width, g.height, g.csp); err != nil {
		return cr.n, err
	}
	for _, c := range g.components() {
		buf := fresh.planes[c].buf
		if len(buf) == 0 {
			continue
		}
		n, err := binary.Decode(raw, binary.LittleEndian, buf)
		if err != nil {
			fresh.Destroy()
			return cr.n, fmt.Errorf("%w: %v plane: %w", ErrCorruptSnapshot, c, err)
		}
		raw = raw[n:]
	}
	s.Destroy()
	s.geom, s.planes = fresh.geom, fresh.planes
	slogger().Debug("shortyuv: snapshot read",
		"width", g.width, "height", g.height, "csp", g.csp, "compressed", h.Size)
	return cr.n, nil
}
