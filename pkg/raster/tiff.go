package raster

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"math"
)

// Density is the print resolution stored with an encoded raster.
type Density struct {
	X, Y int
}

// String formats d the way the density property stores it.
func (d Density) String() string {
	return fmt.Sprintf("%dx%d", d.X, d.Y)
}

// ParseDensity parses "<x>x<y>".
func ParseDensity(s string) (Density, error) {
	var d Density
	if _, err := fmt.Sscanf(s, "%dx%d", &d.X, &d.Y); err != nil {
		return Density{}, fmt.Errorf("parse density %q: %w", s, err)
	}
	if d.X <= 0 || d.Y <= 0 {
		return Density{}, fmt.Errorf("density %q must be positive", s)
	}
	return d, nil
}

// TIFF tags written by EncodeCMYKTIFF, in ascending order.
const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagPhotometric     = 262
	tagStripOffsets    = 273
	tagSamplesPerPixel = 277
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagXResolution     = 282
	tagYResolution     = 283
	tagPlanarConfig    = 284
	tagResolutionUnit  = 296
	tagInkSet          = 332
)

const (
	dtShort    = 3
	dtLong     = 4
	dtRational = 5

	photometricSeparated = 5
	inkSetCMYK           = 1
	resolutionUnitInch   = 2
	compressionNone      = 1
	planarContig         = 1
)

type ifdEntry struct {
	tag, typ uint16
	count    uint32
	value    uint32 // inline value or offset to external data
}

// EncodeCMYKTIFF writes img as an uncompressed, single-strip, 8-bit CMYK
// baseline TIFF. A zero density omits the resolution tags.
func EncodeCMYKTIFF(w io.Writer, img *image.CMYK, density Density) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("empty image")
	}
	dataLen := uint64(width) * uint64(height) * 4
	if dataLen > math.MaxUint32/2 {
		return fmt.Errorf("image %dx%d too large for baseline tiff", width, height)
	}
	withRes := density.X > 0 && density.Y > 0

	numEntries := 11
	if withRes {
		numEntries += 3
	}
	const headerLen = 8
	ifdLen := uint32(2 + numEntries*12 + 4)
	bpsOffset := headerLen + ifdLen
	xResOffset := bpsOffset + 8
	yResOffset := xResOffset + 8
	dataOffset := bpsOffset + 8
	if withRes {
		dataOffset = yResOffset + 8
	}

	entries := []ifdEntry{
		{tagImageWidth, dtLong, 1, uint32(width)},
		{tagImageLength, dtLong, 1, uint32(height)},
		{tagBitsPerSample, dtShort, 4, bpsOffset},
		{tagCompression, dtShort, 1, compressionNone},
		{tagPhotometric, dtShort, 1, photometricSeparated},
		{tagStripOffsets, dtLong, 1, dataOffset},
		{tagSamplesPerPixel, dtShort, 1, 4},
		{tagRowsPerStrip, dtLong, 1, uint32(height)},
		{tagStripByteCounts, dtLong, 1, uint32(dataLen)},
	}
	if withRes {
		entries = append(entries,
			ifdEntry{tagXResolution, dtRational, 1, xResOffset},
			ifdEntry{tagYResolution, dtRational, 1, yResOffset},
		)
	}
	entries = append(entries, ifdEntry{tagPlanarConfig, dtShort, 1, planarContig})
	if withRes {
		entries = append(entries, ifdEntry{tagResolutionUnit, dtShort, 1, resolutionUnitInch})
	}
	entries = append(entries, ifdEntry{tagInkSet, dtShort, 1, inkSetCMYK})

	bw := bufio.NewWriter(w)
	le := binary.LittleEndian

	header := []byte{'I', 'I', 42, 0, 0, 0, 0, 0}
	le.PutUint32(header[4:], headerLen)
	bw.Write(header)

	var buf [12]byte
	le.PutUint16(buf[:2], uint16(len(entries)))
	bw.Write(buf[:2])
	for _, e := range entries {
		le.PutUint16(buf[0:], e.tag)
		le.PutUint16(buf[2:], e.typ)
		le.PutUint32(buf[4:], e.count)
		// SHORT values are left-justified in the 4-byte field.
		if e.typ == dtShort && e.count == 1 {
			le.PutUint16(buf[8:], uint16(e.value))
			le.PutUint16(buf[10:], 0)
		} else {
			le.PutUint32(buf[8:], e.value)
		}
		bw.Write(buf[:])
	}
	le.PutUint32(buf[:4], 0) // no next IFD
	bw.Write(buf[:4])

	for i := 0; i < 4; i++ {
		le.PutUint16(buf[:2], 8)
		bw.Write(buf[:2])
	}
	if withRes {
		for _, v := range []int{density.X, density.Y} {
			le.PutUint32(buf[0:], uint32(v))
			le.PutUint32(buf[4:], 1)
			bw.Write(buf[:8])
		}
	}

	for y := 0; y < height; y++ {
		start := img.PixOffset(b.Min.X, b.Min.Y+y)
		if _, err := bw.Write(img.Pix[start : start+width*4]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
