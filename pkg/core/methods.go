package core

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression method names accepted by -compressionMethod.
const (
	MethodDeflate = "deflate"
	MethodStore   = "store"
	MethodZstd    = "zstd"
	MethodLZ4     = "lz4"
)

// zipMethodLZ4 has no APPNOTE assignment. Archives using it can only be
// extracted by this tool.
const zipMethodLZ4 uint16 = 0x4c34

// Methods lists the supported compression method names.
var Methods = []string{MethodDeflate, MethodStore, MethodZstd, MethodLZ4}

var lz4Levels = [...]lz4.CompressionLevel{
	lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
	lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

// ValidMethod reports whether name is a supported compression method.
func ValidMethod(name string) bool {
	for _, m := range Methods {
		if m == name {
			return true
		}
	}
	return false
}

// entryMethod returns the zip method id for name and registers its
// compressor, configured for level, on zw.
func entryMethod(zw *zip.Writer, name string, level int) (uint16, error) {
	switch name {
	case MethodDeflate, "":
		zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, level)
		})
		return zip.Deflate, nil
	case MethodStore:
		return zip.Store, nil
	case MethodZstd:
		encLevel := zstd.SpeedDefault
		if level >= 0 {
			encLevel = zstd.EncoderLevelFromZstd(level)
		}
		zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor(zstd.WithEncoderLevel(encLevel)))
		return zstd.ZipMethodWinZip, nil
	case MethodLZ4:
		lvl := lz4.Fast
		if level >= 0 && level < len(lz4Levels) {
			lvl = lz4Levels[level]
		}
		zw.RegisterCompressor(zipMethodLZ4, func(w io.Writer) (io.WriteCloser, error) {
			lw := lz4.NewWriter(w)
			if err := lw.Apply(lz4.CompressionLevelOption(lvl)); err != nil {
				return nil, fmt.Errorf("configure lz4 writer: %w", err)
			}
			return lw, nil
		})
		return zipMethodLZ4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
}

// registerDecompressors makes every method this tool can write readable by zr.
func registerDecompressors(zr *zip.Reader) {
	zr.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	zr.RegisterDecompressor(zstd.ZipMethodPKWare, zstd.ZipDecompressor())
	zr.RegisterDecompressor(zipMethodLZ4, newLZ4Reader)
}

func newLZ4Reader(r io.Reader) io.ReadCloser {
	return io.NopCloser(lz4.NewReader(r))
}
