// Package format identifies the document and image formats the cerco
// library reads and writes.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a supported document or image format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// Markdown indicates a Markdown preview.
	Markdown
	// JSON indicates a serialized layout plan.
	JSON
	// PNG indicates a PNG image.
	PNG
	// JPEG indicates a JPEG image.
	JPEG
	// GIF indicates a GIF image.
	GIF
	// BMP indicates a Windows bitmap.
	BMP
	// TIFF indicates a TIFF image.
	TIFF
	// WebP indicates a WebP image.
	WebP
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case Markdown:
		return "Markdown"
	case JSON:
		return "JSON"
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case GIF:
		return "GIF"
	case BMP:
		return "BMP"
	case TIFF:
		return "TIFF"
	case WebP:
		return "WebP"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case Markdown:
		return ".md"
	case JSON:
		return ".json"
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case GIF:
		return ".gif"
	case BMP:
		return ".bmp"
	case TIFF:
		return ".tiff"
	case WebP:
		return ".webp"
	default:
		return ""
	}
}

// ContentType returns the MIME type used when serving the format over HTTP.
func (f Format) ContentType() string {
	switch f {
	case PDF:
		return "application/pdf"
	case Markdown:
		return "text/markdown; charset=utf-8"
	case JSON:
		return "application/json"
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	case GIF:
		return "image/gif"
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	case WebP:
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// IsImage reports whether the format is a raster image.
func (f Format) IsImage() bool {
	return f >= PNG && f <= WebP
}

// Parse maps an output format name such as "pdf", "md" or "json" to a Format.
func Parse(name string) Format {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "pdf":
		return PDF
	case "md", "markdown":
		return Markdown
	case "json":
		return JSON
	default:
		return Unknown
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return PDF
	case ".md", ".markdown":
		return Markdown
	case ".json":
		return JSON
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	case ".gif":
		return GIF
	case ".bmp":
		return BMP
	case ".tif", ".tiff":
		return TIFF
	case ".webp":
		return WebP
	default:
		return Unknown
	}
}

var (
	magicPDF   = []byte("%PDF")
	magicPNG   = []byte("\x89PNG\r\n\x1a\n")
	magicJPEG  = []byte{0xFF, 0xD8, 0xFF}
	magicGIF87 = []byte("GIF87a")
	magicGIF89 = []byte("GIF89a")
	magicBMP   = []byte("BM")
	magicTIFFI = []byte("II*\x00")
	magicTIFFM = []byte("MM\x00*")
	magicRIFF  = []byte("RIFF")
	magicWEBP  = []byte("WEBP")
)

// DetectFromMagic checks file magic bytes to determine format.
// This provides more reliable detection than extension-based detection.
// Text formats (Markdown, JSON) have no magic and are reported as Unknown.
func DetectFromMagic(data []byte) Format {
	if bytes.HasPrefix(data, magicPDF) {
		return PDF
	}
	return DetectImage(data)
}

// DetectImage sniffs the raster image format from its leading bytes.
// Returns Unknown for anything that is not one of the supported images.
func DetectImage(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, magicPNG):
		return PNG
	case bytes.HasPrefix(data, magicJPEG):
		return JPEG
	case bytes.HasPrefix(data, magicGIF87), bytes.HasPrefix(data, magicGIF89):
		return GIF
	case bytes.HasPrefix(data, magicTIFFI), bytes.HasPrefix(data, magicTIFFM):
		return TIFF
	case len(data) >= 12 && bytes.HasPrefix(data, magicRIFF) && bytes.Equal(data[8:12], magicWEBP):
		return WebP
	// BMP last: "BM" is the shortest signature
	case len(data) >= 14 && bytes.HasPrefix(data, magicBMP):
		return BMP
	default:
		return Unknown
	}
}
