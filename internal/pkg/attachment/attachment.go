package attachment

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
)

// MaxFileSize bounds a single attachment read from an upload.
const MaxFileSize = 20 << 20

// File is an attachment sent along with an entity payload.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Read loads an attachment from r, sniffing the content type when the
// caller did not provide one.
func Read(field, name, contentType string, r io.Reader) (File, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return File{}, fmt.Errorf("read attachment %s: %w", name, err)
	}
	if len(data) > MaxFileSize {
		return File{}, fmt.Errorf("attachment %s exceeds %d bytes", name, MaxFileSize)
	}
	f := File{Field: field, Name: filepath.Base(name), ContentType: contentType, Data: data}
	if f.ContentType == "" || f.ContentType == "application/octet-stream" {
		f.ContentType = http.DetectContentType(data)
	}
	return f, nil
}

// IsImage reports whether the attachment is an image imaging can decode.
func (f File) IsImage() bool {
	_, ok := f.format()
	return ok
}

func (f File) format() (imaging.Format, bool) {
	if format, err := imaging.FormatFromFilename(f.Name); err == nil {
		return format, true
	}
	mediaType, _, err := mime.ParseMediaType(f.ContentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return 0, false
	}
	format, err := imaging.FormatFromExtension(strings.TrimPrefix(mediaType, "image/"))
	if err != nil {
		return 0, false
	}
	return format, true
}

// PrepareImage downscales an image so neither side exceeds maxDimension,
// applying EXIF orientation first. JPEGs carrying EXIF data are re-encoded
// even within bounds so the orientation is baked into the pixels. Non-images,
// other images already within bounds and maxDimension <= 0 leave the file
// untouched.
func PrepareImage(f File, maxDimension int) (File, error) {
	if maxDimension <= 0 {
		return f, nil
	}
	format, ok := f.format()
	if !ok {
		return f, nil
	}

	img, err := imaging.Decode(bytes.NewReader(f.Data), imaging.AutoOrientation(true))
	if err != nil {
		return f, fmt.Errorf("decode image %s: %w", f.Name, err)
	}
	resize := exceeds(img.Bounds(), maxDimension)
	orient := format == imaging.JPEG && hasEXIF(f.Data)
	if !resize && !orient {
		return f, nil
	}

	prepared := img
	if resize {
		prepared = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, prepared, format); err != nil {
		return f, fmt.Errorf("encode image %s: %w", f.Name, err)
	}
	log.Debugf("[Attachment] %s prepared from %dx%d to %dx%d",
		f.Name, img.Bounds().Dx(), img.Bounds().Dy(), prepared.Bounds().Dx(), prepared.Bounds().Dy())

	out := f
	out.Data = buf.Bytes()
	if out.ContentType == "" {
		out.ContentType = http.DetectContentType(out.Data)
	}
	return out, nil
}

// exifScanLimit bounds the search for the APP1 header, which sits among the
// leading JPEG segments.
const exifScanLimit = 64 << 10

var exifHeader = []byte("Exif\x00\x00")

func hasEXIF(data []byte) bool {
	if len(data) > exifScanLimit {
		data = data[:exifScanLimit]
	}
	return bytes.Contains(data, exifHeader)
}

func exceeds(b image.Rectangle, limit int) bool {
	return b.Dx() > limit || b.Dy() > limit
}
