package attachment

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFile(t *testing.T, w, h int) File {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return File{Field: "image", Name: "logo.png", ContentType: "image/png", Data: buf.Bytes()}
}

func TestPrepareImage_Downscales(t *testing.T) {
	f := pngFile(t, 400, 200)

	out, err := PrepareImage(f, 100)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
	assert.Equal(t, "logo.png", out.Name)
	assert.Equal(t, "image/png", out.ContentType)
}

func TestPrepareImage_LeavesSmallImagesAlone(t *testing.T) {
	f := pngFile(t, 40, 20)
	out, err := PrepareImage(f, 100)
	require.NoError(t, err)
	assert.Equal(t, f.Data, out.Data)
}

// jpegFile encodes a w x h JPEG. A non-zero orientation inserts an EXIF APP1
// segment carrying that orientation tag right after the SOI marker.
func jpegFile(t *testing.T, w, h int, orientation byte) File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	data := buf.Bytes()
	if orientation != 0 {
		app1 := []byte{
			0xFF, 0xE1, 0x00, 0x22,
			'E', 'x', 'i', 'f', 0x00, 0x00,
			'M', 'M', 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08,
			0x00, 0x01,
			0x01, 0x12, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, 0x00, orientation, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00,
		}
		data = append(append(append([]byte{}, data[:2]...), app1...), data[2:]...)
	}
	return File{Field: "image", Name: "photo.jpg", ContentType: "image/jpeg", Data: data}
}

func TestPrepareImage_OrientsSmallJPEG(t *testing.T) {
	f := jpegFile(t, 40, 20, 6)

	out, err := PrepareImage(f, 100)
	require.NoError(t, err)
	assert.NotEqual(t, f.Data, out.Data)
	assert.False(t, hasEXIF(out.Data))

	img, err := imaging.Decode(bytes.NewReader(out.Data), imaging.AutoOrientation(true))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())
	assert.Equal(t, "image/jpeg", out.ContentType)
}

func TestPrepareImage_OrientsBeforeDownscaling(t *testing.T) {
	f := jpegFile(t, 400, 200, 6)

	out, err := PrepareImage(f, 100)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestPrepareImage_LeavesPlainJPEGAlone(t *testing.T) {
	f := jpegFile(t, 40, 20, 0)
	out, err := PrepareImage(f, 100)
	require.NoError(t, err)
	assert.Equal(t, f.Data, out.Data)
}

func TestPrepareImage_NonImage(t *testing.T) {
	f := File{Name: "terms.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}
	out, err := PrepareImage(f, 10)
	require.NoError(t, err)
	assert.Equal(t, f, out)
	assert.False(t, f.IsImage())
}

func TestPrepareImage_BrokenImage(t *testing.T) {
	f := File{Name: "broken.jpg", ContentType: "image/jpeg", Data: []byte("not a jpeg")}
	_, err := PrepareImage(f, 10)
	assert.Error(t, err)
}

func TestRead_SniffsContentType(t *testing.T) {
	src := pngFile(t, 2, 2)
	f, err := Read("image", "../uploads/logo.png", "", bytes.NewReader(src.Data))
	require.NoError(t, err)
	assert.Equal(t, "logo.png", f.Name)
	assert.Equal(t, "image/png", f.ContentType)
	assert.True(t, f.IsImage())
}

func TestEncodeMultipart(t *testing.T) {
	files := []File{{Field: "image", Name: "a.png", ContentType: "image/png", Data: []byte{1, 2, 3}}}
	fields := []Field{{Name: "name", Value: "Shoes"}, {Name: "status", Value: "active"}}

	ct, body, err := EncodeMultipart(fields, files)
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(ct)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	r := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	got := map[string]string{}
	for {
		part, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		if part.FileName() != "" {
			assert.Equal(t, "a.png", part.FileName())
			assert.Equal(t, "image/png", part.Header.Get("Content-Type"))
			assert.Equal(t, []byte{1, 2, 3}, data)
			continue
		}
		got[part.FormName()] = string(data)
	}
	assert.Equal(t, map[string]string{"name": "Shoes", "status": "active"}, got)
	assert.True(t, strings.HasPrefix(ct, "multipart/form-data; boundary="))
}
