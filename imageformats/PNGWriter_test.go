package imageformats

import (
	"bytes"
	gocolor "image/color"
	"image/png"
	"testing"

	"github.com/kpfaulkner/ndview-go/ndimage"
	"github.com/stretchr/testify/assert"
)

func TestToImageGrey(t *testing.T) {
	img, _ := ndimage.New(ndimage.DT_UINT8, []int{3, 2}, 1)
	img.SetSample([]int{0, 0}, 0, 10)
	img.SetSample([]int{2, 1}, 0, 200)

	goImg, err := ToImage(img)
	assert.Nil(t, err)
	assert.Equal(t, 3, goImg.Bounds().Dx())
	assert.Equal(t, 2, goImg.Bounds().Dy())

	r, _, _, _ := goImg.At(0, 0).RGBA()
	assert.Equal(t, uint32(10*257), r)
	r, _, _, _ = goImg.At(2, 1).RGBA()
	assert.Equal(t, uint32(200*257), r)
}

func TestToImageRGB(t *testing.T) {
	img, _ := ndimage.New(ndimage.DT_UINT8, []int{2, 2}, 3)
	img.SetSample([]int{1, 0}, 0, 255)
	img.SetSample([]int{1, 0}, 1, 128)
	img.SetSample([]int{1, 0}, 2, 64)

	goImg, err := ToImage(img)
	assert.Nil(t, err)
	c := gocolor.RGBAModel.Convert(goImg.At(1, 0)).(gocolor.RGBA)
	assert.Equal(t, gocolor.RGBA{R: 255, G: 128, B: 64, A: 255}, c)
}

func TestToImage1D(t *testing.T) {
	img, _ := ndimage.New(ndimage.DT_UINT8, []int{4}, 1)
	goImg, err := ToImage(img)
	assert.Nil(t, err)
	assert.Equal(t, 4, goImg.Bounds().Dx())
	assert.Equal(t, 1, goImg.Bounds().Dy())
}

func TestToImageErrors(t *testing.T) {
	float, _ := ndimage.New(ndimage.DT_SFLOAT, []int{2, 2}, 1)
	_, err := ToImage(float)
	assert.NotNil(t, err)

	twoChan, _ := ndimage.New(ndimage.DT_UINT8, []int{2, 2}, 2)
	_, err = ToImage(twoChan)
	assert.NotNil(t, err)

	threeD, _ := ndimage.New(ndimage.DT_UINT8, []int{2, 2, 2}, 1)
	_, err = ToImage(threeD)
	assert.NotNil(t, err)
}

func TestWritePNGRoundTrip(t *testing.T) {
	img, _ := ndimage.New(ndimage.DT_UINT8, []int{3, 3}, 1)
	img.SetSample([]int{1, 1}, 0, 99)

	var buf bytes.Buffer
	assert.Nil(t, WritePNG(img, &buf))

	decoded, err := png.Decode(&buf)
	assert.Nil(t, err)
	assert.Equal(t, 3, decoded.Bounds().Dx())
	r, _, _, _ := decoded.At(1, 1).RGBA()
	assert.Equal(t, uint32(99*257), r)
}

func TestReadRaw(t *testing.T) {
	// Six float32 samples, little endian.
	raw := []byte{
		0x00, 0x00, 0x80, 0x3f, // 1.0
		0x00, 0x00, 0x00, 0x40, // 2.0
		0x00, 0x00, 0x40, 0x40, // 3.0
		0x00, 0x00, 0x80, 0x40, // 4.0
		0x00, 0x00, 0xa0, 0x40, // 5.0
		0x00, 0x00, 0xc0, 0x40, // 6.0
	}
	img, err := ReadRaw(bytes.NewReader(raw), ndimage.DT_SFLOAT, []int{3, 2}, 1)
	assert.Nil(t, err)
	v, _ := img.Sample([]int{0, 0}, 0)
	assert.Equal(t, 1.0, real(v))
	v, _ = img.Sample([]int{2, 1}, 0)
	assert.Equal(t, 6.0, real(v))
}

func TestReadRawBinary(t *testing.T) {
	raw := []byte{0, 1, 0, 2}
	img, err := ReadRaw(bytes.NewReader(raw), ndimage.DT_BIN, []int{4}, 1)
	assert.Nil(t, err)
	v, _ := img.Sample([]int{1}, 0)
	assert.Equal(t, 1.0, real(v))
	v, _ = img.Sample([]int{2}, 0)
	assert.Equal(t, 0.0, real(v))
	v, _ = img.Sample([]int{3}, 0)
	assert.Equal(t, 1.0, real(v))
}

func TestReadRawLengthMismatch(t *testing.T) {
	short := make([]byte, 4)
	_, err := ReadRaw(bytes.NewReader(short), ndimage.DT_SFLOAT, []int{3}, 1)
	assert.NotNil(t, err)

	long := make([]byte, 16)
	_, err = ReadRaw(bytes.NewReader(long), ndimage.DT_SFLOAT, []int{3}, 1)
	assert.NotNil(t, err)
}
