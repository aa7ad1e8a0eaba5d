package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageSize - ограничивающий прямоугольник для миниатюры
type ImageSize struct {
	Name   string
	Width  int
	Height int
}

var (
	// SizeThumbnail - превью в галерее свадьбы
	SizeThumbnail = ImageSize{Name: "thumbnail", Width: 400, Height: 400}

	// SizeMaxOriginal - предел для декодирования (защита от "бомб")
	SizeMaxOriginal = ImageSize{Name: "original", Width: 12000, Height: 12000}
)

// Info - то, что удалось узнать из заголовка файла
type Info struct {
	Format string // jpeg, png, gif, webp
	Width  int
	Height int
}

// ContentType возвращает MIME тип по формату
func (i Info) ContentType() string {
	return "image/" + i.Format
}

type Processor struct {
	quality int // JPEG quality (1-100)
}

func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{
		quality: quality,
	}
}

// Inspect читает только заголовок изображения
func Inspect(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width > SizeMaxOriginal.Width || cfg.Height > SizeMaxOriginal.Height {
		return Info{}, fmt.Errorf("image %dx%d exceeds maximum dimensions", cfg.Width, cfg.Height)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Thumbnail уменьшает изображение до size (без увеличения) и кодирует в JPEG
func (p *Processor) Thumbnail(data []byte, size ImageSize) ([]byte, error) {
	if _, err := Inspect(data); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := p.resize(img, size.Width, size.Height)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// resize сохраняет пропорции; прозрачность заливается белым
func (p *Processor) resize(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	newWidth, newHeight := width, height
	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		newWidth, newHeight = maxWidth, maxHeight
		if float64(maxWidth)/float64(maxHeight) > ratio {
			newWidth = int(float64(maxHeight) * ratio)
		} else {
			newHeight = int(float64(maxWidth) / ratio)
		}
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst
}
