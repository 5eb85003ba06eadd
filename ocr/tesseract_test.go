package ocr_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/wudi/imagekit/codec"
	"github.com/wudi/imagekit/ocr"
	_ "github.com/wudi/imagekit/ocr/tesseract"
	"github.com/wudi/imagekit/raster"
)

// ensureTesseractAvailable checks that the tesseract binary is reachable.
func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

func renderText(t *testing.T, text string) *raster.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 50),
	}
	d.DrawString(text)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	im, err := codec.Decode(&buf)
	if err != nil {
		t.Fatalf("decode rendered image: %v", err)
	}
	return im
}

func TestTesseractEngineRecognize(t *testing.T) {
	ensureTesseractAvailable(t)

	im := renderText(t, "Hello Image")

	results, err := ocr.DefaultRecognizeImages(context.Background(), []*raster.Image{im},
		ocr.WithLanguages("eng"), ocr.WithDPI(300))
	if err != nil {
		t.Fatalf("DefaultRecognizeImages() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	res := results[0]
	got := strings.ToLower(res.PlainText)
	if !strings.Contains(got, "hello") || !strings.Contains(got, "image") {
		t.Fatalf("unexpected OCR output: %q", res.PlainText)
	}
	if len(res.Blocks) == 0 || len(res.Blocks[0].Lines) == 0 {
		t.Fatalf("expected structured blocks")
	}
}

func TestNoopEngineEchoesInputID(t *testing.T) {
	im := renderText(t, "x")
	in, err := ocr.InputFromImage(im, ocr.WithID("probe"))
	if err != nil {
		t.Fatalf("InputFromImage() error = %v", err)
	}
	var engine ocr.Engine = noopProbe{}
	res, err := engine.Recognize(context.Background(), in)
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if res.InputID != "probe" {
		t.Fatalf("unexpected input id: %s", res.InputID)
	}
}

type noopProbe struct{}

func (noopProbe) Name() string { return "probe" }
func (noopProbe) Recognize(_ context.Context, in ocr.Input) (ocr.Result, error) {
	return ocr.Result{InputID: in.ID}, nil
}
