package api

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/voxelsplace/pixelart/pixelart"
	"github.com/voxelsplace/pixelart/schem"
)

func encodePNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestConvertBytes(t *testing.T) {
	white := encodePNG(t, 10, 5, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	res, err := ConvertBytes(white, Request{Width: 4, MaintainAspectRatio: true})
	if err != nil {
		t.Fatalf("ConvertBytes failed: %v", err)
	}
	if res.Width != 4 || res.Height != 2 || res.Blocks != 8 {
		t.Fatalf("result %dx%d with %d blocks", res.Width, res.Height, res.Blocks)
	}
	preview, err := png.Decode(bytes.NewReader(res.Preview))
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if b := preview.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("preview bounds %v", b)
	}
	s, hdr, err := schem.DecodeBytes(res.Structure)
	if err != nil {
		t.Fatalf("structure: %v", err)
	}
	if hdr.Target != schem.DefaultVersion || len(s.Placements) != 8 {
		t.Fatalf("structure %+v with %d placements", hdr, len(s.Placements))
	}
	for _, p := range s.Placements {
		if p.Block != "minecraft:snow_block" {
			t.Fatalf("placement %v", p)
		}
	}

	again, _ := ConvertBytes(white, Request{Width: 4, MaintainAspectRatio: true})
	if !bytes.Equal(again.Structure, res.Structure) || !bytes.Equal(again.Preview, res.Preview) {
		t.Fatal("repeated conversion differs")
	}
}

func TestConvertBytesErrors(t *testing.T) {
	if _, err := ConvertBytes([]byte("junk"), Request{Width: 2, Height: 2}); !errors.Is(err, pixelart.ErrEmptySource) {
		t.Errorf("junk input: %v", err)
	}
	img := encodePNG(t, 2, 2, color.NRGBA{A: 255})
	if _, err := ConvertBytes(img, Request{Width: 2}); !errors.Is(err, pixelart.ErrInvalidDimensions) {
		t.Errorf("missing height: %v", err)
	}
	if _, err := ConvertBytes(img, Request{Version: "9.9"}); err == nil {
		t.Error("unknown version accepted")
	}
}

func TestConvertMany(t *testing.T) {
	files := map[string][]byte{
		"a.png": encodePNG(t, 3, 3, color.NRGBA{R: 255, A: 255}),
		"b.png": encodePNG(t, 3, 3, color.NRGBA{}),
	}
	out, err := ConvertMany(files, Request{Width: 3, Height: 3})
	if err != nil {
		t.Fatal(err)
	}
	if out["a.png"].Blocks != 9 || out["b.png"].Blocks != 0 {
		t.Fatalf("blocks a=%d b=%d", out["a.png"].Blocks, out["b.png"].Blocks)
	}
	files["c.png"] = []byte("junk")
	if _, err := ConvertMany(files, Request{Width: 3, Height: 3}); err == nil {
		t.Fatal("expected error")
	}
}

func TestSchemToGLB(t *testing.T) {
	res, err := ConvertBytes(encodePNG(t, 4, 4, color.NRGBA{B: 200, A: 255}), Request{Width: 4, Height: 4, Shaded: true})
	if err != nil {
		t.Fatal(err)
	}
	glb, err := SchemToGLB(res.Structure)
	if err != nil {
		t.Fatalf("SchemToGLB failed: %v", err)
	}
	if len(glb) < 12 || string(glb[:4]) != "glTF" {
		t.Fatalf("output is not a binary glTF")
	}
	if _, err := SchemToGLB([]byte{1, 2, 3}); err == nil {
		t.Fatal("garbage accepted")
	}
}

func TestPaletteSwatchPNG(t *testing.T) {
	data, err := PaletteSwatchPNG("extended", 1)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	// 252 entries in rows of 16
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("bounds %v", b)
	}
	if _, err := PaletteSwatchPNG("neon", 1); err == nil {
		t.Fatal("unknown kind accepted")
	}
}
