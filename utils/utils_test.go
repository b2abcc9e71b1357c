package utils

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/voxelsplace/pixelart/palette"
	"github.com/voxelsplace/pixelart/pixelart"
	"github.com/voxelsplace/pixelart/schem"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(255)
			if x == 0 {
				a = 0
			}
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 90, A: a})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestRunConvertDefaultNames(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "cat.png")
	writePNG(t, in, 6, 3)

	cfg := DefaultConfig()
	cfg.Width = 4
	out, err := RunConvert(in, "", "", cfg)
	if err != nil {
		t.Fatalf("RunConvert failed: %v", err)
	}
	if out.Width != 4 || out.Height != 2 {
		t.Fatalf("size = %dx%d, want 4x2", out.Width, out.Height)
	}
	if out.Preview != filepath.Join(dir, "cat_4x2_minecraftmap_noshade.png") {
		t.Errorf("preview = %s", out.Preview)
	}
	if out.Structure != filepath.Join(dir, "cat_4x2_pixelart.schem") {
		t.Errorf("structure = %s", out.Structure)
	}
	s, hdr, err := schem.ReadFile(out.Structure)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if hdr.Target != schem.DefaultVersion || s.Width != 4 || s.Length != 2 {
		t.Fatalf("header %+v", hdr)
	}
	if len(s.Placements) != out.Blocks {
		t.Fatalf("read back %d blocks, wrote %d", len(s.Placements), out.Blocks)
	}
}

func TestRunConvertExplicitPaths(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 5, 5)
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 5, 5
	cfg.Shaded = true
	cfg.Fill = "#ffffff"
	cfg.Version = "1.20.1"
	out, err := RunConvert(in, filepath.Join(dir, "p.png"), filepath.Join(dir, "s.schem"), cfg)
	if err != nil {
		t.Fatalf("RunConvert failed: %v", err)
	}
	// the fill covers the transparent column
	if out.Blocks != 25 {
		t.Errorf("blocks = %d, want 25", out.Blocks)
	}
	_, hdr, err := schem.ReadFile(out.Structure)
	if err != nil {
		t.Fatal(err)
	}
	if hdr.Target.DataVersion != 3465 {
		t.Errorf("DataVersion = %d", hdr.Target.DataVersion)
	}
}

func TestRunConvertErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	os.WriteFile(bad, []byte("not an image"), 0o644)
	if _, err := RunConvert(bad, "", "", DefaultConfig()); !errors.Is(err, pixelart.ErrEmptySource) {
		t.Errorf("undecodable: %v", err)
	}

	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 4, 4)
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = -3, 4
	if _, err := RunConvert(in, "", "", cfg); !errors.Is(err, pixelart.ErrInvalidDimensions) {
		t.Errorf("negative width: %v", err)
	}

	cfg = DefaultConfig()
	cfg.OutDir = filepath.Join(dir, "missing")
	if _, err := RunConvert(in, "", "", cfg); !errors.Is(err, pixelart.ErrSerializationIO) {
		t.Errorf("missing out dir: %v", err)
	}

	cfg = DefaultConfig()
	cfg.Version = "0.1"
	if _, err := RunConvert(in, "", "", cfg); err == nil {
		t.Error("unknown version accepted")
	}
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png"} {
		p := filepath.Join(dir, name)
		writePNG(t, p, 8, 4)
		inputs = append(inputs, p)
	}
	cfg := DefaultConfig()
	cfg.OutDir = filepath.Join(dir, "out")
	cfg.Jobs = 2
	results, err := RunBatch(context.Background(), inputs, cfg)
	if err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}
	if len(results) != len(inputs) {
		t.Fatalf("%d results", len(results))
	}
	first, _ := os.ReadFile(results[0].Structure)
	for i, r := range results {
		if r.Source != inputs[i] {
			t.Errorf("result %d is for %s", i, r.Source)
		}
		if filepath.Dir(r.Structure) != cfg.OutDir {
			t.Errorf("structure written to %s", r.Structure)
		}
		// identical sources give identical files
		data, _ := os.ReadFile(r.Structure)
		if !bytes.Equal(data, first) {
			t.Errorf("%s differs from the first output", r.Structure)
		}
	}
}

func TestRunBatchDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a", "b", "c"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	a := filepath.Join(dir, "a", "pic.png")
	b := filepath.Join(dir, "b", "pic.png")
	c := filepath.Join(dir, "c", "pic_2.png")
	writePNG(t, a, 4, 4)
	writePNG(t, b, 4, 4)
	writePNG(t, c, 4, 4)

	cfg := DefaultConfig()
	cfg.OutDir = filepath.Join(dir, "out")
	inputs := []string{a, b, c, a}
	results, err := RunBatch(context.Background(), inputs, cfg)
	if err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}

	// c keeps its own name; the repeats skip past it
	wantStems := []string{"pic", "pic_3", "pic_2", "pic_4"}
	seen := map[string]bool{}
	for i, r := range results {
		wantPreview, wantStructure := pixelart.OutputNames(wantStems[i], r.Width, r.Height, cfg.Shaded)
		if filepath.Base(r.Preview) != wantPreview {
			t.Errorf("input %d preview = %s, want %s", i, filepath.Base(r.Preview), wantPreview)
		}
		if filepath.Base(r.Structure) != wantStructure {
			t.Errorf("input %d structure = %s, want %s", i, filepath.Base(r.Structure), wantStructure)
		}
		for _, p := range []string{r.Preview, r.Structure} {
			if seen[p] {
				t.Errorf("%s reported twice", p)
			}
			seen[p] = true
			if _, err := os.Stat(p); err != nil {
				t.Errorf("missing output: %v", err)
			}
		}
	}
	ents, err := os.ReadDir(cfg.OutDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(ents) != 2*len(inputs) {
		t.Fatalf("out holds %d files, want %d", len(ents), 2*len(inputs))
	}
}

func TestRunBatchFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	writePNG(t, good, 4, 4)
	if _, err := RunBatch(context.Background(), []string{good, filepath.Join(dir, "nope.png")}, DefaultConfig()); err == nil {
		t.Fatal("expected error for missing input")
	}
	if _, err := RunBatch(context.Background(), nil, DefaultConfig()); err == nil {
		t.Fatal("expected error for no inputs")
	}
}

func TestRunSchem2GLB(t *testing.T) {
	dir := t.TempDir()
	s, _ := schem.New(3, 1, 2)
	s.Place(0, 0, 0, "minecraft:snow_block")
	s.Place(1, 0, 1, "minecraft:pink_concrete")
	s.Place(2, 0, 0, "modded:thing")
	in, err := schem.WriteFile(s, filepath.Join(dir, "in.schem"), schem.DefaultVersion)
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.glb")
	if err := RunSchem2GLB(in, out, palette.Default()); err != nil {
		t.Fatalf("RunSchem2GLB failed: %v", err)
	}
	doc, err := gltf.Open(out)
	if err != nil {
		t.Fatalf("open glb: %v", err)
	}
	if len(doc.Meshes) != 1 || len(doc.Meshes[0].Primitives) != 1 {
		t.Fatalf("meshes = %d", len(doc.Meshes))
	}
	// three separate cubes, six faces each
	if got := doc.Accessors[*doc.Meshes[0].Primitives[0].Indices].Count; got != 3*6*6 {
		t.Errorf("index count = %d", got)
	}
}

func TestRunSchemInfo(t *testing.T) {
	dir := t.TempDir()
	s, _ := schem.New(2, 1, 2)
	s.Place(0, 0, 0, "minecraft:stone")
	s.Place(1, 0, 0, "minecraft:stone")
	s.Place(1, 0, 1, "minecraft:dirt")
	path, err := schem.WriteFile(s, filepath.Join(dir, "x.schem"), schem.DefaultVersion)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := RunSchemInfo(path, &buf); err != nil {
		t.Fatalf("RunSchemInfo failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"size:        2x1x2", "1.12.1", "blocks:      3", "2  minecraft:stone", "1  minecraft:dirt"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "minecraft:stone") > strings.Index(out, "minecraft:dirt") {
		t.Error("blocks not sorted by count")
	}
}

func TestPaletteSwatch(t *testing.T) {
	img, err := PaletteSwatch(palette.Default().Compact(), 4)
	if err != nil {
		t.Fatal(err)
	}
	// 66 entries in rows of 16
	if b := img.Bounds(); b.Dx() != 16*4 || b.Dy() != 5*4 {
		t.Fatalf("bounds %v", b)
	}
	if img.NRGBAAt(0, 0).A != 0 {
		t.Error("sentinel tile is not transparent")
	}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if got := img.NRGBAAt(8*4+1, 1); got != white {
		t.Errorf("tile 8 = %v", got)
	}

	path, err := RunPaletteSwatch(filepath.Join(t.TempDir(), "sw.png"), palette.Default(), palette.Extended, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pixelart.toml")
	os.WriteFile(path, []byte("width = 32\ncrop = true\nfill = \"auto\"\nversion = \"1.16.5\"\n"), 0o644)
	cfg := DefaultConfig()
	if err := LoadConfig(path, &cfg); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Width != 32 || !cfg.Crop || cfg.Fill != "auto" || !cfg.MaintainAspectRatio {
		t.Fatalf("cfg = %+v", cfg)
	}
	if v, err := cfg.TargetVersion(); err != nil || v.DataVersion != 2586 {
		t.Fatalf("version %v %v", v, err)
	}

	os.WriteFile(path, []byte("widht = 32\n"), 0o644)
	if err := LoadConfig(path, &cfg); err == nil || !strings.Contains(err.Error(), "widht") {
		t.Fatalf("unknown key: %v", err)
	}
}

func TestOrientation(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})

	if got := rotimg(2, img); got.NRGBAAt(0, 0).B != 255 {
		t.Error("orientation 2 should mirror horizontally")
	}
	got := rotimg(6, img)
	if b := got.Bounds(); b.Dx() != 1 || b.Dy() != 2 {
		t.Fatalf("orientation 6 bounds %v", b)
	}
	// rotated clockwise: the left pixel ends on top
	if got.NRGBAAt(0, 0).R != 255 {
		t.Error("orientation 6 should rotate clockwise")
	}
	if got := rotimg(1, img); got != img {
		t.Error("orientation 1 should be a no-op")
	}
}

// withExif inserts an APP1 segment holding payload right after the JPEG
// start-of-image marker.
func withExif(t *testing.T, jpg, payload []byte) []byte {
	t.Helper()
	if len(jpg) < 2 || jpg[0] != 0xFF || jpg[1] != 0xD8 {
		t.Fatal("not a JPEG stream")
	}
	n := len(payload) + 2
	out := append([]byte{}, jpg[:2]...)
	out = append(out, 0xFF, 0xE1, byte(n>>8), byte(n))
	out = append(out, payload...)
	return append(out, jpg[2:]...)
}

func TestDecodeImageExifOrientation(t *testing.T) {
	// bright left half, dark right half
	src := image.NewGray(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 100}); err != nil {
		t.Fatal(err)
	}
	exif, err := os.ReadFile(filepath.Join("testdata", "orientation6.exif"))
	if err != nil {
		t.Fatal(err)
	}
	data := withExif(t, buf.Bytes(), exif)

	if got := exifOrient(bytes.NewReader(data)); got != 6 {
		t.Fatalf("exifOrient = %d, want 6", got)
	}
	img, err := DecodeImage(data)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 16 {
		t.Fatalf("bounds %v, want 8x16", b)
	}
	// rotated clockwise: the bright left half ends on top
	top := color.GrayModel.Convert(img.At(4, 3)).(color.Gray).Y
	bottom := color.GrayModel.Convert(img.At(4, 12)).(color.Gray).Y
	if top < 200 || bottom > 55 {
		t.Fatalf("top = %d, bottom = %d", top, bottom)
	}

	// the same pixels without the segment keep their layout
	if got := exifOrient(bytes.NewReader(buf.Bytes())); got != 1 {
		t.Fatalf("exifOrient without exif = %d, want 1", got)
	}
}

func TestDecodeImageNoExif(t *testing.T) {
	var buf bytes.Buffer
	png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 3, 2)))
	img, err := DecodeImage(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds %v", b)
	}
}
