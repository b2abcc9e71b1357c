//go:build !(js && wasm)

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/voxelsplace/pixelart/palette"
	"github.com/voxelsplace/pixelart/schem"
	"github.com/voxelsplace/pixelart/utils"
)

func usage() {
	fmt.Println("Usage: pixelart <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  convert [flags] input.png [preview.png] [output.schem]   (convert an image to a preview and a schematic)")
	fmt.Println("  batch [flags] input1.png [input2.png ...]                (convert many images with the same settings)")
	fmt.Println("  schem2glb [-blocks table.toml] input.schem output.glb    (convert a schematic to .glb using greedy mesh)")
	fmt.Println("  info input.schem                                         (print schematic header and block counts)")
	fmt.Println("  palette [-kind compact|extended] [-tile N] output.png    (draw the palette swatch)")
	fmt.Println("  versions                                                 (list target game versions)")
	fmt.Println("Run 'pixelart <command> -h' for the flags of a command.")
}

func fail(err error) {
	fmt.Println("Error:", err)
	os.Exit(1)
}

// conversionFlags registers the settings shared by convert and batch and
// returns a function producing the effective Config: defaults, then the
// -config file, then flags given on the command line.
func conversionFlags(fs *flag.FlagSet) func() (utils.Config, error) {
	def := utils.DefaultConfig()
	configPath := fs.String("config", "", "TOML file with conversion settings")
	width := fs.Int("width", 0, "target width in blocks (0: derive)")
	height := fs.Int("height", 0, "target height in blocks (0: derive)")
	aspect := fs.Bool("aspect", def.MaintainAspectRatio, "derive a missing dimension from the image aspect ratio")
	crop := fs.Bool("crop", false, "keep the aspect ratio and crop the overflow instead of stretching")
	fill := fs.String("fill", "", "fill transparent pixels: hex color, \"auto\" or \"none\"")
	shaded := fs.Bool("shaded", false, "use the extended palette with shade variants")
	version := fs.String("version", def.Version, "target game version")
	blocks := fs.String("blocks", "", "block table TOML replacing the built-in one")
	out := fs.String("out", "", "output directory for default-named files")
	jobs := fs.Int("jobs", 0, "parallel conversions for batch (0: one per CPU)")

	return func() (utils.Config, error) {
		cfg := utils.DefaultConfig()
		if *configPath != "" {
			if err := utils.LoadConfig(*configPath, &cfg); err != nil {
				return cfg, err
			}
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "width":
				cfg.Width = *width
			case "height":
				cfg.Height = *height
			case "aspect":
				cfg.MaintainAspectRatio = *aspect
			case "crop":
				cfg.Crop = *crop
			case "fill":
				cfg.Fill = *fill
			case "shaded":
				cfg.Shaded = *shaded
			case "version":
				cfg.Version = *version
			case "blocks":
				cfg.Blocks = *blocks
			case "out":
				cfg.OutDir = *out
			case "jobs":
				cfg.Jobs = *jobs
			}
		})
		if cfg.Width > 0 && cfg.Height > 0 && cfg.MaintainAspectRatio && !cfg.Crop {
			log.Printf("warning: both dimensions given, the image may be stretched (use -crop to keep its aspect ratio)")
		}
		return cfg, nil
	}
}

func runConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	config := conversionFlags(fs)
	fs.Parse(args)
	if fs.NArg() < 1 || fs.NArg() > 3 {
		usage()
		os.Exit(1)
	}
	cfg, err := config()
	if err != nil {
		fail(err)
	}
	preview, structure := fs.Arg(1), fs.Arg(2)
	out, err := utils.RunConvert(fs.Arg(0), preview, structure, cfg)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Converted %s at %dx%d (%d blocks)\n", out.Source, out.Width, out.Height, out.Blocks)
	fmt.Println("Image:", out.Preview)
	fmt.Println("Schematic:", out.Structure)
}

func runBatch(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	config := conversionFlags(fs)
	fs.Parse(args)
	if fs.NArg() < 1 {
		usage()
		os.Exit(1)
	}
	cfg, err := config()
	if err != nil {
		fail(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results, err := utils.RunBatch(ctx, fs.Args(), cfg)
	if err != nil {
		fail(err)
	}
	for _, r := range results {
		fmt.Printf("%s -> %s, %s\n", r.Source, r.Preview, r.Structure)
	}
	fmt.Printf("Converted %d images\n", len(results))
}

func runSchem2GLB(args []string) {
	fs := flag.NewFlagSet("schem2glb", flag.ExitOnError)
	blocks := fs.String("blocks", "", "block table TOML used for colors")
	fs.Parse(args)
	if fs.NArg() != 2 {
		usage()
		os.Exit(1)
	}
	t, err := loadTable(*blocks)
	if err != nil {
		fail(err)
	}
	if err := utils.RunSchem2GLB(fs.Arg(0), fs.Arg(1), t); err != nil {
		fail(err)
	}
	fmt.Println("Operation completed!")
}

func runPalette(args []string) {
	fs := flag.NewFlagSet("palette", flag.ExitOnError)
	kindName := fs.String("kind", "compact", "palette to draw: compact or extended")
	tile := fs.Int("tile", 16, "tile size in pixels")
	blocks := fs.String("blocks", "", "block table TOML replacing the built-in one")
	fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
		os.Exit(1)
	}
	kind, err := palette.ParseKind(*kindName)
	if err != nil {
		fail(err)
	}
	t, err := loadTable(*blocks)
	if err != nil {
		fail(err)
	}
	path, err := utils.RunPaletteSwatch(fs.Arg(0), t, kind, *tile)
	if err != nil {
		fail(err)
	}
	p := t.Palette(kind)
	fmt.Printf("%s palette: %d entries, fingerprint %016x\n", kind, p.Len(), p.Fingerprint())
	fmt.Println("Swatch:", path)
}

func loadTable(path string) (*palette.Table, error) {
	if path == "" {
		return palette.Default(), nil
	}
	return palette.LoadTableFile(path)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("pixelart: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "convert":
		runConvert(os.Args[2:])
	case "batch":
		runBatch(os.Args[2:])
	case "schem2glb":
		runSchem2GLB(os.Args[2:])
	case "info":
		if len(os.Args) != 3 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunSchemInfo(os.Args[2], os.Stdout); err != nil {
			fail(err)
		}
	case "palette":
		runPalette(os.Args[2:])
	case "versions":
		for _, v := range schem.Versions {
			fmt.Printf("%-8s data version %d\n", v.Name, v.DataVersion)
		}
	default:
		usage()
		os.Exit(1)
	}
}
