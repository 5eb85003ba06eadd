package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wudi/imagekit/codec"
	"github.com/wudi/imagekit/colorize"
	"github.com/wudi/imagekit/colorspace"
	"github.com/wudi/imagekit/raster"
)

type options struct {
	imagePath string
	outPath   string

	info      bool
	grayscale bool
	space     string
	adjust    bool
	blur      float64
	binarize  float64
	threshold string
	colorize  bool
	reflect   string
	take      int
	crop      string
	resize    string
	resample  string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "imgtool: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "imgtool: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: imgtool [flags] <image>\n")
		flag.PrintDefaults()
	}
	flag.BoolVar(&opts.info, "info", false, "Print image properties")
	flag.BoolVar(&opts.grayscale, "grayscale", false, "Convert to grayscale")
	flag.StringVar(&opts.space, "space", "", "Convert to the given color space (RGB, CMYK, HSB, LAB, XYZ, Grayscale)")
	flag.BoolVar(&opts.adjust, "adjust", false, "Normalize channel levels")
	flag.Float64Var(&opts.blur, "blur", 0, "Blur with the given radius")
	flag.Float64Var(&opts.binarize, "binarize", -1, "Binarize at the given threshold in [0,1]")
	flag.StringVar(&opts.threshold, "threshold", "", "Print a threshold estimate (Cluster, Median, Mean)")
	flag.BoolVar(&opts.colorize, "colorize", false, "Pseudocolor the image")
	flag.StringVar(&opts.reflect, "reflect", "", "Reflect, e.g. Top,Bottom or Left,Right")
	flag.IntVar(&opts.take, "take", 0, "Keep the first n rows (negative keeps the last)")
	flag.StringVar(&opts.crop, "crop", "", "Crop to 1-based bounds r1:r2:c1:c2")
	flag.StringVar(&opts.resize, "resize", "", "Resize to WxH")
	flag.StringVar(&opts.resample, "resample", "Automatic", "Resampling method (Nearest, Bilinear, Bicubic)")
	flag.StringVar(&opts.outPath, "out", "", "Write the result as PNG to this path")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing image path")
	}
	opts.imagePath = flag.Arg(0)
	return opts, nil
}

func run(opts options) error {
	file, err := os.Open(opts.imagePath)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	im, err := codec.Decode(file)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	if opts.info {
		printInfo(im)
	}
	if opts.threshold != "" {
		v, err := im.ThresholdValue(raster.ThresholdMethod(opts.threshold))
		if err != nil {
			return err
		}
		fmt.Printf("threshold (%s): %.6f\n", opts.threshold, v)
	}

	if im, err = transform(im, opts); err != nil {
		return err
	}

	if opts.outPath != "" {
		data, err := codec.EncodePNG(im)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.outPath, data, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

func transform(im *raster.Image, opts options) (*raster.Image, error) {
	var err error

	if opts.take != 0 {
		im = im.Take(opts.take)
	}
	if opts.crop != "" {
		bounds, err := splitInts(opts.crop, ":", 4)
		if err != nil {
			return nil, fmt.Errorf("crop bounds: %w", err)
		}
		im = im.Crop(bounds[0], bounds[1], bounds[2], bounds[3])
	}
	if opts.reflect != "" {
		parts := strings.SplitN(opts.reflect, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("reflect wants two sides, got %q", opts.reflect)
		}
		a, err := raster.ParseSide(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, err
		}
		b, err := raster.ParseSide(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, err
		}
		if im, err = im.Reflect(a, b); err != nil {
			return nil, err
		}
	}
	if opts.resize != "" {
		dims, err := splitInts(opts.resize, "x", 2)
		if err != nil {
			return nil, fmt.Errorf("resize target: %w", err)
		}
		if im, err = codec.Resize(im, dims[0], dims[1], codec.Resampling(opts.resample)); err != nil {
			return nil, err
		}
	}
	if opts.blur > 0 {
		if im, err = im.Blur(opts.blur); err != nil {
			return nil, err
		}
	}
	if opts.adjust {
		im = im.Adjust()
	}
	if opts.grayscale {
		if im, err = im.Grayscale(); err != nil {
			return nil, err
		}
	}
	if opts.space != "" {
		if im, err = im.ColorConvert(colorspace.Space(opts.space), true); err != nil {
			return nil, err
		}
	}
	if opts.binarize >= 0 {
		if im, err = im.Binarize(opts.binarize); err != nil {
			return nil, err
		}
	}
	if opts.colorize {
		if im, err = colorize.Image(im, nil); err != nil {
			return nil, err
		}
	}
	return im, nil
}

func printInfo(im *raster.Image) {
	w, h := im.Dimensions()
	fmt.Printf("dimensions: %dx%d\n", w, h)
	fmt.Printf("channels:   %d\n", im.Channels())
	fmt.Printf("space:      %s\n", im.Space())
	fmt.Printf("storage:    %s\n", im.StorageType())
	fmt.Printf("hash:       %016x\n", im.Hash())
	for k, v := range im.Metadata() {
		fmt.Printf("meta:       %s=%s\n", k, v)
	}
}

func splitInts(s, sep string, n int) ([]int, error) {
	parts := strings.Split(s, sep)
	if len(parts) != n {
		return nil, fmt.Errorf("want %d values separated by %q, got %q", n, sep, s)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}
