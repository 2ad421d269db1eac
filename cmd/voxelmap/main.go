// Command voxelmap renders a top-down PNG preview of generated terrain.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"runtime"

	"mini-voxel/internal/config"
	"mini-voxel/internal/world"

	"github.com/alitto/pond/v2"
	"golang.org/x/image/draw"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		seed       = flag.Int64("seed", 0, "override generator seed")
		cx         = flag.Int("x", 0, "centre x")
		cz         = flag.Int("z", 0, "centre z")
		size       = flag.Int("size", 256, "map width and height in voxels")
		scale      = flag.Int("scale", 2, "output pixels per voxel")
		out        = flag.String("out", "map.png", "output file")
	)
	flag.Parse()

	if err := run(*configPath, *seed, *cx, *cz, *size, *scale, *out); err != nil {
		fmt.Fprintln(os.Stderr, "voxelmap:", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64, cx, cz, size, scale int, out string) error {
	if size <= 0 || scale <= 0 {
		return fmt.Errorf("size and scale must be positive")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	settings := cfg.GeneratorSettings()
	if seed != 0 {
		settings.Seed = seed
	}
	gen := world.NewGenerator(settings)

	src := renderMap(gen, cx-size/2, cz-size/2, size, cfg.Streaming.Workers)
	dst := image.NewRGBA(image.Rect(0, 0, size*scale, size*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, dst); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%dx%d voxels around %d,%d, seed %d)\n", out, size, size, cx, cz, settings.Seed)
	return nil
}

// renderMap colours one pixel per column, one row per pool task.
func renderMap(gen *world.Generator, x0, z0, size, workers int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	pool := pond.NewPool(workers)
	defer pool.StopAndWait()

	rows := pool.NewGroup()
	for row := range size {
		rows.Submit(func() {
			for col := range size {
				img.SetRGBA(col, row, columnColor(gen, x0+col, z0+row))
			}
		})
	}
	// Row tasks cannot fail, so the group error is always nil.
	_ = rows.Wait()
	return img
}

var palette = map[world.Voxel]color.RGBA{
	world.Grass: {R: 86, G: 142, B: 58, A: 255},
	world.Dirt:  {R: 134, G: 96, B: 67, A: 255},
	world.Stone: {R: 125, G: 125, B: 125, A: 255},
	world.Water: {R: 48, G: 92, B: 190, A: 255},
}

// columnColor shades the top voxel of a column by its height relative to
// the water level.
func columnColor(gen *world.Generator, x, z int) color.RGBA {
	wl := gen.Settings().WaterLevel
	surface := gen.SurfaceAt(x, z)
	top := max(surface, wl)

	c, ok := palette[gen.ComputeVoxel(world.Coord{X: x, Y: top, Z: z})]
	if !ok {
		return color.RGBA{A: 255}
	}
	return shade(c, float64(surface-wl)*0.04)
}

func shade(c color.RGBA, f float64) color.RGBA {
	f = min(max(f, -0.5), 0.5)
	adj := func(v uint8) uint8 {
		return uint8(min(max(float64(v)*(1+f), 0), 255))
	}
	return color.RGBA{R: adj(c.R), G: adj(c.G), B: adj(c.B), A: c.A}
}
