// Package hkn ties container, planecodec, colorxform, and threadpool
// together into the two entry points an outer CLI actually calls:
// EncodeLossless and DecodeLossless. Everything format-specific (tile
// routes, entropy coding, row filters) lives downstream in the
// packages it imports; this package only owns plane splitting/merging
// and the per-plane and per-row-range parallel fan-out the concurrency
// model (spec §5) describes.
package hkn

import (
	"context"

	"github.com/hakorune/hakonyans/colorxform"
	"github.com/hakorune/hakonyans/config"
	"github.com/hakorune/hakonyans/container"
	"github.com/hakorune/hakonyans/planecodec"
	"github.com/hakorune/hakonyans/threadpool"
)

// minRowsPerColorTask and minPixelsPerColorTask bound how finely the
// YCoCg-R <-> RGB row-range conversion is split, per spec §4.10
// ("max 8 threads, min 128 rows or 200k pixels per task").
const (
	minRowsPerColorTask   = 128
	minPixelsPerColorTask = 200_000
	maxColorTasks         = 8
)

// EncodeLossless packs an interleaved 8-bit RGB image (len(rgb) ==
// width*height*3) into a complete .hkn lossless container: YCoCg-R
// forward transform, three-way Y/Co/Cg route competition per plane,
// container assembly.
func EncodeLossless(rgb []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 || len(rgb) != width*height*3 {
		return nil, ErrInvalidImage
	}

	y, co, cg := rgbToPlanes(rgb, width, height)

	budget := threadpool.NewBudget(config.Load().ThreadsOrDefault())
	tiles := make([][]byte, 3)
	planes := [3][]int16{y, co, cg}

	if budget.Capacity() >= 3 && budget.AcquireExact(context.Background(), 3) == nil {
		defer budget.Release(3)
		done := make(chan int, 3)
		for i := 0; i < 3; i++ {
			i := i
			go func() {
				tiles[i] = planecodec.EncodePlane(planes[i], width, height)
				done <- i
			}()
		}
		for i := 0; i < 3; i++ {
			<-done
		}
	} else {
		for i := 0; i < 3; i++ {
			tiles[i] = planecodec.EncodePlane(planes[i], width, height)
		}
	}

	h := container.NewHeader()
	h.Width = uint32(width)
	h.Height = uint32(height)
	h.BitDepth = 8
	h.NumChannels = 3
	h.Colorspace = container.ColorspaceYCoCgR
	h.Lossless = true
	h.TileCols = uint16((width + 7) / 8)
	h.TileRows = uint16((height + 7) / 8)

	f := container.File{
		Header: h,
		Tiles:  tiles,
	}
	return f.Marshal(), nil
}

// DecodeLossless reverses EncodeLossless, returning an interleaved
// 8-bit RGB buffer and the image's logical dimensions.
func DecodeLossless(data []byte) (rgb []byte, width, height int, err error) {
	h, err := container.UnmarshalHeader(data)
	if err != nil {
		return nil, 0, 0, err
	}
	if !h.Lossless {
		return nil, 0, 0, ErrNotLossless
	}
	f, err := container.Unmarshal(data)
	if err != nil {
		return nil, 0, 0, err
	}
	if len(f.Tiles) != 3 {
		return nil, 0, 0, container.ErrUnknownChunk
	}

	width = int(f.Header.Width)
	height = int(f.Header.Height)

	budget := threadpool.NewBudget(config.Load().ThreadsOrDefault())
	planes := make([][]int16, 3)

	if budget.Capacity() >= 3 && budget.AcquireExact(context.Background(), 3) == nil {
		defer budget.Release(3)
		done := make(chan int, 3)
		for i := 0; i < 3; i++ {
			i := i
			go func() {
				planes[i] = planecodec.DecodePlane(f.Tiles[i], width, height)
				done <- i
			}()
		}
		for i := 0; i < 3; i++ {
			<-done
		}
	} else {
		for i := 0; i < 3; i++ {
			planes[i] = planecodec.DecodePlane(f.Tiles[i], width, height)
		}
	}

	rgb = planesToRGB(planes[0], planes[1], planes[2], width, height, budget)
	return rgb, width, height, nil
}

// rgbToPlanes splits an interleaved RGB buffer into YCoCg-R int16
// planes, row-range parallel per spec §4.10's color-conversion rule.
func rgbToPlanes(rgb []byte, width, height int) (y, co, cg []int16) {
	n := width * height
	y = make([]int16, n)
	co = make([]int16, n)
	cg = make([]int16, n)

	forEachRowRange(height, width, func(y0, y1 int) {
		for row := y0; row < y1; row++ {
			base := row * width
			for x := 0; x < width; x++ {
				i := base + x
				r := int32(rgb[i*3+0])
				g := int32(rgb[i*3+1])
				b := int32(rgb[i*3+2])
				yy, cco, ccg := colorxform.YCoCgRForward(r, g, b)
				y[i] = int16(yy)
				co[i] = int16(cco)
				cg[i] = int16(ccg)
			}
		}
	})
	return
}

// planesToRGB is the inverse of rgbToPlanes.
func planesToRGB(y, co, cg []int16, width, height int, budget *threadpool.Budget) []byte {
	out := make([]byte, width*height*3)
	forEachRowRange(height, width, func(y0, y1 int) {
		for row := y0; row < y1; row++ {
			base := row * width
			for x := 0; x < width; x++ {
				i := base + x
				r, g, b := colorxform.YCoCgRInverse(int32(y[i]), int32(co[i]), int32(cg[i]))
				out[i*3+0] = byte(r)
				out[i*3+1] = byte(g)
				out[i*3+2] = byte(b)
			}
		}
	})
	return out
}

// forEachRowRange splits [0,height) into up to maxColorTasks
// contiguous row ranges, each at least minRowsPerColorTask rows (or
// the whole image if it has fewer total pixels than
// minPixelsPerColorTask) and runs fn over each range concurrently.
// Task boundaries are row-aligned so they never cross a pixel.
func forEachRowRange(height, width int, fn func(y0, y1 int)) {
	if height*width < minPixelsPerColorTask || height <= minRowsPerColorTask {
		fn(0, height)
		return
	}

	tasks := maxColorTasks
	if rows := height / minRowsPerColorTask; rows < tasks {
		tasks = rows
	}
	if tasks <= 1 {
		fn(0, height)
		return
	}

	rowsPerTask := (height + tasks - 1) / tasks
	done := make(chan struct{}, tasks)
	n := 0
	for y0 := 0; y0 < height; y0 += rowsPerTask {
		y1 := y0 + rowsPerTask
		if y1 > height {
			y1 = height
		}
		n++
		go func(y0, y1 int) {
			fn(y0, y1)
			done <- struct{}{}
		}(y0, y1)
	}
	for i := 0; i < n; i++ {
		<-done
	}
}
