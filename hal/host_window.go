//go:build !tinygo && cgo

package hal

import (
	"context"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"

	"ember/internal/buildinfo"
)

// runWindow shows the framebuffer in a desktop window and maps the space bar
// to the BUTTON pin. It blocks until the window closes or ctx is done.
func runWindow(ctx context.Context, cancel context.CancelFunc, h *hostHAL, main Main, cfg RunConfig) error {
	g, gctx := errgroup.WithContext(ctx)
	startHost(gctx, g, cancel, h, main, cfg)

	game := &hostGame{h: h, ctx: gctx}
	ebiten.SetWindowTitle("Ember (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*2, h.fb.height*2)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(game)
	cancel()
	if werr := g.Wait(); werr != nil {
		return werr
	}
	return err
}

type hostGame struct {
	h       *hostHAL
	ctx     context.Context
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
}

func (g *hostGame) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if g.h.button != nil {
		g.h.button.set(ebiten.IsKeyPressed(ebiten.KeySpace))
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.back))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.frontRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
