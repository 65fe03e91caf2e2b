package reveal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/esimov/reveal/imop"
	"github.com/esimov/reveal/utils"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/term"
)

// Ops holds the output related options of Execute.
type Ops struct {
	// Out is the destination of the composited image; PipeName means stdout.
	Out string
	// Overlay, when set, is the destination of the tessellation overlay.
	Overlay  string
	PipeName string
	// Show lists the regions to reveal. All regions are revealed when empty.
	Show []string
	// Opacity is the fill opacity of the overlay cells.
	Opacity float64
	Outline bool
	// Blend is the blend mode used to lay the reveal layer over the base.
	Blend string
	// Composite is the Porter-Duff operator of the reveal layer, source over when empty.
	Composite string
	// Feather is the sigma of the blur applied to the clip edges.
	Feather float64

	Spinner *utils.Spinner
}

// Execute builds the widget, loads the base and reveal layers, reveals the
// requested regions and writes the composited image (and optionally the
// overlay) to the destinations given in op.
func (w *Widget) Execute(ctx context.Context, op *Ops) (err error) {
	if op.Spinner != nil {
		op.Spinner.Start()
		defer func() {
			if err != nil {
				op.Spinner.StopMsg = fmt.Sprintf("%s %s\n",
					utils.DecorateText("⚡ REVEAL", utils.StatusMessage),
					utils.DecorateText("✘ rendering failed", utils.ErrorMessage),
				)
			}
			op.Spinner.Stop()
		}()
	}

	if err := w.Build(ctx); err != nil {
		return err
	}

	base, err := w.loader().Load(ctx, w.cfg.Base)
	if err != nil {
		return &LoadError{Src: w.cfg.Base, Err: err}
	}
	revealImg, err := w.loader().Load(ctx, w.cfg.Reveal)
	if err != nil {
		return &LoadError{Src: w.cfg.Reveal, Err: err}
	}

	canvas, err := NewCanvas(w.Extent(), base, revealImg)
	if err != nil {
		return err
	}
	if op.Blend != "" {
		blend := imop.NewBlend()
		if err := blend.Set(op.Blend); err != nil {
			return err
		}
		canvas.Blend = blend
	}
	if op.Composite != "" {
		cop := imop.InitOp()
		if err := cop.Set(op.Composite); err != nil {
			return err
		}
		canvas.Op = cop
	}
	canvas.Feather = op.Feather
	w.Clip = canvas

	ids := op.Show
	if len(ids) == 0 {
		for _, r := range w.Regions() {
			ids = append(ids, r.ID())
		}
	}
	for _, id := range ids {
		if _, err := w.RevealRegion(id); err != nil {
			return err
		}
	}

	if err := op.write(op.Out, func(dst io.Writer) error {
		return encodeImg(dst, canvas.Composite())
	}); err != nil {
		return err
	}

	if op.Overlay != "" {
		overlay := NewOverlay(canvas.Base())
		defer overlay.Close()

		overlay.Outline = op.Outline
		if err := overlay.DrawCells(w.Cells(), op.Opacity); err != nil {
			return err
		}
		if err := op.write(op.Overlay, func(dst io.Writer) error {
			return encodeImg(dst, overlay.Image())
		}); err != nil {
			return err
		}
	}
	return nil
}

// write opens the destination and hands it to the encoder. A failed encoding
// removes the partially written file.
func (op *Ops) write(out string, encode func(io.Writer) error) error {
	dst, err := op.pathToFile(out)
	if err != nil {
		return err
	}

	f, isFile := dst.(*os.File)
	if isFile && f != os.Stdout {
		defer func() {
			if err := f.Close(); err != nil {
				log.Printf("could not close the opened file: %v", err)
			}
		}()
	}

	if err := encode(dst); err != nil {
		if isFile && f != os.Stdout {
			os.Remove(f.Name())
		}
		return pkgerrors.Wrapf(err, "cannot encode %s", out)
	}
	return nil
}

// pathToFile converts the destination path to a writable file.
func (op *Ops) pathToFile(out string) (io.Writer, error) {
	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdout")
		}
		return os.Stdout, nil
	}

	dst, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to create the destination file: %v", err)
	}
	return dst, nil
}
