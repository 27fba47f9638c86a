package layout

import (
	"errors"

	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	bo "github.com/laughinglion/PeachPDF-sub000/html/boxes"
)

// placeholderSize is the size of images which failed to load.
const placeholderSize = 20

// the default size of frames
const frameWidth, frameHeight = 300, 150

var errNoImageLoader = errors.New("no image loader")

// measureTree resets the line boxes of the previous pass and measures
// the words of every box. Text measures are cached per box and font.
func (lc *layoutContext) measureTree(root *bo.Box) {
	root.Walk(func(box *bo.Box) bool {
		if box.Display() == "none" {
			return false
		}
		box.LineBoxes = nil
		box.Rectangles = nil
		lc.measureBox(box)
		if box.Marker != nil {
			box.Marker.LineBoxes = nil
			lc.measureBox(box.Marker)
		}
		return true
	})
}

func (lc *layoutContext) measureBox(box *bo.Box) {
	if len(box.Words) == 0 {
		return
	}
	defer lc.recoverBox(box, KindMeasurement)
	switch box.Kind {
	case bo.KindImage:
		lc.measureImage(box)
	case bo.KindFrame:
		measureFrame(box)
	default:
		lc.measureWords(box)
	}
}

// measureWords sets the size of the text words of the box.
func (lc *layoutContext) measureWords(box *bo.Box) {
	font := box.Font()
	key := font.Key()
	if box.MeasuredWith(key) {
		return
	}
	spaceWidth, lineHeight := lc.measurer.MeasureText(" ", font)
	spaceWidth += box.Style.WordSpacing()
	for _, w := range box.Words {
		w.Owner = box
		w.SpaceWidth = spaceWidth
		switch {
		case w.IsLineBreak:
			w.Width, w.Height = 0, lineHeight
		case w.Text == "":
			// collapsed white space only
			w.Width, w.Height = 0, lineHeight
		default:
			w.Width, w.Height = lc.measurer.MeasureText(w.Text, font)
		}
	}
	box.SetMeasuredWith(key)
}

// replacedSize returns the used size of a replaced content
// of intrinsic size (iw, ih), keeping the ratio when only one
// dimension is specified.
func replacedSize(box *bo.Box, iw, ih pr.Float, cbWidth pr.MaybeFloat) (pr.Float, pr.Float) {
	w, h := specifiedWidth(box, cbWidth), specifiedHeight(box, pr.AutoF)
	switch {
	case pr.IsAuto(w) && pr.IsAuto(h):
		return iw, ih
	case pr.IsAuto(w):
		if ih == 0 {
			return iw, h.V()
		}
		return h.V() * iw / ih, h.V()
	case pr.IsAuto(h):
		if iw == 0 {
			return w.V(), ih
		}
		return w.V(), w.V() * ih / iw
	default:
		return w.V(), h.V()
	}
}

// measureImage loads the image of the box, if needed, and sets the size
// of its word. A failure is reported and replaced by a placeholder
// with an error border.
func (lc *layoutContext) measureImage(box *bo.Box) {
	word := box.Words[0]
	word.Owner = box
	if box.Image == nil && !box.ErrorBorder {
		var err error
		if lc.opts.Images == nil {
			err = errNoImageLoader
		} else {
			box.Image, err = lc.opts.Images.LoadImage(lc.ctx, box.ImageSrc)
		}
		if err != nil {
			box.ErrorBorder = true
			lc.report(KindMeasurement, box, err)
		}
	}
	if box.ErrorBorder {
		word.Image = nil
		word.Width, word.Height = placeholderSize, placeholderSize
		return
	}
	word.Image = box.Image
	sizeReplaced(box, pr.AutoF)
}

// frames have no intrinsic content: their size only depends on the style
func measureFrame(box *bo.Box) {
	box.Words[0].Owner = box
	sizeReplaced(box, pr.AutoF)
}

// sizeReplaced sets the size of the word of an image or frame box,
// resolving percentages against [cbWidth].
func sizeReplaced(box *bo.Box, cbWidth pr.MaybeFloat) {
	word := box.Words[0]
	var iw, ih pr.Float
	switch {
	case box.Kind == bo.KindFrame:
		iw, ih = frameWidth, frameHeight
	case box.ErrorBorder || box.Image == nil:
		return // placeholder
	default:
		iw, ih = pr.Float(box.Image.Width), pr.Float(box.Image.Height)
	}
	word.Width, word.Height = replacedSize(box, iw, ih, cbWidth)
}
