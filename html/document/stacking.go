package document

import (
	bo "github.com/laughinglion/PeachPDF-sub000/html/boxes"
)

// StackingContext groups the boxes of a subtree by painting layer:
// backgrounds of blocks and cells, then floats, then inline content,
// then positioned descendants, each in tree order.
//
// Floats, inline blocks and boxes clipping their content are painted
// atomically, as if they created a stacking context.
type StackingContext struct {
	box *bo.Box

	blocksAndCells []*bo.Box
	floats         []StackingContext
	// inline boxes and text, whose backgrounds are painted
	// on their line rectangles
	inlines []*bo.Box
	// inline blocks, painted with the inline content
	atomics []StackingContext
	// list items whose marker is painted with the inline content
	markers []*bo.Box

	positioned []StackingContext
}

// NewStackingContextFromBox groups the descendants of [box].
func NewStackingContextFromBox(box *bo.Box) StackingContext {
	sc := StackingContext{box: box}
	if box.Marker != nil {
		sc.markers = append(sc.markers, box)
	}
	for _, child := range box.Children {
		sc.dispatch(child)
	}
	return sc
}

// paintedAlone returns true for the boxes painted as a whole, in one layer.
func paintedAlone(box *bo.Box) bool {
	return box.IsFloated() || box.IsAtomicInline() || clips(box)
}

func isInlineLevel(box *bo.Box) bool {
	return box.Display() == "inline"
}

func (sc *StackingContext) dispatch(box *bo.Box) {
	switch {
	case box.Display() == "none" || box.Kind == bo.KindSpacer:
		return
	case box.IsPositioned():
		sc.positioned = append(sc.positioned, NewStackingContextFromBox(box))
		return
	case box.IsAtomicInline():
		sc.atomics = append(sc.atomics, NewStackingContextFromBox(box))
		return
	case paintedAlone(box):
		sc.floats = append(sc.floats, NewStackingContextFromBox(box))
		return
	case isInlineLevel(box):
		sc.inlines = append(sc.inlines, box)
	default:
		sc.blocksAndCells = append(sc.blocksAndCells, box)
		if box.Marker != nil {
			sc.markers = append(sc.markers, box)
		}
	}
	for _, child := range box.Children {
		sc.dispatch(child)
	}
}
