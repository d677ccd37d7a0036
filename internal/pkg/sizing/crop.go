package sizing

import "github.com/ds124wfegd/imagekit/internal/entity"

// SquareCrop returns the largest square inside width x height placed by anchor.
// Unknown anchors behave like center. The rectangle always lies inside the image.
func SquareCrop(width, height int, anchor entity.Anchor) entity.Rect {
	side := min(width, height)
	centerX := (width - side) / 2
	centerY := (height - side) / 2

	switch anchor {
	case entity.AnchorTop:
		return entity.Rect{X: centerX, Y: 0, Side: side}
	case entity.AnchorBottom:
		return entity.Rect{X: centerX, Y: height - side, Side: side}
	case entity.AnchorLeft:
		return entity.Rect{X: 0, Y: centerY, Side: side}
	case entity.AnchorRight:
		return entity.Rect{X: width - side, Y: centerY, Side: side}
	default:
		return entity.Rect{X: centerX, Y: centerY, Side: side}
	}
}
