package capture

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Prepare mirrors frame horizontally when mirror is set and resizes it to
// width x height if the device delivered another size. The frame is
// modified in place.
func Prepare(frame *gocv.Mat, width, height int, mirror bool) error {
	if frame == nil || frame.Empty() {
		return fmt.Errorf("%w: captured frame is empty", ErrReadFailed)
	}

	if mirror {
		// Flip around the vertical axis so the overlay reads like a mirror.
		gocv.Flip(*frame, frame, 1)
	}

	if frame.Cols() != width || frame.Rows() != height {
		resized := gocv.NewMat()
		gocv.Resize(*frame, &resized, image.Point{X: width, Y: height}, 0, 0, gocv.InterpolationLinear)
		if resized.Empty() {
			resized.Close()
			return fmt.Errorf("resize frame to %dx%d failed", width, height)
		}
		frame.Close()
		*frame = resized
	}

	return nil
}
