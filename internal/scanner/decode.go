package scanner

import (
    "image"
    "image/draw"

    "github.com/makiuchi-d/gozxing"
    "github.com/makiuchi-d/gozxing/qrcode"
)

// DecodeFrame extracts the text payload of a QR code from a single
// image frame.  It returns an error when the frame carries no readable
// code; during continuous scanning callers treat that as a miss, not a
// failure.  The same function backs the staff photo-upload fallback,
// so an uploaded still and a live camera frame decode identically.
func DecodeFrame(img image.Image) (string, error) {
    bmp, err := gozxing.NewBinaryBitmapFromImage(img)
    if err != nil {
        return "", err
    }
    result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
    if err != nil {
        return "", err
    }
    return result.GetText(), nil
}

// cropCenter cuts a centred box of the given side out of a frame,
// mirroring the detection box drawn over the camera preview.  Frames
// smaller than the box, or a zero box, pass through untouched.
func cropCenter(img image.Image, box int) image.Image {
    if img == nil || box <= 0 {
        return img
    }
    b := img.Bounds()
    if b.Dx() <= box || b.Dy() <= box {
        return img
    }
    x0 := b.Min.X + (b.Dx()-box)/2
    y0 := b.Min.Y + (b.Dy()-box)/2
    crop := image.NewRGBA(image.Rect(0, 0, box, box))
    draw.Draw(crop, crop.Bounds(), img, image.Pt(x0, y0), draw.Src)
    return crop
}
