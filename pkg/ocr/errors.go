package ocr

import "errors"

// ErrDecode is returned when the uploaded bytes are not a readable image.
var ErrDecode = errors.New("unable to decode image")

// ErrRecognize is returned when the OCR engine fails on a decoded image.
var ErrRecognize = errors.New("text recognition failed")

// ErrNoItemsFound is returned when OCR succeeded but no price-shaped lines survived.
var ErrNoItemsFound = errors.New("no valid items found")
