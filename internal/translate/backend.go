package translate

import "context"

// Detection is a backend's best guess at a text's language.
type Detection struct {
	Language   string
	Confidence float64
}

// Translator turns text into the target language. An empty source lets the
// backend detect it.
type Translator interface {
	Translate(ctx context.Context, text, target, source string) (string, error)
}

// Detector identifies the language of text.
type Detector interface {
	Detect(ctx context.Context, text string) (Detection, error)
}

// Backend is a remote service providing both operations.
type Backend interface {
	Translator
	Detector
}
