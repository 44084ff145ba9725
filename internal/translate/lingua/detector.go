// Package lingua detects languages in-process with lingua-go, so detection
// does not spend remote quota.
package lingua

import (
	"context"
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/left4translate/internal/translate"
)

// DefaultLanguages are the languages commonly seen on community servers.
var DefaultLanguages = []string{"en", "es", "pt", "fr", "de", "it", "ru"}

// Detector implements translate.LocalDetector.
type Detector struct {
	detector lingua.LanguageDetector
	log      *zerolog.Logger
}

// New builds a detector restricted to the given ISO 639-1 codes. An empty
// list selects DefaultLanguages.
func New(codes []string, logger *zerolog.Logger) (*Detector, error) {
	if len(codes) == 0 {
		codes = DefaultLanguages
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	byCode := make(map[string]lingua.Language)
	for _, l := range lingua.AllLanguages() {
		byCode[strings.ToLower(l.IsoCode639_1().String())] = l
	}

	langs := make([]lingua.Language, 0, len(codes))
	for _, code := range codes {
		l, ok := byCode[translate.BaseLanguage(code)]
		if !ok {
			return nil, fmt.Errorf("lingua: unsupported language %q", code)
		}
		langs = append(langs, l)
	}
	if len(langs) < 2 {
		return nil, fmt.Errorf("lingua: at least two languages are required")
	}

	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(langs...).
		WithMinimumRelativeDistance(0.1).
		Build()
	logger.Info().Strs("languages", codes).Msg("local language detector initialized")
	return &Detector{detector: d, log: logger}, nil
}

// Local marks the detector as in-process.
func (d *Detector) Local() bool { return true }

// Detect returns the most likely language. Text the model cannot decide on
// is reported as undetectable.
func (d *Detector) Detect(ctx context.Context, text string) (translate.Detection, error) {
	if err := ctx.Err(); err != nil {
		return translate.Detection{}, err
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return translate.Detection{}, translate.UndetectableError("detect", nil)
	}
	conf := d.detector.ComputeLanguageConfidence(text, lang)
	return translate.Detection{
		Language:   strings.ToLower(lang.IsoCode639_1().String()),
		Confidence: conf,
	}, nil
}
