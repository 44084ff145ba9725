package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/left4translate/internal/core"
	"github.com/vovakirdan/left4translate/internal/display"
	"github.com/vovakirdan/left4translate/internal/textnorm"
)

// DefaultSpeaker names transcripts posted without a speaker.
const DefaultSpeaker = "Voice"

// Classifier extracts chat messages from log lines.
type Classifier interface {
	Classify(line string) (core.Message, bool)
}

// Translator turns text into the target language. An empty source means
// unknown.
type Translator interface {
	Translate(ctx context.Context, text, source string) (string, error)
}

// Pipeline turns log lines and transcripts into displayed entries.
type Pipeline struct {
	classifier Classifier
	translator Translator
	sink       display.Sink
	ttl        time.Duration
	now        func() time.Time
	newID      func() string
	group      *errgroup.Group
	log        *zerolog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithTTL sets how long entries stay on screen. Zero keeps them forever.
func WithTTL(ttl time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if ttl >= 0 {
			p.ttl = ttl
		}
	}
}

// WithWorkers bounds how many submitted lines are translated at once.
func WithWorkers(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.group.SetLimit(n)
		}
	}
}

// WithPipelineClock replaces time.Now.
func WithPipelineClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithIDs replaces the entry ID generator.
func WithIDs(newID func() string) PipelineOption {
	return func(p *Pipeline) {
		if newID != nil {
			p.newID = newID
		}
	}
}

// WithPipelineLogger sets the logger.
func WithPipelineLogger(logger *zerolog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.log = logger
		}
	}
}

// NewPipeline creates a pipeline writing to sink.
func NewPipeline(c Classifier, t Translator, sink display.Sink, opts ...PipelineOption) *Pipeline {
	nop := zerolog.Nop()
	p := &Pipeline{
		classifier: c,
		translator: t,
		sink:       sink,
		now:        time.Now,
		newID:      uuid.NewString,
		group:      new(errgroup.Group),
		log:        &nop,
	}
	p.group.SetLimit(1)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit handles line on a worker goroutine. It blocks while every worker
// is busy so a burst of log output cannot queue unbounded work.
func (p *Pipeline) Submit(ctx context.Context, line string) {
	p.group.Go(func() error {
		p.HandleLine(ctx, line)
		return nil
	})
}

// Wait blocks until every submitted line is handled.
func (p *Pipeline) Wait() {
	_ = p.group.Wait()
}

// HandleLine classifies line and, for chat, translates and shows it. It
// reports whether an entry was shown. A failed translation shows the
// original text.
func (p *Pipeline) HandleLine(ctx context.Context, line string) (core.Entry, bool) {
	msg, ok := p.classifier.Classify(line)
	if !ok {
		return core.Entry{}, false
	}

	translated, err := p.translator.Translate(ctx, msg.Content, "")
	if err != nil {
		p.log.Warn().Err(err).Str("player", msg.Player).Msg("translation failed, showing original")
		translated = msg.Content
	}

	entry := p.newEntry(core.SourceChat, msg.Player, msg.Content, translated, "")
	entry.Team = msg.Team
	entry.TeamChat = msg.IsTeamChat()

	p.show(ctx, entry)
	return entry, true
}

// HandleTranscript translates a speech transcript in a known language and
// shows it. Translation failures fall back to the transcript.
func (p *Pipeline) HandleTranscript(ctx context.Context, speaker, text, language string) (core.Entry, error) {
	text = strings.TrimSpace(text)
	if textnorm.IsBlank(text) {
		return core.Entry{}, fmt.Errorf("%w: empty transcript", core.ErrBadRequest)
	}
	speaker = strings.TrimSpace(speaker)
	if speaker == "" {
		speaker = DefaultSpeaker
	}

	translated, err := p.translator.Translate(ctx, text, language)
	if err != nil {
		if ctx.Err() != nil {
			return core.Entry{}, ctx.Err()
		}
		p.log.Warn().Err(err).Str("speaker", speaker).Msg("transcript translation failed, showing original")
		translated = text
	}

	entry := p.newEntry(core.SourceVoice, speaker, text, translated, language)
	p.show(ctx, entry)
	return entry, nil
}

func (p *Pipeline) newEntry(source core.Source, player, original, translated, language string) core.Entry {
	now := p.now()
	e := core.Entry{
		ID:             p.newID(),
		Source:         source,
		Player:         player,
		Original:       original,
		Translated:     translated,
		SourceLanguage: language,
		CreatedAt:      now,
	}
	if p.ttl > 0 {
		e.ExpiresAt = now.Add(p.ttl)
	}
	return e
}

func (p *Pipeline) show(ctx context.Context, e core.Entry) {
	if err := p.sink.Show(ctx, e); err != nil {
		p.log.Warn().Err(err).Str("entry_id", e.ID).Msg("failed to show entry")
	}
	p.log.Debug().
		Str("source", string(e.Source)).
		Str("player", e.Player).
		Bool("team_chat", e.TeamChat).
		Bool("translated", e.WasTranslated()).
		Msg("entry shown")
}
