// Package classifier separates player chat from engine output in the game console log.
package classifier

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/left4translate/internal/core"
	"github.com/vovakirdan/left4translate/internal/textnorm"
)

// Classifier decides whether a raw log line is chat. It is safe for concurrent use.
type Classifier struct {
	grammar  *Grammar
	prefixes []string
	now      func() time.Time
	log      *zerolog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithGrammar replaces the default chat grammar.
func WithGrammar(g *Grammar) Option {
	return func(c *Classifier) {
		if g != nil {
			c.grammar = g
		}
	}
}

// WithExtraPrefixes adds system prefixes on top of the built-in set.
func WithExtraPrefixes(prefixes ...string) Option {
	return func(c *Classifier) {
		for _, p := range prefixes {
			if p != "" {
				c.prefixes = append(c.prefixes, p)
			}
		}
	}
}

// WithClock sets the time source used for Message.Timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.log = logger
		}
	}
}

// New builds a Classifier with the default grammar and prefixes.
func New(opts ...Option) *Classifier {
	nop := zerolog.Nop()
	c := &Classifier{
		grammar:  DefaultGrammar(),
		prefixes: SystemPrefixes(),
		now:      time.Now,
		log:      &nop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the chat message carried by line, or false for system
// output and noise. It never fails.
func (c *Classifier) Classify(line string) (core.Message, bool) {
	if line == "" {
		return core.Message{}, false
	}
	if c.IsSystem(line) {
		c.log.Debug().Str("line", line).Msg("skipping system line")
		return core.Message{}, false
	}

	m, ok := c.grammar.match(line)
	if !ok {
		c.log.Debug().Str("line", line).Msg("line did not match chat grammar")
		return core.Message{}, false
	}

	player := textnorm.Normalize(m.player)
	content := textnorm.Normalize(m.content)
	if player == "" || content == "" {
		c.log.Debug().Str("line", line).Msg("chat line empty after cleaning")
		return core.Message{}, false
	}

	return core.Message{
		RawLine:   line,
		Team:      core.ParseTeam(m.team),
		Player:    player,
		Content:   content,
		Timestamp: c.now(),
	}, true
}

// IsSystem reports whether line starts with a known engine prefix.
func (c *Classifier) IsSystem(line string) bool {
	for _, p := range c.prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
