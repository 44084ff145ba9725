package classifier

import (
	"errors"
	"fmt"
	"regexp"
)

// Named capture groups a chat grammar exposes.
const (
	GroupTeam    = "team"
	GroupPlayer  = "player"
	GroupContent = "content"
)

// DefaultPattern matches "[(Team) ]player : content". The player name allows
// letters, digits, whitespace, the two name decorations and the low control
// bytes the game uses for color codes. The separator needs at least one space
// on both sides of the colon, which keeps "Key: value" diagnostics out.
const DefaultPattern = `^(?:\((?P<team>Survivor|Infected)\) +)?` +
	`(?P<player>[\p{L}\p{N}\s♥☺\x01-\x05]{2,}?)` +
	` +: +` +
	`(?P<content>.+)$`

var ErrMissingGroup = errors.New("grammar is missing a required named group")

// Grammar is a compiled chat-line pattern with resolved group indexes.
type Grammar struct {
	re      *regexp.Regexp
	team    int
	player  int
	content int
}

// DefaultGrammar returns the built-in grammar.
func DefaultGrammar() *Grammar {
	g, err := NewGrammar(DefaultPattern)
	if err != nil {
		panic(err)
	}
	return g
}

// NewGrammar compiles pattern and checks that it names the player and content
// groups. The team group is optional.
func NewGrammar(pattern string) (*Grammar, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile grammar: %w", err)
	}

	g := &Grammar{
		re:      re,
		team:    re.SubexpIndex(GroupTeam),
		player:  re.SubexpIndex(GroupPlayer),
		content: re.SubexpIndex(GroupContent),
	}
	if g.player < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingGroup, GroupPlayer)
	}
	if g.content < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingGroup, GroupContent)
	}
	return g, nil
}

// String returns the source pattern.
func (g *Grammar) String() string {
	return g.re.String()
}

type match struct {
	team    string
	player  string
	content string
}

func (g *Grammar) match(line string) (match, bool) {
	sub := g.re.FindStringSubmatch(line)
	if sub == nil {
		return match{}, false
	}
	m := match{
		player:  sub[g.player],
		content: sub[g.content],
	}
	if g.team >= 0 {
		m.team = sub[g.team]
	}
	return m, true
}
