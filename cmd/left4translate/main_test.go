package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/left4translate/internal/classifier"
	"github.com/vovakirdan/left4translate/internal/proto"
)

func TestClassifyLines(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		"(Survivor) Ellis :  cuidado la bruja",
		"Loading map c1m1_hotel\r",
		"Nick :  hola",
	}, "\n"))

	var out bytes.Buffer
	require.NoError(t, classifyLines(classifier.New(), in, &out, false))

	assert.Equal(t,
		"chat\tSurvivor\tEllis\tcuidado la bruja\n"+
			"skip\tLoading map c1m1_hotel\n"+
			"chat\t-\tNick\thola\n",
		out.String())
}

func TestClassifyLinesChatOnly(t *testing.T) {
	in := strings.NewReader("Loading map c1m1_hotel\nNick :  hola\n")

	var out bytes.Buffer
	require.NoError(t, classifyLines(classifier.New(), in, &out, true))
	assert.Equal(t, "chat\t-\tNick\thola\n", out.String())
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"run", "classify", "translate", "detect", "token", "watch"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))
}

func TestPrintEntry(t *testing.T) {
	var out bytes.Buffer
	printEntry(&out, proto.Entry{Player: "Ellis", Original: "hola", Translated: "hello", Language: "es", TeamChat: true, Team: "Survivor"})
	printEntry(&out, proto.Entry{Player: "Nick", Original: "gg", Translated: "gg"})

	assert.Equal(t, "(Survivor) Ellis: hello  [es: hola]\nNick: gg\n", out.String())
}
