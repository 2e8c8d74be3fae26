package parser

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEvents_SkipsBlankAndMalformed(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"thread.started","thread_id":"t-1"}`,
		``,
		`   `,
		`not json at all`,
		`{"type":"turn.started"`,
		`[1,2,3]`,
		`null`,
		`  {"type":"turn.completed","usage":{"input_tokens":4}}  `,
	}, "\n")

	events, stats, err := ReadEvents(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "thread.started", events[0].Type)
	assert.Equal(t, 1, events[0].Line)
	assert.Equal(t, "turn.completed", events[1].Type)
	assert.Equal(t, 8, events[1].Line)

	assert.Equal(t, Stats{Lines: 8, Blank: 2, Malformed: 4, Decoded: 2}, stats)
}

func TestReadEvents_Empty(t *testing.T) {
	events, stats, err := ReadEvents(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Zero(t, stats)
}

func TestReadEvents_NoTrailingNewline(t *testing.T) {
	events, _, err := ReadEvents(strings.NewReader("{\"type\":\"a\"}\n{\"type\":\"b\"}"))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[1].Type)
}

func TestReadEvents_LongLine(t *testing.T) {
	long := `{"type":"item.completed","item":{"text":"` + strings.Repeat("x", 3*1024*1024) + `"}}`

	events, _, err := ReadEvents(strings.NewReader(long + "\n"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Len(t, GetString(GetMap(events[0].Payload, "item"), "text"), 3*1024*1024)
}

type failingReader struct {
	data string
	done bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.done {
		return 0, errors.New("pipe broken")
	}
	f.done = true
	return copy(p, f.data), nil
}

func TestReadEvents_ReadFault(t *testing.T) {
	events, _, err := ReadEvents(&failingReader{data: "{\"type\":\"a\"}\n"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadInput)
	assert.Contains(t, err.Error(), "pipe broken")
	assert.Len(t, events, 1)
}

func TestReadEvents_MissingType(t *testing.T) {
	events, _, err := ReadEvents(strings.NewReader(`{"thread_id":"x"}`))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Empty(t, events[0].Type)
}

func TestDecodeLine(t *testing.T) {
	event, ok := DecodeLine([]byte(" {\"type\":\"x\"} \r\n"))
	require.True(t, ok)
	assert.Equal(t, "x", event.Type)

	_, ok = DecodeLine([]byte("\"just a string\""))
	assert.False(t, ok)
}

var _ io.Reader = (*failingReader)(nil)
