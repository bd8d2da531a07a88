package profiling

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fllarpy/camprobe/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_Add(t *testing.T) {
	set := NewSet(Config{Enabled: true, Clock: clock.NewManual(1)})

	read := set.Add("stream read")
	decode := set.Add("frame decode")
	require.NotNil(t, read)
	require.NotNil(t, decode)

	assert.Same(t, read, set.Add("stream read"), "adding a label twice should return the existing record")
	assert.Same(t, decode, set.Lookup("frame decode"))
	assert.Nil(t, set.Lookup("missing"))

	profiles := set.Profiles()
	require.Len(t, profiles, 2)
	assert.Equal(t, "stream read", profiles[0].Label())
	assert.Equal(t, "frame decode", profiles[1].Label())
}

func TestSet_Disabled(t *testing.T) {
	set := NewSet(Config{Enabled: false})
	assert.False(t, set.Enabled())

	p := set.Add("stream read")
	assert.Nil(t, p)

	called := false
	Run(p, func() { called = true })
	assert.True(t, called)

	set.Observe("span", 10)
	assert.Empty(t, set.Snapshot())
}

func TestSet_Observe(t *testing.T) {
	set := NewSet(Config{Enabled: true, Clock: clock.NewManual(1)})

	set.Observe("stream /stream", 300)
	set.Observe("stream /stream", 100)

	snap := set.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, Stats{Label: "stream /stream", Runs: 2, Sum: 400, Mean: 200, Min: 100, Max: 300}, snap[0])
}

func TestSet_WriteTable(t *testing.T) {
	clk := clock.NewManual(10)
	set := NewSet(Config{Enabled: true, Clock: clk})
	read := set.Add("stream read")
	set.Add("display")

	Run(read, func() { clk.Advance(800) })

	var buf bytes.Buffer
	require.NoError(t, set.WriteTable(&buf))

	lines := strings.Split(strings.TrimPrefix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4, "header, two rows, trailing newline")
	assert.True(t, strings.HasPrefix(lines[0], "function"))
	assert.Equal(t, "stream read                           1      800      800      800      800", lines[1])
	assert.Equal(t, "display                               0        0        0        0        0", lines[2])
}
