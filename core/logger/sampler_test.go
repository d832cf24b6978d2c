package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSampleRate(t *testing.T) {
	cases := map[string]int{
		"":      defaultDebugEvery,
		"all":   1,
		"0":     1,
		"10":    10,
		"1/20":  20,
		"2/10":  5,
		"3/3":   1,
		"x/y":   defaultDebugEvery,
		"-4":    defaultDebugEvery,
		"bogus": defaultDebugEvery,
	}
	for raw, want := range cases {
		assert.Equal(t, want, parseSampleRate(raw), raw)
	}
}

func TestDebugSamplerLetsFirstThenEveryNth(t *testing.T) {
	s := newDebugSampler(3)
	var got []bool
	for i := 0; i < 7; i++ {
		got = append(got, s.Allow())
	}
	assert.Equal(t, []bool{true, false, false, true, false, false, true}, got)

	s.Set(1)
	for i := 0; i < 3; i++ {
		assert.True(t, s.Allow())
	}
}

func TestShouldSampleDebugFollowsGate(t *testing.T) {
	defer func(g *debugSampler, trace bool) { debugGate, traceAll = g, trace }(debugGate, traceAll)

	debugGate, traceAll = newDebugSampler(2), false
	assert.True(t, ShouldSampleDebug())
	assert.False(t, ShouldSampleDebug())
	assert.True(t, ShouldSampleDebug())

	traceAll = true
	assert.True(t, ShouldSampleDebug())
	assert.True(t, ShouldSampleDebug())
}
