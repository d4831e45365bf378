package daw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestParseParamValue(t *testing.T) {
	cases := []struct {
		raw      string
		wantKind ParamValueKind
	}{
		{"0.5", KindNumber},
		{`"min"`, KindMin},
		{`"max"`, KindMax},
		{`"75%"`, KindPercent},
		{`"-6dB"`, KindDecibel},
		{`"0.25"`, KindNumericString},
		{`"Off"`, KindLabel},
	}
	for _, c := range cases {
		v, err := ParseParamValue(gjson.Parse(c.raw))
		require.NoError(t, err, c.raw)
		assert.Equal(t, c.wantKind, v.Kind, c.raw)
	}
}

func TestNormalize_MinMaxPercent(t *testing.T) {
	p := &Parameter{Min: -10, Max: 10}

	v, err := Normalize(p, ParamValue{Kind: KindMin})
	require.NoError(t, err)
	assert.Equal(t, -10.0, v)

	v, err = Normalize(p, ParamValue{Kind: KindMax})
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	v, err = Normalize(p, ParamValue{Kind: KindPercent, Num: 50})
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestNormalize_Label(t *testing.T) {
	p := &Parameter{IsQuantized: true, ValueItems: []string{"Off", "On"}}

	v, err := Normalize(p, ParamValue{Kind: KindLabel, Str: "on"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	_, err = Normalize(p, ParamValue{Kind: KindLabel, Str: "Maybe"})
	assert.ErrorIs(t, err, ErrBadValue)
}

func TestParameter_SetClampsAndQuantizes(t *testing.T) {
	p := &Parameter{Min: 0, Max: 1}
	assert.Equal(t, 1.0, p.Set(5))
	assert.Equal(t, 0.0, p.Set(-5))

	q := &Parameter{Min: 0, Max: 3, IsQuantized: true}
	assert.Equal(t, 2.0, q.Set(1.6))
}

func TestMatchName(t *testing.T) {
	assert.True(t, MatchName("Lead Synth", "synth", MatchContains))
	assert.False(t, MatchName("Lead Synth", "synth", MatchStartsWith))
	assert.True(t, MatchName("Lead Synth", "lead synth", MatchEquals))
	assert.True(t, MatchName("Lead Synth", "LEAD", MatchStartsWith))
}

func TestResolveOption(t *testing.T) {
	opts := []RoutingOption{{DisplayName: "In 1"}, {DisplayName: "In 2"}, {DisplayName: "Resampling"}}

	opt, err := ResolveOption(opts, 1)
	require.NoError(t, err)
	assert.Equal(t, "In 2", opt.DisplayName)

	opt, err = ResolveOption(opts, "resamp")
	require.NoError(t, err)
	assert.Equal(t, "Resampling", opt.DisplayName)

	opt, err = ResolveOption(opts, nil)
	require.NoError(t, err)
	assert.Nil(t, opt)

	opt, err = ResolveOption(opts, 99)
	require.NoError(t, err)
	assert.Nil(t, opt)

	opt, err = ResolveOption(opts, "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, opt)
}
