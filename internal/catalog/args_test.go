package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type decodeTarget struct {
	URL      string            `cty:"url"`
	Retries  int               `cty:"retries"`
	Insecure bool              `cty:"insecure"`
	Tags     []string          `cty:"tags"`
	Headers  map[string]string `cty:"headers"`
	internal string
}

func TestArgs_Decode(t *testing.T) {
	args := NewArgs(map[string]cty.Value{
		"url":      cty.StringVal("http://localhost"),
		"retries":  cty.StringVal("3"),
		"insecure": cty.True,
		"tags":     cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}),
		"headers":  cty.ObjectVal(map[string]cty.Value{"X-Id": cty.StringVal("1")}),
	})

	var got decodeTarget
	require.NoError(t, args.Decode(&got))
	assert.Equal(t, decodeTarget{
		URL:      "http://localhost",
		Retries:  3,
		Insecure: true,
		Tags:     []string{"a", "b"},
		Headers:  map[string]string{"X-Id": "1"},
	}, got)
}

func TestArgs_DecodeKeepsDefaults(t *testing.T) {
	got := decodeTarget{URL: "default", Retries: 5}
	args := NewArgs(map[string]cty.Value{"url": cty.NullVal(cty.String)})

	require.NoError(t, args.Decode(&got))
	assert.Equal(t, "default", got.URL)
	assert.Equal(t, 5, got.Retries)
}

func TestArgs_DecodeErrors(t *testing.T) {
	var got decodeTarget
	err := NewArgs(map[string]cty.Value{"retries": cty.StringVal("many")}).Decode(&got)
	require.ErrorContains(t, err, "failed to decode argument 'retries'")

	err = NewArgs(map[string]cty.Value{"internal": cty.True, "zzz": cty.True}).Decode(&got)
	require.EqualError(t, err, "unsupported arguments: internal, zzz")

	err = NewArgs(nil).Decode(got)
	require.ErrorContains(t, err, "non-nil pointer to a struct")
}

func TestArgs_NamesAndValue(t *testing.T) {
	args := NewArgs(map[string]cty.Value{"b": cty.True, "a": cty.False})
	assert.Equal(t, []string{"a", "b"}, args.Names())
	assert.Equal(t, 2, args.Len())
	v, ok := args.Value("a")
	require.True(t, ok)
	assert.True(t, v.RawEquals(cty.False))
}

func TestValueFromGo(t *testing.T) {
	v, err := ValueFromGo(map[string]any{
		"name":  "x",
		"count": 2,
		"ratio": 0.5,
		"on":    true,
		"list":  []any{"a", 1},
		"none":  nil,
		"empty": map[string]any{},
	})
	require.NoError(t, err)
	require.True(t, v.Type().IsObjectType())
	assert.Equal(t, "x", v.GetAttr("name").AsString())
	assert.True(t, v.GetAttr("count").Equals(cty.NumberIntVal(2)).True())
	assert.True(t, v.GetAttr("on").True())
	assert.Equal(t, 2, v.GetAttr("list").LengthInt())
	assert.True(t, v.GetAttr("none").IsNull())

	_, err = ValueFromGo(struct{}{})
	require.ErrorContains(t, err, "unsupported value of type struct {}")
}
