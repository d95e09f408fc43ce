package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// element parses markup as the only child of an svg root.
func element(t *testing.T, markup string) *Element {
	t.Helper()
	doc, err := ParseSvg(`<svg xmlns="http://www.w3.org/2000/svg">`+markup+`</svg>`, "test")
	require.NoError(t, err)
	require.Len(t, doc.Root.Children, 1)
	return doc.Root.Children[0]
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		markup string
		want   string
	}{
		{`<rect x="0" y="0" width="10" height="10"/>`, "M 0 0 l 10 0 l 0 10 l -10 0 Z"},
		{`<rect width="5.5" height="2" x="1px"/>`, "M 1 0 l 5.5 0 l 0 2 l -5.5 0 Z"},
		{`<rect width="0" height="3"/>`, "M 0 0 l 0 0 l 0 3 l -0 0 Z"},
		{`<line x1="1" y1="2" x2="3" y2="4"/>`, "M 1 2 L 3 4"},
		{`<line x2="3"/>`, "M 0 0 L 3 0"},
		{`<polyline points="0,0 10,10 20,0"/>`, "M 0 0 L 10 10 L 20 0"},
		{`<polygon points="0 0, 10 10 20 0"/>`, "M 0 0 L 10 10 L 20 0 Z"},
		{`<polyline points="0,0 .5,1 2,2"/>`, "M 0 0 L 0.5 1 L 2 2"},
		{`<circle cx="10" cy="10" r="5"/>`, "M 5 10 A 5 5 0 1 0 15 10 A 5 5 0 1 0 5 10"},
		{`<ellipse cx="0" cy="0" rx="4" ry="2"/>`, "M -4 0 A 4 2 0 1 0 4 0 A 4 2 0 1 0 -4 0"},
		{`<ellipse rx="3"/>`, "M -3 0 A 3 3 0 1 0 3 0 A 3 3 0 1 0 -3 0"},
	}

	for _, c := range cases {
		d, ok, err := Normalize(element(t, c.markup))
		require.NoError(t, err, c.markup)
		assert.True(t, ok, c.markup)
		assert.Equal(t, c.want, d, c.markup)
	}
}

func TestNormalizeSkipsEmptyShapes(t *testing.T) {
	for _, markup := range []string{
		`<circle cx="10" cy="10" r="0"/>`,
		`<ellipse rx="3" ry="0"/>`,
		`<polyline points=""/>`,
		`<polygon/>`,
		`<circle cx="5" cy="5"/>`,
		`<ellipse/>`,
		`<ellipse cx="1" rx="0"/>`,
	} {
		d, ok, err := Normalize(element(t, markup))
		require.NoError(t, err, markup)
		assert.False(t, ok, markup)
		assert.Empty(t, d, markup)
	}
}

func TestNormalizeMalformed(t *testing.T) {
	for _, markup := range []string{
		`<rect x="0" y="0" width="abc" height="10"/>`,
		`<rect x="0" y="0" height="10"/>`,
		`<line x1="1" y1="zz"/>`,
		`<polyline points="0,0 10"/>`,
		`<polygon points="0,0 a,b"/>`,
		`<ellipse rx="1mm" ry="2"/>`,
		`<polyline points="0,0 1,1 ;"/>`,
	} {
		_, _, err := Normalize(element(t, markup))
		assert.ErrorIs(t, err, ErrMalformedGeometry, markup)
	}
}

func TestNormalizeKeepsTransformAttribute(t *testing.T) {
	e := element(t, `<rect width="1" height="1" transform="translate(5 5)"/>`)
	d, ok, err := Normalize(e)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "M 0 0 l 1 0 l 0 1 l -1 0 Z", d)
	assert.Equal(t, "translate(5 5)", e.Attr("transform"))
}
