package plot

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasalvit/svgplot"
	"github.com/vasalvit/svgplot/device"
)

const header = `<svg xmlns="http://www.w3.org/2000/svg"
  xmlns:xlink="http://www.w3.org/1999/xlink"
  xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">`

func document(body string) string {
	return header + body + "</svg>"
}

func run(t *testing.T, body string, opts Options) (*Result, *recorder, error) {
	t.Helper()
	doc, err := svg.ParseSvg(document(body), "test.svg")
	require.NoError(t, err)
	ch := &recorder{}
	res, err := Run(doc, ch, opts, quietLogger())
	assert.Equal(t, 1, ch.closed, "channel closed once")
	return res, ch, err
}

func sameCommands(t *testing.T, want, got []string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestRunStraightPath(t *testing.T) {
	res, ch, err := run(t, `<path d="M0 0 L100 0"/>`, testOptions(AllLayers()))
	require.NoError(t, err)

	sameCommands(t, []string{
		"G01 Z1000",
		"G01 Z1000",
		"G01 Z0",
		"G01 X100 Y2000",
		"G01 Z1000",
		"G01 X1000 Y1000",
	}, ch.sent)

	assert.Equal(t, svg.Progress{Layer: 0, Node: 3, LastPath: 1, LastPathNC: 2}, res.Progress)
	assert.Equal(t, 1, res.State.PathCount)
	assert.NotEmpty(t, res.ID)
}

func TestRunRectangle(t *testing.T) {
	res, ch, err := run(t, `<rect x="0" y="0" width="10" height="10"/>`, testOptions(AllLayers()))
	require.NoError(t, err)

	// four sides plus the first move and the way home
	assert.Equal(t, 6, res.State.NodeCount)
	assert.Equal(t, 1, res.State.PathCount)
	assert.Equal(t, "G01 X1000 Y1000", ch.sent[len(ch.sent)-1])
}

func TestRunZeroCircle(t *testing.T) {
	res, ch, err := run(t, `<circle cx="5" cy="5" r="0"/>`, testOptions(AllLayers()))
	require.NoError(t, err)

	assert.Empty(t, ch.sent)
	assert.Zero(t, res.State.PathCount)
}

func TestRunOnlyLayer(t *testing.T) {
	layered := `
<path d="M1 1 L9 9"/>
<g inkscape:groupmode="layer" inkscape:label="1 outline"><path d="M0 0 L50 50"/></g>
<g inkscape:groupmode="layer" inkscape:label="2 fill">
  <g transform="translate(10 0)"><path d="M0 0 L100 0"/></g>
</g>`
	res, ch, err := run(t, layered, testOptions(OnlyLayer(2)))
	require.NoError(t, err)
	assert.Equal(t, 1, res.LayersPlotted)
	assert.Equal(t, 2, res.Progress.Layer)
	assert.Equal(t, 3, res.State.PathCount)
	assert.Equal(t, 3, res.Progress.LastPath)

	_, alone, err := run(t, `<path d="M10 0 L110 0"/>`, testOptions(AllLayers()))
	require.NoError(t, err)
	sameCommands(t, alone.sent, ch.sent)
}

func TestRunNoMatchingLayer(t *testing.T) {
	body := `<g inkscape:groupmode="layer" inkscape:label="abc"><path d="M0 0 L50 50"/></g>`
	res, ch, err := run(t, body, testOptions(OnlyLayer(1)))
	require.NoError(t, err)

	assert.Zero(t, res.LayersPlotted)
	assert.Equal(t, []string{"G01 X1000 Y1000"}, ch.sent)
}

func TestRunAllLayersIgnoresLabels(t *testing.T) {
	body := `
<g inkscape:groupmode="layer" inkscape:label="abc"><path d="M0 0 L50 50"/></g>
<g inkscape:groupmode="layer" inkscape:label="9"><path d="M0 0 L50 0"/></g>`
	res, _, err := run(t, body, testOptions(AllLayers()))
	require.NoError(t, err)

	assert.Equal(t, 2, res.State.PathCount)
	assert.Zero(t, res.LayersPlotted)
	assert.Equal(t, 5, res.State.NodeCount)
}

func TestRunUseOffset(t *testing.T) {
	body := `<defs><path id="p" d="M0 0 L10 0"/></defs><use xlink:href="#p" x="5" y="7"/>`
	_, used, err := run(t, body, testOptions(AllLayers()))
	require.NoError(t, err)

	_, direct, err := run(t, `<path d="M5 7 L15 7"/>`, testOptions(AllLayers()))
	require.NoError(t, err)
	sameCommands(t, direct.sent, used.sent)
}

func TestRunUseUnresolved(t *testing.T) {
	res, ch, err := run(t, `<use href="#missing"/><use href="other.svg#p"/>`, testOptions(AllLayers()))
	require.NoError(t, err)
	assert.Empty(t, ch.sent)
	assert.Zero(t, res.State.PathCount)
}

func TestRunUseCycle(t *testing.T) {
	tests := map[string]string{
		"self":     `<use id="u" href="#u"/>`,
		"ancestor": `<g id="g"><path d="M0 0 L1 1"/><use href="#g"/></g>`,
		"mutual": `<g id="a"><use href="#b"/></g>
<g id="b"><use href="#a"/></g>`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := run(t, body, testOptions(AllLayers()))
			assert.True(t, errors.Is(err, ErrReferenceCycle), "got %v", err)
		})
	}
}

func TestRunWarnsOnce(t *testing.T) {
	body := `<text>a</text><text>b</text><image/><foo/><foo/><metadata/><title>t</title>`
	res, ch, err := run(t, body, testOptions(AllLayers()))
	require.NoError(t, err)

	assert.Empty(t, ch.sent)
	assert.Equal(t, []string{
		"unable to draw bitmap images; please convert them to line art first",
		"unable to draw foo object, please convert it to a path first",
		"unable to draw text; please convert it to a path first",
	}, res.Warnings)
}

func TestRunHidden(t *testing.T) {
	body := `<g visibility="hidden"><path d="M0 0 L10 0"/></g>`

	res, _, err := run(t, body, testOptions(AllLayers()))
	require.NoError(t, err)
	assert.Equal(t, 1, res.State.PathCount)

	opts := testOptions(AllLayers())
	opts.SkipHidden = true
	res, ch, err := run(t, body, opts)
	require.NoError(t, err)
	assert.Zero(t, res.State.PathCount)
	assert.Empty(t, ch.sent)

	visible := `<g visibility="hidden"><path visibility="visible" d="M0 0 L10 0"/></g>`
	res, _, err = run(t, visible, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.State.PathCount)
}

func TestRunFatalErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"transform", document(`<g transform="rotate(1,2)"><path d="M0 0 L1 1"/></g>`), svg.ErrMalformedGeometry},
		{"path", document(`<path d="M0 0 L1"/>`), svg.ErrMalformedGeometry},
		{"rect", document(`<rect width="ten" height="1"/>`), svg.ErrMalformedGeometry},
		{"dimensions", `<svg xmlns="http://www.w3.org/2000/svg" width="10mm"><path d="M0 0 L1 1"/></svg>`, svg.ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := svg.ParseSvg(tt.doc, tt.name)
			require.NoError(t, err)
			ch := &recorder{}
			_, err = Run(doc, ch, testOptions(AllLayers()), quietLogger())
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, 1, ch.closed)
		})
	}
}

func TestRunFileDialect(t *testing.T) {
	doc, err := svg.ParseSvg(document(`<line x1="0" y1="0" x2="100" y2="0"/>`), "line.svg")
	require.NoError(t, err)
	ch := &recorder{dialect: device.DialectFile}

	_, err = Run(doc, ch, testOptions(AllLayers()), quietLogger())
	require.NoError(t, err)
	sameCommands(t, []string{
		"G01 X0 Y0 Z1000",
		"G01 X0 Y0 Z0",
		"G01 X0 Y2000 Z1000",
		"G01 X0 Y2000 Z0",
		"G01 X100 Y2000 Z0",
		"G01 X1000 Y1000",
	}, ch.sent)
}

func TestRunSeedsTotalsFromMarker(t *testing.T) {
	body := `<lus layer="0" node="4" lastpath="1" lastpathnc="2" totaldeltax="7" totaldeltay="-3"/>`
	res, _, err := run(t, body, testOptions(AllLayers()))
	require.NoError(t, err)

	// nothing was drawn, so the totals are persisted unchanged
	assert.Equal(t, 7, res.Progress.TotalDeltaX)
	assert.Equal(t, -3, res.Progress.TotalDeltaY)
	assert.Zero(t, res.Progress.Node)
}
