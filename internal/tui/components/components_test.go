package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/goalfund/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToWidth(t *testing.T) {
	widths := LayoutRow(100, 3)
	assert.Equal(t, []int{34, 33, 33}, widths)
	assert.Nil(t, LayoutRow(10, 0))
}

func TestCardRowMatchesTallestCard(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	require.Less(t, shortLines, tallLines)

	joined := CardRow([]string{tallCard, shortCard})
	assert.Len(t, strings.Split(joined, "\n"), tallLines)
}

func TestMetricCardRow(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Existing", Value: "₹20,00,000"},
		{Label: "SIP", Value: "₹66,247", Note: "per month"},
	}, 60)
	assert.Contains(t, row, "Existing")
	assert.Contains(t, row, "per month")
	assert.Equal(t, 60, lipgloss.Width(strings.Split(row, "\n")[0]))
	assert.Empty(t, MetricCardRow(nil, 60))
}

func TestTabAtX(t *testing.T) {
	for active := range Tabs {
		pos := 0
		for i, tab := range Tabs {
			w := TabVisualWidth(tab, i == active)
			assert.Equal(t, i, TabAtX(pos+w/2, active), "active=%d tab=%d", active, i)
			pos += w + len(tabSep)
		}
		assert.Equal(t, -1, TabAtX(pos+50, active))
	}
}

func TestTabIdxByKey(t *testing.T) {
	assert.Equal(t, 0, TabIdxByKey('1'))
	assert.Equal(t, 2, TabIdxByKey('3'))
	assert.Equal(t, -1, TabIdxByKey('z'))
}

func TestFundedBar(t *testing.T) {
	assert.Contains(t, FundedBar(0.5, 20), "50%")
	assert.Contains(t, FundedBar(3, 20), "100%")
	assert.Contains(t, FundedBar(-1, 20), "0%")
}

func TestHorizontalBars(t *testing.T) {
	out := HorizontalBars([]string{"Short", "A very long goal name indeed"}, []float64{10, 0}, 60,
		func(v float64) string { return "v" })
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "█")
	assert.NotContains(t, lines[1], "█")
	assert.Contains(t, lines[1], "…")
	assert.Empty(t, HorizontalBars(nil, nil, 60, nil))
}

func TestStatusBarShowsMessage(t *testing.T) {
	bar := RenderStatusBar(80, "Saved", false, true)
	assert.Contains(t, bar, "Saved")
	assert.Contains(t, bar, "unsaved")
}
