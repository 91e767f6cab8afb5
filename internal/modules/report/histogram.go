package report

import (
	"errors"
	"fmt"
	"math"

	charts "github.com/vicanso/go-charts/v2"

	"github.com/aristath/riskcalc/internal/risk"
)

// histogramBins is the number of buckets used for the simulated-returns chart.
const histogramBins = 50

// HistogramPNG renders the distribution of simulated horizon returns as a bar
// chart PNG. VaR and ES thresholds are surfaced in the subtitle since the
// distribution itself already shows the tail.
func HistogramPNG(res *risk.Result, portfolioName string, horizonDays int) ([]byte, error) {
	returns := res.SimulatedReturns
	if len(returns) < 2 {
		return nil, errors.New("not enough simulated returns to render a histogram")
	}

	// Returns arrive ascending-sorted from the estimator.
	minRet := returns[0]
	maxRet := returns[len(returns)-1]
	if maxRet == minRet {
		maxRet = minRet + 1e-9
	}

	counts := make([]float64, histogramBins)
	width := (maxRet - minRet) / float64(histogramBins)
	for _, r := range returns {
		idx := int((r - minRet) / width)
		if idx >= histogramBins {
			idx = histogramBins - 1
		}
		counts[idx] += 1
	}

	labels := make([]string, histogramBins)
	for i := range labels {
		center := minRet + (float64(i)+0.5)*width
		if i%5 == 0 {
			labels[i] = fmt.Sprintf("%.1f%%", center*100)
		} else {
			labels[i] = ""
		}
	}

	yMax := 0.0
	for _, c := range counts {
		yMax = math.Max(yMax, c)
	}
	yMax *= 1.05

	painter, err := charts.BarRender(
		[][]float64{counts},
		charts.TitleTextOptionFunc(
			fmt.Sprintf("%s: distribution of %d-day returns (%d paths)", portfolioName, horizonDays, len(returns)),
			fmt.Sprintf("VaR return %.4f%%  |  ES return %.4f%%", res.VaRReturn*100, res.ESReturn*100),
		),
		charts.XAxisDataOptionFunc(labels),
		charts.YAxisOptionFunc(charts.YAxisOption{Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render histogram: %w", err)
	}

	img, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode histogram: %w", err)
	}
	return img, nil
}
