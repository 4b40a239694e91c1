// Copyright 2025 Sonic Labs
// This file is part of Dice, the dice expression toolkit for Sonic
//
// Dice is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Dice is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Dice. If not, see <http://www.gnu.org/licenses/>.

package visualizer

import (
	"io"
	"math/big"

	"github.com/0xsoniclabs/dice/expression"
	"github.com/0xsoniclabs/dice/pmf"
	"github.com/cockroachdb/errors"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// maxCDFPoints bounds the number of points drawn for a cumulative
// distribution.
const maxCDFPoints = 500

func globalOptions(pageTitle, title string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeChalk,
			PageTitle: pageTitle,
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Save",
				},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show: true,
				},
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
	}
}

func toFloat(n *big.Int) float64 {
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

// convertPmfData produces the bar heights of a distribution.
func convertPmfData(p pmf.Pmf) []opts.BarData {
	items := []opts.BarData{}
	for _, o := range p.Outcomes() {
		items = append(items, opts.BarData{Value: o.Probability})
	}
	return items
}

// convertPmfLabel produces the outcome labels of a distribution.
func convertPmfLabel(p pmf.Pmf) []string {
	items := []string{}
	for _, o := range p.Outcomes() {
		items = append(items, o.Value.String())
	}
	return items
}

// cdfPoints returns the cumulative distribution as (value, probability)
// steps, reduced with the Visvalingam-Whyatt algorithm. The first and the
// last point always survive the reduction.
func cdfPoints(p pmf.Pmf) [][2]float64 {
	outcomes := p.Outcomes()
	cdf := p.CDF()
	ls := orb.LineString{}
	for i, o := range outcomes {
		ls = append(ls, orb.Point{toFloat(o.Value), cdf[i]})
	}
	if len(ls) > maxCDFPoints {
		ls = simplify.VisvalingamKeep(maxCDFPoints).Simplify(ls).(orb.LineString)
	}
	points := make([][2]float64, len(ls))
	for i := range ls {
		points[i] = [2]float64(ls[i])
	}
	return points
}

// convertCDFData converts CDF points to chart points.
func convertCDFData(data [][2]float64) []opts.LineData {
	items := []opts.LineData{}
	for _, pair := range data {
		items = append(items, opts.LineData{Value: pair})
	}
	return items
}

// newPmfChart creates a bar chart of a distribution.
func newPmfChart(e expression.Expression, p pmf.Pmf) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions(e.String(), "Distribution of "+e.String())...)
	bar.SetXAxis(convertPmfLabel(p)).AddSeries("P(X = x)", convertPmfData(p))
	return bar
}

// newCDFChart creates a line chart of the cumulative distribution.
func newCDFChart(e expression.Expression, p pmf.Pmf) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOptions(e.String(), "Cumulative distribution of "+e.String())...)
	line.AddSeries("P(X <= x)", convertCDFData(cdfPoints(p)))
	return line
}

// WriteChart writes a standalone HTML page with the distribution of e and
// its cumulative distribution.
func WriteChart(w io.Writer, e expression.Expression, p pmf.Pmf) error {
	page := components.NewPage()
	page.AddCharts(newPmfChart(e, p), newCDFChart(e, p))
	if err := page.Render(w); err != nil {
		return errors.Wrap(err, "render chart")
	}
	return nil
}
