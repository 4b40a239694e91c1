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
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/0xsoniclabs/dice/expression"
	"github.com/0xsoniclabs/dice/pmf"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func distribution(t *testing.T, source string) (expression.Expression, pmf.Pmf) {
	t.Helper()
	e := expression.MustParse(source)
	p, err := expression.Distribution(e, expression.DefaultMaxOutcomes)
	require.NoError(t, err)
	return e, p
}

func mustSetView(t *testing.T, source string) {
	t.Helper()
	e, p := distribution(t, source)
	require.NoError(t, setViewState(e, p))
}

func clearView(t *testing.T) {
	t.Helper()
	currentMu.Lock()
	currentState = nil
	currentMu.Unlock()
}

func serve(t *testing.T, path string, handler http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest("GET", path, nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestVisualizer_renderMain(t *testing.T) {
	rr := serve(t, "/", renderMain)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, MainHtml, rr.Body.String())
}

func TestVisualizer_convertPmfData(t *testing.T) {
	_, p := distribution(t, "1d4")

	assert.Equal(t, []string{"1", "2", "3", "4"}, convertPmfLabel(p))
	data := convertPmfData(p)
	require.Len(t, data, 4)
	for _, d := range data {
		assert.Equal(t, opts.BarData{Value: 0.25}, d)
	}
}

func TestVisualizer_convertCDFData(t *testing.T) {
	testData := [][2]float64{{1.0, 0.5}, {2.0, 1.0}}

	result := convertCDFData(testData)

	assert.Len(t, result, 2)
	assert.Equal(t, opts.LineData{Value: [2]float64{1.0, 0.5}}, result[0])
	assert.Equal(t, opts.LineData{Value: [2]float64{2.0, 1.0}}, result[1])
}

func TestVisualizer_cdfPoints(t *testing.T) {
	_, p := distribution(t, "2d6")

	points := cdfPoints(p)

	require.Len(t, points, 11)
	assert.Equal(t, 2.0, points[0][0])
	assert.InDelta(t, 1.0/36, points[0][1], 1e-12)
	assert.Equal(t, 7.0, points[5][0])
	assert.InDelta(t, 0.5+1.0/12, points[5][1], 1e-12)
	assert.Equal(t, [2]float64{12, 1}, points[10])
}

func TestVisualizer_cdfPointsAreReduced(t *testing.T) {
	_, p := distribution(t, "1d2000")

	points := cdfPoints(p)

	assert.LessOrEqual(t, len(points), maxCDFPoints)
	assert.Equal(t, 1.0, points[0][0])
	assert.Equal(t, [2]float64{2000, 1}, points[len(points)-1])
	for i := 1; i < len(points); i++ {
		assert.Less(t, points[i-1][0], points[i][0])
		assert.LessOrEqual(t, points[i-1][1], points[i][1])
	}
}

func TestVisualizer_cdfPointsEmpty(t *testing.T) {
	assert.Empty(t, cdfPoints(pmf.Pmf{}))
}

func TestVisualizer_renderPmf(t *testing.T) {
	mustSetView(t, "2d6")
	defer clearView(t)

	rr := serve(t, "/"+pmfRef, renderPmf)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Distribution of 2d6")
}

func TestVisualizer_renderCDF(t *testing.T) {
	mustSetView(t, "2d6")
	defer clearView(t)

	rr := serve(t, "/"+cdfRef, renderCDF)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Cumulative distribution of 2d6")
}

func TestVisualizer_renderAst(t *testing.T) {
	mustSetView(t, "1d6 + 2")
	defer clearView(t)

	rr := serve(t, "/"+astRef, renderAst)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "digraph")
}

func TestVisualizer_HandlersWithoutView(t *testing.T) {
	clearView(t)
	handlers := map[string]http.HandlerFunc{
		pmfRef: renderPmf,
		cdfRef: renderCDF,
		astRef: renderAst,
	}
	for ref, handler := range handlers {
		t.Run(ref, func(t *testing.T) {
			rr := serve(t, "/"+ref, handler)
			assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		})
	}
}

func TestVisualizer_setViewStateRejectsNil(t *testing.T) {
	assert.Error(t, setViewState(nil, pmf.Pmf{}))
}

func TestVisualizer_ServeMux(t *testing.T) {
	mustSetView(t, "1d4")
	defer clearView(t)

	server := httptest.NewServer(newServeMux())
	defer server.Close()

	for _, ref := range []string{"", pmfRef, cdfRef} {
		resp, err := http.Get(server.URL + "/" + ref)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, ref)
		require.NoError(t, resp.Body.Close())
	}
}

func TestVisualizer_DotGraph(t *testing.T) {
	e := expression.MustParse("(1d4)d6 + -2")

	out, err := DotGraph(e)

	require.NoError(t, err)
	assert.Contains(t, out, "<title>"+e.String()+"</title>")
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "neg")
	// seven nodes joined by six edges
	assert.Equal(t, 6, strings.Count(out, "->"))
}

func TestVisualizer_WriteChart(t *testing.T) {
	e, p := distribution(t, "2d6")
	var buf bytes.Buffer

	require.NoError(t, WriteChart(&buf, e, p))

	out := buf.String()
	assert.Contains(t, out, "Distribution of 2d6")
	assert.Contains(t, out, "Cumulative distribution of 2d6")
}
