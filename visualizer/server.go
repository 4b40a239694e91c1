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

// Package visualizer renders distributions and syntax trees as HTML charts
// and serves them from a local web server.
package visualizer

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/0xsoniclabs/dice/expression"
	"github.com/0xsoniclabs/dice/pmf"
	"github.com/cockroachdb/errors"
)

// HTML references for the rendered pages.
const pmfRef = "pmf"
const cdfRef = "cdf"
const astRef = "ast"

// MainHtml is the index page.
const MainHtml = `
<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>Dice: Distribution Explorer</title>
  </head>
  <body>
    <h1>Dice: Distribution Explorer</h1>
    <ul>
    <li> <h3> <a href="/` + pmfRef + `"> Probability Mass Function </a> </h3> </li>
    <li> <h3> <a href="/` + cdfRef + `"> Cumulative Distribution </a> </h3> </li>
    <li> <h3> <a href="/` + astRef + `"> Syntax Tree </a> </h3> </li>
    </ul>
</body>
</html>
`

type viewState struct {
	expression expression.Expression
	pmf        pmf.Pmf
}

var (
	currentMu    sync.RWMutex
	currentState *viewState
)

func setViewState(e expression.Expression, p pmf.Pmf) error {
	if e == nil {
		return errors.New("visualizer: expression is nil")
	}
	currentMu.Lock()
	currentState = &viewState{expression: e, pmf: p}
	currentMu.Unlock()
	return nil
}

func currentView() (*viewState, error) {
	currentMu.RLock()
	defer currentMu.RUnlock()
	if currentState == nil {
		return nil, errors.New("visualizer: distribution not initialised")
	}
	return currentState, nil
}

// renderMain renders the main menu.
func renderMain(w http.ResponseWriter, r *http.Request) {
	_, _ = fmt.Fprint(w, MainHtml)
}

// renderPmf renders the distribution as a bar chart.
func renderPmf(w http.ResponseWriter, r *http.Request) {
	view, err := currentView()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_ = newPmfChart(view.expression, view.pmf).Render(w)
}

// renderCDF renders the cumulative distribution as a line chart.
func renderCDF(w http.ResponseWriter, r *http.Request) {
	view, err := currentView()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_ = newCDFChart(view.expression, view.pmf).Render(w)
}

// renderAst renders the syntax tree.
func renderAst(w http.ResponseWriter, r *http.Request) {
	view, err := currentView()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	txt, err := DotGraph(view.expression)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = fmt.Fprint(w, txt)
}

func newServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", renderMain)
	mux.HandleFunc("/"+pmfRef, renderPmf)
	mux.HandleFunc("/"+cdfRef, renderCDF)
	mux.HandleFunc("/"+astRef, renderAst)
	return mux
}

// FireUpWeb serves the charts of e and its distribution on addr until the
// server fails.
func FireUpWeb(e expression.Expression, p pmf.Pmf, addr string) error {
	if err := setViewState(e, p); err != nil {
		return err
	}
	return http.ListenAndServe(addr, newServeMux())
}
