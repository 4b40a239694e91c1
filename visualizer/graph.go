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
	"fmt"

	"github.com/0xsoniclabs/dice/expression"
	"github.com/cockroachdb/errors"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// graphHtml embeds a dot graph into a page that lays it out in the browser.
const graphHtml = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>%s</title>

    <script>
        const dot = ` + "`" + `%s` + "`" + `;
    </script>
</head>

<body>
    <h1>%s</h1>
    <div id="graph"></div>
    <script type="module">
        import { Graphviz } from "https://cdn.jsdelivr.net/npm/@hpcc-js/wasm/dist/index.js";
        if (Graphviz) {
            const graphviz = await Graphviz.load();
            const svg = graphviz.layout(dot, "svg", "dot");
	    document.getElementById("graph").innerHTML = svg;
        }
    </script>
</body>
</html>
`

// astBuilder adds one graph node per syntax tree node.
type astBuilder struct {
	graph *cgraph.Graph
	count int
}

func (b *astBuilder) add(e expression.Expression) (*cgraph.Node, error) {
	name := fmt.Sprintf("n%d", b.count)
	node, err := b.graph.CreateNode(name)
	if err != nil {
		return nil, errors.Wrapf(err, "create node for %s", e)
	}
	b.count++

	var children []expression.Expression
	switch n := e.(type) {
	case *expression.Literal:
		node.SetLabel(n.Value.String())
	case *expression.Unary:
		node.SetLabel(unaryLabel(n.Op))
		children = []expression.Expression{n.Operand}
	case *expression.Binary:
		node.SetLabel(n.Op.Symbol())
		children = []expression.Expression{n.Left, n.Right}
	default:
		return nil, errors.Newf("unknown syntax tree node %T", e)
	}

	for i, child := range children {
		c, err := b.add(child)
		if err != nil {
			return nil, err
		}
		edge, err := b.graph.CreateEdge(fmt.Sprintf("%s-%d", name, i), node, c)
		if err != nil {
			return nil, errors.Wrapf(err, "create edge for %s", e)
		}
		if len(children) > 1 {
			edge.SetLabel(edgeLabel(i))
		}
	}
	return node, nil
}

func unaryLabel(op expression.Operator) string {
	if op == expression.Negate {
		return "neg"
	}
	return "pos"
}

func edgeLabel(i int) string {
	if i == 0 {
		return "L"
	}
	return "R"
}

// DotGraph renders the syntax tree of e in dot format wrapped in an HTML
// page.
func DotGraph(e expression.Expression) (out string, err error) {
	g := graphviz.New()
	graph, err := g.Graph()
	if err != nil {
		return "", errors.Wrap(err, "create graph")
	}
	defer func() {
		err = errors.Join(err, graph.Close(), g.Close())
	}()

	b := &astBuilder{graph: graph}
	if _, err := b.add(e); err != nil {
		return "", err
	}
	return renderDotGraph(e.String(), g, graph)
}

// renderDotGraph lays out graph and embeds its dot text into an HTML page.
func renderDotGraph(title string, g *graphviz.Graphviz, graph *cgraph.Graph) (string, error) {
	var buf bytes.Buffer
	if err := g.Render(graph, graphviz.XDOT, &buf); err != nil {
		return "", errors.Wrap(err, "render dot graph")
	}
	return fmt.Sprintf(graphHtml, title, buf.String(), title), nil
}
