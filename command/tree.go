/*
 * MIT License
 *
 * Copyright (c) 2026 The Instaworks Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package command implements the hierarchical command tree and dispatcher
// that drives both the loopback command server and the web surface's
// request routing.
//
// Grounded on spec.md 4.10: a tree of named nodes, each either an internal
// node with children or a leaf with a handler; dispatch walks one
// whitespace-delimited token at a time from the root, printing the
// current node's children whenever a token is missing or unrecognized.
package command

import (
	"fmt"
	"io"
	"strings"
)

// Handler executes a leaf command. args yields the remaining
// whitespace-delimited tokens after the matched command name.
type Handler func(out io.Writer, name string, args *Args) Result

// Result is the dispatcher's per-invocation outcome.
type Result int

const (
	OK Result = iota
	NotFound
	HandlerError
)

// Args is a cursor over the remaining tokens of a command line.
type Args struct {
	tokens []string
	pos    int
}

// NewArgs tokenizes line on whitespace.
func NewArgs(line string) *Args {
	return &Args{tokens: strings.Fields(line)}
}

// Next returns the next token and advances the cursor, or ("", false) at
// end of input.
func (a *Args) Next() (string, bool) {
	if a.pos >= len(a.tokens) {
		return "", false
	}
	t := a.tokens[a.pos]
	a.pos++
	return t, true
}

// Rest returns every remaining token, unconsumed.
func (a *Args) Rest() []string {
	return append([]string(nil), a.tokens[a.pos:]...)
}

// Node is one point in the command tree: either an internal node (Handler
// nil, Children populated) or a leaf (Handler set).
type Node struct {
	Token    string
	Short    string
	Handler  Handler
	Children map[string]*Node
	order    []string
	parent   *Node
}

// NewNode creates an internal or leaf node. Pass a nil handler and add
// children with AddChild to build an internal node.
func NewNode(token, short string, handler Handler) *Node {
	return &Node{Token: token, Short: short, Handler: handler, Children: make(map[string]*Node)}
}

// AddChild attaches child under n, preserving insertion order for help
// listings.
func (n *Node) AddChild(child *Node) *Node {
	if _, exists := n.Children[child.Token]; !exists {
		n.order = append(n.order, child.Token)
	}
	child.parent = n
	n.Children[child.Token] = child
	return child
}

// HelpLines renders this node's children with their short descriptions,
// one per line, in the order they were added.
func (n *Node) HelpLines() []string {
	lines := make([]string, 0, len(n.order))
	for _, tok := range n.order {
		child := n.Children[tok]
		lines = append(lines, fmt.Sprintf("  %-12s %s", child.Token, child.Short))
	}
	return lines
}

// Dispatch implements the algorithm from spec.md 4.10: read the next
// token; with none, print this node's children and return OK; look it up
// among children, printing "unknown command" and the children on a miss;
// invoke the matched leaf's handler, or recurse into an internal child.
func Dispatch(root *Node, out io.Writer, args *Args) Result {
	node := root
	for {
		tok, ok := args.Next()
		if !ok {
			printHelp(out, node)
			return OK
		}

		child, ok := node.Children[tok]
		if !ok {
			fmt.Fprintf(out, "unknown command: %s\n", tok)
			printHelp(out, node)
			return NotFound
		}

		if child.Handler != nil {
			return child.Handler(out, tok, args)
		}
		node = child
	}
}

func printHelp(out io.Writer, node *Node) {
	for _, line := range node.HelpLines() {
		fmt.Fprintln(out, line)
	}
}
