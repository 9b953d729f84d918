package nfa

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteDOT writes a Graphviz rendering of n to w.
//
// Symbol edges joining the same pair of states are drawn as one edge whose
// label lists every code point and range it consumes.
func WriteDOT(w io.Writer, n *NFA) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph NFA {")
	fmt.Fprintln(bw, "    rankdir=LR;")
	if n.source != "" {
		fmt.Fprintf(bw, "    label=%s;\n", strconv.Quote("/"+n.source+"/"))
	}
	for id := range n.States() {
		shape := "circle"
		if n.accept[id] {
			shape = "doublecircle"
		}
		fmt.Fprintf(bw, "    s%d [shape=%s];\n", id, shape)
	}
	fmt.Fprintf(bw, "    _start [shape=point]; _start -> s%d;\n", n.start)

	for from := range n.States() {
		for _, to := range n.epsilon[from] {
			fmt.Fprintf(bw, "    s%d -> s%d [label=\"ε\"];\n", from, to)
		}

		// Preserve first-seen target order so output is deterministic.
		var targets []StateID
		labels := make(map[StateID]*strings.Builder)
		for _, t := range n.symbol[from] {
			b, ok := labels[t.To]
			if !ok {
				b = &strings.Builder{}
				labels[t.To] = b
				targets = append(targets, t.To)
			} else {
				b.WriteByte(',')
			}
			writeLabel(b, t)
		}
		for _, to := range targets {
			fmt.Fprintf(bw, "    s%d -> s%d [label=%s];\n", from, to, strconv.Quote(labels[to].String()))
		}
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func writeLabel(b *strings.Builder, t Transition) {
	b.WriteString(printable(t.Lo))
	if t.Hi != t.Lo {
		b.WriteByte('-')
		b.WriteString(printable(t.Hi))
	}
}

func printable(r rune) string {
	if strconv.IsPrint(r) && r != ',' && r != '-' {
		return string(r)
	}
	return fmt.Sprintf("U+%04X", r)
}
