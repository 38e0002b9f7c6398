package mip

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
)

// WriteLP writes the model in CPLEX LP format for offline inspection with
// external tooling. Variables appear under Bounds only when their bounds
// differ from the LP-format default of [0, +inf); binary variables are
// listed in a Binary section instead.
func (m *Model) WriteLP(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\\ %s\n", m.name)
	if m.sense == Minimize {
		fmt.Fprintln(bw, "Minimize")
	} else {
		fmt.Fprintln(bw, "Maximize")
	}
	fmt.Fprintf(bw, " obj: %s\n", formatExpr(m.obj))

	fmt.Fprintln(bw, "Subject To")
	for _, c := range m.cons {
		fmt.Fprintf(bw, " %s: %s %s %s\n", c.Name, formatExpr(c.Expr), c.Rel, trimFloat(c.RHS))
	}

	var bounds, binaries []string
	for _, v := range m.vars {
		if v.typ == BinaryVariable {
			binaries = append(binaries, v.name)
			continue
		}
		lb, ub := v.Bounds()
		if lb == 0 && math.IsInf(ub, 1) {
			continue
		}
		switch {
		case math.IsInf(ub, 1):
			bounds = append(bounds, fmt.Sprintf(" %s <= %s", trimFloat(lb), v.name))
		default:
			bounds = append(bounds, fmt.Sprintf(" %s <= %s <= %s", trimFloat(lb), v.name, trimFloat(ub)))
		}
	}
	if len(bounds) > 0 {
		fmt.Fprintln(bw, "Bounds")
		for _, b := range bounds {
			fmt.Fprintln(bw, b)
		}
	}
	if len(binaries) > 0 {
		fmt.Fprintln(bw, "Binary")
		fmt.Fprintf(bw, " %s\n", strings.Join(binaries, " "))
	}
	fmt.Fprintln(bw, "End")

	return bw.Flush()
}

func formatExpr(e *Expr) string {
	vars, coefs := e.Aggregated()
	if len(vars) == 0 {
		return "0"
	}

	var sb strings.Builder
	for i, v := range vars {
		coef := coefs[i]
		if i == 0 {
			if coef < 0 {
				sb.WriteString("- ")
				coef = -coef
			}
		} else {
			if coef < 0 {
				sb.WriteString(" - ")
				coef = -coef
			} else {
				sb.WriteString(" + ")
			}
		}
		if coef == 1 {
			sb.WriteString(v.name)
		} else {
			sb.WriteString(trimFloat(coef))
			sb.WriteByte(' ')
			sb.WriteString(v.name)
		}
	}
	return sb.String()
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}
