package ast

import (
	"fmt"
	"strings"
)

// Print renders program back to Thrush source text. It is not meant to
// reproduce the original formatting byte-for-byte; it exists so that
// parse ∘ print ∘ parse can be compared structurally for the round-trip
// property spec.md §8 asks for.
func Print(program *Program) string {
	var b strings.Builder
	for _, decl := range program.Declarations {
		printDecl(&b, decl)
		b.WriteString("\n")
	}
	return b.String()
}

func printDecl(b *strings.Builder, n Node) {
	switch d := n.(type) {
	case *Function:
		fmt.Fprintf(b, "fn %s(", d.Name)
		for i, p := range d.Parameters {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Name)
			if i < len(d.ParameterTypes) {
				fmt.Fprintf(b, ": %s", d.ParameterTypes[i])
			}
		}
		fmt.Fprintf(b, ") -> %s {", d.ReturnType)
		if d.Body != nil {
			printBlock(b, d.Body)
		}
		b.WriteString("}")
	case *Struct:
		fmt.Fprintf(b, "struct %s {", d.Name)
		for i, f := range d.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s: %s", f.Name, f.Type)
		}
		b.WriteString("}")
	case *Enum:
		fmt.Fprintf(b, "enum %s {", d.Name)
		for i, f := range d.Data {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
		}
		b.WriteString("}")
	case *Const:
		fmt.Fprintf(b, "const %s: %s = ", d.Name, d.Type)
		printExpr(b, d.Value)
		b.WriteString(";")
	case *Static:
		fmt.Fprintf(b, "static %s: %s", d.Name, d.Type)
		if d.Value != nil {
			b.WriteString(" = ")
			printExpr(b, d.Value)
		}
		b.WriteString(";")
	case *Import:
		fmt.Fprintf(b, "import %q;", d.Path)
	case *GlobalAssembler:
		b.WriteString("global_asm { ... }")
	default:
		b.WriteString("<decl>")
	}
}

func printBlock(b *strings.Builder, blk *Block) {
	for _, n := range blk.Nodes {
		printStmt(b, n)
	}
}

func printStmt(b *strings.Builder, n Node) {
	switch s := n.(type) {
	case *Local:
		fmt.Fprintf(b, "let %s: %s", s.Name, s.Type)
		if s.Value != nil {
			b.WriteString(" = ")
			printExpr(b, s.Value)
		}
		b.WriteString(";")
	case *LLI:
		fmt.Fprintf(b, "lli %s: %s = ", s.Name, s.Type)
		printExpr(b, s.Value)
		b.WriteString(";")
	case *Return:
		b.WriteString("return")
		if s.Expression != nil {
			b.WriteString(" ")
			printExpr(b, s.Expression)
		}
		b.WriteString(";")
	case *If:
		b.WriteString("if ")
		printExpr(b, s.Condition)
		b.WriteString(" {")
		printBlock(b, s.Block)
		b.WriteString("}")
		for _, e := range s.Elseif {
			b.WriteString(" elif ")
			printExpr(b, e.Condition)
			b.WriteString(" {")
			printBlock(b, e.Block)
			b.WriteString("}")
		}
		if s.Anyway != nil {
			b.WriteString(" else {")
			printBlock(b, s.Anyway)
			b.WriteString("}")
		}
	case *While:
		b.WriteString("while ")
		printExpr(b, s.Condition)
		b.WriteString(" {")
		printBlock(b, s.Block)
		b.WriteString("}")
	case *Loop:
		b.WriteString("loop {")
		printBlock(b, s.Block)
		b.WriteString("}")
	case *Mut:
		b.WriteString("write ")
		printExpr(b, s.Source)
		b.WriteString(", ")
		printExpr(b, s.Value)
		b.WriteString(";")
	case *Break:
		b.WriteString("break;")
	case *Continue:
		b.WriteString("continue;")
	case *Block:
		b.WriteString("{")
		printBlock(b, s)
		b.WriteString("}")
	default:
		printExpr(b, n)
		b.WriteString(";")
	}
}

func printExpr(b *strings.Builder, n Node) {
	switch e := n.(type) {
	case nil:
		return
	case *Integer:
		fmt.Fprintf(b, "%d", e.Value)
	case *Float:
		fmt.Fprintf(b, "%g", e.Value)
	case *Boolean:
		fmt.Fprintf(b, "%t", e.Value)
	case *Char:
		fmt.Fprintf(b, "%q", rune(e.Value))
	case *Str:
		fmt.Fprintf(b, "%q", string(e.Bytes))
	case *NullPtr:
		b.WriteString("nullptr")
	case *Group:
		b.WriteString("(")
		printExpr(b, e.Expression)
		b.WriteString(")")
	case *Array:
		b.WriteString("[")
		for i, item := range e.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			printExpr(b, item)
		}
		b.WriteString("]")
	case *Reference:
		b.WriteString(e.Name)
	case *BinaryOp:
		printExpr(b, e.Left)
		fmt.Fprintf(b, " %s ", e.Operator)
		printExpr(b, e.Right)
	case *UnaryOp:
		fmt.Fprintf(b, "%s", e.Operator)
		printExpr(b, e.Expression)
	case *Call:
		fmt.Fprintf(b, "%s(", e.Name)
		for i, a := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			printExpr(b, a)
		}
		b.WriteString(")")
	case *Property:
		printExpr(b, e.Source)
		for _, idx := range e.Indexes {
			fmt.Fprintf(b, ".%s", idx)
		}
	case *Index:
		printExpr(b, e.Source)
		for _, idx := range e.Indexes {
			b.WriteString("[")
			printExpr(b, idx)
			b.WriteString("]")
		}
	default:
		b.WriteString("<expr>")
	}
}
