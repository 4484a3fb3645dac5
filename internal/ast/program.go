package ast

// Program is the AST vector a ParserContext owns: every top-level
// declaration, in source order.
type Program struct {
	Declarations []Node
}
