package ast

import "github.com/Shadlock0133/lox/pkg/token"

type NodeType string

const (
	NodeLiteralExpression   NodeType = "LiteralExpression"
	NodeVariableExpression  NodeType = "VariableExpression"
	NodeAssignExpression    NodeType = "AssignExpression"
	NodeBinaryExpression    NodeType = "BinaryExpression"
	NodeUnaryExpression     NodeType = "UnaryExpression"
	NodeGroupingExpression  NodeType = "GroupingExpression"
	NodeCallExpression      NodeType = "CallExpression"
	NodeGetExpression       NodeType = "GetExpression"
	NodeSetExpression       NodeType = "SetExpression"
	NodeThisExpression      NodeType = "ThisExpression"
	NodeSuperExpression     NodeType = "SuperExpression"
	NodeBlockStatement      NodeType = "BlockStatement"
	NodeClassDeclaration    NodeType = "ClassDeclaration"
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeFunctionDeclaration NodeType = "FunctionDeclaration"
	NodeIfStatement         NodeType = "IfStatement"
	NodePrintStatement      NodeType = "PrintStatement"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeVariableDeclaration NodeType = "VariableDeclaration"
	NodeWhileStatement      NodeType = "WhileStatement"
	NodeBreakStatement      NodeType = "BreakStatement"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	kind NodeType
}

func (n nodeImpl) NodeType() NodeType { return n.kind }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

// LiteralExpression holds an already-decoded literal: string, float64, bool,
// or nil.
type LiteralExpression struct {
	nodeImpl
	expressionMarker
	Value any
}

type VariableExpression struct {
	nodeImpl
	expressionMarker
	Name token.Token
}

type AssignExpression struct {
	nodeImpl
	expressionMarker
	Name  token.Token
	Value Expression
}

// BinaryExpression covers arithmetic, comparison, equality, and the
// short-circuiting `and`/`or` operators; the operator token disambiguates.
type BinaryExpression struct {
	nodeImpl
	expressionMarker
	Op    token.Token
	Left  Expression
	Right Expression
}

type UnaryExpression struct {
	nodeImpl
	expressionMarker
	Op    token.Token
	Right Expression
}

type GroupingExpression struct {
	nodeImpl
	expressionMarker
	Expr Expression
}

type CallExpression struct {
	nodeImpl
	expressionMarker
	Callee Expression
	Paren  token.Token // closing ')', used for call error positions
	Args   []Expression
}

type GetExpression struct {
	nodeImpl
	expressionMarker
	Object Expression
	Name   token.Token
}

type SetExpression struct {
	nodeImpl
	expressionMarker
	Object Expression
	Name   token.Token
	Value  Expression
}

type ThisExpression struct {
	nodeImpl
	expressionMarker
	Keyword token.Token
}

type SuperExpression struct {
	nodeImpl
	expressionMarker
	Keyword token.Token
	Method  token.Token
}

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

type BlockStatement struct {
	nodeImpl
	statementMarker
	Statements []Statement
}

type ClassDeclaration struct {
	nodeImpl
	statementMarker
	Name       token.Token
	Superclass *VariableExpression // nil when the class has no superclass
	Methods    []*FunctionDeclaration
}

type ExpressionStatement struct {
	nodeImpl
	statementMarker
	Expr Expression
}

type FunctionDeclaration struct {
	nodeImpl
	statementMarker
	Name   token.Token
	Params []token.Token
	Body   []Statement
}

type IfStatement struct {
	nodeImpl
	statementMarker
	Cond Expression
	Then Statement
	Else Statement // nil when absent
}

type PrintStatement struct {
	nodeImpl
	statementMarker
	Expr Expression
}

type ReturnStatement struct {
	nodeImpl
	statementMarker
	Keyword token.Token
	Value   Expression // nil for a bare `return;`
}

type VariableDeclaration struct {
	nodeImpl
	statementMarker
	Name token.Token
	Init Expression // nil when declared without an initializer
}

type WhileStatement struct {
	nodeImpl
	statementMarker
	Cond Expression
	Body Statement
}

type BreakStatement struct {
	nodeImpl
	statementMarker
	Keyword token.Token
}

//-----------------------------------------------------------------------------
// Constructors
//-----------------------------------------------------------------------------

func NewLiteral(value any) *LiteralExpression {
	return &LiteralExpression{nodeImpl: nodeImpl{NodeLiteralExpression}, Value: value}
}

func NewVariable(name token.Token) *VariableExpression {
	return &VariableExpression{nodeImpl: nodeImpl{NodeVariableExpression}, Name: name}
}

func NewAssign(name token.Token, value Expression) *AssignExpression {
	return &AssignExpression{nodeImpl: nodeImpl{NodeAssignExpression}, Name: name, Value: value}
}

func NewBinary(op token.Token, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: nodeImpl{NodeBinaryExpression}, Op: op, Left: left, Right: right}
}

func NewUnary(op token.Token, right Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: nodeImpl{NodeUnaryExpression}, Op: op, Right: right}
}

func NewGrouping(expr Expression) *GroupingExpression {
	return &GroupingExpression{nodeImpl: nodeImpl{NodeGroupingExpression}, Expr: expr}
}

func NewCall(callee Expression, paren token.Token, args []Expression) *CallExpression {
	return &CallExpression{nodeImpl: nodeImpl{NodeCallExpression}, Callee: callee, Paren: paren, Args: args}
}

func NewGet(object Expression, name token.Token) *GetExpression {
	return &GetExpression{nodeImpl: nodeImpl{NodeGetExpression}, Object: object, Name: name}
}

func NewSet(object Expression, name token.Token, value Expression) *SetExpression {
	return &SetExpression{nodeImpl: nodeImpl{NodeSetExpression}, Object: object, Name: name, Value: value}
}

func NewThis(keyword token.Token) *ThisExpression {
	return &ThisExpression{nodeImpl: nodeImpl{NodeThisExpression}, Keyword: keyword}
}

func NewSuper(keyword, method token.Token) *SuperExpression {
	return &SuperExpression{nodeImpl: nodeImpl{NodeSuperExpression}, Keyword: keyword, Method: method}
}

func NewBlock(statements []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: nodeImpl{NodeBlockStatement}, Statements: statements}
}

func NewClass(name token.Token, superclass *VariableExpression, methods []*FunctionDeclaration) *ClassDeclaration {
	return &ClassDeclaration{nodeImpl: nodeImpl{NodeClassDeclaration}, Name: name, Superclass: superclass, Methods: methods}
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: nodeImpl{NodeExpressionStatement}, Expr: expr}
}

func NewFunction(name token.Token, params []token.Token, body []Statement) *FunctionDeclaration {
	return &FunctionDeclaration{nodeImpl: nodeImpl{NodeFunctionDeclaration}, Name: name, Params: params, Body: body}
}

func NewIf(cond Expression, then, els Statement) *IfStatement {
	return &IfStatement{nodeImpl: nodeImpl{NodeIfStatement}, Cond: cond, Then: then, Else: els}
}

func NewPrint(expr Expression) *PrintStatement {
	return &PrintStatement{nodeImpl: nodeImpl{NodePrintStatement}, Expr: expr}
}

func NewReturn(keyword token.Token, value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: nodeImpl{NodeReturnStatement}, Keyword: keyword, Value: value}
}

func NewVariableDeclaration(name token.Token, init Expression) *VariableDeclaration {
	return &VariableDeclaration{nodeImpl: nodeImpl{NodeVariableDeclaration}, Name: name, Init: init}
}

func NewWhile(cond Expression, body Statement) *WhileStatement {
	return &WhileStatement{nodeImpl: nodeImpl{NodeWhileStatement}, Cond: cond, Body: body}
}

func NewBreak(keyword token.Token) *BreakStatement {
	return &BreakStatement{nodeImpl: nodeImpl{NodeBreakStatement}, Keyword: keyword}
}
