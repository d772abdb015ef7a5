package expression_parser

// ParseSpan represents a span within an expression
type ParseSpan struct {
	Start int
	End   int
}

// NewParseSpan creates a new ParseSpan
func NewParseSpan(start, end int) *ParseSpan {
	return &ParseSpan{Start: start, End: end}
}

// AST is the base interface for all expression AST nodes
type AST interface {
	Span() *ParseSpan
	Visit(visitor AstVisitor, context interface{}) interface{}
}

// ImplicitReceiver represents the implicit receiver of an unqualified identifier
type ImplicitReceiver struct {
	span *ParseSpan
}

// NewImplicitReceiver creates a new ImplicitReceiver
func NewImplicitReceiver(span *ParseSpan) *ImplicitReceiver {
	return &ImplicitReceiver{span: span}
}

// Span returns the parse span
func (i *ImplicitReceiver) Span() *ParseSpan {
	return i.span
}

// Visit implements the AST interface
func (i *ImplicitReceiver) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitImplicitReceiver(i, context)
}

// ThisReceiver represents a receiver accessed through `this`
type ThisReceiver struct {
	span *ParseSpan
}

// NewThisReceiver creates a new ThisReceiver
func NewThisReceiver(span *ParseSpan) *ThisReceiver {
	return &ThisReceiver{span: span}
}

// Span returns the parse span
func (t *ThisReceiver) Span() *ParseSpan {
	return t.span
}

// Visit implements the AST interface
func (t *ThisReceiver) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitThisReceiver(t, context)
}

// PropertyRead represents a property read operation. An unqualified identifier
// in value position is a PropertyRead whose receiver is an ImplicitReceiver;
// anything else puts Name in property-name position.
type PropertyRead struct {
	span     *ParseSpan
	Receiver AST
	Name     string
}

// NewPropertyRead creates a new PropertyRead
func NewPropertyRead(span *ParseSpan, receiver AST, name string) *PropertyRead {
	return &PropertyRead{span: span, Receiver: receiver, Name: name}
}

// Span returns the parse span
func (p *PropertyRead) Span() *ParseSpan {
	return p.span
}

// Visit implements the AST interface
func (p *PropertyRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPropertyRead(p, context)
}

// SafePropertyRead represents a safe property read operation (?.)
type SafePropertyRead struct {
	span     *ParseSpan
	Receiver AST
	Name     string
}

// NewSafePropertyRead creates a new SafePropertyRead
func NewSafePropertyRead(span *ParseSpan, receiver AST, name string) *SafePropertyRead {
	return &SafePropertyRead{span: span, Receiver: receiver, Name: name}
}

// Span returns the parse span
func (s *SafePropertyRead) Span() *ParseSpan {
	return s.span
}

// Visit implements the AST interface
func (s *SafePropertyRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitSafePropertyRead(s, context)
}

// KeyedRead represents a keyed read operation (array/object access)
type KeyedRead struct {
	span     *ParseSpan
	Receiver AST
	Key      AST
}

// NewKeyedRead creates a new KeyedRead
func NewKeyedRead(span *ParseSpan, receiver, key AST) *KeyedRead {
	return &KeyedRead{span: span, Receiver: receiver, Key: key}
}

// Span returns the parse span
func (k *KeyedRead) Span() *ParseSpan {
	return k.span
}

// Visit implements the AST interface
func (k *KeyedRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitKeyedRead(k, context)
}

// Call represents a function call
type Call struct {
	span     *ParseSpan
	Receiver AST
	Args     []AST
}

// NewCall creates a new Call
func NewCall(span *ParseSpan, receiver AST, args []AST) *Call {
	return &Call{span: span, Receiver: receiver, Args: args}
}

// Span returns the parse span
func (c *Call) Span() *ParseSpan {
	return c.span
}

// Visit implements the AST interface
func (c *Call) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitCall(c, context)
}

// Binary represents a binary operation
type Binary struct {
	span      *ParseSpan
	Operation string
	Left      AST
	Right     AST
}

// NewBinary creates a new Binary
func NewBinary(span *ParseSpan, operation string, left, right AST) *Binary {
	return &Binary{span: span, Operation: operation, Left: left, Right: right}
}

// Span returns the parse span
func (b *Binary) Span() *ParseSpan {
	return b.span
}

// Visit implements the AST interface
func (b *Binary) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitBinary(b, context)
}

// Unary represents a unary plus/minus operation
type Unary struct {
	span     *ParseSpan
	Operator string
	Expr     AST
}

// NewUnary creates a new Unary
func NewUnary(span *ParseSpan, operator string, expr AST) *Unary {
	return &Unary{span: span, Operator: operator, Expr: expr}
}

// Span returns the parse span
func (u *Unary) Span() *ParseSpan {
	return u.span
}

// Visit implements the AST interface
func (u *Unary) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitUnary(u, context)
}

// PrefixNot represents a prefix not operation (!)
type PrefixNot struct {
	span       *ParseSpan
	Expression AST
}

// NewPrefixNot creates a new PrefixNot
func NewPrefixNot(span *ParseSpan, expression AST) *PrefixNot {
	return &PrefixNot{span: span, Expression: expression}
}

// Span returns the parse span
func (p *PrefixNot) Span() *ParseSpan {
	return p.span
}

// Visit implements the AST interface
func (p *PrefixNot) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPrefixNot(p, context)
}

// Conditional represents a conditional expression (ternary operator)
type Conditional struct {
	span      *ParseSpan
	Condition AST
	TrueExp   AST
	FalseExp  AST
}

// NewConditional creates a new Conditional
func NewConditional(span *ParseSpan, condition, trueExp, falseExp AST) *Conditional {
	return &Conditional{span: span, Condition: condition, TrueExp: trueExp, FalseExp: falseExp}
}

// Span returns the parse span
func (c *Conditional) Span() *ParseSpan {
	return c.span
}

// Visit implements the AST interface
func (c *Conditional) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitConditional(c, context)
}

// LiteralPrimitive represents a primitive literal value. Value is nil for
// `null`, a float64, bool or string otherwise; `undefined` is Undefined{}.
type LiteralPrimitive struct {
	span  *ParseSpan
	Value interface{}
}

// Undefined marks the `undefined` literal
type Undefined struct{}

// NewLiteralPrimitive creates a new LiteralPrimitive
func NewLiteralPrimitive(span *ParseSpan, value interface{}) *LiteralPrimitive {
	return &LiteralPrimitive{span: span, Value: value}
}

// Span returns the parse span
func (l *LiteralPrimitive) Span() *ParseSpan {
	return l.span
}

// Visit implements the AST interface
func (l *LiteralPrimitive) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralPrimitive(l, context)
}

// LiteralArray represents an array literal
type LiteralArray struct {
	span        *ParseSpan
	Expressions []AST
}

// NewLiteralArray creates a new LiteralArray
func NewLiteralArray(span *ParseSpan, expressions []AST) *LiteralArray {
	return &LiteralArray{span: span, Expressions: expressions}
}

// Span returns the parse span
func (l *LiteralArray) Span() *ParseSpan {
	return l.span
}

// Visit implements the AST interface
func (l *LiteralArray) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralArray(l, context)
}

// LiteralMapKey represents a key in a literal map
type LiteralMapKey struct {
	Key    string
	Quoted bool
}

// LiteralMap represents a map/object literal
type LiteralMap struct {
	span   *ParseSpan
	Keys   []LiteralMapKey
	Values []AST
}

// NewLiteralMap creates a new LiteralMap
func NewLiteralMap(span *ParseSpan, keys []LiteralMapKey, values []AST) *LiteralMap {
	return &LiteralMap{span: span, Keys: keys, Values: values}
}

// Span returns the parse span
func (l *LiteralMap) Span() *ParseSpan {
	return l.span
}

// Visit implements the AST interface
func (l *LiteralMap) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralMap(l, context)
}

// RegularExpressionLiteral represents a regular expression literal
type RegularExpressionLiteral struct {
	span  *ParseSpan
	Body  string
	Flags string
}

// NewRegularExpressionLiteral creates a new RegularExpressionLiteral
func NewRegularExpressionLiteral(span *ParseSpan, body, flags string) *RegularExpressionLiteral {
	return &RegularExpressionLiteral{span: span, Body: body, Flags: flags}
}

// Span returns the parse span
func (r *RegularExpressionLiteral) Span() *ParseSpan {
	return r.span
}

// Visit implements the AST interface
func (r *RegularExpressionLiteral) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitRegularExpressionLiteral(r, context)
}

// ParenthesizedExpression represents a parenthesized expression
type ParenthesizedExpression struct {
	span       *ParseSpan
	Expression AST
}

// NewParenthesizedExpression creates a new ParenthesizedExpression
func NewParenthesizedExpression(span *ParseSpan, expression AST) *ParenthesizedExpression {
	return &ParenthesizedExpression{span: span, Expression: expression}
}

// Span returns the parse span
func (p *ParenthesizedExpression) Span() *ParseSpan {
	return p.span
}

// Visit implements the AST interface
func (p *ParenthesizedExpression) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitParenthesizedExpression(p, context)
}

// FilterCall represents one named filter application in a chain
type FilterCall struct {
	Name     string
	NameSpan *ParseSpan
	Args     []AST
}

// FilterChain represents `base | f1:a1 | f2:a2` — a base expression followed
// by an ordered sequence of filter applications, applied left to right.
type FilterChain struct {
	span    *ParseSpan
	Base    AST
	Filters []*FilterCall
}

// NewFilterChain creates a new FilterChain
func NewFilterChain(span *ParseSpan, base AST, filters []*FilterCall) *FilterChain {
	return &FilterChain{span: span, Base: base, Filters: filters}
}

// Span returns the parse span
func (f *FilterChain) Span() *ParseSpan {
	return f.span
}

// Visit implements the AST interface
func (f *FilterChain) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitFilterChain(f, context)
}

// ASTWithSource wraps an AST with its original source text
type ASTWithSource struct {
	AST      AST
	Source   string
	Location string
}

// NewASTWithSource creates a new ASTWithSource
func NewASTWithSource(ast AST, source, location string) *ASTWithSource {
	return &ASTWithSource{AST: ast, Source: source, Location: location}
}

// Span returns the parse span
func (a *ASTWithSource) Span() *ParseSpan {
	return a.AST.Span()
}

// Visit implements the AST interface
func (a *ASTWithSource) Visit(visitor AstVisitor, context interface{}) interface{} {
	return a.AST.Visit(visitor, context)
}

// AstVisitor is the interface for visiting expression AST nodes
type AstVisitor interface {
	VisitImplicitReceiver(ast *ImplicitReceiver, context interface{}) interface{}
	VisitThisReceiver(ast *ThisReceiver, context interface{}) interface{}
	VisitPropertyRead(ast *PropertyRead, context interface{}) interface{}
	VisitSafePropertyRead(ast *SafePropertyRead, context interface{}) interface{}
	VisitKeyedRead(ast *KeyedRead, context interface{}) interface{}
	VisitCall(ast *Call, context interface{}) interface{}
	VisitBinary(ast *Binary, context interface{}) interface{}
	VisitUnary(ast *Unary, context interface{}) interface{}
	VisitPrefixNot(ast *PrefixNot, context interface{}) interface{}
	VisitConditional(ast *Conditional, context interface{}) interface{}
	VisitLiteralPrimitive(ast *LiteralPrimitive, context interface{}) interface{}
	VisitLiteralArray(ast *LiteralArray, context interface{}) interface{}
	VisitLiteralMap(ast *LiteralMap, context interface{}) interface{}
	VisitRegularExpressionLiteral(ast *RegularExpressionLiteral, context interface{}) interface{}
	VisitParenthesizedExpression(ast *ParenthesizedExpression, context interface{}) interface{}
	VisitFilterChain(ast *FilterChain, context interface{}) interface{}
	Visit(ast AST, context interface{}) interface{}
}
