package calc

import (
	"math/big"
	"strconv"
)

// Context holds what an expression needs to be evaluated: the values of its
// variables and the precision in bits of every intermediate result. A parsed
// Expr can be evaluated any number of times with one Context, changing
// variables with Set in between. A Context must not be shared between
// goroutines; each should evaluate with its own Clone.
type Context struct {
	// stack holds operands during evaluation and the result afterward.
	stack []*Value
	// nums caches parsed number literals by their text.
	nums map[string]*big.Float
	// names holds variable values, rounded to prec.
	names map[string]*big.Float
	prec  uint
	err   error
}

// ContextOption configures a Context in NewContext or Clone.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  *big.Float
	}
	varsopt map[string]*big.Float
	precopt uint
)

func (varopt) ctxOption()  {}
func (varsopt) ctxOption() {}
func (precopt) ctxOption() {}

// SetVar gives a variable a value. The value is copied.
func SetVar(name string, val *big.Float) ContextOption {
	return varopt{name, val}
}

// SetVars gives values to every variable in vars, e.g. one set of a batch.
// The values are copied.
func SetVars(vars map[string]*big.Float) ContextOption {
	return varsopt(vars)
}

// Prec sets the precision of calculations in bits. Variable values are
// rounded to it.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// DefaultPrec is the precision of a context created without a Prec option.
// It is the mantissa width of an x87 extended-precision float.
const DefaultPrec = 64

// NewContext creates a context with no variables at DefaultPrec, then
// applies opts.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{nums: make(map[string]*big.Float), prec: DefaultPrec}
	return ctx.Clone(opts...)
}

// Eval evaluates an expression and returns the result. If a variable in the
// expression has no value in the context, then the result is nil and ctx.Err
// returns a *NameError. Division by zero is not an error; it produces an
// infinity or NaN.
//
// The returned Value is not modified by later evaluations.
func (ctx *Context) Eval(e *Expr) *Value {
	switch len(ctx.stack) {
	case 0: // do nothing
	case 1:
		// The previous result belongs to the caller now.
		ctx.stack[0] = ctx.newValue()
		ctx.stack = ctx.stack[:0]
	default:
		panic("calc: Eval during Eval")
	}
	ctx.err = e.n.eval(ctx)
	if ctx.err != nil {
		// Leave the stack ready for the next evaluation.
		ctx.stack = ctx.stack[:0]
		return nil
	}
	return ctx.Result()
}

// Eval is a shortcut for ctx.Eval(e).
func (e *Expr) Eval(ctx *Context) *Value {
	return ctx.Eval(e)
}

// Result returns the value of the last expression evaluated with ctx, or nil
// if that evaluation failed. It panics if ctx has not evaluated anything.
func (ctx *Context) Result() *Value {
	if ctx.err != nil {
		return nil
	}
	if len(ctx.stack) == 0 {
		panic("calc: Context.Result called before evaluating any expression")
	}
	if len(ctx.stack) > 1 {
		panic("calc: " + strconv.Itoa(len(ctx.stack)) + " operands left after evaluation")
	}
	return ctx.stack[0]
}

// Err returns the error from the last evaluation with ctx, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// Set gives a variable a value rounded to the context's precision, replacing
// any previous value. It returns ctx so that calls can be chained.
func (ctx *Context) Set(name string, value *big.Float) *Context {
	if len(ctx.stack) > 1 {
		panic("calc: Set on in-use context")
	}
	if ctx.names == nil {
		ctx.names = make(map[string]*big.Float)
	}
	ctx.names[name] = ctx.round(value)
	return ctx
}

// Lookup returns a copy of a variable's value, or nil if it has none.
func (ctx *Context) Lookup(name string) *big.Float {
	v := ctx.names[name]
	if v == nil {
		return nil
	}
	return new(big.Float).Copy(v)
}

// Missing returns the variables of e which have no value in ctx, in
// lexicographic order. These are the variables a session has to ask for.
func (ctx *Context) Missing(e *Expr) []string {
	var r []string
	for _, name := range e.names {
		if ctx.names[name] == nil {
			r = append(r, name)
		}
	}
	return r
}

// Prec returns the precision of calculations in bits.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Clone returns a context with the same variables and precision as ctx, then
// applies opts to it. Changing variables of the clone does not affect ctx. If
// opts change the precision, every variable is rounded to the new one.
//
// Clone only reads ctx, so many goroutines may clone one context as long as
// none of them modifies it.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		stack: make([]*Value, 0, cap(ctx.stack)),
		names: make(map[string]*big.Float, len(ctx.names)),
		prec:  ctx.prec,
	}
	// The last Prec option wins.
	for _, opt := range opts {
		if p, ok := opt.(precopt); ok {
			n.prec = uint(p)
		}
	}
	if n.prec == ctx.prec {
		// Stored values are never modified, so the clone can share them.
		n.nums = make(map[string]*big.Float, len(ctx.nums))
		for k, v := range ctx.nums {
			n.nums[k] = v
		}
		for name, val := range ctx.names {
			n.names[name] = val
		}
	} else {
		// Literals are parsed again at the new precision as they appear.
		n.nums = make(map[string]*big.Float)
		for name, val := range ctx.names {
			n.names[name] = n.round(val)
		}
	}
	for _, opt := range opts {
		switch opt := opt.(type) {
		case nil, precopt:
			// nothing to do
		case varopt:
			n.names[opt.name] = n.round(opt.val)
		case varsopt:
			for k, v := range opt {
				n.names[k] = n.round(v)
			}
		default:
			panic("calc: unknown option type")
		}
	}
	return &n
}

// round returns a copy of x at the context's precision.
func (ctx *Context) round(x *big.Float) *big.Float {
	return new(big.Float).SetPrec(ctx.prec).Set(x)
}

// newValue allocates a zero value at the context's precision.
func (ctx *Context) newValue() *Value {
	v := new(Value)
	v.f.SetPrec(ctx.prec)
	return v
}

// push grows the operand stack by one and returns the new top for the caller
// to set. Values left from earlier evaluations are reused.
func (ctx *Context) push() *Value {
	k := len(ctx.stack)
	if k == cap(ctx.stack) {
		ctx.stack = append(ctx.stack, ctx.newValue())
		return ctx.stack[k]
	}
	ctx.stack = ctx.stack[:k+1]
	if ctx.stack[k] == nil {
		ctx.stack[k] = ctx.newValue()
	}
	return ctx.stack[k]
}

// pop removes the right operand of a binary operation. It stays valid only
// until the next push.
func (ctx *Context) pop() *Value {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top returns the left operand, which receives the operation's result.
func (ctx *Context) top() *Value {
	return ctx.stack[len(ctx.stack)-1]
}

// num gets a possibly cached number from its text. The parser guarantees that
// the text is a valid decimal number.
func (ctx *Context) num(s string) *big.Float {
	if r := ctx.nums[s]; r != nil {
		return r
	}
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(s, 10)
	if err != nil {
		panic("calc: invalid number: " + s + " (" + err.Error() + ")")
	}
	ctx.nums[s] = r
	return r
}

// eval pushes the node's value to the context's stack. Both operands of a
// binary node are always evaluated, left first.
func (n *node) eval(ctx *Context) error {
	switch n.kind {
	case nodeNum:
		ctx.push().setFloat(ctx.num(n.name))
		return nil
	case nodeName:
		v := ctx.names[n.name]
		if v == nil {
			return &NameError{Name: n.name}
		}
		ctx.push().setFloat(v)
		return nil
	}
	if !n.kind.binary() {
		panic("calc: invalid AST node " + n.kind.String())
	}
	if err := n.left.eval(ctx); err != nil {
		return err
	}
	if err := n.right.eval(ctx); err != nil {
		return err
	}
	r := ctx.pop()
	l := ctx.top()
	switch n.kind {
	case nodeAdd:
		l.arith(l, r, add)
	case nodeSub:
		l.arith(l, r, sub)
	case nodeMul:
		l.arith(l, r, mul)
	case nodeDiv:
		l.arith(l, r, quo)
	case nodeFloorDiv:
		l.arith(l, r, floorquo)
	case nodeMod:
		l.arith(l, r, rem)
	}
	return nil
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (*Value, error) {
	ctx := NewContext(opts...)
	a, err := Parse(src)
	if err != nil {
		return nil, err
	}
	ctx.Eval(a)
	return ctx.Result(), ctx.Err()
}

// NameError reports that an expression uses a variable to which the Context
// gave no value.
type NameError struct {
	// Name is the variable without a value.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}
