package calc

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"strings"
)

// Value is the result of evaluating an expression. It holds an
// extended-precision number which, unlike a big.Float, may also be NaN, the
// result of operations such as 0/0 that have no defined value.
type Value struct {
	f   big.Float
	nan bool
}

// IsNaN reports whether v is not a number.
func (v *Value) IsNaN() bool {
	return v.nan
}

// IsInf reports whether v is an infinity.
func (v *Value) IsInf() bool {
	return !v.nan && v.f.IsInf()
}

// Float returns a copy of v as a big.Float. If v is NaN, the result is nil.
func (v *Value) Float() *big.Float {
	if v.nan {
		return nil
	}
	return new(big.Float).Copy(&v.f)
}

// Float64 returns the float64 nearest to v.
func (v *Value) Float64() float64 {
	if v.nan {
		return math.NaN()
	}
	f, _ := v.f.Float64()
	return f
}

// Text converts v to a string according to the given format and precision,
// as big.Float.Text does. NaN is formatted as "NaN".
func (v *Value) Text(format byte, prec int) string {
	if v.nan {
		return "NaN"
	}
	return v.f.Text(format, prec)
}

func (v *Value) String() string {
	return v.Text('g', 10)
}

// Format implements fmt.Formatter with the verbs big.Float supports.
func (v *Value) Format(s fmt.State, verb rune) {
	if !v.nan {
		v.f.Format(s, verb)
		return
	}
	const nan = "NaN"
	pad := ""
	if w, ok := s.Width(); ok && w > len(nan) {
		pad = strings.Repeat(" ", w-len(nan))
	}
	if s.Flag('-') {
		io.WriteString(s, nan+pad)
	} else {
		io.WriteString(s, pad+nan)
	}
}

// setFloat sets z to x, rounded to z's precision.
func (z *Value) setFloat(x *big.Float) {
	z.nan = false
	z.f.Set(x)
}

// arith sets z to op(x, y). If either operand is NaN or op panics with
// big.ErrNaN, z becomes NaN. z may alias x or y.
func (z *Value) arith(x, y *Value, op func(z, x, y *big.Float)) {
	if x.nan || y.nan {
		z.nan = true
		return
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(big.ErrNaN); !ok {
			panic(r)
		}
		z.nan = true
	}()
	z.nan = false
	op(&z.f, &x.f, &y.f)
}

func add(z, x, y *big.Float) { z.Add(x, y) }
func sub(z, x, y *big.Float) { z.Sub(x, y) }
func mul(z, x, y *big.Float) { z.Mul(x, y) }
func quo(z, x, y *big.Float) { z.Quo(x, y) }

// floorquo sets z to floor(x/y), where x/y is rounded to z's precision first.
func floorquo(z, x, y *big.Float) {
	z.Quo(x, y)
	floor(z)
}

var bigOne = big.NewInt(1)

// floor rounds z toward negative infinity.
func floor(z *big.Float) {
	if z.IsInf() || z.IsInt() {
		return
	}
	i, _ := z.Int(nil)
	if z.Signbit() {
		i.Sub(i, bigOne)
	}
	z.SetInt(i)
}

// rem sets z to the remainder of x/y truncated toward zero, so that the result
// has the sign of x, as C fmod does. The result is exact.
func rem(z, x, y *big.Float) {
	switch {
	case x.IsInf(), y.Sign() == 0:
		panic(big.ErrNaN{})
	case y.IsInf(), x.Sign() == 0:
		z.Set(x)
		return
	}
	neg := x.Signbit()
	xm, xe := intexp(x)
	ym, ye := intexp(y)
	e := xe
	if ye < e {
		e = ye
	}
	xm.Lsh(xm, uint(xe-e))
	ym.Lsh(ym, uint(ye-e))
	xm.Rem(xm, ym)
	z.SetInt(xm)
	z.SetMantExp(z, e)
	if xm.Sign() == 0 && neg {
		z.Neg(z)
	}
}

// intexp returns m and e such that x = m × 2**e exactly, with m an integer.
// x must be finite.
func intexp(x *big.Float) (*big.Int, int) {
	var m big.Float
	e := x.MantExp(&m)
	p := int(x.MinPrec())
	m.SetMantExp(&m, p)
	i, _ := m.Int(nil)
	return i, e - p
}
