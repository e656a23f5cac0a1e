package calc_test

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc"
)

func TestEval(t *testing.T) {
	type vv struct {
		n string
		v float64
	}
	type vc struct {
		vars []vv
		r    float64
	}
	cases := []struct {
		name string
		src  string
		r    []vc
	}{
		{"num", "1", []vc{{nil, 1}}},
		{"frac", "1.25", []vc{{nil, 1.25}}},
		{"trailing-dot", "2.", []vc{{nil, 2}}},
		{"leading-dot", ".5", []vc{{nil, 0.5}}},
		{"ident", "x", []vc{
			{[]vv{{"x", 4}}, 4},
			{[]vv{{"x", 5}}, 5},
			{[]vv{{"x", 6}}, 6},
		}},
		{"add", "4+5+6", []vc{{nil, 4 + 5 + 6}}},
		{"sub", "4-5-6", []vc{{nil, 4 - 5 - 6}}},
		{"mul", "4*5*6", []vc{{nil, 4 * 5 * 6}}},
		{"div", "4/5/6", []vc{{nil, 4.0 / 5.0 / 6.0}}},
		{"prec", "1+2*3", []vc{{nil, 7}}},
		{"paren", "(1+2)*3", []vc{{nil, 9}}},
		{"floordiv", "10//3", []vc{{nil, 3}}},
		{"floordiv-neg", "(0-7)//2", []vc{{nil, -4}}},
		{"floordiv-negdiv", "7//(0-2)", []vc{{nil, -4}}},
		{"floordiv-exact", "(0-8)//2", []vc{{nil, -4}}},
		{"floordiv-frac", "7.5//2.5", []vc{{nil, 3}}},
		{"mod", "10%3", []vc{{nil, 1}}},
		{"mod-neg-dividend", "(0-7)%3", []vc{{nil, -1}}},
		{"mod-neg-divisor", "7%(0-3)", []vc{{nil, 1}}},
		{"mod-frac", "7.5%2", []vc{{nil, 1.5}}},
		{"mod-small-dividend", "2%7", []vc{{nil, 2}}},
		{"mod-big", "100000000000000000000%7", []vc{{nil, 2}}},
		{"mod-frac-divisor", "1%.125", []vc{{nil, 0}}},
		{"mixed", "w*x//y%z", []vc{
			{[]vv{{"w", 3}, {"x", 5}, {"y", 2}, {"z", 4}}, 3},
			{[]vv{{"w", -3}, {"x", 5}, {"y", 2}, {"z", 4}}, -0},
		}},
		{"vars", "x+y", []vc{
			{[]vv{{"x", 2}, {"y", 3}}, 5},
			{[]vv{{"x", -2}, {"y", 0.5}}, -1.5},
		}},
		{"quoted-vars", `x'*x"`, []vc{
			{[]vv{{"x'", 2}, {`x"`, 3}}, 6},
		}},
	}
	ctx := calc.NewContext(calc.Prec(64))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := calc.Parse(c.src)
			if err != nil {
				t.Fatal(c.src, "failed to parse:", err)
			}
			for _, v := range c.r {
				ctx := ctx.Clone()
				for _, x := range v.vars {
					ctx.Set(x.n, new(big.Float).SetFloat64(x.v))
				}
				r := a.Eval(ctx)
				if ctx.Err() != nil {
					t.Error("evaluation error:", ctx.Err())
				}
				if r == nil {
					t.Fatal("nil result")
				}
				if q := ctx.Result(); r != q {
					t.Errorf("different results: Eval returned %g, Result returned %g", r, q)
				}
				if f := r.Float64(); f != v.r {
					t.Errorf("wrong result: want %g, got %g", v.r, r)
				}
			}
		})
	}
}

func TestEvalSpecial(t *testing.T) {
	cases := []struct {
		name string
		src  string
		nan  bool
		inf  int
	}{
		{"div-zero", "1/0", false, 1},
		{"div-negzero", "1/(0-0)", false, 1},
		{"div-neg-zero", "(0-1)/0", false, -1},
		{"div-zero-zero", "0/0", true, 0},
		{"div-inf-inf", "(1/0)/(1/0)", true, 0},
		{"floordiv-zero", "1//0", false, 1},
		{"floordiv-zero-zero", "0//0", true, 0},
		{"mod-zero", "1%0", true, 0},
		{"mod-inf", "(1/0)%2", true, 0},
		{"mod-by-inf", "2%(1/0)", false, 0},
		{"inf-sub-inf", "1/0-1/0", true, 0},
		{"inf-add-inf", "1/0+1/0", false, 1},
		{"zero-mul-inf", "0*(1/0)", true, 0},
		{"nan-propagates", "0/0+1", true, 0},
		{"nan-mul-zero", "0*(0/0)", true, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.EvalString(c.src)
			require.NoError(t, err, "division by zero must not be an error")
			require.NotNil(t, r)
			assert.Equal(t, c.nan, r.IsNaN(), "NaN-ness of %v", r)
			assert.Equal(t, c.inf != 0, r.IsInf(), "infiniteness of %v", r)
			f := r.Float64()
			switch {
			case c.nan:
				assert.True(t, math.IsNaN(f))
				assert.Nil(t, r.Float())
			case c.inf != 0:
				assert.True(t, math.IsInf(f, c.inf), "want %d inf, got %v", c.inf, f)
			default:
				assert.False(t, math.IsNaN(f) || math.IsInf(f, 0))
			}
		})
	}
}

func TestEvalUndefNames(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars map[string]float64
		miss string
	}{
		{"x", "x", nil, "x"},
		{"add-lhs", "x+1", nil, "x"},
		{"add-rhs", "1+x", nil, "x"},
		{"sub-lhs", "x-1", nil, "x"},
		{"sub-rhs", "1-x", nil, "x"},
		{"mul-lhs", "x*1", nil, "x"},
		{"mul-rhs", "1*x", nil, "x"},
		{"div-lhs", "x/1", nil, "x"},
		{"div-rhs", "1/x", nil, "x"},
		{"floordiv-lhs", "x//1", nil, "x"},
		{"floordiv-rhs", "1//x", nil, "x"},
		{"mod-lhs", "x%1", nil, "x"},
		{"mod-rhs", "1%x", nil, "x"},
		{"partial", "x+y", map[string]float64{"x": 2}, "y"},
		{"left-first", "y+x", nil, "y"},
		{"quoted", `x"+1`, nil, `x"`},
	}
	ure := regexp.MustCompile(`(?i)\bundef`)
	vre := regexp.MustCompile(`(?i)\bvar`)
	ctx := calc.NewContext(calc.Prec(64))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := calc.Parse(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			ctx := ctx.Clone()
			for k, v := range c.vars {
				ctx.Set(k, big.NewFloat(v))
			}
			if r := a.Eval(ctx); r != nil {
				t.Errorf("evaluating %q gave non-nil result %g", c.src, r)
			}
			err = ctx.Err()
			if err == nil {
				t.Fatalf("evaluating %q gave no error", c.src)
			}
			var u *calc.NameError
			if !errors.As(err, &u) {
				t.Fatalf("error was %#v, not NameError", err)
			}
			assert.Equal(t, c.miss, u.Name)
			var ie calc.InputError
			assert.False(t, errors.As(err, &ie), "evaluation error must not be an input error")
			msg := err.Error()
			if !ure.MatchString(msg) {
				t.Errorf(`%q doesn't mention "undef"`, msg)
			}
			if !vre.MatchString(msg) {
				t.Errorf(`%q doesn't mention "var"`, msg)
			}
			// The context remains usable after an error.
			ctx.Set(c.miss, big.NewFloat(1))
			for _, k := range []string{"x", "y"} {
				if ctx.Lookup(k) == nil {
					ctx.Set(k, big.NewFloat(1))
				}
			}
			if r := a.Eval(ctx); r == nil {
				t.Errorf("evaluating %q after defining %q failed: %v", c.src, c.miss, ctx.Err())
			}
		})
	}
}

func TestEvalReuse(t *testing.T) {
	a, err := calc.Parse("x*y-x")
	require.NoError(t, err)
	c1 := calc.NewContext(calc.SetVar("x", big.NewFloat(2)), calc.SetVar("y", big.NewFloat(5)))
	c2 := calc.NewContext(calc.SetVar("x", big.NewFloat(-3)), calc.SetVar("y", big.NewFloat(4)))
	r1 := a.Eval(c1)
	r2 := a.Eval(c2)
	require.NotNil(t, r1)
	require.NotNil(t, r2)
	assert.Equal(t, 8.0, r1.Float64())
	assert.Equal(t, -9.0, r2.Float64())
	// Evaluating again must not disturb earlier results.
	r3 := a.Eval(c1)
	assert.Equal(t, 8.0, r1.Float64())
	assert.Equal(t, 8.0, r3.Float64())
	assert.Equal(t, "((x * y) - x)", a.Canonical())
}

func TestEvalPrec(t *testing.T) {
	a, err := calc.Parse("1/3")
	require.NoError(t, err)
	lo := calc.NewContext(calc.Prec(8))
	hi := lo.Clone(calc.Prec(200))
	assert.Equal(t, uint(8), lo.Prec())
	assert.Equal(t, uint(200), hi.Prec())
	rl := a.Eval(lo).Float()
	rh := a.Eval(hi).Float()
	assert.Equal(t, uint(8), rl.Prec())
	assert.Equal(t, uint(200), rh.Prec())
	assert.NotEqual(t, 0, rl.Cmp(rh))
	assert.Equal(t, uint(calc.DefaultPrec), calc.NewContext().Prec())
}

func TestCloneRounding(t *testing.T) {
	third, _, err := big.ParseFloat("0.333333333333333333333333333333", 10, 200, big.ToNearestEven)
	require.NoError(t, err)
	ctx := calc.NewContext(calc.Prec(200), calc.SetVar("x", third))
	// The last precision option applies.
	lo := ctx.Clone(calc.Prec(100), calc.Prec(8))
	require.Equal(t, uint(8), lo.Prec())
	x := lo.Lookup("x")
	assert.Equal(t, uint(8), x.Prec())
	assert.Equal(t, uint(200), ctx.Lookup("x").Prec())
	assert.NotEqual(t, 0, x.Cmp(third))

	// Literals evaluated at one precision are not reused at another.
	a, err := calc.Parse("0.1")
	require.NoError(t, err)
	rl := a.Eval(lo).Float()
	rh := a.Eval(lo.Clone(calc.Prec(200))).Float()
	assert.Equal(t, uint(200), rh.Prec())
	assert.NotEqual(t, 0, rl.Cmp(rh))
}

func TestContextVars(t *testing.T) {
	zero := new(big.Float)
	one := new(big.Float).SetFloat64(1)
	ctx := calc.NewContext(calc.Prec(64), calc.SetVar("x", zero))
	if x := ctx.Lookup("x"); x == nil || x.Cmp(zero) != 0 {
		t.Errorf("x should be %[1]v at %[1]p but is %[2]v at %[2]p", zero, x)
	}
	if y := ctx.Lookup("y"); y != nil {
		t.Errorf("context has y: %[1]v at %[1]p", y)
	}
	ctx.Set("y", one)
	if x := ctx.Lookup("x"); x == nil || x.Cmp(zero) != 0 {
		t.Errorf("x should be %[1]v at %[1]p but is %[2]v at %[2]p", zero, x)
	}
	if y := ctx.Lookup("y"); y == nil || y.Cmp(one) != 0 {
		t.Errorf("y should be %[1]v at %[1]p but is %[2]v at %[2]p", one, y)
	}
	ctx.Set("x", one)
	if x := ctx.Lookup("x"); x == nil || x.Cmp(one) != 0 {
		t.Errorf("x should be %[1]v at %[1]p but is %[2]v at %[2]p", one, x)
	}
	// Lookup must return a copy.
	ctx.Lookup("x").SetFloat64(7)
	if x := ctx.Lookup("x"); x.Cmp(one) != 0 {
		t.Errorf("x changed through Lookup: %v", x)
	}
	// Clones must not share Set.
	c := ctx.Clone()
	c.Set("x", zero)
	if x := ctx.Lookup("x"); x.Cmp(one) != 0 {
		t.Errorf("x changed through clone: %v", x)
	}
}

func TestContextMissing(t *testing.T) {
	a, err := calc.Parse("c*b+a*b")
	require.NoError(t, err)
	ctx := calc.NewContext()
	assert.Equal(t, []string{"a", "b", "c"}, ctx.Missing(a))
	ctx.Set("b", big.NewFloat(1))
	assert.Equal(t, []string{"a", "c"}, ctx.Missing(a))
	ctx.Set("a", big.NewFloat(1)).Set("c", big.NewFloat(1))
	assert.Empty(t, ctx.Missing(a))
}

func TestEvalString(t *testing.T) {
	r, err := calc.EvalString("x+1", calc.SetVar("x", big.NewFloat(41)))
	require.NoError(t, err)
	assert.Equal(t, 42.0, r.Float64())

	_, err = calc.EvalString("x+")
	var se *calc.SyntaxError
	assert.True(t, errors.As(err, &se), "%#v is not a SyntaxError", err)

	_, err = calc.EvalString("x+1")
	var ne *calc.NameError
	assert.True(t, errors.As(err, &ne), "%#v is not a NameError", err)
}

func BenchmarkEval(b *testing.B) {
	vars := map[string]*big.Float{
		"x": big.NewFloat(2),
		"y": big.NewFloat(3),
		"z": big.NewFloat(4),
	}
	b.Run("nums", func(b *testing.B) {
		b.ReportAllocs()
		ctx := calc.NewContext(calc.Prec(64))
		a, err := calc.Parse("2+3+4")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			a.Eval(ctx)
		}
	})
	b.Run("vars", func(b *testing.B) {
		b.ReportAllocs()
		ctx := calc.NewContext(calc.SetVars(vars), calc.Prec(64))
		a, err := calc.Parse("x*y//z+x%y")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			a.Eval(ctx)
		}
	})
}

func Example() {
	a, _ := calc.Parse("x*x//y+x%y")
	ctx := calc.NewContext(calc.SetVar("y", big.NewFloat(4)))
	fmt.Println(a.Vars())
	for i := 1; i <= 3; i++ {
		x := big.NewFloat(float64(3 * i))
		r := a.Eval(ctx.Set("x", x))
		fmt.Printf("x = %g   r = %g\n", x, r)
	}
	fmt.Println(calc.EvalString("1/0"))

	// Output:
	// [x y]
	// x = 3   r = 5
	// x = 6   r = 11
	// x = 9   r = 21
	// +Inf <nil>
}
