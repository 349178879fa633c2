package kernel

import (
	"math"

	"github.com/katalvlaran/scalardiff/autodiff"
)

// instruction is one non-leaf node reduced to register references: no
// pointer back to the Node that produced it survives compilation, so a
// Kernel is stateless and reusable across any residual sharing its
// signature (spec §4.4: "pure with respect to its inputs; it has no
// hidden state").
type instruction struct {
	op       autodiff.OpTag
	parents  []int32 // register indices of operands, in order
	out      int32   // register this instruction's forward value is written to
	constA   float64 // exponent, clamp-lo, or if-then-else branch flag
	constB   float64 // clamp-hi
	custom   autodiff.CustomForward
	customBk autodiff.CustomBackward
}

// evalForward computes instr's value from already-populated registers in
// reg and writes it to reg[instr.out]. Mirrors autodiff.forwardValue's
// switch exactly, operand-for-operand, since the kernel's correctness
// contract is to agree with the graph's own Forward to the bit — except
// that out-of-domain operands here produce NaN/Inf rather than an error:
// kernels never return a domain error.
func evalForward(instr instruction, reg []float64) float64 {
	p := instr.parents
	arg := func(i int) float64 { return reg[p[i]] }

	switch instr.op {
	case autodiff.OpAdd:
		return arg(0) + arg(1)
	case autodiff.OpSub:
		return arg(0) - arg(1)
	case autodiff.OpMul:
		return arg(0) * arg(1)
	case autodiff.OpDiv:
		return arg(0) / arg(1)
	case autodiff.OpMin:
		return math.Min(arg(0), arg(1))
	case autodiff.OpMax:
		return math.Max(arg(0), arg(1))
	case autodiff.OpMod:
		return math.Mod(arg(0), arg(1))
	case autodiff.OpPowValue:
		return math.Pow(arg(0), arg(1))

	case autodiff.OpEq:
		return boolToF(arg(0) == arg(1))
	case autodiff.OpNeq:
		return boolToF(arg(0) != arg(1))
	case autodiff.OpLt:
		return boolToF(arg(0) < arg(1))
	case autodiff.OpLte:
		return boolToF(arg(0) <= arg(1))
	case autodiff.OpGt:
		return boolToF(arg(0) > arg(1))
	case autodiff.OpGte:
		return boolToF(arg(0) >= arg(1))

	case autodiff.OpNeg:
		return -arg(0)
	case autodiff.OpAbs:
		return math.Abs(arg(0))
	case autodiff.OpSign:
		return signOf(arg(0))
	case autodiff.OpReciprocal:
		return 1 / arg(0)
	case autodiff.OpSquare:
		v := arg(0)
		return v * v
	case autodiff.OpCube:
		v := arg(0)
		return v * v * v
	case autodiff.OpPowConst:
		return math.Pow(arg(0), instr.constA)
	case autodiff.OpSqrt:
		return math.Sqrt(arg(0))
	case autodiff.OpExp:
		return math.Exp(arg(0))
	case autodiff.OpLog:
		return math.Log(arg(0))
	case autodiff.OpFloor:
		return math.Floor(arg(0))
	case autodiff.OpCeil:
		return math.Ceil(arg(0))
	case autodiff.OpRound:
		return math.Round(arg(0))
	case autodiff.OpClamp:
		return clampf(arg(0), instr.constA, instr.constB)

	case autodiff.OpSin:
		return math.Sin(arg(0))
	case autodiff.OpCos:
		return math.Cos(arg(0))
	case autodiff.OpTan:
		return math.Tan(arg(0))
	case autodiff.OpAsin:
		return math.Asin(arg(0))
	case autodiff.OpAcos:
		return math.Acos(arg(0))
	case autodiff.OpAtan:
		return math.Atan(arg(0))

	case autodiff.OpRelu:
		return math.Max(0, arg(0))
	case autodiff.OpSoftplus:
		return softplus(arg(0))
	case autodiff.OpSigmoid:
		return sigmoid(arg(0))
	case autodiff.OpTanh:
		return math.Tanh(arg(0))

	case autodiff.OpSum:
		sum := 0.0
		for _, r := range p {
			sum += reg[r]
		}
		return sum
	case autodiff.OpMean:
		sum := 0.0
		for _, r := range p {
			sum += reg[r]
		}
		return sum / float64(len(p))

	case autodiff.OpIfThenElse:
		if int(instr.constA) == 0 {
			return arg(1)
		}
		return arg(2)

	case autodiff.OpCustom:
		ins := make([]float64, len(p))
		for i, r := range p {
			ins[i] = reg[r]
		}
		return instr.custom(ins)
	}
	// Unreachable for any kernel Compile produces: every OpTag it emits an
	// instruction for is one of the cases above.
	return math.NaN()
}

// evalBackward applies instr's backward rule, adding its contribution
// (weighted by g, the gradient already accumulated at instr.out) into
// each parent register's gradient accumulator. Mirrors
// autodiff.backwardStep operand-for-operand.
func evalBackward(instr instruction, reg, grad []float64) {
	p := instr.parents
	g := grad[instr.out]
	outVal := reg[instr.out]
	arg := func(i int) float64 { return reg[p[i]] }
	addGrad := func(i int, d float64) { grad[p[i]] += d }

	switch instr.op {
	case autodiff.OpAdd:
		addGrad(0, g)
		addGrad(1, g)
	case autodiff.OpSub:
		addGrad(0, g)
		addGrad(1, -g)
	case autodiff.OpMul:
		addGrad(0, g*arg(1))
		addGrad(1, g*arg(0))
	case autodiff.OpDiv:
		a, b := arg(0), arg(1)
		addGrad(0, g/b)
		addGrad(1, -g*a/(b*b))
	case autodiff.OpMin:
		if arg(0) <= arg(1) {
			addGrad(0, g)
		} else {
			addGrad(1, g)
		}
	case autodiff.OpMax:
		if arg(0) >= arg(1) {
			addGrad(0, g)
		} else {
			addGrad(1, g)
		}
	case autodiff.OpMod:
		a, b := arg(0), arg(1)
		addGrad(0, g)
		addGrad(1, -g*math.Floor(a/b))
	case autodiff.OpPowValue:
		a, b := arg(0), arg(1)
		addGrad(0, g*b*math.Pow(a, b-1))
		addGrad(1, g*math.Pow(a, b)*math.Log(a))

	case autodiff.OpEq, autodiff.OpNeq, autodiff.OpLt, autodiff.OpLte, autodiff.OpGt, autodiff.OpGte:
		// zero gradient.

	case autodiff.OpNeg:
		addGrad(0, -g)
	case autodiff.OpAbs:
		sign := 1.0
		if arg(0) < 0 {
			sign = -1
		}
		addGrad(0, g*sign)
	case autodiff.OpSign:
		// zero gradient.
	case autodiff.OpReciprocal:
		x := arg(0)
		addGrad(0, -g/(x*x))
	case autodiff.OpSquare:
		addGrad(0, g*2*arg(0))
	case autodiff.OpCube:
		x := arg(0)
		addGrad(0, g*3*x*x)
	case autodiff.OpPowConst:
		x, exp := arg(0), instr.constA
		addGrad(0, g*exp*math.Pow(x, exp-1))
	case autodiff.OpSqrt:
		addGrad(0, g*0.5/outVal)
	case autodiff.OpExp:
		addGrad(0, g*outVal)
	case autodiff.OpLog:
		addGrad(0, g/arg(0))
	case autodiff.OpFloor, autodiff.OpCeil, autodiff.OpRound:
		// zero gradient.
	case autodiff.OpClamp:
		x := arg(0)
		if x > instr.constA && x < instr.constB {
			addGrad(0, g)
		}

	case autodiff.OpSin:
		addGrad(0, g*math.Cos(arg(0)))
	case autodiff.OpCos:
		addGrad(0, -g*math.Sin(arg(0)))
	case autodiff.OpTan:
		c := math.Cos(arg(0))
		addGrad(0, g/(c*c))
	case autodiff.OpAsin:
		x := arg(0)
		addGrad(0, g/math.Sqrt(1-x*x))
	case autodiff.OpAcos:
		x := arg(0)
		addGrad(0, -g/math.Sqrt(1-x*x))
	case autodiff.OpAtan:
		x := arg(0)
		addGrad(0, g/(1+x*x))

	case autodiff.OpRelu:
		if arg(0) > 0 {
			addGrad(0, g)
		}
	case autodiff.OpSoftplus:
		addGrad(0, g*sigmoid(arg(0)))
	case autodiff.OpSigmoid:
		s := outVal
		addGrad(0, g*s*(1-s))
	case autodiff.OpTanh:
		t := outVal
		addGrad(0, g*(1-t*t))

	case autodiff.OpSum:
		for _, r := range p {
			grad[r] += g
		}
	case autodiff.OpMean:
		share := g / float64(len(p))
		for _, r := range p {
			grad[r] += share
		}

	case autodiff.OpIfThenElse:
		if int(instr.constA) == 0 {
			addGrad(1, g)
		} else {
			addGrad(2, g)
		}

	case autodiff.OpCustom:
		ins := make([]float64, len(p))
		for i, r := range p {
			ins[i] = reg[r]
		}
		contrib := instr.customBk(ins, g)
		for i, r := range p {
			grad[r] += contrib[i]
		}
	}
}

func boolToF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func signOf(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func softplus(x float64) float64 {
	if x > 20 {
		return x + math.Log1p(math.Exp(-x))
	}
	if x < -20 {
		return math.Exp(x)
	}
	return math.Log1p(math.Exp(x))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
