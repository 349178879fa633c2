package autodiff

// OpTag is a closed enumeration of every operator this engine recognizes.
// A kernel compiler must recognize exactly this set; there is no open
// polymorphic dispatch over operators (see kernel.Compile).
type OpTag uint8

// The operator catalog. Order is append-only — inserting in the middle
// would shift the raw iota values but not the wire-stable names below,
// and canon hashes Name(), never the raw iota value.
const (
	OpParameter OpTag = iota
	OpConstant

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMin
	OpMax
	OpMod
	OpPowValue

	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte

	OpNeg
	OpAbs
	OpSign
	OpReciprocal
	OpSquare
	OpCube
	OpPowConst
	OpSqrt
	OpExp
	OpLog
	OpFloor
	OpCeil
	OpRound
	OpClamp

	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpAtan

	OpRelu
	OpSoftplus
	OpSigmoid
	OpTanh

	OpSum
	OpMean

	OpIfThenElse
	OpCustom

	opTagCount
)

var opNames = [opTagCount]string{
	OpParameter:  "parameter",
	OpConstant:   "constant",
	OpAdd:        "+",
	OpSub:        "−",
	OpMul:        "×",
	OpDiv:        "÷",
	OpMin:        "min",
	OpMax:        "max",
	OpMod:        "mod",
	OpPowValue:   "pow-value",
	OpEq:         "eq",
	OpNeq:        "neq",
	OpLt:         "lt",
	OpLte:        "lte",
	OpGt:         "gt",
	OpGte:        "gte",
	OpNeg:        "neg",
	OpAbs:        "abs",
	OpSign:       "sign",
	OpReciprocal: "reciprocal",
	OpSquare:     "square",
	OpCube:       "cube",
	OpPowConst:   "pow-const",
	OpSqrt:       "sqrt",
	OpExp:        "exp",
	OpLog:        "log",
	OpFloor:      "floor",
	OpCeil:       "ceil",
	OpRound:      "round",
	OpClamp:      "clamp",
	OpSin:        "sin",
	OpCos:        "cos",
	OpTan:        "tan",
	OpAsin:       "asin",
	OpAcos:       "acos",
	OpAtan:       "atan",
	OpRelu:       "relu",
	OpSoftplus:   "softplus",
	OpSigmoid:    "sigmoid",
	OpTanh:       "tanh",
	OpSum:        "sum",
	OpMean:       "mean",
	OpIfThenElse: "if-then-else",
	OpCustom:     "custom",
}

// Name returns the wire-stable operator name from spec §6. Custom nodes
// report "custom/<name>" via Node.CustomName, not this method alone.
func (t OpTag) Name() string {
	if int(t) < len(opNames) {
		return opNames[t]
	}
	return "unknown"
}

func (t OpTag) String() string { return t.Name() }
