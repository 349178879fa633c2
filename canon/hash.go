package canon

import (
	"hash/fnv"

	"github.com/katalvlaran/scalardiff/autodiff"
)

// runningHash is the 64-bit accumulator from spec §4.3 step 4: two 32-bit
// halves, each advanced by its own prime multiplier, so a single mix()
// cannot cancel itself out by symmetry the way one shared multiplier could.
type runningHash struct {
	hi, lo uint32
}

const (
	primeHi uint32 = 2654435761 // Knuth's multiplicative hash constant
	primeLo uint32 = 2246822519 // xxhash's PRIME32_2
)

func (h *runningHash) mix(v uint64) {
	h.hi = h.hi*primeHi + uint32(v>>32)
	h.lo = h.lo*primeLo + uint32(v)
}

func (h *runningHash) sum() uint64 {
	return uint64(h.hi)<<32 | uint64(h.lo)
}

// opConstants maps every operator tag to a pre-chosen 64-bit constant
// (spec §4.3 step 4: "a fixed table maps operator tags to pre-chosen 64-bit
// constants"). Constants are derived once, deterministically, from each
// tag's wire-stable name via FNV-1a rather than hand-listed, so the table
// can never silently drift from optags.go's catalog.
var opConstants = map[autodiff.OpTag]uint64{}

func init() {
	for _, tag := range []autodiff.OpTag{
		autodiff.OpParameter, autodiff.OpConstant,
		autodiff.OpAdd, autodiff.OpSub, autodiff.OpMul, autodiff.OpDiv,
		autodiff.OpMin, autodiff.OpMax, autodiff.OpMod, autodiff.OpPowValue,
		autodiff.OpEq, autodiff.OpNeq, autodiff.OpLt, autodiff.OpLte, autodiff.OpGt, autodiff.OpGte,
		autodiff.OpNeg, autodiff.OpAbs, autodiff.OpSign, autodiff.OpReciprocal,
		autodiff.OpSquare, autodiff.OpCube, autodiff.OpPowConst, autodiff.OpSqrt,
		autodiff.OpExp, autodiff.OpLog, autodiff.OpFloor, autodiff.OpCeil,
		autodiff.OpRound, autodiff.OpClamp,
		autodiff.OpSin, autodiff.OpCos, autodiff.OpTan, autodiff.OpAsin, autodiff.OpAcos, autodiff.OpAtan,
		autodiff.OpRelu, autodiff.OpSoftplus, autodiff.OpSigmoid, autodiff.OpTanh,
		autodiff.OpSum, autodiff.OpMean,
		autodiff.OpIfThenElse, autodiff.OpCustom,
	} {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tag.Name()))
		opConstants[tag] = h.Sum64()
	}
}

// opConstant looks up the fixed per-tag mixing constant. customName, when
// non-empty, is folded in too (spec §4.3's custom-gradient note: "hashes
// such nodes by a caller-provided stable name plus child positions").
func opConstant(tag autodiff.OpTag, customName string) uint64 {
	base := opConstants[tag]
	if customName == "" {
		return base
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(customName))
	return base ^ h.Sum64()
}
