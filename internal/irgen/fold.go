package irgen

import (
	"strconv"

	"github.com/dekarrin/minic/internal/ir"
)

// FoldConstants rewrites, in place, every instruction whose arg1 and arg2
// are both integer constants and whose op-code is one of + - * / %: the
// op-code becomes an assignment, arg2 is cleared, and the comment is set to
// "constant folding". Division or modulo by zero is left unfolded; no
// diagnostic is raised here, since reporting it is the analyzer's job. A
// temporary whose defining instruction is folded is replaced by the folded
// constant in the instructions after it, so t0 = 5 * 2; t1 = 3 + t0; x = t1
// folds all the way to x = 13.
func FoldConstants(p *ir.Program) {
	folded := map[string]ir.Operand{}
	for i, ins := range p.Instructions {
		if c, ok := folded[ins.Arg1.Name]; ok && ins.Arg1.Kind == ir.OperandTemporary {
			ins.Arg1 = c
		}
		if c, ok := folded[ins.Arg2.Name]; ok && ins.Arg2.Kind == ir.OperandTemporary {
			ins.Arg2 = c
		}
		p.Instructions[i] = ins
		if !ir.IsFoldableBinary(ins.Op) {
			continue
		}
		if ins.Arg1.Kind != ir.OperandConstant || ins.Arg2.Kind != ir.OperandConstant {
			continue
		}
		a, errA := strconv.Atoi(ins.Arg1.Const)
		b, errB := strconv.Atoi(ins.Arg2.Const)
		if errA != nil || errB != nil {
			continue
		}

		var result int
		switch ins.Op {
		case ir.OpAdd:
			result = a + b
		case ir.OpSub:
			result = a - b
		case ir.OpMul:
			result = a * b
		case ir.OpDiv:
			if b == 0 {
				continue
			}
			result = a / b
		case ir.OpMod:
			if b == 0 {
				continue
			}
			result = a % b
		default:
			continue
		}

		p.Instructions[i] = ir.Instruction{
			Op:      ir.OpAssign,
			Result:  ins.Result,
			Arg1:    ir.Const(strconv.Itoa(result), ins.Result.DataType),
			Line:    ins.Line,
			Comment: "constant folding",
		}
		if ins.Result.Kind == ir.OperandTemporary {
			folded[ins.Result.Name] = p.Instructions[i].Arg1
		}
	}
}
