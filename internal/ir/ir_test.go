package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Instruction_String(t *testing.T) {
	testCases := []struct {
		name   string
		ins    Instruction
		expect string
	}{
		{
			name:   "label",
			ins:    Instruction{Op: OpLabel, Result: Label("L0")},
			expect: "L0:",
		},
		{
			name:   "goto",
			ins:    Instruction{Op: OpGoto, Arg1: Label("L1")},
			expect: "goto L1",
		},
		{
			name:   "if-true",
			ins:    Instruction{Op: OpIfTrueGoto, Result: Label("L2"), Arg1: Temp("t0", "bool")},
			expect: "if t0 goto L2",
		},
		{
			name:   "if-false",
			ins:    Instruction{Op: OpIfFalseGoto, Result: Label("L2"), Arg1: Temp("t0", "bool")},
			expect: "ifFalse t0 goto L2",
		},
		{
			name:   "bare return",
			ins:    Instruction{Op: OpReturn},
			expect: "return",
		},
		{
			name:   "return with value",
			ins:    Instruction{Op: OpReturn, Arg1: Const("1", "int")},
			expect: "return 1",
		},
		{
			name:   "call",
			ins:    Instruction{Op: OpCall, Result: Temp("t1", "int"), Arg1: Func("foo")},
			expect: "call t1 = foo",
		},
		{
			name:   "assign",
			ins:    Instruction{Op: OpAssign, Result: Var("x", "int"), Arg1: Const("5", "int")},
			expect: "x = 5",
		},
		{
			name:   "unary",
			ins:    Instruction{Op: OpNeg, Result: Temp("t2", "int"), Arg1: Var("y", "int")},
			expect: "t2 = -y",
		},
		{
			name:   "binary",
			ins:    Instruction{Op: OpAdd, Result: Temp("t3", "int"), Arg1: Var("x", "int"), Arg2: Const("1", "int")},
			expect: "t3 = x + 1",
		},
		{
			name:   "comment on assign",
			ins:    Instruction{Op: OpAssign, Result: Var("x", "int"), Arg1: Const("5", "int"), Comment: "constant folding"},
			expect: "x = 5  // constant folding",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.ins.String())
		})
	}
}

func Test_Program_NewTemp_NewLabel(t *testing.T) {
	p := NewProgram()
	assert.Equal(t, "t0", p.NewTemp("int").Name)
	assert.Equal(t, "t1", p.NewTemp("int").Name)
	assert.Equal(t, "L0", p.NewLabel())
	assert.Equal(t, "L1", p.NewLabel())
	assert.Equal(t, 2, p.TemporaryCount())
	assert.Equal(t, 2, p.LabelCount())
}

func Test_Program_BasicBlockCount(t *testing.T) {
	p := NewProgram()
	p.Emit(Instruction{Op: OpAssign, Result: Var("x", "int"), Arg1: Const("1", "int")})
	p.Emit(Instruction{Op: OpGoto, Arg1: Label("L0")})
	p.Emit(Instruction{Op: OpLabel, Result: Label("L0")})
	p.Emit(Instruction{Op: OpAssign, Result: Var("y", "int"), Arg1: Const("2", "int")})

	assert.Equal(t, 2, p.BasicBlockCount())
	assert.Equal(t, 4, p.InstructionCount())
}

func Test_Operand_IsZero(t *testing.T) {
	var z Operand
	assert.True(t, z.IsZero())
	assert.False(t, Var("x", "int").IsZero())
}
