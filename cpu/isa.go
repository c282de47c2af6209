package cpu

// Standard opcodes carry a 20-bit argument.
const (
	OP_LDC  = Opcode(0x0) // acc = c
	OP_LDV  = Opcode(0x1) // acc = mem[a]
	OP_STV  = Opcode(0x2) // mem[a] = acc
	OP_ADD  = Opcode(0x3) // acc += mem[a]
	OP_AND  = Opcode(0x4) // acc &= mem[a]
	OP_OR   = Opcode(0x5) // acc |= mem[a]
	OP_XOR  = Opcode(0x6) // acc ^= mem[a]
	OP_EQL  = Opcode(0x7) // acc = acc == mem[a] ? -1 : 0
	OP_JMP  = Opcode(0x8) // ip = a
	OP_JMN  = Opcode(0x9) // if acc < 0 { ip = a }
	OP_LDIV = Opcode(0xA) // acc = mem[mem[a]]
	OP_STIV = Opcode(0xB) // mem[mem[a]] = acc
	OP_CALL = Opcode(0xC) // ra = ip; ip = a
	OP_LDVR = Opcode(0xD) // acc = mem[sp + d]
	OP_STVR = Opcode(0xE) // mem[sp + d] = acc
)

// Large opcodes carry a 16-bit argument, and most of them none at all.
const (
	OP_HALT = Opcode(0xF0)
	OP_NOT  = Opcode(0xF1) // acc = ^acc
	OP_RAR  = Opcode(0xF2) // rotate acc right by one
	OP_RET  = Opcode(0xF3) // ip = ra
	OP_LDSP = Opcode(0xF4) // acc = sp
	OP_STSP = Opcode(0xF5) // sp = acc
	OP_LDFP = Opcode(0xF6) // acc = fp
	OP_STFP = Opcode(0xF7) // fp = acc
	OP_LDRA = Opcode(0xF8) // acc = ra
	OP_STRA = Opcode(0xF9) // ra = acc
	OP_ADC  = Opcode(0xFA) // acc += c, c is 16 bits
)

// instructionSet returns the instruction table.
func instructionSet() []Instruction {
	return []Instruction{
		{OP_LDC, "LDC", true, doLdc},
		{OP_LDV, "LDV", true, doLdv},
		{OP_STV, "STV", true, doStv},
		{OP_ADD, "ADD", true, aluMemory(func(a, b int64) int64 { return a + b })},
		{OP_AND, "AND", true, aluMemory(func(a, b int64) int64 { return a & b })},
		{OP_OR, "OR", true, aluMemory(func(a, b int64) int64 { return a | b })},
		{OP_XOR, "XOR", true, aluMemory(func(a, b int64) int64 { return a ^ b })},
		{OP_EQL, "EQL", true, aluMemory(func(a, b int64) int64 {
			if a == b {
				return -1
			}
			return 0
		})},
		{OP_JMP, "JMP", true, doJmp},
		{OP_JMN, "JMN", true, doJmn},
		{OP_LDIV, "LDIV", true, doLdiv},
		{OP_STIV, "STIV", true, doStiv},
		{OP_CALL, "CALL", true, doCall},
		{OP_LDVR, "LDVR", true, doLdvr},
		{OP_STVR, "STVR", true, doStvr},

		{OP_HALT, "HALT", false, doHalt},
		{OP_NOT, "NOT", false, doNot},
		{OP_RAR, "RAR", false, doRar},
		{OP_RET, "RET", false, doRet},
		{OP_LDSP, "LDSP", false, loadRegister(func(regs *Registers) *Address { return &regs.StackPointer })},
		{OP_STSP, "STSP", false, storeRegister(func(regs *Registers) *Address { return &regs.StackPointer })},
		{OP_LDFP, "LDFP", false, loadRegister(func(regs *Registers) *Address { return &regs.FramePointer })},
		{OP_STFP, "STFP", false, storeRegister(func(regs *Registers) *Address { return &regs.FramePointer })},
		{OP_LDRA, "LDRA", false, loadRegister(func(regs *Registers) *Address { return &regs.ReturnAddress })},
		{OP_STRA, "STRA", false, storeRegister(func(regs *Registers) *Address { return &regs.ReturnAddress })},
		{OP_ADC, "ADC", true, doAdc},
	}
}

func doLdc(state State, arg Address) (State, error) {
	state.Registers.Accumulator = CoerceToValue(int64(arg))
	return state, nil
}

func doLdv(state State, arg Address) (State, error) {
	value, err := state.Load(arg)
	if err != nil {
		return state, err
	}
	state.Registers.Accumulator = value
	return state, nil
}

func doStv(state State, arg Address) (State, error) {
	return state.Store(arg, state.Registers.Accumulator), nil
}

// alu runs a two operand ALU operation on the accumulator, recording its
// inputs in the ALU shadow registers.
func alu(state State, value Value, op func(a, b int64) int64) State {
	regs := &state.Registers
	regs.AluInputLeft = regs.Accumulator
	regs.AluInputRight = value
	regs.Accumulator = CoerceToValue(op(int64(regs.Accumulator), int64(value)))
	return state
}

func aluMemory(op func(a, b int64) int64) Transition {
	return func(state State, arg Address) (State, error) {
		value, err := state.Load(arg)
		if err != nil {
			return state, err
		}
		return alu(state, value, op), nil
	}
}

func doAdc(state State, arg Address) (State, error) {
	return alu(state, CoerceToValue(int64(arg)), func(a, b int64) int64 { return a + b }), nil
}

func doJmp(state State, arg Address) (State, error) {
	state.Registers.InstructionPointer = arg
	return state, nil
}

func doJmn(state State, arg Address) (State, error) {
	if state.Registers.Accumulator < 0 {
		state.Registers.InstructionPointer = arg
	}
	return state, nil
}

// indirect reads the address stored at arg.
func indirect(state State, arg Address) (addr Address, err error) {
	pointer, err := state.Load(arg)
	if err != nil {
		return
	}
	return CoerceToAddress(int64(pointer))
}

func doLdiv(state State, arg Address) (State, error) {
	addr, err := indirect(state, arg)
	if err != nil {
		return state, err
	}
	return doLdv(state, addr)
}

func doStiv(state State, arg Address) (State, error) {
	addr, err := indirect(state, arg)
	if err != nil {
		return state, err
	}
	return doStv(state, addr)
}

func doCall(state State, arg Address) (State, error) {
	state.Registers.ReturnAddress = state.Registers.InstructionPointer
	state.Registers.InstructionPointer = arg
	return state, nil
}

// stackRelative returns sp + disp.
func stackRelative(state State, disp Address) (Address, error) {
	return CoerceToAddress(int64(state.Registers.StackPointer) + int64(disp))
}

func doLdvr(state State, arg Address) (State, error) {
	addr, err := stackRelative(state, arg)
	if err != nil {
		return state, err
	}
	return doLdv(state, addr)
}

func doStvr(state State, arg Address) (State, error) {
	addr, err := stackRelative(state, arg)
	if err != nil {
		return state, err
	}
	return doStv(state, addr)
}

// doHalt is never applied: the Cpu stops before running it.
func doHalt(state State, arg Address) (State, error) {
	return state, ErrProgramHalt
}

func doNot(state State, arg Address) (State, error) {
	regs := &state.Registers
	regs.AluInputLeft = regs.Accumulator
	regs.Accumulator = CoerceToValue(^int64(regs.Accumulator))
	return state, nil
}

func doRar(state State, arg Address) (State, error) {
	regs := &state.Registers
	regs.AluInputLeft = regs.Accumulator
	bits := raw(regs.Accumulator)
	bits = (bits >> 1) | ((bits & 1) << (VALUE_BITS - 1))
	regs.Accumulator = CoerceToValue(int64(bits))
	return state, nil
}

func doRet(state State, arg Address) (State, error) {
	state.Registers.InstructionPointer = state.Registers.ReturnAddress
	return state, nil
}

func loadRegister(reg func(regs *Registers) *Address) Transition {
	return func(state State, arg Address) (State, error) {
		state.Registers.Accumulator = CoerceToValue(int64(*reg(&state.Registers)))
		return state, nil
	}
}

func storeRegister(reg func(regs *Registers) *Address) Transition {
	return func(state State, arg Address) (State, error) {
		addr, err := CoerceToAddress(int64(state.Registers.Accumulator))
		if err != nil {
			return state, err
		}
		*reg(&state.Registers) = addr
		return state, nil
	}
}
