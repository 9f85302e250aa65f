// registers.go - RISC-V integer register file for the simulated hart

package kernelsim

// NumRegisters is the size of the RV32I integer register file.
const NumRegisters = 32

// regNames holds the RISC-V ABI aliases for x0..x31, used for display
// and lookup by name. Index matches the register number.
var regNames = [NumRegisters]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// RegisterSnapshot is a full copy of the integer register file plus the
// program counter, used to save and restore a task's CPU state across
// a context switch.
type RegisterSnapshot struct {
	Regs [NumRegisters]uint32
	PC   uint32
}

// RegisterFile models the 32 general-purpose registers and program
// counter of the simulated hart. Register 0 always reads as zero and
// silently discards writes, per the RISC-V convention.
type RegisterFile struct {
	regs [NumRegisters]uint32
	pc   uint32
}

// NewRegisterFile returns a zeroed register file.
func NewRegisterFile() *RegisterFile {
	return &RegisterFile{}
}

// Read returns the value of register reg, masked to 32 bits. Reading
// x0 always returns 0. reg values outside [0,31] are treated as x0.
func (r *RegisterFile) Read(reg int) uint32 {
	if reg <= 0 || reg >= NumRegisters {
		return 0
	}
	return r.regs[reg]
}

// Write stores value into register reg. Writes to x0 are no-ops.
// value is masked to 32 bits (a no-op on the uint32 type, kept to
// document the invariant at the call site).
func (r *RegisterFile) Write(reg int, value uint32) {
	if reg <= 0 || reg >= NumRegisters {
		return
	}
	r.regs[reg] = value & 0xFFFFFFFF
}

// ReadPC returns the saved program counter.
func (r *RegisterFile) ReadPC() uint32 {
	return r.pc
}

// WritePC sets the program counter.
func (r *RegisterFile) WritePC(v uint32) {
	r.pc = v
}

// Snapshot returns a full copy of the register file and PC, suitable
// for saving across a context switch.
func (r *RegisterFile) Snapshot() RegisterSnapshot {
	return RegisterSnapshot{Regs: r.regs, PC: r.pc}
}

// Restore overwrites the register file and PC from a previously taken
// snapshot.
func (r *RegisterFile) Restore(s RegisterSnapshot) {
	r.regs = s.Regs
	r.pc = s.PC
}

// Reset zeroes every register and the program counter.
func (r *RegisterFile) Reset() {
	r.regs = [NumRegisters]uint32{}
	r.pc = 0
}

// Name returns the ABI alias for reg (e.g. "a0", "sp"), or "" if reg is
// out of range. Intended for debug/report front ends.
func Name(reg int) string {
	if reg < 0 || reg >= NumRegisters {
		return ""
	}
	return regNames[reg]
}

// RegisterByName returns the register index for an ABI alias or an
// "x<N>" form, and whether the lookup succeeded.
func RegisterByName(name string) (int, bool) {
	if len(name) >= 2 && name[0] == 'x' {
		n := 0
		for _, c := range name[1:] {
			if c < '0' || c > '9' {
				return 0, false
			}
			n = n*10 + int(c-'0')
		}
		if n >= 0 && n < NumRegisters {
			return n, true
		}
		return 0, false
	}
	for i, n := range regNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}
