// memory.go - Byte-addressable memory for the simulated hart

package kernelsim

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"
)

// DefaultMemorySize is the default flat memory size: 1 MiB, per the
// data model's byte-addressable memory.
const DefaultMemorySize = 1 << 20

// Memory is a flat, bounds-checked byte array with little-endian
// half-word and word access. A single RWMutex guards every access so
// that a background Clock goroutine and the calling goroutine never
// race, mirroring the SystemBus/MachineBus locking discipline this
// simulator is descended from.
type Memory struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemory allocates a zeroed Memory of the given size in bytes. A
// size of 0 selects DefaultMemorySize.
func NewMemory(size uint32) *Memory {
	if size == 0 {
		size = DefaultMemorySize
	}
	return &Memory{data: make([]byte, size)}
}

// Size returns the memory's total byte capacity.
func (m *Memory) Size() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint32(len(m.data))
}

func (m *Memory) inBounds(addr uint32, width uint32) bool {
	if width == 0 {
		return addr < uint32(len(m.data))
	}
	end := uint64(addr) + uint64(width)
	return end <= uint64(len(m.data))
}

// ReadByte reads a single byte at addr.
func (m *Memory) ReadByte(addr uint32) (byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.inBounds(addr, 1) {
		return 0, fmt.Errorf("%w: read byte at 0x%X", ErrBounds, addr)
	}
	return m.data[addr], nil
}

// WriteByte writes a single byte at addr.
func (m *Memory) WriteByte(addr uint32, v byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.inBounds(addr, 1) {
		return fmt.Errorf("%w: write byte at 0x%X", ErrBounds, addr)
	}
	m.data[addr] = v
	return nil
}

// ReadHalf reads a little-endian 16-bit half-word at addr. Alignment
// is not required; only the final byte of the access must be in
// bounds.
func (m *Memory) ReadHalf(addr uint32) (uint16, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.inBounds(addr, 2) {
		return 0, fmt.Errorf("%w: read half at 0x%X", ErrBounds, addr)
	}
	return binary.LittleEndian.Uint16(m.data[addr : addr+2]), nil
}

// WriteHalf writes a little-endian 16-bit half-word at addr.
func (m *Memory) WriteHalf(addr uint32, v uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.inBounds(addr, 2) {
		return fmt.Errorf("%w: write half at 0x%X", ErrBounds, addr)
	}
	binary.LittleEndian.PutUint16(m.data[addr:addr+2], v)
	return nil
}

// ReadWord reads a little-endian 32-bit word at addr.
func (m *Memory) ReadWord(addr uint32) (uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.inBounds(addr, 4) {
		return 0, fmt.Errorf("%w: read word at 0x%X", ErrBounds, addr)
	}
	return binary.LittleEndian.Uint32(m.data[addr : addr+4]), nil
}

// WriteWord writes a little-endian 32-bit word at addr.
func (m *Memory) WriteWord(addr uint32, v uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.inBounds(addr, 4) {
		return fmt.Errorf("%w: write word at 0x%X", ErrBounds, addr)
	}
	binary.LittleEndian.PutUint32(m.data[addr:addr+4], v)
	return nil
}

// ReadWordFault is like ReadWord but reports failure via the second
// return value instead of an error, for the simulator's per-tick
// "execute" step where bounds failures must be swallowed rather than
// propagated (spec error-handling policy: a corrupted PC must not
// abort the tick).
func (m *Memory) ReadWordFault(addr uint32) (uint32, bool) {
	v, err := m.ReadWord(addr)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ReadBlock returns a copy of length bytes starting at addr.
func (m *Memory) ReadBlock(addr uint32, length uint32) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.inBounds(addr, length) {
		return nil, fmt.Errorf("%w: read block at 0x%X len %d", ErrBounds, addr, length)
	}
	out := make([]byte, length)
	copy(out, m.data[addr:addr+length])
	return out, nil
}

// WriteBlock copies data into memory starting at addr.
func (m *Memory) WriteBlock(addr uint32, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.inBounds(addr, uint32(len(data))) {
		return fmt.Errorf("%w: write block at 0x%X len %d", ErrBounds, addr, len(data))
	}
	copy(m.data[addr:], data)
	return nil
}

// LoadWords writes a sequence of 32-bit words starting at base,
// little-endian, four bytes apart. Used by Simulator.LoadProgram.
func (m *Memory) LoadWords(words []uint32, base uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	need := uint32(len(words)) * 4
	if !m.inBounds(base, need) {
		return fmt.Errorf("%w: load %d words at 0x%X", ErrBounds, len(words), base)
	}
	for i, w := range words {
		binary.LittleEndian.PutUint32(m.data[base+uint32(i)*4:], w)
	}
	return nil
}

// Reset zeroes the entire memory.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.data {
		m.data[i] = 0
	}
}

// Dump renders length bytes starting at addr as a hex+ASCII listing,
// 16 bytes per line, in the style of a classic memory monitor.
func (m *Memory) Dump(addr uint32, length uint32) (string, error) {
	block, err := m.ReadBlock(addr, length)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for off := 0; off < len(block); off += 16 {
		end := off + 16
		if end > len(block) {
			end = len(block)
		}
		line := block[off:end]
		fmt.Fprintf(&b, "%08X  ", addr+uint32(off))
		for i := 0; i < 16; i++ {
			if i < len(line) {
				fmt.Fprintf(&b, "%02X ", line[i])
			} else {
				b.WriteString("   ")
			}
		}
		b.WriteString(" |")
		for _, c := range line {
			if c >= 0x20 && c < 0x7F {
				b.WriteByte(c)
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteString("|\n")
	}
	return b.String(), nil
}
