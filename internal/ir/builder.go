package ir

// Builder tracks the "current block" cursor and fresh-ID counters while
// lowering a single function. It owns the function's symbol table and
// virtual-register counter.
type Builder struct {
	fn      *Function
	current BlockID
	nextID  BlockID
}

// NewBuilder starts building fn's CFG. fn.Symbols must already be set.
func NewBuilder(fn *Function) *Builder {
	return &Builder{fn: fn}
}

// NewBlock allocates a fresh, unterminated, empty block and appends it to
// the function's block list in creation order.
func (b *Builder) NewBlock() BlockID {
	id := b.nextID
	b.nextID++
	b.fn.Blocks = append(b.fn.Blocks, &BasicBlock{ID: id})
	return id
}

// SetCurrent moves the cursor to an existing block.
func (b *Builder) SetCurrent(id BlockID) { b.current = id }

// CurrentBlock returns the cursor's block ID.
func (b *Builder) CurrentBlock() BlockID { return b.current }

// Emit appends instr to the current block.
func (b *Builder) Emit(instr Instr) {
	blk := b.fn.Block(b.current)
	blk.Instrs = append(blk.Instrs, instr)
}

// Terminate sets the current block's terminator. Terminating an
// already-terminated block is a compiler bug, not a user-facing error.
func (b *Builder) Terminate(term Terminator) {
	blk := b.fn.Block(b.current)
	if blk.Terminated() {
		panic("ir: DoubleTerminate: block already has a terminator")
	}
	blk.Term = term
}

// Terminated reports whether the current block already has a terminator.
func (b *Builder) Terminated() bool {
	return b.fn.Block(b.current).Terminated()
}

// FreshVReg allocates and returns a new virtual register, unique within the
// function. Every vreg is assigned exactly once, SSA-style.
func (b *Builder) FreshVReg() VReg {
	v := VReg(b.fn.numVRegs)
	b.fn.numVRegs++
	return v
}
