package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/jaimegarza/syntax-sub000/grammar/symbol"
)

type dotKey struct {
	prod productionNum
	pos  int
}

// dot is an item of a state. Under LALR it also carries a lookahead set.
//
// E → E + T
//
// pos | Next Symbol | Item
// ----+-------------+------------
// 0   | E           | E →・E + T
// 1   | +           | E → E・+ T
// 2   | T           | E → E +・T
// 3   | Nil         | E → E + T・
type dot struct {
	prod      *production
	pos       int
	lookAhead *termSet

	// carry is true when the lookahead took over the lookahead of the item that added this item
	// by closure.
	carry bool
}

func newDot(prod *production, pos int) *dot {
	return &dot{
		prod:      prod,
		pos:       pos,
		lookAhead: newTermSet(),
	}
}

func (d *dot) key() dotKey {
	return dotKey{
		prod: d.prod.num,
		pos:  d.pos,
	}
}

func (d *dot) nextSymbol() (symbol.Symbol, bool) {
	if d.pos >= d.prod.rhsLen {
		return symbol.SymbolNil, false
	}
	return d.prod.rhs[d.pos], true
}

func (d *dot) reducible() bool {
	return d.pos == d.prod.rhsLen
}

func (d *dot) String() string {
	return fmt.Sprintf("%v@%v", d.prod.num, d.pos)
}

type kernelID [32]byte

func (id kernelID) String() string {
	return fmt.Sprintf("%x", binary.LittleEndian.Uint32(id[:]))
}

// genKernelID identifies a kernel by its (production, position) pairs regardless of their order
// and of the lookaheads.
func genKernelID(dots []*dot) kernelID {
	keys := make([]dotKey, len(dots))
	for i, d := range dots {
		keys[i] = d.key()
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].prod != keys[j].prod {
			return keys[i].prod < keys[j].prod
		}
		return keys[i].pos < keys[j].pos
	})

	b := make([]byte, 0, len(keys)*16)
	buf := make([]byte, 8)
	for _, k := range keys {
		binary.LittleEndian.PutUint64(buf, uint64(k.prod))
		b = append(b, buf...)
		binary.LittleEndian.PutUint64(buf, uint64(k.pos))
		b = append(b, buf...)
	}
	return sha256.Sum256(b)
}
