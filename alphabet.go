package phmmscan

import "fmt"

// AlphabetKind enumerates the fixed small alphabets the core supports.
// Arbitrary alphabets are explicitly out of scope (spec.md §1 Non-goals).
type AlphabetKind uint8

const (
	AlphabetDNA AlphabetKind = iota
	AlphabetRNA
	AlphabetAmino
)

func (k AlphabetKind) String() string {
	switch k {
	case AlphabetDNA:
		return "DNA"
	case AlphabetRNA:
		return "RNA"
	case AlphabetAmino:
		return "amino"
	default:
		return "unknown"
	}
}

// digitalSentinel marks dsq[0] and dsq[L+1] in a digital sequence (spec.md §6).
const digitalSentinel = 0xFF

// missingSymbol is the inv[] entry for raw bytes with no alphabet mapping.
const missingSymbol = -1

// Alphabet is a fixed enumerated symbol set: K canonical residues plus
// Kp-K degeneracy codes, with a 256-entry inverse lookup from raw input
// bytes to alphabet indices. Immutable once constructed.
type Alphabet struct {
	kind AlphabetKind
	k    int // canonical symbol count
	kp   int // canonical + degenerate symbol count
	syms []byte
	inv  [256]int8
}

// NewDNAAlphabet builds the DNA alphabet: A,C,G,T canonical plus the 11 IUPAC
// degeneracy codes (K=4, Kp=15, spec.md §3).
func NewDNAAlphabet() *Alphabet {
	return newNucleicAlphabet(AlphabetDNA, "ACGT", "RYSWKMBDHVN")
}

// NewRNAAlphabet builds the RNA alphabet: A,C,G,U canonical plus the same 11
// IUPAC degeneracy codes (K=4, Kp=15, spec.md §3).
func NewRNAAlphabet() *Alphabet {
	return newNucleicAlphabet(AlphabetRNA, "ACGU", "RYSWKMBDHVN")
}

// NewAminoAlphabet builds the 20-canonical-residue amino acid alphabet plus
// the 6 IUPAC protein degeneracy codes (K=20, Kp=26, spec.md §3).
func NewAminoAlphabet() *Alphabet {
	return newAlphabet(AlphabetAmino, "ACDEFGHIKLMNPQRSTVWY", "BJZXOU")
}

func newNucleicAlphabet(kind AlphabetKind, canonical, degenerate string) *Alphabet {
	return newAlphabet(kind, canonical, degenerate)
}

func newAlphabet(kind AlphabetKind, canonical, degenerate string) *Alphabet {
	a := &Alphabet{
		kind: kind,
		k:    len(canonical),
		kp:   len(canonical) + len(degenerate),
		syms: append([]byte(canonical), []byte(degenerate)...),
	}
	for i := range a.inv {
		a.inv[i] = missingSymbol
	}
	for idx, c := range a.syms {
		a.inv[c] = int8(idx)
		a.inv[toLower(c)] = int8(idx)
	}
	return a
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// Kind reports the alphabet family.
func (a *Alphabet) Kind() AlphabetKind { return a.kind }

// K returns the canonical symbol count.
func (a *Alphabet) K() int { return a.k }

// Kp returns the total symbol count including degeneracies.
func (a *Alphabet) Kp() int { return a.kp }

// IsCanonical reports whether x is a canonical (non-degenerate) index.
func (a *Alphabet) IsCanonical(x int) bool { return x >= 0 && x < a.k }

// Symbol returns the printable character for alphabet index x.
func (a *Alphabet) Symbol(x int) byte {
	if x < 0 || x >= len(a.syms) {
		return '?'
	}
	return a.syms[x]
}

// String renders idx as a one-character string; out-of-range indices render "?".
func (a *Alphabet) String(x int) string { return string(a.Symbol(x)) }

// Digitize maps a raw input byte to an alphabet index. ok is false for
// characters outside the alphabet (including gaps, whitespace, and
// non-IUPAC bytes), which callers must reject before building a digital
// sequence.
func (a *Alphabet) Digitize(raw byte) (idx int, ok bool) {
	v := a.inv[raw]
	if v == missingSymbol {
		return 0, false
	}
	return int(v), true
}

// DigitalSequence builds a 1-indexed digital sequence from raw residues
// following spec.md §6: dsq[0] and dsq[L+1] are the sentinel, dsq[1..L] hold
// alphabet indices. Returns an error naming the first invalid byte.
func (a *Alphabet) DigitalSequence(raw []byte) ([]int, error) {
	dsq := make([]int, len(raw)+2)
	dsq[0] = digitalSentinel
	dsq[len(raw)+1] = digitalSentinel
	for i, c := range raw {
		idx, ok := a.Digitize(c)
		if !ok {
			return nil, fmt.Errorf("%w: byte %q at position %d is not in the %s alphabet", ErrInvalidProfile, c, i, a.kind)
		}
		dsq[i+1] = idx
	}
	return dsq, nil
}
