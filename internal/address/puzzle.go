// Package address turns synthetic public keys into standard-puzzle hashes
// and encodes those as bech32m addresses.
package address

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/olehkaliuzhnyi/xch-keygen/internal/bls"
)

// PuzzleHash is the tree hash of a curried puzzle.
type PuzzleHash [32]byte

func (h PuzzleHash) String() string {
	return hex.EncodeToString(h[:])
}

// StandardPuzzleHash is the tree hash of the uncurried
// p2_delegated_puzzle_or_hidden_puzzle program.
var StandardPuzzleHash = PuzzleHash(mustHash("e9aaa49f45bad5c889b86ee3341550c155cfdd10c3a6757de618d20612fffd52"))

// StandardPuzzleHashFor returns the hash of the standard puzzle curried
// with the given synthetic public key.
func StandardPuzzleHashFor(syntheticKey bls.PublicKey) PuzzleHash {
	return CurryTreeHash(StandardPuzzleHash, TreeHashAtom(syntheticKey.Bytes()))
}

// TreeHashAtom hashes an atom: sha256(0x01 || atom).
func TreeHashAtom(atom []byte) PuzzleHash {
	h := sha256.New()
	h.Write([]byte{1})
	h.Write(atom)
	var out PuzzleHash
	h.Sum(out[:0])
	return out
}

// TreeHashPair hashes a cons cell: sha256(0x02 || first || rest).
func TreeHashPair(first, rest PuzzleHash) PuzzleHash {
	h := sha256.New()
	h.Write([]byte{2})
	h.Write(first[:])
	h.Write(rest[:])
	var out PuzzleHash
	h.Sum(out[:0])
	return out
}

// CurryTreeHash computes the hash of (a (q . program) (c (q . arg1) (c ... 1)))
// from the program hash and the argument tree hashes, without building the
// program.
func CurryTreeHash(program PuzzleHash, args ...PuzzleHash) PuzzleHash {
	var (
		nilHash = TreeHashAtom(nil)
		opQ     = TreeHashAtom([]byte{1})
		opA     = TreeHashAtom([]byte{2})
		opC     = TreeHashAtom([]byte{4})
	)

	quotedArgs := TreeHashAtom([]byte{1})
	for i := len(args) - 1; i >= 0; i-- {
		quoted := TreeHashPair(opQ, args[i])
		rest := TreeHashPair(quotedArgs, nilHash)
		quotedArgs = TreeHashPair(opC, TreeHashPair(quoted, rest))
	}

	quotedProgram := TreeHashPair(opQ, program)
	body := TreeHashPair(quotedProgram, TreeHashPair(quotedArgs, nilHash))
	return TreeHashPair(opA, body)
}

func mustHash(s string) [32]byte {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		panic("address: bad 32-byte hex constant " + s)
	}
	var out [32]byte
	copy(out[:], b)
	return out
}
