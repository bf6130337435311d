package matrixcommit

import (
	"bytes"

	"golang.org/x/crypto/sha3"
)

const (
	leafPrefix byte = 0x00
	nodePrefix byte = 0x01

	// DigestSize is the byte length of tree nodes and of Root.
	DigestSize = 32
)

// Digest is a SHAKE-256 tree node.
type Digest [DigestSize]byte

// merkleTree is a balanced binary tree over the encoded row commitments;
// missing leaves up to the next power of two hash the bare leaf prefix.
type merkleTree struct {
	layers [][]Digest
}

func buildMerkleTree(leaves [][]byte) *merkleTree {
	size := 1
	for size < len(leaves) {
		size <<= 1
	}
	layer := make([]Digest, size)
	for i := range layer {
		if i < len(leaves) {
			layer[i] = hashLeaf(leaves[i])
		} else {
			layer[i] = shake32([]byte{leafPrefix})
		}
	}
	layers := [][]Digest{layer}
	for sz := size; sz > 1; sz >>= 1 {
		prev := layers[len(layers)-1]
		next := make([]Digest, sz/2)
		for i := 0; i < sz; i += 2 {
			next[i/2] = hashNode(prev[i][:], prev[i+1][:])
		}
		layers = append(layers, next)
	}
	return &merkleTree{layers: layers}
}

func (mt *merkleTree) root() Digest {
	return mt.layers[len(mt.layers)-1][0]
}

// path returns the sibling hashes from leaf idx up to, not including, the root.
func (mt *merkleTree) path(idx int) [][]byte {
	out := make([][]byte, len(mt.layers)-1)
	for lvl := range out {
		sib := mt.layers[lvl][idx^1]
		out[lvl] = sib[:]
		idx >>= 1
	}
	return out
}

func verifyPath(leaf []byte, path [][]byte, root Digest, idx int) bool {
	h := hashLeaf(leaf)
	for _, sib := range path {
		if len(sib) != DigestSize {
			return false
		}
		if idx&1 == 0 {
			h = hashNode(h[:], sib)
		} else {
			h = hashNode(sib, h[:])
		}
		idx >>= 1
	}
	return idx == 0 && bytes.Equal(h[:], root[:])
}

func hashLeaf(leaf []byte) Digest {
	buf := make([]byte, 1+len(leaf))
	buf[0] = leafPrefix
	copy(buf[1:], leaf)
	return shake32(buf)
}

func hashNode(left, right []byte) Digest {
	var buf [1 + 2*DigestSize]byte
	buf[0] = nodePrefix
	copy(buf[1:], left)
	copy(buf[1+DigestSize:], right)
	return shake32(buf[:])
}

func shake32(data []byte) Digest {
	var out Digest
	h := sha3.NewShake256()
	_, _ = h.Write(data)
	_, _ = h.Read(out[:])
	return out
}
