// Package sszutil implements just enough SSZ chunking and merkleization
// to compute hash tree roots for the small, fixed-size two-field
// containers this service signs over (ForkData, ProxyDelegation).
package sszutil

import "crypto/sha256"

const chunkSize = 32

// chunkify splits data into 32-byte chunks, zero-padding the final chunk.
func chunkify(data []byte) [][chunkSize]byte {
	n := (len(data) + chunkSize - 1) / chunkSize
	if n == 0 {
		n = 1
	}
	chunks := make([][chunkSize]byte, n)
	for i := 0; i < n; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > len(data) {
			end = len(data)
		}
		copy(chunks[i][:], data[start:end])
	}
	return chunks
}

func hashPair(a, b [chunkSize]byte) [chunkSize]byte {
	h := sha256.New()
	h.Write(a[:])
	h.Write(b[:])
	var out [chunkSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

// merkleizeChunks computes the SSZ merkle root of a fixed-size byte
// vector's chunks, padding with zero chunks up to the next power of two.
func merkleizeChunks(chunks [][chunkSize]byte) [chunkSize]byte {
	count := 1
	for count < len(chunks) {
		count *= 2
	}
	layer := make([][chunkSize]byte, count)
	copy(layer, chunks)
	for count > 1 {
		next := make([][chunkSize]byte, count/2)
		for i := 0; i < count/2; i++ {
			next[i] = hashPair(layer[2*i], layer[2*i+1])
		}
		layer = next
		count /= 2
	}
	return layer[0]
}

// FieldRoot computes the SSZ hash tree root of a fixed-size byte vector
// field (e.g. a 4-byte fork version, a 48-byte BLS pubkey, a 32-byte root).
func FieldRoot(data []byte) [chunkSize]byte {
	if len(data) == chunkSize {
		var out [chunkSize]byte
		copy(out[:], data)
		return out
	}
	return merkleizeChunks(chunkify(data))
}

// ContainerRoot2 computes the hash tree root of a two-field SSZ
// container given the pre-computed roots of its fields. Two leaves
// fill a depth-1 tree exactly, so no zero-chunk padding is needed.
func ContainerRoot2(fieldARoot, fieldBRoot [chunkSize]byte) [chunkSize]byte {
	return hashPair(fieldARoot, fieldBRoot)
}

// TreeHashRoot2 computes the hash tree root of a two fixed-size-byte-vector
// field container directly from the raw field bytes.
func TreeHashRoot2(fieldA, fieldB []byte) [chunkSize]byte {
	return ContainerRoot2(FieldRoot(fieldA), FieldRoot(fieldB))
}
