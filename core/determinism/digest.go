// Package determinism provides primitives for checking that runs are reproducible.
package determinism

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"

	"price-tiers/core/types"
)

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// ComputeHash computes a content hash from bytes
func ComputeHash(data []byte) ContentHash {
	return sha256.Sum256(data)
}

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}

// RecordHash hashes the canonical form of one record. Numerically equal
// amounts hash the same regardless of trailing zeros.
func RecordHash(r types.Record) ContentHash {
	var buf bytes.Buffer
	buf.WriteString(r.OrderID)
	buf.WriteByte(0) // Separator
	buf.WriteString(r.UnitPrice.String())
	buf.WriteByte(0)
	buf.WriteString(strconv.FormatInt(r.Quantity, 10))
	buf.WriteByte(0)
	buf.WriteString(r.Revenue.String())
	buf.WriteByte(0)
	buf.WriteString(r.Profit.String())
	return ComputeHash(buf.Bytes())
}

// InputDigest hashes a multiset of records: permuting the slice does not
// change the digest, duplicating or altering a record does.
func InputDigest(records []types.Record) ContentHash {
	hashes := make([]ContentHash, len(records))
	for i, r := range records {
		hashes[i] = RecordHash(r)
	}
	sort.Slice(hashes, func(i, j int) bool {
		return bytes.Compare(hashes[i][:], hashes[j][:]) < 0
	})

	h := sha256.New()
	for _, rh := range hashes {
		h.Write(rh[:])
	}
	var out ContentHash
	copy(out[:], h.Sum(nil))
	return out
}
