package board

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Pack encodes every field of the move, annotations included, into 8 bytes.
func (m Move) Pack() [8]byte {
	var b [8]byte
	b[0] = byte(m.From)
	b[1] = byte(m.To)
	b[2] = byte(m.Piece)
	b[3] = byte(m.Player)
	b[4] = byte(m.CapturedPiece)
	var flags byte
	if m.IsPromotion {
		flags |= 1
	}
	if m.IsCapture {
		flags |= 2
	}
	if m.GivesCheck {
		flags |= 4
	}
	if m.IsRecapture {
		flags |= 8
	}
	b[5] = flags
	return b
}

// Fingerprint returns a structural hash over all move fields.
// Two moves with equal identity but different annotations hash differently.
func (m Move) Fingerprint() uint64 {
	b := m.Pack()
	return xxhash.Sum64(b[:])
}

// SequenceFingerprint hashes the identities of a move list, order-sensitive.
func SequenceFingerprint(moves []Move) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, m := range moves {
		k := m.Key()
		buf[0] = byte(k.From)
		buf[1] = byte(k.To)
		buf[2] = byte(k.Piece)
		buf[3] = byte(k.Player)
		buf[4] = 0
		if k.Promotion {
			buf[4] = 1
		}
		binary.LittleEndian.PutUint16(buf[5:7], uint16(len(moves)))
		d.Write(buf[:])
	}
	return d.Sum64()
}
