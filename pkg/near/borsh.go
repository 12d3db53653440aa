package near

import (
	"bytes"
	"encoding/binary"
	"math/big"
)

// borshWriter serializes the handful of primitive types needed by ledger
// transactions. Integers are little endian, strings and vectors are
// prefixed by their u32 length.
type borshWriter struct {
	buf bytes.Buffer
	err error
}

func (w *borshWriter) u8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *borshWriter) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *borshWriter) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// u128 writes a nil value as zero.
func (w *borshWriter) u128(v *big.Int) {
	var b [16]byte
	if v != nil {
		if v.Sign() < 0 || v.BitLen() > 128 {
			w.setErr(ErrU128Overflow)
			return
		}
		be := v.Bytes()
		for i := range be {
			b[i] = be[len(be)-1-i]
		}
	}
	w.buf.Write(b[:])
}

func (w *borshWriter) fixed(b []byte) {
	w.buf.Write(b)
}

func (w *borshWriter) bytes(b []byte) {
	w.u32(uint32(len(b)))
	w.buf.Write(b)
}

func (w *borshWriter) string(s string) {
	w.bytes([]byte(s))
}

func (w *borshWriter) publicKey(pk PublicKey) {
	w.u8(KeyTypeED25519)
	w.fixed(pk[:])
}

func (w *borshWriter) setErr(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *borshWriter) result() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}
