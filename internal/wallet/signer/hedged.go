package signer

import (
	"crypto/rand"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
)

const (
	privateKeyLength = 32
	extraEntropySize = 32
	maxNonceAttempts = 64
)

// signature is a recoverable secp256k1 signature with low S
type signature struct {
	r, s       [32]byte
	recoveryID byte
}

// parsePrivateKey checks that key is a scalar in [1, N-1]
func parsePrivateKey(key []byte) (*secp256k1.ModNScalar, bool) {
	if len(key) != privateKeyLength {
		return nil, false
	}

	var d secp256k1.ModNScalar
	if overflow := d.SetByteSlice(key); overflow || d.IsZero() {
		d.Zero()
		return nil, false
	}
	return &d, true
}

// signHedged signs hash with RFC6979 nonces mixed with fresh random
// entropy, so repeated signatures over the same hash differ.
func signHedged(d *secp256k1.ModNScalar, privateKey []byte, hash []byte) (*signature, error) {
	extra := make([]byte, extraEntropySize)
	if _, err := rand.Read(extra); err != nil {
		return nil, errors.Wrap(err, "failed to read signing entropy")
	}

	var e secp256k1.ModNScalar
	e.SetByteSlice(hash)

	for iteration := uint32(0); iteration < maxNonceAttempts; iteration++ {
		k := secp256k1.NonceRFC6979(privateKey, hash, extra, nil, iteration)

		sig, ok := signWithNonce(d, &e, k)
		k.Zero()
		if ok {
			return sig, nil
		}
	}

	return nil, errors.New("failed to find a valid signing nonce")
}

func signWithNonce(d, e, k *secp256k1.ModNScalar) (*signature, bool) {
	var point secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(k, &point)
	point.ToAffine()

	// r = R.x mod N; x >= N would need a recovery id above 1, which EIP-155
	// cannot encode
	var r secp256k1.ModNScalar
	if overflow := r.SetBytes(point.X.Bytes()); overflow != 0 || r.IsZero() {
		return nil, false
	}

	recovery := byte(0)
	if point.Y.IsOdd() {
		recovery = 1
	}

	// s = k^-1 * (e + r*d)
	kInv := new(secp256k1.ModNScalar).InverseValNonConst(k)
	s := new(secp256k1.ModNScalar).Mul2(d, &r).Add(e).Mul(kInv)
	if s.IsZero() {
		return nil, false
	}

	if s.IsOverHalfOrder() {
		s.Negate()
		recovery ^= 1
	}

	return &signature{r: r.Bytes(), s: s.Bytes(), recoveryID: recovery}, true
}

// compact returns the 65 byte [R || S || V] form with V in {0, 1}
func (sig *signature) compact() []byte {
	out := make([]byte, 0, 65)
	out = append(out, sig.r[:]...)
	out = append(out, sig.s[:]...)
	return append(out, sig.recoveryID)
}
