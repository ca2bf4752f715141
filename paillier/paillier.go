// Copyright © 2019 AMIS Technologies
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

// Package paillier implements the additively homomorphic cryptosystem used
// to accumulate an encrypted ballot tally. The public key fixes g = N+1, the
// textbook Paillier optimization that lets L(g^x mod N^2) be computed without
// a discrete log.
package paillier

import (
	"errors"
	"math/big"

	"github.com/veilvote/corevote/crypto/utils"
)

const (
	// maxGenKey defines the max retries to generate a keypair.
	maxGenKey = 100
)

var (
	// ErrInputDomain is returned if a message or ciphertext falls outside its domain.
	ErrInputDomain = errors.New("input outside domain")
	// ErrKeyGen is returned if key generation exceeds its retry budget.
	ErrKeyGen = errors.New("key generation failed")

	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
)

// PublicKey is (N, g, N^2).
type PublicKey struct {
	n       *big.Int
	nSquare *big.Int
	g       *big.Int
}

func (pub *PublicKey) GetN() *big.Int {
	return new(big.Int).Set(pub.n)
}

func (pub *PublicKey) GetNSquare() *big.Int {
	return new(big.Int).Set(pub.nSquare)
}

func (pub *PublicKey) GetG() *big.Int {
	return new(big.Int).Set(pub.g)
}

func (pub *PublicKey) Copy() *PublicKey {
	return &PublicKey{
		n:       pub.GetN(),
		nSquare: pub.GetNSquare(),
		g:       pub.GetG(),
	}
}

// Encrypt returns c = (g^m * r^N) mod N^2 along with the randomness r it
// sampled. r is required by the ballot-validity prover and MUST NOT be
// retained or logged by any other caller.
func (pub *PublicKey) Encrypt(m *big.Int) (*big.Int, *big.Int, error) {
	if m.Sign() < 0 {
		return nil, nil, ErrInputDomain
	}
	if m.Cmp(pub.n) >= 0 {
		return nil, nil, ErrInputDomain
	}

	r, err := utils.RandomPositiveInt(pub.n)
	if err != nil {
		return nil, nil, err
	}
	return pub.encryptWithRandomness(m, r), r, nil
}

// EncryptWithRandomness re-derives the ciphertext for a known (m, r) pair.
// It is used by the validity prover, which must evaluate the two OR-proof
// branches against the same randomness used in the original encryption.
func (pub *PublicKey) EncryptWithRandomness(m, r *big.Int) (*big.Int, error) {
	if m.Sign() < 0 {
		return nil, ErrInputDomain
	}
	if m.Cmp(pub.n) >= 0 {
		return nil, ErrInputDomain
	}
	if r.Sign() <= 0 || r.Cmp(pub.n) >= 0 {
		return nil, ErrInputDomain
	}
	return pub.encryptWithRandomness(m, r), nil
}

func (pub *PublicKey) encryptWithRandomness(m, r *big.Int) *big.Int {
	gm := new(big.Int).Exp(pub.g, m, pub.nSquare)
	rn := new(big.Int).Exp(r, pub.n, pub.nSquare)
	c := new(big.Int).Mul(gm, rn)
	return c.Mod(c, pub.nSquare)
}

// Add implements homomorphic addition of plaintexts: Decrypt(Add(c1,c2)) = m1+m2 mod N.
// https://en.wikipedia.org/wiki/Paillier_cryptosystem
func (pub *PublicKey) Add(encA *big.Int, encB *big.Int) *big.Int {
	encAB := new(big.Int).Mul(encA, encB)
	return encAB.Mod(encAB, pub.nSquare)
}

// Mul implements homomorphic scalar multiplication of the plaintext.
// https://en.wikipedia.org/wiki/Paillier_cryptosystem
func (pub *PublicKey) Mul(encA *big.Int, scalar *big.Int) *big.Int {
	return new(big.Int).Exp(encA, scalar, pub.nSquare)
}

// Paillier holds a public/private keypair.
type Paillier struct {
	*PublicKey

	lambda *big.Int // λ = lcm(p-1, q-1)
	mu     *big.Int // μ = L(g^λ mod N^2)^-1 mod N
}

// NewPaillier generates a fresh keypair with an N of the given bit length.
// g is fixed to N+1, per the textbook optimization: gcd(N+1, N^2) = 1 always
// holds, so no rejection sampling of g is needed, only of the two primes.
func NewPaillier(keySize int) (*Paillier, error) {
	pqSize := keySize / 2
	for i := 0; i < maxGenKey; i++ {
		p, err := utils.RandomPrime(pqSize)
		if err != nil {
			return nil, err
		}
		q, err := utils.RandomPrime(pqSize)
		if err != nil {
			return nil, err
		}
		if p.Cmp(q) == 0 {
			continue
		}

		pMinus1 := new(big.Int).Sub(p, big1)
		qMinus1 := new(big.Int).Sub(q, big1)
		n := new(big.Int).Mul(p, q)
		m := new(big.Int).Mul(pMinus1, qMinus1)
		if !utils.IsRelativePrime(n, m) {
			continue
		}

		lambda, err := utils.Lcm(pMinus1, qMinus1)
		if err != nil {
			continue
		}

		nSquare := new(big.Int).Mul(n, n)
		g := new(big.Int).Add(n, big1)

		u := new(big.Int).Exp(g, lambda, nSquare)
		l, err := lFunction(u, n)
		if err != nil {
			continue
		}
		mu := new(big.Int).ModInverse(l, n)
		if mu == nil {
			continue
		}

		return &Paillier{
			lambda: lambda,
			mu:     mu,
			PublicKey: &PublicKey{
				n:       n,
				nSquare: nSquare,
				g:       g,
			},
		}, nil
	}
	return nil, ErrKeyGen
}

// Decrypt computes the plaintext from the ciphertext.
func (p *Paillier) Decrypt(c *big.Int) (*big.Int, error) {
	if c.Sign() <= 0 {
		return nil, ErrInputDomain
	}
	if c.Cmp(p.PublicKey.nSquare) >= 0 {
		return nil, ErrInputDomain
	}

	x := new(big.Int).Exp(c, p.lambda, p.PublicKey.nSquare)
	l, err := lFunction(x, p.PublicKey.n)
	if err != nil {
		return nil, ErrInputDomain
	}
	l = l.Mul(l, p.mu)
	l = l.Mod(l, p.PublicKey.n)
	return l, nil
}

func (p *Paillier) Copy() *Paillier {
	return &Paillier{
		lambda:    new(big.Int).Set(p.lambda),
		mu:        new(big.Int).Set(p.mu),
		PublicKey: p.PublicKey.Copy(),
	}
}

// lFunction computes L(x) = (x-1)/n.
func lFunction(x, n *big.Int) (*big.Int, error) {
	if n.Cmp(big0) <= 0 {
		return nil, ErrInputDomain
	}
	if x.Cmp(big0) <= 0 {
		return nil, ErrInputDomain
	}
	t := new(big.Int).Sub(x, big1)
	m := new(big.Int)
	t, m = t.DivMod(t, n, m)
	if m.Cmp(big0) != 0 {
		return nil, ErrInputDomain
	}
	return t, nil
}
