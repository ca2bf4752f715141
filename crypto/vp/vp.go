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

// Package vp implements the non-interactive zero-knowledge proof that a
// Paillier ciphertext encrypts 0 or 1, without revealing which. It is a
// Sigma-protocol OR-composition collapsed to non-interactivity by the
// Fiat-Shamir transform.
package vp

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/veilvote/corevote/crypto/utils"
	"github.com/veilvote/corevote/paillier"
)

var (
	// ErrInputDomain is returned if the claimed plaintext is not 0 or 1.
	ErrInputDomain = errors.New("vote outside {0,1}")
	// ErrProofGen is returned if a modular inverse fails to exist during proving.
	ErrProofGen = errors.New("proof generation failed")

	big1 = big.NewInt(1)

	// q is the Fiat-Shamir challenge space, independent of N.
	q = new(big.Int).Lsh(big.NewInt(1), 256)
)

// ValidityProofMessage is the six-integer transcript {a0, a1, e0, e1, z0, z1}.
type ValidityProofMessage struct {
	a0, a1 *big.Int
	e0, e1 *big.Int
	z0, z1 *big.Int
}

func (msg *ValidityProofMessage) GetA0() *big.Int { return new(big.Int).Set(msg.a0) }
func (msg *ValidityProofMessage) GetA1() *big.Int { return new(big.Int).Set(msg.a1) }
func (msg *ValidityProofMessage) GetE0() *big.Int { return new(big.Int).Set(msg.e0) }
func (msg *ValidityProofMessage) GetE1() *big.Int { return new(big.Int).Set(msg.e1) }
func (msg *ValidityProofMessage) GetZ0() *big.Int { return new(big.Int).Set(msg.z0) }
func (msg *ValidityProofMessage) GetZ1() *big.Int { return new(big.Int).Set(msg.z1) }

// NewValidityProofMessage proves that the ciphertext c = Encrypt(m, r) under
// pub encrypts m ∈ {0,1}, without revealing m. r must be the exact
// randomness used to produce c.
func NewValidityProofMessage(pub *paillier.PublicKey, m *big.Int, r *big.Int) (*ValidityProofMessage, error) {
	if m.Cmp(big0) != 0 && m.Cmp(big1) != 0 {
		return nil, ErrInputDomain
	}
	c, err := pub.EncryptWithRandomness(m, r)
	if err != nil {
		return nil, err
	}

	c0 := c
	c1, err := branchOneCiphertext(pub, c)
	if err != nil {
		return nil, ErrProofGen
	}
	cBranch := [2]*big.Int{c0, c1}

	real := 0
	if m.Cmp(big1) == 0 {
		real = 1
	}
	sim := 1 - real

	sReal, err := utils.RandomPositiveInt(pub.GetN())
	if err != nil {
		return nil, err
	}
	aReal := new(big.Int).Exp(sReal, pub.GetN(), pub.GetNSquare())

	eSim, err := utils.RandomInt(q)
	if err != nil {
		return nil, err
	}
	zSim, err := utils.RandomPositiveInt(pub.GetN())
	if err != nil {
		return nil, err
	}
	aSim, err := simulatedA(pub, zSim, cBranch[sim], eSim)
	if err != nil {
		return nil, ErrProofGen
	}

	aBranch := [2]*big.Int{}
	aBranch[real] = aReal
	aBranch[sim] = aSim

	eStar := challenge(c, aBranch[0], aBranch[1])
	eReal := new(big.Int).Sub(eStar, eSim)
	eReal.Mod(eReal, q)

	// z_real = s_real * r^{e_real} mod N
	zReal := new(big.Int).Exp(r, eReal, pub.GetN())
	zReal.Mul(zReal, sReal)
	zReal.Mod(zReal, pub.GetN())

	eBranch := [2]*big.Int{}
	eBranch[real] = eReal
	eBranch[sim] = eSim
	zBranch := [2]*big.Int{}
	zBranch[real] = zReal
	zBranch[sim] = zSim

	return &ValidityProofMessage{
		a0: aBranch[0],
		a1: aBranch[1],
		e0: eBranch[0],
		e1: eBranch[1],
		z0: zBranch[0],
		z1: zBranch[1],
	}, nil
}

// Verify checks the proof against ciphertext c under pub. It returns a
// boolean decision, never an error: VerifyReject is a decision, not a fault.
func (msg *ValidityProofMessage) Verify(c *big.Int, pub *paillier.PublicKey) bool {
	c1, err := branchOneCiphertext(pub, c)
	if err != nil {
		return false
	}
	cBranch := [2]*big.Int{c, c1}
	aBranch := [2]*big.Int{msg.a0, msg.a1}
	eBranch := [2]*big.Int{msg.e0, msg.e1}
	zBranch := [2]*big.Int{msg.z0, msg.z1}

	eStar := challenge(c, msg.a0, msg.a1)
	eSum := new(big.Int).Add(msg.e0, msg.e1)
	eSum.Mod(eSum, q)
	if eSum.Cmp(eStar) != 0 {
		return false
	}

	for i := 0; i < 2; i++ {
		lhs := new(big.Int).Exp(zBranch[i], pub.GetN(), pub.GetNSquare())
		rhs := pub.Mul(cBranch[i], eBranch[i])
		rhs = pub.Add(aBranch[i], rhs)
		if lhs.Cmp(rhs) != 0 {
			return false
		}
	}
	return true
}

// branchOneCiphertext returns c * g^-1 mod N^2, the ciphertext that would
// result from decrementing the encoded plaintext by one.
func branchOneCiphertext(pub *paillier.PublicKey, c *big.Int) (*big.Int, error) {
	gInv := new(big.Int).ModInverse(pub.GetG(), pub.GetNSquare())
	if gInv == nil {
		return nil, ErrProofGen
	}
	return pub.Add(c, gInv), nil
}

// simulatedA computes a = z^N * c^{-e} mod N^2 for the simulated branch.
func simulatedA(pub *paillier.PublicKey, z, c, e *big.Int) (*big.Int, error) {
	zn := new(big.Int).Exp(z, pub.GetN(), pub.GetNSquare())
	ce := pub.Mul(c, e)
	ceInv := new(big.Int).ModInverse(ce, pub.GetNSquare())
	if ceInv == nil {
		return nil, ErrProofGen
	}
	a := new(big.Int).Mul(zn, ceInv)
	return a.Mod(a, pub.GetNSquare()), nil
}

// challenge computes H(c, a0, a1) mod Q with each integer encoded as its
// minimum-length big-endian byte string, in the fixed order c, a0, a1.
func challenge(c, a0, a1 *big.Int) *big.Int {
	h := sha256.New()
	h.Write(utils.MinimalBigEndian(c))
	h.Write(utils.MinimalBigEndian(a0))
	h.Write(utils.MinimalBigEndian(a1))
	e := new(big.Int).SetBytes(h.Sum(nil))
	return e.Mod(e, q)
}

var big0 = big.NewInt(0)
