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

package election

import (
	"math/big"

	"github.com/veilvote/corevote/crypto/ecpointgrouplaw"
	"github.com/veilvote/corevote/crypto/lsag"
	"github.com/veilvote/corevote/crypto/vp"
	"github.com/veilvote/corevote/paillier"
)

// Voter bundles a signing key, its index in the registered ring, and the
// committee's HE public key, and sequences encrypt -> prove -> sign into a
// single Ballot.
type Voter struct {
	index int
	priv  *big.Int
	ring  []*ecpointgrouplaw.ECPoint
	hePub *paillier.PublicKey
}

// NewVoter returns a driver for the voter at position index in ring, signing
// with priv, casting ballots encrypted under hePub.
func NewVoter(index int, priv *big.Int, ring []*ecpointgrouplaw.ECPoint, hePub *paillier.PublicKey) *Voter {
	return &Voter{
		index: index,
		priv:  priv,
		ring:  ring,
		hePub: hePub,
	}
}

// CastBallot encrypts choice (0 or 1), proves its validity, and signs the
// resulting ciphertext with the voter's ring key, returning the bundle a
// Committee accepts via SubmitBallot.
func (v *Voter) CastBallot(choice int64) (*Ballot, error) {
	m := big.NewInt(choice)
	ciphertext, r, err := v.hePub.Encrypt(m)
	if err != nil {
		return nil, err
	}

	proof, err := vp.NewValidityProofMessage(v.hePub, m, r)
	if err != nil {
		return nil, err
	}

	message := EncodeMessage(ciphertext)
	signature, err := lsag.Sign(message, v.ring, v.index, v.priv)
	if err != nil {
		return nil, err
	}

	return &Ballot{
		Ciphertext: ciphertext,
		Proof:      proof,
		Signature:  signature,
	}, nil
}
