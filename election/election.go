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

// Package election is the orchestration surface that sequences the HE, VP,
// and RS primitives into a ballot-collection harness: registration, ballot
// ingestion, and tally.
package election

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/veilvote/corevote/crypto/ecpointgrouplaw"
	"github.com/veilvote/corevote/crypto/lsag"
	"github.com/veilvote/corevote/crypto/vp"
	"github.com/veilvote/corevote/logger"
	"github.com/veilvote/corevote/paillier"
)

var (
	// ErrInputDomain is returned for a ring of fewer than two voters.
	ErrInputDomain = errors.New("ring must have at least two voters")
	// ErrAlreadyClosed is returned when submitting after the committee has closed ingestion,
	// or when registering a ring twice.
	ErrAlreadyClosed = errors.New("election already closed")
	// ErrNotClosed is returned when tally is requested before ingestion is closed.
	ErrNotClosed = errors.New("election not yet closed")
	// ErrDoubleVote is returned when a ballot's key image has already been accepted.
	ErrDoubleVote = errors.New("key image already used")
	// ErrVerifyReject is returned when a ballot's proof or signature fails verification.
	ErrVerifyReject = errors.New("ballot failed verification")
)

// Ballot bundles the three pieces of data a voter submits together.
type Ballot struct {
	Ciphertext *big.Int
	Proof      *vp.ValidityProofMessage
	Signature  *lsag.Signature
}

// EncodeMessage returns the canonical message RS signs for a ciphertext:
// the ASCII string "vote:" followed by the ciphertext's decimal digits.
func EncodeMessage(ciphertext *big.Int) []byte {
	return []byte(fmt.Sprintf("vote:%s", ciphertext.String()))
}

// Committee holds the election's HE keypair, the registered ring, the used
// key-image set, and the running encrypted tally. Ballot ingestion is
// serialized by mu, per the concurrency model: a key image is recorded iff
// its ciphertext was folded into the accumulator.
type Committee struct {
	mu sync.Mutex

	keys *paillier.Paillier
	ring []*ecpointgrouplaw.ECPoint

	used        map[string]struct{}
	accumulator *big.Int
	accepted    int
	closed      bool
}

// NewCommittee generates a fresh HE keypair of the given bit length and
// returns an unregistered committee.
func NewCommittee(heBits int) (*Committee, error) {
	keys, err := paillier.NewPaillier(heBits)
	if err != nil {
		return nil, err
	}
	return &Committee{
		keys:        keys,
		used:        make(map[string]struct{}),
		accumulator: big.NewInt(1),
	}, nil
}

// PublicKey returns the committee's HE public key.
func (c *Committee) PublicKey() *paillier.PublicKey {
	return c.keys.PublicKey.Copy()
}

// Ring returns the registered ring of voter public keys, in canonical order.
func (c *Committee) Ring() []*ecpointgrouplaw.ECPoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*ecpointgrouplaw.ECPoint, len(c.ring))
	copy(out, c.ring)
	return out
}

// Register fixes the ring of voter public keys. From this point the ring
// order is immutable. Register may be called only once.
func (c *Committee) Register(ring []*ecpointgrouplaw.ECPoint) error {
	if len(ring) < 2 {
		return ErrInputDomain
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ring != nil {
		return ErrAlreadyClosed
	}
	c.ring = ring
	logger.Logger().Info("ring registered", "size", len(ring))
	return nil
}

// Submit verifies and ingests a ballot's raw components. It accepts iff
// the validity proof verifies, the ring signature verifies over the
// canonical encoding of ciphertext, and the signature's key image has not
// been seen before. On acceptance, ciphertext is folded into the
// accumulator and the key image is recorded.
func (c *Committee) Submit(ciphertext *big.Int, proof *vp.ValidityProofMessage, signature *lsag.Signature, voterLabel string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrAlreadyClosed
	}

	if !proof.Verify(ciphertext, c.keys.PublicKey) {
		logger.Logger().Warn("ballot rejected: invalid validity proof", "voter", voterLabel)
		return ErrVerifyReject
	}

	message := EncodeMessage(ciphertext)
	if !signature.Verify(message) {
		logger.Logger().Warn("ballot rejected: invalid ring signature", "voter", voterLabel)
		return ErrVerifyReject
	}

	keyImageKey, err := encodeKeyImage(signature.GetKeyImage())
	if err != nil {
		return err
	}
	if _, seen := c.used[keyImageKey]; seen {
		logger.Logger().Warn("ballot rejected: double vote", "voter", voterLabel)
		return ErrDoubleVote
	}

	c.accumulator = c.keys.PublicKey.Add(c.accumulator, ciphertext)
	c.used[keyImageKey] = struct{}{}
	c.accepted++
	logger.Logger().Info("ballot accepted", "voter", voterLabel)
	return nil
}

// SubmitBallot is a convenience wrapper accepting the aggregate Ballot type.
func (c *Committee) SubmitBallot(ballot *Ballot, voterLabel string) error {
	return c.Submit(ballot.Ciphertext, ballot.Proof, ballot.Signature, voterLabel)
}

// Close ends ballot ingestion. Tally may only be called after Close.
func (c *Committee) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Tally decrypts the accumulator and returns the yes- and no-vote counts.
// It MUST be called only after Close.
func (c *Committee) Tally() (yes int, no int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		return 0, 0, ErrNotClosed
	}

	m, err := c.keys.Decrypt(c.accumulator)
	if err != nil {
		return 0, 0, err
	}
	yes = int(m.Int64())
	no = c.accepted - yes
	logger.Logger().Info("tally complete", "yes", yes, "no", no)
	return yes, no, nil
}

func encodeKeyImage(p *ecpointgrouplaw.ECPoint) (string, error) {
	enc, err := p.Encode()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(enc), nil
}
