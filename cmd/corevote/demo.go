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

package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/veilvote/corevote/crypto/ecpointgrouplaw"
	"github.com/veilvote/corevote/crypto/lsag"
	"github.com/veilvote/corevote/crypto/utils"
	"github.com/veilvote/corevote/election"
)

// seedVotes is the reference scenario: ring of 8, seven voters cast, one
// abstains, expected tally 4 yes / 3 no.
var seedVotes = []int64{1, 0, 1, 1, 0, 1, 0}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run an in-memory end-to-end election: register, cast, tally",
	RunE: func(cmd *cobra.Command, args []string) error {
		heBits := viper.GetInt("he-bits")
		ringSize := viper.GetInt("ring-size")

		committee, err := election.NewCommittee(heBits)
		if err != nil {
			return err
		}

		privs, ring := make([]*big.Int, ringSize), make([]*ecpointgrouplaw.ECPoint, ringSize)
		base := ecpointgrouplaw.NewBase(lsag.Curve)
		for i := 0; i < ringSize; i++ {
			priv, err := utils.RandomPositiveInt(lsag.Curve.Params().N)
			if err != nil {
				return err
			}
			privs[i] = priv
			ring[i] = base.ScalarMult(priv)
		}

		if err := committee.Register(ring); err != nil {
			return err
		}
		fmt.Printf("registered ring of %d voters\n", ringSize)

		votes := seedVotes
		if ringSize != 8 {
			votes = make([]int64, ringSize-1)
			for i := range votes {
				votes[i] = int64(i % 2)
			}
		}

		hePub := committee.PublicKey()
		for i, choice := range votes {
			voter := election.NewVoter(i, privs[i], ring, hePub)
			ballot, err := voter.CastBallot(choice)
			if err != nil {
				return err
			}
			label := fmt.Sprintf("V%02d", i)
			if err := committee.SubmitBallot(ballot, label); err != nil {
				return err
			}
			fmt.Printf("%s cast %d, accepted\n", label, choice)
		}

		committee.Close()
		yes, no, err := committee.Tally()
		if err != nil {
			return err
		}
		fmt.Printf("tally: yes=%d no=%d\n", yes, no)
		return nil
	},
}
