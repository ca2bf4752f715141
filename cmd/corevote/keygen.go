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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/veilvote/corevote/paillier"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a committee HE keypair and print its public modulus",
	RunE: func(cmd *cobra.Command, args []string) error {
		bits := viper.GetInt("he-bits")
		p, err := paillier.NewPaillier(bits)
		if err != nil {
			return err
		}
		fmt.Printf("N  = %s\n", p.PublicKey.GetN().String())
		fmt.Printf("g  = %s\n", p.PublicKey.GetG().String())
		fmt.Printf("N^2 bit length = %d\n", p.PublicKey.GetNSquare().BitLen())
		return nil
	},
}
