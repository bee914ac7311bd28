// SPDX-License-Identifier: MIT
package gmm_test

import (
	"fmt"

	"github.com/katalvlaran/lvgmm/gmm"
	"github.com/katalvlaran/lvgmm/matrix"
)

func ExampleComputeSE() {
	u, _ := matrix.ColumnVector([]float64{2, 3})
	I, _ := matrix.NewIdentity(2)

	for _, name := range []string{"unadjusted", "robust"} {
		seType, _ := gmm.ParseSEType(name)
		se, set, err := gmm.ComputeSE(u, I, I, I, seType)
		if err != nil {
			fmt.Println(err)

			return
		}
		a, _ := se.At(0, 0)
		b, _ := se.At(1, 0)
		fmt.Printf("%s: [%.1f %.1f] issues=%d\n", seType, a, b, set.Len())
	}
	// Output:
	// unadjusted: [1.0 1.0] issues=0
	// robust: [2.0 3.0] issues=0
}

func ExampleComputeWeights() {
	u, _ := matrix.ColumnVector([]float64{1, 2})
	Z, _ := matrix.NewIdentity(2)

	W, set, _ := gmm.ComputeWeights(u, Z, false)
	fmt.Print(W)
	fmt.Println(set.Len())
	// Output:
	// [1, 0]
	// [0, 0.25]
	// 0
}
