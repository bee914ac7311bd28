// SPDX-License-Identifier: MIT
package iv_test

import (
	"fmt"

	"github.com/katalvlaran/lvgmm/iv"
	"github.com/katalvlaran/lvgmm/matrix"
)

func ExampleIV_Estimate() {
	x, _ := matrix.NewFromRows([][]float64{{1, 0}, {1, 1}, {1, 2}, {1, 3}})
	y, _ := matrix.ColumnVector([]float64{1, 3, 5, 7})
	w, _ := matrix.NewIdentity(2)

	est, err := iv.New(x, x, w)
	if err != nil {
		fmt.Println(err)

		return
	}
	params, _, _ := est.Estimate(y)
	intercept, _ := params.At(0, 0)
	slope, _ := params.At(1, 0)
	fmt.Printf("intercept=%.3f slope=%.3f issues=%d\n", intercept, slope, est.Errors().Len())
	// Output:
	// intercept=1.000 slope=2.000 issues=0
}
