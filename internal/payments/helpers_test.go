package payments

import "github.com/coopfood/coopconsole/pkg/types"

func numberOf(v float64) types.Number {
	return types.Number(v)
}
