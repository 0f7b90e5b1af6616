package paranoid_test

import (
	"fmt"

	paranoid "github.com/kookyleo/paranoid-space"
	"github.com/kookyleo/paranoid-space/width"
)

func ExampleSpacing() {
	fmt.Println(paranoid.Spacing("当你凝视着bug，bug也凝视着你"))
	fmt.Println(paranoid.Spacing("价格是$50和¥300"))
	// Output:
	// 当你凝视着 bug，bug 也凝视着你
	// 价格是 $50 和 ¥300
}

func ExampleSpacer() {
	sp := paranoid.NewSpacer(width.EastAsianContext)
	fmt.Println(sp.Spacing("价格€100"))
	fmt.Println(paranoid.Spacing("价格€100"))
	// Output:
	// 价格€100
	// 价格 €100
}
