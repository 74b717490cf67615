package kernel_test

import (
	"fmt"

	"github.com/matzehuels/flamelink/pkg/bind"
	"github.com/matzehuels/flamelink/pkg/catalog/variations"
	"github.com/matzehuels/flamelink/pkg/compose"
	"github.com/matzehuels/flamelink/pkg/kernel"
	"github.com/matzehuels/flamelink/pkg/library/std"
)

func ExampleAssemble() {
	c := compose.New(variations.Default(), std.Default(), compose.Options{Mode: bind.ModeBuffer})
	res, err := c.Compose(compose.Request{Transforms: []compose.Transform{{
		Affine:     compose.Identity,
		Variations: []compose.Placement{{Variation: "linear", Weight: 1}},
	}}})
	if err != nil {
		fmt.Println(err)
		return
	}
	k, err := kernel.Assemble(res, kernel.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, b := range k.Bindings {
		fmt.Printf("@binding(%d) %s: %s\n", b.Binding, b.Name, b.Type)
	}
	fmt.Println("params:", len(k.Params))
	// Output:
	// @binding(0) points: array<Point>
	// @binding(1) selectors: array<u32>
	// @binding(2) xf_params: array<f32>
	// params: 15
}
