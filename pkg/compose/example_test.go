package compose_test

import (
	"fmt"

	"github.com/matzehuels/flamelink/pkg/catalog/variations"
	"github.com/matzehuels/flamelink/pkg/compose"
	"github.com/matzehuels/flamelink/pkg/library/std"
)

func ExampleComposer_Compose() {
	c := compose.New(variations.Default(), std.Default(), compose.Options{})
	res, err := c.Compose(compose.Request{Transforms: []compose.Transform{{
		Affine: compose.Identity,
		Variations: []compose.Placement{
			{Variation: "splits", Weight: 0.5},
			{Variation: "elliptic", Weight: 0.5},
		},
	}}})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("libraries:", res.Libraries)
	fmt.Println("blocks:", len(res.Blocks))
	fmt.Println("inits:", len(res.InitStatements))
	// Output:
	// libraries: [lib_sgnnz]
	// blocks: 2
	// inits: 0
}
