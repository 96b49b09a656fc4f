package circuitlab_test

import (
	"context"
	"fmt"

	"github.com/aretw0/circuitlab"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/dsl"
)

// ExampleGraph builds the classic battery, lamp and wire loop and asks whether it closes.
func ExampleGraph() {
	b := dsl.New("first-circuit")
	b.Source("battery", domain.Pt(0, 0), domain.Pt(100, 0))
	b.Wire("right", domain.Pt(100, 0), domain.Pt(100, 100))
	b.Lamp("lamp", domain.Pt(100, 100), domain.Pt(0, 100))
	b.Wire("left", domain.Pt(0, 100), domain.Pt(0, 0))

	g := circuitlab.New()
	for _, spec := range b.Specs() {
		g.AddElement(spec)
	}

	res := g.Simulate(context.Background())
	fmt.Println("status:", res.Status)
	fmt.Println("path:", res.Paths[0].IDs())
	fmt.Println("lamp on:", res.Readings["lamp"].On)
	// Output:
	// status: complete
	// path: [left lamp right]
	// lamp on: true
}

// ExampleRun shows the effect of an open switch.
func ExampleRun() {
	b := dsl.New("switched")
	b.Source("battery", domain.Pt(0, 0), domain.Pt(100, 0))
	b.Switch("switch", domain.Pt(100, 0), domain.Pt(100, 100)).Off()
	b.Lamp("lamp", domain.Pt(100, 100), domain.Pt(0, 100))
	b.Wire("left", domain.Pt(0, 100), domain.Pt(0, 0))

	res, err := circuitlab.Run(context.Background(), b.Layout())
	if err != nil {
		panic(err)
	}
	fmt.Println(int(res.Status), res.Status)
	// Output:
	// -2 switch_open
}
