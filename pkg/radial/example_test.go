package radial_test

import (
	"fmt"

	"github.com/bdekoz/izzi/pkg/radial"
	"github.com/bdekoz/izzi/pkg/radial/angular"
)

func ExampleComputePlacements() {
	pairs := []radial.Pair{
		{ID: "A", Value: 5},
		{ID: "B", Value: 5},
		{ID: "C", Value: 40},
	}

	coll := radial.DefaultCollision()
	coll.Threshold = 1

	placements, err := radial.ComputePlacements(pairs, 100,
		angular.DefaultRange(), radial.DefaultRadius(100), coll)
	if err != nil {
		panic(err)
	}
	for _, p := range placements {
		fmt.Printf("%s %.1f %.1f %v\n", p.ID, p.Angle, p.Radius, p.Promoted)
	}
	// Output:
	// C 146.0 163.8 false
	// A 24.9 163.8 false
	// B 29.1 163.8 false
}

func ExampleComputePlacements_promotion() {
	pairs := []radial.Pair{{ID: "A", Value: 10}, {ID: "B", Value: 11}}

	coll := radial.DefaultCollision()
	coll.Threshold = 2

	placements, _ := radial.ComputePlacements(pairs, 100,
		angular.DefaultRange(), radial.DefaultRadius(100), coll)
	for _, p := range placements {
		fmt.Println(p.ID, p.Promoted)
	}
	// Output:
	// A true
	// B false
}
