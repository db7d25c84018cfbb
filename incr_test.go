package incr

import (
	"fmt"
)

func ExampleCell() {
	count := NewCell(0)
	fmt.Println(count.MustGet(), count.Version())

	count.Set(10)
	fmt.Println(count.MustGet(), count.Version())

	// Output:
	// 0 1
	// 10 2
}

func ExampleMap2() {
	a := NewCell(8)
	b := NewCell(6.5)
	c := Map(a, func(x int) int {
		fmt.Println("doubling")
		return x * 2
	})
	d := Map2(c, b, func(x int, y float64) float64 {
		fmt.Println("adding")
		return float64(x) + y
	})

	fmt.Println(d.MustGet())

	a.Set(5)
	fmt.Println(d.MustGet())

	b.Set(4.5)
	fmt.Println(d.MustGet())

	a.Set(2)
	fmt.Println(d.MustGet())

	// Output:
	// doubling
	// adding
	// 22.5
	// doubling
	// adding
	// 16.5
	// adding
	// 14.5
	// doubling
	// adding
	// 8.5
}

func ExampleCell_Invalidate() {
	price := NewCell(10, WithName("price"))
	total := Map(price, func(p int) int { return p * 3 }, WithName("total"))

	fmt.Println(total.MustGet(), total.IsInvalidated())

	price.Invalidate()
	fmt.Println(total.IsInvalidated())
	fmt.Println(price.Set(12))

	// Output:
	// 30 false
	// true
	// set "price": cell has been invalidated
}
