package persian_test

import (
	"fmt"
	"time"

	"github.com/Aria-Ghojavand/shamsy-calendar/persian"
)

func ExampleUTC() {
	t := time.Date(2024, 11, 9, 22, 38, 28, 0, time.UTC)
	dt, err := persian.UTC{Time: t}.ToPersian()
	if err != nil {
		panic(err)
	}
	fmt.Println(dt)
	// Output: 1403-08-20 02:08:28 UTC
}

func ExampleZoned() {
	t := time.Date(2024, 11, 10, 2, 17, 54, 0, time.FixedZone("", 12600))
	dt, err := persian.Zoned{Time: t}.ToPersian()
	if err != nil {
		panic(err)
	}
	fmt.Println(dt)
	// Output: 1403-08-20 02:17:54 +00:00
}

func ExampleNaive() {
	t := time.Date(2024, 11, 9, 23, 7, 0, 0, time.UTC)
	dt, err := persian.Naive{Time: t}.ToPersian()
	if err != nil {
		panic(err)
	}
	fmt.Println(dt)
	// Output: 1403-08-19 23:07:00
}

func ExampleDateTime_Format() {
	dt, err := persian.Parse("1403/08/20 02:17:54")
	if err != nil {
		panic(err)
	}
	fmt.Println(dt.Format("YYYY/MM/DD hh:mm"))
	// Output: 1403/08/20 02:17
}
