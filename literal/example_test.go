package literal_test

import (
	"fmt"

	"github.com/coregx/incregex/literal"
	"github.com/coregx/incregex/pattern"
)

// Example demonstrates extracting the literal every email address contains
func Example() {
	root, _ := pattern.Parse(`^[^@\s]+@[^@\s]+\.[a-z]{2,}$`, "")
	seq := literal.New(literal.DefaultConfig()).ExtractRequired(root)
	pf, _ := literal.NewPrefilter(seq)

	fmt.Printf("required: %s\n", seq.Get(0).Bytes)
	fmt.Println(pf.MayMatch("jane@example.org"))
	fmt.Println(pf.MayMatch("jane.example.org"))

	// Output:
	// required: @
	// true
	// false
}

// ExampleSeq_Minimize demonstrates removing redundant required literals
func ExampleSeq_Minimize() {
	seq := literal.NewSeq(
		literal.NewLiteral([]byte("a-b"), false),
		literal.NewLiteral([]byte("-"), false),
	)

	seq.Minimize()
	fmt.Printf("After minimize: %d literals\n", seq.Len())
	fmt.Printf("Remaining: %s\n", seq.Get(0).Bytes)

	// Output:
	// After minimize: 1 literals
	// Remaining: -
}
