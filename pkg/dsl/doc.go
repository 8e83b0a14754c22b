/*
Package dsl provides a fluent builder for propagation networks addressed by
cell name instead of numeric handle.

Cells referenced by a constraint but never declared are created with the
builder's default domain (numeric). Constraints are resolved through a
registry, so anything registered there can be named here.

Example usage:

	b := dsl.New()
	b.Cell("c")
	b.Cell("f")
	b.Constant("thirty-two", 32)
	b.Constant("five", 5)
	b.Constant("nine", 9)
	b.Constraint("sum", "f-32", "thirty-two", "f")
	b.Constraint("product", "c", "nine", "c*9")
	b.Constraint("product", "f-32", "five", "c*9")
	b.Cell("c").Value(100)

	net, err := b.Build()
	if err != nil {
		return err
	}
	if _, err := net.Run(ctx); err != nil {
		return err
	}
	f, _ := net.Value("f") // 212
*/
package dsl
