package policy

// Evaluator is the invocation boundary for policy trees. It delegates to the
// tree's root and hands back an independent result value, so callers never
// alias whatever the tree returned. Evaluation itself cannot fail: a missing
// context fact makes the relevant atomic policy deny, never error.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

func (e *Evaluator) Evaluate(p Policy, ctx Context) Result {
	result := p.Evaluate(ctx)
	return Result{
		Allowed:         result.Allowed,
		ViolationReason: result.ViolationReason,
	}
}
