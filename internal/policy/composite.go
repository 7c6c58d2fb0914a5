package policy

import dErrors "dataspace/pkg/domain-errors"

// AndPolicy evaluates its children in order and returns the first denying
// result unchanged (short-circuit); later children are not evaluated. If all
// children allow, it allows.
type AndPolicy struct {
	children []Policy
}

// NewAndPolicy requires at least one child. The child slice is copied so the
// tree cannot be rewired after construction.
func NewAndPolicy(children ...Policy) (*AndPolicy, error) {
	if len(children) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "AND policy requires at least one child")
	}
	cp := make([]Policy, len(children))
	copy(cp, children)
	return &AndPolicy{children: cp}, nil
}

func (p *AndPolicy) Evaluate(ctx Context) Result {
	for _, child := range p.children {
		if result := child.Evaluate(ctx); !result.Allowed {
			return result
		}
	}
	return Allow()
}

// OrPolicy evaluates its children in order and allows on the first child that
// allows (short-circuit). If no child allows, it denies with a fixed reason;
// the per-child reasons are discarded.
type OrPolicy struct {
	children []Policy
}

// NewOrPolicy requires at least one child.
func NewOrPolicy(children ...Policy) (*OrPolicy, error) {
	if len(children) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "OR policy requires at least one child")
	}
	cp := make([]Policy, len(children))
	copy(cp, children)
	return &OrPolicy{children: cp}, nil
}

func (p *OrPolicy) Evaluate(ctx Context) Result {
	for _, child := range p.children {
		if child.Evaluate(ctx).Allowed {
			return Allow()
		}
	}
	return Deny("None of the OR-composed policies were satisfied")
}

// NotPolicy inverts its single child: it denies with a fixed reason when the
// child allows, and allows (with no reason) when the child denies.
type NotPolicy struct {
	child Policy
}

// NewNotPolicy requires exactly one non-nil child.
func NewNotPolicy(child Policy) (*NotPolicy, error) {
	if child == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "NOT policy requires a child")
	}
	return &NotPolicy{child: child}, nil
}

func (p *NotPolicy) Evaluate(ctx Context) Result {
	if p.child.Evaluate(ctx).Allowed {
		return Deny("NOT policy violation")
	}
	return Allow()
}
