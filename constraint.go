// File: conf/constraint.go
package conf

// checkConstraints evaluates one group's constraints once its direct fields
// have resolved. Fields that themselves failed are skipped, so a broken leaf
// never cascades into constraint noise; a predicate is skipped entirely when
// any sibling failed, because it cannot safely see an incomplete value.
func (r *resolver) checkConstraints(g *group, sc scope, out Value, failed map[string]bool) {
	for _, c := range g.constraints {
		if c.kind == predicate {
			if len(failed) > 0 {
				continue
			}
			if err := c.pred(out); err != nil {
				r.report(&FieldError{
					Path:   sc.path,
					Kind:   ValidationPredicateFailed,
					Reason: err.Error(),
				})
			}
			continue
		}

		var present, absent []string
		for _, f := range c.fields {
			if failed[f] {
				continue
			}
			n, ok := g.child(f)
			if !ok {
				continue // rejected at schema construction; unreachable here
			}
			if fieldPresent(n, out) {
				present = append(present, fieldLabel(n, sc))
			} else {
				absent = append(absent, fieldLabel(n, sc))
			}
		}

		violated := false
		switch c.kind {
		case exactlyOne:
			violated = len(present) != 1
		case atMostOne:
			violated = len(present) > 1
		case atLeastOne:
			violated = len(present) < 1
		}
		if violated {
			r.report(&FieldError{
				Path:    sc.path,
				Kind:    ConflictingConstraint,
				Rule:    c.kind.String(),
				Present: present,
				Absent:  absent,
			})
		}
	}
}

// fieldPresent is the per-kind presence predicate: a flag counts when true,
// a repeat when non-empty, anything optional when it resolved to a value.
func fieldPresent(n node, out Value) bool {
	v, ok := out[n.fieldName()]
	if !ok {
		return false
	}
	if o, isOpt := n.(*Option); isOpt {
		switch o.kind {
		case KindFlag:
			b, _ := v.(bool)
			return b
		case KindRepeat:
			l, _ := v.([]any)
			return len(l) > 0
		}
	}
	return true
}

// fieldLabel renders a constraint field the way the user supplies it: the
// effective long switch for options, the field name otherwise.
func fieldLabel(n node, sc scope) string {
	if o, isOpt := n.(*Option); isOpt {
		return "--" + sc.longPrefix + o.name
	}
	return n.fieldName()
}
