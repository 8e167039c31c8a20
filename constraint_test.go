// File: conf/constraint_test.go
package conf_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ellisden/conf"
)

func oneOfSchema(t *testing.T) *conf.Schema {
	b := conf.NewSchema("app")
	b.Flag("a")
	b.Param("b").Optional()
	b.Repeat("c").Parser(conf.ParseInt)
	b.ExactlyOne("a", "b", "c")
	return mustBuild(t, b)
}

func TestExactlyOne(t *testing.T) {
	t.Run("One Present Passes", func(t *testing.T) {
		s := oneOfSchema(t)

		v, err := s.Resolve(conf.NewArgs().SetFlag("a"), nil)
		require.NoError(t, err)
		a, _ := v.Bool("a")
		assert.True(t, a)

		v, err = s.Resolve(conf.NewArgs().AddOccurrence("b", "foo"), nil)
		require.NoError(t, err)
		b, _ := v.String("b")
		assert.Equal(t, "foo", b)

		v, err = s.Resolve(conf.NewArgs().AddOccurrence("c", "19"), nil)
		require.NoError(t, err)
		assert.True(t, v.Has("c"))
	})

	t.Run("Two Present Names Both And The Absent One", func(t *testing.T) {
		s := oneOfSchema(t)
		args := conf.NewArgs().SetFlag("a").AddOccurrence("b", "x")

		_, err := s.Resolve(args, nil)
		errs := fieldErrors(t, err)
		require.Len(t, errs, 1)

		fe := errs[0]
		assert.Equal(t, conf.ConflictingConstraint, fe.Kind)
		assert.ElementsMatch(t, []string{"--a", "--b"}, fe.Present)
		assert.ElementsMatch(t, []string{"--c"}, fe.Absent)
		assert.Contains(t, fe.Error(), "too many arguments")
	})

	t.Run("None Present Names All As Absent", func(t *testing.T) {
		s := oneOfSchema(t)

		_, err := s.Resolve(nil, nil)
		errs := fieldErrors(t, err)
		require.Len(t, errs, 1)

		fe := errs[0]
		assert.Equal(t, conf.ConflictingConstraint, fe.Kind)
		assert.Empty(t, fe.Present)
		assert.ElementsMatch(t, []string{"--a", "--b", "--c"}, fe.Absent)
		assert.Contains(t, fe.Error(), "too few arguments")
	})

	t.Run("Empty Repeat Counts As Absent", func(t *testing.T) {
		s := oneOfSchema(t)
		args := conf.NewArgs().SetFlag("a")

		v, err := s.Resolve(args, nil)
		require.NoError(t, err)
		list, _ := v.StringSlice("c")
		assert.Empty(t, list) // present key, empty list, absent for counting
	})

	t.Run("Failed Field Is Skipped From Counting", func(t *testing.T) {
		s := oneOfSchema(t)
		args := conf.NewArgs().SetFlag("a").AddOccurrence("c", "NaN")

		// c failed to parse, so the constraint counts only a and b;
		// a alone satisfies exactly-one and no constraint error is added.
		_, err := s.Resolve(args, nil)
		errs := fieldErrors(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, conf.InvalidValue, errs[0].Kind)
		assert.Equal(t, "c", errs[0].Path)
	})
}

func TestAtMostAtLeast(t *testing.T) {
	build := func(t *testing.T) *conf.Schema {
		b := conf.NewSchema("app")
		b.Flag("json")
		b.Flag("yaml")
		b.Param("input").Optional()
		b.Param("stdin").Optional()
		b.AtMostOne("json", "yaml")
		b.AtLeastOne("input", "stdin")
		return mustBuild(t, b)
	}

	t.Run("At Most One Violated Only Above One", func(t *testing.T) {
		s := build(t)

		_, err := s.Resolve(conf.NewArgs().AddOccurrence("input", "f"), nil)
		require.NoError(t, err)

		args := conf.NewArgs().SetFlag("json").SetFlag("yaml").AddOccurrence("input", "f")
		_, err = s.Resolve(args, nil)
		errs := fieldErrors(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, conf.ConflictingConstraint, errs[0].Kind)
		assert.Equal(t, "at most one", errs[0].Rule)
	})

	t.Run("At Least One Violated When None", func(t *testing.T) {
		s := build(t)

		_, err := s.Resolve(nil, nil)
		errs := fieldErrors(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, "at least one", errs[0].Rule)
		assert.ElementsMatch(t, []string{"--input", "--stdin"}, errs[0].Absent)
	})

	t.Run("Constraint Errors Append After Field Errors In Order", func(t *testing.T) {
		b := conf.NewSchema("app")
		b.Param("first")
		b.Param("input").Optional()
		b.Param("stdin").Optional()
		b.AtLeastOne("input", "stdin")
		s := mustBuild(t, b)

		_, err := s.Resolve(nil, nil)
		errs := fieldErrors(t, err)
		require.Len(t, errs, 2)
		assert.Equal(t, conf.MissingRequiredValue, errs[0].Kind)
		assert.Equal(t, conf.ConflictingConstraint, errs[1].Kind)
	})
}

func TestValidatePredicate(t *testing.T) {
	build := func(t *testing.T) *conf.Schema {
		b := conf.NewSchema("app")
		b.Param("min").Parser(conf.ParseInt).Default("0")
		b.Param("max").Parser(conf.ParseInt).Default("10")
		b.Validate(func(v conf.Value) error {
			min, _ := v.Int64("min")
			max, _ := v.Int64("max")
			if min > max {
				return fmt.Errorf("min (%d) must not exceed max (%d)", min, max)
			}
			return nil
		})
		return mustBuild(t, b)
	}

	t.Run("Passing Predicate Adds Nothing", func(t *testing.T) {
		s := build(t)
		_, err := s.Resolve(nil, nil)
		require.NoError(t, err)
	})

	t.Run("Failing Predicate Carries Its Message", func(t *testing.T) {
		s := build(t)
		args := conf.NewArgs().AddOccurrence("min", "9").AddOccurrence("max", "3")

		_, err := s.Resolve(args, nil)
		errs := fieldErrors(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, conf.ValidationPredicateFailed, errs[0].Kind)
		assert.Contains(t, errs[0].Error(), "min (9) must not exceed max (3)")
	})

	t.Run("Skipped When Any Sibling Failed", func(t *testing.T) {
		s := build(t)
		args := conf.NewArgs().AddOccurrence("min", "NaN").AddOccurrence("max", "3")

		_, err := s.Resolve(args, nil)
		errs := fieldErrors(t, err)
		require.Len(t, errs, 1) // only the parse failure, no predicate noise
		assert.Equal(t, conf.InvalidValue, errs[0].Kind)
	})

	t.Run("Flattened Group Predicate Runs In Its Own Scope", func(t *testing.T) {
		inner := conf.NewSchema("range")
		inner.Param("low").Parser(conf.ParseInt).Default("1")
		inner.Param("high").Parser(conf.ParseInt).Default("2")
		inner.Validate(func(v conf.Value) error {
			low, _ := v.Int64("low")
			high, _ := v.Int64("high")
			if low > high {
				return fmt.Errorf("low above high")
			}
			return nil
		})

		b := conf.NewSchema("app")
		b.Flatten("r", mustBuild(t, inner)).Prefix()
		s := mustBuild(t, b)

		args := conf.NewArgs().AddOccurrence("r-low", "5")
		_, err := s.Resolve(args, nil)
		errs := fieldErrors(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, conf.ValidationPredicateFailed, errs[0].Kind)
		assert.Equal(t, "r", errs[0].Path)
	})
}
