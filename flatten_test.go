// File: conf/flatten_test.go
package conf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ellisden/conf"
)

func dbSchema(t *testing.T) *conf.Schema {
	b := conf.NewSchema("db")
	b.Param("url").Env("URL")
	b.Param("pool-size").Env("POOL_SIZE").Default("10").Parser(conf.ParseInt)
	return mustBuild(t, b)
}

func TestFlattenPrefixes(t *testing.T) {
	t.Run("Derived Prefixes From Field Name", func(t *testing.T) {
		b := conf.NewSchema("app")
		b.Flatten("db", dbSchema(t)).Prefix()
		s := mustBuild(t, b)

		args := conf.NewArgs().AddOccurrence("db-url", "postgres://x")
		env := conf.EnvironFromMap(map[string]string{"DB_POOL_SIZE": "5"})

		v, err := s.Resolve(args, env)
		require.NoError(t, err)

		url, err := v.String("db.url")
		require.NoError(t, err)
		assert.Equal(t, "postgres://x", url)

		pool, err := v.Int64("db.pool-size")
		require.NoError(t, err)
		assert.Equal(t, int64(5), pool)
	})

	t.Run("Same Schema Flattened Twice Resolves Independently", func(t *testing.T) {
		db := dbSchema(t)
		b := conf.NewSchema("app")
		b.Flatten("a", db).LongPrefix("a-").EnvPrefix("A_")
		b.Flatten("b", db).LongPrefix("b-").EnvPrefix("B_")
		s := mustBuild(t, b)

		args := conf.NewArgs().AddOccurrence("a-url", "first")
		env := conf.EnvironFromMap(map[string]string{"B_URL": "second"})

		v, err := s.Resolve(args, env)
		require.NoError(t, err)

		aURL, _ := v.String("a.url")
		bURL, _ := v.String("b.url")
		assert.Equal(t, "first", aURL)
		assert.Equal(t, "second", bURL)
	})

	t.Run("Prefixes Compose From Root To Leaf", func(t *testing.T) {
		inner := conf.NewSchema("inner")
		inner.Param("token").Env("TOKEN")
		innerSchema := mustBuild(t, inner)

		mid := conf.NewSchema("mid")
		mid.Flatten("auth", innerSchema).Prefix()
		midSchema := mustBuild(t, mid)

		b := conf.NewSchema("app")
		b.Flatten("svc", midSchema).Prefix()
		s := mustBuild(t, b)

		env := conf.EnvironFromMap(map[string]string{"SVC_AUTH_TOKEN": "tok"})
		v, err := s.Resolve(nil, env)
		require.NoError(t, err)

		tok, err := v.String("svc.auth.token")
		require.NoError(t, err)
		assert.Equal(t, "tok", tok)

		// a wrongly prefixed switch does not reach the leaf
		args := conf.NewArgs().AddOccurrence("auth-token", "nope")
		_, err = s.Resolve(args, nil)
		errs := fieldErrors(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, "svc.auth.token", errs[0].Path)
		assert.Equal(t, conf.MissingRequiredValue, errs[0].Kind)
	})

	t.Run("Nested Errors Carry Prefixed Paths", func(t *testing.T) {
		b := conf.NewSchema("app")
		b.Flatten("db", dbSchema(t)).Prefix()
		s := mustBuild(t, b)

		args := conf.NewArgs().AddOccurrence("db-pool-size", "huge")
		_, err := s.Resolve(args, nil)
		errs := fieldErrors(t, err)
		require.Len(t, errs, 2)
		assert.Equal(t, "db.url", errs[0].Path)
		assert.Equal(t, conf.MissingRequiredValue, errs[0].Kind)
		assert.Equal(t, "db.pool-size", errs[1].Path)
		assert.Equal(t, conf.InvalidValue, errs[1].Kind)
	})
}

func TestOptionalFlattenPresence(t *testing.T) {
	build := func(t *testing.T) *conf.Schema {
		b := conf.NewSchema("app")
		b.Param("name").Default("app")
		b.Flatten("db", dbSchema(t)).Prefix().Optional()
		return mustBuild(t, b)
	}

	t.Run("Untouched Subtree Resolves To Absent Without Errors", func(t *testing.T) {
		s := build(t)

		v, err := s.Resolve(nil, nil)
		require.NoError(t, err)
		assert.False(t, v.Has("db"))
	})

	t.Run("Unrelated Sources Do Not Trigger Presence", func(t *testing.T) {
		s := build(t)
		args := conf.NewArgs().AddOccurrence("name", "svc")
		env := conf.EnvironFromMap(map[string]string{"OTHER": "1"})

		v, err := s.Resolve(args, env)
		require.NoError(t, err)
		assert.False(t, v.Has("db"))
	})

	t.Run("Any Field Appearing Requires The Whole Subtree", func(t *testing.T) {
		s := build(t)
		env := conf.EnvironFromMap(map[string]string{"DB_POOL_SIZE": "5"})

		_, err := s.Resolve(nil, env)
		errs := fieldErrors(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, "db.url", errs[0].Path)
		assert.Equal(t, conf.MissingRequiredValue, errs[0].Kind)
	})

	t.Run("Fully Supplied Subtree Resolves To Present", func(t *testing.T) {
		s := build(t)
		env := conf.EnvironFromMap(map[string]string{"DB_URL": "postgres://x"})

		v, err := s.Resolve(nil, env)
		require.NoError(t, err)
		require.True(t, v.Has("db"))

		url, _ := v.String("db.url")
		pool, _ := v.Int64("db.pool-size")
		assert.Equal(t, "postgres://x", url)
		assert.Equal(t, int64(10), pool) // default fills in once present
	})

	t.Run("Probe Sees Nested Optional Flattens", func(t *testing.T) {
		inner := conf.NewSchema("inner")
		inner.Param("token").Env("TOKEN")
		mid := conf.NewSchema("mid")
		mid.Param("region").Default("us")
		mid.Flatten("auth", mustBuild(t, inner)).Prefix().Optional()

		b := conf.NewSchema("app")
		b.Flatten("svc", mustBuild(t, mid)).Prefix().Optional()
		s := mustBuild(t, b)

		// only the deeply nested token appears; the whole chain materializes
		env := conf.EnvironFromMap(map[string]string{"SVC_AUTH_TOKEN": "tok"})
		v, err := s.Resolve(nil, env)
		require.NoError(t, err)
		require.True(t, v.Has("svc.auth"))
		tok, _ := v.String("svc.auth.token")
		assert.Equal(t, "tok", tok)
	})
}

func TestFlattenSkipShort(t *testing.T) {
	sub := conf.NewSchema("sub")
	sub.Flag("quiet").Short('q')
	subSchema := mustBuild(t, sub)

	t.Run("Elided Short Does Not Match", func(t *testing.T) {
		b := conf.NewSchema("app")
		b.Flag("quick").Short('q')
		b.Flatten("sub", subSchema).Prefix().SkipShort('q')
		s := mustBuild(t, b)

		args := conf.NewArgs().SetFlag("q")
		v, err := s.Resolve(args, nil)
		require.NoError(t, err)

		quick, _ := v.Bool("quick")
		quiet, _ := v.Bool("sub.quiet")
		assert.True(t, quick)
		assert.False(t, quiet)
	})

	t.Run("Long Switch Still Works At The Site", func(t *testing.T) {
		b := conf.NewSchema("app")
		b.Flatten("sub", subSchema).Prefix().SkipShort('q')
		s := mustBuild(t, b)

		args := conf.NewArgs().SetFlag("sub-quiet")
		v, err := s.Resolve(args, nil)
		require.NoError(t, err)

		quiet, _ := v.Bool("sub.quiet")
		assert.True(t, quiet)
	})
}
