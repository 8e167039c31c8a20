// File: conf/walk_test.go
package conf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ellisden/conf"
)

func TestWalkOptions(t *testing.T) {
	db := conf.NewSchema("db")
	db.Param("url").Env("URL").Help("connection string")
	db.Param("pool-size").Parser(conf.ParseInt).Default("8")

	run := conf.NewSchema("run")
	run.Param("port").Parser(conf.ParseInt).Default("8080")

	b := conf.NewSchema("app")
	b.EnvPrefix("APP_")
	b.Flag("verbose").Short('v').Env("VERBOSE")
	b.Param("token").Secret()
	b.Flatten("db", mustBuild(t, db)).Prefix().HelpPrefix("database: ")
	b.Subcommands("action").Command("run", mustBuild(t, run)).Optional()
	s := mustBuild(t, b)

	byPath := make(map[string]conf.OptionInfo)
	var order []string
	s.WalkOptions(func(info conf.OptionInfo) {
		byPath[info.Path] = info
		order = append(order, info.Path)
	})

	assert.Equal(t, []string{"verbose", "token", "db.url", "db.pool-size", "action.run.port"}, order)

	verbose := byPath["verbose"]
	assert.Equal(t, conf.KindFlag, verbose.Kind)
	assert.Equal(t, []string{"verbose"}, verbose.Longs)
	assert.Equal(t, 'v', verbose.Short)
	assert.Equal(t, []string{"APP_VERBOSE"}, verbose.Envs)
	assert.False(t, verbose.Required)

	token := byPath["token"]
	assert.True(t, token.Required)
	assert.True(t, token.Secret)

	url := byPath["db.url"]
	assert.Equal(t, []string{"db-url"}, url.Longs)
	assert.Equal(t, []string{"APP_DB_URL"}, url.Envs)
	assert.Equal(t, "database: connection string", url.Help)

	pool := byPath["db.pool-size"]
	require.True(t, pool.HasDef)
	assert.Equal(t, "8", pool.Default)
	assert.False(t, pool.Required)

	// Subcommand variants are independent namespaces: no root prefixes apply.
	port := byPath["action.run.port"]
	assert.Equal(t, []string{"port"}, port.Longs)
	assert.Empty(t, port.Envs)
}
