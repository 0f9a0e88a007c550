package sqlguard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	v := New()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \n\t  ", ""},
		{"plain sql untouched", "SELECT * FROM users", "SELECT * FROM users"},
		{"sql fence", "```sql\nSELECT 1\n```", "SELECT 1"},
		{"bare fence", "```\nSELECT 1\n```", "SELECT 1"},
		{"sql prefix", "SQL: SELECT id FROM t", "SELECT id FROM t"},
		{"query prefix", "Query: SELECT id FROM t", "SELECT id FROM t"},
		{"here is prefix", "Here is the SQL: SELECT 1", "SELECT 1"},
		{"the sql query is prefix", "The SQL query is: SELECT 1", "SELECT 1"},
		{"sql query prefix", "SQL query: SELECT 1", "SELECT 1"},
		{"prefix case insensitive", "sql: SELECT 1", "SELECT 1"},
		{"fence and prefix", "```sql\nSQL: SELECT 1\n```", "SELECT 1"},
		{"surrounding whitespace", "  SELECT 1  \n", "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Clean(tt.in))
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	v := New()
	once := v.Clean("```sql\nSELECT a, b FROM t WHERE x = 1\n```")
	assert.Equal(t, once, v.Clean(once))
}

func TestStatements(t *testing.T) {
	v := New()

	t.Run("single statement", func(t *testing.T) {
		stmts := v.Statements("SELECT 1")
		require.Len(t, stmts, 1)
		assert.Equal(t, "SELECT 1", stmts[0].Text)
	})

	t.Run("multiple statements", func(t *testing.T) {
		stmts := v.Statements("SELECT 1; DROP TABLE t;")
		require.Len(t, stmts, 2)
		assert.Equal(t, "SELECT 1", stmts[0].Text)
		assert.Equal(t, "DROP TABLE t", stmts[1].Text)
	})

	t.Run("semicolon inside string literal", func(t *testing.T) {
		stmts := v.Statements("SELECT * FROM t WHERE name = 'a;b'")
		require.Len(t, stmts, 1)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, v.Statements(""))
		assert.Empty(t, v.Statements("   \n"))
	})

	t.Run("unterminated string yields nothing", func(t *testing.T) {
		assert.Empty(t, v.Statements("SELECT 'oops"))
	})

	t.Run("trailing semicolon", func(t *testing.T) {
		stmts := v.Statements("SELECT 1;")
		require.Len(t, stmts, 1)
	})

	t.Run("first keyword skips comments", func(t *testing.T) {
		stmts := v.Statements("-- note\nSELECT 1")
		require.Len(t, stmts, 1)
		assert.Equal(t, "SELECT", stmts[0].FirstKeyword())
	})
}

func TestIsSelectOnly(t *testing.T) {
	v := New()

	tests := []struct {
		name string
		sql  string
		want bool
	}{
		{"single select", "SELECT * FROM users", true},
		{"lowercase select", "select id from t", true},
		{"select then drop", "SELECT 1; DROP TABLE t;", false},
		{"insert", "INSERT INTO t VALUES (1)", false},
		{"update", "UPDATE t SET a = 1", false},
		{"select with leading comment", "-- note\nSELECT 1", true},
		{"comment only statement skipped", "SELECT 1; -- done", true},
		{"empty input passes", "", true},
		{"cte starts with with", "WITH x AS (SELECT 1) SELECT * FROM x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsSelectOnly(tt.sql))
		})
	}
}

func TestIsSyntacticallyValid(t *testing.T) {
	v := New()

	tests := []struct {
		name string
		sql  string
		want bool
	}{
		{"valid select", "SELECT * FROM users", true},
		{"valid insert", "INSERT INTO t VALUES (1)", true},
		{"empty", "", false},
		{"whitespace", "  \n ", false},
		{"prose without keyword", "hello world", false},
		{"keyword substring accepted", "I SELECTED this option", true},
		{"statement without keyword rejected", "SELECT 1; hello", false},
		{"comment only passes", "-- just a comment", true},
		{"unterminated string", "SELECT 'oops", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsSyntacticallyValid(tt.sql))
		})
	}
}

func TestValidateAndClean(t *testing.T) {
	v := New()

	t.Run("empty input always rejected", func(t *testing.T) {
		for _, in := range []string{"", "   ", "\n\t"} {
			assert.Equal(t, "", v.ValidateAndClean(in, true))
			assert.Equal(t, "", v.ValidateAndClean(in, false))
		}
	})

	t.Run("readonly rejects mixed statements", func(t *testing.T) {
		sql := "SELECT * FROM t; DROP TABLE t;"
		assert.Equal(t, "", v.ValidateAndClean(sql, true))
		assert.Equal(t, sql, v.ValidateAndClean(sql, false))
	})

	t.Run("fenced select accepted in readonly", func(t *testing.T) {
		assert.Equal(t, "SELECT 1", v.ValidateAndClean("```sql\nSELECT 1\n```", true))
	})

	t.Run("junk rejected", func(t *testing.T) {
		assert.Equal(t, "", v.ValidateAndClean("I cannot answer that question.", false))
	})

	t.Run("prefixed update accepted when not readonly", func(t *testing.T) {
		got := v.ValidateAndClean("SQL: UPDATE t SET a = 1", false)
		assert.Equal(t, "UPDATE t SET a = 1", got)
	})
}

func TestValidate(t *testing.T) {
	v := New()

	t.Run("typed result for readonly violation", func(t *testing.T) {
		res := v.Validate("DELETE FROM t", true)
		assert.Equal(t, "DELETE FROM t", res.CleanedSQL)
		assert.True(t, res.IsSyntacticallyValid)
		assert.False(t, res.IsSelectOnly)
		assert.False(t, res.PassedPolicy)
	})

	t.Run("typed result for pass", func(t *testing.T) {
		res := v.Validate("SELECT 1", true)
		assert.True(t, res.PassedPolicy)
		assert.True(t, res.IsSelectOnly)
		assert.True(t, res.IsSyntacticallyValid)
	})

	t.Run("empty clean short-circuits", func(t *testing.T) {
		res := v.Validate("```", false)
		assert.Equal(t, "", res.CleanedSQL)
		assert.False(t, res.PassedPolicy)
	})
}
