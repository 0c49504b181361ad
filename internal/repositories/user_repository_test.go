// file: internal/repositories/user_repository_test.go
package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserSelectIsWellFormed(t *testing.T) {
	query := userSelect(` WHERE id = $1`)

	// Every column must stay separated from the FROM clause
	assert.Regexp(t, `updated_at\s+FROM users`, query)
	assert.Regexp(t, `SELECT\s+id,`, query)
	assert.Contains(t, query, "FROM users WHERE id = $1")
}

func TestUserSelectWithoutClause(t *testing.T) {
	query := userSelect(``)
	assert.Regexp(t, `FROM users$`, query)
}
