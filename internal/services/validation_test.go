// file: internal/services/validation_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsernameRule(t *testing.T) {
	v := newValidator()

	cases := []struct {
		name     string
		username string
		valid    bool
	}{
		{"plain", "greenthumb", true},
		{"with digits", "cyclist42", true},
		{"with underscore", "tree_planter", true},
		{"with hyphen", "river-cleaner", true},
		{"mixed separators", "eco_warrior-2", true},
		{"too short", "ab", false},
		{"space", "eco warrior", false},
		{"at sign", "eco@home", false},
		{"dot", "eco.home", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(&RegisterRequest{
				Email:    "user@example.com",
				Username: tc.username,
				Password: "hunter22",
			})
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
