package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnforcer_AdminInheritsTeacherPermissions(t *testing.T) {
	e, err := NewEnforcer()
	assert.NoError(t, err)

	for _, c := range [][3]string{
		{"admin", "points", "create"},
		{"admin", "attendance", "sweep"},
		{"admin", "students", "read"},
	} {
		ok, err := e.Enforce(c[0], c[1], c[2])
		assert.NoError(t, err)
		assert.True(t, ok, "admin should inherit %s:%s", c[1], c[2])
	}
}

func TestEnforcer_TeacherDeniedAdminActions(t *testing.T) {
	e, err := NewEnforcer()
	assert.NoError(t, err)

	for _, c := range [][3]string{
		{"teacher", "points", "admin"},
		{"teacher", "settings", "write"},
		{"teacher", "users", "admin"},
	} {
		ok, err := e.Enforce(c[0], c[1], c[2])
		assert.NoError(t, err)
		assert.False(t, ok, "teacher must not hold %s:%s", c[1], c[2])
	}
}

func TestEnforcer_UnknownRoleDeniedEverything(t *testing.T) {
	e, err := NewEnforcer()
	assert.NoError(t, err)

	ok, err := e.Enforce("parent", "points", "read")
	assert.NoError(t, err)
	assert.False(t, ok)
}
