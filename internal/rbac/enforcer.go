package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Enforcer answers "may this role do this action on this object".
type Enforcer interface {
	Enforce(role, obj, act string) (bool, error)
}

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// defaultPolicy encodes the two staff roles. Admins inherit everything a
// teacher may do and add the destructive operations on top.
var defaultPolicy = [][3]string{
	{"teacher", "students", "read"},
	{"teacher", "students", "create"},
	{"teacher", "students", "write"},
	{"teacher", "points", "read"},
	{"teacher", "points", "create"},
	{"teacher", "attendance", "read"},
	{"teacher", "attendance", "create"},
	{"teacher", "attendance", "sweep"},
	{"teacher", "followups", "read"},
	{"teacher", "followups", "write"},
	{"teacher", "settings", "read"},

	{"admin", "points", "admin"},
	{"admin", "attendance", "admin"},
	{"admin", "students", "admin"},
	{"admin", "settings", "write"},
	{"admin", "users", "admin"},
}

type casbinEnforcer struct {
	mu sync.RWMutex
	e  *casbin.Enforcer
}

// NewEnforcer builds the enforcer from the embedded model and the default
// role policy, so deployments need no policy files on disk.
func NewEnforcer() (Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := e.AddGroupingPolicy("admin", "teacher"); err != nil {
		return nil, err
	}
	for _, p := range defaultPolicy {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return &casbinEnforcer{e: e}, nil
}

func (c *casbinEnforcer) Enforce(role, obj, act string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.e.Enforce(role, obj, act)
}
