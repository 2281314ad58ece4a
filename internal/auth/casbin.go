package auth

import (
	"log"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
	"spendbook.com/internal/model"
)

// InitCasbin defines the RBAC model and initializes the enforcer with the
// GORM adapter (creates the casbin_rule table on first run).
func InitCasbin(db *gorm.DB) (*casbin.Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}

	// r = request (who, what, how)
	// p = policy (who, what, how)
	// g = grouping (role hierarchy)
	// keyMatch2 supports URL parameters like /expenses/:id
	text := `
		[request_definition]
		r = sub, obj, act

		[policy_definition]
		p = sub, obj, act

		[role_definition]
		g = _, _

		[policy_effect]
		e = some(where (p.eft == allow))

		[matchers]
		m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
	`

	m, err := casbinmodel.NewModelFromString(text)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}

	// Seed the default policies on an empty installation: admins (staff or
	// superuser accounts) may reach everything under the API prefix,
	// regular users only the auth and expense routes.
	policies, _ := enforcer.GetPolicy()
	if len(policies) == 0 {
		log.Println("Casbin: No policies found, initializing default policies...")

		defaults := [][]string{
			{model.RoleAdmin, "/api/v1/*", "(GET)|(POST)|(PUT)|(PATCH)|(DELETE)"},
			{model.RoleUser, "/api/v1/auth/*", "(GET)|(POST)|(PUT)|(PATCH)"},
			{model.RoleUser, "/api/v1/expenses/*", "(GET)|(POST)|(PUT)|(PATCH)|(DELETE)"},
		}
		if _, err := enforcer.AddPolicies(defaults); err != nil {
			log.Printf("Failed to add default policies: %v", err)
		} else if err := enforcer.SavePolicy(); err != nil {
			log.Printf("Failed to save default policies: %v", err)
		} else {
			log.Println("Casbin: Default policies initialized.")
		}
	}

	log.Println("Casbin initialized successfully")
	return enforcer, nil
}
