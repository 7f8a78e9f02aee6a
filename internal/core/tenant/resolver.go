package tenant

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// TenantContext identifies the company an inbound gateway event belongs to.
type TenantContext struct {
	EmpresaID uuid.UUID
	Instance  string
}

type Resolver struct {
	db *sql.DB
}

func NewResolver(db *sql.DB) *Resolver {
	return &Resolver{db: db}
}

// ResolveFromInstance maps an Evolution instance name to its company.
// Events that carry no registered instance fall back to the default
// active company.
func (r *Resolver) ResolveFromInstance(instance string) (*TenantContext, error) {
	ctx := &TenantContext{Instance: instance}

	if instance != "" {
		query := `
			SELECT ei.empresa_id
			FROM evolution_instances ei
			JOIN empresas e ON e.id = ei.empresa_id
			WHERE ei.instance_name = $1 AND e.ativo = true
			LIMIT 1
		`
		err := r.db.QueryRow(query, instance).Scan(&ctx.EmpresaID)
		if err == nil {
			return ctx, nil
		}
		if err != sql.ErrNoRows {
			return nil, err
		}
	}

	// Fallback: first active company. Single-tenant installs land here.
	queryDefault := `
		SELECT id
		FROM empresas
		WHERE ativo = true
		ORDER BY created_at ASC
		LIMIT 1
	`
	err := r.db.QueryRow(queryDefault).Scan(&ctx.EmpresaID)
	if err != nil {
		return nil, fmt.Errorf("no active empresa found")
	}

	return ctx, nil
}

// InstanceForEmpresa returns the gateway instance registered for a company
// (used for outbound sends).
func (r *Resolver) InstanceForEmpresa(empresaID uuid.UUID) (string, error) {
	var instance string
	query := `
		SELECT instance_name
		FROM evolution_instances
		WHERE empresa_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`
	err := r.db.QueryRow(query, empresaID).Scan(&instance)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no evolution instance registered for empresa %s", empresaID)
	}
	if err != nil {
		return "", err
	}
	return instance, nil
}
