package rbac

const (
	RoleStudent    = "student"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

type RoleInheritanceRow struct {
	Role   string
	Parent string
}

type RolePermissionRow struct {
	Role     string
	Resource string
	Action   string
}

//go:generate mockgen -source=rbac_policy.go -destination=mock/rbac_policy_mock.go -package=mock
type Repository interface {
	GetRoleInheritance() ([]RoleInheritanceRow, error)
	GetRolePermissions() ([]RolePermissionRow, error)
}

// Roles come from the identity provider, so the permission table ships with the binary.
type staticRepository struct{}

func NewStaticRepository() Repository {
	return staticRepository{}
}

func (staticRepository) GetRoleInheritance() ([]RoleInheritanceRow, error) {
	return []RoleInheritanceRow{
		{Role: RoleAdmin, Parent: RoleSupervisor},
	}, nil
}

func (staticRepository) GetRolePermissions() ([]RolePermissionRow, error) {
	return []RolePermissionRow{
		{Role: RoleStudent, Resource: "attendance", Action: "check_in"},
		{Role: RoleStudent, Resource: "attendance", Action: "check_out"},
		{Role: RoleStudent, Resource: "attendance", Action: "read"},
		{Role: RoleStudent, Resource: "student", Action: "read"},
		{Role: RoleStudent, Resource: "adjustment", Action: "read"},

		{Role: RoleSupervisor, Resource: "attendance", Action: "read"},
		{Role: RoleSupervisor, Resource: "attendance", Action: "read_all"},
		{Role: RoleSupervisor, Resource: "attendance", Action: "force_close"},
		{Role: RoleSupervisor, Resource: "attendance", Action: "maintain"},
		{Role: RoleSupervisor, Resource: "student", Action: "read"},
		{Role: RoleSupervisor, Resource: "student", Action: "read_all"},
		{Role: RoleSupervisor, Resource: "adjustment", Action: "create"},
		{Role: RoleSupervisor, Resource: "adjustment", Action: "read"},
		{Role: RoleSupervisor, Resource: "adjustment", Action: "read_all"},
	}, nil
}
