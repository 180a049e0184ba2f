package domain

// Role represents the authorization level of an account.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RolePublisher  Role = "PUBLISHER"
	RoleSubscriber Role = "SUBSCRIBER"
)

// Roles lists every assignable role.
func Roles() []Role {
	return []Role{RoleAdmin, RolePublisher, RoleSubscriber}
}

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePublisher, RoleSubscriber:
		return true
	}
	return false
}

// Permission names a single guarded operation.
type Permission string

const (
	PermHealthRead           Permission = "health:read"
	PermAuthRegister         Permission = "auth:register"
	PermAuthLogin            Permission = "auth:login"
	PermAuthRefresh          Permission = "auth:refresh"
	PermAuthLogout           Permission = "auth:logout"
	PermMagazineList         Permission = "magazine:list"
	PermMagazineCreate       Permission = "magazine:create"
	PermMagazineUpdate       Permission = "magazine:update"
	PermMagazineDelete       Permission = "magazine:delete"
	PermCommentList          Permission = "comment:list"
	PermCommentCreate        Permission = "comment:create"
	PermCommentApprove       Permission = "comment:approve"
	PermSubscriptionList     Permission = "subscription:list"
	PermSubscriptionCreate   Permission = "subscription:create"
	PermSubscriptionActivate Permission = "subscription:activate"
	PermSubscriptionCancel   Permission = "subscription:cancel"
	PermUserList             Permission = "user:list"
	PermUserUpdateRole       Permission = "user:updateRole"
)

var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermHealthRead,
		PermAuthRegister, PermAuthLogin, PermAuthRefresh, PermAuthLogout,
		PermMagazineList, PermMagazineCreate, PermMagazineUpdate, PermMagazineDelete,
		PermCommentList, PermCommentCreate, PermCommentApprove,
		PermSubscriptionList, PermSubscriptionCreate, PermSubscriptionActivate, PermSubscriptionCancel,
		PermUserList, PermUserUpdateRole,
	},
	RolePublisher: {
		PermHealthRead,
		PermAuthRegister, PermAuthLogin, PermAuthRefresh, PermAuthLogout,
		PermMagazineList, PermMagazineCreate, PermMagazineUpdate, PermMagazineDelete,
		PermCommentList, PermCommentCreate,
		PermSubscriptionList, PermSubscriptionActivate,
	},
	RoleSubscriber: {
		PermHealthRead,
		PermAuthRegister, PermAuthLogin, PermAuthRefresh, PermAuthLogout,
		PermMagazineList,
		PermCommentList, PermCommentCreate,
		PermSubscriptionCreate, PermSubscriptionCancel,
	},
}

// PermissionsForRole returns the static permission catalog entry for a role.
func PermissionsForRole(role Role) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
