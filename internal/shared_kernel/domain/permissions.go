package domain

// Permission names granted to non-admin users. Admins implicitly hold all of
// them.
const (
	PermissionViewDetails = "acs:view_details"
	PermissionTaskWifi    = "acs:task_wifi"
	PermissionTaskDelete  = "acs:task_delete"
)

// KnownPermissions lists every grantable permission, used to validate grant
// requests.
var KnownPermissions = []string{
	PermissionViewDetails,
	PermissionTaskWifi,
	PermissionTaskDelete,
}
