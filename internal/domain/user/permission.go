package user

type Permission string

const (
	PermissionEmployeeView   Permission = "employee.view"
	PermissionEmployeeManage Permission = "employee.manage"

	PermissionCommissionView   Permission = "commission.view"
	PermissionCommissionManage Permission = "commission.manage"

	PermissionPayrollView   Permission = "payroll.view"
	PermissionPayrollManage Permission = "payroll.manage"

	PermissionAttendanceRecord Permission = "attendance.record"
	PermissionAttendanceView   Permission = "attendance.view"
	PermissionAttendanceManage Permission = "attendance.manage"

	PermissionDashboardView Permission = "dashboard.view"
	PermissionReportsExport Permission = "reports.export"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionCommissionView,
		PermissionCommissionManage,
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionAttendanceRecord,
		PermissionAttendanceView,
		PermissionAttendanceManage,
		PermissionDashboardView,
		PermissionReportsExport,
	},
	RoleManager: {
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionCommissionView,
		PermissionCommissionManage,
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionAttendanceRecord,
		PermissionAttendanceView,
		PermissionAttendanceManage,
		PermissionDashboardView,
		PermissionReportsExport,
	},
	RoleCashier: {
		PermissionEmployeeView,
		PermissionCommissionView,
		PermissionAttendanceRecord,
		PermissionAttendanceView,
	},
	RoleStaff: {
		PermissionAttendanceRecord,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
