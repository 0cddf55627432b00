package rbac

// Permission represents an atomic capability. Permissions are reference data
// loaded from the database; the API never mutates them.
type Permission struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Well-known permission ids seeded with the schema. Role editing is free-form,
// but the handlers below gate on these.
const (
	PermEmployeesView int64 = 1
	PermEmployeesEdit int64 = 2
	PermRecruitment   int64 = 3
	PermAttendance    int64 = 4
	PermPayroll       int64 = 5
	PermRolesManage   int64 = 6
	PermConfigManage  int64 = 7
	PermFaceDevices   int64 = 8
	PermReferenceEdit int64 = 9
	PermLeavesManage  int64 = 10
)

// CanAccess decides access given the permission ids a resource requires and
// the ids the caller holds. An empty requirement grants access to any
// authenticated session; otherwise any single overlap suffices (ANY-of, not
// ALL-of). Pure function, no caching: callers re-evaluate whenever the held
// set changes.
func CanAccess(required, held []int64) bool {
	if len(required) == 0 {
		return true
	}
	set := make(map[int64]struct{}, len(held))
	for _, id := range held {
		set[id] = struct{}{}
	}
	for _, id := range required {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
