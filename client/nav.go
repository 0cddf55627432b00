package client

import "github.com/kestrel-hr/kestrel/internal/rbac"

// CanAccess reports whether a holder of held may use a surface gated
// by required. An empty requirement is open to any authenticated
// session; otherwise holding ANY of the required ids suffices.
func CanAccess(required, held []int64) bool {
	return rbac.CanAccess(required, held)
}

// NavEntry is one navigation item. Entries with submenus act as
// groups; leaf entries carry a path.
type NavEntry struct {
	Label    string
	Path     string
	Required []int64
	Submenu  []NavEntry
}

// BuildNav filters entries against the held permission set. Submenu
// entries are filtered independently; a group survives only while it
// still has a visible submenu or meets its own requirement.
func BuildNav(entries []NavEntry, held []int64) []NavEntry {
	var out []NavEntry
	for _, e := range entries {
		visible := CanAccess(e.Required, held)
		if len(e.Submenu) > 0 {
			e.Submenu = BuildNav(e.Submenu, held)
			if len(e.Submenu) == 0 && !visible {
				continue
			}
			out = append(out, e)
			continue
		}
		if visible {
			out = append(out, e)
		}
	}
	return out
}
