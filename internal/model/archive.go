package model

// RootSystemPath is the canonical archive entry holding the root system.
const RootSystemPath = "simulink/systems/system_root.xml"

// Archive is a complete interchange package: an ordered list of entries as
// they appeared in the zip container. System entries are held as typed
// models and regenerated on write; everything else is preserved verbatim.
type Archive struct {
	Entries []*Entry
}

// Entry is one archive member. Exactly one of Raw and System is set:
// System for entries matching the system-file naming convention, Raw for
// everything else. Compressed records whether the original entry was
// deflated, so writes reproduce the container's per-entry method.
type Entry struct {
	Path       string
	Raw        []byte
	System     *System
	Compressed bool
}

// System returns the typed system stored at path, or nil.
func (a *Archive) System(path string) *System {
	for _, e := range a.Entries {
		if e.Path == path {
			return e.System
		}
	}
	return nil
}

// SetSystem replaces the typed system stored at path. It returns false when
// no system entry with that path exists.
func (a *Archive) SetSystem(path string, sys *System) bool {
	for _, e := range a.Entries {
		if e.Path == path && e.System != nil {
			e.System = sys
			return true
		}
	}
	return false
}

// RootSystem returns the system of the canonical root entry, or nil.
func (a *Archive) RootSystem() *System {
	return a.System(RootSystemPath)
}

// EntryPaths lists all entry paths in archive order.
func (a *Archive) EntryPaths() []string {
	out := make([]string, len(a.Entries))
	for i, e := range a.Entries {
		out[i] = e.Path
	}
	return out
}
