package models

import "strings"

// ReservedKeyPrefix starts every local storage key that holds client
// bookkeeping rather than module data. No module may be named with it.
const ReservedKeyPrefix = "_meta."

// ModuleName identifies one domain module inside a [Snapshot]. Every module
// name doubles as the local storage key the module's data is persisted under.
type ModuleName string

const (
	ModuleHabits            ModuleName = "habits"
	ModuleTasks             ModuleName = "tasks"
	ModuleGoals             ModuleName = "goals"
	ModuleJournal           ModuleName = "journal"
	ModuleVisionBoard       ModuleName = "visionBoard"
	ModuleReports           ModuleName = "reports"
	ModuleTimeBlocks        ModuleName = "timeBlocks"
	ModuleFinance           ModuleName = "finance"
	ModuleMeals             ModuleName = "meals"
	ModuleSleep             ModuleName = "sleep"
	ModuleReligiousPractice ModuleName = "religiousPractice"
	ModuleThemes            ModuleName = "themes"
	ModuleSettings          ModuleName = "settings"
	ModuleCategories        ModuleName = "categories"
)

// AllModules returns every module known to this client version in a stable
// order. A fresh slice is returned on each call.
func AllModules() []ModuleName {
	return []ModuleName{
		ModuleHabits,
		ModuleTasks,
		ModuleGoals,
		ModuleJournal,
		ModuleVisionBoard,
		ModuleReports,
		ModuleTimeBlocks,
		ModuleFinance,
		ModuleMeals,
		ModuleSleep,
		ModuleReligiousPractice,
		ModuleThemes,
		ModuleSettings,
		ModuleCategories,
	}
}

// IsKnown reports whether m is one of [AllModules].
func (m ModuleName) IsKnown() bool {
	for _, known := range AllModules() {
		if m == known {
			return true
		}
	}
	return false
}

// IsReserved reports whether m collides with the client's bookkeeping keys.
func (m ModuleName) IsReserved() bool {
	return strings.HasPrefix(string(m), ReservedKeyPrefix)
}

// StorageKey returns the local storage key that holds the module data.
func (m ModuleName) StorageKey() string {
	return string(m)
}

// DefaultModuleData returns the empty value a module starts with before the
// user has created anything: an object for settings-like modules and an
// array for list-like ones.
func DefaultModuleData(m ModuleName) any {
	switch m {
	case ModuleSettings, ModuleThemes, ModuleFinance:
		return map[string]any{}
	default:
		return []any{}
	}
}
