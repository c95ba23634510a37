package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func reg(name string, priority uint32, tags []string, autoLoad bool) Registration {
	return Registration{
		Info:     PluginInfo{Name: name, Version: "1.0.0"},
		Category: Category{Kind: CategoryInput, Key: "roll20"},
		Tags:     tags,
		Priority: priority,
		AutoLoad: autoLoad,
		Instance: struct{}{},
	}
}

func TestRegisterRejectsEmptyNameOrVersion(t *testing.T) {
	r := NewRegistry(DefaultDiscoveryConfig())

	err := r.Register(Registration{Info: PluginInfo{Name: "", Version: "1.0.0"}})
	assert.Error(t, err)

	err = r.Register(Registration{Info: PluginInfo{Name: "roll20-input", Version: ""}})
	assert.Error(t, err)
}

func TestRegisterSortsByAscendingPriority(t *testing.T) {
	r := NewRegistry(DefaultDiscoveryConfig())
	assert.NoError(t, r.Register(reg("low-priority", 10, nil, false)))
	assert.NoError(t, r.Register(reg("high-priority", 1, nil, false)))
	assert.NoError(t, r.Register(reg("mid-priority", 5, nil, false)))

	bucket := r.ByCategory(Category{Kind: CategoryInput, Key: "roll20"})
	assert.Equal(t, []string{"high-priority", "mid-priority", "low-priority"}, names(bucket))
}

func TestTagFilterExcludesNonMatching(t *testing.T) {
	r := NewRegistry(DiscoveryConfig{TagFilter: []string{"stable"}})
	assert.NoError(t, r.Register(reg("experimental-plugin", 1, []string{"experimental"}, false)))
	assert.NoError(t, r.Register(reg("stable-plugin", 2, []string{"stable"}, false)))

	bucket := r.ByCategory(Category{Kind: CategoryInput, Key: "roll20"})
	assert.Equal(t, []string{"stable-plugin"}, names(bucket))
	assert.Equal(t, 1, r.Stats().FilteredOut)
}

func TestMinPriorityExcludesLowerPriority(t *testing.T) {
	r := NewRegistry(DiscoveryConfig{MinPriority: 5})
	assert.NoError(t, r.Register(reg("too-low", 1, nil, false)))
	assert.NoError(t, r.Register(reg("ok", 5, nil, false)))

	bucket := r.ByCategory(Category{Kind: CategoryInput, Key: "roll20"})
	assert.Equal(t, []string{"ok"}, names(bucket))
}

func TestFindLinearScansAllCategories(t *testing.T) {
	r := NewRegistry(DefaultDiscoveryConfig())
	assert.NoError(t, r.Register(reg("roll20-input", 1, nil, false)))

	found, ok := r.Find("roll20-input")
	assert.True(t, ok)
	assert.Equal(t, "roll20-input", found.Info.Name)

	_, ok = r.Find("missing")
	assert.False(t, ok)
}

func TestAutoLoadReturnsOnlyFlaggedSortedByPriority(t *testing.T) {
	r := NewRegistry(DefaultDiscoveryConfig())
	assert.NoError(t, r.Register(reg("auto-2", 2, nil, true)))
	assert.NoError(t, r.Register(reg("not-auto", 1, nil, false)))
	assert.NoError(t, r.Register(reg("auto-1", 1, nil, true)))

	loaded := r.AutoLoad()
	assert.Equal(t, []string{"auto-1", "auto-2"}, names(loaded))
}

func TestAutoLoadDisabledReturnsNil(t *testing.T) {
	r := NewRegistry(DiscoveryConfig{AutoLoadEnabled: false})
	assert.NoError(t, r.Register(reg("auto", 1, nil, true)))
	assert.Nil(t, r.AutoLoad())
}

func TestValidateDependenciesReportsUnresolvedWithoutFailing(t *testing.T) {
	r := NewRegistry(DefaultDiscoveryConfig())
	dependent := Registration{
		Info:     PluginInfo{Name: "foundry-output", Version: "1.0.0", Dependencies: []string{"missing-plugin"}},
		Category: Category{Kind: CategoryOutput, Key: "foundry"},
	}
	assert.NoError(t, r.Register(dependent))

	unresolved := r.ValidateDependencies(dependent)
	assert.Equal(t, []string{"missing-plugin"}, unresolved)

	// unresolved dependency is non-fatal: the plugin is still registered
	_, ok := r.Find("foundry-output")
	assert.True(t, ok)
}

func TestListAllSortsByCategoryThenPriority(t *testing.T) {
	r := NewRegistry(DefaultDiscoveryConfig())
	assert.NoError(t, r.Register(Registration{
		Info: PluginInfo{Name: "validator-b", Version: "1.0.0"}, Category: Category{Kind: CategoryValidation, Key: "business"}, Priority: 1,
	}))
	assert.NoError(t, r.Register(reg("roll20-input", 1, nil, false)))

	all := r.ListAll()
	assert.Len(t, all, 2)
	assert.Equal(t, "roll20-input", all[0].Info.Name)
}

func names(regs []Registration) []string {
	out := make([]string, len(regs))
	for i, r := range regs {
		out[i] = r.Info.Name
	}
	return out
}
