package plugin

import (
	"sort"
	"sync"

	"ttrpgconv/internal/errs"
)

// Category buckets a plugin for discovery. Unlike the original's
// tagged-variant StaticPluginCategory (const-compatible for compile-time
// inventory submission), Go adapters self-register at process init() time,
// so Category is a plain struct — Kind plus an arbitrary sub-key such as
// the vendor format name ("roll20") or rule group ("business-rules").
type Category struct {
	Kind CategoryKind
	Key  string
}

// String renders "Kind(key)", matching the original's Display impl.
func (c Category) String() string {
	return string(c.Kind) + "(" + c.Key + ")"
}

// CategoryKind is the closed set of discovery buckets.
type CategoryKind string

const (
	CategoryInput      CategoryKind = "INPUT"
	CategoryOutput     CategoryKind = "OUTPUT"
	CategoryValidation CategoryKind = "VALIDATION"
	CategoryAsset      CategoryKind = "ASSET"
	CategoryExport     CategoryKind = "EXPORT"
	CategoryLogging    CategoryKind = "LOGGING"
	CategoryUtility    CategoryKind = "UTILITY"
)

// Registration pairs a plugin's discovery metadata with the already-built
// instance. Go has no function-pointer "factory producing a boxed Any" the
// way the original's inventory-based PluginFactory does; adapters
// construct their own instance once at init() time and register it
// directly, since there is no compile-time/runtime split to bridge.
type Registration struct {
	Info       PluginInfo
	Category   Category
	Tags       []string
	Priority   uint32
	AutoLoad   bool
	Instance   any
}

// DiscoveryStats reports discovery/registration counters, mirroring the
// original's DiscoveryStats.
type DiscoveryStats struct {
	TotalDiscovered int
	LoadedPlugins   int
	FailedLoads     int
	CategoriesFound int
	AutoLoaded      int
	FilteredOut     int
}

// DiscoveryConfig filters which registered plugins participate.
type DiscoveryConfig struct {
	AutoLoadEnabled        bool
	TagFilter              []string
	MinPriority            uint32
	MaxPluginsPerCategory  *int
	ValidatePlugins        bool
}

// DefaultDiscoveryConfig mirrors the original's DiscoveryConfig::default().
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{AutoLoadEnabled: true, ValidatePlugins: true}
}

// Registry is the discovery and lookup system for every registered plugin.
// Adapters call Register from their package init() function; there is no
// separate "discover_all" pass since Go has no compile-time inventory
// collection to scan — registration and discovery are the same event.
type Registry struct {
	mu       sync.RWMutex
	byCategory map[Category][]Registration
	config   DiscoveryConfig
	stats    DiscoveryStats
}

// NewRegistry returns an empty Registry under the given config.
func NewRegistry(config DiscoveryConfig) *Registry {
	return &Registry{
		byCategory: map[Category][]Registration{},
		config:     config,
	}
}

// global is the process-wide registry adapter packages register into via
// their init() functions, mirroring the teacher's package-level
// plugins.Providers map.
var global = NewRegistry(DefaultDiscoveryConfig())

// Global returns the process-wide plugin registry.
func Global() *Registry { return global }

// Register inserts reg into its category bucket, applying the configured
// priority and tag filters. Filtered registrations are still counted in
// stats.FilteredOut. Returns an error only when reg itself is invalid
// (empty name/version) or its name is already registered in the same
// category; filtering is not an error.
func (r *Registry) Register(reg Registration) error {
	if err := validateRegistration(reg); err != nil {
		r.mu.Lock()
		r.stats.FailedLoads++
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byCategory[reg.Category] {
		if existing.Info.Name == reg.Info.Name {
			r.stats.FailedLoads++
			return errs.InvalidInput("register_plugin", "name", "plugin "+reg.Info.Name+" is already registered in "+reg.Category.String())
		}
	}

	r.stats.TotalDiscovered++

	if r.shouldFilter(reg) {
		r.stats.FilteredOut++
		return nil
	}

	r.byCategory[reg.Category] = append(r.byCategory[reg.Category], reg)
	sort.SliceStable(r.byCategory[reg.Category], func(i, j int) bool {
		return r.byCategory[reg.Category][i].Priority < r.byCategory[reg.Category][j].Priority
	})
	r.stats.CategoriesFound = len(r.byCategory)
	r.stats.LoadedPlugins++
	return nil
}

func validateRegistration(reg Registration) error {
	if reg.Info.Name == "" {
		return errs.InvalidInput("register_plugin", "name", "plugin name cannot be empty")
	}
	if reg.Info.Version == "" {
		return errs.InvalidInput("register_plugin", "version", "plugin version cannot be empty")
	}
	return nil
}

func (r *Registry) shouldFilter(reg Registration) bool {
	if reg.Priority < r.config.MinPriority {
		return true
	}
	if len(r.config.TagFilter) > 0 {
		matched := false
		for _, tag := range reg.Tags {
			if contains(r.config.TagFilter, tag) {
				matched = true
				break
			}
		}
		if !matched {
			return true
		}
	}
	return false
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// ByCategory returns the priority-ordered registrations in category.
func (r *Registry) ByCategory(category Category) []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Registration, len(r.byCategory[category]))
	copy(out, r.byCategory[category])
	return out
}

// ByTags returns every registration carrying at least one of tags, sorted
// by ascending priority. O(n) over all registered plugins.
func (r *Registry) ByTags(tags []string) []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Registration
	for _, regs := range r.byCategory {
		for _, reg := range regs {
			for _, tag := range reg.Tags {
				if contains(tags, tag) {
					matched = append(matched, reg)
					break
				}
			}
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Priority < matched[j].Priority })
	return matched
}

// Find does a linear scan across all buckets for a plugin by name.
// Registry sizes are small (O(10^2)) so this is never the bottleneck.
func (r *Registry) Find(name string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, regs := range r.byCategory {
		for _, reg := range regs {
			if reg.Info.Name == name {
				return reg, true
			}
		}
	}
	return Registration{}, false
}

// Categories returns every category with at least one registration.
func (r *Registry) Categories() []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, 0, len(r.byCategory))
	for c := range r.byCategory {
		out = append(out, c)
	}
	return out
}

// AutoLoad returns the priority-ordered subsequence of registrations with
// AutoLoad=true, or nil if auto-loading is disabled in config.
func (r *Registry) AutoLoad() []Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.config.AutoLoadEnabled {
		return nil
	}

	var autoLoaded []Registration
	for _, regs := range r.byCategory {
		for _, reg := range regs {
			if reg.AutoLoad {
				autoLoaded = append(autoLoaded, reg)
			}
		}
	}
	sort.SliceStable(autoLoaded, func(i, j int) bool { return autoLoaded[i].Priority < autoLoaded[j].Priority })
	r.stats.AutoLoaded = len(autoLoaded)
	return autoLoaded
}

// ValidateDependencies logs-worthy (non-fatal) check: for each name in
// reg.Info.Dependencies not found in the registry, the caller should emit
// a warning. The registry itself never excludes a plugin over this —
// returns the list of unresolved dependency names.
func (r *Registry) ValidateDependencies(reg Registration) []string {
	var unresolved []string
	for _, dep := range reg.Info.Dependencies {
		if _, ok := r.Find(dep); !ok {
			unresolved = append(unresolved, dep)
		}
	}
	return unresolved
}

// Stats returns a snapshot of discovery counters.
func (r *Registry) Stats() DiscoveryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

// ListAll returns every registration, sorted by category then priority,
// mirroring the original's list_all_plugins.
func (r *Registry) ListAll() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []Registration
	for _, regs := range r.byCategory {
		all = append(all, regs...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Category.String() != all[j].Category.String() {
			return all[i].Category.String() < all[j].Category.String()
		}
		return all[i].Priority < all[j].Priority
	})
	return all
}
