package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// EncodeFunc converts a store into a table.
type EncodeFunc func(*Store) (*Table, error)

// ReconcileFunc rebuilds a store from a table.
type ReconcileFunc func(*Table) (*Store, error)

// LayoutInfo contains display information about a layout.
type LayoutInfo struct {
	Key     string   `json:"key"`               // "long", "wide"
	Label   string   `json:"label"`             // "Long Format"
	Aliases []string `json:"aliases,omitempty"` // alternative keys accepted on lookup
	Header  []string `json:"header"`
}

// Layout is a named tabular encoding of a store.
type Layout struct {
	Info      LayoutInfo
	Encode    EncodeFunc
	Reconcile ReconcileFunc
}

var (
	layouts   = make(map[string]Layout)
	aliases   = make(map[string]string)
	layoutsMu sync.RWMutex
)

func init() {
	RegisterLayout(Layout{
		Info: LayoutInfo{
			Key:    "long",
			Label:  "Long Format",
			Header: LongHeader(),
		},
		Encode:    EncodeLong,
		Reconcile: ReconcileLong,
	})
	RegisterLayout(Layout{
		Info: LayoutInfo{
			Key:     "wide",
			Label:   "Wide Format",
			Aliases: []string{"horizontal"},
			Header:  WideHeader(),
		},
		Encode:    EncodeWide,
		Reconcile: ReconcileWide,
	})
}

// RegisterLayout adds a layout to the registry.
// Panics if the key or one of its aliases is already taken.
func RegisterLayout(l Layout) {
	layoutsMu.Lock()
	defer layoutsMu.Unlock()

	keys := append([]string{l.Info.Key}, l.Info.Aliases...)
	for _, k := range keys {
		k = strings.ToLower(k)
		if _, exists := layouts[k]; exists {
			panic(fmt.Sprintf("layout already registered: %s", k))
		}
		if _, exists := aliases[k]; exists {
			panic(fmt.Sprintf("layout already registered: %s", k))
		}
	}

	layouts[strings.ToLower(l.Info.Key)] = l
	for _, a := range l.Info.Aliases {
		aliases[strings.ToLower(a)] = strings.ToLower(l.Info.Key)
	}
}

// GetLayout returns a layout by key or alias, case-insensitively.
func GetLayout(key string) (Layout, error) {
	layoutsMu.RLock()
	defer layoutsMu.RUnlock()

	k := strings.ToLower(strings.TrimSpace(key))
	if target, ok := aliases[k]; ok {
		k = target
	}
	l, ok := layouts[k]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %q", ErrUnknownLayout, key)
	}
	return l, nil
}

// Layouts returns all registered layouts sorted by key.
func Layouts() []LayoutInfo {
	layoutsMu.RLock()
	defer layoutsMu.RUnlock()

	result := make([]LayoutInfo, 0, len(layouts))
	for _, l := range layouts {
		result = append(result, l.Info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}
