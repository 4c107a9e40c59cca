package ingest

import (
	"sort"
	"strings"

	"matterdesk/api/internal/matter"
)

// ProvisionOwners creates an owner entry for every name the candidate
// records reference that has no existing owner (matched case-insensitively).
// Names come from the Owner field, falling back to Legal, and are visited in
// sorted order so creation is deterministic. New owners start with an empty
// job title and function; created reports whether anything was added.
//
// This runs against the full candidate batch, before duplicates are weeded
// out, so a name referenced only by a record that is later skipped still
// gets an owner. That side effect is accepted and not rolled back.
func ProvisionOwners(existing []matter.Owner, candidates []matter.Matter, newID func() string) (owners []matter.Owner, created bool) {
	names := make(map[string]struct{})
	for _, c := range candidates {
		name := strings.TrimSpace(c.Owner)
		if name == "" {
			name = strings.TrimSpace(c.Legal)
		}
		if name != "" {
			names[name] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	owners = append(owners, existing...)
	for _, name := range sorted {
		if findOwnerByName(owners, name) >= 0 {
			continue
		}
		owners = append(owners, matter.Owner{ID: newID(), Name: name})
		created = true
	}
	return owners, created
}

func findOwnerByName(owners []matter.Owner, name string) int {
	target := strings.ToLower(strings.TrimSpace(name))
	for i := range owners {
		if strings.ToLower(strings.TrimSpace(owners[i].Name)) == target {
			return i
		}
	}
	return -1
}
