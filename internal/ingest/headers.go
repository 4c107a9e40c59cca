package ingest

import (
	"strings"

	"matterdesk/api/internal/matter"
)

// fieldAliases binds a canonical field to the column labels seen for it in
// real spreadsheet exports. The slice is ordered: when two fields could
// claim the same column, the earlier entry wins.
type fieldAliases struct {
	Field   string
	Aliases []string
}

var aliasTable = []fieldAliases{
	{matter.FieldRef, []string{"Ref", "Reference", "Matter", "Title"}},
	{matter.FieldDateReceived, []string{"Date Received", "Received", "Date", "Date_received"}},
	{matter.FieldGroupEntity, []string{"Group Entity", "Group", "Entity", "Group_Entity"}},
	{matter.FieldCounterparty, []string{"Counterparty", "Other Party", "Vendor", "Supplier", "Customer"}},
	{matter.FieldBranch, []string{"Branch", "Site", "Location"}},
	{matter.FieldLegal, []string{"Legal", "Lawyer", "Handler"}},
	{matter.FieldInternalDept, []string{"Internal Dept", "Department", "Internal Department", "Dept"}},
	{matter.FieldContractType, []string{"Contract Type", "Type"}},
	{matter.FieldContractName, []string{"Contract Name", "Agreement", "Name"}},
	{matter.FieldInternalStakeholder, []string{"Internal Stakeholder", "Stakeholder", "Requester", "Requestor"}},
	{matter.FieldWhoWith, []string{"Who With", "With", "Counterparty Contact"}},
	{matter.FieldStage, []string{"Stage", "Phase", "Step"}},
	{matter.FieldOverallStatus, []string{"Overall Status", "Status"}},
	{matter.FieldDateClosed, []string{"Date Closed", "Closed", "Date_Closed", "Date Completed", "Completion Date"}},
	{matter.FieldCommentary, []string{"Commentary", "Notes", "Comments", "Summary"}},
	{matter.FieldDaysWithLegal, []string{"Days with Legal", "Days_with_Legal", "Days With Legal"}},
	{matter.FieldTotalCycleTime, []string{"Total Cycle Time", "Total_Cycle_Time", "Cycle Time"}},
	{matter.FieldOwner, []string{"Owner", "Matter Owner", "Assigned To", "Assignee", "Legal"}},
}

// Squash lowercases a label and strips everything that is not a letter or
// digit, so "Days_with_Legal", "days with legal" and "DaysWithLegal" all
// collapse to the same token.
func Squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ReconcileHeaders maps source column labels onto canonical fields. Exact
// alias matches (case-insensitive, trimmed) are taken first in table order;
// columns still unmapped are retried with squashed comparison. Columns that
// match nothing are dropped from the mapping. Several columns may map to the
// same field; the builder lets the last written value win.
func ReconcileHeaders(columns []string) map[string]string {
	mapping := make(map[string]string)

	trimmed := make([]string, len(columns))
	for i, c := range columns {
		trimmed[i] = strings.TrimSpace(c)
	}

	for _, entry := range aliasTable {
		lowAliases := make(map[string]struct{}, len(entry.Aliases))
		for _, a := range entry.Aliases {
			lowAliases[strings.ToLower(a)] = struct{}{}
		}
		for i, c := range trimmed {
			if _, mapped := mapping[columns[i]]; mapped {
				continue
			}
			if _, ok := lowAliases[strings.ToLower(c)]; ok {
				mapping[columns[i]] = entry.Field
			}
		}
	}

	for _, col := range columns {
		if _, mapped := mapping[col]; mapped {
			continue
		}
		squashed := Squash(col)
		if squashed == "" {
			continue
		}
		for _, entry := range aliasTable {
			if matchesSquashed(entry, squashed) {
				mapping[col] = entry.Field
				break
			}
		}
	}

	return mapping
}

func matchesSquashed(entry fieldAliases, squashed string) bool {
	if Squash(entry.Field) == squashed {
		return true
	}
	for _, a := range entry.Aliases {
		if Squash(a) == squashed {
			return true
		}
	}
	return false
}
