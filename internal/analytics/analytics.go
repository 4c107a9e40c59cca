// Package analytics computes the dashboard-facing summaries from the full
// matter set. Every function is pure and recomputes from scratch on each
// call; nothing here is cached or persisted.
package analytics

import (
	"math"
	"sort"
	"strings"

	"matterdesk/api/internal/ingest"
	"matterdesk/api/internal/matter"
)

// StageBreakdown pairs stage labels with open-matter counts, labels in
// first-encountered order.
type StageBreakdown struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
}

// DaySplit is the average split of elapsed days between legal and the
// stakeholder side, over the currently open matters.
type DaySplit struct {
	AvgLegalDays       float64 `json:"avgLegalDays"`
	AvgStakeholderDays float64 `json:"avgStakeholderDays"`
}

// MonthlySeries carries aligned per-month arrays keyed by receipt month.
// RollingOpen is the cumulative net of new minus closed across months; it is
// an intake approximation by receipt month, not a point-in-time open count,
// and that semantic is part of the contract.
type MonthlySeries struct {
	Months      []string `json:"months"`
	NewCount    []int    `json:"newCount"`
	ClosedCount []int    `json:"closedCount"`
	RollingOpen []int    `json:"rollingOpen"`
}

// CycleTimeSeries carries per-receipt-month averages, rounded to 2 decimals.
type CycleTimeSeries struct {
	Months             []string  `json:"months"`
	AvgLegalDays       []float64 `json:"avgLegalDays"`
	AvgStakeholderDays []float64 `json:"avgStakeholderDays"`
	AvgTotalDays       []float64 `json:"avgTotalDays"`
}

// OwnerRow is one line of the open-workload table.
type OwnerRow struct {
	Owner           string `json:"owner"`
	Total           int    `json:"total"`
	WithLegal       int    `json:"withLegal"`
	WithStakeholder int    `json:"withStakeholder"`
}

// Dashboard bundles everything a dashboard read needs.
type Dashboard struct {
	Total           int             `json:"total"`
	OpenCount       int             `json:"openCount"`
	ClosedCount     int             `json:"closedCount"`
	StageCounts     map[string]int  `json:"stageCounts"`
	OpenByStage     StageBreakdown  `json:"openByStage"`
	DaySplit        DaySplit        `json:"daySplit"`
	MonthlyCounts   MonthlySeries   `json:"monthlyCounts"`
	MonthlyCycle    CycleTimeSeries `json:"monthlyCycleTimeAverages"`
	OwnerTable      []OwnerRow      `json:"ownerTable"`
	RecentMatters   []matter.Matter `json:"recentMatters"`
}

// StageCounts tallies every matter by stage regardless of status, with empty
// stages grouped under "Unspecified".
func StageCounts(matters []matter.Matter) map[string]int {
	counts := make(map[string]int)
	for i := range matters {
		stage := matters[i].Stage
		if stage == "" {
			stage = "Unspecified"
		}
		counts[stage]++
	}
	return counts
}

func isOpen(m *matter.Matter) bool {
	return strings.EqualFold(strings.TrimSpace(m.OverallStatus), "open")
}

func openSubset(matters []matter.Matter) []matter.Matter {
	var open []matter.Matter
	for i := range matters {
		if isOpen(&matters[i]) {
			open = append(open, matters[i])
		}
	}
	return open
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// OpenByStage counts open matters per stage, empty stages bucketed as
// "Unspecified".
func OpenByStage(matters []matter.Matter) StageBreakdown {
	var out StageBreakdown
	index := make(map[string]int)
	for _, m := range openSubset(matters) {
		stage := m.Stage
		if stage == "" {
			stage = "Unspecified"
		}
		i, ok := index[stage]
		if !ok {
			i = len(out.Labels)
			index[stage] = i
			out.Labels = append(out.Labels, stage)
			out.Counts = append(out.Counts, 0)
		}
		out.Counts[i]++
	}
	return out
}

// LegalVsStakeholderAvg averages the day split over the open subset.
func LegalVsStakeholderAvg(matters []matter.Matter) DaySplit {
	open := openSubset(matters)
	if len(open) == 0 {
		return DaySplit{}
	}
	var legal, stakeholder int
	for _, m := range open {
		legal += m.DaysWithLegal
		stakeholder += maxInt(m.TotalCycleTime-m.DaysWithLegal, 0)
	}
	n := float64(len(open))
	return DaySplit{
		AvgLegalDays:       round2(float64(legal) / n),
		AvgStakeholderDays: round2(float64(stakeholder) / n),
	}
}

// monthKey is the YYYY-MM prefix of an ISO date; records without a receipt
// date are excluded from monthly bucketing.
func monthKey(dateReceived string) string {
	if len(dateReceived) < 7 {
		return ""
	}
	return dateReceived[:7]
}

// MonthlyCounts buckets matters by receipt month. A matter counts as closed
// in its receipt month when its status satisfies ingest.IsClosedStatus.
func MonthlyCounts(matters []matter.Matter) MonthlySeries {
	newByMonth := make(map[string]int)
	closedByMonth := make(map[string]int)
	for i := range matters {
		mk := monthKey(matters[i].DateReceived)
		if mk == "" {
			continue
		}
		newByMonth[mk]++
		if ingest.IsClosedStatus(matters[i].OverallStatus) {
			closedByMonth[mk]++
		}
	}

	months := sortedKeys(newByMonth)
	out := MonthlySeries{Months: months}
	running := 0
	for _, mk := range months {
		n := newByMonth[mk]
		c := closedByMonth[mk]
		running += n - c
		out.NewCount = append(out.NewCount, n)
		out.ClosedCount = append(out.ClosedCount, c)
		out.RollingOpen = append(out.RollingOpen, running)
	}
	return out
}

// MonthlyCycleTimeAverages averages the day-split figures per receipt month.
func MonthlyCycleTimeAverages(matters []matter.Matter) CycleTimeSeries {
	type sums struct {
		legal, stakeholder, total, n int
	}
	buckets := make(map[string]*sums)
	for i := range matters {
		mk := monthKey(matters[i].DateReceived)
		if mk == "" {
			continue
		}
		b, ok := buckets[mk]
		if !ok {
			b = &sums{}
			buckets[mk] = b
		}
		legal := matters[i].DaysWithLegal
		total := matters[i].TotalCycleTime
		b.legal += legal
		b.stakeholder += maxInt(total-legal, 0)
		b.total += total
		b.n++
	}

	months := make([]string, 0, len(buckets))
	for mk := range buckets {
		months = append(months, mk)
	}
	sort.Strings(months)

	out := CycleTimeSeries{Months: months}
	for _, mk := range months {
		b := buckets[mk]
		n := float64(b.n)
		out.AvgLegalDays = append(out.AvgLegalDays, round2(float64(b.legal)/n))
		out.AvgStakeholderDays = append(out.AvgStakeholderDays, round2(float64(b.stakeholder)/n))
		out.AvgTotalDays = append(out.AvgTotalDays, round2(float64(b.total)/n))
	}
	return out
}

// legalStageMarkers classify a stage as sitting with legal rather than with
// the stakeholder side.
var legalStageMarkers = []string{"received", "review", "draft", "comments", "legal"}

// StageBucket classifies free-text stage values into "Legal" or
// "Stakeholder/Other" for the workload table.
func StageBucket(stage string) string {
	s := strings.ToLower(stage)
	for _, marker := range legalStageMarkers {
		if strings.Contains(s, marker) {
			return "Legal"
		}
	}
	return "Stakeholder/Other"
}

// OwnerTable builds the open-workload table: one row per owner (falling back
// to Legal, then "Unassigned") with total and per-bucket counts, sorted by
// total descending and owner name ascending case-insensitively.
func OwnerTable(matters []matter.Matter) []OwnerRow {
	index := make(map[string]int)
	var rows []OwnerRow
	for _, m := range openSubset(matters) {
		owner := strings.TrimSpace(m.Owner)
		if owner == "" {
			owner = strings.TrimSpace(m.Legal)
		}
		if owner == "" {
			owner = "Unassigned"
		}
		i, ok := index[owner]
		if !ok {
			i = len(rows)
			index[owner] = i
			rows = append(rows, OwnerRow{Owner: owner})
		}
		rows[i].Total++
		if StageBucket(m.Stage) == "Legal" {
			rows[i].WithLegal++
		} else {
			rows[i].WithStakeholder++
		}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].Total != rows[b].Total {
			return rows[a].Total > rows[b].Total
		}
		return strings.ToLower(rows[a].Owner) < strings.ToLower(rows[b].Owner)
	})
	return rows
}

// Compute assembles the full dashboard payload, including the headline
// totals and a short preview slice of matters.
func Compute(matters []matter.Matter) Dashboard {
	d := Dashboard{
		Total:         len(matters),
		StageCounts:   StageCounts(matters),
		OpenByStage:   OpenByStage(matters),
		DaySplit:      LegalVsStakeholderAvg(matters),
		MonthlyCounts: MonthlyCounts(matters),
		MonthlyCycle:  MonthlyCycleTimeAverages(matters),
		OwnerTable:    OwnerTable(matters),
	}
	for i := range matters {
		if isOpen(&matters[i]) {
			d.OpenCount++
		} else if strings.EqualFold(strings.TrimSpace(matters[i].OverallStatus), "closed") {
			d.ClosedCount++
		}
	}
	preview := len(matters)
	if preview > 5 {
		preview = 5
	}
	d.RecentMatters = append([]matter.Matter{}, matters[:preview]...)
	return d
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
