package record

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrSourceUnavailable is returned by a TabularSource when a named tab does not exist.
var ErrSourceUnavailable = errors.New("tab not available")

// TabularSource reads every cell value of a named tab.
type TabularSource interface {
	Rows(ctx context.Context, tab string) ([][]string, error)
}

// Tabs names the spreadsheet tabs the homeroom collector reads.
type Tabs struct {
	Homeroom     string `mapstructure:"homeroom" validate:"required"`
	Roles        string `mapstructure:"roles"`
	TargetSchool string `mapstructure:"target_school"`
	AutoSummary  string `mapstructure:"auto_summary"`
}

// DefaultTabs matches the layout of the class spreadsheet.
var DefaultTabs = Tabs{
	Homeroom:     "생기부data",
	Roles:        "1인 1역",
	TargetSchool: "진학희망교",
	AutoSummary:  "자율 종합(Random)",
}

// HomeroomInput is the raw material for one student's homeroom areas.
type HomeroomInput struct {
	Name         string
	Dream        string
	Major        string
	CareerRaw    string
	BehaviorRaw  string
	Role         string
	TargetSchool string
	TargetNote   string
	AutoContent  string
}

// HomeroomData is the collected input in sheet row order. Missing lists the
// optional tabs that were not found.
type HomeroomData struct {
	Students []HomeroomInput
	Missing  []string
}

// Fixed column offsets of the class spreadsheet.
const (
	homeroomMinCols = 42
	homeroomName    = 1
	homeroomDream   = 2
	homeroomMajor   = 13
	homeroomCareer  = 35
	homeroomBehave  = 41

	targetMinCols = 16
	targetName    = 2
	targetSchool  = 7
	targetNote    = 15

	autoMinCols  = 10
	autoName     = 8
	autoContents = 9
)

// CollectHomeroom gathers homeroom input. The homeroom tab is mandatory;
// roles, target school and auto summary tabs are optional and recorded in
// Missing when absent.
func CollectHomeroom(ctx context.Context, src TabularSource, tabs Tabs) (HomeroomData, error) {
	var data HomeroomData

	roles := RoleMap{}
	if grid, ok, err := optionalRows(ctx, src, tabs.Roles); err != nil {
		return data, err
	} else if ok {
		roles = ScanRoles(grid)
	} else {
		data.missing(tabs.Roles)
	}

	rows, err := src.Rows(ctx, tabs.Homeroom)
	if err != nil {
		return data, fmt.Errorf("read %s: %w", tabs.Homeroom, err)
	}
	index := map[string]int{}
	for _, row := range skip(rows, 2) {
		if len(row) < homeroomMinCols {
			continue
		}
		name := NormalizeName(row[homeroomName])
		if name == "" {
			continue
		}
		in := HomeroomInput{
			Name:        name,
			Dream:       row[homeroomDream],
			Major:       row[homeroomMajor],
			CareerRaw:   row[homeroomCareer],
			BehaviorRaw: row[homeroomBehave],
			Role:        roles.Role(name),
		}
		if i, ok := index[name]; ok {
			data.Students[i] = in
			continue
		}
		index[name] = len(data.Students)
		data.Students = append(data.Students, in)
	}

	if rows, ok, err := optionalRows(ctx, src, tabs.TargetSchool); err != nil {
		return data, err
	} else if ok {
		for _, row := range skip(rows, 1) {
			if len(row) < targetMinCols {
				continue
			}
			if i, found := index[NormalizeName(row[targetName])]; found {
				data.Students[i].TargetSchool = row[targetSchool]
				data.Students[i].TargetNote = row[targetNote]
			}
		}
	} else {
		data.missing(tabs.TargetSchool)
	}

	if rows, ok, err := optionalRows(ctx, src, tabs.AutoSummary); err != nil {
		return data, err
	} else if ok {
		for _, row := range skip(rows, 1) {
			if len(row) < autoMinCols {
				continue
			}
			if i, found := index[NormalizeName(row[autoName])]; found {
				data.Students[i].AutoContent = row[autoContents]
			}
		}
	} else {
		data.missing(tabs.AutoSummary)
	}

	return data, nil
}

// optionalRows reads an auxiliary tab. ok is false when the tab is not
// configured or does not exist; any other failure is returned.
func optionalRows(ctx context.Context, src TabularSource, tab string) (rows [][]string, ok bool, err error) {
	if strings.TrimSpace(tab) == "" {
		return nil, false, nil
	}
	rows, err = src.Rows(ctx, tab)
	if errors.Is(err, ErrSourceUnavailable) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", tab, err)
	}
	return rows, true, nil
}

func (d *HomeroomData) missing(tab string) {
	if strings.TrimSpace(tab) != "" {
		d.Missing = append(d.Missing, tab)
	}
}

func skip(rows [][]string, n int) [][]string {
	if len(rows) <= n {
		return nil
	}
	return rows[n:]
}
