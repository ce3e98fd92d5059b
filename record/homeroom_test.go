package record

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves tabs from memory; absent tabs report ErrSourceUnavailable.
type fakeSource struct {
	tabs map[string][][]string
	errs map[string]error
}

func (f fakeSource) Rows(_ context.Context, tab string) ([][]string, error) {
	if err := f.errs[tab]; err != nil {
		return nil, err
	}
	rows, ok := f.tabs[tab]
	if !ok {
		return nil, ErrSourceUnavailable
	}
	return rows, nil
}

func row(width int, cells map[int]string) []string {
	r := make([]string, width)
	for i, v := range cells {
		r[i] = v
	}
	return r
}

func homeroomRow(name, dream, major, career, behavior string) []string {
	return row(homeroomMinCols, map[int]string{
		homeroomName:   name,
		homeroomDream:  dream,
		homeroomMajor:  major,
		homeroomCareer: career,
		homeroomBehave: behavior,
	})
}

func homeroomTab(rows ...[]string) [][]string {
	return append([][]string{{"title"}, {"header"}}, rows...)
}

func TestCollectHomeroom(t *testing.T) {
	src := fakeSource{tabs: map[string][][]string{
		DefaultTabs.Homeroom: homeroomTab(
			homeroomRow("김민수", "연구원", "화학", "실험 동아리", "성실함"),
			homeroomRow("", "skip", "", "", ""),
			[]string{"", "짧은행"},
			homeroomRow("이서연", "교사", "교육", "멘토링", "배려함"),
			homeroomRow("김민수", "약사", "약학", "약국 견학", "꼼꼼함"),
		),
		DefaultTabs.Roles: {
			{"김민수", "학습 도우미"},
		},
		DefaultTabs.TargetSchool: {
			{"header"},
			row(targetMinCols, map[int]string{targetName: "이서연", targetSchool: "한국교원대", targetNote: "수시"}),
			row(targetMinCols, map[int]string{targetName: "박하늘", targetSchool: "없는학생"}),
			{"", "", "김민수"},
		},
		DefaultTabs.AutoSummary: {
			{"header"},
			row(autoMinCols, map[int]string{autoName: "김민수", autoContents: "환경 캠페인"}),
		},
	}}

	data, err := CollectHomeroom(context.Background(), src, DefaultTabs)
	require.NoError(t, err)
	assert.Empty(t, data.Missing)
	require.Len(t, data.Students, 2)

	kim := data.Students[0]
	assert.Equal(t, HomeroomInput{
		Name:        "김민수",
		Dream:       "약사",
		Major:       "약학",
		CareerRaw:   "약국 견학",
		BehaviorRaw: "꼼꼼함",
		Role:        "학습 도우미",
		AutoContent: "환경 캠페인",
	}, kim)

	lee := data.Students[1]
	assert.Equal(t, "이서연", lee.Name)
	assert.Equal(t, DefaultRole, lee.Role)
	assert.Equal(t, "한국교원대", lee.TargetSchool)
	assert.Equal(t, "수시", lee.TargetNote)
	assert.Empty(t, lee.AutoContent)
}

func TestCollectHomeroom_OptionalTabsMissing(t *testing.T) {
	src := fakeSource{tabs: map[string][][]string{
		DefaultTabs.Homeroom: homeroomTab(homeroomRow("김민수", "연구원", "", "", "")),
	}}
	data, err := CollectHomeroom(context.Background(), src, DefaultTabs)
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultTabs.Roles, DefaultTabs.TargetSchool, DefaultTabs.AutoSummary}, data.Missing)
	require.Len(t, data.Students, 1)
	assert.Equal(t, DefaultRole, data.Students[0].Role)
}

func TestCollectHomeroom_UnconfiguredTabsAreNotMissing(t *testing.T) {
	src := fakeSource{tabs: map[string][][]string{
		"main": homeroomTab(homeroomRow("김민수", "", "", "", "")),
	}}
	data, err := CollectHomeroom(context.Background(), src, Tabs{Homeroom: "main"})
	require.NoError(t, err)
	assert.Empty(t, data.Missing)
	assert.Len(t, data.Students, 1)
}

func TestCollectHomeroom_MandatoryTab(t *testing.T) {
	_, err := CollectHomeroom(context.Background(), fakeSource{}, DefaultTabs)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Contains(t, err.Error(), DefaultTabs.Homeroom)
}

func TestCollectHomeroom_AuxiliaryError(t *testing.T) {
	boom := errors.New("quota exceeded")
	src := fakeSource{
		tabs: map[string][][]string{
			DefaultTabs.Homeroom: homeroomTab(homeroomRow("김민수", "", "", "", "")),
		},
		errs: map[string]error{DefaultTabs.TargetSchool: boom},
	}
	_, err := CollectHomeroom(context.Background(), src, DefaultTabs)
	assert.ErrorIs(t, err, boom)
}
