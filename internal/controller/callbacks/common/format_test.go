package common

import (
	"testing"
	"time"

	"github.com/Freeeeeet/headsup_bot/internal/model"
	"github.com/Freeeeeet/headsup_bot/internal/service"
	"github.com/stretchr/testify/assert"
)

func member(name string) model.SessionMember {
	return model.SessionMember{Name: name, Group: "G61"}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abebe kebede", "Abebe Kebede"},
		{"abebe kebede tesfaye", "Abebe Kebede"},
		{"  sara   ali ", "Sara Ali"},
		{"McDonald smith", "McDonald Smith"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayName(tt.in), tt.in)
	}
}

func TestFormatPair(t *testing.T) {
	assert.Equal(t, "Abebe Kebede 🧑‍💻 Sara Ali", FormatPair([]model.SessionMember{member("abebe kebede"), member("Sara Ali")}))
	assert.Equal(t, "Liya Tesfaye (unpaired)", FormatPair([]model.SessionMember{member("liya tesfaye")}))
	assert.Equal(t, "Tom &amp; Jerry (unpaired)", FormatPair([]model.SessionMember{member("Tom & Jerry")}))
}

func TestFormatSession_MoonWalk(t *testing.T) {
	s := &model.Session{
		Type:  model.SessionTypeMoonWalk,
		Group: "G61",
		Pairs: [][]model.SessionMember{
			{member("Abebe Kebede"), member("Sara Ali")},
			{member("Liya Tesfaye")},
		},
	}

	text := FormatSession(s)
	assert.Contains(t, text, "<b>Moon Walk Session</b>")
	assert.Contains(t, text, "<b>Group:</b> G61")
	assert.Contains(t, text, "Abebe Kebede 🧑‍💻 Sara Ali\n")
	assert.Contains(t, text, "Liya Tesfaye (unpaired)")
	assert.Contains(t, text, MoonWalkInstruction)
}

func TestFormatSession_PairProgramming(t *testing.T) {
	s := &model.Session{
		Type:  model.SessionTypePairProgramming,
		Group: "G62",
		Pairs: [][]model.SessionMember{{member("Abebe Kebede"), member("Sara Ali")}},
		Questions: []model.Question{
			{Title: "Two Sum", Link: "https://leetcode.com/problems/two-sum/", Difficulty: "Easy"},
		},
	}

	text := FormatSession(s)
	assert.Contains(t, text, "<b>Pair Programming Session</b>")
	assert.Contains(t, text, `- <a href="https://leetcode.com/problems/two-sum/">Two Sum</a> (Easy)`)
	assert.NotContains(t, text, MoonWalkInstruction)
}

func TestFormatSession_Grouping(t *testing.T) {
	s := &model.Session{
		Type:  model.SessionTypeGrouping,
		Group: "G61",
		Pairs: [][]model.SessionMember{
			{member("Abebe Kebede"), member("Sara Ali"), member("Liya Tesfaye")},
			{member("Dawit Bekele"), member("Hana Girma")},
		},
	}

	text := FormatSession(s)
	assert.Contains(t, text, "<b>Group 1:</b>\n⭐ Abebe Kebede\nSara Ali\nLiya Tesfaye")
	assert.Contains(t, text, "<b>Group 2:</b>\n⭐ Dawit Bekele\nHana Girma")
}

func TestFormatExcusedReport(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	report := &service.ExcusedReport{
		Group: "G61",
		Day:   day,
		Excused: []*model.HeadsUpSubmission{
			{StudentName: "Abebe Kebede", Message: "late, bus", SubmittedAt: time.Date(2025, 3, 10, 6, 5, 0, 0, time.UTC)},
		},
		Unexcused: []*model.HeadsUpSubmission{
			{StudentName: "Sara Ali", Message: model.AbsentWithoutHeadsUp, SubmittedAt: time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)},
		},
	}

	text := FormatExcusedReport(report, loc)
	assert.Contains(t, text, "G61 on 10 Mar 2025")
	assert.Contains(t, text, "🟢 [09:05] Abebe Kebede: late, bus")
	assert.Contains(t, text, "🔴 [10:30] Sara Ali: did not write any headsup")
	assert.Contains(t, text, "Total: 2")
}

func TestFormatExcusedReport_Empty(t *testing.T) {
	report := &service.ExcusedReport{Group: "G61", Day: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}

	text := FormatExcusedReport(report, time.UTC)
	assert.NotContains(t, text, "Excused:")
	assert.Contains(t, text, "Total: 0")
}

func TestFormatHistory(t *testing.T) {
	history := []service.StudentHistory{
		{
			Student: &model.Student{Name: "Sara Ali"},
			Submissions: []*model.HeadsUpSubmission{
				{Message: "sick", IsExcused: true, SubmittedAt: time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)},
			},
		},
		{Student: &model.Student{Name: "Abebe Kebede"}},
	}

	text := FormatHistory(history, time.UTC)
	assert.Contains(t, text, "<b>Attendance details for Sara Ali</b>")
	assert.Contains(t, text, "<b>Date:</b> 10 Mar 2025 06:00\n<b>Message:</b> sick\n<b>Excused:</b> Yes")
	assert.Contains(t, text, "<b>Attendance details for Abebe Kebede</b>\n\nNo Heads-Up submissions found.")
}

func TestFormatAbsenteesAndAttendees(t *testing.T) {
	absent := FormatAbsentees("G61", []*model.HeadsUpSubmission{{StudentName: "Sara Ali"}})
	assert.Equal(t, "<b>Absentees for G61</b>\n\n🔴 Sara Ali", absent)

	present := FormatAttendees("G61", []string{"Sara Ali", "Abebe Kebede"})
	assert.Equal(t, "<b>Now Present in G61:</b>\n\n✅ Sara Ali\n✅ Abebe Kebede", present)
}
