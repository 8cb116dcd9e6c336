package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/headsup_bot/internal/fuzzy"
	"github.com/Freeeeeet/headsup_bot/internal/grouping"
	"github.com/Freeeeeet/headsup_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRoster struct {
	students []model.Student
	err      error
}

func (s *stubRoster) ActiveStudents(context.Context, string) ([]model.Student, error) {
	return s.students, s.err
}

func roster(n int) []model.Student {
	all := []string{"Abebe Kebede", "Sara Ali", "Liya Tesfaye", "Dawit Bekele", "Hana Girma", "Meron Tadesse", "Samuel Haile"}
	out := make([]model.Student, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Student{ID: int64(i + 1), Name: all[i], Group: "G61"})
	}
	return out
}

func newSessionService(r ActiveRoster, sessions *mockSessionRepo) *SessionService {
	return NewSessionService(r, sessions, grouping.NewSeededPartitioner(1), fuzzy.NewMatcher(fuzzy.DefaultThreshold), nil, zap.NewNop())
}

func memberCount(s *model.Session) int {
	n := 0
	for _, p := range s.Pairs {
		n += len(p)
	}
	return n
}

func TestSessionService_MoonWalk(t *testing.T) {
	sessions := &mockSessionRepo{}
	svc := newSessionService(&stubRoster{students: roster(5)}, sessions)

	session, err := svc.MoonWalk(context.Background(), "G61")
	require.NoError(t, err)

	assert.Equal(t, model.SessionTypeMoonWalk, session.Type)
	assert.Equal(t, "G61", session.Group)
	assert.Len(t, session.Pairs, 3)
	assert.Equal(t, 5, memberCount(session))
	assert.Empty(t, session.Questions)
	require.Len(t, sessions.saved, 1)
	assert.NotEmpty(t, session.ID)
}

func TestSessionService_NoActiveStudents(t *testing.T) {
	sessions := &mockSessionRepo{}
	svc := newSessionService(&stubRoster{}, sessions)

	_, err := svc.MoonWalk(context.Background(), "G61")
	assert.ErrorIs(t, err, ErrNoActiveStudents)
	assert.Empty(t, sessions.saved)
}

func TestSessionService_PairProgramming(t *testing.T) {
	sessions := &mockSessionRepo{}
	svc := newSessionService(&stubRoster{students: roster(4)}, sessions)
	questions := ParseQuestions("https://leetcode.com/problems/two-sum/")

	session, err := svc.PairProgramming(context.Background(), "G61", questions)
	require.NoError(t, err)
	assert.Equal(t, model.SessionTypePairProgramming, session.Type)
	assert.Equal(t, questions, session.Questions)
	assert.Len(t, session.Pairs, 2)

	_, err = svc.PairProgramming(context.Background(), "G61", nil)
	assert.ErrorIs(t, err, ErrNoQuestions)
	assert.Len(t, sessions.saved, 1)
}

func TestSessionService_Grouping(t *testing.T) {
	sessions := &mockSessionRepo{}
	svc := newSessionService(&stubRoster{students: roster(7)}, sessions)

	session, err := svc.Grouping(context.Background(), "G61", []int64{2, 5})
	require.NoError(t, err)
	require.Len(t, session.Pairs, 2)
	assert.Equal(t, "Sara Ali", session.Pairs[0][0].Name)
	assert.Equal(t, "Hana Girma", session.Pairs[1][0].Name)
	assert.Equal(t, 7, memberCount(session))

	_, err = svc.Grouping(context.Background(), "G61", nil)
	assert.ErrorIs(t, err, grouping.ErrNoLeaders)
}

func TestSessionService_TriadContest(t *testing.T) {
	sessions := &mockSessionRepo{}
	svc := newSessionService(&stubRoster{students: roster(7)}, sessions)

	res, err := svc.TriadContest(context.Background(), "G61", []string{"kebede abebe", "Sara Ali", "Nobody Known"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Nobody Known"}, res.Unmatched)
	require.Len(t, res.Session.Pairs, 2)
	assert.Equal(t, "Abebe Kebede", res.Session.Pairs[0][0].Name)
	assert.Len(t, res.Session.Pairs[0], 4)
	assert.Len(t, res.Session.Pairs[1], 3)
}

func TestSessionService_TriadContestInsufficientCreatesNoSession(t *testing.T) {
	sessions := &mockSessionRepo{}
	svc := newSessionService(&stubRoster{students: roster(3)}, sessions)

	res, err := svc.TriadContest(context.Background(), "G61", []string{"Abebe Kebede", "Sara Ali"})
	assert.ErrorIs(t, err, grouping.ErrInsufficientStudents)
	require.NotNil(t, res)
	assert.Nil(t, res.Session)
	assert.Empty(t, sessions.saved)
}

func TestSessionService_SaveError(t *testing.T) {
	sessions := &mockSessionRepo{err: errors.New("db down")}
	svc := newSessionService(&stubRoster{students: roster(2)}, sessions)

	_, err := svc.MoonWalk(context.Background(), "G61")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoActiveStudents)
}
