package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/headsup_bot/internal/grouping"
	"github.com/Freeeeeet/headsup_bot/internal/headsup"
	"github.com/Freeeeeet/headsup_bot/internal/metrics"
	"github.com/Freeeeeet/headsup_bot/internal/model"
	"go.uber.org/zap"
)

var (
	ErrNoActiveStudents = errors.New("no active students in group")
	ErrNoQuestions      = errors.New("no questions provided")
)

// ActiveRoster источник студентов, присутствующих сегодня
type ActiveRoster interface {
	ActiveStudents(ctx context.Context, group string) ([]model.Student, error)
}

// TriadResult сессия и имена лидеров, которых не нашли среди присутствующих
type TriadResult struct {
	Session   *model.Session
	Unmatched []string
}

// SessionService запускает групповые активности и сохраняет их в журнал
type SessionService struct {
	roster      ActiveRoster
	sessions    SessionStore
	partitioner *grouping.Partitioner
	matcher     headsup.NameMatcher
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewSessionService(
	roster ActiveRoster,
	sessions SessionStore,
	partitioner *grouping.Partitioner,
	matcher headsup.NameMatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		roster:      roster,
		sessions:    sessions,
		partitioner: partitioner,
		matcher:     matcher,
		metrics:     m,
		logger:      logger,
	}
}

// MoonWalk случайные пары для разговорной практики
func (s *SessionService) MoonWalk(ctx context.Context, group string) (*model.Session, error) {
	active, err := s.active(ctx, group)
	if err != nil {
		return nil, err
	}

	return s.save(ctx, model.SessionTypeMoonWalk, group, s.partitioner.PairAll(active), nil)
}

// PairProgramming случайные пары и список задач
func (s *SessionService) PairProgramming(ctx context.Context, group string, questions []model.Question) (*model.Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	active, err := s.active(ctx, group)
	if err != nil {
		return nil, err
	}

	return s.save(ctx, model.SessionTypePairProgramming, group, s.partitioner.PairAll(active), questions)
}

// Grouping распределяет присутствующих по выбранным лидерам
func (s *SessionService) Grouping(ctx context.Context, group string, leaderIDs []int64) (*model.Session, error) {
	active, err := s.active(ctx, group)
	if err != nil {
		return nil, err
	}

	isLeader := make(map[int64]bool, len(leaderIDs))
	for _, id := range leaderIDs {
		isLeader[id] = true
	}

	var leaders, remaining []model.Student
	for _, st := range active {
		if isLeader[st.ID] {
			leaders = append(leaders, st)
		} else {
			remaining = append(remaining, st)
		}
	}

	buckets, err := s.partitioner.DistributeRoundRobin(leaders, remaining)
	if err != nil {
		return nil, err
	}

	return s.save(ctx, model.SessionTypeGrouping, group, buckets, nil)
}

// TriadContest находит лидеров по именам и даёт каждому по два участника
func (s *SessionService) TriadContest(ctx context.Context, group string, leaderNames []string) (*TriadResult, error) {
	active, err := s.active(ctx, group)
	if err != nil {
		return nil, err
	}

	chosen := make(map[int64]bool)
	var leaders []model.Student
	var unmatched []string
	for _, name := range leaderNames {
		found := false
		for _, st := range active {
			if s.matcher.Matches(st.Name, name) {
				found = true
				if !chosen[st.ID] {
					chosen[st.ID] = true
					leaders = append(leaders, st)
				}
				break
			}
		}
		if !found {
			unmatched = append(unmatched, name)
		}
	}

	var remaining []model.Student
	for _, st := range active {
		if !chosen[st.ID] {
			remaining = append(remaining, st)
		}
	}

	buckets, err := s.partitioner.FormTriads(leaders, remaining)
	if err != nil {
		return &TriadResult{Unmatched: unmatched}, err
	}

	session, err := s.save(ctx, model.SessionTypeTriadContest, group, buckets, nil)
	if err != nil {
		return nil, err
	}

	return &TriadResult{Session: session, Unmatched: unmatched}, nil
}

func (s *SessionService) active(ctx context.Context, group string) ([]model.Student, error) {
	active, err := s.roster.ActiveStudents(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("load active students: %w", err)
	}
	if len(active) == 0 {
		return nil, ErrNoActiveStudents
	}
	return active, nil
}

func (s *SessionService) save(
	ctx context.Context,
	sessionType model.SessionType,
	group string,
	buckets [][]model.Student,
	questions []model.Question,
) (*model.Session, error) {
	session := &model.Session{
		Type:      sessionType,
		Group:     group,
		Pairs:     model.NewSessionMembers(buckets),
		Questions: questions,
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.metrics.IncSession(string(sessionType))
	s.logger.Info("Session created",
		zap.String("session_id", session.ID),
		zap.String("type", string(sessionType)),
		zap.String("group", group),
		zap.Int("buckets", len(session.Pairs)),
	)

	return session, nil
}
