package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/headsup_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/headsup_bot/internal/controller/state"
	"github.com/Freeeeeet/headsup_bot/internal/headsup"
	"github.com/Freeeeeet/headsup_bot/internal/model"
	"github.com/Freeeeeet/headsup_bot/internal/service"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text     string
		wantName string
		wantArgs string
		wantOK   bool
	}{
		{"/moon_walk", "moon_walk", "", true},
		{"/Moon_Walk@headsup_bot", "moon_walk", "", true},
		{"/triad_contest Abebe, Sara", "triad_contest", "Abebe, Sara", true},
		{"/triad_contest@headsup_bot  Abebe , Sara ", "triad_contest", "Abebe , Sara", true},
		{"/triad_contest\nAbebe, Sara", "triad_contest", "Abebe, Sara", true},
		{"This is Abebe from G61", "", "", false},
		{"/", "", "", false},
		{"/@headsup_bot", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			name, args, ok := parseCommand(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestTopicRouter(t *testing.T) {
	r := NewTopicRouter(map[int]string{
		2:  "Heads Up",
		11: "g61",
		12: "G62",
	})

	group, ok := r.Group(11)
	require.True(t, ok)
	assert.Equal(t, "G61", group)

	_, ok = r.Group(2)
	assert.False(t, ok, "heads up topic is not a group")

	assert.True(t, r.IsHeadsUp(2))
	assert.False(t, r.IsHeadsUp(12))
	assert.False(t, r.IsHeadsUp(0))

	assert.True(t, r.Known(12))
	assert.False(t, r.Known(99))
}

func TestIsAdminMember(t *testing.T) {
	assert.True(t, isAdminMember(&models.ChatMember{Type: models.ChatMemberTypeOwner}))
	assert.True(t, isAdminMember(&models.ChatMember{Type: models.ChatMemberTypeAdministrator}))
	assert.False(t, isAdminMember(&models.ChatMember{Type: models.ChatMemberTypeMember}))
	assert.False(t, isAdminMember(nil))
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"Abebe Kebede", "Sara"}, splitNames(" Abebe Kebede, , Sara ,"))
	assert.Empty(t, splitNames(" , "))
}

func TestStudentOptions(t *testing.T) {
	options := studentOptions([]model.Student{{ID: 7, Name: "Sara Ali"}, {ID: 9, Name: "Hana Girma"}})
	require.Len(t, options, 2)
	assert.Equal(t, "7", options[0].ID)
	assert.Equal(t, "Sara Ali", options[0].Label)
	assert.Equal(t, "9", options[1].ID)
}

func TestOrNoActive(t *testing.T) {
	assert.Equal(t, service.ErrNoActiveStudents, orNoActive(nil))

	failure := errors.New("connection refused")
	assert.Equal(t, failure, orNoActive(failure))
}

type stubValidator struct{ result headsup.Result }

func (s stubValidator) Validate(context.Context, string) headsup.Result { return s.result }

type stubExtractor struct{ data headsup.ExtractedData }

func (s stubExtractor) Extract(context.Context, string) headsup.ExtractedData { return s.data }

type stubReconciler struct{ err error }

func (s stubReconciler) Reconcile(_ context.Context, telegramID int64, name, group, message string) (*headsup.Reconciliation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &headsup.Reconciliation{Submission: &model.HeadsUpSubmission{
		ID:          "sub-1",
		StudentName: name,
		Group:       group,
		Message:     message,
		TelegramID:  &telegramID,
	}}, nil
}

func TestHeadsUpReply(t *testing.T) {
	valid := stubValidator{result: headsup.Result{Valid: true}}
	readable := stubExtractor{data: headsup.ExtractedData{StudentName: "Abebe Kebede", Group: "G61"}}
	msg := &models.Message{ID: 5, From: &models.User{ID: 1001}, Text: "This is Abebe Kebede from G61, sick, 9am"}

	tests := []struct {
		name      string
		validator stubValidator
		extractor stubExtractor
		reconcile error
		want      string
	}{
		{
			name:      "accepted has no reply",
			validator: valid,
			extractor: readable,
			want:      "",
		},
		{
			name:      "invalid returns feedback",
			validator: stubValidator{result: headsup.Result{Feedback: "Please include the time."}},
			extractor: readable,
			want:      "Please include the time.",
		},
		{
			name:      "unreadable asks for rewrite",
			validator: valid,
			extractor: stubExtractor{},
			want:      common.ErrorMessage(service.ErrUnreadableHeadsUp),
		},
		{
			name:      "name mismatch",
			validator: valid,
			extractor: readable,
			reconcile: headsup.ErrNameMismatch,
			want:      common.ErrorMessage(headsup.ErrNameMismatch),
		},
		{
			name:      "storage failure",
			validator: valid,
			extractor: readable,
			reconcile: errors.New("connection reset"),
			want:      saveErrorText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handlers{
				headsUp: service.NewHeadsUpService(tt.validator, tt.extractor, stubReconciler{err: tt.reconcile}, zap.NewNop()),
				logger:  zap.NewNop(),
			}
			assert.Equal(t, tt.want, h.headsUpReply(context.Background(), msg))
		})
	}
}

type recordingStore struct {
	gets []state.Key
}

func (s *recordingStore) Get(_ context.Context, key state.Key) (*state.Pending, error) {
	s.gets = append(s.gets, key)
	return nil, nil
}

func (s *recordingStore) Set(context.Context, state.Key, *state.Pending) error { return nil }

func (s *recordingStore) Delete(context.Context, state.Key) error { return nil }

func TestHandleMessage_IgnoresUnmappedTopics(t *testing.T) {
	store := &recordingStore{}
	h := &Handlers{
		stateStore: store,
		topics:     NewTopicRouter(map[int]string{2: "Heads Up", 11: "G61"}),
		logger:     zap.NewNop(),
	}
	groupMessage := func(threadID int) *models.Update {
		return &models.Update{Message: &models.Message{
			ID:              1,
			MessageThreadID: threadID,
			Chat:            models.Chat{ID: -100500, Type: models.ChatTypeSupergroup},
			From:            &models.User{ID: 42},
			Text:            "https://leetcode.com/problems/two-sum/",
		}}
	}

	h.HandleMessage(context.Background(), nil, groupMessage(99))
	assert.Empty(t, store.gets, "unmapped topic is ignored")

	h.HandleMessage(context.Background(), nil, groupMessage(11))
	require.Len(t, store.gets, 1)
	assert.Equal(t, state.Key{ChatID: -100500, UserID: 42}, store.gets[0])
}
