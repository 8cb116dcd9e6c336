package handlers

import (
	"strings"

	"github.com/Freeeeeet/headsup_bot/internal/config"
)

// TopicRouter сопоставляет message_thread_id с группой или топиком heads-up
type TopicRouter struct {
	groups  map[int]string
	headsUp map[int]bool
}

func NewTopicRouter(topics map[int]string) *TopicRouter {
	r := &TopicRouter{
		groups:  make(map[int]string),
		headsUp: make(map[int]bool),
	}
	for threadID, name := range topics {
		if strings.EqualFold(name, config.HeadsUpTopic) {
			r.headsUp[threadID] = true
			continue
		}
		r.groups[threadID] = strings.ToUpper(name)
	}
	return r
}

// Group код группы для топика
func (r *TopicRouter) Group(threadID int) (string, bool) {
	group, ok := r.groups[threadID]
	return group, ok
}

// IsHeadsUp принимаются ли в топике heads-up
func (r *TopicRouter) IsHeadsUp(threadID int) bool {
	return r.headsUp[threadID]
}

// Known относится ли топик к классу
func (r *TopicRouter) Known(threadID int) bool {
	_, ok := r.groups[threadID]
	return ok || r.headsUp[threadID]
}
