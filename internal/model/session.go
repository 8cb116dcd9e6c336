package model

import "time"

type SessionType string

const (
	SessionTypePairProgramming SessionType = "pair_programming"
	SessionTypeMoonWalk        SessionType = "moon_walk"
	SessionTypeGrouping        SessionType = "grouping"
	SessionTypeTriadContest    SessionType = "triad_contest"
)

// SessionMember снимок студента на момент создания сессии
type SessionMember struct {
	StudentID int64  `json:"student_id"`
	Name      string `json:"name"`
	Group     string `json:"group"`
}

type Question struct {
	Title      string `json:"title"`
	Link       string `json:"link"`
	Difficulty string `json:"difficulty,omitempty"`
}

type Session struct {
	ID        string            `json:"id"`
	Type      SessionType       `json:"type"`
	Group     string            `json:"group"`
	Pairs     [][]SessionMember `json:"pairs"`
	Questions []Question        `json:"questions"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewSessionMembers копирует студентов в снимок сессии
func NewSessionMembers(buckets [][]Student) [][]SessionMember {
	pairs := make([][]SessionMember, 0, len(buckets))
	for _, bucket := range buckets {
		members := make([]SessionMember, 0, len(bucket))
		for _, s := range bucket {
			members = append(members, SessionMember{StudentID: s.ID, Name: s.Name, Group: s.Group})
		}
		pairs = append(pairs, members)
	}
	return pairs
}
