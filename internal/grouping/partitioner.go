// Package grouping разбивает список студентов на пары и группы со случайным порядком.
package grouping

import (
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/Freeeeeet/headsup_bot/internal/model"
)

var (
	ErrNoLeaders            = errors.New("at least one leader is required")
	ErrInsufficientStudents = errors.New("not enough students to give every leader two members")
)

// TriadSize лидер и два участника
const TriadSize = 3

// Partitioner реализует алгоритмы разбиения. Источник случайности
// передаётся снаружи, чтобы тесты могли фиксировать seed.
type Partitioner struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPartitioner создаёт partitioner с переданным источником случайности
func NewPartitioner(rng *rand.Rand) *Partitioner {
	return &Partitioner{rng: rng}
}

// NewSeededPartitioner создаёт partitioner с PCG-генератором от seed
func NewSeededPartitioner(seed uint64) *Partitioner {
	return NewPartitioner(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// PairAll перемешивает студентов и разбивает их на пары.
// При нечётном количестве последний остаётся один.
func (p *Partitioner) PairAll(students []model.Student) [][]model.Student {
	shuffled := p.shuffled(students)

	pairs := make([][]model.Student, 0, (len(shuffled)+1)/2)
	for i := 0; i < len(shuffled); i += 2 {
		if i+1 < len(shuffled) {
			pairs = append(pairs, []model.Student{shuffled[i], shuffled[i+1]})
		} else {
			pairs = append(pairs, []model.Student{shuffled[i]})
		}
	}
	return pairs
}

// DistributeRoundRobin создаёт по группе на каждого лидера (лидер первый)
// и раздаёт перемешанных студентов по кругу
func (p *Partitioner) DistributeRoundRobin(leaders, remaining []model.Student) ([][]model.Student, error) {
	if len(leaders) == 0 {
		return nil, ErrNoLeaders
	}

	buckets := newBuckets(leaders, len(remaining)/len(leaders)+1)
	for i, s := range p.shuffled(remaining) {
		idx := i % len(leaders)
		buckets[idx] = append(buckets[idx], s)
	}
	return buckets, nil
}

// FormTriads даёт каждому лидеру по два перемешанных студента.
// Оставшиеся после полного круга раздаются по одному, начиная с первого лидера,
// так что никто не теряется и размеры групп отличаются не больше чем на один.
func (p *Partitioner) FormTriads(leaders, remaining []model.Student) ([][]model.Student, error) {
	if len(leaders) == 0 {
		return nil, ErrNoLeaders
	}
	if len(remaining) < len(leaders)*(TriadSize-1) {
		return nil, ErrInsufficientStudents
	}

	queue := p.shuffled(remaining)
	buckets := newBuckets(leaders, TriadSize)

	pos := 0
	for i := range buckets {
		buckets[i] = append(buckets[i], queue[pos], queue[pos+1])
		pos += TriadSize - 1
	}
	for i, s := range queue[pos:] {
		idx := i % len(buckets)
		buckets[idx] = append(buckets[idx], s)
	}

	return buckets, nil
}

func newBuckets(leaders []model.Student, capacity int) [][]model.Student {
	buckets := make([][]model.Student, len(leaders))
	for i, leader := range leaders {
		buckets[i] = make([]model.Student, 0, capacity)
		buckets[i] = append(buckets[i], leader)
	}
	return buckets
}

// shuffled возвращает перемешанную копию, вход не изменяется
func (p *Partitioner) shuffled(students []model.Student) []model.Student {
	out := make([]model.Student, len(students))
	copy(out, students)

	p.mu.Lock()
	p.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	p.mu.Unlock()

	return out
}
