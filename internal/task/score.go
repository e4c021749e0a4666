package task

import (
	"math"
	"slices"
	"strings"
)

// Ranked is a task with the score it received within one scored collection.
type Ranked struct {
	Task  *Task
	Score float64
}

func document(t *Task) []string {
	return Tokenize(t.Subject + " " + strings.Join(t.Comments, " "))
}

// Score computes a TF-IDF importance score for each task, treating the subject
// plus comments of every task as one document of the corpus formed by tasks.
// The result is positionally aligned with tasks and rounded to 4 decimals.
// Scores are only comparable within the same call.
func Score(tasks []*Task) []float64 {
	scores := make([]float64, len(tasks))
	if len(tasks) == 0 {
		return scores
	}

	docs := make([][]string, len(tasks))
	df := make(map[string]int)
	for i, t := range tasks {
		docs[i] = document(t)
		seen := make(map[string]struct{}, len(docs[i]))
		for _, tok := range docs[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := float64(len(docs))
	for i, doc := range docs {
		if len(doc) == 0 {
			continue
		}
		tf := make(map[string]int, len(doc))
		for _, tok := range doc {
			tf[tok]++
		}
		var sum float64
		for tok, count := range tf {
			d := df[tok]
			if d == 0 {
				continue
			}
			sum += float64(count) * math.Log(n/float64(d))
		}
		scores[i] = round4(sum / float64(len(doc)))
	}
	return scores
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// Rank scores tasks and orders them by score, highest first. Equal scores
// keep their input order.
func Rank(tasks []*Task) []Ranked {
	scores := Score(tasks)
	ranked := make([]Ranked, len(tasks))
	for i, t := range tasks {
		ranked[i] = Ranked{Task: t, Score: scores[i]}
	}
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return ranked
}

// Top returns at most n entries of Rank(tasks).
func Top(tasks []*Task, n int) []Ranked {
	ranked := Rank(tasks)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
