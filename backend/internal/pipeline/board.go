package pipeline

import (
	"teamshub/backend/internal/models"
)

// Column колонка доски: этап и кандидаты на нем
type Column struct {
	Stage      models.PipelineStage `json:"stage"`
	Candidates []models.Candidate   `json:"candidates"`
}

// Grouping кандидаты, разложенные по этапам воронки
type Grouping struct {
	Columns []Column `json:"columns"`
	// Кандидаты со статусом вне воронки в колонки не попадают
	Unmatched []models.Candidate `json:"unmatched"`
}

// Count количество кандидатов в колонках
func (g Grouping) Count() int {
	total := 0
	for _, col := range g.Columns {
		total += len(col.Candidates)
	}
	return total
}

// Column колонка по идентификатору этапа
func (g Grouping) Column(id models.CandidateStatus) (Column, bool) {
	for _, col := range g.Columns {
		if col.Stage.ID == id {
			return col, true
		}
	}
	return Column{}, false
}

// GroupByStage раскладывает кандидатов по этапам. Порядок кандидатов внутри
// колонки сохраняется из входного списка.
func GroupByStage(candidates []models.Candidate, stages models.PipelineStages) Grouping {
	sorted := Sorted(stages)

	index := make(map[models.CandidateStatus]int, len(sorted))
	columns := make([]Column, len(sorted))
	for i, stage := range sorted {
		index[stage.ID] = i
		columns[i] = Column{Stage: stage, Candidates: []models.Candidate{}}
	}

	grouping := Grouping{Columns: columns, Unmatched: []models.Candidate{}}
	for _, c := range candidates {
		i, ok := index[c.Status]
		if !ok {
			grouping.Unmatched = append(grouping.Unmatched, c)
			continue
		}
		grouping.Columns[i].Candidates = append(grouping.Columns[i].Candidates, c)
	}

	return grouping
}
