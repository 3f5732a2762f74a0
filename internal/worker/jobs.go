package worker

import (
	"context"

	"github.com/mpivetta/cardflow/internal/services"
)

// FlushStudyTimeJob persists the in-memory study-time accumulator.
type FlushStudyTimeJob struct {
	Study services.StudyService
}

func (j *FlushStudyTimeJob) Name() string {
	return "flush_study_time"
}

func (j *FlushStudyTimeJob) Run(ctx context.Context) error {
	return j.Study.FlushStudyTime(ctx)
}
