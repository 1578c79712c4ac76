package handlers

import (
	"github.com/sf1tzp/symbology/ent/job"
	"github.com/sf1tzp/symbology/pkg/queue"
)

// Registry maps job_type to its Handler. Built once at startup and never
// mutated afterward (spec.md §4.3: "effectively immutable once the worker
// loop starts"), so it is safe for every worker goroutine to share one
// instance without locking.
type Registry struct {
	handlers map[string]queue.Handler
}

// NewRegistry builds the fixed job_type -> Handler map for a Deps.
func NewRegistry(d *Deps) *Registry {
	return &Registry{
		handlers: map[string]queue.Handler{
			string(job.JobTypeTest):                d.Test,
			string(job.JobTypeCompanyIngestion):    d.CompanyIngestion,
			string(job.JobTypeFilingIngestion):     d.FilingIngestion,
			string(job.JobTypeContentGeneration):   d.ContentGeneration,
			string(job.JobTypeBulkIngest):          d.BulkIngest,
			string(job.JobTypeCompanyGroupPipeline): d.CompanyGroupPipeline,
			string(job.JobTypeIngestPipeline):      d.IngestPipeline,
			string(job.JobTypeFullPipeline):        d.FullPipeline,
		},
	}
}

// Lookup implements queue.Registry.
func (r *Registry) Lookup(jobType string) (queue.Handler, bool) {
	h, ok := r.handlers[jobType]
	return h, ok
}
