package service

import (
	"sync"
	"time"

	"github.com/vineetsarpal/re-ink/model"
)

// ExtractionJob tracks one document through the intake pipeline.
type ExtractionJob struct {
	ID         string            `json:"job_id"`
	Filename   string            `json:"filename"`
	ObjectName string            `json:"object_name,omitempty"`
	Status     string            `json:"status"` // processing, completed, failed
	Message    string            `json:"message,omitempty"`
	Parsed     *ParsedExtraction `json:"parsed_results,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Extraction job status constants
const (
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// ExtractionJobStore is a thread-safe in-memory registry of extraction
// jobs, shared by the document pipeline and the intake agent. It is an
// explicit injected object: collaborators receive it by reference instead
// of importing shared global state.
type ExtractionJobStore struct {
	jobs map[string]*ExtractionJob
	mu   sync.Mutex
}

func NewExtractionJobStore() *ExtractionJobStore {
	return &ExtractionJobStore{
		jobs: make(map[string]*ExtractionJob),
	}
}

// Create registers a job, overwriting any existing entry with the same id.
func (s *ExtractionJobStore) Create(job *ExtractionJob) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	job.UpdatedAt = time.Now()
	s.jobs[job.ID] = job
}

// Update applies fn to the stored job under the lock. A missing job is
// initialized first so delayed pipeline writes are not lost.
func (s *ExtractionJobStore) Update(jobID string, fn func(job *ExtractionJob)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		job = &ExtractionJob{ID: jobID, CreatedAt: time.Now()}
		s.jobs[jobID] = job
	}
	fn(job)
	job.UpdatedAt = time.Now()
}

// Get returns a copy of the job, or nil when absent. Callers never hold a
// reference into the registry's map; the parsed results are copied too so
// mutating a returned job cannot leak back.
func (s *ExtractionJobStore) Get(jobID string) *ExtractionJob {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil
	}
	copied := *job
	copied.Parsed = copyParsed(job.Parsed)
	return &copied
}

func copyParsed(parsed *ParsedExtraction) *ParsedExtraction {
	if parsed == nil {
		return nil
	}

	copied := *parsed
	if parsed.ConfidenceScore != nil {
		score := *parsed.ConfidenceScore
		copied.ConfidenceScore = &score
	}
	if parsed.PartiesData != nil {
		copied.PartiesData = append([]model.PartyDraft(nil), parsed.PartiesData...)
	}
	if parsed.ExtractionMetadata != nil {
		meta := make(map[string]any, len(parsed.ExtractionMetadata))
		for k, v := range parsed.ExtractionMetadata {
			meta[k] = v
		}
		copied.ExtractionMetadata = meta
	}
	return &copied
}

// Delete removes a job entry if present.
func (s *ExtractionJobStore) Delete(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
}

// Count returns the number of registered jobs.
func (s *ExtractionJobStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
