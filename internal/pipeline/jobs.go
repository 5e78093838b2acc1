package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of a template import job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusParsing     JobStatus = "parsing"
	StatusNormalizing JobStatus = "normalizing"
	StatusAssigning   JobStatus = "assigning_ids"
	StatusStoring     JobStatus = "storing"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Job tracks the state of a single template import.
type Job struct {
	mu sync.Mutex

	ID         string `json:"job_id"`
	TemplateID string `json:"template_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Name     string    `json:"name"`
	Currency string    `json:"currency"`

	FieldCount int       `json:"field_count"`
	Warnings   []string  `json:"warnings,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	errors   []string
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// AddWarnings records non-fatal warnings from the engine passes.
func (j *Job) AddWarnings(ws []string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Warnings = append(j.Warnings, ws...)
	j.UpdatedAt = time.Now()
}

// SetFieldCount records how many addressable fields the template has.
func (j *Job) SetFieldCount(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.FieldCount = n
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw upload bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw upload bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string    `json:"job_id"`
	TemplateID string    `json:"template_id"`
	Status     JobStatus `json:"status"`
	Phase      string    `json:"phase"`
	Filename   string    `json:"filename"`
	Name       string    `json:"name"`
	FieldCount int       `json:"field_count"`
	Warnings   []string  `json:"warnings"`
	Errors     []string  `json:"errors"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	warnings := j.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	errs := j.errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:         j.ID,
		TemplateID: j.TemplateID,
		Status:     j.Status,
		Phase:      j.Phase,
		Filename:   j.Filename,
		Name:       j.Name,
		FieldCount: j.FieldCount,
		Warnings:   warnings,
		Errors:     errs,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
