package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/pendulum/engine/core"
)

// Job is a unit of work executed on one of the workers of a JobSystem.
type Job struct {
	Name string
	Run  func() error
	// Called on the worker after Run, depending on its result.
	OnComplete func()
	OnFailure  func(err error)
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan Job
	wg         sync.WaitGroup
	once       sync.Once
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job, channelSize),
	}
	js.start()
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				if err := job.Run(); err != nil {
					core.LogError("job '%s' failed: %v", job.Name, err)
					if job.OnFailure != nil {
						job.OnFailure(err)
					}
					continue
				}
				if job.OnComplete != nil {
					job.OnComplete()
				}
			}
		}()
	}
}

/**
 * @brief Shuts the job system down, waiting for queued jobs to finish.
 * Submitting afterwards panics.
 */
func (js *JobSystem) Shutdown() error {
	js.once.Do(func() {
		close(js.jobQueue)
		js.wg.Wait()
	})
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * the queue is full.
 */
func (js *JobSystem) Submit(job Job) {
	js.jobQueue <- job
}

// RunAll submits every job and waits for all of them. The errors of the
// failed jobs are joined.
func (js *JobSystem) RunAll(jobs []Job) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	wg.Add(len(jobs))
	for _, job := range jobs {
		onComplete, onFailure := job.OnComplete, job.OnFailure
		job.OnComplete = func() {
			defer wg.Done()
			if onComplete != nil {
				onComplete()
			}
		}
		job.OnFailure = func(err error) {
			defer wg.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("%s: %w", job.Name, err))
			mu.Unlock()
			if onFailure != nil {
				onFailure(err)
			}
		}
		js.Submit(job)
	}
	wg.Wait()
	return errors.Join(errs...)
}
