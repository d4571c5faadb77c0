// Package scheduler runs catalog maintenance tasks, one at a time, off
// a bounded queue.
package scheduler

import (
	"sync"
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("mscx.scheduler")

type Task struct {
	Name    string
	Execute func() error
}

type Scheduler struct {
	tasks    chan Task
	periodic sync.Mutex
	stop     chan struct{}
	wg       sync.WaitGroup
}

func New(queueSize int) *Scheduler {
	return &Scheduler{
		tasks: make(chan Task, queueSize),
		stop:  make(chan struct{}),
	}
}

// Run starts the consumer loop.
func (s *Scheduler) Run() {
	go func() {
		for {
			select {
			case task, ok := <-s.tasks:
				if !ok {
					return
				}
				s.execute(task)
			case <-s.stop:
				// Drain whatever is still queued, then exit
				for task := range s.tasks {
					s.execute(task)
				}
				return
			}
		}
	}()
}

func (s *Scheduler) execute(task Task) {
	defer s.wg.Done()
	log.Infof("executing %s", task.Name)
	if err := task.Execute(); err != nil {
		log.Errorf("%s failed: %v", task.Name, err)
	}
}

// Schedule queues a task to run as soon as the consumer is free.
func (s *Scheduler) Schedule(task Task) {
	s.wg.Add(1)
	s.tasks <- task
}

// SchedulePeriodic runs the task once right away and then queues it on
// every tick. Ticks that find the queue full are skipped.
func (s *Scheduler) SchedulePeriodic(interval time.Duration, task Task) {
	go func() {
		s.periodic.Lock()
		defer s.periodic.Unlock()
		if err := task.Execute(); err != nil {
			log.Errorf("%s failed: %v", task.Name, err)
		}
	}()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.periodic.Lock()
				s.wg.Add(1)
				select {
				case s.tasks <- task:
				default:
					s.wg.Done()
					log.Debugf("skipped %s, queue is full", task.Name)
				}
				s.periodic.Unlock()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop waits for queued tasks to finish and shuts the scheduler down.
// Nothing may be scheduled after Stop.
func (s *Scheduler) Stop() {
	close(s.stop)
	close(s.tasks)
	s.wg.Wait()
}
