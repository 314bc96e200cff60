package publishers

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Fanout delivers every event to all configured sinks concurrently.
type Fanout struct {
	publishers []Publisher
}

// NewFanout drops nil entries and keeps the rest in order.
func NewFanout(pubs []Publisher) *Fanout {
	cp := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			cp = append(cp, p)
		}
	}
	return &Fanout{publishers: cp}
}

// Publish sends evt to every sink and waits for all of them. It returns how many
// sinks accepted the event together with the joined errors of those that did not.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.publishers) == 0 {
		return 0, nil
	}
	if len(f.publishers) == 1 {
		p := f.publishers[0]
		if err := p.Publish(ctx, evt); err != nil {
			return 0, publishError(p, err)
		}
		return 1, nil
	}

	errs := make([]error, len(f.publishers))
	var wg sync.WaitGroup
	for i, p := range f.publishers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Publish(ctx, evt); err != nil {
				errs[i] = publishError(p, err)
			}
		}()
	}
	wg.Wait()

	delivered := 0
	for _, err := range errs {
		if err == nil {
			delivered++
		}
	}
	return delivered, errors.Join(errs...)
}

func publishError(p Publisher, err error) error {
	return fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err)
}

// Size returns the number of active publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}

// Close releases client resources held by the publishers.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, p := range f.publishers {
		c, ok := p.(closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", p.Type(), p.ID(), err))
		}
	}
	return errors.Join(errs...)
}
