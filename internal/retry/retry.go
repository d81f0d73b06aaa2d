package retry

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type State string

const (
	Attempting State = "attempting"
	BackingOff State = "backing-off"
	Succeeded  State = "succeeded"
	Failed     State = "failed"
)

// Policy retries fn forever while Retryable reports true, sleeping a fixed
// Delay between attempts. The sleep is not interrupted by ctx.
type Policy struct {
	Delay        time.Duration
	Sleep        func(time.Duration)
	Retryable    func(error) bool
	OnTransition func(from, to State, attempt int)
}

func Fixed(delay time.Duration, retryable func(error) bool) Policy {
	return Policy{
		Delay:     delay,
		Sleep:     time.Sleep,
		Retryable: retryable,
	}
}

func Do(ctx context.Context, p Policy, fn func(context.Context) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	m := machine{policy: p, state: Attempting}
	for {
		m.attempt++
		err := fn(ctx)

		switch {
		case err == nil:
			m.transition(Succeeded)
			return nil
		case p.Retryable != nil && p.Retryable(err):
			m.transition(BackingOff)
			log.Warn().
				Err(err).
				Int("attempt", m.attempt).
				Dur("delay", p.Delay).
				Msg("Rate limit reached, backing off")
			sleep(p.Delay)
			m.transition(Attempting)
		default:
			m.transition(Failed)
			return err
		}
	}
}

type machine struct {
	policy  Policy
	state   State
	attempt int
}

func (m *machine) transition(to State) {
	from := m.state
	m.state = to
	if m.policy.OnTransition != nil {
		m.policy.OnTransition(from, to, m.attempt)
	}
}
