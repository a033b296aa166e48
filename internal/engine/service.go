package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"growthcoach/internal/config"
	"growthcoach/internal/storage"
)

type Service struct {
	db          *sql.DB
	tuning      config.Tuning
	profiles    *storage.ProfileRepo
	habits      *storage.HabitRepo
	completions *storage.CompletionRepo
	capsules    *storage.CapsuleRepo
}

func NewService(db *sql.DB) *Service {
	return NewServiceWithTuning(db, config.Default())
}

func NewServiceWithTuning(db *sql.DB, t config.Tuning) *Service {
	return &Service{
		db:          db,
		tuning:      t,
		profiles:    storage.NewProfileRepo(db),
		habits:      storage.NewHabitRepo(db),
		completions: storage.NewCompletionRepo(db),
		capsules:    storage.NewCapsuleRepo(db),
	}
}

func (s *Service) Tuning() config.Tuning                   { return s.tuning }
func (s *Service) ProfileRepo() *storage.ProfileRepo       { return s.profiles }
func (s *Service) HabitRepo() *storage.HabitRepo           { return s.habits }
func (s *Service) CompletionRepo() *storage.CompletionRepo { return s.completions }
func (s *Service) CapsuleRepo() *storage.CapsuleRepo       { return s.capsules }

// getProfile loads the main profile, keeping the stored level consistent
// with the XP total.
func (s *Service) getProfile(ctx context.Context) (*storage.Profile, error) {
	p, err := s.profiles.GetOrCreateMain(ctx)
	if err != nil {
		return nil, err
	}
	if p.MaxEnergy <= 0 {
		p.MaxEnergy = s.tuning.DefaultMaxEnergy
	}
	computed := LevelForXP(p.XP)
	if p.Level != computed {
		p.Level = computed
		if err := s.profiles.Update(ctx, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// timeContext pins now and the profile's timezone for one operation.
func (s *Service) timeContext(p *storage.Profile) TimeContext {
	return NewTimeContext(time.Now().UTC(), p.Timezone)
}

// dayBounds returns the [start, end) instants of the local day containing
// the context's now, shifted by dayOffset days.
func dayBounds(tc TimeContext, dayOffset int) (time.Time, time.Time) {
	start := tc.StartOfDay().AddDate(0, 0, dayOffset)
	return start, start.AddDate(0, 0, 1)
}

func (s *Service) getHabit(ctx context.Context, key string) (*storage.Habit, error) {
	h, err := s.habits.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, NotFoundError{Kind: "habit", Key: key}
	}
	return h, nil
}

func normalizeName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", errors.New("name is required")
	}
	return n, nil
}

// Slugify derives a stable habit key from a display name.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// energyState projects the profile fields the energy math operates on.
func energyState(p *storage.Profile) EnergyState {
	return EnergyState{
		Energy:       p.Energy,
		MaxEnergy:    p.MaxEnergy,
		LastRegenAt:  p.LastRegenAt,
		PodActive:    p.PodActive,
		PodStartedAt: p.PodStartedAt,
	}
}

func applyEnergyState(p *storage.Profile, s EnergyState) {
	p.Energy = s.Energy
	p.MaxEnergy = s.MaxEnergy
	p.LastRegenAt = s.LastRegenAt
	p.PodActive = s.PodActive
	p.PodStartedAt = s.PodStartedAt
}

// SetProfileSettings updates the account-level knobs the engine reads:
// the IANA timezone that decides where days begin, and neurodivergent
// mode, which widens plateau windows. Nil arguments leave a field alone.
func (s *Service) SetProfileSettings(ctx context.Context, timezone *string, neurodivergent *bool) (*storage.Profile, error) {
	p, err := s.getProfile(ctx)
	if err != nil {
		return nil, err
	}
	if timezone != nil {
		tz := strings.TrimSpace(*timezone)
		if tz == "" {
			return nil, errors.New("timezone is required")
		}
		if _, err := time.LoadLocation(tz); err != nil {
			return nil, fmt.Errorf("unknown timezone %q", tz)
		}
		p.Timezone = tz
	}
	if neurodivergent != nil {
		p.NeurodivergentMode = *neurodivergent
	}
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CurrentEnergy returns the profile's energy accrued to now without
// persisting anything.
func (s *Service) CurrentEnergy(ctx context.Context) (float64, error) {
	p, err := s.getProfile(ctx)
	if err != nil {
		return 0, err
	}
	tc := s.timeContext(p)
	return AccrueEnergy(s.tuning, energyState(p), tc.Now).Energy, nil
}

// TogglePod enters or exits the regen pod, finalizing accrued energy at
// the old rate before the switch.
func (s *Service) TogglePod(ctx context.Context, active bool) (*storage.Profile, error) {
	p, err := s.getProfile(ctx)
	if err != nil {
		return nil, err
	}
	tc := s.timeContext(p)
	es := energyState(p)
	if active {
		es = StartPod(s.tuning, es, tc.Now)
	} else {
		es = StopPod(s.tuning, es, tc.Now)
	}
	applyEnergyState(p, es)
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ResetExperience zeroes xp/level/streak. Habits and history stay.
func (s *Service) ResetExperience(ctx context.Context) error {
	p, err := s.getProfile(ctx)
	if err != nil {
		return err
	}
	return s.profiles.ResetExperience(ctx, p.Key)
}

// ResetAll wipes habits, capsules and completions and zeroes experience.
func (s *Service) ResetAll(ctx context.Context) error {
	if err := s.habits.DeleteAll(ctx); err != nil {
		return err
	}
	return s.ResetExperience(ctx)
}

// DeleteHabit soft-deletes a habit; its capsules go with it, the event
// log stays for history.
func (s *Service) DeleteHabit(ctx context.Context, key string) error {
	h, err := s.getHabit(ctx, key)
	if err != nil {
		return err
	}
	p, err := s.getProfile(ctx)
	if err != nil {
		return err
	}
	tc := s.timeContext(p)
	return s.habits.SoftDelete(ctx, h.Key, tc.Now)
}

func (s *Service) countCompletionsToday(ctx context.Context, tc TimeContext, habitKey string) (count int, sum float64, err error) {
	from, to := dayBounds(tc, 0)
	list, err := s.completions.ListForHabitBetween(ctx, habitKey, from, to)
	if err != nil {
		return 0, 0, fmt.Errorf("today's completions: %w", err)
	}
	for _, c := range list {
		sum += c.Value
	}
	return len(list), sum, nil
}
