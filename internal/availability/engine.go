package availability

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const tracerName = "github.com/m04kA/SMC-AvailabilityService/internal/availability"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Options engine-wide settings
type Options struct {
	GranularityMinutes            int
	FallbackOpen                  types.TimeString
	FallbackClose                 types.TimeString
	DefaultClose                  types.TimeString
	DefaultServiceDurationMinutes int
}

// DefaultOptions 15-minute grid, 09:00-18:00 fallback, 18:00 default close
func DefaultOptions() Options {
	return Options{
		GranularityMinutes:            domain.DefaultSlotGranularityMinutes,
		FallbackOpen:                  domain.DefaultFallbackOpenTime,
		FallbackClose:                 domain.DefaultFallbackCloseTime,
		DefaultClose:                  domain.DefaultCloseTime,
		DefaultServiceDurationMinutes: domain.DefaultServiceDurationMinutes,
	}
}

// Input everything one computation needs. The engine never reads the host clock.
type Input struct {
	Date  time.Time
	Clock *Clock
	Now   time.Time

	// Hours nil means the business record is unavailable: the fallback grid is used
	Hours     domain.BusinessHours
	Overrides []domain.BusinessHoursOverride

	Appointments []domain.Appointment
	// ConflictsUnavailable skips the conflict stage; every slot inside hours is AVAILABLE
	ConflictsUnavailable bool

	ServiceDurationMinutes int
	StaffID                string
	MinNotificationHours   int
}

// Result outcome of one computation
type Result struct {
	Date               time.Time
	Timezone           string
	Window             DayWindow
	Closed             bool
	Degraded           bool
	Slots              []domain.TimeSlot
	Warnings           []Warning
	ActiveAppointments int
}

// CountByState number of slots per state
func (r *Result) CountByState() map[string]int {
	counts := make(map[string]int, len(domain.SlotStates))
	for _, s := range r.Slots {
		counts[string(s.State)]++
	}
	return counts
}

// Engine computes slot availability for one business date.
// It is stateless; concurrent Compute calls are safe.
type Engine struct {
	opts   Options
	logger Logger
	tracer trace.Tracer
}

// NewEngine создаёт движок расчёта слотов
func NewEngine(opts Options, logger Logger) *Engine {
	def := DefaultOptions()
	if opts.GranularityMinutes <= 0 {
		opts.GranularityMinutes = def.GranularityMinutes
	}
	if opts.FallbackOpen.Validate() != nil {
		opts.FallbackOpen = def.FallbackOpen
	}
	if opts.FallbackClose.Validate() != nil {
		opts.FallbackClose = def.FallbackClose
	}
	if opts.DefaultClose.Validate() != nil {
		opts.DefaultClose = def.DefaultClose
	}
	if opts.DefaultServiceDurationMinutes <= 0 {
		opts.DefaultServiceDurationMinutes = def.DefaultServiceDurationMinutes
	}

	return &Engine{
		opts:   opts,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// Options returns the effective options
func (e *Engine) Options() Options {
	return e.opts
}

// Compute runs resolver, generator, conflict index, classifier and notice filter
func (e *Engine) Compute(ctx context.Context, in Input) *Result {
	ctx, span := e.tracer.Start(ctx, "availability.Compute")
	defer span.End()

	clock := in.Clock
	if clock == nil {
		clock = NewClock(time.UTC)
	}
	date := clock.Civil(in.Date)

	res := &Result{
		Date:     date,
		Timezone: clock.Name(),
		Slots:    []domain.TimeSlot{},
	}

	// 1. Рабочие часы на дату
	_, stage := e.tracer.Start(ctx, "availability.ResolveHours")
	var window DayWindow
	if in.Hours == nil {
		window = FallbackWindow(e.opts.FallbackOpen, e.opts.FallbackClose)
		res.Degraded = true
	} else {
		window = ResolveHours(in.Hours, in.Overrides, date, in.Now, e.opts.DefaultClose.Minutes())
	}
	stage.SetAttributes(attribute.Bool("open", window.Open), attribute.String("source", string(window.Source)))
	stage.End()

	res.Window = window
	if in.ConflictsUnavailable {
		res.Degraded = true
	}

	if !window.Open {
		res.Closed = true
		span.SetAttributes(attribute.Bool("closed", true))
		return res
	}

	// 2. Сетка кандидатов
	_, stage = e.tracer.Start(ctx, "availability.GenerateSlots")
	starts := GenerateSlots(window, e.opts.GranularityMinutes)
	stage.SetAttributes(attribute.Int("candidates", len(starts)))
	stage.End()

	// 3. Индекс занятости
	_, stage = e.tracer.Start(ctx, "availability.BuildConflictIndex")
	var ranges []domain.BlockedRange
	if !in.ConflictsUnavailable {
		idx := BuildConflictIndex(in.Appointments, date, clock, in.StaffID)
		ranges = idx.Ranges
		res.Warnings = idx.Warnings
		res.ActiveAppointments = idx.Active
		e.logWarnings(date, idx.Warnings)
	}
	ranges = withBreaks(ranges, window.Breaks)
	stage.SetAttributes(attribute.Int("blocked_ranges", len(ranges)), attribute.Int("warnings", len(res.Warnings)))
	stage.End()

	// 4. Классификация
	_, stage = e.tracer.Start(ctx, "availability.Classify")
	duration := in.ServiceDurationMinutes
	if duration <= 0 {
		duration = e.opts.DefaultServiceDurationMinutes
	}
	closeAt := window.End
	slots := make([]domain.TimeSlot, 0, len(starts))
	for _, start := range starts {
		slots = append(slots, Classify(start, duration, closeAt, ranges))
	}
	stage.End()

	// 5. Минимальное время до записи
	_, stage = e.tracer.Start(ctx, "availability.ApplyNotice")
	res.Slots = ApplyNotice(slots, date, clock, in.Now, in.MinNotificationHours)
	stage.End()

	span.SetAttributes(
		attribute.String("date", date.Format(domain.DateFormat)),
		attribute.Bool("degraded", res.Degraded),
		attribute.Int("slots", len(res.Slots)),
	)

	return res
}

func (e *Engine) logWarnings(date time.Time, warnings []Warning) {
	if e.logger == nil {
		return
	}
	seen := make(map[string]struct{}, len(warnings))
	for _, w := range warnings {
		key := w.AppointmentID + "|" + string(w.Reason)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		e.logger.Warn("availability: skipped appointment id=%s on %s: %s (value=%q)",
			w.AppointmentID, date.Format(domain.DateFormat), w.Reason, w.Value)
	}
}

// withBreaks adds breaks as blocked ranges without an appointment id so that
// a service cannot run into a break
func withBreaks(ranges []domain.BlockedRange, breaks []Interval) []domain.BlockedRange {
	if len(breaks) == 0 {
		return ranges
	}
	out := make([]domain.BlockedRange, 0, len(ranges)+len(breaks))
	out = append(out, ranges...)
	for _, b := range breaks {
		out = append(out, domain.BlockedRange{Start: b.Start, End: b.End})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
