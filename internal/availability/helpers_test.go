package availability

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// 2024-03-15 пятница
var testDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func istanbul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)
	return loc
}

func ts(s string) types.TimeString {
	return types.TimeString(s)
}

func tsPtr(s string) *types.TimeString {
	v := types.TimeString(s)
	return &v
}

func hm(s string) int {
	return types.TimeString(s).Minutes()
}

func weekdayHours(openAt, closeAt string, breaks ...domain.Break) domain.BusinessHours {
	sched := domain.DaySchedule{IsOpen: true, OpenTime: ts(openAt), CloseTime: ts(closeAt), Breaks: breaks}
	return domain.BusinessHours{
		domain.Monday:    sched,
		domain.Tuesday:   sched,
		domain.Wednesday: sched,
		domain.Thursday:  sched,
		domain.Friday:    sched,
	}
}

func slotByTime(t *testing.T, slots []domain.TimeSlot, at string) domain.TimeSlot {
	t.Helper()
	for _, s := range slots {
		if s.Time.String() == at {
			return s
		}
	}
	t.Fatalf("slot %s not found", at)
	return domain.TimeSlot{}
}

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Info(string, ...interface{}) {}

func (l *recordingLogger) Warn(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Error(string, ...interface{}) {}
