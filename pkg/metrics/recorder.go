package metrics

import "time"

// Методы ниже безопасны для nil-получателя: когда метрики выключены,
// в usecase и клиенты передаётся nil *Metrics.

// ObserveSlots учитывает состояния слотов одного расчёта
func (m *Metrics) ObserveSlots(countByState map[string]int) {
	if m == nil {
		return
	}
	for state, n := range countByState {
		m.SlotsComputed.WithLabelValues(state).Add(float64(n))
	}
}

// IncDegraded учитывает расчёт в деградированном режиме
func (m *Metrics) IncDegraded(reason string) {
	if m == nil {
		return
	}
	m.DegradedComputations.WithLabelValues(reason).Inc()
}

// AddMalformedAppointments учитывает пропущенные записи
func (m *Metrics) AddMalformedAppointments(reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.MalformedAppointments.WithLabelValues(reason).Add(float64(n))
}

// IncStaleSelection учитывает отброшенный устаревший расчёт
func (m *Metrics) IncStaleSelection() {
	if m == nil {
		return
	}
	m.StaleSelections.WithLabelValues().Inc()
}

// IncSlotConflict учитывает отказ в создании записи (source: precheck|store)
func (m *Metrics) IncSlotConflict(source string) {
	if m == nil {
		return
	}
	m.SlotConflicts.WithLabelValues(source).Inc()
}

// IncBusinessCache учитывает обращение к кэшу (result: hit|miss|error)
func (m *Metrics) IncBusinessCache(result string) {
	if m == nil {
		return
	}
	m.BusinessCacheRequests.WithLabelValues(result).Inc()
}

// ObserveCompute учитывает длительность расчёта
func (m *Metrics) ObserveCompute(d time.Duration, degraded bool) {
	if m == nil {
		return
	}
	label := "false"
	if degraded {
		label = "true"
	}
	m.ComputeDurationSeconds.WithLabelValues(label).Observe(d.Seconds())
}
