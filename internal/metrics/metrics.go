// Package metrics exposes the bot's Prometheus series:
//
//	handbot_ticks_total{result}          price observations (accepted|rejected)
//	handbot_signals_total{signal}        step signals fired by the pointer
//	handbot_orders_total{venue,side,result}
//	handbot_hand_events_total{kind}      opened|unlocked|batch_ready
//	handbot_hands / handbot_locked_hands gauges of the hand store
//	handbot_price_usd / handbot_reference_usd
package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Ticks       *prometheus.CounterVec
	Signals     *prometheus.CounterVec
	Orders      *prometheus.CounterVec
	HandEvents  *prometheus.CounterVec
	Hands       prometheus.Gauge
	LockedHands prometheus.Gauge
	Price       prometheus.Gauge
	Reference   prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		Ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "handbot_ticks_total", Help: "Price observations by validation result"},
			[]string{"result"},
		),
		Signals: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "handbot_signals_total", Help: "Step signals fired"},
			[]string{"signal"},
		),
		Orders: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "handbot_orders_total", Help: "Orders submitted"},
			[]string{"venue", "side", "result"},
		),
		HandEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "handbot_hand_events_total", Help: "Hand store events"},
			[]string{"kind"},
		),
		Hands: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "handbot_hands", Help: "Hands opened so far"},
		),
		LockedHands: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "handbot_locked_hands", Help: "Hands currently locked"},
		),
		Price: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "handbot_price_usd", Help: "Last accepted price"},
		),
		Reference: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "handbot_reference_usd", Help: "Pointer reference price"},
		),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.Ticks, m.Signals, m.Orders, m.HandEvents,
		m.Hands, m.LockedHands, m.Price, m.Reference,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
