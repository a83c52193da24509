package md

// Window keeps the most recent prices in a fixed-size ring.
type Window struct {
	values []float64
	size   int
	index  int
	filled bool
}

type WindowStats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

func NewWindow(size int) *Window {
	if size <= 0 {
		size = 1
	}
	return &Window{
		values: make([]float64, size),
		size:   size,
	}
}

func (w *Window) Add(price float64) {
	w.values[w.index] = price
	w.index = (w.index + 1) % w.size
	if w.index == 0 {
		w.filled = true
	}
}

func (w *Window) Len() int {
	if w.filled {
		return w.size
	}
	return w.index
}

// Values returns the prices oldest first.
func (w *Window) Values() []float64 {
	result := make([]float64, 0, w.Len())
	if w.filled {
		result = append(result, w.values[w.index:]...)
	}
	return append(result, w.values[:w.index]...)
}

func (w *Window) Stats() WindowStats {
	values := w.Values()
	if len(values) == 0 {
		return WindowStats{}
	}
	stats := WindowStats{Count: len(values), Min: values[0], Max: values[0]}
	sum := 0.0
	for _, v := range values {
		sum += v
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	stats.Mean = sum / float64(len(values))
	return stats
}
