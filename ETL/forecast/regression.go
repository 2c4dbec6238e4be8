package forecast

import (
	"fmt"
	"math"
)

// RoundToThousandth округляет число до тысячных (3 знака после запятой)
func RoundToThousandth(value float64) float64 {
	return math.Round(value*1000) / 1000
}

// LinearRegression выполняет расчет линейной регрессии на основе входных данных
// и возвращает результат с коэффициентами
func LinearRegression(points []DataPoint) (*RegressionResult, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("для расчета линейной регрессии требуется минимум 2 точки, получено: %d", len(points))
	}

	// Находим минимальную и максимальную даты
	minDate := points[0].Date
	maxDate := points[0].Date
	for _, p := range points {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}
		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	// Расчет коэффициентов линейной регрессии методом наименьших квадратов
	// формулы:
	// a = (n*sum(x*y) - sum(x)*sum(y)) / (n*sum(x^2) - (sum(x))^2)
	// b = (sum(y) - a*sum(x)) / n
	n := float64(len(points))
	sumX := 0.0
	sumY := 0.0
	sumXY := 0.0
	sumX2 := 0.0
	sumY2 := 0.0

	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumX2 += p.X * p.X
		sumY2 += p.Y * p.Y
	}

	// Расчет коэффициента наклона (a)
	denominator := n*sumX2 - sumX*sumX
	if math.Abs(denominator) < 1e-10 {
		return nil, fmt.Errorf("все X одинаковы, невозможно вычислить наклон")
	}

	a := (n*sumXY - sumX*sumY) / denominator

	// Расчет сдвига (b)
	b := (sumY - a*sumX) / n

	// Расчет коэффициента корреляции Пирсона (r)
	numerator := n*sumXY - sumX*sumY
	denominator = math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))

	var r float64
	if math.Abs(denominator) < 1e-10 {
		r = 0 // нет корреляции или все значения одинаковы
	} else {
		r = numerator / denominator
	}

	// Коэффициент детерминации (r^2)
	r2 := r * r

	// Округляем все результаты до тысячных (3 знака после запятой)
	return &RegressionResult{
		A:           RoundToThousandth(a),
		B:           RoundToThousandth(b),
		R:           RoundToThousandth(r),
		R2:          RoundToThousandth(r2),
		PeriodStart: minDate,
		PeriodEnd:   maxDate,
	}, nil
}

// Predict прогнозирует значение Y для заданного X на основе модели линейной регрессии
func Predict(result *RegressionResult, x float64) float64 {
	return RoundToThousandth(result.A*x + result.B)
}
