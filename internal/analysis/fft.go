package analysis

import (
	"math/bits"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// PowerSpectrum returns the magnitude of the positive-frequency half of the
// real series' spectrum. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// Series maps every sample of body through f. Samples where the body is
// dead are skipped.
func Series(res *dynamo.Result, body int, f func(dynamo.Vec3) float64) []float64 {
	out := make([]float64, 0, len(res.Samples))
	for _, s := range res.Samples {
		if body >= len(s.Positions) || (s.Alive != nil && !s.Alive[body]) {
			continue
		}
		out = append(out, f(s.Positions[body]))
	}
	return out
}

// RadialSeries returns the distance between body and center at every sample.
func RadialSeries(res *dynamo.Result, body, center int) []float64 {
	out := make([]float64, 0, len(res.Samples))
	for _, s := range res.Samples {
		if body >= len(s.Positions) || center >= len(s.Positions) {
			break
		}
		out = append(out, s.Positions[body].Distance(s.Positions[center]))
	}
	return out
}

// SampleInterval returns the time between the first two samples.
func SampleInterval(res *dynamo.Result) float64 {
	if len(res.Samples) < 2 {
		return 0
	}
	return res.Samples[1].Time - res.Samples[0].Time
}

// DominantPeriod estimates the strongest period in a uniformly sampled
// series. The mean is removed and the series zero-padded to at least four
// times its length, then the spectral peak is refined by parabolic
// interpolation. ok is false for series too short or flat to have a peak.
func DominantPeriod(series []float64, interval float64) (period float64, ok bool) {
	if len(series) < 4 || interval <= 0 {
		return 0, false
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	n := 1 << bits.Len(uint(4*len(series)-1))
	padded := make([]float64, n)
	for i, v := range series {
		padded[i] = v - mean
	}
	ps := PowerSpectrum(padded)

	peak := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[peak] || peak == 0 {
			peak = k
		}
	}
	if peak == 0 || ps[peak] < 1e-12 {
		return 0, false
	}

	bin := float64(peak)
	if peak > 1 && peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if den := a - 2*b + c; den != 0 {
			bin += 0.5 * (a - c) / den
		}
	}
	return float64(n) * interval / bin, true
}
