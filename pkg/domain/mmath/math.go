// 指示: miu200521358
package mmath

import "math"

// DegToRad は度をラジアンへ変換する。
func DegToRad(degree float64) float64 {
	return degree * math.Pi / 180.0
}

// RadToDeg はラジアンを度へ変換する。
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// Lerp はスカラーの線形補間結果を返す。
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamped はmin-maxで値をクランプする。
func Clamped(value float64, min float64, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// NearEquals は許容誤差内で等しいか判定する。
func NearEquals(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// IsFinite は有限値か判定する。
func IsFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
