// 指示: miu200521358
package mmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 は3次元ベクトルを表す。
type Vec3 struct {
	r3.Vec
}

// NewVec3 は成分指定でVec3を生成する。
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{Vec: r3.Vec{X: x, Y: y, Z: z}}
}

// ZeroVec3 は零ベクトルを返す。
func ZeroVec3() Vec3 {
	return Vec3{}
}

// OneVec3 は全成分1のベクトルを返す。
func OneVec3() Vec3 {
	return NewVec3(1, 1, 1)
}

// UnitYVec3 はY軸単位ベクトルを返す。
func UnitYVec3() Vec3 {
	return NewVec3(0, 1, 0)
}

// Added は加算結果を返す。
func (v Vec3) Added(other Vec3) Vec3 {
	return Vec3{Vec: r3.Add(v.Vec, other.Vec)}
}

// Subed は減算結果を返す。
func (v Vec3) Subed(other Vec3) Vec3 {
	return Vec3{Vec: r3.Sub(v.Vec, other.Vec)}
}

// Muled は成分ごとの乗算結果を返す。
func (v Vec3) Muled(other Vec3) Vec3 {
	return NewVec3(v.X*other.X, v.Y*other.Y, v.Z*other.Z)
}

// MuledScalar はスカラー倍を返す。
func (v Vec3) MuledScalar(scale float64) Vec3 {
	return Vec3{Vec: r3.Scale(scale, v.Vec)}
}

// DivedScalar はスカラー除算結果を返す。
func (v Vec3) DivedScalar(scale float64) Vec3 {
	return Vec3{Vec: r3.Scale(1.0/scale, v.Vec)}
}

// Negated は符号反転結果を返す。
func (v Vec3) Negated() Vec3 {
	return Vec3{Vec: r3.Scale(-1, v.Vec)}
}

// Dot は内積を返す。
func (v Vec3) Dot(other Vec3) float64 {
	return r3.Dot(v.Vec, other.Vec)
}

// Cross は外積を返す。
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{Vec: r3.Cross(v.Vec, other.Vec)}
}

// Length はベクトル長を返す。
func (v Vec3) Length() float64 {
	return r3.Norm(v.Vec)
}

// LengthSqr はベクトル長の2乗を返す。
func (v Vec3) LengthSqr() float64 {
	return r3.Norm2(v.Vec)
}

// Distance は2点間距離を返す。
func (v Vec3) Distance(other Vec3) float64 {
	return r3.Norm(r3.Sub(v.Vec, other.Vec))
}

// Normalized は正規化結果を返す。長さ0の場合は零ベクトルを返す。
func (v Vec3) Normalized() Vec3 {
	length := r3.Norm(v.Vec)
	if length == 0 {
		return Vec3{}
	}
	return Vec3{Vec: r3.Scale(1.0/length, v.Vec)}
}

// Lerp は他ベクトルへの線形補間結果を返す。
func (v Vec3) Lerp(other Vec3, t float64) Vec3 {
	return v.Added(other.Subed(v).MuledScalar(t))
}

// NearEquals は許容誤差内で等しいか判定する。
func (v Vec3) NearEquals(other Vec3, tolerance float64) bool {
	return math.Abs(v.X-other.X) <= tolerance &&
		math.Abs(v.Y-other.Y) <= tolerance &&
		math.Abs(v.Z-other.Z) <= tolerance
}

// IsFinite は全成分が有限値か判定する。
func (v Vec3) IsFinite() bool {
	return IsFinite(v.X) && IsFinite(v.Y) && IsFinite(v.Z)
}

// DivideVec3 は成分ごとの除算結果を返す。
// 除数のいずれかの成分が0の場合は(1,1,1)へフォールバックする。
func DivideVec3(dividend, divisor Vec3) Vec3 {
	if divisor.X == 0 || divisor.Y == 0 || divisor.Z == 0 {
		return OneVec3()
	}
	return NewVec3(dividend.X/divisor.X, dividend.Y/divisor.Y, dividend.Z/divisor.Z)
}
