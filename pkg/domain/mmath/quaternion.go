// 指示: miu200521358
package mmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quaternion は回転を表すクォータニオンを表す。
type Quaternion struct {
	mgl64.Quat
}

// NewQuaternion は成分指定でQuaternionを生成する。
func NewQuaternion(x, y, z, w float64) Quaternion {
	return Quaternion{Quat: mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}}
}

// QuaternionIdent は単位クォータニオンを返す。
func QuaternionIdent() Quaternion {
	return Quaternion{Quat: mgl64.QuatIdent()}
}

// NewQuaternionAxisAngle は軸と回転角(ラジアン)からQuaternionを生成する。
func NewQuaternionAxisAngle(axis Vec3, rad float64) Quaternion {
	unit := axis.Normalized()
	return Quaternion{Quat: mgl64.QuatRotate(rad, mgl64.Vec3{unit.X, unit.Y, unit.Z})}
}

// NewQuaternionRotate は2ベクトル間の回転を表すQuaternionを生成する。
func NewQuaternionRotate(from, to Vec3) Quaternion {
	return Quaternion{Quat: mgl64.QuatBetweenVectors(
		mgl64.Vec3{from.X, from.Y, from.Z}, mgl64.Vec3{to.X, to.Y, to.Z})}
}

// NewQuaternionFromDegrees はXYZオイラー角(度)からQuaternionを生成する。
func NewQuaternionFromDegrees(xDegree, yDegree, zDegree float64) Quaternion {
	qx := mgl64.QuatRotate(DegToRad(xDegree), mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(DegToRad(yDegree), mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(DegToRad(zDegree), mgl64.Vec3{0, 0, 1})
	return Quaternion{Quat: qz.Mul(qy).Mul(qx)}
}

// Muled は回転の合成結果を返す。
func (q Quaternion) Muled(other Quaternion) Quaternion {
	return Quaternion{Quat: q.Quat.Mul(other.Quat)}
}

// Inverted は逆回転を返す。
func (q Quaternion) Inverted() Quaternion {
	return Quaternion{Quat: q.Quat.Inverse()}
}

// Normalized は正規化結果を返す。
func (q Quaternion) Normalized() Quaternion {
	return Quaternion{Quat: q.Quat.Normalize()}
}

// MulVec3 はベクトルへ回転を適用する。
func (q Quaternion) MulVec3(v Vec3) Vec3 {
	rotated := q.Quat.Rotate(mgl64.Vec3{v.X, v.Y, v.Z})
	return NewVec3(rotated.X(), rotated.Y(), rotated.Z())
}

// Slerp は他回転への球面線形補間結果を返す。
func (q Quaternion) Slerp(other Quaternion, t float64) Quaternion {
	return Quaternion{Quat: mgl64.QuatSlerp(q.Quat, other.Quat, t)}
}

// Dot は内積を返す。
func (q Quaternion) Dot(other Quaternion) float64 {
	return q.Quat.Dot(other.Quat)
}

// NearEquals は同一姿勢を表すか許容誤差内で判定する。
// q と -q は同一回転として扱う。
func (q Quaternion) NearEquals(other Quaternion, tolerance float64) bool {
	return math.Abs(math.Abs(q.Dot(other))-1.0) <= tolerance
}

// X はX成分を返す。
func (q Quaternion) X() float64 {
	return q.Quat.V[0]
}

// Y はY成分を返す。
func (q Quaternion) Y() float64 {
	return q.Quat.V[1]
}

// Z はZ成分を返す。
func (q Quaternion) Z() float64 {
	return q.Quat.V[2]
}

// ToAxisAngle は回転軸と回転角(ラジアン)へ分解する。
// 回転角がほぼ0の場合はY軸と0を返す。
func (q Quaternion) ToAxisAngle() (Vec3, float64) {
	normalized := q.Quat.Normalize()
	w := Clamped(normalized.W, -1.0, 1.0)
	angle := 2.0 * math.Acos(w)
	sinHalf := math.Sqrt(1.0 - w*w)
	if sinHalf < 1e-10 {
		return UnitYVec3(), 0
	}
	axis := NewVec3(normalized.V[0]/sinHalf, normalized.V[1]/sinHalf, normalized.V[2]/sinHalf)
	return axis, angle
}
