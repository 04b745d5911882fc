// 指示: miu200521358
package model

import "github.com/miu200521358/mu_retarget/pkg/domain/mmath"

// Transform は位置と回転の組を表す。
type Transform struct {
	Position mmath.Vec3
	Rotation mmath.Quaternion
}

// NewTransform は単位姿勢のTransformを生成する。
func NewTransform() Transform {
	return Transform{Rotation: mmath.QuaternionIdent()}
}

// TrackedBone はトラッキング元スケルトンの1関節分の入力を表す。
type TrackedBone struct {
	Id        JointId
	Transform Transform
}
