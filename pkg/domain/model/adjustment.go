// 指示: miu200521358
package model

import "github.com/miu200521358/mu_retarget/pkg/domain/mmath"

// JointAdjustment は関節ごとのユーザー指定の補正上書きを表す。
type JointAdjustment struct {
	Joint           JointId
	DisablePosition bool
	DisableRotation bool
	RotationChange  mmath.Quaternion
}

// NewJointAdjustment は回転変更なしのJointAdjustmentを生成する。
func NewJointAdjustment(joint JointId) *JointAdjustment {
	return &JointAdjustment{
		Joint:          joint,
		RotationChange: mmath.QuaternionIdent(),
	}
}

// JointPositionAdjustment は下流拘束の前後で記録した関節位置の組を表す。
type JointPositionAdjustment struct {
	Joint            JointId
	OriginalPosition mmath.Vec3
	FinalPosition    mmath.Vec3
}

// Offset は拘束前後の位置差分を返す。
// いずれかの位置が非有限値の場合は零ベクトルを返す。再初期化中のみ非有限値が現れる。
func (a *JointPositionAdjustment) Offset() mmath.Vec3 {
	if !a.OriginalPosition.IsFinite() || !a.FinalPosition.IsFinite() {
		return mmath.ZeroVec3()
	}
	return a.FinalPosition.Subed(a.OriginalPosition)
}

// BoneAdjustmentEntry は静的に編集されたボーン回転調整を表す。
// Childrenは最大3関節。RestorePositionFlagsは対応する子の位置再適用可否を表す。
type BoneAdjustmentEntry struct {
	MainJoint            JointId
	RotationAdjustment   mmath.Quaternion
	Children             []JointId
	RestorePositionFlags [3]bool
}

// SpineCorrectionMode は背骨補正時にどの基準点を正とするかを表す。
type SpineCorrectionMode int

const (
	SPINE_CORRECTION_NONE SpineCorrectionMode = iota
	SPINE_CORRECTION_ACCURATE_HEAD
	SPINE_CORRECTION_ACCURATE_HIPS
	SPINE_CORRECTION_ACCURATE_HIPS_AND_HEAD
)

// spineCorrectionModeNames はSpineCorrectionModeから表示名への対応を保持する。
var spineCorrectionModeNames = map[SpineCorrectionMode]string{
	SPINE_CORRECTION_NONE:                   "None",
	SPINE_CORRECTION_ACCURATE_HEAD:          "AccurateHead",
	SPINE_CORRECTION_ACCURATE_HIPS:          "AccurateHips",
	SPINE_CORRECTION_ACCURATE_HIPS_AND_HEAD: "AccurateHipsAndHead",
}

// String は補正モードの表示名を返す。
func (m SpineCorrectionMode) String() string {
	if name, ok := spineCorrectionModeNames[m]; ok {
		return name
	}
	return "Unknown"
}

// ParseSpineCorrectionMode は表示名からSpineCorrectionModeを引く。
func ParseSpineCorrectionMode(name string) (SpineCorrectionMode, bool) {
	for mode, modeName := range spineCorrectionModeNames {
		if modeName == name {
			return mode, true
		}
	}
	return SPINE_CORRECTION_NONE, false
}
