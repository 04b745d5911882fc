// 指示: miu200521358
package rinteractor

import (
	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
)

// AdjustmentTable は関節ごとの上書き設定と拘束前後の位置記録を保持する。
// 位置記録は毎フレーム更新され、上書き設定の変更はdirtyフラグで同期対象になる。
type AdjustmentTable struct {
	adjustments         [model.JOINT_ID_COUNT]*model.JointAdjustment
	positionAdjustments [model.JOINT_ID_COUNT]*model.JointPositionAdjustment
	sectionPositions    [model.SECTION_COUNT]bool
	dirty               bool
}

// NewAdjustmentTable は全身体区分の位置更新を有効にしたテーブルを生成する。
func NewAdjustmentTable() *AdjustmentTable {
	table := &AdjustmentTable{dirty: true}
	for section := model.BodySection(0); section < model.SECTION_COUNT; section++ {
		table.sectionPositions[section] = true
	}
	return table
}

// SetAdjustment は関節の上書き設定を登録する。
func (t *AdjustmentTable) SetAdjustment(adjustment *model.JointAdjustment) {
	if adjustment == nil || !adjustment.Joint.IsValid() {
		return
	}
	t.adjustments[adjustment.Joint] = adjustment
	t.dirty = true
}

// RemoveAdjustment は関節の上書き設定を解除する。
func (t *AdjustmentTable) RemoveAdjustment(joint model.JointId) {
	if !joint.IsValid() {
		return
	}
	t.adjustments[joint] = nil
	t.dirty = true
}

// Adjustment は関節の上書き設定を返す。未登録の場合はfalseを返す。
func (t *AdjustmentTable) Adjustment(joint model.JointId) (*model.JointAdjustment, bool) {
	if !joint.IsValid() || t.adjustments[joint] == nil {
		return nil, false
	}
	return t.adjustments[joint], true
}

// SetSectionPositionUpdate は身体区分ごとの位置更新可否を設定する。
func (t *AdjustmentTable) SetSectionPositionUpdate(section model.BodySection, enabled bool) {
	if section < 0 || section >= model.SECTION_COUNT {
		return
	}
	t.sectionPositions[section] = enabled
	t.dirty = true
}

// SectionPositionUpdate は身体区分の位置更新可否を返す。
func (t *AdjustmentTable) SectionPositionUpdate(section model.BodySection) bool {
	if section < 0 || section >= model.SECTION_COUNT {
		return false
	}
	return t.sectionPositions[section]
}

// RecordPositionAdjustment は拘束前後の関節位置を記録する。毎フレーム上書きされる。
func (t *AdjustmentTable) RecordPositionAdjustment(joint model.JointId, original, final mmath.Vec3) {
	if !joint.IsValid() {
		return
	}
	t.positionAdjustments[joint] = &model.JointPositionAdjustment{
		Joint:            joint,
		OriginalPosition: original,
		FinalPosition:    final,
	}
}

// PositionOffset は拘束前後の位置差分を返す。記録がない場合は零ベクトルを返す。
func (t *AdjustmentTable) PositionOffset(joint model.JointId) mmath.Vec3 {
	if !joint.IsValid() || t.positionAdjustments[joint] == nil {
		return mmath.ZeroVec3()
	}
	return t.positionAdjustments[joint].Offset()
}

// IsDirty は同期が必要か判定する。
func (t *AdjustmentTable) IsDirty() bool {
	return t.dirty
}

// MarkSynced は同期済みとして記録する。
func (t *AdjustmentTable) MarkSynced() {
	t.dirty = false
}

// MarkDirty は同期が必要として記録する。
func (t *AdjustmentTable) MarkDirty() {
	t.dirty = true
}

// AdjustmentArrays はマップ済み関節ごとのindex整列済み補正入力列を表す。
// 全スライスは同じ長さで、同じindexが同じ関節を指す。
type AdjustmentArrays struct {
	Joints              []model.JointId
	SourceTransforms    []model.Transform
	TargetTransforms    []model.Transform
	UpdatePositions     []bool
	UpdateRotations     []bool
	RotationOffsets     []mmath.Quaternion
	RotationAdjustments []mmath.Quaternion
}

// BuildAdjustmentArrays は固定の関節走査順で補正入力列を構築する。
// capacityが0以上の場合、超過分の関節は黙って切り詰める。スケルトン再生成直後に
// 消費側バッファが未リサイズの間だけ発生し、範囲外アクセスの代わりに補正を見送る。
func BuildAdjustmentArrays(
	correctionMap *CorrectionMap,
	tracked, target *model.Skeleton,
	table *AdjustmentTable,
	mask model.BodyPartMask,
	capacity int,
) *AdjustmentArrays {
	arrays := &AdjustmentArrays{}
	for id := model.JointId(0); id < model.JOINT_ID_COUNT; id++ {
		if capacity >= 0 && len(arrays.Joints) >= capacity {
			break
		}
		correction, ok := correctionMap.Correction(id)
		if !ok || correction.CorrectionQuaternion == nil {
			continue
		}
		trackedJoint, trackedOk := tracked.Joint(id)
		targetJoint, targetOk := target.Joint(id)
		if !trackedOk || !targetOk {
			continue
		}

		section := model.SectionOfJoint(id)
		updatePosition := mask.IsEnabled(section) && table.SectionPositionUpdate(section)
		updateRotation := mask.IsEnabled(section)
		rotationAdjustment := mmath.QuaternionIdent()
		if adjustment, hasAdjustment := table.Adjustment(id); hasAdjustment {
			updatePosition = updatePosition && !adjustment.DisablePosition
			updateRotation = updateRotation && !adjustment.DisableRotation
			rotationAdjustment = adjustment.RotationChange
		}

		arrays.Joints = append(arrays.Joints, id)
		arrays.SourceTransforms = append(arrays.SourceTransforms, model.Transform{
			Position: trackedJoint.WorldPosition(),
			Rotation: trackedJoint.WorldRotation(),
		})
		arrays.TargetTransforms = append(arrays.TargetTransforms, model.Transform{
			Position: targetJoint.WorldPosition(),
			Rotation: targetJoint.WorldRotation(),
		})
		arrays.UpdatePositions = append(arrays.UpdatePositions, updatePosition)
		arrays.UpdateRotations = append(arrays.UpdateRotations, updateRotation)
		arrays.RotationOffsets = append(arrays.RotationOffsets, *correction.CorrectionQuaternion)
		arrays.RotationAdjustments = append(arrays.RotationAdjustments, rotationAdjustment)
	}
	return arrays
}

// Len は整列済み関節数を返す。
func (a *AdjustmentArrays) Len() int {
	return len(a.Joints)
}
