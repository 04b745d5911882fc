// 指示: miu200521358
package rinteractor

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/logging"
)

// positionRestoreExemptJoints はカスタム調整の位置再適用から除外する関節を保持する。
// 上脚・肩・首は階層の回転に応じて位置が動くことを期待する。
var positionRestoreExemptJoints = map[model.JointId]struct{}{
	model.UPPER_LEG.Left():  {},
	model.UPPER_LEG.Right(): {},
	model.SHOULDER.Left():   {},
	model.SHOULDER.Right():  {},
	model.NECK:              {},
}

// BodyDeformUsecase は全身変形パスのフレーム処理を担う。
// ステージは厳密な固定順で実行し、各ステージは前段が書き込んだ姿勢を読む。
type BodyDeformUsecase struct {
	params  *DeformParams
	config  DeformConfig
	tracked *model.Skeleton
	target  *model.Skeleton

	startPose [model.JOINT_ID_COUNT]model.Transform
}

// NewBodyDeformUsecase は全身変形パスを生成する。
func NewBodyDeformUsecase(
	tracked, target *model.Skeleton,
	params *DeformParams,
	config DeformConfig,
) (*BodyDeformUsecase, error) {
	if tracked == nil || target == nil {
		return nil, fmt.Errorf("スケルトンが未設定です")
	}
	if params == nil {
		return nil, fmt.Errorf("変形パラメーターが未設定です")
	}
	// 呼び出し側とChildrenスライスを共有しないよう、設定は複製して保持する
	var cloned DeformConfig
	if err := deepcopy.Copy(&cloned, &config); err != nil {
		return nil, fmt.Errorf("変形設定の複製に失敗しました: %w", err)
	}
	return &BodyDeformUsecase{
		params:  params,
		config:  cloned,
		tracked: tracked,
		target:  target,
	}, nil
}

// Config は現在の変形設定を返す。
func (uc *BodyDeformUsecase) Config() DeformConfig {
	return uc.config
}

// Deform は全身変形パスを重みweightで1フレーム分実行する。
// weightが0の場合は何も書き込まず、入力姿勢がそのまま出力になる。
func (uc *BodyDeformUsecase) Deform(weight float64) {
	if weight <= 0 {
		return
	}

	scale := ScaleFactor(uc.target)
	uc.snapshotStartPose()

	uc.applyCustomAdjustments(weight)
	uc.alignSpine(weight)
	uc.interpolateShoulders(weight)

	directions := uc.recomputeBoneDirections()
	uc.enforceProportions(directions, scale, weight)

	footTargets, footOffsets := uc.interpolateLegs(scale, weight)
	uc.applySpineCorrection(footOffsets, weight)
	uc.correctShoulderShape(weight)
	uc.applyAccurateFeet(footTargets, weight)
	uc.alignFeet(weight)
	uc.interpolateToeY(weight)

	uc.interpolateArms(weight)
	uc.interpolateHands(weight)

	logging.DefaultLogger().Verbose(logging.VERBOSE_INDEX_DEFORM,
		"全身変形パスを適用しました: weight=%f", weight)
}

// snapshotStartPose はフレーム開始時点の姿勢を退避する。腕・手の補間が参照する。
func (uc *BodyDeformUsecase) snapshotStartPose() {
	var current [model.JOINT_ID_COUNT]model.Transform
	for id := model.JointId(0); id < model.JOINT_ID_COUNT; id++ {
		joint, ok := uc.target.Joint(id)
		if !ok {
			continue
		}
		current[id] = model.Transform{
			Position: joint.WorldPosition(),
			Rotation: joint.WorldRotation(),
		}
	}
	uc.startPose = current
}

// applyCustomAdjustments は編集済みボーン調整を適用する。
// 主関節を回した場合の子のワールド位置をプレビューし、主関節の回転は元に戻した上で、
// 位置再適用フラグの立つ子だけへプレビュー位置を書き込む。
func (uc *BodyDeformUsecase) applyCustomAdjustments(weight float64) {
	for _, entry := range uc.config.BoneAdjustments {
		main, ok := uc.target.Joint(entry.MainJoint)
		if !ok {
			continue
		}
		delta := mmath.QuaternionIdent().Slerp(entry.RotationAdjustment, weight)
		mainPosition := main.WorldPosition()

		childCount := len(entry.Children)
		if childCount > 3 {
			childCount = 3
		}
		for i := 0; i < childCount; i++ {
			childId := entry.Children[i]
			if !entry.RestorePositionFlags[i] {
				continue
			}
			if _, exempt := positionRestoreExemptJoints[childId]; exempt {
				continue
			}
			child, childOk := uc.target.Joint(childId)
			if !childOk {
				continue
			}
			preview := mainPosition.Added(
				delta.MulVec3(child.WorldPosition().Subed(mainPosition)))
			uc.target.SetJointWorldPosition(childId, preview)
		}
	}
}

// recomputeBoneDirections は現在位置から全セグメントの正規化方向を再計算する。
func (uc *BodyDeformUsecase) recomputeBoneDirections() []mmath.Vec3 {
	directions := make([]mmath.Vec3, len(uc.params.AllPairs))
	for i, pair := range uc.params.AllPairs {
		start, startOk := uc.target.Joint(pair.Start)
		end, endOk := uc.target.Joint(pair.End)
		if !startOk || !endOk {
			continue
		}
		directions[i] = end.WorldPosition().Subed(start.WorldPosition()).Normalized()
	}
	return directions
}

// enforceProportions は各セグメントの終端位置をレスト長へ向けて再構築する。
// 元姿勢との差がどれだけ大きくても、先リグの作成時比率から離れないよう抑える。
func (uc *BodyDeformUsecase) enforceProportions(directions []mmath.Vec3, scale mmath.Vec3, weight float64) {
	for i, pair := range uc.params.AllPairs {
		start, startOk := uc.target.Joint(pair.Start)
		end, endOk := uc.target.Joint(pair.End)
		if !startOk || !endOk {
			continue
		}
		reconstructed := start.WorldPosition().Added(
			directions[i].MuledScalar(pair.RestDistance).Muled(scale))
		uc.target.SetJointWorldPosition(pair.End,
			end.WorldPosition().Lerp(reconstructed, weight))
	}
}
