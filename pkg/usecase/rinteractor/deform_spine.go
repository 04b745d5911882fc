// 指示: miu200521358
package rinteractor

import (
	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
)

// spineLengthEpsilon は腕高さ補正で除算を見送る距離のしきい値を表す。
const spineLengthEpsilon = 1e-8

// alignSpine は背骨の中間関節を腰-頭の直線へ水平方向だけ寄せる。
// 垂直成分は変更しない。3つの整列重みがすべて0の場合は何もしない。
func (uc *BodyDeformUsecase) alignSpine(weight float64) {
	weights := uc.config.SpineAlignmentWeights
	if weights[0] == 0 && weights[1] == 0 && weights[2] == 0 {
		return
	}
	chain := uc.params.SpineChain
	if len(chain) < 3 {
		return
	}

	hips, hipsOk := uc.target.Joint(chain[0])
	head, headOk := uc.target.Joint(chain[len(chain)-1])
	if !hipsOk || !headOk {
		return
	}
	hipsPosition := hips.WorldPosition()
	headPosition := head.WorldPosition()

	for i := 1; i < len(chain)-1; i++ {
		joint, ok := uc.target.Joint(chain[i])
		if !ok {
			continue
		}
		weightIndex := i - 1
		if weightIndex > 2 {
			weightIndex = 2
		}

		position := joint.WorldPosition()
		linePoint := hipsPosition.Lerp(headPosition, uc.params.SpineHeightProportions[i])
		offset := linePoint.Subed(position)
		offset.Y = 0

		corrected := position.Added(offset.MuledScalar(weights[weightIndex] * weight))
		corrected.Y = position.Y
		uc.target.SetJointWorldPosition(chain[i], corrected)
	}
}

// applySpineCorrection は足の接地オフセット平均を腰接地オフセットとして、
// モードに応じて腰・背骨・脚へ分配する。
func (uc *BodyDeformUsecase) applySpineCorrection(footOffsets [2]mmath.Vec3, weight float64) {
	hipsOffset := footOffsets[0].Added(footOffsets[1]).MuledScalar(0.5)

	switch uc.config.SpineMode {
	case model.SPINE_CORRECTION_NONE:
		if hips, ok := uc.target.Joint(model.HIPS); ok {
			uc.target.SetJointWorldPosition(model.HIPS, hips.WorldPosition().Added(hipsOffset))
		}
	case model.SPINE_CORRECTION_ACCURATE_HEAD:
		uc.distributeHeadError(weight)
		uc.nudgeUpperArms(weight)
	case model.SPINE_CORRECTION_ACCURATE_HIPS:
		uc.applyAccurateHips(hipsOffset, weight)
	case model.SPINE_CORRECTION_ACCURATE_HIPS_AND_HEAD:
		uc.applyAccurateHips(hipsOffset, weight)
		uc.distributeHeadError(weight)
		uc.nudgeUpperArms(weight)
	}
}

// applyAccurateHips はトラッキング腰位置を正として腰を寄せ、
// 腰接地オフセットを四肢比率に応じて脚チェーンへ逆向きに分配する。
func (uc *BodyDeformUsecase) applyAccurateHips(hipsOffset mmath.Vec3, weight float64) {
	trackedHips, trackedOk := uc.tracked.Joint(model.HIPS)
	hips, hipsOk := uc.target.Joint(model.HIPS)
	if !trackedOk || !hipsOk {
		return
	}
	trackedPosition := trackedHips.WorldPosition()
	if !trackedPosition.IsFinite() {
		return
	}
	uc.target.SetJointWorldPosition(model.HIPS,
		hips.WorldPosition().Lerp(trackedPosition, weight))

	for side := 0; side < 2; side++ {
		for _, pair := range uc.params.LegPairs[side] {
			joint, ok := uc.target.Joint(pair.Start)
			if !ok {
				continue
			}
			if pair.Start == model.FOOT.Both()[side] || pair.Start == model.TOES.Both()[side] {
				// 足から先は接地側の補正に任せる
				continue
			}
			uc.target.SetJointWorldPosition(pair.Start, joint.WorldPosition().Added(
				hipsOffset.Negated().MuledScalar(pair.LimbProportion*weight)))
		}
	}
}

// distributeHeadError はトラッキング頭位置との誤差を高さ比率に応じて
// 腰-頭チェーンへ分配し、腰の移動分だけ脚も追従させる。
func (uc *BodyDeformUsecase) distributeHeadError(weight float64) {
	trackedHead, trackedOk := uc.tracked.Joint(model.HEAD)
	head, headOk := uc.target.Joint(model.HEAD)
	if !trackedOk || !headOk {
		return
	}
	trackedPosition := trackedHead.WorldPosition()
	if !trackedPosition.IsFinite() {
		return
	}
	headError := trackedPosition.Subed(head.WorldPosition())

	hipsDelta := mmath.ZeroVec3()
	for i, jointId := range uc.params.SpineChain {
		joint, ok := uc.target.Joint(jointId)
		if !ok {
			continue
		}
		delta := headError.MuledScalar(uc.params.SpineGroundProportions[i] * weight)
		if jointId == model.HIPS {
			hipsDelta = delta
		}
		uc.target.SetJointWorldPosition(jointId, joint.WorldPosition().Added(delta))
	}

	// 腰が頭基準で動いた分だけ脚を追従させ、脚長の破綻を防ぐ
	for _, jointId := range []model.JointId{
		model.UPPER_LEG.Left(), model.UPPER_LEG.Right(),
		model.LOWER_LEG.Left(), model.LOWER_LEG.Right(),
	} {
		joint, ok := uc.target.Joint(jointId)
		if !ok {
			continue
		}
		uc.target.SetJointWorldPosition(jointId, joint.WorldPosition().Added(hipsDelta))
	}
}

// nudgeUpperArms は背骨長の変化に合わせて上腕を肩の親方向へ寄せる。
// 方向の大きさがしきい値未満の場合は見送る。
func (uc *BodyDeformUsecase) nudgeUpperArms(weight float64) {
	for side := 0; side < 2; side++ {
		if !uc.params.HasShoulderParent[side] {
			continue
		}
		parent, parentOk := uc.target.Joint(uc.params.ShoulderParents[side])
		upperArm, upperArmOk := uc.target.Joint(model.UPPER_ARM.Both()[side])
		if !parentOk || !upperArmOk {
			continue
		}

		toParent := parent.WorldPosition().Subed(upperArm.WorldPosition())
		magnitude := toParent.Length()
		if magnitude < spineLengthEpsilon {
			continue
		}
		nudge := toParent.DivedScalar(magnitude).MuledScalar(
			uc.config.ArmHeightAdjustment * uc.params.ShoulderLimbProportions[side] * weight)
		uc.target.SetJointWorldPosition(model.UPPER_ARM.Both()[side],
			upperArm.WorldPosition().Added(nudge))
	}
}
