// 指示: miu200521358
package rinteractor

import (
	"math"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
)

// footDirectionEpsilon は足方向の整列を見送る長さのしきい値を表す。
const footDirectionEpsilon = 1e-8

// interpolateLegs は足ごとの接地オフセットを計算し、脚チェーンへ加算する。
// 戻り値は各足のトラッキング目標位置と適用済みオフセットを返す。
func (uc *BodyDeformUsecase) interpolateLegs(scale mmath.Vec3, weight float64) ([2]mmath.Vec3, [2]mmath.Vec3) {
	var footTargets [2]mmath.Vec3
	var footOffsets [2]mmath.Vec3

	for side := 0; side < 2; side++ {
		footId := model.FOOT.Both()[side]
		foot, footOk := uc.target.Joint(footId)
		if !footOk {
			continue
		}
		footTargets[side] = foot.WorldPosition()

		trackedFoot, trackedOk := uc.tracked.Joint(footId)
		if !trackedOk {
			continue
		}
		trackedPosition := trackedFoot.WorldPosition()
		if !trackedPosition.IsFinite() {
			continue
		}
		footTargets[side] = trackedPosition

		offset := trackedPosition.Subed(foot.WorldPosition()).
			MuledScalar(uc.config.LegWeights[side] * weight).Muled(scale)
		footOffsets[side] = offset

		for _, jointId := range []model.JointId{
			model.UPPER_LEG.Both()[side], model.LOWER_LEG.Both()[side], footId,
		} {
			joint, ok := uc.target.Joint(jointId)
			if !ok {
				continue
			}
			uc.target.SetJointWorldPosition(jointId, joint.WorldPosition().Added(offset))
		}
	}
	return footTargets, footOffsets
}

// applyAccurateFeet は各足の位置をトラッキング目標位置へ重み付きで寄せる。
func (uc *BodyDeformUsecase) applyAccurateFeet(footTargets [2]mmath.Vec3, weight float64) {
	for side := 0; side < 2; side++ {
		footId := model.FOOT.Both()[side]
		foot, ok := uc.target.Joint(footId)
		if !ok {
			continue
		}
		uc.target.SetJointWorldPosition(footId,
			foot.WorldPosition().Lerp(footTargets[side], weight))
	}
}

// alignFeet は足をローカル上軸まわりだけ回し、足-つま先方向をトラッキング方向へ合わせる。
// つま先関節がないリグではレスト姿勢のローカル回転へ直接slerpする。
func (uc *BodyDeformUsecase) alignFeet(weight float64) {
	for side := 0; side < 2; side++ {
		footId := model.FOOT.Both()[side]
		toesId := model.TOES.Both()[side]
		foot, footOk := uc.target.Joint(footId)
		if !footOk {
			continue
		}

		if !uc.params.HasToes[side] {
			interpolated := foot.LocalRotation.Slerp(uc.target.RestLocalRotation(footId), weight)
			uc.target.SetJointLocalRotation(footId, interpolated)
			continue
		}

		toes, toesOk := uc.target.Joint(toesId)
		trackedFoot, trackedFootOk := uc.tracked.Joint(footId)
		trackedToes, trackedToesOk := uc.tracked.Joint(toesId)
		if !toesOk || !trackedFootOk || !trackedToesOk {
			continue
		}

		up := foot.WorldRotation().MulVec3(mmath.UnitYVec3())
		current := projectOffAxis(toes.WorldPosition().Subed(foot.WorldPosition()), up)
		tracked := projectOffAxis(
			trackedToes.WorldPosition().Subed(trackedFoot.WorldPosition()), up)
		if current.Length() < footDirectionEpsilon || tracked.Length() < footDirectionEpsilon {
			continue
		}
		current = current.Normalized()
		tracked = tracked.Normalized()

		angle := math.Acos(mmath.Clamped(current.Dot(tracked), -1.0, 1.0))
		if current.Cross(tracked).Dot(up) < 0 {
			angle = -angle
		}
		rotation := mmath.NewQuaternionAxisAngle(up, angle*weight)
		uc.target.SetJointWorldRotation(footId, rotation.Muled(foot.WorldRotation()))
	}
}

// interpolateToeY はつま先の垂直成分だけをレスト高さへ重み付きで寄せる。
func (uc *BodyDeformUsecase) interpolateToeY(weight float64) {
	for side := 0; side < 2; side++ {
		if !uc.params.HasToes[side] {
			continue
		}
		footId := model.FOOT.Both()[side]
		toesId := model.TOES.Both()[side]
		foot, footOk := uc.target.Joint(footId)
		toes, toesOk := uc.target.Joint(toesId)
		if !footOk || !toesOk {
			continue
		}

		restWorld := foot.WorldPosition().Added(
			foot.WorldRotation().MulVec3(uc.target.RestLocalPosition(toesId)))
		position := toes.WorldPosition()
		position.Y = mmath.Lerp(position.Y, restWorld.Y, weight)
		uc.target.SetJointWorldPosition(toesId, position)
	}
}

// projectOffAxis はベクトルから軸方向成分を取り除く。
func projectOffAxis(v, axis mmath.Vec3) mmath.Vec3 {
	return v.Subed(axis.MuledScalar(v.Dot(axis)))
}
